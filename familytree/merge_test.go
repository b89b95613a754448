package familytree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDuplicatesGroupsByNormalizedKey(t *testing.T) {
	a := testPerson(1, "Alice", "Smith")
	b := testPerson(2, "ALICE", "smith")
	c := testPerson(3, "Ben", "Jones")
	a.BirthDate = "1990-01-01"
	b.BirthDate = "1990-01-01"
	g := FromPeople([]*Person{a, b, c})

	groups := FindDuplicates(g)

	require.Len(t, groups, 1)
	require.Len(t, groups[0], 2)
	assert.Equal(t, 1, groups[0][0].ID)
	assert.Equal(t, 2, groups[0][1].ID)
}

func TestFindDuplicatesBirthDateDistinguishes(t *testing.T) {
	a := testPerson(1, "Alice", "Smith")
	b := testPerson(2, "Alice", "Smith")
	a.BirthDate = "1990-01-01"
	b.BirthDate = "1991-01-01"
	g := FromPeople([]*Person{a, b})

	assert.Empty(t, FindDuplicates(g))
}

func TestFindDuplicatesIgnoresFullyEmptyKeys(t *testing.T) {
	a := testPerson(1, "", "")
	b := testPerson(2, "", "")
	g := FromPeople([]*Person{a, b})

	assert.Empty(t, FindDuplicates(g))
}

func TestMergeUnionsEdgesAndRewritesReferences(t *testing.T) {
	survivor := testPerson(1, "Alice", "Smith")
	dup := testPerson(2, "Alice", "Smith")
	parent := testPerson(3, "Pat", "Smith")
	spouse := testPerson(4, "Ben", "Jones")

	survivor.Parents = []int{3}
	dup.Spouse = []int{4}
	spouse.Spouse = []int{2}
	parent.Children = []int{1, 2}

	g := FromPeople([]*Person{survivor, dup, parent, spouse})

	err := Merge(g, 1, []int{1, 2})
	require.NoError(t, err)

	assert.False(t, g.Contains(2))
	assert.Equal(t, []int{3}, survivor.Parents)
	assert.Equal(t, []int{4}, survivor.Spouse)
	// inbound references are rewritten and deduplicated
	assert.Equal(t, []int{1}, spouse.Spouse)
	assert.Equal(t, []int{1}, parent.Children)
}

func TestMergePhotoAndBioFirstWins(t *testing.T) {
	photoA := "a.jpg"
	photoB := "b.jpg"
	survivor := testPerson(1, "Alice", "Smith")
	dupA := testPerson(2, "Alice", "Smith")
	dupB := testPerson(3, "Alice", "Smith")
	dupA.Photo = &photoA
	dupA.Bio = "first bio"
	dupB.Photo = &photoB
	dupB.Bio = "second bio"
	g := FromPeople([]*Person{survivor, dupA, dupB})

	err := Merge(g, 1, []int{1, 2, 3})
	require.NoError(t, err)

	require.NotNil(t, survivor.Photo)
	assert.Equal(t, "a.jpg", *survivor.Photo)
	assert.Equal(t, "first bio", survivor.Bio)
}

func TestMergeKeepsSurvivorPhoto(t *testing.T) {
	photoS := "mine.jpg"
	photoD := "other.jpg"
	survivor := testPerson(1, "Alice", "Smith")
	dup := testPerson(2, "Alice", "Smith")
	survivor.Photo = &photoS
	dup.Photo = &photoD
	g := FromPeople([]*Person{survivor, dup})

	require.NoError(t, Merge(g, 1, []int{1, 2}))
	assert.Equal(t, "mine.jpg", *survivor.Photo)
}

func TestMergeSurvivorMustBeInDuplicateSet(t *testing.T) {
	survivor := testPerson(1, "Alice", "Smith")
	dup := testPerson(2, "Alice", "Smith")
	g := FromPeople([]*Person{survivor, dup})

	err := Merge(g, 1, []int{2})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.True(t, g.Contains(2))
}

func TestMergeUnknownSurvivor(t *testing.T) {
	g := FromPeople([]*Person{testPerson(2, "Alice", "Smith")})

	err := Merge(g, 1, []int{1, 2})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMergeStripsSelfAndDanglingFromSurvivor(t *testing.T) {
	survivor := testPerson(1, "Alice", "Smith")
	dup := testPerson(2, "Alice", "Smith")
	// the duplicates referenced each other; after folding, those edges must
	// not survive as self-references
	survivor.Spouse = []int{2}
	dup.Spouse = []int{1}
	g := FromPeople([]*Person{survivor, dup})

	require.NoError(t, Merge(g, 1, []int{1, 2}))
	assert.Empty(t, survivor.Spouse)
}

package familytree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeParent(t *testing.T) {
	parent := testPerson(1, "Pat", "Smith")
	child := testPerson(2, "Alice", "Smith")
	child.Parents = []int{1}
	g := FromPeople([]*Person{parent, child})

	label, err := Describe(g, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, "Pat Smith is a parent of Alice Smith", label)

	// symmetric lookup order
	label, err = Describe(g, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Pat Smith is a parent of Alice Smith", label)
}

func TestDescribeSiblingBeatsSpouse(t *testing.T) {
	// records that are both siblings (shared parent) and listed spouses:
	// the sibling rule has higher precedence
	parent := testPerson(1, "Pat", "Smith")
	a := testPerson(2, "Alice", "Smith")
	b := testPerson(3, "Bob", "Smith")
	a.Parents = []int{1}
	b.Parents = []int{1}
	a.Spouse = []int{3}
	b.Spouse = []int{2}
	g := FromPeople([]*Person{parent, a, b})

	label, err := Describe(g, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith and Bob Smith are siblings", label)
}

func TestDescribeSiblingReadsParentsNotSiblingLists(t *testing.T) {
	a := testPerson(1, "Alice", "Smith")
	b := testPerson(2, "Bob", "Smith")
	a.Siblings = []int{2}
	b.Siblings = []int{1}
	g := FromPeople([]*Person{a, b})

	label, err := Describe(g, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "No direct relationship found", label)
}

func TestDescribeCousins(t *testing.T) {
	grandparent := testPerson(1, "Gran", "Smith")
	parentA := testPerson(2, "Pat", "Smith")
	parentB := testPerson(3, "Quinn", "Smith")
	a := testPerson(4, "Alice", "Smith")
	b := testPerson(5, "Bob", "Smith")
	parentA.Parents = []int{1}
	parentB.Parents = []int{1}
	a.Parents = []int{2}
	b.Parents = []int{3}
	g := FromPeople([]*Person{grandparent, parentA, parentB, a, b})

	label, err := Describe(g, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith and Bob Smith are cousins", label)
}

func TestDescribeSiblingsNotCousins(t *testing.T) {
	// a shared parent must classify as siblings, never as cousins through
	// that same parent
	grandparent := testPerson(1, "Gran", "Smith")
	parent := testPerson(2, "Pat", "Smith")
	a := testPerson(3, "Alice", "Smith")
	b := testPerson(4, "Bob", "Smith")
	parent.Parents = []int{1}
	a.Parents = []int{2}
	b.Parents = []int{2}
	g := FromPeople([]*Person{grandparent, parent, a, b})

	label, err := Describe(g, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith and Bob Smith are siblings", label)
}

func TestDescribeSpouse(t *testing.T) {
	a := testPerson(1, "Alice", "Smith")
	b := testPerson(2, "Ben", "Jones")
	a.Spouse = []int{2}
	g := FromPeople([]*Person{a, b})

	label, err := Describe(g, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith and Ben Jones are spouses", label)
}

func TestDescribeUnknownPerson(t *testing.T) {
	g := FromPeople([]*Person{testPerson(1, "Alice", "Smith")})

	_, err := Describe(g, 1, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInferMissing(t *testing.T) {
	p := testPerson(1, "Alice", "Smith")
	spouse := testPerson(2, "Ben", "Smith")
	child := testPerson(3, "Cal", "Smith")
	parent := testPerson(4, "Pat", "Smith")
	listedSib := testPerson(5, "Dee", "Smith")
	unlistedSib := testPerson(7, "Eve", "Smith")

	p.Spouse = []int{2}
	spouse.Children = []int{3}
	p.Parents = []int{4}
	parent.Children = []int{1, 5, 7}
	p.Siblings = []int{5}
	listedSib.Parents = []int{4, 6} // 6 does not exist but is still a candidate id

	g := FromPeople([]*Person{p, spouse, child, parent, listedSib, unlistedSib})

	missing, err := InferMissing(g, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, missing.Children)
	assert.Equal(t, []int{7}, missing.Siblings)
	assert.Equal(t, []int{6}, missing.Parents)
}

func TestInferMissingExcludesAlreadyListed(t *testing.T) {
	p := testPerson(1, "Alice", "Smith")
	spouse := testPerson(2, "Ben", "Smith")
	child := testPerson(3, "Cal", "Smith")
	p.Spouse = []int{2}
	p.Children = []int{3}
	spouse.Children = []int{3}
	g := FromPeople([]*Person{p, spouse, child})

	missing, err := InferMissing(g, 1)
	require.NoError(t, err)
	assert.Empty(t, missing.Children)
}

func TestInferMissingUnknownPerson(t *testing.T) {
	g := NewGraph()
	_, err := InferMissing(g, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

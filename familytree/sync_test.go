package familytree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPerson(id int, first, last string) *Person {
	return &Person{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Gender:    "unknown",
		Parents:   []int{},
		Children:  []int{},
		Spouse:    []int{},
		Siblings:  []int{},
	}
}

func TestSyncSiblingsSharedParent(t *testing.T) {
	parent := testPerson(1, "Pat", "Smith")
	a := testPerson(2, "Alice", "Smith")
	b := testPerson(3, "Bob", "Smith")
	a.Parents = []int{1}
	b.Parents = []int{1}
	g := FromPeople([]*Person{parent, a, b})

	SyncSiblings(g)

	assert.Equal(t, []int{3}, a.Siblings)
	assert.Equal(t, []int{2}, b.Siblings)
	assert.Empty(t, parent.Siblings)
}

func TestSyncSiblingsTransitiveClosure(t *testing.T) {
	// a-b share a parent, b-c have an explicit sibling edge; all three end
	// up in one component
	parent := testPerson(1, "Pat", "Smith")
	a := testPerson(2, "Alice", "Smith")
	b := testPerson(3, "Bob", "Smith")
	c := testPerson(4, "Cara", "Smith")
	a.Parents = []int{1}
	b.Parents = []int{1}
	b.Siblings = []int{4}
	g := FromPeople([]*Person{parent, a, b, c})

	SyncSiblings(g)

	assert.Equal(t, []int{3, 4}, a.Siblings)
	assert.Equal(t, []int{2, 4}, b.Siblings)
	assert.Equal(t, []int{2, 3}, c.Siblings)
}

func TestSyncSiblingsIdempotent(t *testing.T) {
	parent := testPerson(1, "Pat", "Smith")
	a := testPerson(2, "Alice", "Smith")
	b := testPerson(3, "Bob", "Smith")
	a.Parents = []int{1}
	b.Parents = []int{1}
	a.Siblings = []int{3}
	g := FromPeople([]*Person{parent, a, b})

	SyncSiblings(g)
	first := append([]int(nil), a.Siblings...)
	SyncSiblings(g)

	assert.Equal(t, first, a.Siblings)
	assert.Equal(t, []int{2}, b.Siblings)
}

func TestSyncSiblingsDropsUnexplainedEdge(t *testing.T) {
	// an explicit sibling edge pointing at a removed id has no surviving
	// explanation and is recomputed away
	a := testPerson(1, "Alice", "Smith")
	a.Siblings = []int{99}
	g := FromPeople([]*Person{a})

	SyncSiblings(g)

	assert.Empty(t, a.Siblings)
}

func TestSyncSpousesSymmetry(t *testing.T) {
	a := testPerson(1, "Alice", "Smith")
	b := testPerson(2, "Ben", "Jones")
	a.Spouse = []int{2}
	g := FromPeople([]*Person{a, b})

	SyncSpouses(g)

	assert.Equal(t, []int{2}, a.Spouse)
	assert.Equal(t, []int{1}, b.Spouse)
}

func TestSyncSpousesPrunesDanglingAndSelf(t *testing.T) {
	a := testPerson(1, "Alice", "Smith")
	a.Spouse = []int{1, 42}
	g := FromPeople([]*Person{a})

	SyncSpouses(g)

	assert.Empty(t, a.Spouse)
}

func TestPropagateSpouseChildrenOneHop(t *testing.T) {
	a := testPerson(1, "Alice", "Smith")
	b := testPerson(2, "Ben", "Smith")
	child := testPerson(3, "Cal", "Smith")
	a.Spouse = []int{2}
	b.Spouse = []int{1}
	a.Children = []int{3}
	g := FromPeople([]*Person{a, b, child})

	PropagateSpouseChildren(g)

	assert.Equal(t, []int{3}, a.Children)
	assert.Equal(t, []int{3}, b.Children)
}

func TestSynchronizeNoSelfReferences(t *testing.T) {
	a := testPerson(1, "Alice", "Smith")
	b := testPerson(2, "Ben", "Smith")
	a.Spouse = []int{2}
	a.Children = []int{2} // spouse listed as child; propagation must not bounce ids onto themselves
	g := FromPeople([]*Person{a, b})

	Synchronize(g)

	for _, p := range g.People() {
		for _, kind := range allKinds {
			assert.NotContains(t, p.Edges(kind), p.ID, "%s of %d", kind, p.ID)
		}
	}
}

func TestDeleteStripsReferencesAndResyncs(t *testing.T) {
	parent := testPerson(1, "Pat", "Smith")
	a := testPerson(2, "Alice", "Smith")
	b := testPerson(3, "Bob", "Smith")
	a.Parents = []int{1}
	b.Parents = []int{1}
	parent.Children = []int{2, 3}
	g := FromPeople([]*Person{parent, a, b})
	Synchronize(g)
	require.Equal(t, []int{3}, a.Siblings)

	removed := Delete(g, 1)

	require.NotNil(t, removed)
	assert.Equal(t, 1, removed.ID)
	assert.False(t, g.Contains(1))
	assert.Empty(t, a.Parents)
	assert.Empty(t, b.Parents)
	// the explicit sibling edges written by the earlier closure still
	// explain the grouping, so it survives the parent's removal
	assert.Equal(t, []int{3}, a.Siblings)
	assert.Equal(t, []int{2}, b.Siblings)
}

func TestDeleteMissingIDIsNoOp(t *testing.T) {
	a := testPerson(1, "Alice", "Smith")
	g := FromPeople([]*Person{a})

	assert.Nil(t, Delete(g, 99))
	assert.Equal(t, 1, g.Len())
}

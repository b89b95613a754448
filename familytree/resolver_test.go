package familytree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveListBracketedID(t *testing.T) {
	subject := testPerson(1, "Alice", "Smith")
	target := testPerson(2, "Ben", "Jones")
	g := FromPeople([]*Person{subject, target})

	resolutions := ResolveList(g, "Ben Jones [2]", KindSpouse, 1)

	require.Len(t, resolutions, 1)
	assert.Equal(t, 2, resolutions[0].ID)
	assert.False(t, resolutions[0].Created)
	// the bracketed id wins even when the name text matches nothing
	resolutions = ResolveList(g, "Completely Different [2]", KindSpouse, 1)
	require.Len(t, resolutions, 1)
	assert.Equal(t, 2, resolutions[0].ID)
}

func TestResolveListNumericID(t *testing.T) {
	subject := testPerson(1, "Alice", "Smith")
	target := testPerson(2, "Ben", "Jones")
	g := FromPeople([]*Person{subject, target})

	resolutions := ResolveList(g, "2", KindChildren, 1)

	require.Len(t, resolutions, 1)
	assert.Equal(t, 2, resolutions[0].ID)
}

func TestResolveListUnknownIDsDropped(t *testing.T) {
	subject := testPerson(1, "Alice", "Smith")
	g := FromPeople([]*Person{subject})

	assert.Empty(t, ResolveList(g, "Ghost [99]", KindParents, 1))
	assert.Empty(t, ResolveList(g, "99", KindParents, 1))
	assert.Equal(t, 1, g.Len())
}

func TestResolveListNameMatchCaseInsensitive(t *testing.T) {
	subject := testPerson(1, "Alice", "Smith")
	target := testPerson(2, "Ben", "Jones")
	g := FromPeople([]*Person{subject, target})

	resolutions := ResolveList(g, "bEn jOnEs", KindSpouse, 1)

	require.Len(t, resolutions, 1)
	assert.Equal(t, 2, resolutions[0].ID)
	assert.False(t, resolutions[0].Created)
	// the match also receives the reciprocal edge
	assert.Equal(t, []int{1}, target.Spouse)
}

func TestResolveListNameMatchFirstInInsertionOrder(t *testing.T) {
	subject := testPerson(1, "Alice", "Smith")
	first := testPerson(2, "Ben", "Jones")
	second := testPerson(3, "Ben", "Jones")
	g := FromPeople([]*Person{subject, first, second})

	resolutions := ResolveList(g, "Ben Jones", KindChildren, 1)

	require.Len(t, resolutions, 1)
	assert.Equal(t, 2, resolutions[0].ID)
}

func TestResolveListMintsPlaceholder(t *testing.T) {
	subject := testPerson(1, "Alice", "Smith")
	g := FromPeople([]*Person{subject})

	resolutions := ResolveList(g, "Jane Marie Doe", KindParents, 1)

	require.Len(t, resolutions, 1)
	assert.True(t, resolutions[0].Created)
	assert.Equal(t, 2, resolutions[0].ID)

	placeholder := g.Get(2)
	require.NotNil(t, placeholder)
	assert.Equal(t, "Jane", placeholder.FirstName)
	assert.Equal(t, "Doe", placeholder.LastName)
	assert.Equal(t, "unknown", placeholder.Gender)
	assert.Equal(t, PlaceholderBio, placeholder.Bio)
	// a parent entry gives the placeholder the subject as a child
	assert.Equal(t, []int{1}, placeholder.Children)
}

func TestResolveListPlaceholderSiblingReciprocal(t *testing.T) {
	subject := testPerson(1, "Alice", "Smith")
	g := FromPeople([]*Person{subject})

	resolutions := ResolveList(g, "Bob Smith", KindSiblings, 1)

	require.Len(t, resolutions, 1)
	placeholder := g.Get(resolutions[0].ID)
	require.NotNil(t, placeholder)
	assert.Equal(t, []int{1}, placeholder.Siblings)
}

func TestResolveListMixedEntriesAndBlanks(t *testing.T) {
	subject := testPerson(1, "Alice", "Smith")
	ben := testPerson(2, "Ben", "Jones")
	g := FromPeople([]*Person{subject, ben})

	resolutions := ResolveList(g, " 2 , , New Person , Ghost [50] ", KindChildren, 1)

	require.Len(t, resolutions, 2)
	assert.Equal(t, 2, resolutions[0].ID)
	assert.True(t, resolutions[1].Created)
	assert.Equal(t, 3, resolutions[1].ID)
}

func TestResolveIDsDeduplicates(t *testing.T) {
	ids := ResolveIDs([]Resolution{{ID: 2}, {ID: 3}, {ID: 2}})
	assert.Equal(t, []int{2, 3}, ids)
}

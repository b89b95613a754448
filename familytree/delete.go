package familytree

// Delete removes a record and strips every reference to it from the rest of
// the graph, then re-derives the sibling closure (removing a shared parent
// can dissolve a sibling grouping). Deleting an id with no record is a no-op.
// Returns the removed record, or nil.
func Delete(g *Graph, id int) *Person {
	p := g.Get(id)
	if p == nil {
		return nil
	}

	g.Remove(id)
	for _, other := range g.People() {
		for _, kind := range allKinds {
			other.SetEdges(kind, removeIDFrom(other.Edges(kind), id))
		}
	}
	SyncSiblings(g)
	return p
}

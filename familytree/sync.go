package familytree

// SyncSiblings recomputes every record's sibling list as the connected
// component it belongs to, minus itself. Components are formed over explicit
// sibling edges and co-membership under any shared parents entry. This is a
// full recomputation, not an additive merge: a sibling edge explainable by
// neither source is lost. Running it twice yields the same result as once.
func SyncSiblings(g *Graph) {
	adj := make(map[int]map[int]struct{}, g.Len())
	link := func(a, b int) {
		if a == b {
			return
		}
		if adj[a] == nil {
			adj[a] = make(map[int]struct{})
		}
		if adj[b] == nil {
			adj[b] = make(map[int]struct{})
		}
		adj[a][b] = struct{}{}
		adj[b][a] = struct{}{}
	}

	parentToChildren := make(map[int][]int)
	for _, p := range g.People() {
		for _, sib := range p.Siblings {
			if g.Contains(sib) {
				link(p.ID, sib)
			}
		}
		for _, parent := range p.Parents {
			parentToChildren[parent] = append(parentToChildren[parent], p.ID)
		}
	}
	for _, children := range parentToChildren {
		for i := 1; i < len(children); i++ {
			link(children[0], children[i])
		}
	}

	visited := make(map[int]struct{}, g.Len())
	for _, p := range g.People() {
		if _, done := visited[p.ID]; done {
			continue
		}

		// BFS over the combined adjacency
		component := map[int]struct{}{p.ID: {}}
		queue := []int{p.ID}
		visited[p.ID] = struct{}{}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for next := range adj[cur] {
				if _, seen := visited[next]; seen {
					continue
				}
				visited[next] = struct{}{}
				component[next] = struct{}{}
				queue = append(queue, next)
			}
		}

		for id := range component {
			member := g.Get(id)
			if member == nil {
				continue
			}
			rest := make(map[int]struct{}, len(component)-1)
			for other := range component {
				if other != id {
					rest[other] = struct{}{}
				}
			}
			member.Siblings = sortedIDs(rest)
		}
	}
}

// SyncSpouses enforces spouse-edge symmetry: for every listed spouse id that
// exists, the reverse edge is added if missing; ids that no longer exist, or
// point at the record itself, are pruned.
func SyncSpouses(g *Graph) {
	for _, p := range g.People() {
		kept := p.Spouse[:0]
		for _, id := range p.Spouse {
			other := g.Get(id)
			if other == nil || id == p.ID {
				continue
			}
			kept = append(kept, id)
			other.Spouse = appendID(other.Spouse, p.ID)
		}
		p.Spouse = dedupeIDs(kept)
	}
}

// PropagateSpouseChildren unions each record's children with those of its
// direct spouses, in both directions. A single pass, one hop only; it does
// not chase chains of multiple spouses.
func PropagateSpouseChildren(g *Graph) {
	for _, p := range g.People() {
		for _, spouseID := range p.Spouse {
			spouse := g.Get(spouseID)
			if spouse == nil || spouseID == p.ID {
				continue
			}
			for _, child := range p.Children {
				if child != spouseID {
					spouse.Children = appendID(spouse.Children, child)
				}
			}
			for _, child := range spouse.Children {
				if child != p.ID {
					p.Children = appendID(p.Children, child)
				}
			}
		}
	}
}

// Synchronize runs the full post-mutation pass in its canonical order:
// spouse-child propagation, then sibling closure, then spouse symmetry.
func Synchronize(g *Graph) {
	PropagateSpouseChildren(g)
	SyncSiblings(g)
	SyncSpouses(g)
}

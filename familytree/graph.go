package familytree

import "sort"

// Graph is the in-memory model of the family record store: every Person
// keyed by id, with insertion order preserved for stable serialization.
type Graph struct {
	nodes  map[int]*Person
	order  []int
	nextID int
}

// NewGraph returns an empty graph whose first assigned id is 1.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[int]*Person), nextID: 1}
}

// FromPeople builds a graph from a flat record sequence. The next id counter
// is max(existing)+1, so ids are never reused after deletion.
func FromPeople(people []*Person) *Graph {
	g := NewGraph()
	for _, p := range people {
		if p == nil {
			continue
		}
		if _, exists := g.nodes[p.ID]; exists {
			continue
		}
		g.nodes[p.ID] = p
		g.order = append(g.order, p.ID)
		if p.ID >= g.nextID {
			g.nextID = p.ID + 1
		}
	}
	return g
}

// Get returns the person with the given id, or nil.
func (g *Graph) Get(id int) *Person {
	return g.nodes[id]
}

// Contains reports whether a record with the given id exists.
func (g *Graph) Contains(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// Add inserts a person. If p.ID is zero the next available id is assigned.
func (g *Graph) Add(p *Person) *Person {
	if p.ID == 0 {
		p.ID = g.nextID
	}
	if _, exists := g.nodes[p.ID]; !exists {
		g.order = append(g.order, p.ID)
	}
	g.nodes[p.ID] = p
	if p.ID >= g.nextID {
		g.nextID = p.ID + 1
	}
	return p
}

// Remove deletes the record with the given id. It does not touch references
// held by other records; callers use the deletion engine for that.
func (g *Graph) Remove(id int) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	for i, oid := range g.order {
		if oid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// People returns all records in insertion order.
func (g *Graph) People() []*Person {
	people := make([]*Person, 0, len(g.order))
	for _, id := range g.order {
		people = append(people, g.nodes[id])
	}
	return people
}

// Len returns the number of records.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// NextID returns the id the next added record would receive.
func (g *Graph) NextID() int {
	return g.nextID
}

// edge list helpers; lists are treated as sets

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func appendID(ids []int, id int) []int {
	if containsID(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeIDFrom(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func dedupeIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := ids[:0]
	for _, v := range ids {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func sortedIDs(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// normalizeEdges removes duplicates and self-references from all four edge
// fields of a record. It never touches name, date, bio or photo fields.
func normalizeEdges(p *Person) {
	for _, kind := range allKinds {
		ids := dedupeIDs(p.Edges(kind))
		ids = removeIDFrom(ids, p.ID)
		p.SetEdges(kind, ids)
	}
}

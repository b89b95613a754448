package familytree

import "fmt"

// Describe computes a natural-language label for the relationship between two
// records. Rules are evaluated in fixed precedence and the first match wins:
// direct parent (either direction), shared-parent sibling, one-generation
// cousin, spouse, none. The sibling test reads the parents fields directly
// and does not consult the siblings lists.
func Describe(g *Graph, aID, bID int) (string, error) {
	a := g.Get(aID)
	b := g.Get(bID)
	if a == nil || b == nil {
		return "", fmt.Errorf("relationship lookup: %w", ErrNotFound)
	}

	if containsID(a.Parents, b.ID) {
		return fmt.Sprintf("%s is a parent of %s", b.DisplayName(), a.DisplayName()), nil
	}
	if containsID(b.Parents, a.ID) {
		return fmt.Sprintf("%s is a parent of %s", a.DisplayName(), b.DisplayName()), nil
	}
	if intersects(a.Parents, b.Parents) {
		return fmt.Sprintf("%s and %s are siblings", a.DisplayName(), b.DisplayName()), nil
	}
	if areCousins(g, a, b) {
		return fmt.Sprintf("%s and %s are cousins", a.DisplayName(), b.DisplayName()), nil
	}
	if containsID(a.Spouse, b.ID) {
		return fmt.Sprintf("%s and %s are spouses", a.DisplayName(), b.DisplayName()), nil
	}
	return "No direct relationship found", nil
}

// areCousins reports whether any parent of a and any parent of b themselves
// share a parent. This is a fixed one-generation test; it does not generalize
// to second or more distant cousins.
func areCousins(g *Graph, a, b *Person) bool {
	for _, pa := range a.Parents {
		parentA := g.Get(pa)
		if parentA == nil {
			continue
		}
		for _, pb := range b.Parents {
			parentB := g.Get(pb)
			if parentB == nil || pa == pb {
				continue
			}
			if intersects(parentA.Parents, parentB.Parents) {
				return true
			}
		}
	}
	return false
}

func intersects(a, b []int) bool {
	for _, v := range a {
		if containsID(b, v) {
			return true
		}
	}
	return false
}

// Missing holds advisory candidate relationships for one record: ids the
// graph suggests but the record does not list. They are never auto-applied.
type Missing struct {
	Children []int `json:"children"`
	Parents  []int `json:"parents"`
	Siblings []int `json:"siblings"`
}

// InferMissing computes candidate children (spouses' children not already
// listed), candidate siblings (parents' other children), and candidate
// parents (siblings' parents), each as a sorted id list.
func InferMissing(g *Graph, id int) (Missing, error) {
	p := g.Get(id)
	if p == nil {
		return Missing{}, fmt.Errorf("missing-relationship inference: %w", ErrNotFound)
	}

	children := make(map[int]struct{})
	for _, spouseID := range p.Spouse {
		spouse := g.Get(spouseID)
		if spouse == nil {
			continue
		}
		for _, child := range spouse.Children {
			if child != p.ID && !containsID(p.Children, child) {
				children[child] = struct{}{}
			}
		}
	}

	siblings := make(map[int]struct{})
	for _, parentID := range p.Parents {
		parent := g.Get(parentID)
		if parent == nil {
			continue
		}
		for _, child := range parent.Children {
			if child != p.ID && !containsID(p.Siblings, child) {
				siblings[child] = struct{}{}
			}
		}
	}

	parents := make(map[int]struct{})
	for _, sibID := range p.Siblings {
		sib := g.Get(sibID)
		if sib == nil {
			continue
		}
		for _, parentID := range sib.Parents {
			if parentID != p.ID && !containsID(p.Parents, parentID) {
				parents[parentID] = struct{}{}
			}
		}
	}

	return Missing{
		Children: sortedIDs(children),
		Parents:  sortedIDs(parents),
		Siblings: sortedIDs(siblings),
	}, nil
}

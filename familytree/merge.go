package familytree

import (
	"fmt"
	"sort"
	"strings"
)

type duplicateKey struct {
	first string
	last  string
	birth string
}

// FindDuplicates groups records by normalized first name, last name and birth
// date. Groups with at least two members are candidate duplicate sets,
// surfaced for operator confirmation and never merged automatically. Records
// whose key is entirely empty never match anything.
func FindDuplicates(g *Graph) [][]*Person {
	byKey := make(map[duplicateKey][]*Person)
	var keyOrder []duplicateKey
	for _, p := range g.People() {
		key := duplicateKey{
			first: strings.ToLower(p.FirstName),
			last:  strings.ToLower(p.LastName),
			birth: p.BirthDate,
		}
		if key.first == "" && key.last == "" && key.birth == "" {
			continue
		}
		if _, seen := byKey[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		byKey[key] = append(byKey[key], p)
	}

	var groups [][]*Person
	for _, key := range keyOrder {
		group := byKey[key]
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		groups = append(groups, group)
	}
	return groups
}

// Merge folds a duplicate group into the survivor: every duplicate's edges
// are unioned into the survivor, its photo and bio are adopted first-wins if
// the survivor lacks them, all other records' references to a duplicate are
// rewritten to the survivor, the duplicates are removed, and the survivor's
// own edge lists are stripped of self-references and dangling ids. The
// survivor must be a member of the duplicate set. Snapshotting the pre-merge
// document is the caller's responsibility (see Service.Merge).
func Merge(g *Graph, survivorID int, duplicateIDs []int) error {
	if !containsID(duplicateIDs, survivorID) {
		return fmt.Errorf("merge: survivor %d not in duplicate set: %w", survivorID, ErrBadRequest)
	}
	survivor := g.Get(survivorID)
	if survivor == nil {
		return fmt.Errorf("merge: survivor %d: %w", survivorID, ErrNotFound)
	}

	removed := make(map[int]struct{})
	for _, dupID := range duplicateIDs {
		if dupID == survivorID {
			continue
		}
		dup := g.Get(dupID)
		if dup == nil {
			// already gone; nothing to fold in
			continue
		}
		removed[dupID] = struct{}{}

		for _, kind := range allKinds {
			merged := survivor.Edges(kind)
			for _, id := range dup.Edges(kind) {
				if id != survivorID {
					merged = appendID(merged, id)
				}
			}
			survivor.SetEdges(kind, merged)
		}

		if survivor.Photo == nil && dup.Photo != nil {
			survivor.Photo = dup.Photo
		}
		if survivor.Bio == "" && dup.Bio != "" {
			survivor.Bio = dup.Bio
		}
	}

	// rewrite inbound references on every other record
	for _, p := range g.People() {
		if p.ID == survivorID {
			continue
		}
		if _, isDup := removed[p.ID]; isDup {
			continue
		}
		for _, kind := range allKinds {
			ids := p.Edges(kind)
			changed := false
			for i, id := range ids {
				if _, isDup := removed[id]; isDup {
					ids[i] = survivorID
					changed = true
				}
			}
			if changed {
				p.SetEdges(kind, dedupeIDs(ids))
			}
		}
	}

	for dupID := range removed {
		g.Remove(dupID)
	}

	// strip self-references and ids pointing at the removed duplicates
	for _, kind := range allKinds {
		kept := make([]int, 0, len(survivor.Edges(kind)))
		for _, id := range survivor.Edges(kind) {
			if id == survivorID || !g.Contains(id) {
				continue
			}
			kept = append(kept, id)
		}
		survivor.SetEdges(kind, dedupeIDs(kept))
	}

	return nil
}

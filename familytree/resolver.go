package familytree

import (
	"regexp"
	"strconv"
	"strings"
)

// bracketIDPattern matches a trailing bracketed id, e.g. "Jane Doe [7]".
var bracketIDPattern = regexp.MustCompile(`\[(\d+)\]\s*$`)

// Resolution is one resolved entry of a free-text relationship field.
// Created distinguishes a minted placeholder from a match against an
// existing record.
type Resolution struct {
	ID      int
	Created bool
}

// ResolveIDs extracts just the ids from a resolution list, deduplicated in
// first-seen order.
func ResolveIDs(resolutions []Resolution) []int {
	ids := make([]int, 0, len(resolutions))
	for _, res := range resolutions {
		ids = appendID(ids, res.ID)
	}
	return ids
}

// ResolveList turns a comma-separated free-text relationship field into
// person ids against the given graph. Each entry is tried as, in order: a
// trailing bracketed id ("Name [7]"), a literal numeric id, a
// case-insensitive "First Last" match, and finally a minted placeholder
// record. Placeholders and existing matches both receive a reciprocal edge
// back to the subject. Entries that resolve to nothing usable are silently
// dropped. subjectID is the record being edited; it must already exist in
// the graph so that placeholders can point back at it.
func ResolveList(g *Graph, input string, kind RelKind, subjectID int) []Resolution {
	var resolutions []Resolution

	for _, raw := range strings.Split(input, ",") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}

		if m := bracketIDPattern.FindStringSubmatch(entry); m != nil {
			id, err := strconv.Atoi(m[1])
			// unknown ids are dropped rather than stored dangling
			if err == nil && g.Contains(id) {
				resolutions = append(resolutions, Resolution{ID: id})
			}
			continue
		}

		if id, err := strconv.Atoi(entry); err == nil {
			if g.Contains(id) {
				resolutions = append(resolutions, Resolution{ID: id})
			}
			continue
		}

		if id, ok := matchByName(g, entry); ok {
			resolutions = append(resolutions, Resolution{ID: id})
			continue
		}

		placeholder, ok := mintPlaceholder(g, entry, kind, subjectID)
		if !ok {
			continue
		}
		resolutions = append(resolutions, Resolution{ID: placeholder.ID, Created: true})
	}

	// mirror the placeholder back-linking onto existing matches
	for _, res := range resolutions {
		if res.Created || res.ID == subjectID {
			continue
		}
		other := g.Get(res.ID)
		if other == nil {
			continue
		}
		back := reciprocalKind(kind)
		other.SetEdges(back, appendID(other.Edges(back), subjectID))
	}

	return resolutions
}

// matchByName finds the first record whose trimmed "First Last" equals the
// entry, case-insensitively, in insertion order.
func matchByName(g *Graph, entry string) (int, bool) {
	want := strings.ToLower(strings.TrimSpace(entry))
	for _, p := range g.People() {
		if strings.ToLower(p.DisplayName()) == want {
			return p.ID, true
		}
	}
	return 0, false
}

// mintPlaceholder appends a minimal new record for an unresolved name. The
// name is split on whitespace: first token becomes the first name, last
// token the last name, middle tokens are ignored. The placeholder carries
// exactly one reciprocal edge pointing back at the subject.
func mintPlaceholder(g *Graph, entry string, kind RelKind, subjectID int) (*Person, bool) {
	tokens := strings.Fields(entry)
	if len(tokens) == 0 {
		return nil, false
	}

	first := tokens[0]
	last := tokens[len(tokens)-1]
	if first == "" {
		first = "Unknown"
	}
	if last == "" {
		last = "Unknown"
	}

	placeholder := &Person{
		FirstName: first,
		LastName:  last,
		Gender:    "unknown",
		Parents:   []int{},
		Children:  []int{},
		Spouse:    []int{},
		Siblings:  []int{},
		Bio:       PlaceholderBio,
	}
	back := reciprocalKind(kind)
	placeholder.SetEdges(back, []int{subjectID})

	g.Add(placeholder)
	return placeholder, true
}

package familytree

import "strings"

// PlaceholderBio marks records minted by the resolver for names that had no
// matching record yet.
const PlaceholderBio = "Auto-added placeholder"

// RelKind identifies one of the four edge fields on a Person.
type RelKind string

const (
	KindParents  RelKind = "parents"
	KindChildren RelKind = "children"
	KindSpouse   RelKind = "spouse"
	KindSiblings RelKind = "siblings"
)

// Person is a single record in the family graph. The four edge fields hold
// ids of other records; order carries no meaning and duplicates are not
// allowed to accumulate.
type Person struct {
	ID         int     `json:"id"`
	FirstName  string  `json:"first_name"`
	MiddleName string  `json:"middle_name"`
	MaidenName string  `json:"maiden_name"`
	OtherNames string  `json:"other_names"`
	LastName   string  `json:"last_name"`
	Suffix     string  `json:"suffix"`
	BirthDate  string  `json:"birth_date"`
	DeathDate  *string `json:"death_date"`
	Gender     string  `json:"gender"`
	Parents    []int   `json:"parents"`
	Children   []int   `json:"children"`
	Spouse     []int   `json:"spouse"`
	Siblings   []int   `json:"siblings"`
	Photo      *string `json:"photo"`
	Bio        string  `json:"bio"`
}

// DisplayName returns "First Last" with surrounding whitespace trimmed.
func (p *Person) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Edges returns the edge list for the given kind. The returned slice is the
// live backing slice; use SetEdges to replace it.
func (p *Person) Edges(kind RelKind) []int {
	switch kind {
	case KindParents:
		return p.Parents
	case KindChildren:
		return p.Children
	case KindSpouse:
		return p.Spouse
	case KindSiblings:
		return p.Siblings
	}
	return nil
}

// SetEdges replaces the edge list for the given kind.
func (p *Person) SetEdges(kind RelKind, ids []int) {
	switch kind {
	case KindParents:
		p.Parents = ids
	case KindChildren:
		p.Children = ids
	case KindSpouse:
		p.Spouse = ids
	case KindSiblings:
		p.Siblings = ids
	}
}

// allKinds is the canonical field order used when walking every edge list.
var allKinds = []RelKind{KindParents, KindChildren, KindSpouse, KindSiblings}

// reciprocalKind maps an edge kind to the kind of the back-edge the other
// record should carry: my parent lists me as a child, and vice versa; spouse
// and sibling edges mirror onto themselves.
func reciprocalKind(kind RelKind) RelKind {
	switch kind {
	case KindParents:
		return KindChildren
	case KindChildren:
		return KindParents
	default:
		return kind
	}
}

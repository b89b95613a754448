package familytree

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// Actor is the caller identity handed in by the auth layer. The engine
// trusts the admin flag it is given.
type Actor struct {
	Username string
	IsAdmin  bool
}

// ActivityLogger receives audit entries for mutating operations.
type ActivityLogger interface {
	Log(action, username, details string) error
}

// PhotoStore releases photo assets owned by deleted records.
type PhotoStore interface {
	RemovePhoto(filename string) error
	RemoveThumbnail(filename string) error
}

// MemberFields carries the non-edge fields of a person for create/update.
type MemberFields struct {
	FirstName  string
	MiddleName string
	MaidenName string
	OtherNames string
	LastName   string
	Suffix     string
	BirthDate  string
	DeathDate  *string
	Gender     string
	Photo      *string
	Bio        string
}

// EdgeText carries the free-text relationship fields. A nil entry leaves
// that edge list untouched; an empty string clears it.
type EdgeText struct {
	Parents  *string
	Children *string
	Spouse   *string
	Siblings *string
}

func (e EdgeText) text(kind RelKind) *string {
	switch kind {
	case KindParents:
		return e.Parents
	case KindChildren:
		return e.Children
	case KindSpouse:
		return e.Spouse
	case KindSiblings:
		return e.Siblings
	}
	return nil
}

// Service is the engine facade: each operation is a single unit of work that
// loads the store, mutates the in-memory graph, restores invariants, and
// persists the full document. Either the whole updated document is saved or
// nothing changes.
type Service struct {
	store    *Store
	activity ActivityLogger
	photos   PhotoStore
}

// NewService wires the engine. activity and photos may be nil.
func NewService(store *Store, activity ActivityLogger, photos PhotoStore) *Service {
	return &Service{store: store, activity: activity, photos: photos}
}

// List returns all records sorted by first then last name, case-insensitive.
func (s *Service) List() ([]*Person, error) {
	g, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	people := g.People()
	sort.SliceStable(people, func(i, j int) bool {
		fi, fj := strings.ToLower(people[i].FirstName), strings.ToLower(people[j].FirstName)
		if fi != fj {
			return fi < fj
		}
		return strings.ToLower(people[i].LastName) < strings.ToLower(people[j].LastName)
	})
	return people, nil
}

// Get returns a single record by id.
func (s *Service) Get(id int) (*Person, error) {
	g, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	p := g.Get(id)
	if p == nil {
		return nil, fmt.Errorf("person %d: %w", id, ErrNotFound)
	}
	return p, nil
}

// Create adds a new member, resolving the free-text relationship fields
// (possibly minting placeholders), restoring invariants, and persisting.
func (s *Service) Create(actor Actor, fields MemberFields, edges EdgeText) (*Person, error) {
	if strings.TrimSpace(fields.FirstName) == "" || strings.TrimSpace(fields.LastName) == "" {
		return nil, fmt.Errorf("first_name and last_name are required: %w", ErrBadRequest)
	}

	g, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	p := &Person{
		Parents:  []int{},
		Children: []int{},
		Spouse:   []int{},
		Siblings: []int{},
	}
	applyFields(p, fields)
	if p.Gender == "" {
		p.Gender = "unknown"
	}
	g.Add(p)

	for _, kind := range allKinds {
		text := edges.text(kind)
		if text == nil {
			continue
		}
		resolutions := ResolveList(g, *text, kind, p.ID)
		p.SetEdges(kind, ResolveIDs(resolutions))
	}
	normalizeEdges(p)

	Synchronize(g)
	if err := s.store.Save(g); err != nil {
		return nil, err
	}

	s.logActivity(actor, "FAMILY_ADD", fmt.Sprintf("Added %s (ID %d)", p.DisplayName(), p.ID))
	return p, nil
}

// Update replaces a member's fields and, for each provided edge field,
// re-resolves it from free text. Edges dropped from a field also lose their
// reciprocal on the other record, so the synchronizer does not resurrect
// them.
func (s *Service) Update(actor Actor, id int, fields MemberFields, edges EdgeText) (*Person, error) {
	if strings.TrimSpace(fields.FirstName) == "" || strings.TrimSpace(fields.LastName) == "" {
		return nil, fmt.Errorf("first_name and last_name are required: %w", ErrBadRequest)
	}

	g, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	p := g.Get(id)
	if p == nil {
		return nil, fmt.Errorf("person %d: %w", id, ErrNotFound)
	}

	applyFields(p, fields)

	for _, kind := range allKinds {
		text := edges.text(kind)
		if text == nil {
			continue
		}
		before := append([]int(nil), p.Edges(kind)...)
		resolutions := ResolveList(g, *text, kind, p.ID)
		after := ResolveIDs(resolutions)
		p.SetEdges(kind, after)

		for _, oldID := range before {
			if containsID(after, oldID) {
				continue
			}
			other := g.Get(oldID)
			if other == nil {
				continue
			}
			back := reciprocalKind(kind)
			other.SetEdges(back, removeIDFrom(other.Edges(back), p.ID))
		}
	}
	normalizeEdges(p)

	Synchronize(g)
	if err := s.store.Save(g); err != nil {
		return nil, err
	}

	s.logActivity(actor, "FAMILY_EDIT", fmt.Sprintf("Edited %s (ID %d)", p.DisplayName(), p.ID))
	return p, nil
}

// Delete removes a member and all references to it. Admin only. The member's
// photo and its thumbnail are released when no other record shares the path.
func (s *Service) Delete(actor Actor, id int) error {
	if !actor.IsAdmin {
		return fmt.Errorf("delete requires admin: %w", ErrUnauthorized)
	}

	g, err := s.store.Load()
	if err != nil {
		return err
	}
	removed := Delete(g, id)
	if removed == nil {
		return fmt.Errorf("person %d: %w", id, ErrNotFound)
	}
	if err := s.store.Save(g); err != nil {
		return err
	}

	if removed.Photo != nil && *removed.Photo != "" && s.photos != nil && !photoShared(g, *removed.Photo) {
		if err := s.photos.RemovePhoto(*removed.Photo); err != nil {
			log.Printf("familytree: failed to remove photo %s: %v", *removed.Photo, err)
		}
		if err := s.photos.RemoveThumbnail(*removed.Photo); err != nil {
			log.Printf("familytree: failed to remove thumbnail for %s: %v", *removed.Photo, err)
		}
	}

	s.logActivity(actor, "FAMILY_DELETE", fmt.Sprintf("Deleted %s (ID %d)", removed.DisplayName(), id))
	return nil
}

// Relationship returns the pairwise relationship label for two members.
func (s *Service) Relationship(aID, bID int) (string, error) {
	g, err := s.store.Load()
	if err != nil {
		return "", err
	}
	return Describe(g, aID, bID)
}

// InferMissing returns the advisory missing-relationship view for one member.
func (s *Service) InferMissing(id int) (Missing, error) {
	g, err := s.store.Load()
	if err != nil {
		return Missing{}, err
	}
	return InferMissing(g, id)
}

// FindDuplicates returns candidate duplicate groups for operator review.
func (s *Service) FindDuplicates() ([][]*Person, error) {
	g, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return FindDuplicates(g), nil
}

// Merge folds a confirmed duplicate group into the survivor. Admin only. The
// persisted document is snapshotted to a timestamped backup before anything
// is rewritten.
func (s *Service) Merge(actor Actor, survivorID int, duplicateIDs []int) error {
	if !actor.IsAdmin {
		return fmt.Errorf("merge requires admin: %w", ErrUnauthorized)
	}
	if !containsID(duplicateIDs, survivorID) {
		return fmt.Errorf("merge: survivor %d not in duplicate set: %w", survivorID, ErrBadRequest)
	}

	g, err := s.store.Load()
	if err != nil {
		return err
	}
	if !g.Contains(survivorID) {
		return fmt.Errorf("merge: survivor %d: %w", survivorID, ErrNotFound)
	}

	backupPath, err := s.store.Backup()
	if err != nil {
		return fmt.Errorf("pre-merge backup failed: %w", err)
	}

	if err := Merge(g, survivorID, duplicateIDs); err != nil {
		return err
	}
	Synchronize(g)
	if err := s.store.Save(g); err != nil {
		return err
	}

	s.logActivity(actor, "FAMILY_MERGE",
		fmt.Sprintf("Merged %d record(s) into ID %d (backup: %s)", len(duplicateIDs)-1, survivorID, backupPath))
	return nil
}

func (s *Service) logActivity(actor Actor, action, details string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Log(action, actor.Username, details); err != nil {
		log.Printf("familytree: failed to log activity %s: %v", action, err)
	}
}

func applyFields(p *Person, fields MemberFields) {
	p.FirstName = fields.FirstName
	p.MiddleName = fields.MiddleName
	p.MaidenName = fields.MaidenName
	p.OtherNames = fields.OtherNames
	p.LastName = fields.LastName
	p.Suffix = fields.Suffix
	p.BirthDate = fields.BirthDate
	p.DeathDate = fields.DeathDate
	p.Gender = fields.Gender
	p.Photo = fields.Photo
	p.Bio = fields.Bio
}

// photoShared reports whether any remaining record references the same photo
// path.
func photoShared(g *Graph, photo string) bool {
	for _, p := range g.People() {
		if p.Photo != nil && *p.Photo == photo {
			return true
		}
	}
	return false
}

package familytree

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	entries []string
}

func (l *recordingLogger) Log(action, username, details string) error {
	l.entries = append(l.entries, fmt.Sprintf("%s:%s", action, username))
	return nil
}

type recordingPhotos struct {
	removedPhotos []string
	removedThumbs []string
}

func (p *recordingPhotos) RemovePhoto(filename string) error {
	p.removedPhotos = append(p.removedPhotos, filename)
	return nil
}

func (p *recordingPhotos) RemoveThumbnail(filename string) error {
	p.removedThumbs = append(p.removedThumbs, filename)
	return nil
}

func newTestService(t *testing.T) (*Service, *Store, *recordingLogger, *recordingPhotos) {
	t.Helper()
	store := tempStore(t)
	logger := &recordingLogger{}
	photos := &recordingPhotos{}
	return NewService(store, logger, photos), store, logger, photos
}

var admin = Actor{Username: "sysop", IsAdmin: true}
var regular = Actor{Username: "jane", IsAdmin: false}

func TestServiceCreateRequiresNames(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(regular, MemberFields{FirstName: "Alice"}, EdgeText{})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = svc.Create(regular, MemberFields{LastName: "Smith"}, EdgeText{})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestServiceCreateMintsPlaceholderWithNextID(t *testing.T) {
	svc, store, logger, _ := newTestService(t)

	spouseText := "Alice Johnson"
	p, err := svc.Create(regular, MemberFields{FirstName: "Ben", LastName: "Johnson"}, EdgeText{Spouse: &spouseText})
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)

	g, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())

	placeholder := g.Get(p.ID + 1)
	require.NotNil(t, placeholder)
	assert.Equal(t, "Alice", placeholder.FirstName)
	assert.Equal(t, PlaceholderBio, placeholder.Bio)
	assert.Equal(t, []int{p.ID}, placeholder.Spouse)
	assert.Equal(t, []int{placeholder.ID}, g.Get(p.ID).Spouse)

	require.Len(t, logger.entries, 1)
	assert.Equal(t, "FAMILY_ADD:jane", logger.entries[0])
}

func TestServiceCreateDefaultsGender(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	p, err := svc.Create(regular, MemberFields{FirstName: "Ben", LastName: "Johnson"}, EdgeText{})
	require.NoError(t, err)

	g, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "unknown", g.Get(p.ID).Gender)
}

func TestServiceCreateSynchronizesSiblings(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	parent, err := svc.Create(regular, MemberFields{FirstName: "Pat", LastName: "Smith"}, EdgeText{})
	require.NoError(t, err)

	parentRef := fmt.Sprintf("%d", parent.ID)
	a, err := svc.Create(regular, MemberFields{FirstName: "Alice", LastName: "Smith"}, EdgeText{Parents: &parentRef})
	require.NoError(t, err)
	b, err := svc.Create(regular, MemberFields{FirstName: "Bob", LastName: "Smith"}, EdgeText{Parents: &parentRef})
	require.NoError(t, err)

	g, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []int{b.ID}, g.Get(a.ID).Siblings)
	assert.Equal(t, []int{a.ID}, g.Get(b.ID).Siblings)
}

func TestServiceUpdateClearsEdgeBothSides(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	a, err := svc.Create(regular, MemberFields{FirstName: "Alice", LastName: "Smith"}, EdgeText{})
	require.NoError(t, err)
	spouseRef := fmt.Sprintf("%d", a.ID)
	b, err := svc.Create(regular, MemberFields{FirstName: "Ben", LastName: "Jones"}, EdgeText{Spouse: &spouseRef})
	require.NoError(t, err)

	empty := ""
	_, err = svc.Update(regular, b.ID, MemberFields{FirstName: "Ben", LastName: "Jones"}, EdgeText{Spouse: &empty})
	require.NoError(t, err)

	g, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, g.Get(b.ID).Spouse)
	assert.Empty(t, g.Get(a.ID).Spouse)
}

func TestServiceUpdateNilEdgeLeavesUntouched(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	a, err := svc.Create(regular, MemberFields{FirstName: "Alice", LastName: "Smith"}, EdgeText{})
	require.NoError(t, err)
	spouseRef := fmt.Sprintf("%d", a.ID)
	b, err := svc.Create(regular, MemberFields{FirstName: "Ben", LastName: "Jones"}, EdgeText{Spouse: &spouseRef})
	require.NoError(t, err)

	_, err = svc.Update(regular, b.ID, MemberFields{FirstName: "Benjamin", LastName: "Jones"}, EdgeText{})
	require.NoError(t, err)

	g, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Benjamin", g.Get(b.ID).FirstName)
	assert.Equal(t, []int{a.ID}, g.Get(b.ID).Spouse)
}

func TestServiceUpdateUnknownID(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Update(regular, 42, MemberFields{FirstName: "Alice", LastName: "Smith"}, EdgeText{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceDeleteRequiresAdmin(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	p, err := svc.Create(regular, MemberFields{FirstName: "Alice", LastName: "Smith"}, EdgeText{})
	require.NoError(t, err)

	err = svc.Delete(regular, p.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.Delete(admin, p.ID))
	_, err = svc.Get(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceDeleteUnknownID(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	assert.ErrorIs(t, svc.Delete(admin, 42), ErrNotFound)
}

func TestServiceDeleteReleasesUnsharedPhoto(t *testing.T) {
	svc, _, _, photos := newTestService(t)

	photo := "alice.jpg"
	p, err := svc.Create(regular, MemberFields{FirstName: "Alice", LastName: "Smith", Photo: &photo}, EdgeText{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(admin, p.ID))
	assert.Equal(t, []string{"alice.jpg"}, photos.removedPhotos)
	assert.Equal(t, []string{"alice.jpg"}, photos.removedThumbs)
}

func TestServiceDeleteKeepsSharedPhoto(t *testing.T) {
	svc, _, _, photos := newTestService(t)

	photo := "family.jpg"
	p, err := svc.Create(regular, MemberFields{FirstName: "Alice", LastName: "Smith", Photo: &photo}, EdgeText{})
	require.NoError(t, err)
	_, err = svc.Create(regular, MemberFields{FirstName: "Ben", LastName: "Smith", Photo: &photo}, EdgeText{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(admin, p.ID))
	assert.Empty(t, photos.removedPhotos)
	assert.Empty(t, photos.removedThumbs)
}

func TestServiceMergeRequiresAdmin(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	assert.ErrorIs(t, svc.Merge(regular, 1, []int{1, 2}), ErrUnauthorized)
}

func TestServiceMergeSurvivorMustBeInSet(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	assert.ErrorIs(t, svc.Merge(admin, 1, []int{2, 3}), ErrBadRequest)
}

func TestServiceMergeWritesBackupFirst(t *testing.T) {
	svc, store, logger, _ := newTestService(t)

	a, err := svc.Create(regular, MemberFields{FirstName: "Alice", LastName: "Smith", BirthDate: "1990-01-01"}, EdgeText{})
	require.NoError(t, err)
	b, err := svc.Create(regular, MemberFields{FirstName: "Alice", LastName: "Smith", BirthDate: "1990-01-01"}, EdgeText{})
	require.NoError(t, err)

	require.NoError(t, svc.Merge(admin, a.ID, []int{a.ID, b.ID}))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	var backups int
	for _, entry := range entries {
		if entry.Name() != filepath.Base(store.Path()) {
			backups++
		}
	}
	assert.Equal(t, 1, backups, "expected exactly one backup document")

	g, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
	assert.Contains(t, logger.entries, "FAMILY_MERGE:sysop")
}

func TestServiceFindDuplicates(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(regular, MemberFields{FirstName: "Alice", LastName: "Smith", BirthDate: "1990-01-01"}, EdgeText{})
	require.NoError(t, err)
	_, err = svc.Create(regular, MemberFields{FirstName: "alice", LastName: "SMITH", BirthDate: "1990-01-01"}, EdgeText{})
	require.NoError(t, err)

	groups, err := svc.FindDuplicates()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 2)
}

func TestServiceListSorted(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(regular, MemberFields{FirstName: "zoe", LastName: "Adams"}, EdgeText{})
	require.NoError(t, err)
	_, err = svc.Create(regular, MemberFields{FirstName: "Alice", LastName: "Smith"}, EdgeText{})
	require.NoError(t, err)

	people, err := svc.List()
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "Alice", people[0].FirstName)
	assert.Equal(t, "zoe", people[1].FirstName)
}

func TestServiceRelationship(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	a, err := svc.Create(regular, MemberFields{FirstName: "Pat", LastName: "Smith"}, EdgeText{})
	require.NoError(t, err)
	parentRef := fmt.Sprintf("%d", a.ID)
	b, err := svc.Create(regular, MemberFields{FirstName: "Alice", LastName: "Smith"}, EdgeText{Parents: &parentRef})
	require.NoError(t, err)

	label, err := svc.Relationship(a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pat Smith is a parent of Alice Smith", label)
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/propertyhub/propertyhub/entity"
	"gorm.io/gorm"
)

type nopLogger struct{}

func (nopLogger) InfoWithContextf(ctx context.Context, format string, args ...interface{})    {}
func (nopLogger) WarningWithContextf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{}) {
}

// eventLog records side effects in order so tests can assert ordering rules.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) indexOf(event string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.events {
		if e == event {
			return i
		}
	}
	return -1
}

type fakePropertyStore struct {
	mu      sync.Mutex
	log     *eventLog
	byID    map[uuid.UUID]*entity.Property
	creates int
	updates int
	deletes int
}

func newFakePropertyStore(log *eventLog) *fakePropertyStore {
	return &fakePropertyStore{log: log, byID: map[uuid.UUID]*entity.Property{}}
}

func (s *fakePropertyStore) Create(property *entity.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	s.byID[property.ID] = property
	return nil
}

func (s *fakePropertyStore) FindByID(id uuid.UUID) (*entity.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	property, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *property
	return &clone, nil
}

func (s *fakePropertyStore) SlugExists(slug string, excludeID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, property := range s.byID {
		if property.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakePropertyStore) Update(property *entity.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	s.byID[property.ID] = property
	return nil
}

func (s *fakePropertyStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	delete(s.byID, id)
	s.log.add("record-delete")
	return nil
}

type fakeProjectStore struct {
	mu      sync.Mutex
	log     *eventLog
	byID    map[uuid.UUID]*entity.Project
	creates int
	updates int
	deletes int
}

func newFakeProjectStore(log *eventLog) *fakeProjectStore {
	return &fakeProjectStore{log: log, byID: map[uuid.UUID]*entity.Project{}}
}

func (s *fakeProjectStore) Create(project *entity.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	s.byID[project.ID] = project
	return nil
}

func (s *fakeProjectStore) FindBySlug(slug string) (*entity.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, project := range s.byID {
		if project.Slug == slug {
			clone := *project
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeProjectStore) SlugExists(slug string, excludeID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, project := range s.byID {
		if project.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeProjectStore) Update(project *entity.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	s.byID[project.ID] = project
	return nil
}

func (s *fakeProjectStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	delete(s.byID, id)
	s.log.add("record-delete")
	return nil
}

type fakeAccountStore struct {
	users map[uuid.UUID]*entity.User
}

func (s *fakeAccountStore) FindByID(id uuid.UUID) (*entity.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type fakeImageStore struct {
	mu        sync.Mutex
	log       *eventLog
	uploadErr error
	deleteErr error
	uploads   int
	deleted   []string
}

func (s *fakeImageStore) Upload(ctx context.Context, blob []byte, folder string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads++
	s.log.add("upload:" + string(blob))
	return "http://cdn.test/listing-media/" + folder + "/" + string(blob) + ".jpg", nil
}

func (s *fakeImageStore) Delete(ctx context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.add("blob-delete:" + publicID)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, publicID)
	return nil
}

func (s *fakeImageStore) deletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deleted)
}

type fakeCleanupQueue struct {
	mu        sync.Mutex
	published [][]string
	reasons   []string
}

func (q *fakeCleanupQueue) PublishCleanup(ctx context.Context, publicIDs []string, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, publicIDs)
	q.reasons = append(q.reasons, reason)
	return nil
}

type listingFixture struct {
	service    *ListingService
	properties *fakePropertyStore
	projects   *fakeProjectStore
	accounts   *fakeAccountStore
	images     *fakeImageStore
	cleanup    *fakeCleanupQueue
	log        *eventLog
	agent      *entity.User
	agency     *entity.User
	admin      *entity.User
}

func newListingFixture() *listingFixture {
	log := &eventLog{}
	agent := &entity.User{ID: uuid.New(), Name: "Sam Agent", Email: "sam@agents.test", Role: entity.RoleAgent}
	agency := &entity.User{ID: uuid.New(), Name: "Acme Estates", Email: "info@acme.test", Role: entity.RoleAgency}
	admin := &entity.User{ID: uuid.New(), Name: "Root", Email: "root@hub.test", Role: entity.RoleAdmin}

	properties := newFakePropertyStore(log)
	projects := newFakeProjectStore(log)
	accounts := &fakeAccountStore{users: map[uuid.UUID]*entity.User{
		agent.ID:  agent,
		agency.ID: agency,
		admin.ID:  admin,
	}}
	images := &fakeImageStore{log: log}
	cleanup := &fakeCleanupQueue{}

	return &listingFixture{
		service:    NewListingService(properties, projects, accounts, images, cleanup, nopLogger{}),
		properties: properties,
		projects:   projects,
		accounts:   accounts,
		images:     images,
		cleanup:    cleanup,
		log:        log,
		agent:      agent,
		agency:     agency,
		admin:      admin,
	}
}

func (f *listingFixture) actorFor(user *entity.User) Actor {
	return Actor{ID: user.ID, Role: user.Role}
}

func validPropertyInput() PropertyInput {
	return PropertyInput{
		Title:    "Sunset Villa!!",
		State:    "Sindh",
		City:     "Karachi",
		AreaName: "Clifton",
		Type:     "house",
		Purpose:  entity.PurposeForSale,
		Price:    125000,
		Bedrooms: 4,
	}
}

func TestCreatePropertySlugDerivedFromTitle(t *testing.T) {
	f := newListingFixture()

	property, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), validPropertyInput())
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}
	if property.Slug != "sunset-villa" {
		t.Errorf("slug = %q, want %q", property.Slug, "sunset-villa")
	}
	if property.Status != entity.StatusActive {
		t.Errorf("status = %q, want %q", property.Status, entity.StatusActive)
	}
	if property.Location != "Sindh, Karachi, Clifton" {
		t.Errorf("location = %q", property.Location)
	}
	if f.properties.creates != 1 {
		t.Errorf("creates = %d, want 1", f.properties.creates)
	}
}

func TestCreatePropertySuppliedSlugWins(t *testing.T) {
	f := newListingFixture()

	in := validPropertyInput()
	in.Slug = "  Custom SLUG  "
	property, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), in)
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}
	if property.Slug != "custom-slug" {
		t.Errorf("slug = %q, want %q", property.Slug, "custom-slug")
	}
}

func TestCreatePropertyDuplicateSlugHasNoSideEffects(t *testing.T) {
	f := newListingFixture()

	if _, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), validPropertyInput()); err != nil {
		t.Fatalf("seed CreateProperty: %v", err)
	}

	in := validPropertyInput()
	in.Images = [][]byte{[]byte("a")}
	_, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), in)
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("err = %v, want ErrDuplicateSlug", err)
	}
	if f.properties.creates != 1 {
		t.Errorf("creates = %d, want 1", f.properties.creates)
	}
	if f.images.uploads != 0 {
		t.Errorf("uploads = %d, want 0: duplicate slug must be caught before media work", f.images.uploads)
	}
}

func TestCreatePropertyRejectsUnknownType(t *testing.T) {
	f := newListingFixture()

	in := validPropertyInput()
	in.Type = "castle"
	_, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), in)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestCreatePropertyRejectsUnknownAmenity(t *testing.T) {
	f := newListingFixture()

	in := validPropertyInput()
	in.Amenities = []string{"Nearby Schools", "Helipad"}
	_, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), in)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestCreatePropertyRejectsAdminOwner(t *testing.T) {
	f := newListingFixture()

	_, err := f.service.CreateProperty(context.Background(), f.actorFor(f.admin), validPropertyInput())
	if !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Fatalf("err = %v, want ErrNotFoundOrForbidden", err)
	}
}

func TestCreatePropertyUploadsPreserveOrder(t *testing.T) {
	f := newListingFixture()

	in := validPropertyInput()
	in.Images = [][]byte{[]byte("first"), []byte("second"), []byte("third")}
	property, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), in)
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}

	want := []string{
		"http://cdn.test/listing-media/properties/first.jpg",
		"http://cdn.test/listing-media/properties/second.jpg",
		"http://cdn.test/listing-media/properties/third.jpg",
	}
	if len(property.ImageURLs) != len(want) {
		t.Fatalf("image count = %d, want %d", len(property.ImageURLs), len(want))
	}
	for i, url := range want {
		if property.ImageURLs[i] != url {
			t.Errorf("image[%d] = %q, want %q", i, property.ImageURLs[i], url)
		}
	}
}

func TestCreatePropertyUploadFailureAborts(t *testing.T) {
	f := newListingFixture()
	f.images.uploadErr = errors.New("store down")

	in := validPropertyInput()
	in.Images = [][]byte{[]byte("a")}
	_, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), in)
	if err == nil {
		t.Fatal("expected error")
	}
	if f.properties.creates != 0 {
		t.Errorf("creates = %d, want 0: failed upload must abort the record write", f.properties.creates)
	}
}

func TestUpdatePropertyForeignOwnerRejected(t *testing.T) {
	f := newListingFixture()

	property, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), validPropertyInput())
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}

	other := Actor{ID: uuid.New(), Role: entity.RoleAgent}
	_, err = f.service.UpdateProperty(context.Background(), other, property.ID, validPropertyInput())
	if !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Fatalf("err = %v, want ErrNotFoundOrForbidden", err)
	}
	if f.properties.updates != 0 {
		t.Errorf("updates = %d, want 0", f.properties.updates)
	}
}

func TestUpdatePropertyAdminBypassesOwnership(t *testing.T) {
	f := newListingFixture()

	property, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), validPropertyInput())
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}

	in := validPropertyInput()
	in.Price = 999
	updated, err := f.service.UpdateProperty(context.Background(), f.actorFor(f.admin), property.ID, in)
	if err != nil {
		t.Fatalf("UpdateProperty as admin: %v", err)
	}
	if updated.Price != 999 {
		t.Errorf("price = %v, want 999", updated.Price)
	}
	if updated.AgentID != f.agent.ID {
		t.Errorf("owner changed to %s, want %s", updated.AgentID, f.agent.ID)
	}
}

func TestUpdatePropertyKeepingOwnSlugIsNotAConflict(t *testing.T) {
	f := newListingFixture()

	property, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), validPropertyInput())
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}

	in := validPropertyInput()
	in.Slug = property.Slug
	if _, err := f.service.UpdateProperty(context.Background(), f.actorFor(f.agent), property.ID, in); err != nil {
		t.Fatalf("UpdateProperty with own slug: %v", err)
	}
}

func TestUpdatePropertySlugConflictLeavesImagesUntouched(t *testing.T) {
	f := newListingFixture()

	first, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), validPropertyInput())
	if err != nil {
		t.Fatalf("seed first: %v", err)
	}

	secondIn := validPropertyInput()
	secondIn.Title = "Harbor View"
	secondIn.Images = [][]byte{[]byte("old-a"), []byte("old-b")}
	second, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), secondIn)
	if err != nil {
		t.Fatalf("seed second: %v", err)
	}
	uploadsBefore := f.images.uploads

	in := validPropertyInput()
	in.Slug = first.Slug
	in.Images = [][]byte{[]byte("new-c")}
	_, err = f.service.UpdateProperty(context.Background(), f.actorFor(f.agent), second.ID, in)
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("err = %v, want ErrDuplicateSlug", err)
	}
	if f.images.uploads != uploadsBefore {
		t.Errorf("uploads changed on conflict: %d -> %d", uploadsBefore, f.images.uploads)
	}
	if f.images.deletedCount() != 0 {
		t.Errorf("deletes = %d, want 0", f.images.deletedCount())
	}

	kept, err := f.properties.FindByID(second.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(kept.ImageURLs) != 2 {
		t.Errorf("image count = %d, want 2: conflict must leave the stored set alone", len(kept.ImageURLs))
	}
}

func TestUpdatePropertyReplacementUploadsBeforeDeleting(t *testing.T) {
	f := newListingFixture()

	in := validPropertyInput()
	in.Images = [][]byte{[]byte("a"), []byte("b")}
	property, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), in)
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}

	replacement := validPropertyInput()
	replacement.Images = [][]byte{[]byte("c")}
	updated, err := f.service.UpdateProperty(context.Background(), f.actorFor(f.agent), property.ID, replacement)
	if err != nil {
		t.Fatalf("UpdateProperty: %v", err)
	}

	if len(updated.ImageURLs) != 1 || updated.ImageURLs[0] != "http://cdn.test/listing-media/properties/c.jpg" {
		t.Errorf("image urls = %v", updated.ImageURLs)
	}
	if f.images.deletedCount() != 2 {
		t.Errorf("deleted = %d, want 2", f.images.deletedCount())
	}

	uploadIdx := f.log.indexOf("upload:c")
	for _, old := range []string{"properties/a", "properties/b"} {
		deleteIdx := f.log.indexOf("blob-delete:" + old)
		if deleteIdx < 0 {
			t.Fatalf("old blob %s never deleted", old)
		}
		if deleteIdx < uploadIdx {
			t.Errorf("old blob %s deleted before the replacement upload", old)
		}
	}
}

func TestUpdatePropertyReplacementFailureKeepsOldImages(t *testing.T) {
	f := newListingFixture()

	in := validPropertyInput()
	in.Images = [][]byte{[]byte("a")}
	property, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), in)
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}

	f.images.uploadErr = errors.New("store down")
	replacement := validPropertyInput()
	replacement.Images = [][]byte{[]byte("c")}
	if _, err := f.service.UpdateProperty(context.Background(), f.actorFor(f.agent), property.ID, replacement); err == nil {
		t.Fatal("expected error")
	}

	if f.images.deletedCount() != 0 {
		t.Errorf("deleted = %d, want 0: old set must survive a failed replacement", f.images.deletedCount())
	}
	kept, err := f.properties.FindByID(property.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(kept.ImageURLs) != 1 {
		t.Errorf("image count = %d, want 1", len(kept.ImageURLs))
	}
}

func TestDeletePropertyRemovesRecordThenBlobs(t *testing.T) {
	f := newListingFixture()

	in := validPropertyInput()
	in.Images = [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	property, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), in)
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}

	if err := f.service.DeleteProperty(context.Background(), f.actorFor(f.agent), property.ID); err != nil {
		t.Fatalf("DeleteProperty: %v", err)
	}

	if f.properties.deletes != 1 {
		t.Errorf("record deletes = %d, want 1", f.properties.deletes)
	}
	if f.images.deletedCount() != 3 {
		t.Errorf("blob deletes = %d, want 3", f.images.deletedCount())
	}

	recordIdx := f.log.indexOf("record-delete")
	for _, id := range []string{"properties/a", "properties/b", "properties/c"} {
		if f.log.indexOf("blob-delete:"+id) < recordIdx {
			t.Errorf("blob %s deleted before the record", id)
		}
	}
}

func TestDeletePropertyBlobFailureStillSucceeds(t *testing.T) {
	f := newListingFixture()

	in := validPropertyInput()
	in.Images = [][]byte{[]byte("a"), []byte("b")}
	property, err := f.service.CreateProperty(context.Background(), f.actorFor(f.agent), in)
	if err != nil {
		t.Fatalf("CreateProperty: %v", err)
	}

	f.images.deleteErr = errors.New("store down")
	if err := f.service.DeleteProperty(context.Background(), f.actorFor(f.agent), property.ID); err != nil {
		t.Fatalf("DeleteProperty: %v, want nil despite blob failures", err)
	}

	if len(f.cleanup.published) != 1 {
		t.Fatalf("cleanup publishes = %d, want 1", len(f.cleanup.published))
	}
	if len(f.cleanup.published[0]) != 2 {
		t.Errorf("cleanup batch size = %d, want 2", len(f.cleanup.published[0]))
	}
}

func TestDeleteMissingPropertyIsNotFound(t *testing.T) {
	f := newListingFixture()

	err := f.service.DeleteProperty(context.Background(), f.actorFor(f.agent), uuid.New())
	if !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Fatalf("err = %v, want ErrNotFoundOrForbidden", err)
	}
}

func validProjectInput() ProjectInput {
	return ProjectInput{
		Title:    "Emerald Heights",
		Location: "Sindh, Karachi, DHA",
		Type:     "residential",
		PriceMin: 100000,
		PriceMax: 500000,
	}
}

func TestCreateProjectRequiresAgencyRole(t *testing.T) {
	f := newListingFixture()

	_, err := f.service.CreateProject(context.Background(), f.actorFor(f.agent), validProjectInput())
	if !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Fatalf("err = %v, want ErrNotFoundOrForbidden", err)
	}

	project, err := f.service.CreateProject(context.Background(), f.actorFor(f.agency), validProjectInput())
	if err != nil {
		t.Fatalf("CreateProject as agency: %v", err)
	}
	if project.Slug != "emerald-heights" {
		t.Errorf("slug = %q", project.Slug)
	}
	if project.Status != entity.StatusActive {
		t.Errorf("status = %q, want %q", project.Status, entity.StatusActive)
	}
}

func TestUpdateProjectEmptyStatusKeepsExisting(t *testing.T) {
	f := newListingFixture()

	in := validProjectInput()
	in.Status = entity.StatusCompleted
	project, err := f.service.CreateProject(context.Background(), f.actorFor(f.agency), in)
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	update := validProjectInput()
	update.Status = ""
	updated, err := f.service.UpdateProject(context.Background(), f.actorFor(f.agency), project.Slug, update)
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if updated.Status != entity.StatusCompleted {
		t.Errorf("status = %q, want %q", updated.Status, entity.StatusCompleted)
	}
}

func TestUpdateProjectSlugChange(t *testing.T) {
	f := newListingFixture()

	project, err := f.service.CreateProject(context.Background(), f.actorFor(f.agency), validProjectInput())
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	update := validProjectInput()
	update.Slug = "Emerald Towers"
	updated, err := f.service.UpdateProject(context.Background(), f.actorFor(f.agency), project.Slug, update)
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if updated.Slug != "emerald-towers" {
		t.Errorf("slug = %q, want %q", updated.Slug, "emerald-towers")
	}
	if _, err := f.projects.FindBySlug("emerald-towers"); err != nil {
		t.Errorf("project not reachable under new slug: %v", err)
	}
}

func TestDeleteProjectBySlug(t *testing.T) {
	f := newListingFixture()

	in := validProjectInput()
	in.Images = [][]byte{[]byte("p1"), []byte("p2")}
	project, err := f.service.CreateProject(context.Background(), f.actorFor(f.agency), in)
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	if err := f.service.DeleteProject(context.Background(), f.actorFor(f.agency), project.Slug); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if f.images.deletedCount() != 2 {
		t.Errorf("blob deletes = %d, want 2", f.images.deletedCount())
	}
	if _, err := f.projects.FindBySlug(project.Slug); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("project still resolvable after delete")
	}
}

func TestPersistenceErrorMapsDuplicateKey(t *testing.T) {
	err := persistenceError(gorm.ErrDuplicatedKey)
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("err = %v, want ErrDuplicateSlug", err)
	}

	err = persistenceError(errors.New("connection reset"))
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("err = %v, want ErrPersistence", err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/propertyhub/propertyhub/entity"
	"github.com/propertyhub/propertyhub/infra"
	"github.com/propertyhub/propertyhub/utils"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Upload folders. All images of one listing share its kind's folder, which is
// what lets DerivePublicID recover blob ids from stored URLs.
const (
	FolderProperties = "properties"
	FolderProjects   = "projects"
	FolderLogos      = "logos"
)

// PropertyStore is the persistence surface the coordinator needs for
// properties. *repository.PropertyRepository implements it.
type PropertyStore interface {
	Create(property *entity.Property) error
	FindByID(id uuid.UUID) (*entity.Property, error)
	SlugExists(slug string, excludeID uuid.UUID) (bool, error)
	Update(property *entity.Property) error
	Delete(id uuid.UUID) error
}

// ProjectStore is the persistence surface for projects, keyed by slug the way
// the public project URLs are.
type ProjectStore interface {
	Create(project *entity.Project) error
	FindBySlug(slug string) (*entity.Project, error)
	SlugExists(slug string, excludeID uuid.UUID) (bool, error)
	Update(project *entity.Project) error
	Delete(id uuid.UUID) error
}

// AccountStore resolves owning accounts at creation time.
type AccountStore interface {
	FindByID(id uuid.UUID) (*entity.User, error)
}

// ImageStore uploads and deletes listing blobs. *infra.ImageStore implements it.
type ImageStore interface {
	Upload(ctx context.Context, blob []byte, folder string) (string, error)
	Delete(ctx context.Context, publicID string) error
}

// CleanupQueue receives blob ids whose synchronous deletion failed.
// *produce.MediaCleanupService implements it.
type CleanupQueue interface {
	PublishCleanup(ctx context.Context, publicIDs []string, reason string) error
}

// Logger matches *infra.LoggerClient.
type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...interface{})
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
	ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{})
}

// Actor is the already-authenticated caller identity every mutation trusts.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

type PropertyInput struct {
	Title       string
	Slug        string
	Description string
	State       string
	City        string
	AreaName    string
	LocalArea   string
	Latitude    float64
	Longitude   float64
	Type        string
	Purpose     string
	Status      string
	Price       float64
	Bedrooms    int
	Bathrooms   int
	Area        float64
	Amenities   []string
	Images      [][]byte
}

type ProjectInput struct {
	Title          string
	Slug           string
	Description    string
	Location       string
	State          string
	City           string
	AreaName       string
	Type           string
	Status         string
	LaunchDate     *time.Time
	CompletionDate *time.Time
	PriceMin       float64
	PriceMax       float64
	Amenities      []string
	Images         [][]byte
}

// ListingService coordinates every create/update/delete of properties and
// projects: slug normalization, uniqueness pre-checks, image fan-out and the
// final record write. Ordering rule throughout: no media side effect before
// validation and the slug check pass, and on image replacement new blobs are
// uploaded before old ones are deleted.
type ListingService struct {
	properties PropertyStore
	projects   ProjectStore
	accounts   AccountStore
	images     ImageStore
	cleanup    CleanupQueue
	logger     Logger
}

func NewListingService(
	properties PropertyStore,
	projects ProjectStore,
	accounts AccountStore,
	images ImageStore,
	cleanup CleanupQueue,
	logger Logger,
) *ListingService {
	return &ListingService{
		properties: properties,
		projects:   projects,
		accounts:   accounts,
		images:     images,
		cleanup:    cleanup,
		logger:     logger,
	}
}

func (s *ListingService) CreateProperty(ctx context.Context, actor Actor, in PropertyInput) (*entity.Property, error) {
	if !entity.IsValidPropertyType(in.Type) {
		return nil, fmt.Errorf("%w: unknown property type %q", ErrValidation, in.Type)
	}
	if !entity.IsValidPropertyPurpose(in.Purpose) {
		return nil, fmt.Errorf("%w: unknown property purpose %q", ErrValidation, in.Purpose)
	}
	if err := validateAmenities(in.Amenities); err != nil {
		return nil, err
	}

	owner, err := s.accounts.FindByID(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: owning account does not resolve", ErrNotFoundOrForbidden)
	}
	if owner.Role != entity.RoleAgent && owner.Role != entity.RoleAgency {
		return nil, fmt.Errorf("%w: role %q cannot own properties", ErrNotFoundOrForbidden, owner.Role)
	}

	slug, err := resolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	if err := s.checkPropertySlug(slug, uuid.Nil); err != nil {
		return nil, err
	}

	imageURLs, err := s.uploadImages(ctx, in.Images, FolderProperties)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = entity.StatusActive
	}

	property := &entity.Property{
		ID:          uuid.New(),
		Title:       in.Title,
		Slug:        slug,
		Description: in.Description,
		Location:    locationOf(in.State, in.City, in.AreaName),
		State:       in.State,
		City:        in.City,
		AreaName:    in.AreaName,
		LocalArea:   in.LocalArea,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Type:        in.Type,
		Purpose:     in.Purpose,
		Price:       in.Price,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		Area:        in.Area,
		Status:      status,
		Amenities:   datatypes.NewJSONSlice(in.Amenities),
		ImageURLs:   datatypes.NewJSONSlice(imageURLs),
		AgentID:     actor.ID,
	}

	if err := s.properties.Create(property); err != nil {
		return nil, persistenceError(err)
	}

	s.logger.InfoWithContextf(ctx, "[Listing] Property %s created with slug %q by %s", property.ID, slug, actor.ID)
	return property, nil
}

func (s *ListingService) UpdateProperty(ctx context.Context, actor Actor, id uuid.UUID, in PropertyInput) (*entity.Property, error) {
	property, err := s.authorizeProperty(actor, id)
	if err != nil {
		return nil, err
	}

	if !entity.IsValidPropertyType(in.Type) {
		return nil, fmt.Errorf("%w: unknown property type %q", ErrValidation, in.Type)
	}
	if !entity.IsValidPropertyPurpose(in.Purpose) {
		return nil, fmt.Errorf("%w: unknown property purpose %q", ErrValidation, in.Purpose)
	}
	if err := validateAmenities(in.Amenities); err != nil {
		return nil, err
	}

	// The slug check must pass before any media side effect.
	slug := property.Slug
	if in.Slug != "" {
		slug = utils.Slugify(in.Slug)
		if slug == "" {
			return nil, fmt.Errorf("%w: slug is empty after normalization", ErrValidation)
		}
		if err := s.checkPropertySlug(slug, property.ID); err != nil {
			return nil, err
		}
	}

	oldImageURLs := []string(property.ImageURLs)
	if len(in.Images) > 0 {
		// Full replacement. Upload the new set first so a failed upload
		// cannot leave the listing without images.
		newURLs, err := s.uploadImages(ctx, in.Images, FolderProperties)
		if err != nil {
			return nil, err
		}
		property.ImageURLs = datatypes.NewJSONSlice(newURLs)
		s.deleteImages(ctx, oldImageURLs, FolderProperties, "property image replacement")
	}

	property.Title = in.Title
	property.Slug = slug
	property.Description = in.Description
	property.Location = locationOf(in.State, in.City, in.AreaName)
	property.State = in.State
	property.City = in.City
	property.AreaName = in.AreaName
	property.LocalArea = in.LocalArea
	property.Latitude = in.Latitude
	property.Longitude = in.Longitude
	property.Type = in.Type
	property.Purpose = in.Purpose
	property.Price = in.Price
	property.Bedrooms = in.Bedrooms
	property.Bathrooms = in.Bathrooms
	property.Area = in.Area
	if in.Status != "" {
		property.Status = in.Status
	}
	property.Amenities = datatypes.NewJSONSlice(in.Amenities)

	if err := s.properties.Update(property); err != nil {
		return nil, persistenceError(err)
	}

	s.logger.InfoWithContextf(ctx, "[Listing] Property %s updated by %s", property.ID, actor.ID)
	return property, nil
}

func (s *ListingService) DeleteProperty(ctx context.Context, actor Actor, id uuid.UUID) error {
	property, err := s.authorizeProperty(actor, id)
	if err != nil {
		return err
	}

	// Record first, blobs second: a stale blob is recoverable via the
	// cleanup queue, a dangling record is user-visible.
	if err := s.properties.Delete(id); err != nil {
		return persistenceError(err)
	}

	s.deleteImages(ctx, property.ImageURLs, FolderProperties, "property deleted")
	s.logger.InfoWithContextf(ctx, "[Listing] Property %s deleted by %s", id, actor.ID)
	return nil
}

func (s *ListingService) CreateProject(ctx context.Context, actor Actor, in ProjectInput) (*entity.Project, error) {
	if !entity.IsValidProjectType(in.Type) {
		return nil, fmt.Errorf("%w: unknown project type %q", ErrValidation, in.Type)
	}
	status := in.Status
	if status == "" {
		status = entity.StatusActive
	}
	if !entity.IsValidProjectStatus(status) {
		return nil, fmt.Errorf("%w: unknown project status %q", ErrValidation, status)
	}
	if err := validateAmenities(in.Amenities); err != nil {
		return nil, err
	}

	owner, err := s.accounts.FindByID(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: owning account does not resolve", ErrNotFoundOrForbidden)
	}
	if owner.Role != entity.RoleAgency {
		return nil, fmt.Errorf("%w: role %q cannot own projects", ErrNotFoundOrForbidden, owner.Role)
	}

	slug, err := resolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	if err := s.checkProjectSlug(slug, uuid.Nil); err != nil {
		return nil, err
	}

	imageURLs, err := s.uploadImages(ctx, in.Images, FolderProjects)
	if err != nil {
		return nil, err
	}

	project := &entity.Project{
		ID:             uuid.New(),
		Title:          in.Title,
		Slug:           slug,
		Description:    in.Description,
		Location:       in.Location,
		State:          in.State,
		City:           in.City,
		AreaName:       in.AreaName,
		Type:           in.Type,
		Status:         status,
		LaunchDate:     in.LaunchDate,
		CompletionDate: in.CompletionDate,
		PriceMin:       in.PriceMin,
		PriceMax:       in.PriceMax,
		Amenities:      datatypes.NewJSONSlice(in.Amenities),
		ImageURLs:      datatypes.NewJSONSlice(imageURLs),
		AgencyID:       actor.ID,
	}

	if err := s.projects.Create(project); err != nil {
		return nil, persistenceError(err)
	}

	s.logger.InfoWithContextf(ctx, "[Listing] Project %s created with slug %q by %s", project.ID, slug, actor.ID)
	return project, nil
}

func (s *ListingService) UpdateProject(ctx context.Context, actor Actor, slug string, in ProjectInput) (*entity.Project, error) {
	project, err := s.authorizeProject(actor, slug)
	if err != nil {
		return nil, err
	}

	if !entity.IsValidProjectType(in.Type) {
		return nil, fmt.Errorf("%w: unknown project type %q", ErrValidation, in.Type)
	}
	status := in.Status
	if status == "" {
		status = project.Status
	}
	if !entity.IsValidProjectStatus(status) {
		return nil, fmt.Errorf("%w: unknown project status %q", ErrValidation, status)
	}
	if err := validateAmenities(in.Amenities); err != nil {
		return nil, err
	}

	newSlug := project.Slug
	if in.Slug != "" {
		newSlug = utils.Slugify(in.Slug)
		if newSlug == "" {
			return nil, fmt.Errorf("%w: slug is empty after normalization", ErrValidation)
		}
		if err := s.checkProjectSlug(newSlug, project.ID); err != nil {
			return nil, err
		}
	}

	oldImageURLs := []string(project.ImageURLs)
	if len(in.Images) > 0 {
		newURLs, err := s.uploadImages(ctx, in.Images, FolderProjects)
		if err != nil {
			return nil, err
		}
		project.ImageURLs = datatypes.NewJSONSlice(newURLs)
		s.deleteImages(ctx, oldImageURLs, FolderProjects, "project image replacement")
	}

	project.Title = in.Title
	project.Slug = newSlug
	project.Description = in.Description
	project.Location = in.Location
	project.State = in.State
	project.City = in.City
	project.AreaName = in.AreaName
	project.Type = in.Type
	project.Status = status
	project.LaunchDate = in.LaunchDate
	project.CompletionDate = in.CompletionDate
	project.PriceMin = in.PriceMin
	project.PriceMax = in.PriceMax
	project.Amenities = datatypes.NewJSONSlice(in.Amenities)

	if err := s.projects.Update(project); err != nil {
		return nil, persistenceError(err)
	}

	s.logger.InfoWithContextf(ctx, "[Listing] Project %s updated by %s", project.ID, actor.ID)
	return project, nil
}

func (s *ListingService) DeleteProject(ctx context.Context, actor Actor, slug string) error {
	project, err := s.authorizeProject(actor, slug)
	if err != nil {
		return err
	}

	if err := s.projects.Delete(project.ID); err != nil {
		return persistenceError(err)
	}

	s.deleteImages(ctx, project.ImageURLs, FolderProjects, "project deleted")
	s.logger.InfoWithContextf(ctx, "[Listing] Project %s deleted by %s", project.ID, actor.ID)
	return nil
}

// authorizeProperty resolves the record and enforces ownership. "Does not
// exist" and "exists but not yours" are deliberately the same error so
// callers cannot probe for foreign listings.
func (s *ListingService) authorizeProperty(actor Actor, id uuid.UUID) (*entity.Property, error) {
	property, err := s.properties.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, persistenceError(err)
	}
	if !actor.IsAdmin() && property.AgentID != actor.ID {
		return nil, ErrNotFoundOrForbidden
	}
	return property, nil
}

func (s *ListingService) authorizeProject(actor Actor, slug string) (*entity.Project, error) {
	project, err := s.projects.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, persistenceError(err)
	}
	if !actor.IsAdmin() && project.AgencyID != actor.ID {
		return nil, ErrNotFoundOrForbidden
	}
	return project, nil
}

func (s *ListingService) checkPropertySlug(slug string, excludeID uuid.UUID) error {
	exists, err := s.properties.SlugExists(slug, excludeID)
	if err != nil {
		return persistenceError(err)
	}
	if exists {
		return fmt.Errorf("%w: %q", ErrDuplicateSlug, slug)
	}
	return nil
}

func (s *ListingService) checkProjectSlug(slug string, excludeID uuid.UUID) error {
	exists, err := s.projects.SlugExists(slug, excludeID)
	if err != nil {
		return persistenceError(err)
	}
	if exists {
		return fmt.Errorf("%w: %q", ErrDuplicateSlug, slug)
	}
	return nil
}

// uploadImages fans out all blob uploads concurrently and preserves
// submission order in the result. Any single failure aborts the whole batch;
// blobs that made it to the store before the failure are orphaned and only
// logged.
func (s *ListingService) uploadImages(ctx context.Context, blobs [][]byte, folder string) ([]string, error) {
	if len(blobs) == 0 {
		return nil, nil
	}

	urls := make([]string, len(blobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, blob := range blobs {
		g.Go(func() error {
			url, err := s.images.Upload(gctx, blob, folder)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.WarningWithContextf(ctx, "[Listing] Image upload fan-out aborted, completed uploads are orphaned: %v", err)
		return nil, err
	}
	return urls, nil
}

// deleteImages removes blobs best-effort: failures are logged and handed to
// the cleanup queue, never surfaced to the caller.
func (s *ListingService) deleteImages(ctx context.Context, urls []string, folder, reason string) {
	if len(urls) == 0 {
		return
	}

	var (
		mu     sync.Mutex
		failed []string
		wg     sync.WaitGroup
	)
	for _, url := range urls {
		publicID := infra.DerivePublicID(url, folder)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.images.Delete(ctx, publicID); err != nil {
				s.logger.ErrorWithContextf(ctx, err, "[Listing] Failed to delete blob %s (%s)", publicID, reason)
				mu.Lock()
				failed = append(failed, publicID)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(failed) > 0 {
		if err := s.cleanup.PublishCleanup(ctx, failed, reason); err != nil {
			s.logger.ErrorWithContextf(ctx, err, "[Listing] Failed to enqueue media cleanup for %d blobs", len(failed))
		}
	}
}

// resolveSlug prefers a caller-supplied slug and falls back to the title.
func resolveSlug(supplied, title string) (string, error) {
	slug := utils.Slugify(supplied)
	if slug == "" {
		slug = utils.Slugify(title)
	}
	if slug == "" {
		return "", fmt.Errorf("%w: slug is empty after normalization", ErrValidation)
	}
	return slug, nil
}

func validateAmenities(amenities []string) error {
	for _, a := range amenities {
		if !entity.IsValidAmenity(a) {
			return fmt.Errorf("%w: unknown amenity %q", ErrValidation, a)
		}
	}
	return nil
}

func locationOf(state, city, areaName string) string {
	return state + ", " + city + ", " + areaName
}

// persistenceError maps store failures onto the service taxonomy. A unique
// violation on slug is the storage-level backstop behind the pre-check.
func persistenceError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: unique constraint", ErrDuplicateSlug)
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

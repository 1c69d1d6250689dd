package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/propertyhub/propertyhub/entity"
	"github.com/propertyhub/propertyhub/http/controller/dto"
	"github.com/propertyhub/propertyhub/infra"
	"github.com/propertyhub/propertyhub/service"
	"github.com/propertyhub/propertyhub/utils"
	"gorm.io/gorm"
)

// propertyDetail is the public representation: the record plus the contact
// block, which falls back to the platform contact when the owning account is
// gone.
type propertyDetail struct {
	Property *entity.Property `json:"property"`
	Contact  service.Contact  `json:"contact"`
}

func (ctrl *Controller) CreateProperty(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var form dto.PropertyForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Property] Failed to bind create form: %v", err)
		utils.JSON400(c, "Invalid form data")
		return
	}

	images, err := readImages(c, "images")
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Property] Failed to read image files")
		utils.JSON400(c, "Failed to read image files")
		return
	}

	property, err := ctrl.Listings.CreateProperty(ctx, actor, form.ToInput(images))
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Property] Create failed for %s", actor.ID)
		respondListingError(c, err)
		return
	}

	utils.JSON201(c, property)
}

func (ctrl *Controller) UpdateProperty(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid property id")
		return
	}

	var form dto.PropertyForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Property] Failed to bind update form: %v", err)
		utils.JSON400(c, "Invalid form data")
		return
	}

	images, err := readImages(c, "images")
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Property] Failed to read image files")
		utils.JSON400(c, "Failed to read image files")
		return
	}

	// Capture the current slug so a slug change can drop the stale cache key.
	oldSlug := ""
	if existing, err := ctrl.Repository.PropertyRepo.FindByID(id); err == nil {
		oldSlug = existing.Slug
	}

	property, err := ctrl.Listings.UpdateProperty(ctx, actor, id, form.ToInput(images))
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Property] Update failed for %s", id)
		respondListingError(c, err)
		return
	}

	keys := []string{propertyCacheKey(property.Slug)}
	if oldSlug != "" && oldSlug != property.Slug {
		keys = append(keys, propertyCacheKey(oldSlug))
	}
	ctrl.invalidateCache(c, keys...)
	utils.JSON200(c, property)
}

func (ctrl *Controller) DeleteProperty(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid property id")
		return
	}

	oldSlug := ""
	if existing, err := ctrl.Repository.PropertyRepo.FindByID(id); err == nil {
		oldSlug = existing.Slug
	}

	if err := ctrl.Listings.DeleteProperty(ctx, actor, id); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Property] Delete failed for %s", id)
		respondListingError(c, err)
		return
	}

	if oldSlug != "" {
		ctrl.invalidateCache(c, propertyCacheKey(oldSlug))
	}
	utils.JSON200(c, gin.H{"message": "Property deleted successfully", "id": id})
}

func (ctrl *Controller) ListProperties(c *gin.Context) {
	ctx := c.Request.Context()

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}

	properties, err := ctrl.Repository.PropertyRepo.FindAll(limit)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Property] Failed to list properties")
		utils.JSON500(c, "Failed to list properties")
		return
	}

	utils.JSON200(c, gin.H{"properties": properties, "count": len(properties)})
}

func (ctrl *Controller) GetPropertyBySlug(c *gin.Context) {
	ctx := c.Request.Context()

	slug := c.Param("slug")
	if slug == "" {
		utils.JSON400(c, "slug is required")
		return
	}

	var cached propertyDetail
	if err := ctrl.Infra.Redis.Get(ctx, propertyCacheKey(slug), &cached); err == nil {
		utils.JSON200(c, cached)
		return
	} else if !errors.Is(err, infra.ErrCacheMiss) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Property] Cache read failed for %q: %v", slug, err)
	}

	property, err := ctrl.Repository.PropertyRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Property not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Property] Lookup failed for %q", slug)
		utils.JSON500(c, "Failed to load property")
		return
	}

	detail := propertyDetail{
		Property: property,
		Contact:  ctrl.contactFor(property.AgentID),
	}

	if err := ctrl.Infra.Redis.Set(ctx, propertyCacheKey(slug), detail, detailCacheTTL); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Property] Cache write failed for %q: %v", slug, err)
	}

	utils.JSON200(c, detail)
}

// contactFor resolves a listing owner into its display contact, falling back
// to the platform contact when the account no longer resolves.
func (ctrl *Controller) contactFor(ownerID uuid.UUID) service.Contact {
	account, err := ctrl.Repository.UserRepo.FindByID(ownerID)
	if err != nil {
		account = nil
	}
	return service.OwnerOf(account).Contact()
}

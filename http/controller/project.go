package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/propertyhub/propertyhub/entity"
	"github.com/propertyhub/propertyhub/http/controller/dto"
	"github.com/propertyhub/propertyhub/infra"
	"github.com/propertyhub/propertyhub/service"
	"github.com/propertyhub/propertyhub/utils"
	"gorm.io/gorm"
)

type projectDetail struct {
	Project *entity.Project `json:"project"`
	Contact service.Contact `json:"contact"`
}

func (ctrl *Controller) CreateProject(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var form dto.ProjectForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Project] Failed to bind create form: %v", err)
		utils.JSON400(c, "Invalid form data")
		return
	}

	images, err := readImages(c, "images")
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to read image files")
		utils.JSON400(c, "Failed to read image files")
		return
	}

	project, err := ctrl.Listings.CreateProject(ctx, actor, form.ToInput(images))
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Create failed for %s", actor.ID)
		respondListingError(c, err)
		return
	}

	utils.JSON201(c, project)
}

func (ctrl *Controller) UpdateProject(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		utils.JSON400(c, "slug is required")
		return
	}

	var form dto.ProjectForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Project] Failed to bind update form: %v", err)
		utils.JSON400(c, "Invalid form data")
		return
	}

	images, err := readImages(c, "images")
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to read image files")
		utils.JSON400(c, "Failed to read image files")
		return
	}

	project, err := ctrl.Listings.UpdateProject(ctx, actor, slug, form.ToInput(images))
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Update failed for %q", slug)
		respondListingError(c, err)
		return
	}

	// A slug change strands the old cache entry, drop both keys.
	ctrl.invalidateCache(c, projectCacheKey(slug), projectCacheKey(project.Slug))
	utils.JSON200(c, project)
}

func (ctrl *Controller) DeleteProject(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		utils.JSON400(c, "slug is required")
		return
	}

	if err := ctrl.Listings.DeleteProject(ctx, actor, slug); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Delete failed for %q", slug)
		respondListingError(c, err)
		return
	}

	ctrl.invalidateCache(c, projectCacheKey(slug))
	utils.JSON200(c, gin.H{"message": "Project deleted successfully", "slug": slug})
}

func (ctrl *Controller) ListProjects(c *gin.Context) {
	ctx := c.Request.Context()

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}

	projects, err := ctrl.Repository.ProjectRepo.FindAll(limit)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to list projects")
		utils.JSON500(c, "Failed to list projects")
		return
	}

	utils.JSON200(c, gin.H{"projects": projects, "count": len(projects)})
}

func (ctrl *Controller) GetProjectBySlug(c *gin.Context) {
	ctx := c.Request.Context()

	slug := c.Param("slug")
	if slug == "" {
		utils.JSON400(c, "slug is required")
		return
	}

	var cached projectDetail
	if err := ctrl.Infra.Redis.Get(ctx, projectCacheKey(slug), &cached); err == nil {
		utils.JSON200(c, cached)
		return
	} else if !errors.Is(err, infra.ErrCacheMiss) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Project] Cache read failed for %q: %v", slug, err)
	}

	project, err := ctrl.Repository.ProjectRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSON404(c, "Project not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Lookup failed for %q", slug)
		utils.JSON500(c, "Failed to load project")
		return
	}

	detail := projectDetail{
		Project: project,
		Contact: ctrl.contactFor(project.AgencyID),
	}

	if err := ctrl.Infra.Redis.Set(ctx, projectCacheKey(slug), detail, detailCacheTTL); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Project] Cache write failed for %q: %v", slug, err)
	}

	utils.JSON200(c, detail)
}

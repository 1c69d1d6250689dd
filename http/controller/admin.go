package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/propertyhub/propertyhub/entity"
	"github.com/propertyhub/propertyhub/http/controller/dto"
	"github.com/propertyhub/propertyhub/infra"
	"github.com/propertyhub/propertyhub/service"
	"github.com/propertyhub/propertyhub/utils"
)

// AdminDashboard returns the whole platform at a glance.
func (ctrl *Controller) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := ctrl.Repository.UserRepo.FindAll()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to load users")
		utils.JSON500(c, "Failed to load dashboard")
		return
	}

	properties, err := ctrl.Repository.PropertyRepo.FindAll(200)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to load properties")
		utils.JSON500(c, "Failed to load dashboard")
		return
	}

	projects, err := ctrl.Repository.ProjectRepo.FindAll(200)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to load projects")
		utils.JSON500(c, "Failed to load dashboard")
		return
	}

	roleCounts := map[string]int{}
	for _, user := range users {
		roleCounts[user.Role]++
	}

	utils.JSON200(c, gin.H{
		"users":          users,
		"role_counts":    roleCounts,
		"properties":     properties,
		"property_count": len(properties),
		"projects":       projects,
		"project_count":  len(projects),
	})
}

// CreateAgent is the admin-managed agent onboarding path.
func (ctrl *Controller) CreateAgent(c *gin.Context) {
	ctx := c.Request.Context()

	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		utils.JSON400(c, "Invalid form data")
		return
	}

	if form.Password != form.ConfirmPassword {
		utils.JSON400(c, "Passwords do not match")
		return
	}

	user, err := ctrl.Accounts.CreateAgent(ctx, form.ToInput(""))
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Admin] Agent creation failed for %q", form.Email)
		respondAccountError(c, err)
		return
	}

	utils.JSON201(c, user)
}

func (ctrl *Controller) ListAgents(c *gin.Context) {
	ctx := c.Request.Context()

	agents, err := ctrl.Repository.UserRepo.FindByRole(entity.RoleAgent)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to list agents")
		utils.JSON500(c, "Failed to list agents")
		return
	}

	utils.JSON200(c, gin.H{"agents": agents, "count": len(agents)})
}

func (ctrl *Controller) UpdateAgent(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid account id")
		return
	}

	var form dto.ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		utils.JSON400(c, "Invalid form data")
		return
	}

	user, err := ctrl.Accounts.UpdateProfile(ctx, id, service.ProfileInput{
		Name:  form.Name,
		Email: form.Email,
		Phone: form.Phone,
	})
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to update agent %s", id)
		respondAccountError(c, err)
		return
	}

	utils.JSON200(c, user)
}

// DeleteAccount removes an account and every listing it owns in one
// transaction. Blob cleanup happens asynchronously through the media queue
// once the records are gone.
func (ctrl *Controller) DeleteAccount(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid account id")
		return
	}

	properties, err := ctrl.Repository.PropertyRepo.FindByAgentID(id)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to load properties for account %s", id)
		utils.JSON500(c, "Failed to delete account")
		return
	}
	projects, err := ctrl.Repository.ProjectRepo.FindByAgencyID(id)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to load projects for account %s", id)
		utils.JSON500(c, "Failed to delete account")
		return
	}

	tx := ctrl.Repository.BeginTransaction(ctrl.Infra.Postgres.DB)
	txRepo := ctrl.Repository.WithTransaction(tx)

	for _, property := range properties {
		if err := txRepo.PropertyRepo.Delete(property.ID); err != nil {
			tx.Rollback()
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to delete property %s for account %s", property.ID, id)
			utils.JSON500(c, "Failed to delete account")
			return
		}
	}
	for _, project := range projects {
		if err := txRepo.ProjectRepo.Delete(project.ID); err != nil {
			tx.Rollback()
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to delete project %s for account %s", project.ID, id)
			utils.JSON500(c, "Failed to delete account")
			return
		}
	}
	if err := txRepo.UserRepo.Delete(id); err != nil {
		tx.Rollback()
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to delete account %s", id)
		utils.JSON500(c, "Failed to delete account")
		return
	}
	if err := tx.Commit().Error; err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to commit account deletion for %s", id)
		utils.JSON500(c, "Failed to delete account")
		return
	}

	var keys []string
	var publicIDs []string
	for _, property := range properties {
		keys = append(keys, propertyCacheKey(property.Slug))
		for _, url := range property.ImageURLs {
			publicIDs = append(publicIDs, infra.DerivePublicID(url, service.FolderProperties))
		}
	}
	for _, project := range projects {
		keys = append(keys, projectCacheKey(project.Slug))
		for _, url := range project.ImageURLs {
			publicIDs = append(publicIDs, infra.DerivePublicID(url, service.FolderProjects))
		}
	}
	if len(keys) > 0 {
		ctrl.invalidateCache(c, keys...)
	}
	if len(publicIDs) > 0 {
		if err := ctrl.Infra.Produce.MediaCleanup.PublishCleanup(ctx, publicIDs, "account deleted"); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Admin] Failed to enqueue media cleanup for account %s", id)
		}
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Admin] Deleted account %s with %d properties and %d projects", id, len(properties), len(projects))
	utils.JSON200(c, gin.H{"message": "Account deleted successfully", "id": id})
}

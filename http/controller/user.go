package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/propertyhub/propertyhub/entity"
	"github.com/propertyhub/propertyhub/http/controller/dto"
	"github.com/propertyhub/propertyhub/service"
	"github.com/propertyhub/propertyhub/utils"
)

func (ctrl *Controller) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Auth] Failed to bind register form: %v", err)
		utils.JSON400(c, "Invalid form data")
		return
	}

	if form.Password != form.ConfirmPassword {
		utils.JSON400(c, "Passwords do not match")
		return
	}

	// Agency registrations may carry a logo file.
	logoURL := ""
	if blobs, err := readImages(c, "agency_logo"); err == nil && len(blobs) > 0 {
		logoURL, err = ctrl.Infra.ImageStore.Upload(ctx, blobs[0], service.FolderLogos)
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to upload agency logo")
			respondListingError(c, err)
			return
		}
	}

	user, err := ctrl.Accounts.Register(ctx, form.ToInput(logoURL))
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Registration failed for %q", form.Email)
		respondAccountError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role, ctrl.Config.EnvConfig)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to issue token for %s", user.ID)
		utils.JSON500(c, "Failed to issue token")
		return
	}

	ctrl.setAuthCookie(c, token)
	utils.JSON201(c, gin.H{"user": user, "access_token": token})
}

func (ctrl *Controller) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		utils.JSON400(c, "Invalid form data")
		return
	}

	user, err := ctrl.Accounts.Authenticate(ctx, form.Email, form.Password)
	if err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Auth] Login rejected for %q", form.Email)
		respondAccountError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role, ctrl.Config.EnvConfig)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to issue token for %s", user.ID)
		utils.JSON500(c, "Failed to issue token")
		return
	}

	ctrl.setAuthCookie(c, token)
	utils.JSON200(c, gin.H{"user": user, "access_token": token})
}

func (ctrl *Controller) Logout(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", "", ctrl.Config.EnvConfig.Environment.Mode == "production", true)
	utils.JSON200(c, gin.H{"message": "Logged out"})
}

func (ctrl *Controller) Me(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	user, err := ctrl.Accounts.GetByID(ctx, actor.ID)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	utils.JSON200(c, user)
}

func (ctrl *Controller) UpdateMe(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var form dto.ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		utils.JSON400(c, "Invalid form data")
		return
	}

	logoURL := ""
	if blobs, err := readImages(c, "agency_logo"); err == nil && len(blobs) > 0 {
		logoURL, err = ctrl.Infra.ImageStore.Upload(ctx, blobs[0], service.FolderLogos)
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to upload agency logo")
			respondListingError(c, err)
			return
		}
	}

	user, err := ctrl.Accounts.UpdateProfile(ctx, actor.ID, service.ProfileInput{
		Name:          form.Name,
		Email:         form.Email,
		Phone:         form.Phone,
		AgencyName:    form.AgencyName,
		AgencyAddress: form.AgencyAddress,
		AgencyLogo:    logoURL,
	})
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Profile update failed for %s", actor.ID)
		respondAccountError(c, err)
		return
	}

	utils.JSON200(c, user)
}

// Dashboard returns the caller's own listings: properties for agents, plus
// projects for agencies.
func (ctrl *Controller) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	properties, err := ctrl.Repository.PropertyRepo.FindByAgentID(actor.ID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Dashboard] Failed to load properties for %s", actor.ID)
		utils.JSON500(c, "Failed to load dashboard")
		return
	}

	payload := gin.H{
		"properties":     properties,
		"property_count": len(properties),
	}

	if actor.Role == entity.RoleAgency {
		projects, err := ctrl.Repository.ProjectRepo.FindByAgencyID(actor.ID)
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Dashboard] Failed to load projects for %s", actor.ID)
			utils.JSON500(c, "Failed to load dashboard")
			return
		}
		payload["projects"] = projects
		payload["project_count"] = len(projects)
	}

	utils.JSON200(c, payload)
}

func (ctrl *Controller) setAuthCookie(c *gin.Context, token string) {
	secure := ctrl.Config.EnvConfig.Environment.Mode == "production"
	c.SetCookie("access_token", token, ctrl.Config.EnvConfig.JWT.Expire, "/", "", secure, true)
}

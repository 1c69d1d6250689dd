package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/propertyhub/propertyhub/entity"
	"github.com/propertyhub/propertyhub/http/controller"
	middlewares "github.com/propertyhub/propertyhub/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	apiRoutes := r.Group("/api/v1")
	{
		apiRoutes.GET("/healthz", ctrl.Healthz)

		authRoutes := apiRoutes.Group("/auth")
		{
			authRoutes.POST("/register", ctrl.Register)
			authRoutes.POST("/login", ctrl.Login)
			authRoutes.POST("/logout", ctrl.Logout)
		}

		// Public read surface.
		apiRoutes.GET("/properties", ctrl.ListProperties)
		apiRoutes.GET("/properties/:slug", ctrl.GetPropertyBySlug)
		apiRoutes.GET("/projects", ctrl.ListProjects)
		apiRoutes.GET("/projects/:slug", ctrl.GetProjectBySlug)

		authenticated := apiRoutes.Group("/")
		{
			authenticated.Use(middles.AuthMiddleware)

			authenticated.GET("/me", ctrl.Me)
			authenticated.PUT("/me", ctrl.UpdateMe)
			authenticated.GET("/dashboard", ctrl.Dashboard)

			listingRoutes := authenticated.Group("/listings")
			{
				listingRoutes.POST("/properties", ctrl.CreateProperty)
				listingRoutes.PUT("/properties/:id", ctrl.UpdateProperty)
				listingRoutes.DELETE("/properties/:id", ctrl.DeleteProperty)

				listingRoutes.POST("/projects", ctrl.CreateProject)
				listingRoutes.PUT("/projects/:slug", ctrl.UpdateProject)
				listingRoutes.DELETE("/projects/:slug", ctrl.DeleteProject)
			}

			adminRoutes := authenticated.Group("/admin")
			{
				adminRoutes.Use(middlewares.RequireRoles(entity.RoleAdmin))

				adminRoutes.GET("/dashboard", ctrl.AdminDashboard)
				adminRoutes.GET("/agents", ctrl.ListAgents)
				adminRoutes.POST("/agents", ctrl.CreateAgent)
				adminRoutes.PUT("/agents/:id", ctrl.UpdateAgent)
				adminRoutes.DELETE("/agents/:id", ctrl.DeleteAccount)

				// Moderation reuses the listing handlers, the service layer
				// recognizes the admin role.
				adminRoutes.PUT("/properties/:id", ctrl.UpdateProperty)
				adminRoutes.DELETE("/properties/:id", ctrl.DeleteProperty)
				adminRoutes.PUT("/projects/:slug", ctrl.UpdateProject)
				adminRoutes.DELETE("/projects/:slug", ctrl.DeleteProject)
			}
		}
	}
	return r
}

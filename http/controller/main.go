package controller

import (
	"github.com/propertyhub/propertyhub/config"
	"github.com/propertyhub/propertyhub/infra"
	"github.com/propertyhub/propertyhub/repository"
	"github.com/propertyhub/propertyhub/service"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	Listings   *service.ListingService
	Accounts   *service.AccountService
}

func NewController(cfg *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	listings := service.NewListingService(
		repo.PropertyRepo,
		repo.ProjectRepo,
		repo.UserRepo,
		infra.ImageStore,
		infra.Produce.MediaCleanup,
		infra.Logger,
	)
	accounts := service.NewAccountService(repo.UserRepo, infra.Logger)

	return &Controller{
		Config:     cfg,
		Infra:      infra,
		Repository: repo,
		Listings:   listings,
		Accounts:   accounts,
	}
}

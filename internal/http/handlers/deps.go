package handlers

import (
	"invdash/internal/config"
	"invdash/internal/dashboard"
	"invdash/internal/events"
	"invdash/internal/repos"
	"invdash/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth             *services.AuthService
	Views            *dashboard.Views
	AuthHandler      *AuthHandler
	DashboardHandler *DashboardHandler
	APIHandler       *APIHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, pub events.Publisher) *Deps {
	prodRepo := repos.NewProductRepo(db)
	views := dashboard.NewViews(prodRepo, pub, dashboard.Policy{ConfirmCreate: cfg.ConfirmCreate})

	return &Deps{
		Auth:             auth,
		Views:            views,
		AuthHandler:      &AuthHandler{Auth: auth, Views: views},
		DashboardHandler: &DashboardHandler{Views: views},
		APIHandler:       &APIHandler{Views: views, Products: prodRepo},
	}
}

package handlers

import (
	"github.com/jmoiron/sqlx"

	"wedsnap/internal/config"
	"wedsnap/internal/repos"
	"wedsnap/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler     *AuthHandler
	EstimateHandler *EstimateHandler
	SettingsHandler *SettingsHandler
	GigHandler      *GigHandler
	BookingHandler  *BookingHandler
	AdminHandler    *AdminHandler
	PageHandler     *PageHandler
}

// NewDeps wires repos, services and handlers. store may be nil, which
// disables the settings cache.
func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, store services.SettingsStore) *Deps {
	userRepo := repos.NewUserRepo(db)
	catalogRepo := repos.NewCatalogRepo(db)
	settingsRepo := repos.NewSettingsRepo(db)
	gigRepo := repos.NewGigRepo(db)
	bookingRepo := repos.NewBookingRepo(db)

	settingsSvc := services.NewSettingsService(settingsRepo, userRepo, catalogRepo, store, cfg.SettingsCacheTTL)
	estimateSvc := services.NewEstimateService(settingsSvc, catalogRepo)
	gigSvc := services.NewGigService(gigRepo, userRepo, estimateSvc)
	bookingSvc := services.NewBookingService(bookingRepo, userRepo, gigRepo, estimateSvc)

	return &Deps{
		Auth:            auth,
		AuthHandler:     &AuthHandler{Auth: auth, CookieSecure: cfg.CookieSecure},
		EstimateHandler: &EstimateHandler{Estimates: estimateSvc},
		SettingsHandler: &SettingsHandler{Settings: settingsSvc, Gigs: gigSvc},
		GigHandler:      &GigHandler{Gigs: gigSvc},
		BookingHandler:  &BookingHandler{Bookings: bookingSvc, CookieSecure: cfg.CookieSecure},
		AdminHandler:    &AdminHandler{Bookings: bookingSvc, Users: userRepo, Settings: settingsSvc},
		PageHandler:     &PageHandler{Users: userRepo, Estimates: estimateSvc},
	}
}

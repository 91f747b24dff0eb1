package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/loro/backend/internal/infrastructure/config"
)

// PublicSettings is the display configuration clients load at startup
type PublicSettings struct {
	Currency   CurrencySettings   `json:"currency"`
	Pagination PaginationSettings `json:"pagination"`
	Map        MapSettings        `json:"map"`
}

type CurrencySettings struct {
	Locale string `json:"locale"`
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

type PaginationSettings struct {
	DefaultPageSize int `json:"default_page_size"`
	MaxPageSize     int `json:"max_page_size"`
}

type MapSettings struct {
	DefaultCenter LatLng   `json:"default_center"`
	DefaultZoom   int      `json:"default_zoom"`
	Regions       []string `json:"regions"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SettingsHandler serves /settings
type SettingsHandler struct {
	BaseHandler
	settings PublicSettings
}

// NewSettingsHandler snapshots the public part of cfg
func NewSettingsHandler(cfg *config.Config) *SettingsHandler {
	regions := cfg.Map.Regions
	if regions == nil {
		regions = []string{}
	}
	return &SettingsHandler{settings: PublicSettings{
		Currency: CurrencySettings{
			Locale: cfg.Currency.Locale,
			Code:   cfg.Currency.Code,
			Symbol: cfg.Currency.Symbol,
		},
		Pagination: PaginationSettings{
			DefaultPageSize: cfg.Pagination.DefaultPageSize,
			MaxPageSize:     cfg.Pagination.MaxPageSize,
		},
		Map: MapSettings{
			DefaultCenter: LatLng{Lat: cfg.Map.DefaultCenterLat, Lng: cfg.Map.DefaultCenterLng},
			DefaultZoom:   cfg.Map.DefaultZoom,
			Regions:       regions,
		},
	}}
}

// Public godoc
// @Summary      Public client settings
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[PublicSettings]
// @Security     BearerAuth
// @Router       /settings/public [get]
func (h *SettingsHandler) Public(c *gin.Context) {
	h.Success(c, h.settings)
}

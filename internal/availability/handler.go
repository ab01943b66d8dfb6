package availability

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aura-events/backend/internal/models"
	"github.com/aura-events/backend/internal/settings"
	"github.com/aura-events/backend/pkg/response"
)

// Listing is the public availability payload.
type Listing struct {
	Title              string             `json:"title"`
	RegisterStartDate  *time.Time         `json:"register_start_date,omitempty"`
	RegisterEndDate    *time.Time         `json:"register_end_date,omitempty"`
	IsRegistrationOpen bool               `json:"is_registration_open"`
	Dates              []DateAvailability `json:"dates"`
}

// Handler serves the public availability listing.
type Handler struct {
	repo         *Repository
	settingsRepo *settings.Repository
	cache        *Cache
	logger       *zap.Logger
}

// NewHandler creates an availability handler.
func NewHandler(repo *Repository, settingsRepo *settings.Repository, cache *Cache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, settingsRepo: settingsRepo, cache: cache, logger: logger}
}

// List handles GET /availability. The registration-window gate lives here:
// is_registration_open tells clients whether POST /register will be accepted.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var cached Listing
	if h.cache.Get(ctx, &cached) {
		// Recompute the open flag so a cached payload cannot hold the
		// window open past its end.
		w := models.Settings{RegisterStartDate: cached.RegisterStartDate, RegisterEndDate: cached.RegisterEndDate}
		cached.IsRegistrationOpen = w.IsRegistrationOpen(time.Now())
		response.OK(c, cached)
		return
	}

	s, err := h.settingsRepo.Get(ctx)
	if err != nil {
		h.logger.Error("load settings", zap.Error(err))
		response.Internal(c, "failed to load availability")
		return
	}
	snap, err := h.repo.LoadSnapshot(ctx)
	if err != nil {
		h.logger.Error("load availability snapshot", zap.Error(err))
		response.Internal(c, "failed to load availability")
		return
	}

	listing := Listing{
		Title:              s.Title,
		RegisterStartDate:  s.RegisterStartDate,
		RegisterEndDate:    s.RegisterEndDate,
		IsRegistrationOpen: s.IsRegistrationOpen(time.Now()),
		Dates:              Compute(snap),
	}
	h.cache.Set(ctx, listing)
	response.OK(c, listing)
}

package settings

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aura-events/backend/internal/models"
	"github.com/aura-events/backend/pkg/response"
)

// UpdateRequest is the body for PUT /admin/settings.
type UpdateRequest struct {
	Title             string `json:"title" binding:"required"`
	RegisterStartDate string `json:"register_start_date"` // 2006-01-02, empty clears
	RegisterEndDate   string `json:"register_end_date"`
}

// Handler handles settings HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a settings handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Get handles GET /admin/settings.
func (h *Handler) Get(c *gin.Context) {
	s, err := h.repo.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("get settings", zap.Error(err))
		response.Internal(c, "failed to load settings")
		return
	}
	response.OK(c, gin.H{
		"title":                s.Title,
		"register_start_date":  s.RegisterStartDate,
		"register_end_date":    s.RegisterEndDate,
		"is_registration_open": s.IsRegistrationOpen(time.Now()),
	})
}

// Update handles PUT /admin/settings.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	s := &models.Settings{ID: models.SettingsID, Title: req.Title}
	if req.RegisterStartDate != "" {
		d, err := time.Parse("2006-01-02", req.RegisterStartDate)
		if err != nil {
			response.BadRequest(c, "register_start_date must be YYYY-MM-DD")
			return
		}
		s.RegisterStartDate = &d
	}
	if req.RegisterEndDate != "" {
		d, err := time.Parse("2006-01-02", req.RegisterEndDate)
		if err != nil {
			response.BadRequest(c, "register_end_date must be YYYY-MM-DD")
			return
		}
		s.RegisterEndDate = &d
	}
	if s.RegisterStartDate != nil && s.RegisterEndDate != nil && s.RegisterEndDate.Before(*s.RegisterStartDate) {
		response.BadRequest(c, "register_end_date must not precede register_start_date")
		return
	}

	if err := h.repo.Upsert(c.Request.Context(), s); err != nil {
		h.logger.Error("update settings", zap.Error(err))
		response.Internal(c, "failed to save settings")
		return
	}
	response.OK(c, s)
}

package registrations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-events/backend/internal/availability"
	"github.com/aura-events/backend/internal/directory"
	"github.com/aura-events/backend/internal/models"
	"github.com/aura-events/backend/pkg/response"
)

// RegisterRequest is the body for POST /register.
type RegisterRequest struct {
	UserID       string `json:"userid"`
	Name         string `json:"name"`
	Department   string `json:"department"`
	Position     string `json:"position"`
	RegisterType string `json:"register_type" binding:"required"`
	TimeID       string `json:"time_id" binding:"required"`
}

// RegisterResponse is the successful registration payload. Clients cache
// selection_id locally to re-display their booking on later visits.
type RegisterResponse struct {
	SelectionID uuid.UUID `json:"selection_id"`
	SlotTitle   string    `json:"slot_title"`
	Time        string    `json:"time"`
	Date        string    `json:"date"`
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	repo   *Repository
	dir    directory.Lookuper
	cache  *availability.Cache
	logger *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(repo *Repository, dir directory.Lookuper, cache *availability.Cache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, dir: dir, cache: cache, logger: logger}
}

// Register handles POST /register. Regular registrants are confirmed against
// the directory first; allocation never proceeds on a failed or unreachable
// lookup. Outsource registrants bypass the directory entirely.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	timeID, err := uuid.Parse(req.TimeID)
	if err != nil {
		response.BadRequest(c, "time_id must be a valid id")
		return
	}

	var ident Identity
	switch models.RegisterType(req.RegisterType) {
	case models.RegisterTypeRegular:
		p, err := h.dir.Lookup(c.Request.Context(), req.UserID)
		switch {
		case errors.Is(err, directory.ErrNotFound):
			response.BadRequest(c, "userid not found in directory")
			return
		case errors.Is(err, directory.ErrUnavailable):
			response.ServiceUnavailable(c, "directory service unavailable, try again later")
			return
		case err != nil:
			h.logger.Error("directory lookup", zap.String("userid", req.UserID), zap.Error(err))
			response.Internal(c, "failed to verify identity")
			return
		}
		ident, err = RegularIdentity(p.UserID, p.Name, p.Department, p.Position)
		if err != nil {
			response.BadRequest(c, "userid and name are required")
			return
		}
	case models.RegisterTypeOutsource:
		ident, err = OutsourceIdentity(req.Name, req.Department)
		if err != nil {
			response.BadRequest(c, "name is required")
			return
		}
	default:
		response.BadRequest(c, "register_type must be regular or outsource")
		return
	}

	det, err := h.repo.Allocate(c.Request.Context(), ident, timeID)
	switch {
	case errors.Is(err, ErrAlreadyRegistered):
		response.Conflict(c, response.CodeAlreadyRegistered, "an active registration already exists for this user")
		return
	case errors.Is(err, ErrTimeUnavailable):
		response.Fail(c, http.StatusNotFound, response.CodeTimeUnavailable, "time window not found or closed")
		return
	case errors.Is(err, ErrNoCapacity):
		response.Conflict(c, response.CodeNoCapacity, "all slots for this time window are full")
		return
	case err != nil:
		h.logger.Error("allocate selection", zap.String("userid", ident.UserID), zap.String("time_id", timeID.String()), zap.Error(err))
		response.Internal(c, "registration failed")
		return
	}

	h.cache.Invalidate(c.Request.Context())
	response.Created(c, RegisterResponse{
		SelectionID: det.ID,
		SlotTitle:   det.SlotTitle,
		Time:        det.TimeLabel(),
		Date:        det.EventDate.Format("2006-01-02"),
	})
}

// Get handles GET /selections/:id. Re-reading without mutation always
// returns identical data.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid selection id")
		return
	}
	det, err := h.repo.GetDetail(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "selection not found")
		return
	}
	if err != nil {
		h.logger.Error("get selection", zap.String("id", id.String()), zap.Error(err))
		response.Internal(c, "failed to load selection")
		return
	}
	response.OK(c, det)
}

// MySelection handles GET /my-selection?userid=... so a returning user sees
// their existing booking. The client-side cached selection id is only a
// convenience; this is the source of truth.
func (h *Handler) MySelection(c *gin.Context) {
	userid := c.Query("userid")
	if userid == "" {
		response.BadRequest(c, "userid is required")
		return
	}
	det, err := h.repo.FindActiveByUserID(c.Request.Context(), userid)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "no active registration for this user")
		return
	}
	if err != nil {
		h.logger.Error("find selection by userid", zap.String("userid", userid), zap.Error(err))
		response.Internal(c, "failed to load selection")
		return
	}
	response.OK(c, det)
}

// Search handles GET /admin/selections?search=... (50 most recent matches).
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("search")
	list, err := h.repo.Search(c.Request.Context(), query, 50)
	if err != nil {
		h.logger.Error("search selections", zap.String("search", query), zap.Error(err))
		response.Internal(c, "search failed")
		return
	}
	response.OK(c, list)
}

// Cancel handles POST /admin/selections/:id/cancel: a soft delete that frees
// the slot's capacity while keeping the row queryable and exportable.
func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid selection id")
		return
	}
	if err := h.repo.Cancel(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "selection not found or already cancelled")
			return
		}
		h.logger.Error("cancel selection", zap.String("id", id.String()), zap.Error(err))
		response.Internal(c, "cancel failed")
		return
	}
	h.cache.Invalidate(c.Request.Context())
	response.OK(c, gin.H{"cancelled": true})
}

// Package schedule is the admin mutation surface for dates, time windows,
// and capacity slots.
package schedule

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-events/backend/internal/availability"
	"github.com/aura-events/backend/internal/models"
	"github.com/aura-events/backend/pkg/response"
)

// DateRequest is the body for creating or updating a date.
type DateRequest struct {
	EventDate string `json:"event_date" binding:"required"` // 2006-01-02
	IsActive  *bool  `json:"is_active"`
}

// TimeRequest is the body for creating or updating a time window.
type TimeRequest struct {
	DateID    string `json:"date_id"` // required on create
	StartTime string `json:"start_time" binding:"required"` // HH:MM
	EndTime   string `json:"end_time"`
	IsActive  *bool  `json:"is_active"`
}

// SlotRequest is the body for creating or updating a slot.
type SlotRequest struct {
	TimeID         string `json:"time_id"` // required on create
	Title          string `json:"title" binding:"required"`
	AvailableSlots int    `json:"available_slots" binding:"min=0"`
	IsActive       *bool  `json:"is_active"`
}

// MassAddRequest attaches one slot template to every listed time window.
type MassAddRequest struct {
	Title          string   `json:"title" binding:"required"`
	AvailableSlots int      `json:"available_slots" binding:"min=0"`
	TimeIDs        []string `json:"time_ids" binding:"required,min=1"`
}

// BulkSaveRequest saves settings plus new dates and nested times atomically.
type BulkSaveRequest struct {
	Settings *struct {
		Title             string `json:"title"`
		RegisterStartDate string `json:"register_start_date"`
		RegisterEndDate   string `json:"register_end_date"`
	} `json:"settings"`
	Dates []struct {
		EventDate string `json:"event_date"`
		IsActive  *bool  `json:"is_active"`
		Times     []struct {
			StartTime string `json:"start_time"`
			EndTime   string `json:"end_time"`
			IsActive  *bool  `json:"is_active"`
		} `json:"times"`
	} `json:"dates"`
}

// Handler handles the admin schedule endpoints.
type Handler struct {
	repo   *Repository
	cache  *availability.Cache
	logger *zap.Logger
}

// NewHandler creates a schedule handler.
func NewHandler(repo *Repository, cache *availability.Cache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, cache: cache, logger: logger}
}

func activeOrDefault(p *bool) bool {
	if p == nil {
		return true
	}
	return *p
}

func parseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// parseClock validates and normalizes HH:MM.
func parseClock(s string) (string, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", err
	}
	return t.Format("15:04"), nil
}

// CreateDate handles POST /admin/dates.
func (h *Handler) CreateDate(c *gin.Context) {
	var req DateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	day, err := parseDay(req.EventDate)
	if err != nil {
		response.BadRequest(c, "event_date must be YYYY-MM-DD")
		return
	}
	d, err := h.repo.CreateDate(c.Request.Context(), day, activeOrDefault(req.IsActive))
	if err != nil {
		h.logger.Error("create date", zap.Error(err))
		response.Internal(c, "failed to create date")
		return
	}
	h.cache.Invalidate(c.Request.Context())
	response.Created(c, d)
}

// UpdateDate handles PUT /admin/dates/:id.
func (h *Handler) UpdateDate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid date id")
		return
	}
	var req DateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	day, err := parseDay(req.EventDate)
	if err != nil {
		response.BadRequest(c, "event_date must be YYYY-MM-DD")
		return
	}
	d, err := h.repo.UpdateDate(c.Request.Context(), id, day, activeOrDefault(req.IsActive))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "date not found")
		return
	}
	if err != nil {
		h.logger.Error("update date", zap.String("id", id.String()), zap.Error(err))
		response.Internal(c, "failed to update date")
		return
	}
	h.cache.Invalidate(c.Request.Context())
	response.OK(c, d)
}

// DeleteDate handles DELETE /admin/dates/:id. Times, slots, and selections
// under the date are removed by the FK cascade.
func (h *Handler) DeleteDate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid date id")
		return
	}
	if err := h.repo.DeleteDate(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "date not found")
			return
		}
		h.logger.Error("delete date", zap.String("id", id.String()), zap.Error(err))
		response.Internal(c, "failed to delete date")
		return
	}
	h.cache.Invalidate(c.Request.Context())
	response.OK(c, gin.H{"deleted": true})
}

// ListDates handles GET /admin/dates.
func (h *Handler) ListDates(c *gin.Context) {
	list, err := h.repo.ListDates(c.Request.Context())
	if err != nil {
		h.logger.Error("list dates", zap.Error(err))
		response.Internal(c, "failed to list dates")
		return
	}
	response.OK(c, list)
}

// CreateTime handles POST /admin/times.
func (h *Handler) CreateTime(c *gin.Context) {
	var req TimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	dateID, err := uuid.Parse(req.DateID)
	if err != nil {
		response.BadRequest(c, "date_id must be a valid id")
		return
	}
	start, end, err := normalizeWindow(req.StartTime, req.EndTime)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.repo.CreateTime(c.Request.Context(), dateID, start, end, activeOrDefault(req.IsActive))
	if err != nil {
		h.logger.Error("create time", zap.String("date_id", dateID.String()), zap.Error(err))
		response.Internal(c, "failed to create time")
		return
	}
	h.cache.Invalidate(c.Request.Context())
	response.Created(c, t)
}

// UpdateTime handles PUT /admin/times/:id.
func (h *Handler) UpdateTime(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid time id")
		return
	}
	var req TimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	start, end, err := normalizeWindow(req.StartTime, req.EndTime)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.repo.UpdateTime(c.Request.Context(), id, start, end, activeOrDefault(req.IsActive))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "time not found")
		return
	}
	if err != nil {
		h.logger.Error("update time", zap.String("id", id.String()), zap.Error(err))
		response.Internal(c, "failed to update time")
		return
	}
	h.cache.Invalidate(c.Request.Context())
	response.OK(c, t)
}

// DeleteTime handles DELETE /admin/times/:id.
func (h *Handler) DeleteTime(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid time id")
		return
	}
	if err := h.repo.DeleteTime(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "time not found")
			return
		}
		h.logger.Error("delete time", zap.String("id", id.String()), zap.Error(err))
		response.Internal(c, "failed to delete time")
		return
	}
	h.cache.Invalidate(c.Request.Context())
	response.OK(c, gin.H{"deleted": true})
}

// ListTimes handles GET /admin/times?date_id=...
func (h *Handler) ListTimes(c *gin.Context) {
	var dateID *uuid.UUID
	if s := c.Query("date_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "date_id must be a valid id")
			return
		}
		dateID = &id
	}
	list, err := h.repo.ListTimes(c.Request.Context(), dateID)
	if err != nil {
		h.logger.Error("list times", zap.Error(err))
		response.Internal(c, "failed to list times")
		return
	}
	response.OK(c, list)
}

// CreateSlot handles POST /admin/slots.
func (h *Handler) CreateSlot(c *gin.Context) {
	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	timeID, err := uuid.Parse(req.TimeID)
	if err != nil {
		response.BadRequest(c, "time_id must be a valid id")
		return
	}
	s, err := h.repo.CreateSlot(c.Request.Context(), timeID, req.Title, req.AvailableSlots, activeOrDefault(req.IsActive))
	if err != nil {
		h.logger.Error("create slot", zap.String("time_id", timeID.String()), zap.Error(err))
		response.Internal(c, "failed to create slot")
		return
	}
	h.cache.Invalidate(c.Request.Context())
	response.Created(c, s)
}

// UpdateSlot handles PUT /admin/slots/:id.
func (h *Handler) UpdateSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid slot id")
		return
	}
	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	s, err := h.repo.UpdateSlot(c.Request.Context(), id, req.Title, req.AvailableSlots, activeOrDefault(req.IsActive))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "slot not found")
		return
	}
	if err != nil {
		h.logger.Error("update slot", zap.String("id", id.String()), zap.Error(err))
		response.Internal(c, "failed to update slot")
		return
	}
	h.cache.Invalidate(c.Request.Context())
	response.OK(c, s)
}

// DeleteSlot handles DELETE /admin/slots/:id.
func (h *Handler) DeleteSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid slot id")
		return
	}
	if err := h.repo.DeleteSlot(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "slot not found")
			return
		}
		h.logger.Error("delete slot", zap.String("id", id.String()), zap.Error(err))
		response.Internal(c, "failed to delete slot")
		return
	}
	h.cache.Invalidate(c.Request.Context())
	response.OK(c, gin.H{"deleted": true})
}

// ListSlots handles GET /admin/slots?time_id=...
func (h *Handler) ListSlots(c *gin.Context) {
	var timeID *uuid.UUID
	if s := c.Query("time_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "time_id must be a valid id")
			return
		}
		timeID = &id
	}
	list, err := h.repo.ListSlots(c.Request.Context(), timeID)
	if err != nil {
		h.logger.Error("list slots", zap.Error(err))
		response.Internal(c, "failed to list slots")
		return
	}
	response.OK(c, list)
}

// MassAddSlot handles POST /admin/slots/mass-add: one slot template applied
// to every listed time window, each created slot tracking its own capacity.
func (h *Handler) MassAddSlot(c *gin.Context) {
	var req MassAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	timeIDs := make([]uuid.UUID, 0, len(req.TimeIDs))
	for _, s := range req.TimeIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "time_ids must be valid ids")
			return
		}
		timeIDs = append(timeIDs, id)
	}
	results, err := h.repo.MassAddSlot(c.Request.Context(), req.Title, req.AvailableSlots, timeIDs)
	if err != nil {
		h.logger.Error("mass add slot", zap.Int("times", len(timeIDs)), zap.Error(err))
		response.Internal(c, "failed to add slots")
		return
	}
	h.cache.Invalidate(c.Request.Context())
	response.OK(c, results)
}

// BulkSave handles POST /admin/schedule/bulk. Settings, dates, and times are
// written in one transaction; any failure rolls back the whole save.
func (h *Handler) BulkSave(c *gin.Context) {
	var req BulkSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	var s *models.Settings
	if req.Settings != nil {
		s = &models.Settings{ID: models.SettingsID, Title: req.Settings.Title}
		if req.Settings.RegisterStartDate != "" {
			d, err := parseDay(req.Settings.RegisterStartDate)
			if err != nil {
				response.BadRequest(c, "register_start_date must be YYYY-MM-DD")
				return
			}
			s.RegisterStartDate = &d
		}
		if req.Settings.RegisterEndDate != "" {
			d, err := parseDay(req.Settings.RegisterEndDate)
			if err != nil {
				response.BadRequest(c, "register_end_date must be YYYY-MM-DD")
				return
			}
			s.RegisterEndDate = &d
		}
	}

	dates := make([]BulkDate, 0, len(req.Dates))
	for _, rd := range req.Dates {
		day, err := parseDay(rd.EventDate)
		if err != nil {
			response.BadRequest(c, "event_date must be YYYY-MM-DD")
			return
		}
		bd := BulkDate{EventDate: day, IsActive: activeOrDefault(rd.IsActive)}
		for _, rt := range rd.Times {
			start, end, err := normalizeWindow(rt.StartTime, rt.EndTime)
			if err != nil {
				response.BadRequest(c, err.Error())
				return
			}
			bd.Times = append(bd.Times, BulkTime{StartTime: start, EndTime: end, IsActive: activeOrDefault(rt.IsActive)})
		}
		dates = append(dates, bd)
	}

	if err := h.repo.BulkSave(c.Request.Context(), s, dates); err != nil {
		h.logger.Error("bulk save schedule", zap.Error(err))
		response.Internal(c, "failed to save schedule")
		return
	}
	h.cache.Invalidate(c.Request.Context())
	response.OK(c, gin.H{"saved": true})
}

// normalizeWindow validates start/end clock strings and checks ordering.
func normalizeWindow(start, end string) (string, string, error) {
	s, err := parseClock(start)
	if err != nil {
		return "", "", errors.New("start_time must be HH:MM")
	}
	if end == "" {
		return s, "", nil
	}
	e, err := parseClock(end)
	if err != nil {
		return "", "", errors.New("end_time must be HH:MM")
	}
	if e <= s {
		return "", "", errors.New("end_time must be after start_time")
	}
	return s, e, nil
}

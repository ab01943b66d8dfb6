package export

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aura-events/backend/internal/registrations"
	"github.com/aura-events/backend/pkg/response"
)

// Handler serves the admin CSV export.
type Handler struct {
	repo   *registrations.Repository
	logger *zap.Logger
}

// NewHandler creates an export handler.
func NewHandler(repo *registrations.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Export handles GET /admin/export?search=&department=&register_type=.
// Only active (non-cancelled) selections are exported.
func (h *Handler) Export(c *gin.Context) {
	filter := registrations.ExportFilter{
		Search:       c.Query("search"),
		Department:   c.Query("department"),
		RegisterType: c.Query("register_type"),
	}
	if rt := filter.RegisterType; rt != "" && rt != "regular" && rt != "outsource" {
		response.BadRequest(c, "register_type must be regular or outsource")
		return
	}

	list, err := h.repo.ListActive(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("export selections", zap.Error(err))
		response.Internal(c, "export failed")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="registrations.csv"`)
	c.Status(http.StatusOK)
	if err := WriteCSV(c.Writer, list); err != nil {
		h.logger.Error("write csv", zap.Error(err))
	}
}

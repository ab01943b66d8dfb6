package directory

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/aura-events/backend/pkg/response"
)

// Lookuper is the consumer-side view of the directory client.
type Lookuper interface {
	Lookup(ctx context.Context, userid string) (*Person, error)
}

// Handler serves directory lookups for registration-form autofill and
// login-time identity resolution.
type Handler struct {
	client Lookuper
}

// NewHandler creates a directory handler.
func NewHandler(client Lookuper) *Handler {
	return &Handler{client: client}
}

// Lookup handles GET /directory/lookup?user_id=...
func (h *Handler) Lookup(c *gin.Context) {
	userid := c.Query("user_id")
	if userid == "" {
		response.BadRequest(c, "user_id is required")
		return
	}
	p, err := h.client.Lookup(c.Request.Context(), userid)
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "user not found")
		return
	case errors.Is(err, ErrUnavailable):
		response.ServiceUnavailable(c, "directory service unavailable")
		return
	case err != nil:
		response.Internal(c, "lookup failed")
		return
	}
	response.OK(c, p)
}

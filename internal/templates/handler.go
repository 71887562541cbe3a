package templates

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/shared/server/respond"
)

// Handler exposes the catalog over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches template routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.list)
	rg.GET("/templates/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	respond.OK(c, h.Svc.List())
}

func (h *Handler) get(c *gin.Context) {
	_, src, err := h.Svc.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidID), errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Template not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load template", nil)
		}
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(src))
}

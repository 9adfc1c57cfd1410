package ideas

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"verified-ideas/internal/shared/server/respond"
)

const (
	msgMissingFields = "Some of the fields are missing !"
	msgMissingID     = "_id is required in query parameters"
	msgInvalidID     = "Invalid _id"
	msgNotFound      = "Idea not found"
	msgInternal      = "Internal Server Error"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the idea routes to rg. createMiddleware runs in
// front of the create handler only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, createMiddleware ...gin.HandlerFunc) {
	g := rg.Group("/fetch-verified-ideas")
	handlers := append(append([]gin.HandlerFunc{}, createMiddleware...), h.create)
	g.POST("", handlers...)
	g.GET("", h.get)
	g.GET("/all", h.list)
}

func (h *Handler) create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", msgInternal, err)
		return
	}

	res, err := h.Svc.Create(c.Request.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			respond.Error(c, http.StatusBadRequest, "validation_error", msgMissingFields, err)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", msgInternal, err)
		}
		return
	}

	c.Set("ideaId", res.InsertedID.Hex())
	respond.OK(c, gin.H{"success": true, "data": res})
}

func (h *Handler) get(c *gin.Context) {
	rawID := c.Query("_id")
	c.Set("ideaId", rawID)

	idea, err := h.Svc.Get(c.Request.Context(), rawID)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingID):
			respond.Error(c, http.StatusBadRequest, "validation_error", msgMissingID, err)
		case errors.Is(err, ErrInvalidID):
			respond.Error(c, http.StatusBadRequest, "validation_error", msgInvalidID, err)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", msgNotFound, err)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", msgInternal, err)
		}
		return
	}

	respond.OK(c, gin.H{"success": true, "idea": idea})
}

func (h *Handler) list(c *gin.Context) {
	ideas, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", msgInternal, err)
		return
	}
	respond.OK(c, gin.H{"success": true, "ideas": ideas})
}

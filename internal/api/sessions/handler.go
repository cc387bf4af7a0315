package sessions

import (
	"errors"
	"net/http"

	"delivery-app/internal/domain/delivery"
	"delivery-app/internal/infra/store"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	workflow *delivery.Workflow
	store    *store.GormStore
}

func NewHandler(workflow *delivery.Workflow, st *store.GormStore) *Handler {
	return &Handler{workflow: workflow, store: st}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, delivery.ErrEmptyManifest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No artworks provided"})
	case errors.Is(err, delivery.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, delivery.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, delivery.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, delivery.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}

// POST /sessions
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.workflow.CreateSession(c.Request.Context(), req.Artworks, req.ClientDetails)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

// GET /sessions?status=active
func (h *Handler) ListSessions(c *gin.Context) {
	var statuses []delivery.SessionStatus
	if s := c.Query("status"); s != "" {
		statuses = append(statuses, delivery.SessionStatus(s))
	}

	sessions, err := h.store.ListSessions(c.Request.Context(), statuses...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GET /sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	id := c.Param("id")

	session, err := h.store.GetSession(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	artworks, err := h.store.ListArtworks(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load artworks"})
		return
	}

	c.JSON(http.StatusOK, SessionDetailDTO{Session: *session, Artworks: artworks})
}

// POST /sessions/:id/finalize
func (h *Handler) FinalizeSession(c *gin.Context) {
	if err := h.workflow.FinalizeSession(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready_for_pickup"})
}

// Package deliveryapi is the driver-facing surface: scanning, bulk
// confirmation, manual overrides and delivery completion.
package deliveryapi

import (
	"errors"
	"net/http"

	"delivery-app/internal/domain/delivery"
	"delivery-app/internal/domain/manifest"
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
	case errors.Is(err, delivery.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, delivery.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, delivery.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}

// GET /delivery/sessions
//
// Drivers only see sessions that have been finalized; archived ones stay
// visible read-only.
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.store.ListSessions(c.Request.Context(),
		delivery.SessionReadyForPickup, delivery.SessionArchived)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sessions"})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GET /delivery/sessions/:id
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

	c.JSON(http.StatusOK, gin.H{"session": session, "artworks": artworks})
}

type scanRequest struct {
	Scans []manifest.Candidate `json:"scans" binding:"required"`
}

// POST /delivery/sessions/:id/scan
func (h *Handler) MatchScans(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matches, err := h.workflow.MatchScans(c.Request.Context(), c.Param("id"), req.Scans)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

type confirmRequest struct {
	Phase string `json:"phase" binding:"required"`
	Items []struct {
		ArtworkID string `json:"artwork_id" binding:"required"`
		Selected  bool   `json:"selected"`
	} `json:"items" binding:"required"`
}

type confirmResultDTO struct {
	ArtworkID string `json:"artwork_id"`
	Applied   bool   `json:"applied"`
	Error     string `json:"error,omitempty"`
}

// POST /delivery/sessions/:id/confirm
//
// Partial failure is reported per item so the driver can retry only what
// failed; the response is 200 regardless.
func (h *Handler) ConfirmSelections(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	phase, err := delivery.ParsePhase(req.Phase)
	if err != nil {
		writeError(c, err)
		return
	}

	selections := make([]delivery.ReviewMatch, 0, len(req.Items))
	for _, item := range req.Items {
		selections = append(selections, delivery.ReviewMatch{
			Match:    &delivery.Artwork{ID: item.ArtworkID},
			Selected: item.Selected,
		})
	}

	results, err := h.workflow.ConfirmSelections(c.Request.Context(), phase, selections)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]confirmResultDTO, 0, len(results))
	for _, r := range results {
		dto := confirmResultDTO{ArtworkID: r.ArtworkID, Applied: r.Applied}
		if r.Err != nil {
			dto.Error = r.Err.Error()
		}
		out = append(out, dto)
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}

type manualUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// PUT /delivery/artworks/:id/status
func (h *Handler) UpdateArtworkStatus(c *gin.Context) {
	var req manualUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.workflow.UpdateArtworkStatus(c.Request.Context(), c.Param("id"), delivery.ArtworkStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// POST /delivery/sessions/:id/complete
func (h *Handler) CompleteDelivery(c *gin.Context) {
	if err := h.workflow.CompleteDelivery(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "archived"})
}

// Package manifests handles uploads of delivery manifests, both photographed
// pages (AI extraction) and text PDFs (pattern extraction). Both paths yield
// candidates for operator review; nothing is persisted here.
package manifests

import (
	"errors"
	"io"
	"net/http"

	"delivery-app/internal/domain/manifest"
	"delivery-app/internal/infra/pdftext"
	"delivery-app/internal/infra/vision"

	"github.com/gin-gonic/gin"
)

// 20MB covers multi-page scanned manifests comfortably.
const maxPDFBytes = 20 << 20

type Handler struct {
	vision vision.Client
}

func NewHandler(visionClient vision.Client) *Handler {
	return &Handler{vision: visionClient}
}

type imageRequest struct {
	// One or more photographed manifest pages, base64 encoded.
	Images []string `json:"images" binding:"required"`
}

// POST /manifests/image
//
// Runs one extraction call per page, concatenates and reconciles the results.
func (h *Handler) ExtractFromImages(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Images) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No images provided"})
		return
	}

	var candidates []manifest.Candidate
	for _, image := range req.Images {
		scanned, err := h.vision.ExtractArtworks(c.Request.Context(), image)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to extract artwork details", "details": err.Error()})
			return
		}
		for _, s := range scanned {
			candidates = append(candidates, manifest.Candidate{
				WACCode:    s.WACCode,
				Artist:     s.Artist,
				Title:      s.Title,
				Dimensions: s.Dimensions,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"artworks": manifest.Reconcile(candidates)})
}

// POST /manifests/pdf (multipart, field "file")
//
// Extracts bare codes only; artist/title stay empty until commit so the PDF
// path and the photo path stay interchangeable during review.
func (h *Handler) ExtractFromPDF(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if file.Size > maxPDFBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "PDF too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}

	text, err := pdftext.Extract(data)
	if err != nil {
		if errors.Is(err, pdftext.ErrNoText) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "This PDF appears to be an image (scanned). Please use a PDF with selectable text (OCR).",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to process PDF", "details": err.Error()})
		return
	}

	codes := manifest.ExtractWACCodes(text)
	if len(codes) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "No WAC codes found in the PDF. Ensure the PDF contains selectable text, not just images.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"codes": codes})
}

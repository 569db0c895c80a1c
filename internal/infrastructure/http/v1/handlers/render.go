package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docpress/internal/domain/document"
	"docpress/internal/render"
)

// RenderHandler produces PDF artifacts for stored documents.
type RenderHandler struct {
	BaseHandler
	service  *document.Service
	renderer *render.Renderer
}

// NewRenderHandler creates a render handler over the server-wide renderer.
func NewRenderHandler(service *document.Service, renderer *render.Renderer) *RenderHandler {
	return &RenderHandler{service: service, renderer: renderer}
}

// Render handles POST /documents/:id/render. The response body is the PDF
// itself, served as an attachment under the derived filename.
func (h *RenderHandler) Render(c *gin.Context) {
	recID, ok := h.ParseID(c)
	if !ok {
		return
	}

	rec, err := h.service.GetByID(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}

	artifact, err := h.renderer.Render(c.Request.Context(), rec)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Header("X-Page-Count", strconv.Itoa(artifact.Pages))
	c.Data(http.StatusOK, "application/pdf", artifact.Content)
}

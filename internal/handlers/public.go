package handlers

import (
	"errors"
	"net/http"

	"github.com/serh11pashkov/resumebuilder/internal/dto"
	"github.com/serh11pashkov/resumebuilder/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PublicHandler serves the unauthenticated gallery endpoints.
type PublicHandler struct {
	svc *service.ResumeService
	log *zap.Logger
}

// NewPublicHandler returns a new PublicHandler.
func NewPublicHandler(svc *service.ResumeService, log *zap.Logger) *PublicHandler {
	return &PublicHandler{svc: svc, log: log}
}

// Gallery godoc
// @Summary      List all published resumes
// @Tags         public
// @Produce      json
// @Success      200  {object}  dto.ListResumesResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /public/resumes [get]
func (h *PublicHandler) Gallery(c *gin.Context) {
	list, err := h.svc.PublicGallery(c.Request.Context())
	if err != nil {
		h.log.Error("gallery failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "failed to load gallery"})
		return
	}
	c.JSON(http.StatusOK, dto.ListResumesResponse{Items: resumesToResponses(list)})
}

// GetByURL godoc
// @Summary      Get a published resume by its public URL
// @Tags         public
// @Produce      json
// @Param        url  path  string  true  "Public URL slug"
// @Success      200  {object}  dto.ResumeResponse
// @Failure      404  {object}  dto.MessageResponse
// @Router       /public/resumes/{url} [get]
func (h *PublicHandler) GetByURL(c *gin.Context) {
	r, err := h.svc.GetPublic(c.Request.Context(), c.Param("url"))
	if err != nil {
		if errors.Is(err, service.ErrResumeNotFound) {
			c.JSON(http.StatusNotFound, dto.MessageResponse{Message: "resume not found"})
			return
		}
		h.log.Error("get public resume failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "failed to load resume"})
		return
	}
	c.JSON(http.StatusOK, resumeToResponse(r))
}

// ExportPDF godoc
// @Summary      Export a published resume as PDF
// @Tags         public
// @Produce      application/pdf
// @Param        url  path  string  true  "Public URL slug"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.MessageResponse
// @Router       /public/resumes/{url}/pdf [get]
func (h *PublicHandler) ExportPDF(c *gin.Context) {
	doc, err := h.svc.ExportPublicPDF(c.Request.Context(), c.Param("url"))
	if err != nil {
		if errors.Is(err, service.ErrResumeNotFound) {
			c.JSON(http.StatusNotFound, dto.MessageResponse{Message: "resume not found"})
			return
		}
		h.log.Error("export public resume failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "failed to export resume"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=resume.pdf")
	c.Data(http.StatusOK, "application/pdf", doc)
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/serh11pashkov/resumebuilder/internal/auth"
	"github.com/serh11pashkov/resumebuilder/internal/dto"
	"github.com/serh11pashkov/resumebuilder/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResumeHandler handles resume CRUD, publishing and PDF export.
type ResumeHandler struct {
	svc *service.ResumeService
	log *zap.Logger
}

// NewResumeHandler returns a new ResumeHandler.
func NewResumeHandler(svc *service.ResumeService, log *zap.Logger) *ResumeHandler {
	return &ResumeHandler{svc: svc, log: log}
}

func actorFrom(c *gin.Context) service.Actor {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return service.Actor{}
	}
	return service.Actor{UserID: claims.UserID, Admin: claims.IsAdmin()}
}

func (h *ResumeHandler) writeServiceError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, service.ErrResumeNotFound):
		c.JSON(http.StatusNotFound, dto.MessageResponse{Message: "resume not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.MessageResponse{Message: "not allowed to access this resume"})
	default:
		h.log.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: op + " failed"})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "invalid id"})
		return 0, false
	}
	return id, true
}

// List godoc
// @Summary      List all resumes (admin)
// @Tags         resumes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListResumesResponse
// @Failure      401  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.MessageResponse
// @Router       /resumes [get]
func (h *ResumeHandler) List(c *gin.Context) {
	list, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err, "list resumes")
		return
	}
	c.JSON(http.StatusOK, dto.ListResumesResponse{Items: resumesToResponses(list)})
}

// ListByUser godoc
// @Summary      List resumes of a user (owner or admin)
// @Tags         resumes
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path  int  true  "User ID"
// @Success      200  {object}  dto.ListResumesResponse
// @Failure      401  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.MessageResponse
// @Router       /resumes/user/{userId} [get]
func (h *ResumeHandler) ListByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "invalid user id"})
		return
	}
	list, err := h.svc.ListByUser(c.Request.Context(), actorFrom(c), userID)
	if err != nil {
		h.writeServiceError(c, err, "list resumes")
		return
	}
	c.JSON(http.StatusOK, dto.ListResumesResponse{Items: resumesToResponses(list)})
}

// Get godoc
// @Summary      Get a resume by ID (owner or admin)
// @Tags         resumes
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Resume ID"
// @Success      200  {object}  dto.ResumeResponse
// @Failure      403  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Router       /resumes/{id} [get]
func (h *ResumeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.svc.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.writeServiceError(c, err, "get resume")
		return
	}
	c.JSON(http.StatusOK, resumeToResponse(r))
}

// Create godoc
// @Summary      Create a resume
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateResumeRequest  true  "Resume body"
// @Success      201   {object}  dto.ResumeResponse
// @Failure      400   {object}  dto.MessageResponse
// @Router       /resumes [post]
func (h *ResumeHandler) Create(c *gin.Context) {
	var req dto.CreateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
		return
	}
	r, err := h.svc.Create(c.Request.Context(), actorFrom(c), resumeFromRequest(req))
	if err != nil {
		h.writeServiceError(c, err, "create resume")
		return
	}
	h.log.Info("resume created", zap.Int64("resume_id", r.ID), zap.Int64("user_id", r.UserID))
	c.JSON(http.StatusCreated, resumeToResponse(r))
}

// Update godoc
// @Summary      Update a resume (owner or admin)
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                      true  "Resume ID"
// @Param        body  body      dto.UpdateResumeRequest  true  "Resume body"
// @Success      200   {object}  dto.ResumeResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      403   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.MessageResponse
// @Router       /resumes/{id} [put]
func (h *ResumeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
		return
	}
	r, err := h.svc.Update(c.Request.Context(), actorFrom(c), id, resumeFromRequest(req))
	if err != nil {
		h.writeServiceError(c, err, "update resume")
		return
	}
	c.JSON(http.StatusOK, resumeToResponse(r))
}

// Delete godoc
// @Summary      Delete a resume (owner or admin)
// @Tags         resumes
// @Security     BearerAuth
// @Param        id  path  int  true  "Resume ID"
// @Success      204
// @Failure      403  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Router       /resumes/{id} [delete]
func (h *ResumeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		h.writeServiceError(c, err, "delete resume")
		return
	}
	c.Status(http.StatusNoContent)
}

// Publish godoc
// @Summary      Publish a resume to the public gallery
// @Tags         resumes
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Resume ID"
// @Success      200  {object}  dto.ResumeResponse
// @Failure      403  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Router       /resumes/{id}/publish [post]
func (h *ResumeHandler) Publish(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.svc.Publish(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.writeServiceError(c, err, "publish resume")
		return
	}
	h.log.Info("resume published", zap.Int64("resume_id", r.ID), zap.String("public_url", r.PublicURL))
	c.JSON(http.StatusOK, resumeToResponse(r))
}

// Unpublish godoc
// @Summary      Remove a resume from the public gallery
// @Tags         resumes
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Resume ID"
// @Success      200  {object}  dto.ResumeResponse
// @Failure      403  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Router       /resumes/{id}/unpublish [post]
func (h *ResumeHandler) Unpublish(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.svc.Unpublish(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.writeServiceError(c, err, "unpublish resume")
		return
	}
	c.JSON(http.StatusOK, resumeToResponse(r))
}

// ExportPDF godoc
// @Summary      Export a resume as PDF (owner or admin)
// @Tags         resumes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  int  true  "Resume ID"
// @Success      200  {file}  file
// @Failure      403  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Router       /resumes/{id}/pdf [get]
func (h *ResumeHandler) ExportPDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	doc, err := h.svc.ExportPDF(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.writeServiceError(c, err, "export resume")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=resume-%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", doc)
}

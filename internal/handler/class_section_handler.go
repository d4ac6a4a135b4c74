package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edudesk/school-api/internal/service"
	appErrors "github.com/edudesk/school-api/pkg/errors"
	"github.com/edudesk/school-api/pkg/response"
)

// ClassSectionHandler exposes class section endpoints.
type ClassSectionHandler struct {
	sections *service.ClassSectionService
}

// NewClassSectionHandler constructs ClassSectionHandler.
func NewClassSectionHandler(sections *service.ClassSectionService) *ClassSectionHandler {
	return &ClassSectionHandler{sections: sections}
}

// List returns all class sections.
func (h *ClassSectionHandler) List(c *gin.Context) {
	sections, err := h.sections.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections)
}

// Get returns one class section.
func (h *ClassSectionHandler) Get(c *gin.Context) {
	section, err := h.sections.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section)
}

// Create registers a class section offering.
func (h *ClassSectionHandler) Create(c *gin.Context) {
	var req service.ClassSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	section, err := h.sections.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, section)
}

// Update replaces a class section record.
func (h *ClassSectionHandler) Update(c *gin.Context) {
	var req service.ClassSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	section, err := h.sections.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section)
}

// Delete removes a class section.
func (h *ClassSectionHandler) Delete(c *gin.Context) {
	if err := h.sections.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

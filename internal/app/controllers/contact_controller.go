package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/app/services"
	"github.com/tahmid/qpaper/internal/middleware"
	"github.com/tahmid/qpaper/internal/pkg/helpers"
)

// ContactController handles the contact form
type ContactController struct {
	contactService services.ContactService
}

// NewContactController creates a new ContactController
func NewContactController(contactService services.ContactService) *ContactController {
	return &ContactController{contactService: contactService}
}

// Submit stores a contact form message
// @Summary Submit a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Message"
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /contact [post]
func (ctrl *ContactController) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	if _, err := ctrl.contactService.Submit(c.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewMessageResponse("Message received"))
}

// List returns one page of contact submissions
// @Summary List contact submissions
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ContactListResponse}
// @Router /admin/contact [get]
func (ctrl *ContactController) List(c *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(c)

	resp, err := ctrl.contactService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// Update edits a contact submission
// @Summary Update a contact submission
// @Tags contact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body dto.UpdateContactRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/contact/{id} [put]
func (ctrl *ContactController) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(c, err)
		return
	}

	submission, err := ctrl.contactService.Update(c.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAPIResponse(submission))
}

// Delete removes a contact submission
// @Summary Delete a contact submission
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/contact/{id} [delete]
func (ctrl *ContactController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.contactService.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("Submission deleted"))
}

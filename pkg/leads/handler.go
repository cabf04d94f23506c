package leads

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"domly/pkg/response"
)

type LeadHandler struct {
	service LeadService
}

func NewLeadHandler(service LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

// RegisterRoutes mounts the public landing page endpoints; no session is required.
func (h *LeadHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/leads", h.submitLead)
	router.POST("/leads/demo", h.bookDemo)
}

// @Summary      Register interest from the landing page
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        request body LeadRequest true "Lead"
// @Success      201 {object} response.APIResponse{data=Lead}
// @Failure      400 {object} response.APIResponse
// @Router       /leads [post]
func (h *LeadHandler) submitLead(c *gin.Context) {
	var req LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	l, err := h.service.SubmitLead(c.Request.Context(), req)
	if err != nil {
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "lead received", l)
}

// @Summary      Book a demo
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        request body DemoRequest true "Demo booking"
// @Success      201 {object} response.APIResponse{data=Lead}
// @Failure      400 {object} response.APIResponse
// @Router       /leads/demo [post]
func (h *LeadHandler) bookDemo(c *gin.Context) {
	var req DemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	l, err := h.service.BookDemo(c.Request.Context(), req)
	if err != nil {
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "demo booked", l)
}

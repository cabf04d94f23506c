package alertas

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"domly/pkg/middleware"
	"domly/pkg/response"
)

type AlertaHandler struct {
	service AlertaService
}

func NewAlertaHandler(service AlertaService) *AlertaHandler {
	return &AlertaHandler{service: service}
}

func (h *AlertaHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.POST("/ativos/:id/alertas", auth, h.createAlerta)
	router.GET("/ativos/:id/alertas", auth, h.listByAtivo)
	router.GET("/alertas", auth, h.listAlertas)
	router.PATCH("/alertas/:id", auth, h.updateEstado)
	router.DELETE("/alertas/:id", auth, h.deleteAlerta)
}

type updateEstadoRequest struct {
	Estado string `json:"estado" binding:"required,oneof=pendente resolvido"`
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAlertaNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "alerta not found", nil)
	case errors.Is(err, ErrAtivoNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "ativo not found", nil)
	case errors.Is(err, ErrInvalidTipo), errors.Is(err, ErrInvalidEstado), errors.Is(err, ErrTituloMissing):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
	}
}

// @Summary      Report an incident on an asset
// @Tags         alertas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ativo ID"
// @Param        request body Input true "Alerta"
// @Success      201 {object} response.APIResponse{data=Alerta}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /ativos/{id}/alertas [post]
func (h *AlertaHandler) createAlerta(c *gin.Context) {
	var req Input
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	a, err := h.service.CreateAlerta(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "alerta created", a)
}

// @Summary      List an asset's alerts
// @Tags         alertas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ativo ID"
// @Success      200 {object} response.APIResponse{data=[]Alerta}
// @Failure      404 {object} response.APIResponse
// @Router       /ativos/{id}/alertas [get]
func (h *AlertaHandler) listByAtivo(c *gin.Context) {
	list, err := h.service.ListByAtivo(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "alertas listed", list)
}

// @Summary      List every alert of the caller, newest first
// @Tags         alertas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]AlertaView}
// @Router       /alertas [get]
func (h *AlertaHandler) listAlertas(c *gin.Context) {
	list, err := h.service.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "alertas listed", list)
}

// @Summary      Change alert status
// @Tags         alertas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Alerta ID"
// @Param        request body updateEstadoRequest true "New status"
// @Success      200 {object} response.APIResponse{data=Alerta}
// @Failure      404 {object} response.APIResponse
// @Router       /alertas/{id} [patch]
func (h *AlertaHandler) updateEstado(c *gin.Context) {
	var req updateEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	a, err := h.service.UpdateEstado(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Estado)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "alerta updated", a)
}

// @Summary      Delete alert
// @Tags         alertas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Alerta ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /alertas/{id} [delete]
func (h *AlertaHandler) deleteAlerta(c *gin.Context) {
	if err := h.service.DeleteAlerta(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "alerta deleted", nil)
}

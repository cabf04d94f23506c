package manutencoes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"domly/pkg/middleware"
	"domly/pkg/response"
)

type ManutencaoHandler struct {
	service ManutencaoService
}

func NewManutencaoHandler(service ManutencaoService) *ManutencaoHandler {
	return &ManutencaoHandler{service: service}
}

func (h *ManutencaoHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.POST("/manutencoes", auth, h.createManutencao)
	router.GET("/manutencoes", auth, h.listManutencoes)
	router.PUT("/manutencoes/:id", auth, h.updateManutencao)
	router.DELETE("/manutencoes/:id", auth, h.deleteManutencao)
	router.GET("/ativos/:id/manutencoes", auth, h.listByAtivo)
}

// updateRequest is Input without the asset, which cannot change.
type updateRequest struct {
	Input
	AtivoID string `json:"ativo_id"`
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrManutencaoNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "manutencao not found", nil)
	case errors.Is(err, ErrAtivoNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "ativo not found", nil)
	case errors.Is(err, ErrDataAgendadaRequired), errors.Is(err, ErrInvalidEstado),
		errors.Is(err, ErrInvalidTipo), errors.Is(err, ErrNegativeCusto):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
	}
}

// @Summary      Schedule or record a maintenance
// @Tags         manutencoes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body Input true "Manutencao"
// @Success      201 {object} response.APIResponse{data=Manutencao}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /manutencoes [post]
func (h *ManutencaoHandler) createManutencao(c *gin.Context) {
	var req Input
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	m, err := h.service.CreateManutencao(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "manutencao created", m)
}

// @Summary      List the caller's maintenances (calendar)
// @Tags         manutencoes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]ManutencaoView}
// @Router       /manutencoes [get]
func (h *ManutencaoHandler) listManutencoes(c *gin.Context) {
	list, err := h.service.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "manutencoes listed", list)
}

// @Summary      List an asset's maintenances
// @Tags         manutencoes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ativo ID"
// @Success      200 {object} response.APIResponse{data=[]Manutencao}
// @Failure      404 {object} response.APIResponse
// @Router       /ativos/{id}/manutencoes [get]
func (h *ManutencaoHandler) listByAtivo(c *gin.Context) {
	list, err := h.service.ListByAtivo(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "manutencoes listed", list)
}

// @Summary      Update maintenance
// @Tags         manutencoes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Manutencao ID"
// @Param        request body Input true "Manutencao"
// @Success      200 {object} response.APIResponse{data=Manutencao}
// @Failure      404 {object} response.APIResponse
// @Router       /manutencoes/{id} [put]
func (h *ManutencaoHandler) updateManutencao(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	m, err := h.service.UpdateManutencao(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Input)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "manutencao updated", m)
}

// @Summary      Delete maintenance
// @Tags         manutencoes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Manutencao ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /manutencoes/{id} [delete]
func (h *ManutencaoHandler) deleteManutencao(c *gin.Context) {
	if err := h.service.DeleteManutencao(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "manutencao deleted", nil)
}

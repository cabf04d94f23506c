package ativos

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"domly/pkg/middleware"
	"domly/pkg/response"
)

type AtivoHandler struct {
	service AtivoService
}

func NewAtivoHandler(service AtivoService) *AtivoHandler {
	return &AtivoHandler{service: service}
}

type AtivoList = response.Page[Ativo]

func (h *AtivoHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.POST("/condominios/:id/ativos", auth, h.createAtivo)
	router.GET("/condominios/:id/ativos", auth, h.listByCondominio)

	g := router.Group("/ativos", auth)
	g.GET("", h.listAtivos)
	g.GET("/:id", h.getAtivo)
	g.PUT("/:id", h.updateAtivo)
	g.DELETE("/:id", h.deleteAtivo)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAtivoNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "ativo not found", nil)
	case errors.Is(err, ErrCondominioNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "condominio not found", nil)
	case errors.Is(err, ErrNomeRequired), errors.Is(err, ErrNomeTooLong), errors.Is(err, ErrCategoriaRequired),
		errors.Is(err, ErrInvalidEstado), errors.Is(err, ErrNegativeValor), errors.Is(err, ErrInvalidFrequencia):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
	}
}

// @Summary      Create an asset in a condominio
// @Tags         ativos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string true "Condominio ID"
// @Param        request body Input  true "Ativo"
// @Success      201 {object} response.APIResponse{data=Ativo}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /condominios/{id}/ativos [post]
func (h *AtivoHandler) createAtivo(c *gin.Context) {
	var req Input
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	a, err := h.service.CreateAtivo(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "ativo created", a)
}

// @Summary      List a condominio's assets
// @Tags         ativos
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "Condominio ID"
// @Param        page  query int    false "Page number" default(1)
// @Param        limit query int    false "Items per page" default(10)
// @Success      200 {object} response.APIResponse{data=AtivoList}
// @Failure      404 {object} response.APIResponse
// @Router       /condominios/{id}/ativos [get]
func (h *AtivoHandler) listByCondominio(c *gin.Context) {
	page, limit := response.Pagination(c)
	items, total, err := h.service.ListByCondominio(c.Request.Context(), middleware.UserID(c), c.Param("id"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "ativos listed", AtivoList{Items: items, Total: total, Page: page, Limit: limit})
}

// @Summary      List every asset of the caller
// @Tags         ativos
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} response.APIResponse{data=AtivoList}
// @Router       /ativos [get]
func (h *AtivoHandler) listAtivos(c *gin.Context) {
	page, limit := response.Pagination(c)
	items, total, err := h.service.ListByUser(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "ativos listed", AtivoList{Items: items, Total: total, Page: page, Limit: limit})
}

// @Summary      Get asset with alerts, maintenances, documents and photos
// @Tags         ativos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ativo ID"
// @Success      200 {object} response.APIResponse{data=AtivoDetail}
// @Failure      404 {object} response.APIResponse
// @Router       /ativos/{id} [get]
func (h *AtivoHandler) getAtivo(c *gin.Context) {
	d, err := h.service.GetAtivoDetail(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "ativo fetched", d)
}

// @Summary      Update asset (partial)
// @Tags         ativos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string true "Ativo ID"
// @Param        request body Patch  true "Fields to change"
// @Success      200 {object} response.APIResponse{data=Ativo}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /ativos/{id} [put]
func (h *AtivoHandler) updateAtivo(c *gin.Context) {
	var req Patch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	a, err := h.service.UpdateAtivo(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "ativo updated", a)
}

// @Summary      Delete asset
// @Description  Removes the asset, its alerts, maintenances, documents and photos.
// @Tags         ativos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ativo ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /ativos/{id} [delete]
func (h *AtivoHandler) deleteAtivo(c *gin.Context) {
	if err := h.service.DeleteAtivo(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "ativo deleted", nil)
}

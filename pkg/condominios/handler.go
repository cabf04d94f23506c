package condominios

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"domly/pkg/middleware"
	"domly/pkg/response"
	"domly/pkg/storage"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxImportSize   = 10 << 20
)

type CondominioHandler struct {
	service CondominioService
}

func NewCondominioHandler(service CondominioService) *CondominioHandler {
	return &CondominioHandler{service: service}
}

func (h *CondominioHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	g := router.Group("/condominios", auth)
	g.POST("", h.createCondominio)
	g.GET("", h.listCondominios)
	g.POST("/import", h.importCondominios)
	g.GET("/import/template", h.importTemplate)
	g.GET("/:id", h.getCondominioByID)
	g.PUT("/:id", h.updateCondominio)
	g.DELETE("/:id", h.deleteCondominio)
	g.POST("/:id/imagem", h.uploadImage)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCondominioNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "condominio not found", nil)
	case errors.Is(err, ErrNomeRequired), errors.Is(err, ErrMoradaRequired), errors.Is(err, ErrCidadeRequired),
		errors.Is(err, ErrCodigoRequired), errors.Is(err, ErrInvalidNIF), errors.Is(err, ErrNothingToImport),
		errors.Is(err, ErrEmptyWorkbook), errors.Is(err, storage.ErrEmptyFile):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, storage.ErrTooLarge):
		response.SendAPIResponse(c, http.StatusRequestEntityTooLarge, false, err.Error(), nil)
	case errors.Is(err, storage.ErrUnsupportedType):
		response.SendAPIResponse(c, http.StatusUnsupportedMediaType, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
	}
}

// @Summary      Create condominio
// @Tags         condominios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body Input true "Condominio"
// @Success      201 {object} response.APIResponse{data=Condominio}
// @Failure      400 {object} response.APIResponse
// @Router       /condominios [post]
func (h *CondominioHandler) createCondominio(c *gin.Context) {
	var req Input
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	out, err := h.service.CreateCondominio(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "condominio created", out)
}

// @Summary      List the caller's condominios
// @Tags         condominios
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Filter on nome or morada"
// @Param        page   query int false "Page number" default(1)
// @Param        limit  query int false "Items per page" default(10)
// @Success      200 {object} response.APIResponse{data=CondominioList}
// @Router       /condominios [get]
func (h *CondominioHandler) listCondominios(c *gin.Context) {
	page, limit := response.Pagination(c)
	items, total, err := h.service.ListCondominios(c.Request.Context(), middleware.UserID(c), c.Query("search"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	data := CondominioList{Items: items, Total: total, Page: page, Limit: limit}
	response.SendAPIResponse(c, http.StatusOK, true, "condominios listed", data)
}

// @Summary      Get condominio
// @Tags         condominios
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Condominio ID"
// @Success      200 {object} response.APIResponse{data=Condominio}
// @Failure      404 {object} response.APIResponse
// @Router       /condominios/{id} [get]
func (h *CondominioHandler) getCondominioByID(c *gin.Context) {
	out, err := h.service.GetCondominioByID(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "condominio fetched", out)
}

// @Summary      Update condominio (partial)
// @Tags         condominios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Condominio ID"
// @Param        request body Patch true "Fields to change"
// @Success      200 {object} response.APIResponse{data=Condominio}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /condominios/{id} [put]
func (h *CondominioHandler) updateCondominio(c *gin.Context) {
	var req Patch
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	out, err := h.service.UpdateCondominio(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "condominio updated", out)
}

// @Summary      Delete condominio and everything under it
// @Tags         condominios
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Condominio ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /condominios/{id} [delete]
func (h *CondominioHandler) deleteCondominio(c *gin.Context) {
	if err := h.service.DeleteCondominio(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "condominio deleted", nil)
}

// @Summary      Upload cover image
// @Tags         condominios
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "Condominio ID"
// @Param        file formData file   true "Image"
// @Success      200 {object} response.APIResponse{data=Condominio}
// @Failure      404 {object} response.APIResponse
// @Failure      415 {object} response.APIResponse
// @Router       /condominios/{id}/imagem [post]
func (h *CondominioHandler) uploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "file not found in request", nil)
		return
	}
	data, contentType, ext, err := storage.ReadUpload(fh, storage.PhotoPolicy)
	if err != nil {
		writeError(c, err)
		return
	}
	out, err := h.service.UploadImage(c.Request.Context(), middleware.UserID(c), c.Param("id"), data, contentType, ext)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "image uploaded", out)
}

// @Summary      Import condominios from a spreadsheet
// @Tags         condominios
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "xlsx workbook"
// @Success      201 {object} response.APIResponse{data=ImportResult}
// @Failure      400 {object} response.APIResponse
// @Router       /condominios/import [post]
func (h *CondominioHandler) importCondominios(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "file not found in request", nil)
		return
	}
	if fh.Size > maxImportSize {
		writeError(c, storage.ErrTooLarge)
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	rows, skipped, err := ParseImport(f)
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
		return
	}
	out, err := h.service.ImportCondominios(c.Request.Context(), middleware.UserID(c), rows, skipped)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "condominios imported", out)
}

// @Summary      Download the import template
// @Tags         condominios
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200 {file} binary
// @Router       /condominios/import/template [get]
func (h *CondominioHandler) importTemplate(c *gin.Context) {
	data, err := ImportTemplate()
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="template_condominios.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

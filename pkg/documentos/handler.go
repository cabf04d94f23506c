package documentos

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"domly/pkg/middleware"
	"domly/pkg/response"
	"domly/pkg/storage"
)

type DocumentoHandler struct {
	service DocumentoService
}

func NewDocumentoHandler(service DocumentoService) *DocumentoHandler {
	return &DocumentoHandler{service: service}
}

func (h *DocumentoHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.POST("/ativos/:id/documentos", auth, h.uploadDocumento)
	router.GET("/ativos/:id/documentos", auth, h.listDocumentos)
	router.DELETE("/documentos/:id", auth, h.deleteDocumento)

	router.POST("/ativos/:id/fotos", auth, h.uploadFotos)
	router.GET("/ativos/:id/fotos", auth, h.listFotos)
	router.DELETE("/fotos/:id", auth, h.deleteFoto)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAtivoNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "ativo not found", nil)
	case errors.Is(err, ErrDocumentoNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "documento not found", nil)
	case errors.Is(err, ErrFotoNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "foto not found", nil)
	case errors.Is(err, ErrNoFiles), errors.Is(err, storage.ErrEmptyFile):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, storage.ErrTooLarge):
		response.SendAPIResponse(c, http.StatusRequestEntityTooLarge, false, err.Error(), nil)
	case errors.Is(err, storage.ErrUnsupportedType):
		response.SendAPIResponse(c, http.StatusUnsupportedMediaType, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
	}
}

// @Summary      Upload a document for an asset
// @Tags         documentos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id             path     string true  "Ativo ID"
// @Param        file           formData file   true  "Document"
// @Param        nome           formData string false "Display name"
// @Param        tipo_documento formData string false "Document type"
// @Success      201 {object} response.APIResponse{data=Documento}
// @Failure      404 {object} response.APIResponse
// @Failure      413 {object} response.APIResponse
// @Failure      415 {object} response.APIResponse
// @Router       /ativos/{id}/documentos [post]
func (h *DocumentoHandler) uploadDocumento(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "file not found in request", nil)
		return
	}
	data, contentType, ext, err := storage.ReadUpload(fh, storage.DocumentPolicy)
	if err != nil {
		writeError(c, err)
		return
	}
	file := File{Name: fh.Filename, Data: data, ContentType: contentType, Ext: ext}
	d, err := h.service.UploadDocumento(c.Request.Context(), middleware.UserID(c), c.Param("id"),
		c.PostForm("nome"), c.PostForm("tipo_documento"), file)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "documento uploaded", d)
}

// @Summary      List an asset's documents
// @Tags         documentos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ativo ID"
// @Success      200 {object} response.APIResponse{data=[]Documento}
// @Router       /ativos/{id}/documentos [get]
func (h *DocumentoHandler) listDocumentos(c *gin.Context) {
	list, err := h.service.ListDocumentos(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "documentos listed", list)
}

// @Summary      Delete document
// @Tags         documentos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Documento ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /documentos/{id} [delete]
func (h *DocumentoHandler) deleteDocumento(c *gin.Context) {
	if err := h.service.DeleteDocumento(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "documento deleted", nil)
}

// @Summary      Upload photos for an asset
// @Description  All files are stored or none are.
// @Tags         fotos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path     string true "Ativo ID"
// @Param        files formData file   true "Images"
// @Success      201 {object} response.APIResponse{data=[]Foto}
// @Failure      400 {object} response.APIResponse
// @Failure      415 {object} response.APIResponse
// @Router       /ativos/{id}/fotos [post]
func (h *DocumentoHandler) uploadFotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid multipart form", nil)
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		writeError(c, ErrNoFiles)
		return
	}
	files := make([]File, 0, len(headers))
	for _, fh := range headers {
		data, contentType, ext, err := storage.ReadUpload(fh, storage.PhotoPolicy)
		if err != nil {
			writeError(c, err)
			return
		}
		files = append(files, File{Name: fh.Filename, Data: data, ContentType: contentType, Ext: ext})
	}
	fotos, err := h.service.UploadFotos(c.Request.Context(), middleware.UserID(c), c.Param("id"), files)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "fotos uploaded", fotos)
}

// @Summary      List an asset's photos
// @Tags         fotos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ativo ID"
// @Success      200 {object} response.APIResponse{data=[]Foto}
// @Router       /ativos/{id}/fotos [get]
func (h *DocumentoHandler) listFotos(c *gin.Context) {
	list, err := h.service.ListFotos(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "fotos listed", list)
}

// @Summary      Delete photo
// @Tags         fotos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Foto ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /fotos/{id} [delete]
func (h *DocumentoHandler) deleteFoto(c *gin.Context) {
	if err := h.service.DeleteFoto(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "foto deleted", nil)
}

package client

import (
	"context"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"

	"domly/pkg/documentos"
	"domly/pkg/leads"
)

// Upload is one file of a multipart request.
type Upload struct {
	Name   string
	Reader io.Reader
}

type DocumentosAPI struct{ c *Client }

func (a *DocumentosAPI) List(ctx context.Context, ativoID string) ([]documentos.Documento, error) {
	r := a.c.request(ctx).SetPathParam("id", ativoID)
	return execute[[]documentos.Documento](a.c, r, http.MethodGet, "/ativos/{id}/documentos")
}

func (a *DocumentosAPI) Upload(ctx context.Context, ativoID, nome, tipo string, file Upload) (documentos.Documento, error) {
	r := a.c.request(ctx).
		SetPathParam("id", ativoID).
		SetFormData(map[string]string{"nome": nome, "tipo_documento": tipo}).
		SetFileReader("file", file.Name, file.Reader)
	return execute[documentos.Documento](a.c, r, http.MethodPost, "/ativos/{id}/documentos")
}

func (a *DocumentosAPI) Delete(ctx context.Context, id string) error {
	_, err := execute[any](a.c, a.c.request(ctx).SetPathParam("id", id), http.MethodDelete, "/documentos/{id}")
	return err
}

func (a *DocumentosAPI) Fotos(ctx context.Context, ativoID string) ([]documentos.Foto, error) {
	r := a.c.request(ctx).SetPathParam("id", ativoID)
	return execute[[]documentos.Foto](a.c, r, http.MethodGet, "/ativos/{id}/fotos")
}

// UploadFotos sends the batch in one request; the server stores all of them or none.
func (a *DocumentosAPI) UploadFotos(ctx context.Context, ativoID string, files []Upload) ([]documentos.Foto, error) {
	fields := make([]*resty.MultipartField, 0, len(files))
	for _, f := range files {
		fields = append(fields, &resty.MultipartField{Param: "files", FileName: f.Name, Reader: f.Reader})
	}
	r := a.c.request(ctx).SetPathParam("id", ativoID).SetMultipartFields(fields...)
	return execute[[]documentos.Foto](a.c, r, http.MethodPost, "/ativos/{id}/fotos")
}

func (a *DocumentosAPI) DeleteFoto(ctx context.Context, id string) error {
	_, err := execute[any](a.c, a.c.request(ctx).SetPathParam("id", id), http.MethodDelete, "/fotos/{id}")
	return err
}

type LeadsAPI struct{ c *Client }

func (a *LeadsAPI) Submit(ctx context.Context, req leads.LeadRequest) (leads.Lead, error) {
	return execute[leads.Lead](a.c, a.c.request(ctx).SetBody(req), http.MethodPost, "/leads")
}

func (a *LeadsAPI) BookDemo(ctx context.Context, req leads.DemoRequest) (leads.Lead, error) {
	return execute[leads.Lead](a.c, a.c.request(ctx).SetBody(req), http.MethodPost, "/leads/demo")
}

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"domly/pkg/condominios"
)

type CondominiosAPI struct{ c *Client }

func (a *CondominiosAPI) List(ctx context.Context, search string, page, limit int) (condominios.CondominioList, error) {
	r := a.c.request(ctx).
		SetQueryParam("search", search).
		SetQueryParam("page", fmt.Sprint(page)).
		SetQueryParam("limit", fmt.Sprint(limit))
	return execute[condominios.CondominioList](a.c, r, http.MethodGet, "/condominios")
}

// All returns every condominio of the caller, newest first.
func (a *CondominiosAPI) All(ctx context.Context) ([]condominios.Condominio, error) {
	return collect(func(page int) ([]condominios.Condominio, int64, error) {
		l, err := a.List(ctx, "", page, pageSize)
		return l.Items, l.Total, err
	})
}

func (a *CondominiosAPI) Get(ctx context.Context, id string) (condominios.Condominio, error) {
	return execute[condominios.Condominio](a.c, a.c.request(ctx).SetPathParam("id", id), http.MethodGet, "/condominios/{id}")
}

func (a *CondominiosAPI) Create(ctx context.Context, in condominios.Input) (condominios.Condominio, error) {
	return execute[condominios.Condominio](a.c, a.c.request(ctx).SetBody(in), http.MethodPost, "/condominios")
}

func (a *CondominiosAPI) Update(ctx context.Context, id string, p condominios.Patch) (condominios.Condominio, error) {
	return execute[condominios.Condominio](a.c, a.c.request(ctx).SetPathParam("id", id).SetBody(p), http.MethodPut, "/condominios/{id}")
}

func (a *CondominiosAPI) Delete(ctx context.Context, id string) error {
	_, err := execute[any](a.c, a.c.request(ctx).SetPathParam("id", id), http.MethodDelete, "/condominios/{id}")
	return err
}

func (a *CondominiosAPI) UploadImage(ctx context.Context, id, filename string, r io.Reader) (condominios.Condominio, error) {
	req := a.c.request(ctx).SetPathParam("id", id).SetFileReader("file", filename, r)
	return execute[condominios.Condominio](a.c, req, http.MethodPost, "/condominios/{id}/imagem")
}

// Import uploads an xlsx workbook of condominios.
func (a *CondominiosAPI) Import(ctx context.Context, filename string, r io.Reader) (condominios.ImportResult, error) {
	req := a.c.request(ctx).SetFileReader("file", filename, r)
	return execute[condominios.ImportResult](a.c, req, http.MethodPost, "/condominios/import")
}

// Template downloads the import workbook template.
func (a *CondominiosAPI) Template(ctx context.Context) ([]byte, error) {
	resp, err := a.c.request(ctx).Get("/condominios/import/template")
	if err != nil {
		return nil, fmt.Errorf("GET /condominios/import/template: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	}
	return resp.Body(), nil
}

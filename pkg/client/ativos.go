package client

import (
	"context"
	"fmt"
	"net/http"

	"domly/pkg/ativos"
)

type AtivosAPI struct{ c *Client }

func (a *AtivosAPI) List(ctx context.Context, page, limit int) (ativos.AtivoList, error) {
	r := a.c.request(ctx).SetQueryParam("page", fmt.Sprint(page)).SetQueryParam("limit", fmt.Sprint(limit))
	return execute[ativos.AtivoList](a.c, r, http.MethodGet, "/ativos")
}

// All returns every asset of every condominio of the caller.
func (a *AtivosAPI) All(ctx context.Context) ([]ativos.Ativo, error) {
	return collect(func(page int) ([]ativos.Ativo, int64, error) {
		l, err := a.List(ctx, page, pageSize)
		return l.Items, l.Total, err
	})
}

func (a *AtivosAPI) ByCondominio(ctx context.Context, condominioID string) ([]ativos.Ativo, error) {
	return collect(func(page int) ([]ativos.Ativo, int64, error) {
		r := a.c.request(ctx).
			SetPathParam("id", condominioID).
			SetQueryParam("page", fmt.Sprint(page)).
			SetQueryParam("limit", fmt.Sprint(pageSize))
		l, err := execute[ativos.AtivoList](a.c, r, http.MethodGet, "/condominios/{id}/ativos")
		return l.Items, l.Total, err
	})
}

func (a *AtivosAPI) Get(ctx context.Context, id string) (ativos.AtivoDetail, error) {
	return execute[ativos.AtivoDetail](a.c, a.c.request(ctx).SetPathParam("id", id), http.MethodGet, "/ativos/{id}")
}

func (a *AtivosAPI) Create(ctx context.Context, condominioID string, in ativos.Input) (ativos.Ativo, error) {
	r := a.c.request(ctx).SetPathParam("id", condominioID).SetBody(in)
	return execute[ativos.Ativo](a.c, r, http.MethodPost, "/condominios/{id}/ativos")
}

func (a *AtivosAPI) Update(ctx context.Context, id string, p ativos.Patch) (ativos.Ativo, error) {
	return execute[ativos.Ativo](a.c, a.c.request(ctx).SetPathParam("id", id).SetBody(p), http.MethodPut, "/ativos/{id}")
}

func (a *AtivosAPI) Delete(ctx context.Context, id string) error {
	_, err := execute[any](a.c, a.c.request(ctx).SetPathParam("id", id), http.MethodDelete, "/ativos/{id}")
	return err
}

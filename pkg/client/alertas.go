package client

import (
	"context"
	"net/http"

	"domly/pkg/alertas"
	"domly/pkg/manutencoes"
)

type AlertasAPI struct{ c *Client }

// List returns every alert of the caller with asset and condominio names, newest first.
func (a *AlertasAPI) List(ctx context.Context) ([]alertas.AlertaView, error) {
	return execute[[]alertas.AlertaView](a.c, a.c.request(ctx), http.MethodGet, "/alertas")
}

func (a *AlertasAPI) ByAtivo(ctx context.Context, ativoID string) ([]alertas.Alerta, error) {
	return execute[[]alertas.Alerta](a.c, a.c.request(ctx).SetPathParam("id", ativoID), http.MethodGet, "/ativos/{id}/alertas")
}

// Create reports an incident on an asset.
func (a *AlertasAPI) Create(ctx context.Context, ativoID string, in alertas.Input) (alertas.Alerta, error) {
	r := a.c.request(ctx).SetPathParam("id", ativoID).SetBody(in)
	return execute[alertas.Alerta](a.c, r, http.MethodPost, "/ativos/{id}/alertas")
}

func (a *AlertasAPI) SetEstado(ctx context.Context, id, estado string) (alertas.Alerta, error) {
	r := a.c.request(ctx).SetPathParam("id", id).SetBody(map[string]string{"estado": estado})
	return execute[alertas.Alerta](a.c, r, http.MethodPatch, "/alertas/{id}")
}

func (a *AlertasAPI) Resolve(ctx context.Context, id string) (alertas.Alerta, error) {
	return a.SetEstado(ctx, id, alertas.EstadoResolvido)
}

func (a *AlertasAPI) Delete(ctx context.Context, id string) error {
	_, err := execute[any](a.c, a.c.request(ctx).SetPathParam("id", id), http.MethodDelete, "/alertas/{id}")
	return err
}

type ManutencoesAPI struct{ c *Client }

// List returns every maintenance of the caller, by scheduled date.
func (a *ManutencoesAPI) List(ctx context.Context) ([]manutencoes.ManutencaoView, error) {
	return execute[[]manutencoes.ManutencaoView](a.c, a.c.request(ctx), http.MethodGet, "/manutencoes")
}

func (a *ManutencoesAPI) ByAtivo(ctx context.Context, ativoID string) ([]manutencoes.Manutencao, error) {
	r := a.c.request(ctx).SetPathParam("id", ativoID)
	return execute[[]manutencoes.Manutencao](a.c, r, http.MethodGet, "/ativos/{id}/manutencoes")
}

func (a *ManutencoesAPI) Create(ctx context.Context, in manutencoes.Input) (manutencoes.Manutencao, error) {
	return execute[manutencoes.Manutencao](a.c, a.c.request(ctx).SetBody(in), http.MethodPost, "/manutencoes")
}

func (a *ManutencoesAPI) Update(ctx context.Context, id string, in manutencoes.Input) (manutencoes.Manutencao, error) {
	r := a.c.request(ctx).SetPathParam("id", id).SetBody(in)
	return execute[manutencoes.Manutencao](a.c, r, http.MethodPut, "/manutencoes/{id}")
}

func (a *ManutencoesAPI) Delete(ctx context.Context, id string) error {
	_, err := execute[any](a.c, a.c.request(ctx).SetPathParam("id", id), http.MethodDelete, "/manutencoes/{id}")
	return err
}

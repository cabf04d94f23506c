package provider

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"domly/pkg/condominios"
	"domly/pkg/views"
)

// CondominiosAPI is the part of the SDK the provider needs.
type CondominiosAPI interface {
	All(ctx context.Context) ([]condominios.Condominio, error)
	Create(ctx context.Context, in condominios.Input) (condominios.Condominio, error)
	Update(ctx context.Context, id string, p condominios.Patch) (condominios.Condominio, error)
	Delete(ctx context.Context, id string) error
}

// CondominiosProvider refetches the whole list after every successful mutation. A failed
// refetch is notified by Refresh but does not fail the mutation, which is already stored.
type CondominiosProvider struct {
	api    CondominiosAPI
	notify Notifier
	log    *zap.Logger

	mu      sync.RWMutex
	list    []condominios.Condominio
	loading bool
}

func NewCondominiosProvider(api CondominiosAPI, notify Notifier, log *zap.Logger) *CondominiosProvider {
	return &CondominiosProvider{api: api, notify: notify, log: log, list: []condominios.Condominio{}}
}

func (p *CondominiosProvider) List() []condominios.Condominio {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]condominios.Condominio(nil), p.list...)
}

func (p *CondominiosProvider) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

func (p *CondominiosProvider) Filtered(search string) []condominios.Condominio {
	return views.FilterCondominios(p.List(), search)
}

// Find looks a condominio up in the loaded list.
func (p *CondominiosProvider) Find(id string) (condominios.Condominio, bool) {
	return views.FindCondominio(p.List(), id)
}

func (p *CondominiosProvider) setLoading(v bool) {
	p.mu.Lock()
	p.loading = v
	p.mu.Unlock()
}

// Refresh reloads the list. On failure the previous list is kept.
func (p *CondominiosProvider) Refresh(ctx context.Context) error {
	p.setLoading(true)
	defer p.setLoading(false)

	list, err := p.api.All(ctx)
	if err != nil {
		p.notify.Failure("Não foi possível carregar os condomínios", err)
		return err
	}
	p.mu.Lock()
	p.list = list
	p.mu.Unlock()
	return nil
}

func (p *CondominiosProvider) Create(ctx context.Context, in condominios.Input) (condominios.Condominio, error) {
	c, err := p.api.Create(ctx, in)
	if err != nil {
		p.notify.Failure("Não foi possível criar o condomínio", err)
		return condominios.Condominio{}, err
	}
	p.log.Info("condominio created", zap.String("condominio_id", c.ID))
	p.notify.Success("Condomínio criado com sucesso")
	_ = p.Refresh(ctx)
	return c, nil
}

func (p *CondominiosProvider) Update(ctx context.Context, id string, patch condominios.Patch) (condominios.Condominio, error) {
	c, err := p.api.Update(ctx, id, patch)
	if err != nil {
		p.notify.Failure("Não foi possível atualizar o condomínio", err)
		return condominios.Condominio{}, err
	}
	p.notify.Success("Condomínio atualizado com sucesso")
	_ = p.Refresh(ctx)
	return c, nil
}

func (p *CondominiosProvider) Delete(ctx context.Context, id string) error {
	if err := p.api.Delete(ctx, id); err != nil {
		p.notify.Failure("Não foi possível eliminar o condomínio", err)
		return err
	}
	p.log.Info("condominio deleted", zap.String("condominio_id", id))
	p.notify.Success("Condomínio eliminado com sucesso")
	_ = p.Refresh(ctx)
	return nil
}

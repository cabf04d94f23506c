package provider

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"domly/pkg/ativos"
	"domly/pkg/views"
)

type AtivosAPI interface {
	All(ctx context.Context) ([]ativos.Ativo, error)
	Create(ctx context.Context, condominioID string, in ativos.Input) (ativos.Ativo, error)
	Update(ctx context.Context, id string, p ativos.Patch) (ativos.Ativo, error)
	Delete(ctx context.Context, id string) error
}

// AtivosProvider splices the record returned by each mutation into the local list instead
// of refetching. Concurrent mutations on the same id resolve as last write wins.
type AtivosProvider struct {
	api    AtivosAPI
	notify Notifier
	log    *zap.Logger

	mu      sync.RWMutex
	list    []ativos.Ativo
	loading bool
}

func NewAtivosProvider(api AtivosAPI, notify Notifier, log *zap.Logger) *AtivosProvider {
	return &AtivosProvider{api: api, notify: notify, log: log, list: []ativos.Ativo{}}
}

func (p *AtivosProvider) List() []ativos.Ativo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]ativos.Ativo(nil), p.list...)
}

func (p *AtivosProvider) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

func (p *AtivosProvider) ByCondominio(condominioID string) []ativos.Ativo {
	return views.AtivosByCondominio(p.List(), condominioID)
}

func (p *AtivosProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.loading = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
	}()

	list, err := p.api.All(ctx)
	if err != nil {
		p.notify.Failure("Não foi possível carregar os ativos", err)
		return err
	}
	p.mu.Lock()
	p.list = list
	p.mu.Unlock()
	return nil
}

func (p *AtivosProvider) Create(ctx context.Context, condominioID string, in ativos.Input) (ativos.Ativo, error) {
	a, err := p.api.Create(ctx, condominioID, in)
	if err != nil {
		p.notify.Failure("Não foi possível criar o ativo", err)
		return ativos.Ativo{}, err
	}
	p.mu.Lock()
	p.list = append(p.list, a)
	p.mu.Unlock()
	p.log.Info("ativo created", zap.String("ativo_id", a.ID))
	p.notify.Success("Ativo criado com sucesso")
	return a, nil
}

// Update splices the returned record over the loaded one, or appends it when the asset was
// not loaded yet.
func (p *AtivosProvider) Update(ctx context.Context, id string, patch ativos.Patch) (ativos.Ativo, error) {
	a, err := p.api.Update(ctx, id, patch)
	if err != nil {
		p.notify.Failure("Não foi possível atualizar o ativo", err)
		return ativos.Ativo{}, err
	}
	p.mu.Lock()
	found := false
	for i := range p.list {
		if p.list[i].ID == id {
			p.list[i] = a
			found = true
		}
	}
	if !found {
		p.list = append(p.list, a)
	}
	p.mu.Unlock()
	p.notify.Success("Ativo atualizado com sucesso")
	return a, nil
}

func (p *AtivosProvider) Delete(ctx context.Context, id string) error {
	if err := p.api.Delete(ctx, id); err != nil {
		p.notify.Failure("Não foi possível eliminar o ativo", err)
		return err
	}
	p.mu.Lock()
	kept := p.list[:0:0]
	for _, a := range p.list {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	p.list = kept
	p.mu.Unlock()
	p.log.Info("ativo deleted", zap.String("ativo_id", id))
	p.notify.Success("Ativo eliminado com sucesso")
	return nil
}

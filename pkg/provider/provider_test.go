package provider

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"domly/pkg/ativos"
	"domly/pkg/client"
	"domly/pkg/condominios"
	"domly/pkg/forms"
	"domly/pkg/users"
)

type recordingNotifier struct {
	mu       sync.Mutex
	success  []string
	failures []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success = append(n.success, msg)
}

func (n *recordingNotifier) Failure(msg string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}

// fakeCondominios is an in-memory backend; failNext makes the next call fail and failAll
// makes every list call fail.
type fakeCondominios struct {
	mu       sync.Mutex
	rows     []condominios.Condominio
	seq      int
	allCalls int
	failNext error
	failAll  error
}

func (f *fakeCondominios) fail() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeCondominios) All(ctx context.Context) ([]condominios.Condominio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allCalls++
	if f.failAll != nil {
		return nil, f.failAll
	}
	if err := f.fail(); err != nil {
		return nil, err
	}
	return append([]condominios.Condominio(nil), f.rows...), nil
}

func (f *fakeCondominios) Create(ctx context.Context, in condominios.Input) (condominios.Condominio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(); err != nil {
		return condominios.Condominio{}, err
	}
	f.seq++
	c := condominios.Condominio{ID: "c" + string(rune('0'+f.seq)), Nome: in.Nome, Morada: in.Morada, NIF: in.NIF}
	f.rows = append(f.rows, c)
	return c, nil
}

func (f *fakeCondominios) Update(ctx context.Context, id string, p condominios.Patch) (condominios.Condominio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.rows {
		if c.ID == id {
			if p.Nome != nil {
				f.rows[i].Nome = *p.Nome
			}
			return f.rows[i], nil
		}
	}
	return condominios.Condominio{}, &client.APIError{Status: 404, Message: "condominio not found"}
}

func (f *fakeCondominios) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.rows {
		if c.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return &client.APIError{Status: 404, Message: "condominio not found"}
}

func TestCondominiosProvider_CreateRefetches(t *testing.T) {
	api := &fakeCondominios{}
	n := &recordingNotifier{}
	p := NewCondominiosProvider(api, n, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, p.Refresh(ctx))
	require.Empty(t, p.List())

	c, err := p.Create(ctx, condominios.Input{Nome: "Edifício Central", Morada: "Rua A", NIF: 123456789})
	require.NoError(t, err)
	require.Equal(t, 2, api.allCalls)

	list := p.List()
	require.Len(t, list, 1)
	require.Equal(t, c.ID, list[0].ID)
	require.Equal(t, "Edifício Central", list[0].Nome)
	require.Equal(t, 123456789, list[0].NIF)
	require.Len(t, p.Filtered("central"), 1)
	require.Empty(t, p.Filtered("norte"))
	require.False(t, p.Loading())

	nome := "Torre"
	_, err = p.Update(ctx, c.ID, condominios.Patch{Nome: &nome})
	require.NoError(t, err)
	got, ok := p.Find(c.ID)
	require.True(t, ok)
	require.Equal(t, "Torre", got.Nome)

	require.NoError(t, p.Delete(ctx, c.ID))
	require.Empty(t, p.List())
}

func TestCondominiosProvider_FailureNotifiesAndReturns(t *testing.T) {
	boom := errors.New("network down")
	api := &fakeCondominios{rows: []condominios.Condominio{{ID: "c1"}}}
	n := &recordingNotifier{}
	p := NewCondominiosProvider(api, n, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, p.Refresh(ctx))

	api.failNext = boom
	_, err := p.Create(ctx, condominios.Input{Nome: "X"})
	require.ErrorIs(t, err, boom)
	require.Len(t, p.List(), 1)
	require.Equal(t, []string{"Não foi possível criar o condomínio"}, n.failures)

	err = p.Delete(ctx, "missing")
	require.True(t, client.IsNotFound(err))
	require.Len(t, n.failures, 2)

	api.failNext = boom
	require.ErrorIs(t, p.Refresh(ctx), boom)
	require.Len(t, p.List(), 1)
}

func TestCondominiosProvider_MutationSurvivesFailedRefetch(t *testing.T) {
	api := &fakeCondominios{failAll: errors.New("list timeout")}
	n := &recordingNotifier{}
	p := NewCondominiosProvider(api, n, zap.NewNop())
	ctx := context.Background()

	form := forms.NewCondominioForm()
	data := forms.CondominioData{Nome: "Edifício Central", Morada: "Rua A", Cidade: "Lisboa", CodigoPostal: "1000-001", NIF: 123456789}
	form.Open(data)
	err := form.Submit(ctx, data, func(ctx context.Context, d forms.CondominioData) error {
		_, err := p.Create(ctx, d.Input())
		return err
	})
	require.NoError(t, err)
	require.False(t, form.IsOpen())
	require.Len(t, api.rows, 1)
	require.Equal(t, []string{"Condomínio criado com sucesso"}, n.success)
	require.Equal(t, []string{"Não foi possível carregar os condomínios"}, n.failures)

	nome := "Torre"
	_, err = p.Update(ctx, api.rows[0].ID, condominios.Patch{Nome: &nome})
	require.NoError(t, err)
	require.NoError(t, p.Delete(ctx, api.rows[0].ID))
	require.Empty(t, api.rows)
	require.Len(t, n.failures, 3)
	require.False(t, p.Loading())
}

type fakeAtivos struct {
	rows    []ativos.Ativo
	deleted []string
	err     error
}

func (f *fakeAtivos) All(ctx context.Context) ([]ativos.Ativo, error) {
	return append([]ativos.Ativo(nil), f.rows...), f.err
}

func (f *fakeAtivos) Create(ctx context.Context, condominioID string, in ativos.Input) (ativos.Ativo, error) {
	if f.err != nil {
		return ativos.Ativo{}, f.err
	}
	return ativos.Ativo{ID: "new-" + in.Nome, CondominioID: condominioID, Nome: in.Nome}, nil
}

func (f *fakeAtivos) Update(ctx context.Context, id string, p ativos.Patch) (ativos.Ativo, error) {
	if f.err != nil {
		return ativos.Ativo{}, f.err
	}
	return ativos.Ativo{ID: id, CondominioID: "c1", Nome: *p.Nome}, nil
}

func (f *fakeAtivos) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func TestAtivosProvider_Splices(t *testing.T) {
	api := &fakeAtivos{rows: []ativos.Ativo{
		{ID: "a1", CondominioID: "c1", Nome: "Elevador"},
		{ID: "a2", CondominioID: "c2", Nome: "Portão"},
	}}
	p := NewAtivosProvider(api, &recordingNotifier{}, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, p.Refresh(ctx))
	api.rows = nil

	_, err := p.Create(ctx, "c1", ativos.Input{Nome: "Bomba"})
	require.NoError(t, err)
	require.Equal(t, []string{"a1", "new-Bomba"}, ids(p.ByCondominio("c1")))

	nome := "Elevador A"
	_, err = p.Update(ctx, "a1", ativos.Patch{Nome: &nome})
	require.NoError(t, err)
	require.Equal(t, "Elevador A", p.List()[0].Nome)

	require.NoError(t, p.Delete(ctx, "a1"))
	require.Equal(t, []string{"new-Bomba"}, ids(p.ByCondominio("c1")))
	require.Equal(t, []string{"a2"}, ids(p.ByCondominio("c2")))
}

func TestAtivosProvider_UpdateAppendsUnloaded(t *testing.T) {
	api := &fakeAtivos{rows: []ativos.Ativo{{ID: "a1", CondominioID: "c1", Nome: "Elevador"}}}
	p := NewAtivosProvider(api, &recordingNotifier{}, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, p.Refresh(ctx))

	nome := "Caldeira"
	_, err := p.Update(ctx, "a9", ativos.Patch{Nome: &nome})
	require.NoError(t, err)
	require.Equal(t, []string{"a1", "a9"}, ids(p.ByCondominio("c1")))

	// a second update replaces instead of duplicating
	nome = "Caldeira nova"
	_, err = p.Update(ctx, "a9", ativos.Patch{Nome: &nome})
	require.NoError(t, err)
	require.Len(t, p.List(), 2)
	require.Equal(t, "Caldeira nova", p.List()[1].Nome)
}

func TestAtivosProvider_FailureKeepsList(t *testing.T) {
	api := &fakeAtivos{rows: []ativos.Ativo{{ID: "a1", CondominioID: "c1"}}}
	n := &recordingNotifier{}
	p := NewAtivosProvider(api, n, zap.NewNop())
	require.NoError(t, p.Refresh(context.Background()))

	api.err = errors.New("timeout")
	require.Error(t, p.Delete(context.Background(), "a1"))
	require.Len(t, p.List(), 1)
	require.Len(t, n.failures, 1)
}

func TestAtivosProvider_ConcurrentMutations(t *testing.T) {
	api := &fakeAtivos{}
	p := NewAtivosProvider(api, &recordingNotifier{}, zap.NewNop())
	errs := make(chan error, 20)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := p.Create(context.Background(), "c1", ativos.Input{Nome: strings.Repeat("x", i+1)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, p.ByCondominio("c1"), 20)
}

func ids(list []ativos.Ativo) []string {
	out := []string{}
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

type fakeAuth struct {
	logoutErr error
	meErr     error
}

func (f *fakeAuth) Signup(ctx context.Context, req client.SignupRequest) (users.AuthResult, error) {
	return users.AuthResult{Token: "t2", User: users.User{ID: "u2", Email: req.Email}}, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (users.AuthResult, error) {
	if password != "secret1" {
		return users.AuthResult{}, &client.APIError{Status: 401, Message: "invalid credentials"}
	}
	return users.AuthResult{Token: "t1", User: users.User{ID: "u1", Email: email, Role: users.RoleAdmin}}, nil
}

func (f *fakeAuth) Logout(ctx context.Context) error { return f.logoutErr }

func (f *fakeAuth) Me(ctx context.Context) (users.User, error) {
	return users.User{ID: "u1"}, f.meErr
}

func TestAuthProvider_PushesSessionChanges(t *testing.T) {
	api := &fakeAuth{}
	n := &recordingNotifier{}
	p := NewAuthProvider(api, n, zap.NewNop())
	ctx := context.Background()

	var seen []string
	cancel := p.Subscribe(func(s Session) {
		if s.User == nil {
			seen = append(seen, "out")
			return
		}
		seen = append(seen, s.User.ID)
	})

	require.Error(t, p.Login(ctx, "ana@x.pt", "nope"))
	require.Nil(t, p.User())
	require.Len(t, n.failures, 1)

	require.NoError(t, p.Login(ctx, "ana@x.pt", "secret1"))
	require.True(t, p.IsAdmin())
	require.Equal(t, "t1", p.Session().Token)

	api.logoutErr = errors.New("offline")
	require.Error(t, p.Logout(ctx))
	require.Nil(t, p.User())

	cancel()
	cancel()
	require.NoError(t, p.Signup(ctx, client.SignupRequest{Email: "rui@x.pt"}))
	require.Equal(t, "u2", p.User().ID)
	require.Equal(t, []string{"u1", "out"}, seen)
}

func TestAuthProvider_RestoreExpired(t *testing.T) {
	api := &fakeAuth{meErr: &client.APIError{Status: 401, Message: "invalid or expired session"}}
	p := NewAuthProvider(api, &recordingNotifier{}, zap.NewNop())

	err := p.Restore(context.Background(), "old")
	require.True(t, client.IsUnauthorized(err))
	require.Nil(t, p.User())

	api.meErr = nil
	require.NoError(t, p.Restore(context.Background(), "good"))
	require.Equal(t, "good", p.Session().Token)
}

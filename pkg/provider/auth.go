package provider

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"domly/pkg/client"
	"domly/pkg/users"
)

type AuthAPI interface {
	Signup(ctx context.Context, req client.SignupRequest) (users.AuthResult, error)
	Login(ctx context.Context, email, password string) (users.AuthResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (users.User, error)
}

// Session is what subscribers see; User is nil when logged out.
type Session struct {
	Token string
	User  *users.User
}

// AuthProvider mirrors the session and pushes every change to its subscribers.
type AuthProvider struct {
	api    AuthAPI
	notify Notifier
	log    *zap.Logger

	mu      sync.Mutex
	session Session
	subs    map[int]func(Session)
	nextSub int
}

func NewAuthProvider(api AuthAPI, notify Notifier, log *zap.Logger) *AuthProvider {
	return &AuthProvider{api: api, notify: notify, log: log, subs: make(map[int]func(Session))}
}

func (p *AuthProvider) Session() Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

func (p *AuthProvider) User() *users.User {
	return p.Session().User
}

func (p *AuthProvider) IsAdmin() bool {
	u := p.User()
	return u != nil && u.Role == users.RoleAdmin
}

// Subscribe registers fn for session changes. The returned cancel stops delivery; it is safe
// to call more than once.
func (p *AuthProvider) Subscribe(fn func(Session)) (cancel func()) {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *AuthProvider) set(s Session) {
	p.mu.Lock()
	p.session = s
	subs := make([]func(Session), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

func (p *AuthProvider) Login(ctx context.Context, email, password string) error {
	res, err := p.api.Login(ctx, email, password)
	if err != nil {
		p.notify.Failure("Não foi possível iniciar sessão", err)
		return err
	}
	user := res.User
	p.set(Session{Token: res.Token, User: &user})
	p.log.Info("logged in", zap.String("user_id", user.ID))
	return nil
}

func (p *AuthProvider) Signup(ctx context.Context, req client.SignupRequest) error {
	res, err := p.api.Signup(ctx, req)
	if err != nil {
		p.notify.Failure("Não foi possível criar a conta", err)
		return err
	}
	user := res.User
	p.set(Session{Token: res.Token, User: &user})
	p.log.Info("signed up", zap.String("user_id", user.ID))
	p.notify.Success("Conta criada com sucesso")
	return nil
}

// Restore validates a saved token by asking the server who it belongs to. An expired token
// clears the session without notifying.
func (p *AuthProvider) Restore(ctx context.Context, token string) error {
	u, err := p.api.Me(ctx)
	if err != nil {
		p.set(Session{})
		return err
	}
	p.set(Session{Token: token, User: &u})
	return nil
}

// Logout always clears the local session, even when the server call fails.
func (p *AuthProvider) Logout(ctx context.Context) error {
	err := p.api.Logout(ctx)
	p.set(Session{})
	if err != nil {
		p.notify.Failure("Erro ao terminar sessão", err)
		return err
	}
	return nil
}

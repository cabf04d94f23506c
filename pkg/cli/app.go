// Package cli implements domlyctl, the terminal front end of Domly. Each subcommand renders
// one page of the web app as plain text.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"domly/pkg/client"
	"domly/pkg/config"
	"domly/pkg/date"
	"domly/pkg/forms"
	"domly/pkg/provider"
)

var (
	errNotLoggedIn    = errors.New("sessão não iniciada: execute domlyctl login")
	errSessionExpired = errors.New("sessão expirada: execute domlyctl login")
	errAccessDenied   = errors.New("acesso negado: são necessários privilégios de administrador")
	errAborted        = errors.New("operação cancelada")
)

// App carries everything the commands share.
type App struct {
	Client      *client.Client
	Auth        *provider.AuthProvider
	Condominios *provider.CondominiosProvider
	Ativos      *provider.AtivosProvider
	Session     SessionFile
	In          *bufio.Reader
	Out         io.Writer
	Now         func() time.Time
	Log         *zap.Logger
}

func NewApp(cfg *config.ClientConfig, in io.Reader, out, errOut io.Writer, log *zap.Logger) *App {
	c := client.New(cfg.URL, cfg.APIKey, log)
	c.SetTimeout(cfg.Timeout)
	notifier := provider.WriterNotifier{W: errOut}

	app := &App{
		Client:      c,
		Auth:        provider.NewAuthProvider(c.Auth(), notifier, log),
		Condominios: provider.NewCondominiosProvider(c.Condominios(), notifier, log),
		Ativos:      provider.NewAtivosProvider(c.Ativos(), notifier, log),
		Session:     SessionFile{Path: cfg.SessionFile},
		In:          bufio.NewReader(in),
		Out:         out,
		Now:         time.Now,
		Log:         log,
	}
	app.Auth.Subscribe(app.persistSession)
	return app
}

func (a *App) persistSession(s provider.Session) {
	var err error
	if s.User == nil {
		err = a.Session.Clear()
	} else {
		err = a.Session.Save(s.Token)
	}
	if err != nil {
		a.Log.Warn("could not persist session", zap.String("path", a.Session.Path), zap.Error(err))
	}
}

// requireUser resolves the saved session against the server.
func (a *App) requireUser(ctx context.Context) error {
	token := a.Client.Token()
	if token == "" {
		return errNotLoggedIn
	}
	if err := a.Auth.Restore(ctx, token); err != nil {
		if client.IsUnauthorized(err) {
			return errSessionExpired
		}
		return err
	}
	return nil
}

func (a *App) requireAdmin(ctx context.Context) error {
	if err := a.requireUser(ctx); err != nil {
		return err
	}
	if !a.Auth.IsAdmin() {
		return errAccessDenied
	}
	return nil
}

func (a *App) readLine(prompt string) (string, error) {
	fmt.Fprint(a.Out, prompt)
	line, err := a.In.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm gates destructive commands unless yes was given on the command line.
func (a *App) confirm(question string, yes bool) error {
	if yes {
		return nil
	}
	answer, err := a.readLine(question + " [s/N] ")
	if err != nil {
		return errAborted
	}
	switch strings.ToLower(answer) {
	case "s", "sim", "y", "yes":
		return nil
	}
	return errAborted
}

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
}

// formError prints the per-field messages of a validation failure.
func (a *App) formError(err error) error {
	var ve *forms.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	fmt.Fprintln(a.Out, "Dados inválidos:")
	for field, msg := range ve.Fields {
		fmt.Fprintf(a.Out, "  %s: %s\n", field, msg)
	}
	return err
}

// SessionFile stores the bearer token between invocations.
type SessionFile struct {
	Path string
}

// Load returns "" when no session was saved.
func (s SessionFile) Load() (string, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (s SessionFile) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(s.Path, []byte(token+"\n"), 0o600)
}

func (s SessionFile) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func fmtDate(d *date.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

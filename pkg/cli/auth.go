package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"domly/pkg/forms"
)

func loginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Iniciar sessão",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = app.readLine("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = app.readLine("Password: "); err != nil {
					return err
				}
			}
			if err := app.Auth.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			u := app.Auth.User()
			fmt.Fprintf(app.Out, "Sessão iniciada como %s %s <%s>\n", u.PrimeiroNome, u.UltimoNome, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email da conta")
	cmd.Flags().StringVar(&password, "password", "", "password (pedida se omitida)")
	return cmd
}

func signupCmd(app *App) *cobra.Command {
	var data forms.SignupData
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Criar conta",
		RunE: func(cmd *cobra.Command, args []string) error {
			form := forms.NewSignupForm()
			form.Open(data)
			err := form.Submit(cmd.Context(), data, func(ctx context.Context, d forms.SignupData) error {
				return app.Auth.Signup(ctx, d.Request())
			})
			if err != nil {
				return app.formError(err)
			}
			fmt.Fprintf(app.Out, "Conta criada para %s\n", app.Auth.User().Email)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&data.PrimeiroNome, "primeiro-nome", "", "primeiro nome")
	f.StringVar(&data.UltimoNome, "ultimo-nome", "", "último nome")
	f.StringVar(&data.Empresa, "empresa", "", "empresa")
	f.StringVar(&data.Email, "email", "", "email")
	f.StringVar(&data.Password, "password", "", "password (mínimo 6 caracteres)")
	return cmd
}

func logoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Terminar sessão",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Client.Token() == "" {
				fmt.Fprintln(app.Out, "Nenhuma sessão ativa")
				return nil
			}
			// The session file is removed by the auth subscription even if the server call fails.
			if err := app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "Sessão terminada")
			return nil
		},
	}
}

func whoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Mostrar o utilizador da sessão",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			u := app.Auth.User()
			fmt.Fprintf(app.Out, "%s %s <%s> %s (%s)\n", u.PrimeiroNome, u.UltimoNome, u.Email, u.Empresa, u.Role)
			return nil
		},
	}
}

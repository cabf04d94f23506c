package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func passwordCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Recuperar a password da conta",
	}
	cmd.AddCommand(passwordForgotCmd(app), passwordResetCmd(app))
	return cmd
}

func passwordForgotCmd(app *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot",
		Short: "Enviar um código de recuperação por email",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = app.readLine("Email: "); err != nil {
					return err
				}
			}
			if err := app.Client.Auth().ForgotPassword(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Se a conta existir, foi enviado um código para %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email da conta")
	return cmd
}

func passwordResetCmd(app *App) *cobra.Command {
	var email, code, password string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Definir uma nova password com o código recebido",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = app.readLine("Email: "); err != nil {
					return err
				}
			}
			if code == "" {
				if code, err = app.readLine("Código: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = app.readLine("Nova password: "); err != nil {
					return err
				}
			}
			if err := app.Client.Auth().ResetPassword(cmd.Context(), email, code, password); err != nil {
				return err
			}
			// the server revoked every session of the account
			app.Client.SetToken("")
			if err := app.Session.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "Password alterada. Inicie sessão novamente.")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&email, "email", "", "email da conta")
	f.StringVar(&code, "code", "", "código recebido por email")
	f.StringVar(&password, "password", "", "nova password (pedida se omitida)")
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "domlyctl",
		Short:         "Gestão de condomínios e ativos Domly",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.Session.Load()
			if err != nil {
				return err
			}
			app.Client.SetToken(token)
			return nil
		},
	}
	root.SetOut(app.Out)

	root.AddCommand(
		loginCmd(app),
		signupCmd(app),
		logoutCmd(app),
		whoamiCmd(app),
		passwordCmd(app),
		condominiosCmd(app),
		ativosCmd(app),
		manutencoesCmd(app),
		notificacoesCmd(app),
		alertasCmd(app),
		calendarioCmd(app),
		adminCmd(app),
		watchCmd(app),
		contactoCmd(app),
	)
	return root
}

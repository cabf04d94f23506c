package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"domly/pkg/notify"
)

func describeEvent(ev notify.Event) string {
	at := ev.OccurredAt.Local().Format("2006-01-02 15:04:05")
	switch ev.EventType {
	case notify.EventAlertaCriado:
		return fmt.Sprintf("%s  novo alerta %s: %s (ativo %s)", at, ev.Tipo, ev.Titulo, ev.AtivoID)
	case notify.EventAlertaResolvido:
		return fmt.Sprintf("%s  alerta resolvido: %s", at, ev.Titulo)
	case notify.EventAtivoRemovido:
		return fmt.Sprintf("%s  ativo %s removido do condomínio %s", at, ev.AtivoID, ev.CondominioID)
	}
	return fmt.Sprintf("%s  %s", at, ev.EventType)
}

func watchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Acompanhar notificações em tempo real (Ctrl+C para sair)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireUser(ctx); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "À escuta de notificações...")
			err := app.Client.Subscribe(ctx, func(ev notify.Event) {
				fmt.Fprintln(app.Out, describeEvent(ev))
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

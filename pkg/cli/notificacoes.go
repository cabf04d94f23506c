package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"domly/pkg/alertas"
	"domly/pkg/views"
)

func notificacoesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "notificacoes <condominio-id>",
		Short: "Alertas, manutenções e estatísticas de um condomínio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireUser(ctx); err != nil {
				return err
			}
			c, err := app.loadCondominio(ctx, args[0])
			if err != nil {
				return err
			}

			var all []alertas.AlertaView
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return app.Ativos.Refresh(gctx) })
			g.Go(func() error {
				var err error
				all, err = app.Client.Alertas().List(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			list := app.Ativos.ByCondominio(c.ID)
			mine := make([]alertas.AlertaView, 0)
			for _, a := range all {
				if a.CondominioID == c.ID {
					mine = append(mine, a)
				}
			}
			now := app.Now()
			s := views.AtivoStats(list, mine, now)

			fmt.Fprintf(app.Out, "Notificações e Manutenções · %s\n\n", c.Nome)
			w := app.table()
			fmt.Fprintf(w, "Total de ativos\t%d\n", s.Total)
			fmt.Fprintf(w, "Alertas pendentes\t%d\n", s.AlertasPendentes)
			fmt.Fprintf(w, "Com manutenção agendada\t%d\n", s.ComManutencao)
			fmt.Fprintf(w, "Manutenções urgentes\t%d\n", s.ManutencoesUrgentes)
			fmt.Fprintf(w, "Monitorizados\t%d%%\n", s.PercentMonitorizado)
			w.Flush()

			fmt.Fprintln(app.Out, "\nPróximas manutenções")
			schedule := views.MaintenanceSchedule(list, now)
			if len(schedule) == 0 {
				fmt.Fprintln(app.Out, "  Sem manutenções agendadas")
			}
			w = app.table()
			for _, it := range schedule {
				flag := ""
				if it.Urgent {
					flag = "URGENTE"
				}
				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", it.Data, it.Ativo.Nome, it.Ativo.Estado, flag)
			}
			w.Flush()

			pending := views.PendingAlerts(mine)
			fmt.Fprintf(app.Out, "\nAlertas pendentes (%d)\n", len(pending))
			printAlerts(app, pending)
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"domly/pkg/alertas"
	"domly/pkg/date"
	"domly/pkg/manutencoes"
	"domly/pkg/views"
)

func calendarioCmd(app *App) *cobra.Command {
	var dia string
	var limit int
	cmd := &cobra.Command{
		Use:   "calendario",
		Short: "Calendário de atividades",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireUser(ctx); err != nil {
				return err
			}
			today := date.Of(app.Now())
			selected := today
			if dia != "" {
				var err error
				if selected, err = date.Parse(dia); err != nil {
					return err
				}
			}

			var mans []manutencoes.ManutencaoView
			var als []alertas.AlertaView
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				mans, err = app.Client.Manutencoes().List(gctx)
				return err
			})
			g.Go(func() (err error) {
				als, err = app.Client.Alertas().List(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}
			events := views.CalendarEvents(mans, als)

			fmt.Fprintf(app.Out, "Eventos de %s\n", selected)
			printEvents(app, views.EventsOn(events, selected))

			upcoming := views.Upcoming(events, today)
			if limit > 0 && len(upcoming) > limit {
				upcoming = upcoming[:limit]
			}
			fmt.Fprintln(app.Out, "\nPróximos eventos")
			printEvents(app, upcoming)
			return nil
		},
	}
	cmd.Flags().StringVar(&dia, "dia", "", "dia a mostrar (AAAA-MM-DD, por omissão hoje)")
	cmd.Flags().IntVar(&limit, "limite", 10, "número máximo de próximos eventos")
	return cmd
}

func printEvents(app *App, events []views.CalendarEvent) {
	if len(events) == 0 {
		fmt.Fprintln(app.Out, "  Sem eventos")
		return
	}
	w := app.table()
	for _, e := range events {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", e.Data, e.Kind, e.Titulo, e.Ativo)
	}
	w.Flush()
}

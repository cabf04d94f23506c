package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"domly/pkg/alertas"
	"domly/pkg/views"
)

func alertasCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alertas",
		Aliases: []string{"alerta"},
		Short:   "Gestão de alertas de todos os condomínios",
	}
	cmd.AddCommand(alertasListCmd(app), alertasResolveCmd(app), alertasReportCmd(app))
	return cmd
}

func alertasListCmd(app *App) *cobra.Command {
	var resolved bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Alertas pendentes agrupados por condomínio",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			all, err := app.Client.Alertas().List(cmd.Context())
			if err != nil {
				return err
			}
			pending := views.PendingAlerts(all)
			done := views.ResolvedAlerts(all)
			fmt.Fprintf(app.Out, "Pendentes (%d) · Resolvidos (%d)\n\n", len(pending), len(done))

			if resolved {
				printAlerts(app, done)
				return nil
			}
			if len(pending) == 0 {
				fmt.Fprintln(app.Out, "Sem alertas pendentes")
				return nil
			}
			for _, g := range views.GroupAlertsByCondominio(pending) {
				fmt.Fprintf(app.Out, "%s\n", g.Condominio)
				printAlerts(app, g.Alertas)
				fmt.Fprintln(app.Out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&resolved, "resolvidos", false, "mostrar os alertas resolvidos")
	return cmd
}

func printAlerts(app *App, list []alertas.AlertaView) {
	w := app.table()
	for _, a := range list {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", a.ID, a.DataAlerta.Format("2006-01-02 15:04"), a.AtivoNome, a.Tipo, a.Titulo)
	}
	w.Flush()
}

func alertasResolveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <alerta-id>",
		Short: "Marcar um alerta como resolvido",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			a, err := app.Client.Alertas().Resolve(cmd.Context(), args[0])
			if err != nil {
				return notFoundAs(err, "alerta não encontrado (veja domlyctl alertas list)")
			}
			fmt.Fprintf(app.Out, "Alerta \"%s\" resolvido\n", a.Titulo)
			return nil
		},
	}
}

func alertasReportCmd(app *App) *cobra.Command {
	var in alertas.Input
	cmd := &cobra.Command{
		Use:   "reportar <ativo-id>",
		Short: "Reportar uma ocorrência num ativo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			if strings.TrimSpace(in.Titulo) == "" {
				return errors.New("--titulo é obrigatório")
			}
			a, err := app.Client.Alertas().Create(cmd.Context(), args[0], in)
			if err != nil {
				return notFoundAs(err, "ativo não encontrado")
			}
			fmt.Fprintf(app.Out, "Alerta %s registado (%s)\n", a.ID, a.Estado)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Tipo, "tipo", "avaria", "avaria, manutencao, limpeza, inspecao ou outro")
	cmd.Flags().StringVar(&in.Titulo, "titulo", "", "título")
	cmd.Flags().StringVar(&in.Mensagem, "mensagem", "", "descrição da ocorrência")
	return cmd
}

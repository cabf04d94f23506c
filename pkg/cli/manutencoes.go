package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"domly/pkg/date"
	"domly/pkg/forms"
	"domly/pkg/manutencoes"
	"domly/pkg/views"
)

func manutencoesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "manutencoes",
		Aliases: []string{"manutencao", "m"},
		Short:   "Agendar e concluir manutenções",
	}
	cmd.AddCommand(manutencoesListCmd(app), manutencoesScheduleCmd(app), manutencoesCompleteCmd(app), manutencoesDeleteCmd(app))
	return cmd
}

func manutencoesListCmd(app *App) *cobra.Command {
	var ativoID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Listar manutenções",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			list, err := app.Client.Manutencoes().List(cmd.Context())
			if err != nil {
				return err
			}
			if ativoID != "" {
				list = views.AssetMaintenances(list, ativoID)
			}
			if len(list) == 0 {
				fmt.Fprintln(app.Out, "Sem manutenções")
				return nil
			}
			w := app.table()
			fmt.Fprintln(w, "ID\tDATA\tATIVO\tTIPO\tESTADO\tCUSTO\tDESCRIÇÃO")
			for _, m := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n", m.ID, m.DataAgendada, m.AtivoNome, m.Tipo, m.Estado, m.Custo, m.Descricao)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&ativoID, "ativo", "", "apenas as manutenções deste ativo")
	return cmd
}

func manutencoesScheduleCmd(app *App) *cobra.Command {
	var data forms.MaintenanceData
	cmd := &cobra.Command{
		Use:   "agendar <ativo-id>",
		Short: "Agendar uma manutenção",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			form := forms.NewMaintenanceForm(args[0])
			data.AtivoID = args[0]
			form.Open(data)
			var created manutencoes.Manutencao
			err := form.Submit(cmd.Context(), data, func(ctx context.Context, d forms.MaintenanceData) error {
				var err error
				created, err = app.Client.Manutencoes().Create(ctx, d.Input())
				return err
			})
			if err != nil {
				return app.formError(notFoundAs(err, "ativo não encontrado"))
			}
			fmt.Fprintf(app.Out, "Manutenção agendada para %s (%s)\n", created.DataAgendada, created.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&data.DataAgendada, "data", "", "data agendada (AAAA-MM-DD)")
	f.StringVar(&data.DataConclusao, "data-conclusao", "", "data de conclusão (AAAA-MM-DD)")
	f.StringVar(&data.Descricao, "descricao", "", "descrição")
	f.Float64Var(&data.Custo, "custo", 0, "custo em euros")
	f.StringVar(&data.Estado, "estado", manutencoes.EstadoPendente, "pendente ou concluido")
	f.StringVar(&data.Tipo, "tipo", manutencoes.TipoPreventiva, "preventiva ou corretiva")
	return cmd
}

func findManutencao(list []manutencoes.ManutencaoView, id string) (manutencoes.ManutencaoView, bool) {
	for _, m := range list {
		if m.ID == id {
			return m, true
		}
	}
	return manutencoes.ManutencaoView{}, false
}

func manutencoesCompleteCmd(app *App) *cobra.Command {
	var when string
	var custo float64
	cmd := &cobra.Command{
		Use:   "concluir <manutencao-id>",
		Short: "Marcar uma manutenção como concluída",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireUser(ctx); err != nil {
				return err
			}
			list, err := app.Client.Manutencoes().List(ctx)
			if err != nil {
				return err
			}
			m, ok := findManutencao(list, args[0])
			if !ok {
				return errors.New("manutenção não encontrada (veja domlyctl manutencoes list)")
			}

			done := date.Of(app.Now())
			if when != "" {
				if done, err = date.Parse(when); err != nil {
					return err
				}
			}
			in := manutencoes.Input{
				AtivoID:       m.AtivoID,
				Descricao:     m.Descricao,
				DataAgendada:  m.DataAgendada,
				DataConclusao: &done,
				Custo:         m.Custo,
				Estado:        manutencoes.EstadoConcluido,
				Tipo:          m.Tipo,
			}
			if cmd.Flags().Changed("custo") {
				in.Custo = custo
			}
			updated, err := app.Client.Manutencoes().Update(ctx, m.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Manutenção concluída em %s\n", fmtDate(updated.DataConclusao))
			return nil
		},
	}
	cmd.Flags().StringVar(&when, "data", "", "data de conclusão (por omissão hoje)")
	cmd.Flags().Float64Var(&custo, "custo", 0, "custo final em euros")
	return cmd
}

func manutencoesDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <manutencao-id>",
		Short: "Eliminar uma manutenção",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			if err := app.confirm("Eliminar a manutenção?", yes); err != nil {
				return err
			}
			if err := app.Client.Manutencoes().Delete(cmd.Context(), args[0]); err != nil {
				return notFoundAs(err, "manutenção não encontrada")
			}
			fmt.Fprintln(app.Out, "Manutenção eliminada")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "não pedir confirmação")
	return cmd
}

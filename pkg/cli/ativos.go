package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"domly/pkg/ativos"
	"domly/pkg/client"
	"domly/pkg/condominios"
	"domly/pkg/date"
	"domly/pkg/forms"
	"domly/pkg/views"
)

// notFoundAs swaps a 404 for a message pointing back to the parent list.
func notFoundAs(err error, msg string) error {
	if client.IsNotFound(err) {
		return errors.New(msg)
	}
	return err
}

const condominioNotFound = "condomínio não encontrado (veja domlyctl condominios list)"

// loadCondominio refreshes the condominios list and finds id in it.
func (a *App) loadCondominio(ctx context.Context, id string) (condominios.Condominio, error) {
	if err := a.Condominios.Refresh(ctx); err != nil {
		return condominios.Condominio{}, err
	}
	c, ok := a.Condominios.Find(id)
	if !ok {
		return condominios.Condominio{}, errors.New(condominioNotFound)
	}
	return c, nil
}

func ativosCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ativos",
		Aliases: []string{"ativo", "a"},
		Short:   "Gerir ativos de um condomínio",
	}
	cmd.AddCommand(
		ativosListCmd(app),
		ativosShowCmd(app),
		ativosCreateCmd(app),
		ativosUpdateCmd(app),
		ativosDeleteCmd(app),
		ativosFotosCmd(app),
		ativosDocumentoCmd(app),
	)
	return cmd
}

func ativosListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <condominio-id>",
		Short: "Listar os ativos de um condomínio",
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
			if err := app.Ativos.Refresh(ctx); err != nil {
				return err
			}
			list := app.Ativos.ByCondominio(c.ID)

			fmt.Fprintf(app.Out, "%s · %s, %s\n\n", c.Nome, c.Morada, c.Cidade)
			if len(list) == 0 {
				fmt.Fprintln(app.Out, "Sem ativos registados")
				return nil
			}
			now := app.Now()
			w := app.table()
			fmt.Fprintln(w, "ID\tNOME\tCATEGORIA\tESTADO\tPRÓXIMA MANUTENÇÃO\t")
			for _, a := range list {
				flag := ""
				if a.ProximaManutencao != nil && views.IsUrgent(*a.ProximaManutencao, now) {
					flag = "URGENTE"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Nome, a.Categoria, a.Estado, fmtDate(a.ProximaManutencao), flag)
			}
			return w.Flush()
		},
	}
}

func ativosShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ativo-id>",
		Short: "Detalhe de um ativo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			d, err := app.Client.Ativos().Get(cmd.Context(), args[0])
			if err != nil {
				return notFoundAs(err, "ativo não encontrado (veja domlyctl ativos list <condominio-id>)")
			}
			printAtivoDetail(app, d)
			return nil
		},
	}
}

func printAtivoDetail(app *App, d ativos.AtivoDetail) {
	out := app.Out
	fmt.Fprintf(out, "%s (%s)\n", d.Nome, d.Categoria)
	w := app.table()
	fmt.Fprintf(w, "Marca / modelo\t%s %s\n", d.Marca, d.Modelo)
	fmt.Fprintf(w, "Nº de série\t%s\n", d.NumSerie)
	fmt.Fprintf(w, "Estado\t%s\n", d.Estado)
	fmt.Fprintf(w, "Localização\t%s\n", d.Localizacao)
	fmt.Fprintf(w, "Instalação\t%s\n", fmtDate(d.DataInstalacao))
	fmt.Fprintf(w, "Valor\t%.2f €\n", d.Valor)
	fmt.Fprintf(w, "Última manutenção\t%s\n", fmtDate(d.UltimaManutencao))
	fmt.Fprintf(w, "Frequência\t%d meses\n", d.FrequenciaManutencao)
	fmt.Fprintf(w, "Próxima manutenção\t%s\n", fmtDate(d.ProximaManutencao))
	w.Flush()
	if d.Descricao != "" {
		fmt.Fprintf(out, "\n%s\n", d.Descricao)
	}

	fmt.Fprintf(out, "\nAlertas (%d)\n", len(d.Alertas))
	for _, a := range d.Alertas {
		fmt.Fprintf(out, "  [%s] %s  %s  %s\n", a.Estado, a.DataAlerta.Format("2006-01-02"), a.Tipo, a.Titulo)
	}
	fmt.Fprintf(out, "\nManutenções (%d)\n", len(d.Manutencoes))
	for _, m := range d.Manutencoes {
		fmt.Fprintf(out, "  [%s] %s  %s  %s  %.2f €\n", m.Estado, m.DataAgendada, m.Tipo, m.Descricao, m.Custo)
	}
	fmt.Fprintf(out, "\nDocumentos (%d)\n", len(d.Documentos))
	for _, doc := range d.Documentos {
		fmt.Fprintf(out, "  %s  %s  %s\n", doc.Nome, doc.TipoDocumento, doc.URL)
	}
	fmt.Fprintf(out, "\nFotos (%d)\n", len(d.Fotos))
	for _, f := range d.Fotos {
		fmt.Fprintf(out, "  %s\n", f.URL)
	}
}

func ativoFlags(cmd *cobra.Command, d *forms.AtivoData) {
	f := cmd.Flags()
	f.StringVar(&d.Nome, "nome", "", "nome (máximo 100 caracteres)")
	f.StringVar(&d.Categoria, "categoria", "", "categoria")
	f.StringVar(&d.Marca, "marca", "", "marca")
	f.StringVar(&d.Modelo, "modelo", "", "modelo")
	f.StringVar(&d.NumSerie, "num-serie", "", "número de série")
	f.StringVar(&d.DataInstalacao, "data-instalacao", "", "data de instalação (AAAA-MM-DD)")
	f.StringVar(&d.UltimaManutencao, "ultima-manutencao", "", "última manutenção (AAAA-MM-DD)")
	f.IntVar(&d.FrequenciaManutencao, "frequencia", ativos.DefaultFrequencia, "frequência de manutenção em meses")
	f.StringVar(&d.Estado, "estado", "", "excelente, bom, regular ou mau")
	f.StringVar(&d.Descricao, "descricao", "", "descrição")
	f.Float64Var(&d.Valor, "valor", 0, "valor em euros")
	f.StringVar(&d.Localizacao, "localizacao", "", "localização no edifício")
}

func ativosCreateCmd(app *App) *cobra.Command {
	var data forms.AtivoData
	cmd := &cobra.Command{
		Use:   "create <condominio-id>",
		Short: "Registar um ativo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			var created ativos.Ativo
			form := forms.NewAtivoForm()
			form.Open(data)
			err := form.Submit(cmd.Context(), data, func(ctx context.Context, d forms.AtivoData) error {
				var err error
				created, err = app.Ativos.Create(ctx, args[0], d.Input())
				return err
			})
			if err != nil {
				return app.formError(notFoundAs(err, condominioNotFound))
			}
			fmt.Fprintf(app.Out, "Ativo %s criado (%s), próxima manutenção %s\n", created.Nome, created.ID, fmtDate(created.ProximaManutencao))
			return nil
		},
	}
	ativoFlags(cmd, &data)
	return cmd
}

func ativosUpdateCmd(app *App) *cobra.Command {
	var data forms.AtivoData
	var proxima string
	cmd := &cobra.Command{
		Use:   "update <ativo-id>",
		Short: "Atualizar campos de um ativo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			p, err := ativoPatch(cmd, data, proxima)
			if err != nil {
				return err
			}
			a, err := app.Ativos.Update(cmd.Context(), args[0], p)
			if err != nil {
				return notFoundAs(err, "ativo não encontrado")
			}
			fmt.Fprintf(app.Out, "Ativo %s atualizado, próxima manutenção %s\n", a.Nome, fmtDate(a.ProximaManutencao))
			return nil
		},
	}
	ativoFlags(cmd, &data)
	cmd.Flags().StringVar(&proxima, "proxima-manutencao", "", "fixar a próxima manutenção (AAAA-MM-DD)")
	return cmd
}

func ativoPatch(cmd *cobra.Command, d forms.AtivoData, proxima string) (ativos.Patch, error) {
	f := cmd.Flags()
	var p ativos.Patch
	str := func(name string, dst **string, v string) {
		if f.Changed(name) {
			*dst = &v
		}
	}
	day := func(name string, dst **date.Date, v string) error {
		if !f.Changed(name) {
			return nil
		}
		parsed, err := date.Parse(v)
		if err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
		*dst = &parsed
		return nil
	}
	str("nome", &p.Nome, d.Nome)
	str("categoria", &p.Categoria, d.Categoria)
	str("marca", &p.Marca, d.Marca)
	str("modelo", &p.Modelo, d.Modelo)
	str("num-serie", &p.NumSerie, d.NumSerie)
	str("estado", &p.Estado, d.Estado)
	str("descricao", &p.Descricao, d.Descricao)
	str("localizacao", &p.Localizacao, d.Localizacao)
	if f.Changed("valor") {
		p.Valor = &d.Valor
	}
	if f.Changed("frequencia") {
		p.FrequenciaManutencao = &d.FrequenciaManutencao
	}
	for name, pair := range map[string]struct {
		dst **date.Date
		v   string
	}{
		"data-instalacao":    {&p.DataInstalacao, d.DataInstalacao},
		"ultima-manutencao":  {&p.UltimaManutencao, d.UltimaManutencao},
		"proxima-manutencao": {&p.ProximaManutencao, proxima},
	} {
		if err := day(name, pair.dst, pair.v); err != nil {
			return ativos.Patch{}, err
		}
	}
	return p, nil
}

func ativosDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <ativo-id>",
		Short: "Eliminar um ativo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			if err := app.confirm("Eliminar o ativo, os seus alertas, manutenções e ficheiros?", yes); err != nil {
				return err
			}
			if err := app.Ativos.Delete(cmd.Context(), args[0]); err != nil {
				return notFoundAs(err, "ativo não encontrado")
			}
			fmt.Fprintln(app.Out, "Ativo eliminado")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "não pedir confirmação")
	return cmd
}

func openUploads(paths []string) ([]client.Upload, func(), error) {
	files := make([]*os.File, 0, len(paths))
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	uploads := make([]client.Upload, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)
		uploads = append(uploads, client.Upload{Name: filepath.Base(p), Reader: f})
	}
	return uploads, closeAll, nil
}

func ativosFotosCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fotos <ativo-id> <imagem>...",
		Short: "Carregar fotografias de um ativo",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			uploads, closeAll, err := openUploads(args[1:])
			if err != nil {
				return err
			}
			defer closeAll()
			fotos, err := app.Client.Documentos().UploadFotos(cmd.Context(), args[0], uploads)
			if err != nil {
				return notFoundAs(err, "ativo não encontrado")
			}
			fmt.Fprintf(app.Out, "%d fotografias carregadas\n", len(fotos))
			return nil
		},
	}
}

func ativosDocumentoCmd(app *App) *cobra.Command {
	var nome, tipo string
	cmd := &cobra.Command{
		Use:   "documento <ativo-id> <ficheiro>",
		Short: "Anexar um documento a um ativo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			uploads, closeAll, err := openUploads(args[1:])
			if err != nil {
				return err
			}
			defer closeAll()
			doc, err := app.Client.Documentos().Upload(cmd.Context(), args[0], nome, tipo, uploads[0])
			if err != nil {
				return notFoundAs(err, "ativo não encontrado")
			}
			fmt.Fprintf(app.Out, "Documento %s disponível em %s\n", doc.Nome, doc.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&nome, "nome", "", "nome do documento (por omissão o nome do ficheiro)")
	cmd.Flags().StringVar(&tipo, "tipo", "outro", "tipo de documento")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"domly/pkg/condominios"
	"domly/pkg/forms"
)

func condominiosCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "condominios",
		Aliases: []string{"condominio", "c"},
		Short:   "Gerir condomínios",
	}
	cmd.AddCommand(
		condominiosListCmd(app),
		condominiosCreateCmd(app),
		condominiosUpdateCmd(app),
		condominiosDeleteCmd(app),
		condominiosImportCmd(app),
		condominiosTemplateCmd(app),
		condominiosImageCmd(app),
	)
	return cmd
}

func condominiosListCmd(app *App) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Listar condomínios",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			if err := app.Condominios.Refresh(cmd.Context()); err != nil {
				return err
			}
			list := app.Condominios.Filtered(search)
			if len(list) == 0 {
				fmt.Fprintln(app.Out, "Nenhum condomínio encontrado")
				return nil
			}
			w := app.table()
			fmt.Fprintln(w, "ID\tNOME\tMORADA\tCIDADE\tNIF\tFRAÇÕES")
			for _, c := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n", c.ID, c.Nome, c.Morada, c.Cidade, c.NIF, c.NFracoes)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filtrar por nome ou morada")
	return cmd
}

func condominioFlags(cmd *cobra.Command, d *forms.CondominioData) {
	f := cmd.Flags()
	f.StringVar(&d.Nome, "nome", "", "nome")
	f.StringVar(&d.Morada, "morada", "", "morada")
	f.StringVar(&d.CodigoPostal, "codigo-postal", "", "código postal")
	f.StringVar(&d.Cidade, "cidade", "", "cidade")
	f.IntVar(&d.NIF, "nif", 0, "NIF (9 dígitos)")
	f.IntVar(&d.NFracoes, "fracoes", 0, "número de frações")
	f.StringVar(&d.IBAN, "iban", "", "IBAN")
	f.StringVar(&d.Banco, "banco", "", "banco")
	f.StringVar(&d.Seguradora, "seguradora", "", "seguradora")
	f.StringVar(&d.Apolice, "apolice", "", "apólice de seguro")
}

func condominiosCreateCmd(app *App) *cobra.Command {
	var data forms.CondominioData
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Criar condomínio",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			var created condominios.Condominio
			form := forms.NewCondominioForm()
			form.Open(data)
			err := form.Submit(cmd.Context(), data, func(ctx context.Context, d forms.CondominioData) error {
				var err error
				created, err = app.Condominios.Create(ctx, d.Input())
				return err
			})
			if err != nil {
				return app.formError(err)
			}
			fmt.Fprintf(app.Out, "Condomínio %s criado (%s)\n", created.Nome, created.ID)
			return nil
		},
	}
	condominioFlags(cmd, &data)
	return cmd
}

func condominiosUpdateCmd(app *App) *cobra.Command {
	var data forms.CondominioData
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Atualizar campos de um condomínio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			f := cmd.Flags()
			var p condominios.Patch
			set := func(name string, dst **string, v string) {
				if f.Changed(name) {
					*dst = &v
				}
			}
			set("nome", &p.Nome, data.Nome)
			set("morada", &p.Morada, data.Morada)
			set("codigo-postal", &p.CodigoPostal, data.CodigoPostal)
			set("cidade", &p.Cidade, data.Cidade)
			set("iban", &p.IBAN, data.IBAN)
			set("banco", &p.Banco, data.Banco)
			set("seguradora", &p.Seguradora, data.Seguradora)
			set("apolice", &p.ApoliceSeguro, data.Apolice)
			if f.Changed("nif") {
				p.NIF = &data.NIF
			}
			if f.Changed("fracoes") {
				p.NFracoes = &data.NFracoes
			}
			if err := p.Validate(); err != nil {
				return err
			}
			c, err := app.Condominios.Update(cmd.Context(), args[0], p)
			if err != nil {
				return notFoundAs(err, condominioNotFound)
			}
			fmt.Fprintf(app.Out, "Condomínio %s atualizado\n", c.Nome)
			return nil
		},
	}
	condominioFlags(cmd, &data)
	return cmd
}

func condominiosDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Eliminar condomínio e todos os seus ativos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			if err := app.confirm("Eliminar o condomínio e todos os seus ativos?", yes); err != nil {
				return err
			}
			if err := app.Condominios.Delete(cmd.Context(), args[0]); err != nil {
				return notFoundAs(err, condominioNotFound)
			}
			fmt.Fprintln(app.Out, "Condomínio eliminado")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "não pedir confirmação")
	return cmd
}

func condominiosImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <ficheiro.xlsx>",
		Short: "Importar condomínios de uma folha de cálculo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := app.Client.Condominios().Import(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%d condomínios importados, %d linhas ignoradas\n", len(res.Created), res.Skipped)
			for _, c := range res.Created {
				fmt.Fprintf(app.Out, "  %s  %s\n", c.ID, c.Nome)
			}
			return nil
		},
	}
}

func condominiosTemplateCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Descarregar o modelo de importação",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			b, err := app.Client.Condominios().Template(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Modelo guardado em %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "condominios_template.xlsx", "ficheiro de destino")
	return cmd
}

func condominiosImageCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "imagem <id> <ficheiro>",
		Short: "Definir a imagem de um condomínio",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireUser(cmd.Context()); err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			c, err := app.Client.Condominios().UploadImage(cmd.Context(), args[0], filepath.Base(args[1]), f)
			if err != nil {
				return notFoundAs(err, condominioNotFound)
			}
			fmt.Fprintf(app.Out, "Imagem disponível em %s\n", c.ImageURL)
			return nil
		},
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"domly/pkg/forms"
)

func contactoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacto",
		Short: "Pedir informações ou agendar uma demonstração",
	}
	cmd.AddCommand(leadCmd(app), demoCmd(app))
	return cmd
}

func leadCmd(app *App) *cobra.Command {
	var data forms.LeadData
	cmd := &cobra.Command{
		Use:   "lead",
		Short: "Deixar o contacto para receber novidades",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := forms.NewLeadForm().Submit(cmd.Context(), data, func(ctx context.Context, d forms.LeadData) error {
				_, err := app.Client.Leads().Submit(ctx, d.Request())
				return err
			})
			if err != nil {
				return app.formError(err)
			}
			fmt.Fprintln(app.Out, "Obrigado! Entraremos em contacto em breve.")
			return nil
		},
	}
	cmd.Flags().StringVar(&data.Name, "name", "", "name")
	cmd.Flags().StringVar(&data.Email, "email", "", "email")
	return cmd
}

func demoCmd(app *App) *cobra.Command {
	var data forms.DemoBookingData
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Agendar uma demonstração",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := forms.NewDemoBookingForm().Submit(cmd.Context(), data, func(ctx context.Context, d forms.DemoBookingData) error {
				_, err := app.Client.Leads().BookDemo(ctx, d.Request())
				return err
			})
			if err != nil {
				return app.formError(err)
			}
			fmt.Fprintln(app.Out, "Pedido de demonstração recebido.")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&data.FirstName, "first-name", "", "first name")
	f.StringVar(&data.LastName, "last-name", "", "last name")
	f.StringVar(&data.Email, "email", "", "work email")
	f.StringVar(&data.CompanyName, "company", "", "company name")
	f.StringVar(&data.UnitsManaged, "units", "", "units managed, e.g. 50-100")
	f.StringSliceVar(&data.PropertyTypes, "property-types", nil, "property types (comma separated)")
	f.StringVar(&data.AIFeature, "ai-feature", "", "AI feature of most interest")
	return cmd
}

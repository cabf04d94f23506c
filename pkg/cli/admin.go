package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"domly/pkg/forms"
	"domly/pkg/users"
)

func adminCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Painel de administração (apenas administradores)",
	}
	cmd.AddCommand(adminUsersCmd(app), adminCreateCmd(app), adminDeleteCmd(app))
	return cmd
}

func adminUsersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "Listar utilizadores",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			list, err := app.Client.Admin().AllUsers(cmd.Context())
			if err != nil {
				return err
			}
			w := app.table()
			fmt.Fprintln(w, "ID\tEMAIL\tNOME\tEMPRESA\tROLE\tCRIADO")
			for _, u := range list {
				fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\t%s\n", u.ID, u.Email, u.PrimeiroNome, u.UltimoNome, u.Empresa, u.Role, u.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
}

func adminCreateCmd(app *App) *cobra.Command {
	var data forms.AdminUserData
	cmd := &cobra.Command{
		Use:     "create-admin",
		Aliases: []string{"create-user"},
		Short:   "Criar uma conta (administrador por omissão)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			var created users.User
			form := forms.NewAdminUserForm()
			form.Open(data)
			err := form.Submit(cmd.Context(), data, func(ctx context.Context, d forms.AdminUserData) error {
				var err error
				created, err = app.Client.Admin().CreateUser(ctx, d.Request())
				return err
			})
			if err != nil {
				return app.formError(err)
			}
			fmt.Fprintf(app.Out, "Conta %s criada com o papel %s\n", created.Email, created.Role)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&data.Email, "email", "", "email")
	f.StringVar(&data.Password, "password", "", "password (mínimo 6 caracteres)")
	f.StringVar(&data.Nome, "nome", "", "nome completo")
	f.StringVar(&data.Empresa, "empresa", "", "empresa")
	f.StringVar(&data.Role, "role", users.RoleAdmin, "admin ou user")
	return cmd
}

func adminDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-user <id>",
		Short: "Eliminar uma conta e todos os seus dados",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			if err := app.confirm("Eliminar a conta e todos os seus condomínios?", yes); err != nil {
				return err
			}
			if err := app.Client.Admin().DeleteUser(cmd.Context(), args[0]); err != nil {
				return notFoundAs(err, "utilizador não encontrado")
			}
			fmt.Fprintln(app.Out, "Conta eliminada")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "não pedir confirmação")
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/service"
)

var operatorsCmd = &cobra.Command{
	Use:   "operators",
	Short: "Manage platform operators",
}

// operatorsCreateCmd bootstraps operators straight against the database, without a session.
var operatorsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a platform operator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleOperatorCreate(cmd)
	},
}

func init() {
	operatorsCmd.AddCommand(operatorsCreateCmd)

	operatorsCreateCmd.Flags().StringP("email", "e", "", "operator email")
	operatorsCreateCmd.Flags().StringP("password", "p", "", "password (read from HUBCTL_PASSWORD or stdin when empty)")
	operatorsCreateCmd.Flags().StringP("name", "n", "", "full name")
	operatorsCreateCmd.Flags().StringP("role", "r", string(domain.OperatorRoleSuperAdmin), "super_admin, admin or support")
	_ = operatorsCreateCmd.MarkFlagRequired("email")
	_ = operatorsCreateCmd.MarkFlagRequired("name")
}

func handleOperatorCreate(cmd *cobra.Command) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	name, _ := cmd.Flags().GetString("name")
	role, _ := cmd.Flags().GetString("role")

	if password == "" {
		var err error
		if password, err = readPassword(cmd); err != nil {
			return handleError(err, cmd)
		}
	}

	ctx := cmd.Context()
	rt, err := connect(ctx)
	if err != nil {
		return handleError(err, cmd)
	}
	operator, err := rt.tenants.CreateOperator(ctx, service.AccountInput{
		Email:    email,
		Password: password,
		FullName: name,
	}, domain.OperatorRole(role))
	if err != nil {
		return handleError(err, cmd)
	}
	return renderOperator(cmd.OutOrStdout(), outputFormat(cmd), operator)
}

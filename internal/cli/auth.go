package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/booknow-hub/internal/session"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the platform console or a tenant",
}

var loginGlobalCmd = &cobra.Command{
	Use:   "global",
	Short: "Sign in as a platform operator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleLogin(cmd, "")
	},
}

var loginTenantCmd = &cobra.Command{
	Use:   "tenant <slug>",
	Short: "Sign in as staff of a tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleLogin(cmd, args[0])
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleLogout(cmd)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the cached session, then the one confirmed by the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleWhoami(cmd)
	},
}

func init() {
	loginCmd.AddCommand(loginGlobalCmd)
	loginCmd.AddCommand(loginTenantCmd)

	logoutCmd.Flags().Bool("all", false, "also end every other session of the account")

	for _, c := range []*cobra.Command{loginGlobalCmd, loginTenantCmd} {
		c.Flags().StringP("email", "e", "", "account email")
		c.Flags().StringP("password", "p", "", "password (read from HUBCTL_PASSWORD or stdin when empty)")
		_ = c.MarkFlagRequired("email")
	}
}

func handleLogin(cmd *cobra.Command, slug string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
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

	var state session.State
	if slug == "" {
		state, err = rt.authService.LoginGlobal(ctx, rt.store, email, password)
	} else {
		state, err = rt.authService.LoginTenant(ctx, rt.store, email, password, slug)
	}
	if err != nil {
		return handleError(err, cmd)
	}
	return renderState(cmd.OutOrStdout(), outputFormat(cmd), state)
}

func handleLogout(cmd *cobra.Command) error {
	ctx := cmd.Context()
	rt, err := connect(ctx)
	if err != nil {
		return handleError(err, cmd)
	}

	if err := rt.store.Restore(ctx); err != nil {
		appLogger.Debug("restore cached session", zap.Error(err))
	}
	userID := ""
	if p := rt.store.Snapshot().Projection; p != nil {
		userID = p.UserID
	}
	if all, _ := cmd.Flags().GetBool("all"); all && userID != "" {
		if err := rt.credentials.RevokeAll(ctx, userID); err != nil {
			return handleError(err, cmd)
		}
	}
	if err := rt.authService.Logout(ctx, rt.store, userID); err != nil {
		return handleError(err, cmd)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
	return err
}

func handleWhoami(cmd *cobra.Command) error {
	ctx := cmd.Context()
	rt, err := connect(ctx)
	if err != nil {
		return handleError(err, cmd)
	}
	out := cmd.OutOrStdout()
	format := outputFormat(cmd)

	if err := rt.store.Restore(ctx); err != nil {
		return handleError(err, cmd)
	}
	cached := rt.store.Snapshot()
	if format == formatText {
		fmt.Fprintln(out, "cached:")
	}
	if err := renderState(out, format, cached); err != nil {
		return err
	}

	var live session.State
	switch p := cached.Projection; {
	case p == nil:
		return nil
	case p.Mode == session.ModeTenant:
		live, err = rt.authService.HydrateTenant(ctx, rt.store, p.TenantSlug)
	default:
		live, err = rt.authService.HydrateGlobal(ctx, rt.store)
	}
	if err != nil {
		return handleError(err, cmd)
	}
	if format == formatText {
		fmt.Fprintln(out, "confirmed:")
	}
	return renderState(out, format, live)
}

func readPassword(cmd *cobra.Command) (string, error) {
	if pw := os.Getenv("HUBCTL_PASSWORD"); pw != "" {
		return pw, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", apperrors.NewValidationError("password required", nil)
	}
	return password, nil
}

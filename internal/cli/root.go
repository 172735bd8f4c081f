package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/booknow-hub/internal/config"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

var (
	cfg       *config.Config
	appLogger *zap.Logger
	rootCtx   context.Context
	hub       *runtime
)

// Execute runs hubctl with the given configuration.
func Execute(ctx context.Context, c *config.Config, logger *zap.Logger) error {
	rootCtx = ctx
	cfg = c
	appLogger = logger
	defer closeRuntime()

	return rootCmd.ExecuteContext(ctx)
}

var rootCmd = &cobra.Command{
	Use:   "hubctl",
	Short: "Book Now Hub operator console",
	Long: `hubctl signs operators and tenant staff in against the hub backend, keeps the
session under HUBCTL_STATE_DIR and runs schedule queries on behalf of the signed-in user.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", "text", "output format (text, json)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(operatorsCmd)
	rootCmd.AddCommand(scheduleCmd)
}

// handleError logs err and turns it into the user-facing message of its domain error.
func handleError(err error, cmd *cobra.Command) error {
	if err == nil {
		return nil
	}
	domainErr := apperrors.ToDomainError(err)

	if appLogger != nil {
		appLogger.Debug("command failed",
			zap.String("command", cmd.CommandPath()),
			zap.String("code", domainErr.Code),
			zap.Error(err))
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: interrupted", cmd.Name())
	}
	return fmt.Errorf("%s: %s", cmd.Name(), domainErr.Message)
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	return format
}

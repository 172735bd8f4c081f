package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/events"
	"github.com/spec-kit/booknow-hub/internal/service"
	"github.com/spec-kit/booknow-hub/internal/session"
	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Query and edit specialist schedules of a tenant",
}

var scheduleEffectiveCmd = &cobra.Command{
	Use:   "effective",
	Short: "Show the working hours of a specialist on one date",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleScheduleEffective(cmd)
	},
}

var scheduleApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a standard weekly template to a specialist",
	Long:  "Templates: " + strings.Join(service.StandardTemplateNames(), ", "),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleScheduleApply(cmd)
	},
}

var schedulerRoles = []domain.MemberRole{domain.MemberRoleOwner, domain.MemberRoleAdmin, domain.MemberRoleManager}

func init() {
	scheduleCmd.AddCommand(scheduleEffectiveCmd)
	scheduleCmd.AddCommand(scheduleApplyCmd)

	for _, c := range []*cobra.Command{scheduleEffectiveCmd, scheduleApplyCmd} {
		c.Flags().StringP("tenant", "t", "", "tenant slug")
		c.Flags().String("specialist", "", "specialist id")
		c.Flags().String("branch", "", "branch id")
		_ = c.MarkFlagRequired("tenant")
		_ = c.MarkFlagRequired("specialist")
		_ = c.MarkFlagRequired("branch")
	}
	scheduleEffectiveCmd.Flags().StringP("date", "d", "", "date as YYYY-MM-DD (default today)")
	scheduleApplyCmd.Flags().String("template", "fulltime", "standard template name")
}

func handleScheduleEffective(cmd *cobra.Command) error {
	slug, _ := cmd.Flags().GetString("tenant")
	specialistID, _ := cmd.Flags().GetString("specialist")
	branchID, _ := cmd.Flags().GetString("branch")
	rawDate, _ := cmd.Flags().GetString("date")

	date := domain.DateOnly(time.Now())
	if rawDate != "" {
		parsed, err := domain.ParseDate(rawDate)
		if err != nil {
			return handleError(apperrors.NewValidationError(err.Error(), nil), cmd)
		}
		date = parsed
	}

	ctx, rt, tc, err := tenantSession(cmd, slug)
	if err != nil {
		return handleError(err, cmd)
	}
	effective, err := rt.schedules.GetEffectiveSchedule(ctx, tc.Tenant.ID, specialistID, branchID, date)
	if err != nil {
		return handleError(err, cmd)
	}
	return renderEffective(cmd.OutOrStdout(), outputFormat(cmd), date, effective)
}

func handleScheduleApply(cmd *cobra.Command) error {
	slug, _ := cmd.Flags().GetString("tenant")
	specialistID, _ := cmd.Flags().GetString("specialist")
	branchID, _ := cmd.Flags().GetString("branch")
	template, _ := cmd.Flags().GetString("template")

	ctx, rt, tc, err := tenantSession(cmd, slug)
	if err != nil {
		return handleError(err, cmd)
	}
	if !slices.Contains(schedulerRoles, tc.Member.Role) {
		return handleError(apperrors.NewForbidden("insufficient member role"), cmd)
	}
	entries, err := rt.schedules.ApplyStandardSchedule(ctx, tc.Tenant.ID, specialistID, branchID, template)
	if err != nil {
		return handleError(err, cmd)
	}
	return renderWeekly(cmd.OutOrStdout(), outputFormat(cmd), entries)
}

// tenantSession re-resolves the stored session against slug and returns a context carrying the actor.
func tenantSession(cmd *cobra.Command, slug string) (context.Context, *runtime, *session.TenantContext, error) {
	ctx := cmd.Context()
	rt, err := connect(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	state, err := rt.authService.HydrateTenant(ctx, rt.store, slug)
	if err != nil {
		return nil, nil, nil, err
	}
	tc, ok := state.Context.(*session.TenantContext)
	if !ok {
		if _, err := rt.tenants.GetTenantBySlug(ctx, slug); err != nil {
			return nil, nil, nil, err
		}
		return nil, nil, nil, apperrors.NewUnauthorized(fmt.Sprintf("not signed in to %s, run: hubctl login tenant %s", slug, slug))
	}

	p := session.ProjectionOf(tc)
	ctx = events.WithActor(ctx, events.Actor{UserID: p.UserID, Mode: string(p.Mode), Role: p.Role})
	return ctx, rt, tc, nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spec-kit/booknow-hub/internal/domain"
	"github.com/spec-kit/booknow-hub/internal/session"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderState prints the projection of state. The live context wins over the cached projection.
func renderState(w io.Writer, format string, state session.State) error {
	p := state.Projection
	if state.Context != nil {
		p = session.ProjectionOf(state.Context)
	}

	if format == formatJSON {
		return writeJSON(w, struct {
			Phase   string              `json:"phase"`
			Session *session.Projection `json:"session"`
		}{Phase: state.Phase.String(), Session: p})
	}

	if p == nil {
		_, err := fmt.Fprintln(w, "  not signed in")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  mode\t%s\n", p.Mode)
	fmt.Fprintf(tw, "  user\t%s <%s>\n", p.FullName, p.Email)
	fmt.Fprintf(tw, "  role\t%s\n", p.Role)
	if p.Mode == session.ModeTenant {
		fmt.Fprintf(tw, "  tenant\t%s (%s)\n", p.TenantName, p.TenantSlug)
	}
	return tw.Flush()
}

func renderOperator(w io.Writer, format string, op *domain.GlobalOperator) error {
	if format == formatJSON {
		return writeJSON(w, map[string]any{
			"id":        op.ID,
			"user_id":   op.UserID,
			"email":     op.Email,
			"full_name": op.FullName,
			"role":      op.Role,
		})
	}
	_, err := fmt.Fprintf(w, "created operator %s <%s> as %s\n", op.FullName, op.Email, op.Role)
	return err
}

func renderEffective(w io.Writer, format string, date time.Time, s *domain.EffectiveSchedule) error {
	day := domain.WeekdayOf(date)
	if format == formatJSON {
		out := map[string]any{"date": date.Format(time.DateOnly), "day_of_week": int(day), "schedule": nil}
		if s != nil {
			out["schedule"] = map[string]any{
				"start":          s.Start,
				"end":            s.End,
				"break_start":    s.BreakStart,
				"break_end":      s.BreakEnd,
				"source":         s.Source,
				"exception_type": s.ExceptionType,
			}
		}
		return writeJSON(w, out)
	}

	if s == nil {
		_, err := fmt.Fprintf(w, "%s (%s): not working\n", date.Format(time.DateOnly), day)
		return err
	}
	line := fmt.Sprintf("%s (%s): %s-%s", date.Format(time.DateOnly), day, s.Start, s.End)
	if s.BreakStart != nil && s.BreakEnd != nil {
		line += fmt.Sprintf(", break %s-%s", *s.BreakStart, *s.BreakEnd)
	}
	line += " [" + string(s.Source)
	if s.ExceptionType != "" {
		line += ": " + string(s.ExceptionType)
	}
	_, err := fmt.Fprintln(w, line+"]")
	return err
}

func renderWeekly(w io.Writer, format string, entries []*domain.WeeklyScheduleEntry) error {
	if format == formatJSON {
		rows := make([]map[string]any, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, map[string]any{
				"day_of_week": int(e.DayOfWeek),
				"start_time":  e.StartTime,
				"end_time":    e.EndTime,
				"break_start": e.BreakStart,
				"break_end":   e.BreakEnd,
			})
		}
		return writeJSON(w, rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tHOURS\tBREAK")
	for _, e := range entries {
		brk := "-"
		if e.BreakStart != nil && e.BreakEnd != nil {
			brk = fmt.Sprintf("%s-%s", *e.BreakStart, *e.BreakEnd)
		}
		fmt.Fprintf(tw, "%s\t%s-%s\t%s\n", e.DayOfWeek, e.StartTime, e.EndTime, brk)
	}
	return tw.Flush()
}

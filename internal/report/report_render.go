package report

import (
	"fmt"
	"strings"
)

// renderDailyBody flattens a daily report into the plain-text body that
// goes out on the email channel.
func renderDailyBody(r DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily report for %s\n\n", r.Date)
	fmt.Fprintf(&b, "Tasks created: %d\n", r.TasksCreated)
	fmt.Fprintf(&b, "Tasks completed: %d (%.1f%%)\n", r.TasksCompleted, r.CompletionRate)
	fmt.Fprintf(&b, "Overdue tasks: %d\n\n", r.OverdueCount)

	att := r.TeamAttendance
	fmt.Fprintf(&b, "Attendance: %d of %d present (%.1f%%), %d on leave\n",
		att.Present, att.TotalEmployees, att.AttendanceRate, att.OnLeave)

	if len(r.Highlights) > 0 {
		b.WriteString("\nHighlights:\n")
		for _, h := range r.Highlights {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}
	return b.String()
}

func renderWeeklyBody(r WeeklyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Weekly report %s to %s\n\n", r.WeekStart, r.WeekEnd)

	st := r.Statistics
	fmt.Fprintf(&b, "Tasks created: %d\n", st.TotalCreated)
	fmt.Fprintf(&b, "Tasks completed: %d (%.1f%%), %d on time (%.1f%%)\n",
		st.Completed, st.CompletionRate, st.OnTime, st.OnTimeRate)
	fmt.Fprintf(&b, "Still in progress: %d, overdue: %d\n", st.InProgress, st.Overdue)
	fmt.Fprintf(&b, "Workload balance score: %.1f of 100\n", r.BalanceScore)

	if len(r.TopPerformers) > 0 {
		b.WriteString("\nTop performers:\n")
		for _, p := range r.TopPerformers {
			fmt.Fprintf(&b, "- %s: %d task(s), %d overdue, %.0f%% utilization\n",
				p.Name, p.AssignedTasks, p.OverdueTasks, p.Utilization)
		}
	}

	if len(r.Bottlenecks) > 0 {
		b.WriteString("\nBottlenecks:\n")
		for _, m := range r.Bottlenecks {
			fmt.Fprintf(&b, "- %s holds %d task(s) (%.0f%% of open work)\n",
				m.StageName, m.TaskCount, m.Ratio*100)
		}
	}
	return b.String()
}

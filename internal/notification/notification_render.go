package notification

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Muhannad-Khaled/Ailigent/internal/events"
)

// renderMessage turns an event payload into a plain-text subject and body
// for the email and telegram channels.
func renderMessage(eventType string, payload []byte) (subject, body string, err error) {
	switch eventType {
	case events.TypeTaskOverdue:
		var ev events.TaskOverdueEvent
		if err = json.Unmarshal(payload, &ev); err != nil {
			return "", "", err
		}
		subject = fmt.Sprintf("Overdue tasks for %s", ev.EmployeeName)
		body = renderTaskList(
			fmt.Sprintf("Hi %s, you have %d overdue task(s):", ev.EmployeeName, len(ev.Tasks)),
			ev.Tasks,
		)

	case events.TypeTaskEscalation:
		var ev events.TaskEscalationEvent
		if err = json.Unmarshal(payload, &ev); err != nil {
			return "", "", err
		}
		subject = fmt.Sprintf("Escalation: %s has long-overdue tasks", ev.EmployeeName)
		body = renderTaskList(
			fmt.Sprintf("%d task(s) assigned to %s have been overdue for several days:", len(ev.Tasks), ev.EmployeeName),
			ev.Tasks,
		)

	case events.TypeWorkloadAlert:
		var ev events.WorkloadAlertEvent
		if err = json.Unmarshal(payload, &ev); err != nil {
			return "", "", err
		}
		subject = fmt.Sprintf("Workload alert: %s at %.0f%%", ev.EmployeeName, ev.Utilization)
		body = fmt.Sprintf(
			"%s is %s at %.1f%% utilization across %d open task(s). Consider rebalancing assignments.",
			ev.EmployeeName, ev.Status, ev.Utilization, ev.OpenTasks,
		)

	case events.TypeReportReady:
		var ev events.ReportReadyEvent
		if err = json.Unmarshal(payload, &ev); err != nil {
			return "", "", err
		}
		subject = ev.Subject
		if subject == "" {
			subject = fmt.Sprintf("%s report %s - %s", ev.ReportType, ev.PeriodStart, ev.PeriodEnd)
		}
		body = ev.Body

	case events.TypeContractExpiring:
		var ev events.ContractExpiringEvent
		if err = json.Unmarshal(payload, &ev); err != nil {
			return "", "", err
		}
		subject = fmt.Sprintf("Contract expiring in %d day(s): %s", ev.DaysLeft, ev.EmployeeName)
		body = fmt.Sprintf(
			"Contract %q for %s ends on %s (%d day(s) left). Review it for renewal or termination.",
			ev.ContractName, ev.EmployeeName, ev.DateEnd, ev.DaysLeft,
		)

	case events.TypeInterviewReminder:
		var ev events.InterviewReminderEvent
		if err = json.Unmarshal(payload, &ev); err != nil {
			return "", "", err
		}
		subject = fmt.Sprintf("Interview reminder: %s", ev.ApplicantName)
		body = fmt.Sprintf(
			"%s\nApplicant: %s\nStarts: %s\nAttendees: %s",
			ev.Subject, ev.ApplicantName, ev.Start, strings.Join(ev.Attendees, ", "),
		)

	case events.TypeAttendanceAnomaly:
		var ev events.AttendanceAnomalyEvent
		if err = json.Unmarshal(payload, &ev); err != nil {
			return "", "", err
		}
		subject = fmt.Sprintf("Attendance anomaly (%s): %s", ev.Severity, ev.EmployeeName)
		body = fmt.Sprintf("%s on %s: %s", ev.AnomalyType, ev.Date, ev.Detail)

	case events.TypeAccountLinked:
		var ev events.AccountLinkedEvent
		if err = json.Unmarshal(payload, &ev); err != nil {
			return "", "", err
		}
		subject = fmt.Sprintf("Telegram account linked: %s", ev.EmployeeName)
		body = fmt.Sprintf(
			"Telegram user @%s (id %d) is now linked to employee %s.",
			ev.Username, ev.TelegramID, ev.EmployeeName,
		)

	default:
		return "", "", fmt.Errorf("unknown event type: %s", eventType)
	}

	return subject, body, nil
}

func renderTaskList(intro string, tasks []events.OverdueTask) string {
	var b strings.Builder
	b.WriteString(intro)
	for _, t := range tasks {
		b.WriteString(fmt.Sprintf("\n- %s (deadline %s, %d day(s) overdue)", t.Name, t.Deadline, t.DaysOverdue))
	}
	return b.String()
}

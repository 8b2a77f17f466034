// Package events defines the payloads that travel through the
// notification outbox and Kafka topic.
package events

// Topic carries every notification event. Consumers route by the
// event_type header and the EventType field inside the payload.
const Topic = "ailigent.notifications.v1"

const (
	TypeTaskOverdue       = "task.overdue"
	TypeTaskEscalation    = "task.escalation"
	TypeWorkloadAlert     = "workload.alert"
	TypeReportReady       = "report.ready"
	TypeContractExpiring  = "contract.expiring"
	TypeInterviewReminder = "interview.reminder"
	TypeAttendanceAnomaly = "attendance.anomaly"
	TypeAccountLinked     = "account.linked"
)

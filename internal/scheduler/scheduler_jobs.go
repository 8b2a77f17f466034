package scheduler

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/attendance"
	"github.com/Muhannad-Khaled/Ailigent/internal/config"
	"github.com/Muhannad-Khaled/Ailigent/internal/contract"
	"github.com/Muhannad-Khaled/Ailigent/internal/distribution"
	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
	"github.com/Muhannad-Khaled/Ailigent/internal/events"
	"github.com/Muhannad-Khaled/Ailigent/internal/notification"
	"github.com/Muhannad-Khaled/Ailigent/internal/recruitment"
	"github.com/Muhannad-Khaled/Ailigent/internal/report"
	"github.com/Muhannad-Khaled/Ailigent/internal/task"
)

const (
	escalationDays       = 3
	anomalyWindowDays    = 7
	contractScanDays     = 30
	interviewWindowHours = 24
)

// contractMilestones are the days-left values that produce an alert.
// The scan runs once a day, so each milestone fires exactly once.
var contractMilestones = map[int]bool{30: true, 14: true, 7: true}

// Deps bundles everything the periodic jobs touch.
type Deps struct {
	Tasks        task.Service
	Employees    employee.Service
	Reports      report.Service
	Distribution distribution.Service
	Attendance   attendance.Service
	Contracts    contract.Service
	Recruitment  recruitment.Service
	Outbox       notification.Enqueuer
}

type Jobs struct {
	tasks        task.Service
	employees    employee.Service
	reports      report.Service
	distribution distribution.Service
	attendance   attendance.Service
	contracts    contract.Service
	recruitment  recruitment.Service
	outbox       notification.Enqueuer
	logger       *zap.Logger
	now          func() time.Time
}

func NewJobs(d Deps, logger ...*zap.Logger) *Jobs {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Jobs{
		tasks:        d.Tasks,
		employees:    d.Employees,
		reports:      d.Reports,
		distribution: d.Distribution,
		attendance:   d.Attendance,
		contracts:    d.Contracts,
		recruitment:  d.Recruitment,
		outbox:       d.Outbox,
		logger:       l.Named("scheduler.jobs"),
		now:          time.Now,
	}
}

// RegisterAll wires every periodic job into the registry with the
// specs from configuration.
func (j *Jobs) RegisterAll(reg *Registry, cfg config.Scheduler) error {
	entries := []struct {
		id, name, spec string
		run            RunFunc
	}{
		{"overdue_monitor", "Overdue task monitor", cfg.OverdueSpec, j.OverdueMonitor},
		{"daily_report", "Daily report", cfg.DailyReportSpec, j.DailyReport},
		{"weekly_report", "Weekly report", cfg.WeeklyReportSpec, j.WeeklyReport},
		{"workload_balance", "Workload balance analysis", cfg.WorkloadSpec, j.WorkloadBalance},
		{"attendance_anomaly", "Attendance anomaly scan", cfg.AttendanceSpec, j.AttendanceAnomaly},
		{"contract_expiry", "Contract expiry alerts", cfg.ContractExpirySpec, j.ContractExpiry},
		{"interview_reminder", "Interview reminders", cfg.InterviewSpec, j.InterviewReminder},
	}
	for _, e := range entries {
		if err := reg.Register(e.id, e.name, e.spec, e.run); err != nil {
			return err
		}
	}
	return nil
}

// OverdueMonitor groups overdue tasks per assignee and notifies each
// one. Tasks more than escalationDays overdue are also escalated to
// the assignee's manager.
func (j *Jobs) OverdueMonitor(ctx context.Context) error {
	overdue, err := j.tasks.Overdue(ctx)
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		return nil
	}

	type group struct {
		tasks     []events.OverdueTask
		escalated []events.OverdueTask
	}
	groups := make(map[int64]*group)
	var order []int64
	skipped := 0
	for _, t := range overdue {
		if len(t.AssigneeIDs) == 0 {
			skipped++
			continue
		}
		item := events.OverdueTask{
			TaskID:      t.ID,
			Name:        t.Name,
			Deadline:    t.Deadline,
			DaysOverdue: t.DaysOverdue,
		}
		for _, userID := range t.AssigneeIDs {
			g, ok := groups[userID]
			if !ok {
				g = &group{}
				groups[userID] = g
				order = append(order, userID)
			}
			g.tasks = append(g.tasks, item)
			if t.DaysOverdue > escalationDays {
				g.escalated = append(g.escalated, item)
			}
		}
	}
	if skipped > 0 {
		j.logger.Debug("overdue tasks without assignee skipped", zap.Int("count", skipped))
	}

	// Task assignees are user accounts; notifications target the
	// employee behind each one.
	emps, err := j.employees.List(ctx, employee.ListEmployeesQuery{})
	if err != nil {
		return err
	}
	byUser := make(map[int64]employee.EmployeeResponse, len(emps))
	for _, emp := range emps {
		if emp.UserID > 0 {
			byUser[emp.UserID] = emp
		}
	}

	now := j.now().UTC()
	notified := 0
	for _, userID := range order {
		emp, ok := byUser[userID]
		if !ok {
			j.logger.Debug("assignee without employee record skipped", zap.Int64("user_id", userID))
			continue
		}
		g := groups[userID]
		event := events.TaskOverdueEvent{
			EventType:    events.TypeTaskOverdue,
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			Tasks:        g.tasks,
			OccurredAt:   now,
		}
		if err := j.outbox.Enqueue(ctx, nil, events.TypeTaskOverdue, notification.AggregateTask, formatID(emp.ID), event); err != nil {
			return err
		}
		notified++

		if len(g.escalated) == 0 {
			continue
		}
		if emp.ManagerID == 0 {
			j.logger.Debug("no manager to escalate to", zap.Int64("employee_id", emp.ID))
			continue
		}
		esc := events.TaskEscalationEvent{
			EventType:    events.TypeTaskEscalation,
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			ManagerID:    emp.ManagerID,
			ManagerName:  emp.ManagerName,
			Tasks:        g.escalated,
			OccurredAt:   now,
		}
		if err := j.outbox.Enqueue(ctx, nil, events.TypeTaskEscalation, notification.AggregateTask, formatID(emp.ID), esc); err != nil {
			return err
		}
	}

	j.logger.Info("overdue monitor finished",
		zap.Int("tasks", len(overdue)),
		zap.Int("assignees", notified),
	)
	return nil
}

func (j *Jobs) DailyReport(ctx context.Context) error {
	_, err := j.reports.Send(ctx, report.SendReportRequest{Type: report.TypeDaily})
	return err
}

func (j *Jobs) WeeklyReport(ctx context.Context) error {
	_, err := j.reports.Send(ctx, report.SendReportRequest{Type: report.TypeWeekly})
	return err
}

// WorkloadBalance runs the balance analysis (which persists snapshots)
// and raises an alert event per overloaded employee.
func (j *Jobs) WorkloadBalance(ctx context.Context) error {
	rep, err := j.distribution.WorkloadBalance(ctx)
	if err != nil {
		return err
	}

	now := j.now().UTC()
	for _, w := range rep.Overloaded {
		event := events.WorkloadAlertEvent{
			EventType:    events.TypeWorkloadAlert,
			EmployeeID:   w.EmployeeID,
			EmployeeName: w.Name,
			Utilization:  w.Utilization,
			Status:       w.Status,
			OpenTasks:    w.AssignedTasks,
			OccurredAt:   now,
		}
		if err := j.outbox.Enqueue(ctx, nil, events.TypeWorkloadAlert, notification.AggregateEmployee, formatID(w.EmployeeID), event); err != nil {
			return err
		}
	}
	if len(rep.Overloaded) > 0 {
		j.logger.Info("workload alerts enqueued", zap.Int("count", len(rep.Overloaded)))
	}
	return nil
}

// AttendanceAnomaly scans the recent window and raises events for the
// high-severity findings only.
func (j *Jobs) AttendanceAnomaly(ctx context.Context) error {
	anomalies, err := j.attendance.AnomalyReport(ctx, anomalyWindowDays)
	if err != nil {
		return err
	}

	now := j.now().UTC()
	high := 0
	for _, a := range anomalies {
		if a.Severity != attendance.SeverityHigh {
			continue
		}
		high++
		event := events.AttendanceAnomalyEvent{
			EventType:    events.TypeAttendanceAnomaly,
			EmployeeID:   a.EmployeeID,
			EmployeeName: a.EmployeeName,
			AnomalyType:  a.Type,
			Severity:     a.Severity,
			Detail:       a.Description,
			Date:         a.Date,
			OccurredAt:   now,
		}
		if err := j.outbox.Enqueue(ctx, nil, events.TypeAttendanceAnomaly, notification.AggregateEmployee, formatID(a.EmployeeID), event); err != nil {
			return err
		}
	}
	j.logger.Info("attendance anomaly scan finished",
		zap.Int("total", len(anomalies)),
		zap.Int("high", high),
	)
	return nil
}

func (j *Jobs) ContractExpiry(ctx context.Context) error {
	expiring, err := j.contracts.Expiring(ctx, contractScanDays)
	if err != nil {
		return err
	}

	now := j.now().UTC()
	alerted := 0
	for _, c := range expiring {
		if !contractMilestones[c.DaysLeft] {
			continue
		}
		alerted++
		event := events.ContractExpiringEvent{
			EventType:    events.TypeContractExpiring,
			ContractID:   c.ID,
			ContractName: c.Name,
			EmployeeID:   c.EmployeeID,
			EmployeeName: c.EmployeeName,
			DateEnd:      c.DateEnd,
			DaysLeft:     c.DaysLeft,
			OccurredAt:   now,
		}
		if err := j.outbox.Enqueue(ctx, nil, events.TypeContractExpiring, notification.AggregateContract, formatID(c.ID), event); err != nil {
			return err
		}
	}
	j.logger.Info("contract expiry scan finished",
		zap.Int("expiring", len(expiring)),
		zap.Int("alerted", alerted),
	)
	return nil
}

func (j *Jobs) InterviewReminder(ctx context.Context) error {
	interviews, err := j.recruitment.Upcoming(ctx, interviewWindowHours)
	if err != nil {
		return err
	}

	now := j.now().UTC()
	for _, iv := range interviews {
		event := events.InterviewReminderEvent{
			EventType:     events.TypeInterviewReminder,
			CalendarID:    iv.EventID,
			ApplicantName: iv.ApplicantName,
			Subject:       iv.Subject,
			Start:         iv.Start,
			Attendees:     iv.Attendees,
			OccurredAt:    now,
		}
		if err := j.outbox.Enqueue(ctx, nil, events.TypeInterviewReminder, notification.AggregateInterview, formatID(iv.EventID), event); err != nil {
			return err
		}
	}
	if len(interviews) > 0 {
		j.logger.Info("interview reminders enqueued", zap.Int("count", len(interviews)))
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

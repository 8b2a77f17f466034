package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	attendanceerrors "github.com/Muhannad-Khaled/Ailigent/internal/attendance/errors"
	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

// OvertimeHours is the daily worked-hours ceiling above which a record is
// flagged.
const OvertimeHours = 12.0

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	DailySummary(ctx context.Context, date time.Time, departmentID int64) (DailySummaryResponse, error)
	EmployeeMonth(ctx context.Context, employeeID int64, month, year int) (MonthlySummaryResponse, error)
	RecordsForAnalysis(ctx context.Context, days int) ([]Record, error)
	AnomalyReport(ctx context.Context, days int) ([]AnomalyResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) DailySummary(ctx context.Context, date time.Time, departmentID int64) (DailySummaryResponse, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	records, err := s.repo.RecordsBetween(ctx, dayStart, dayEnd, departmentID)
	if err != nil {
		s.logger.Error("daily summary records failed", zap.Error(err))
		return DailySummaryResponse{}, err
	}
	total, err := s.repo.ActiveEmployeeCount(ctx, departmentID)
	if err != nil {
		return DailySummaryResponse{}, err
	}
	onLeave, err := s.repo.OnLeaveCount(ctx, dayStart, departmentID)
	if err != nil {
		return DailySummaryResponse{}, err
	}

	present := map[int64]struct{}{}
	var hours float64
	for _, rec := range records {
		present[rec.Employee.ID] = struct{}{}
		hours += rec.WorkedHours
	}

	summary := DailySummaryResponse{
		Date:           dayStart.Format(odoo.DateLayout),
		TotalEmployees: int(total),
		Present:        len(present),
		OnLeave:        int(onLeave),
	}
	summary.Absent = summary.TotalEmployees - summary.Present - summary.OnLeave
	if summary.Absent < 0 {
		summary.Absent = 0
	}
	if summary.TotalEmployees > 0 {
		summary.AttendanceRate = round2(float64(summary.Present) / float64(summary.TotalEmployees) * 100)
	}
	if len(records) > 0 {
		summary.AvgWorkHours = round2(hours / float64(len(records)))
	}
	return summary, nil
}

func (s *service) EmployeeMonth(ctx context.Context, employeeID int64, month, year int) (MonthlySummaryResponse, error) {
	if employeeID <= 0 {
		return MonthlySummaryResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	if month < 1 || month > 12 {
		return MonthlySummaryResponse{}, attendanceerrors.ErrInvalidMonth
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	records, err := s.repo.RecordsForEmployee(ctx, employeeID, from, to)
	if err != nil {
		return MonthlySummaryResponse{}, err
	}

	days := map[string]struct{}{}
	var hours float64
	for _, rec := range records {
		days[rec.CheckIn.Format(odoo.DateLayout)] = struct{}{}
		hours += rec.WorkedHours
	}
	return MonthlySummaryResponse{
		EmployeeID: employeeID,
		Month:      month,
		Year:       year,
		TotalDays:  len(days),
		TotalHours: round2(hours),
	}, nil
}

func (s *service) RecordsForAnalysis(ctx context.Context, days int) ([]Record, error) {
	if days <= 0 {
		days = 7
	}
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -days)
	return s.repo.RecordsBetween(ctx, from, now, 0)
}

func (s *service) AnomalyReport(ctx context.Context, days int) ([]AnomalyResponse, error) {
	records, err := s.RecordsForAnalysis(ctx, days)
	if err != nil {
		return nil, err
	}
	return DetectAnomalies(records, time.Now().UTC()), nil
}

// DetectAnomalies applies the rule set over raw records: a session left open
// on a previous day is a medium finding, a day above OvertimeHours a high
// one.
func DetectAnomalies(records []Record, now time.Time) []AnomalyResponse {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	anomalies := []AnomalyResponse{}
	for _, rec := range records {
		day := rec.CheckIn.Format(odoo.DateLayout)

		if rec.Open() && rec.CheckIn.Before(today) {
			anomalies = append(anomalies, AnomalyResponse{
				EmployeeID:   rec.Employee.ID,
				EmployeeName: rec.Employee.Name,
				Type:         AnomalyMissingCheckout,
				Severity:     SeverityMedium,
				Description:  fmt.Sprintf("no checkout recorded for %s", day),
				Date:         day,
			})
		}

		if rec.WorkedHours > OvertimeHours {
			anomalies = append(anomalies, AnomalyResponse{
				EmployeeID:   rec.Employee.ID,
				EmployeeName: rec.Employee.Name,
				Type:         AnomalyExcessiveOvertime,
				Severity:     SeverityHigh,
				Description:  fmt.Sprintf("worked %.1f hours on %s", rec.WorkedHours, day),
				Date:         day,
			})
		}
	}
	return anomalies
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

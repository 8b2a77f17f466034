package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhannad-Khaled/Ailigent/internal/attendance"
	attendanceerrors "github.com/Muhannad-Khaled/Ailigent/internal/attendance/errors"
	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

type fakeAttendanceRepository struct {
	recordsBetweenFn      func(ctx context.Context, from, to time.Time, departmentID int64) ([]attendance.Record, error)
	recordsForEmployeeFn  func(ctx context.Context, employeeID int64, from, to time.Time) ([]attendance.Record, error)
	activeEmployeeCountFn func(ctx context.Context, departmentID int64) (int64, error)
	onLeaveCountFn        func(ctx context.Context, date time.Time, departmentID int64) (int64, error)
}

func (f *fakeAttendanceRepository) RecordsBetween(ctx context.Context, from, to time.Time, departmentID int64) ([]attendance.Record, error) {
	if f.recordsBetweenFn != nil {
		return f.recordsBetweenFn(ctx, from, to, departmentID)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) RecordsForEmployee(ctx context.Context, employeeID int64, from, to time.Time) ([]attendance.Record, error) {
	if f.recordsForEmployeeFn != nil {
		return f.recordsForEmployeeFn(ctx, employeeID, from, to)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) ActiveEmployeeCount(ctx context.Context, departmentID int64) (int64, error) {
	if f.activeEmployeeCountFn != nil {
		return f.activeEmployeeCountFn(ctx, departmentID)
	}
	return 0, nil
}

func (f *fakeAttendanceRepository) OnLeaveCount(ctx context.Context, date time.Time, departmentID int64) (int64, error) {
	if f.onLeaveCountFn != nil {
		return f.onLeaveCountFn(ctx, date, departmentID)
	}
	return 0, nil
}

func TestAttendanceService_DailySummary(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		svc := attendance.NewService(repo)

		repo.recordsBetweenFn = func(ctx context.Context, from, to time.Time, departmentID int64) ([]attendance.Record, error) {
			assert.Equal(t, day, from)
			assert.Equal(t, day.Add(24*time.Hour), to)
			return []attendance.Record{
				{Employee: odoo.Many2One{ID: 1, Name: "Amira"}, WorkedHours: 8},
				{Employee: odoo.Many2One{ID: 1, Name: "Amira"}, WorkedHours: 1},
				{Employee: odoo.Many2One{ID: 2, Name: "Omar"}, WorkedHours: 6},
			}, nil
		}
		repo.activeEmployeeCountFn = func(ctx context.Context, departmentID int64) (int64, error) {
			return 10, nil
		}
		repo.onLeaveCountFn = func(ctx context.Context, date time.Time, departmentID int64) (int64, error) {
			return 3, nil
		}

		summary, err := svc.DailySummary(ctx, day, 0)
		require.NoError(t, err)
		assert.Equal(t, "2026-08-24", summary.Date)
		assert.Equal(t, 10, summary.TotalEmployees)
		assert.Equal(t, 2, summary.Present)
		assert.Equal(t, 3, summary.OnLeave)
		assert.Equal(t, 5, summary.Absent)
		assert.Equal(t, 20.0, summary.AttendanceRate)
		assert.Equal(t, 5.0, summary.AvgWorkHours)
	})

	t.Run("absent floors at zero", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		svc := attendance.NewService(repo)

		repo.recordsBetweenFn = func(ctx context.Context, from, to time.Time, departmentID int64) ([]attendance.Record, error) {
			return []attendance.Record{
				{Employee: odoo.Many2One{ID: 1}, WorkedHours: 8},
				{Employee: odoo.Many2One{ID: 2}, WorkedHours: 8},
			}, nil
		}
		repo.activeEmployeeCountFn = func(ctx context.Context, departmentID int64) (int64, error) {
			return 2, nil
		}
		repo.onLeaveCountFn = func(ctx context.Context, date time.Time, departmentID int64) (int64, error) {
			return 1, nil
		}

		summary, err := svc.DailySummary(ctx, day, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.Absent)
	})
}

func TestAttendanceService_EmployeeMonth(t *testing.T) {
	ctx := context.Background()

	t.Run("success counts distinct days", func(t *testing.T) {
		repo := &fakeAttendanceRepository{}
		svc := attendance.NewService(repo)

		repo.recordsForEmployeeFn = func(ctx context.Context, employeeID int64, from, to time.Time) ([]attendance.Record, error) {
			assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), from)
			assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), to)
			return []attendance.Record{
				{CheckIn: time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC), WorkedHours: 8},
				{CheckIn: time.Date(2026, 8, 3, 18, 0, 0, 0, time.UTC), WorkedHours: 1.5},
				{CheckIn: time.Date(2026, 8, 4, 9, 0, 0, 0, time.UTC), WorkedHours: 7},
			}, nil
		}

		summary, err := svc.EmployeeMonth(ctx, 42, 8, 2026)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.TotalDays)
		assert.Equal(t, 16.5, summary.TotalHours)
	})

	t.Run("negative month out of range", func(t *testing.T) {
		svc := attendance.NewService(&fakeAttendanceRepository{})
		_, err := svc.EmployeeMonth(ctx, 42, 13, 2026)
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidMonth)
	})
}

func TestDetectAnomalies(t *testing.T) {
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	records := []attendance.Record{
		// Open session from yesterday: medium.
		{Employee: odoo.Many2One{ID: 1, Name: "Amira"}, CheckIn: time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)},
		// Open session from today: normal working state, no finding.
		{Employee: odoo.Many2One{ID: 2, Name: "Omar"}, CheckIn: time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)},
		// 13h day: high.
		{
			Employee:    odoo.Many2One{ID: 3, Name: "Sara"},
			CheckIn:     time.Date(2026, 8, 23, 8, 0, 0, 0, time.UTC),
			CheckOut:    time.Date(2026, 8, 23, 21, 0, 0, 0, time.UTC),
			WorkedHours: 13,
		},
		// Ordinary closed day: no finding.
		{
			Employee:    odoo.Many2One{ID: 4, Name: "Khaled"},
			CheckIn:     time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC),
			CheckOut:    time.Date(2026, 8, 23, 17, 0, 0, 0, time.UTC),
			WorkedHours: 8,
		},
	}

	anomalies := attendance.DetectAnomalies(records, now)
	require.Len(t, anomalies, 2)

	assert.Equal(t, attendance.AnomalyMissingCheckout, anomalies[0].Type)
	assert.Equal(t, attendance.SeverityMedium, anomalies[0].Severity)
	assert.Equal(t, int64(1), anomalies[0].EmployeeID)
	assert.Equal(t, "2026-08-24", anomalies[0].Date)

	assert.Equal(t, attendance.AnomalyExcessiveOvertime, anomalies[1].Type)
	assert.Equal(t, attendance.SeverityHigh, anomalies[1].Severity)
	assert.Equal(t, int64(3), anomalies[1].EmployeeID)
}

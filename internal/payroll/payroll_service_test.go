package payroll_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhannad-Khaled/Ailigent/internal/payroll"
	payrollerrors "github.com/Muhannad-Khaled/Ailigent/internal/payroll/errors"
)

type fakePayrollRepository struct {
	payslipsForFn func(ctx context.Context, employeeID int64, limit int) ([]payroll.Payslip, error)
	getByIDFn     func(ctx context.Context, id int64) (*payroll.Payslip, error)
	linesForFn    func(ctx context.Context, payslipID int64) ([]payroll.PayslipLine, error)
}

func (f *fakePayrollRepository) PayslipsFor(ctx context.Context, employeeID int64, limit int) ([]payroll.Payslip, error) {
	if f.payslipsForFn != nil {
		return f.payslipsForFn(ctx, employeeID, limit)
	}
	return nil, nil
}

func (f *fakePayrollRepository) GetByID(ctx context.Context, id int64) (*payroll.Payslip, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakePayrollRepository) LinesFor(ctx context.Context, payslipID int64) ([]payroll.PayslipLine, error) {
	if f.linesForFn != nil {
		return f.linesForFn(ctx, payslipID)
	}
	return nil, nil
}

func TestPayrollService_Payslips(t *testing.T) {
	ctx := context.Background()

	t.Run("success caps limit", func(t *testing.T) {
		repo := &fakePayrollRepository{}
		svc := payroll.NewService(repo)

		repo.payslipsForFn = func(ctx context.Context, employeeID int64, limit int) ([]payroll.Payslip, error) {
			assert.Equal(t, int64(42), employeeID)
			assert.Equal(t, payroll.DefaultLimit, limit)
			return []payroll.Payslip{{
				ID:       12,
				Name:     "Salary Slip - August 2026",
				DateFrom: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
				DateTo:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
				State:    "done",
				NetWage:  18500,
			}}, nil
		}

		resp, err := svc.Payslips(ctx, 42, 50)
		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "2026-08-01", resp[0].DateFrom)
		assert.Equal(t, 18500.0, resp[0].NetWage)
	})

	t.Run("negative invalid employee", func(t *testing.T) {
		svc := payroll.NewService(&fakePayrollRepository{})
		_, err := svc.Payslips(ctx, 0, 6)
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidEmployeeID)
	})
}

func TestPayrollService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success with lines", func(t *testing.T) {
		repo := &fakePayrollRepository{}
		svc := payroll.NewService(repo)

		repo.getByIDFn = func(ctx context.Context, id int64) (*payroll.Payslip, error) {
			return &payroll.Payslip{ID: 12, Name: "Salary Slip - August 2026", NetWage: 18500}, nil
		}
		repo.linesForFn = func(ctx context.Context, payslipID int64) ([]payroll.PayslipLine, error) {
			return []payroll.PayslipLine{
				{Name: "Basic Salary", Code: "BASIC", Total: 15000},
				{Name: "Net Salary", Code: "NET", Total: 18500},
			}, nil
		}

		detail, err := svc.GetByID(ctx, 12)
		require.NoError(t, err)
		assert.Equal(t, int64(12), detail.ID)
		require.Len(t, detail.Lines, 2)
		assert.Equal(t, "BASIC", detail.Lines[0].Code)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := payroll.NewService(&fakePayrollRepository{})
		_, err := svc.GetByID(ctx, 999)
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotFound)
	})
}

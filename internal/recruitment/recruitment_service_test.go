package recruitment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhannad-Khaled/Ailigent/internal/recruitment"
	recruitmenterrors "github.com/Muhannad-Khaled/Ailigent/internal/recruitment/errors"
)

type fakeRecruitmentRepository struct {
	interviewEventsFn func(ctx context.Context, from, to time.Time) ([]recruitment.Event, error)
	applicantNamesFn  func(ctx context.Context, ids []int64) (map[int64]string, error)
	partnerNamesFn    func(ctx context.Context, ids []int64) (map[int64]string, error)
}

func (f *fakeRecruitmentRepository) InterviewEvents(ctx context.Context, from, to time.Time) ([]recruitment.Event, error) {
	if f.interviewEventsFn != nil {
		return f.interviewEventsFn(ctx, from, to)
	}
	return nil, nil
}

func (f *fakeRecruitmentRepository) ApplicantNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if f.applicantNamesFn != nil {
		return f.applicantNamesFn(ctx, ids)
	}
	return map[int64]string{}, nil
}

func (f *fakeRecruitmentRepository) PartnerNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if f.partnerNamesFn != nil {
		return f.partnerNamesFn(ctx, ids)
	}
	return map[int64]string{}, nil
}

func TestRecruitmentService_Upcoming(t *testing.T) {
	ctx := context.Background()

	t.Run("success resolves names", func(t *testing.T) {
		repo := &fakeRecruitmentRepository{}
		svc := recruitment.NewService(repo)

		start := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
		repo.interviewEventsFn = func(ctx context.Context, from, to time.Time) ([]recruitment.Event, error) {
			assert.WithinDuration(t, time.Now().Add(recruitment.DefaultWindowHours*time.Hour), to, time.Minute)
			return []recruitment.Event{{
				ID:          100,
				Name:        "Interview: Sara Ali",
				Start:       start,
				Stop:        start.Add(time.Hour),
				ApplicantID: 9,
				PartnerIDs:  []int64{3, 4},
			}}, nil
		}
		repo.applicantNamesFn = func(ctx context.Context, ids []int64) (map[int64]string, error) {
			assert.Equal(t, []int64{9}, ids)
			return map[int64]string{9: "Sara Ali"}, nil
		}
		repo.partnerNamesFn = func(ctx context.Context, ids []int64) (map[int64]string, error) {
			assert.Equal(t, []int64{3, 4}, ids)
			return map[int64]string{3: "Mona Adel", 4: "Omar Farouk"}, nil
		}

		resp, err := svc.Upcoming(ctx, 0)
		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "Sara Ali", resp[0].ApplicantName)
		assert.Equal(t, "2026-08-26 10:00:00", resp[0].Start)
		assert.Equal(t, []string{"Mona Adel", "Omar Farouk"}, resp[0].Attendees)
	})

	t.Run("name resolution failure keeps events", func(t *testing.T) {
		repo := &fakeRecruitmentRepository{}
		svc := recruitment.NewService(repo)

		repo.interviewEventsFn = func(ctx context.Context, from, to time.Time) ([]recruitment.Event, error) {
			return []recruitment.Event{{ID: 100, Name: "Interview", ApplicantID: 9}}, nil
		}
		repo.applicantNamesFn = func(ctx context.Context, ids []int64) (map[int64]string, error) {
			return nil, assert.AnError
		}

		resp, err := svc.Upcoming(ctx, 24)
		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Empty(t, resp[0].ApplicantName)
	})

	t.Run("negative invalid window", func(t *testing.T) {
		svc := recruitment.NewService(&fakeRecruitmentRepository{})

		_, err := svc.Upcoming(ctx, -5)
		assert.ErrorIs(t, err, recruitmenterrors.ErrInvalidWindow)

		_, err = svc.Upcoming(ctx, recruitment.MaxWindowHours+1)
		assert.ErrorIs(t, err, recruitmenterrors.ErrInvalidWindow)
	})
}

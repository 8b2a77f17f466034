package recruitment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
	recruitmenterrors "github.com/Muhannad-Khaled/Ailigent/internal/recruitment/errors"
)

const (
	// DefaultWindowHours is how far ahead Upcoming looks when the caller
	// does not pick a window.
	DefaultWindowHours = 48
	MaxWindowHours     = 336
)

//go:generate mockgen -source=recruitment_service.go -destination=mock/recruitment_service_mock.go -package=mock
type Service interface {
	Upcoming(ctx context.Context, withinHours int) ([]InterviewResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("recruitment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("recruitment.service")
	}
	return &service{repo: repo, logger: l, now: time.Now}
}

func (s *service) Upcoming(ctx context.Context, withinHours int) ([]InterviewResponse, error) {
	if withinHours == 0 {
		withinHours = DefaultWindowHours
	}
	if withinHours < 0 || withinHours > MaxWindowHours {
		return nil, recruitmenterrors.ErrInvalidWindow
	}

	from := s.now()
	events, err := s.repo.InterviewEvents(ctx, from, from.Add(time.Duration(withinHours)*time.Hour))
	if err != nil {
		s.logger.Error("list interview events failed", zap.Int("within_hours", withinHours), zap.Error(err))
		return nil, err
	}
	if len(events) == 0 {
		return []InterviewResponse{}, nil
	}

	applicants, partners := collectIDs(events)

	applicantNames, err := s.repo.ApplicantNames(ctx, applicants)
	if err != nil {
		s.logger.Warn("resolve applicant names failed", zap.Error(err))
		applicantNames = map[int64]string{}
	}
	partnerNames, err := s.repo.PartnerNames(ctx, partners)
	if err != nil {
		s.logger.Warn("resolve attendee names failed", zap.Error(err))
		partnerNames = map[int64]string{}
	}

	resp := make([]InterviewResponse, len(events))
	for i, ev := range events {
		attendees := make([]string, 0, len(ev.PartnerIDs))
		for _, pid := range ev.PartnerIDs {
			if name, ok := partnerNames[pid]; ok && name != "" {
				attendees = append(attendees, name)
			}
		}
		resp[i] = InterviewResponse{
			EventID:       ev.ID,
			ApplicantID:   ev.ApplicantID,
			ApplicantName: applicantNames[ev.ApplicantID],
			Subject:       ev.Name,
			Start:         ev.Start.Format(odoo.DateTimeLayout),
			Stop:          ev.Stop.Format(odoo.DateTimeLayout),
			Attendees:     attendees,
		}
	}
	return resp, nil
}

func collectIDs(events []Event) (applicants, partners []int64) {
	seenApplicant := make(map[int64]bool)
	seenPartner := make(map[int64]bool)
	for _, ev := range events {
		if ev.ApplicantID > 0 && !seenApplicant[ev.ApplicantID] {
			seenApplicant[ev.ApplicantID] = true
			applicants = append(applicants, ev.ApplicantID)
		}
		for _, pid := range ev.PartnerIDs {
			if !seenPartner[pid] {
				seenPartner[pid] = true
				partners = append(partners, pid)
			}
		}
	}
	return applicants, partners
}

package telegram

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
	"github.com/Muhannad-Khaled/Ailigent/internal/events"
	"github.com/Muhannad-Khaled/Ailigent/internal/notification"
	telegramerrors "github.com/Muhannad-Khaled/Ailigent/internal/telegram/errors"
)

const (
	otpTTL         = 10 * time.Minute
	maxOTPAttempts = 3
)

// otpSession is what redis holds between sending the code and verifying
// it. Only the bcrypt hash of the code is stored.
type otpSession struct {
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Email        string `json:"email"`
	Hash         string `json:"hash"`
	Attempts     int    `json:"attempts"`
}

//go:generate mockgen -source=telegram_link_service.go -destination=mock/telegram_link_service_mock.go -package=mock
type LinkService interface {
	// LinkedEmployee returns the employee linked to a Telegram user, zero
	// when there is no link.
	LinkedEmployee(ctx context.Context, telegramID int64) (int64, error)
	// StartVerification resolves the email to exactly one employee, mails
	// a one-time code and opens a verification session.
	StartVerification(ctx context.Context, telegramID int64, email string) error
	// VerifyOTP checks the code, persists the link and returns the employee
	// name for the success reply.
	VerifyOTP(ctx context.Context, telegramID int64, username, code string) (string, error)
	CancelVerification(ctx context.Context, telegramID int64) error
	Unlink(ctx context.Context, telegramID int64) error
	ChatForEmployee(ctx context.Context, employeeID int64) (int64, error)
}

type linkService struct {
	repo      Repository
	employees employee.Service
	sessions  *redis.Client
	enqueue   notification.Enqueuer
	logger    *zap.Logger
	now       func() time.Time
}

func NewLinkService(
	repo Repository,
	employees employee.Service,
	sessions *redis.Client,
	enqueue notification.Enqueuer,
	logger ...*zap.Logger,
) LinkService {
	l := zap.L().Named("telegram.link")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("telegram.link")
	}
	return &linkService{
		repo:      repo,
		employees: employees,
		sessions:  sessions,
		enqueue:   enqueue,
		logger:    l,
		now:       time.Now,
	}
}

func (s *linkService) LinkedEmployee(ctx context.Context, telegramID int64) (int64, error) {
	employeeID, _, err := s.repo.Link(ctx, telegramID)
	return employeeID, err
}

func (s *linkService) StartVerification(ctx context.Context, telegramID int64, email string) error {
	emp, err := s.employees.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	session := otpSession{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Email:        emp.WorkEmail,
		Hash:         string(hash),
	}
	if err := s.saveSession(ctx, telegramID, session, otpTTL); err != nil {
		return err
	}

	if err := s.repo.SendOTPEmail(ctx, emp.WorkEmail, emp.Name, code); err != nil {
		s.logger.Error("send otp email failed",
			zap.Int64("telegram_id", telegramID),
			zap.Int64("employee_id", emp.ID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("otp issued",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("employee_id", emp.ID),
	)
	return nil
}

func (s *linkService) VerifyOTP(ctx context.Context, telegramID int64, username, code string) (string, error) {
	key := otpKey(telegramID)

	raw, err := s.sessions.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", telegramerrors.ErrOTPExpired
	}
	if err != nil {
		return "", err
	}

	var session otpSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.dropSession(ctx, telegramID)
		return "", telegramerrors.ErrOTPExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(session.Hash), []byte(strings.TrimSpace(code))) != nil {
		session.Attempts++
		if session.Attempts >= maxOTPAttempts {
			s.dropSession(ctx, telegramID)
			s.logger.Warn("otp attempts exhausted", zap.Int64("telegram_id", telegramID))
			return "", telegramerrors.ErrOTPExhausted
		}
		// Keep the original expiry; retries must not extend the window.
		if err := s.saveSession(ctx, telegramID, session, redis.KeepTTL); err != nil {
			return "", err
		}
		return "", telegramerrors.ErrOTPInvalid
	}

	if err := s.repo.SaveLink(ctx, telegramID, session.EmployeeID, username); err != nil {
		return "", err
	}
	s.dropSession(ctx, telegramID)

	event := events.AccountLinkedEvent{
		EventType:    events.TypeAccountLinked,
		TelegramID:   telegramID,
		Username:     username,
		EmployeeID:   session.EmployeeID,
		EmployeeName: session.EmployeeName,
		OccurredAt:   s.now().UTC(),
	}
	if err := s.enqueue.Enqueue(ctx, nil, events.TypeAccountLinked, notification.AggregateTelegram, strconv.FormatInt(telegramID, 10), event); err != nil {
		// The link itself is saved; the missed event is not worth failing
		// the user's verification over.
		s.logger.Warn("enqueue account.linked failed", zap.Error(err))
	}

	s.logger.Info("telegram account linked",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("employee_id", session.EmployeeID),
	)
	return session.EmployeeName, nil
}

func (s *linkService) CancelVerification(ctx context.Context, telegramID int64) error {
	return s.sessions.Del(ctx, otpKey(telegramID)).Err()
}

func (s *linkService) Unlink(ctx context.Context, telegramID int64) error {
	if err := s.repo.RemoveLink(ctx, telegramID); err != nil {
		return err
	}
	s.logger.Info("telegram account unlinked", zap.Int64("telegram_id", telegramID))
	return nil
}

func (s *linkService) ChatForEmployee(ctx context.Context, employeeID int64) (int64, error) {
	return s.repo.ChatForEmployee(ctx, employeeID)
}

func (s *linkService) saveSession(ctx context.Context, telegramID int64, session otpSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.sessions.Set(ctx, otpKey(telegramID), data, ttl).Err()
}

func (s *linkService) dropSession(ctx context.Context, telegramID int64) {
	if err := s.sessions.Del(ctx, otpKey(telegramID)).Err(); err != nil {
		s.logger.Warn("drop otp session failed",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err),
		)
	}
}

func otpKey(telegramID int64) string {
	return fmt.Sprintf("otp:%d", telegramID)
}

// generateOTP draws a 6-digit code from crypto/rand. The code itself never
// reaches a log line or a store; only its bcrypt hash does.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

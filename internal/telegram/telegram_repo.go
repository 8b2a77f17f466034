package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
)

const (
	// linkParamPrefix namespaces the ERP system parameters that map a
	// Telegram user to an employee. Value format: "{employee_id}|{username}".
	linkParamPrefix = "telegram_link_"

	otpMailFrom    = "noreply@ailigent.local"
	otpMailSubject = "Ailigent - Verification Code | رمز التحقق"
)

//go:generate mockgen -source=telegram_repo.go -destination=mock/telegram_repo_mock.go -package=mock
type Repository interface {
	SaveLink(ctx context.Context, telegramID, employeeID int64, username string) error
	// Link returns the linked employee and stored username, zero when the
	// user has no link.
	Link(ctx context.Context, telegramID int64) (int64, string, error)
	RemoveLink(ctx context.Context, telegramID int64) error
	// ChatForEmployee reverses the mapping, zero when the employee never
	// linked a chat.
	ChatForEmployee(ctx context.Context, employeeID int64) (int64, error)
	SendOTPEmail(ctx context.Context, email, name, code string) error
}

type odooRepository struct {
	client *odoo.Client
}

func NewRepository(client *odoo.Client) Repository {
	return &odooRepository{client: client}
}

func (r *odooRepository) SaveLink(ctx context.Context, telegramID, employeeID int64, username string) error {
	value := fmt.Sprintf("%d|%s", employeeID, username)
	return r.client.SetParam(ctx, linkKey(telegramID), value)
}

func (r *odooRepository) Link(ctx context.Context, telegramID int64) (int64, string, error) {
	value, err := r.client.GetParam(ctx, linkKey(telegramID))
	if err != nil {
		return 0, "", err
	}
	if value == "" {
		return 0, "", nil
	}
	return parseLinkValue(value)
}

func (r *odooRepository) RemoveLink(ctx context.Context, telegramID int64) error {
	return r.client.DeleteParam(ctx, linkKey(telegramID))
}

func (r *odooRepository) ChatForEmployee(ctx context.Context, employeeID int64) (int64, error) {
	domain := []any{
		[]any{"key", "like", linkParamPrefix},
		[]any{"value", "=like", fmt.Sprintf("%d|%%", employeeID)},
	}
	records, err := r.client.SearchRead(ctx, odoo.ModelConfigParameter, domain, []string{"key"}, &odoo.QueryOptions{Limit: 1})
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	key := records[0].Str("key")
	telegramID, err := strconv.ParseInt(strings.TrimPrefix(key, linkParamPrefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed link parameter key %q: %w", key, err)
	}
	return telegramID, nil
}

// SendOTPEmail delivers the verification code through the ERP's own
// outgoing mail queue: create the mail.mail record, then send it right
// away. auto_delete keeps codes out of the mail archive.
func (r *odooRepository) SendOTPEmail(ctx context.Context, email, name, code string) error {
	id, err := r.client.CreateRecord(ctx, odoo.ModelMail, map[string]any{
		"subject":     otpMailSubject,
		"body_html":   otpMailBody(name, code),
		"email_to":    email,
		"email_from":  otpMailFrom,
		"auto_delete": true,
	})
	if err != nil {
		return err
	}
	return r.client.CallMethod(ctx, odoo.ModelMail, "send", []int64{id}, nil)
}

func linkKey(telegramID int64) string {
	return fmt.Sprintf("%s%d", linkParamPrefix, telegramID)
}

func parseLinkValue(value string) (int64, string, error) {
	id, username, found := strings.Cut(value, "|")
	if !found {
		return 0, "", fmt.Errorf("malformed link parameter value %q", value)
	}
	employeeID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("malformed link parameter value %q: %w", value, err)
	}
	return employeeID, username, nil
}

func otpMailBody(name, code string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="text-align: center; margin-bottom: 24px;">
    <h1 style="color: #2563eb;">Ailigent</h1>
  </div>
  <div style="background: #f3f4f6; border-radius: 10px; padding: 24px; text-align: center;">
    <h2 style="color: #1f2937;">Hello %[1]s,</h2>
    <p style="color: #4b5563;">Your verification code for linking your Telegram account is:</p>
    <div style="background: #2563eb; color: white; font-size: 32px; font-weight: bold; letter-spacing: 8px; padding: 12px 28px; border-radius: 8px; display: inline-block;">%[2]s</div>
    <p style="color: #6b7280; font-size: 14px;">This code will expire in 10 minutes.</p>
  </div>
  <div style="background: #f3f4f6; border-radius: 10px; padding: 24px; text-align: center; direction: rtl; margin-top: 16px;">
    <h2 style="color: #1f2937;">مرحباً %[1]s،</h2>
    <p style="color: #4b5563;">رمز التحقق لربط حساب تيليجرام الخاص بك هو:</p>
    <div style="background: #2563eb; color: white; font-size: 32px; font-weight: bold; letter-spacing: 8px; padding: 12px 28px; border-radius: 8px; display: inline-block;">%[2]s</div>
    <p style="color: #6b7280; font-size: 14px;">سينتهي هذا الرمز خلال 10 دقائق.</p>
  </div>
  <p style="text-align: center; color: #9ca3af; font-size: 12px; margin-top: 24px;">If you did not request this code, please ignore this email.</p>
</div>`, name, code)
}

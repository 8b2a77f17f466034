package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/agent"
	"github.com/Muhannad-Khaled/Ailigent/internal/attendance"
	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
	employeeerrors "github.com/Muhannad-Khaled/Ailigent/internal/employee/errors"
	"github.com/Muhannad-Khaled/Ailigent/internal/leave"
	"github.com/Muhannad-Khaled/Ailigent/internal/payroll"
	"github.com/Muhannad-Khaled/Ailigent/internal/policy"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/langutil"
	"github.com/Muhannad-Khaled/Ailigent/internal/task"
	telegramerrors "github.com/Muhannad-Khaled/Ailigent/internal/telegram/errors"
)

const (
	payslipLimit = 3
	taskLimit    = 10
	policyLimit  = 10

	// pollRetryDelay spaces retries after a failed getUpdates call so a
	// broken network does not spin the loop.
	pollRetryDelay = 3 * time.Second
)

// API is what the bot needs from the Bot API client.
type API interface {
	SendMessage(ctx context.Context, out OutgoingMessage) error
	EditMessageText(ctx context.Context, chatID, messageID int64, text string) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error
	SetMyCommands(ctx context.Context, commands []BotCommand) error
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
}

// Assistant is the conversational backend for free-form questions and the
// daily summary.
type Assistant interface {
	Respond(ctx context.Context, userID int64, emp agent.EmployeeContext, message string) (string, error)
	GenerateDailySummary(ctx context.Context, day agent.DaySummary, lang string) (string, error)
	ClearSession(userID int64)
}

// BotServices bundles the domain services commands read from.
type BotServices struct {
	Employees  employee.Service
	Leaves     leave.Service
	Payslips   payroll.Service
	Attendance attendance.Service
	Tasks      task.Service
	Policies   policy.Repository
}

// Bot routes updates: commands, the linking dialog, unlink confirmations
// and free text for the agent.
type Bot struct {
	api         API
	conv        Conversation
	links       LinkService
	services    BotServices
	assistant   Assistant
	pollTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

func NewBot(
	api API,
	conv Conversation,
	links LinkService,
	services BotServices,
	assistant Assistant,
	pollTimeout time.Duration,
	logger ...*zap.Logger,
) *Bot {
	l := zap.L().Named("telegram.bot")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("telegram.bot")
	}
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	return &Bot{
		api:         api,
		conv:        conv,
		links:       links,
		services:    services,
		assistant:   assistant,
		pollTimeout: pollTimeout,
		logger:      l,
		now:         time.Now,
	}
}

// Run long-polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	if err := b.api.SetMyCommands(ctx, commandMenu()); err != nil {
		b.logger.Warn("set bot commands failed", zap.Error(err))
	}
	b.logger.Info("bot started")

	var offset int64
	for {
		updates, err := b.api.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				b.logger.Info("bot stopped")
				return
			}
			b.logger.Error("get updates failed", zap.Error(err))
			select {
			case <-ctx.Done():
				b.logger.Info("bot stopped")
				return
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			b.HandleUpdate(ctx, u)
		}
	}
}

// HandleUpdate dispatches one update. Handler errors become the generic
// failure reply so one broken command never kills the poll loop.
func (b *Bot) HandleUpdate(ctx context.Context, u Update) {
	switch {
	case u.CallbackQuery != nil:
		if err := b.handleCallback(ctx, *u.CallbackQuery); err != nil {
			b.logger.Error("callback failed",
				zap.String("data", u.CallbackQuery.Data),
				zap.Error(err),
			)
		}
	case u.Message != nil && u.Message.From != nil && u.Message.Text != "":
		m := *u.Message
		if err := b.handleMessage(ctx, m); err != nil {
			b.logger.Error("message failed",
				zap.Int64("telegram_id", m.From.ID),
				zap.Error(err),
			)
			b.reply(ctx, m.Chat.ID, msg("error", b.messageLanguage(m)))
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, m Message) error {
	lang := b.messageLanguage(m)

	if cmd, _ := parseCommand(m.Text); cmd != "" {
		return b.handleCommand(ctx, m, cmd, lang)
	}

	switch b.conv.State(ctx, m.From.ID) {
	case StateAwaitingEmail:
		return b.handleEmailInput(ctx, m, lang)
	case StateAwaitingOTP:
		return b.handleOTPInput(ctx, m, lang)
	default:
		return b.handleFreeText(ctx, m, lang)
	}
}

func (b *Bot) handleCommand(ctx context.Context, m Message, cmd, lang string) error {
	switch cmd {
	case "start":
		return b.startCommand(ctx, m, lang)
	case "help":
		return b.reply(ctx, m.Chat.ID, msg("help", lang))
	case "link":
		return b.linkCommand(ctx, m, lang)
	case "cancel":
		return b.cancelCommand(ctx, m, lang)
	case "unlink":
		return b.unlinkCommand(ctx, m, lang)
	case "leave":
		return b.leaveCommand(ctx, m, lang)
	case "payslip":
		return b.payslipCommand(ctx, m, lang)
	case "attendance":
		return b.attendanceCommand(ctx, m, lang)
	case "tasks":
		return b.tasksCommand(ctx, m, lang)
	case "summary":
		return b.summaryCommand(ctx, m, lang)
	case "policy":
		return b.policyCommand(ctx, m, lang)
	default:
		return b.reply(ctx, m.Chat.ID, msg("help", lang))
	}
}

func (b *Bot) startCommand(ctx context.Context, m Message, lang string) error {
	employeeID, err := b.links.LinkedEmployee(ctx, m.From.ID)
	if err != nil {
		return err
	}
	if employeeID == 0 {
		return b.reply(ctx, m.Chat.ID, msg("welcome", lang))
	}

	emp, err := b.services.Employees.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	return b.reply(ctx, m.Chat.ID, msgf("welcome_linked", lang, emp.Name))
}

func (b *Bot) linkCommand(ctx context.Context, m Message, lang string) error {
	employeeID, err := b.links.LinkedEmployee(ctx, m.From.ID)
	if err != nil {
		return err
	}
	if employeeID > 0 {
		return b.reply(ctx, m.Chat.ID, msg("link_already", lang))
	}

	if err := b.conv.SetState(ctx, m.From.ID, StateAwaitingEmail); err != nil {
		return err
	}
	return b.reply(ctx, m.Chat.ID, msg("link_start", lang))
}

func (b *Bot) cancelCommand(ctx context.Context, m Message, lang string) error {
	if err := b.conv.Clear(ctx, m.From.ID); err != nil {
		b.logger.Warn("clear conversation failed", zap.Error(err))
	}
	if err := b.links.CancelVerification(ctx, m.From.ID); err != nil {
		b.logger.Warn("cancel verification failed", zap.Error(err))
	}
	return b.reply(ctx, m.Chat.ID, msg("cancelled", lang))
}

func (b *Bot) unlinkCommand(ctx context.Context, m Message, lang string) error {
	employeeID, err := b.links.LinkedEmployee(ctx, m.From.ID)
	if err != nil {
		return err
	}
	if employeeID == 0 {
		return b.reply(ctx, m.Chat.ID, msg("not_linked", lang))
	}

	markup := &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{{
			{Text: "Yes / نعم", CallbackData: "unlink_yes"},
			{Text: "No / لا", CallbackData: "unlink_no"},
		}},
	}
	return b.api.SendMessage(ctx, OutgoingMessage{
		ChatID:      m.Chat.ID,
		Text:        msg("unlink_confirm", lang),
		ReplyMarkup: markup,
	})
}

func (b *Bot) handleCallback(ctx context.Context, q CallbackQuery) error {
	if err := b.api.AnswerCallbackQuery(ctx, q.ID); err != nil {
		b.logger.Warn("answer callback failed", zap.Error(err))
	}

	lang := langutil.English
	if strings.HasPrefix(q.From.LanguageCode, "ar") {
		lang = langutil.Arabic
	}

	var text string
	switch q.Data {
	case "unlink_yes":
		if err := b.links.Unlink(ctx, q.From.ID); err != nil {
			return err
		}
		b.assistant.ClearSession(q.From.ID)
		text = msg("unlink_success", lang)
	case "unlink_no":
		text = msg("cancelled", lang)
	default:
		return nil
	}

	if q.Message == nil {
		return nil
	}
	return b.api.EditMessageText(ctx, q.Message.Chat.ID, q.Message.MessageID, text)
}

func (b *Bot) handleEmailInput(ctx context.Context, m Message, lang string) error {
	err := b.links.StartVerification(ctx, m.From.ID, m.Text)
	if errors.Is(err, employeeerrors.ErrEmailNotFound) || errors.Is(err, employeeerrors.ErrAmbiguousEmail) {
		// Stay in awaiting_email so the user can retype.
		return b.reply(ctx, m.Chat.ID, msg("link_email_not_found", lang))
	}
	if err != nil {
		return err
	}

	if err := b.conv.SetState(ctx, m.From.ID, StateAwaitingOTP); err != nil {
		return err
	}
	return b.reply(ctx, m.Chat.ID, msg("link_otp_sent", lang))
}

func (b *Bot) handleOTPInput(ctx context.Context, m Message, lang string) error {
	name, err := b.links.VerifyOTP(ctx, m.From.ID, m.From.Username, m.Text)
	switch {
	case errors.Is(err, telegramerrors.ErrOTPInvalid):
		return b.reply(ctx, m.Chat.ID, msg("link_otp_invalid", lang))
	case errors.Is(err, telegramerrors.ErrOTPExpired), errors.Is(err, telegramerrors.ErrOTPExhausted):
		if clearErr := b.conv.Clear(ctx, m.From.ID); clearErr != nil {
			b.logger.Warn("clear conversation failed", zap.Error(clearErr))
		}
		return b.reply(ctx, m.Chat.ID, msg("link_otp_expired", lang))
	case err != nil:
		return err
	}

	if err := b.conv.Clear(ctx, m.From.ID); err != nil {
		b.logger.Warn("clear conversation failed", zap.Error(err))
	}
	return b.reply(ctx, m.Chat.ID, msgf("link_success", lang, name))
}

func (b *Bot) leaveCommand(ctx context.Context, m Message, lang string) error {
	employeeID, ok, err := b.requireLink(ctx, m, lang)
	if err != nil || !ok {
		return err
	}

	balances, err := b.services.Leaves.Balance(ctx, employeeID)
	if err != nil {
		return err
	}
	if len(balances) == 0 {
		return b.reply(ctx, m.Chat.ID, msg("no_leave_balance", lang))
	}
	return b.reply(ctx, m.Chat.ID, formatLeaveBalances(balances, lang))
}

func (b *Bot) payslipCommand(ctx context.Context, m Message, lang string) error {
	employeeID, ok, err := b.requireLink(ctx, m, lang)
	if err != nil || !ok {
		return err
	}

	payslips, err := b.services.Payslips.Payslips(ctx, employeeID, payslipLimit)
	if err != nil {
		return err
	}
	if len(payslips) == 0 {
		return b.reply(ctx, m.Chat.ID, msg("no_payslips", lang))
	}
	return b.reply(ctx, m.Chat.ID, formatPayslips(payslips, lang))
}

func (b *Bot) attendanceCommand(ctx context.Context, m Message, lang string) error {
	employeeID, ok, err := b.requireLink(ctx, m, lang)
	if err != nil || !ok {
		return err
	}

	now := b.now()
	summary, err := b.services.Attendance.EmployeeMonth(ctx, employeeID, int(now.Month()), now.Year())
	if err != nil {
		return err
	}
	if summary.TotalDays == 0 {
		return b.reply(ctx, m.Chat.ID, msg("no_attendance", lang))
	}
	return b.reply(ctx, m.Chat.ID, formatAttendance(summary, lang))
}

func (b *Bot) tasksCommand(ctx context.Context, m Message, lang string) error {
	employeeID, ok, err := b.requireLink(ctx, m, lang)
	if err != nil || !ok {
		return err
	}

	tasks, err := b.services.Tasks.List(ctx, task.ListTasksQuery{EmployeeID: employeeID})
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return b.reply(ctx, m.Chat.ID, msg("no_tasks", lang))
	}
	if len(tasks) > taskLimit {
		tasks = tasks[:taskLimit]
	}
	return b.reply(ctx, m.Chat.ID, formatTasks(tasks, lang))
}

func (b *Bot) summaryCommand(ctx context.Context, m Message, lang string) error {
	employeeID, ok, err := b.requireLink(ctx, m, lang)
	if err != nil || !ok {
		return err
	}

	day, err := b.buildDaySummary(ctx, employeeID)
	if err != nil {
		return err
	}

	b.reply(ctx, m.Chat.ID, msg("summary_wait", lang))

	summary, err := b.assistant.GenerateDailySummary(ctx, day, lang)
	if err != nil {
		return err
	}
	return b.reply(ctx, m.Chat.ID, summary)
}

func (b *Bot) policyCommand(ctx context.Context, m Message, lang string) error {
	_, ok, err := b.requireLink(ctx, m, lang)
	if err != nil || !ok {
		return err
	}

	docs, err := b.services.Policies.List(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return b.reply(ctx, m.Chat.ID, msg("no_policies", lang))
	}
	if len(docs) > policyLimit {
		docs = docs[:policyLimit]
	}
	return b.reply(ctx, m.Chat.ID, formatPolicies(docs, lang))
}

func (b *Bot) handleFreeText(ctx context.Context, m Message, lang string) error {
	employeeID, ok, err := b.requireLink(ctx, m, lang)
	if err != nil || !ok {
		return err
	}

	emp, err := b.services.Employees.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}

	answer, err := b.assistant.Respond(ctx, m.From.ID, agent.EmployeeContext{
		EmployeeID: emp.ID,
		Name:       emp.Name,
		Department: emp.DepartmentName,
		JobTitle:   emp.JobTitle,
	}, m.Text)
	if err != nil {
		return err
	}
	return b.reply(ctx, m.Chat.ID, answer)
}

// buildDaySummary gathers the employee's month attendance, task counts and
// first leave balance for the agent to narrate.
func (b *Bot) buildDaySummary(ctx context.Context, employeeID int64) (agent.DaySummary, error) {
	emp, err := b.services.Employees.GetByID(ctx, employeeID)
	if err != nil {
		return agent.DaySummary{}, err
	}

	now := b.now()
	month, err := b.services.Attendance.EmployeeMonth(ctx, employeeID, int(now.Month()), now.Year())
	if err != nil {
		return agent.DaySummary{}, err
	}

	tasks, err := b.services.Tasks.List(ctx, task.ListTasksQuery{EmployeeID: employeeID})
	if err != nil {
		return agent.DaySummary{}, err
	}
	stages, err := b.services.Tasks.Stages(ctx)
	if err != nil {
		return agent.DaySummary{}, err
	}
	folded := make(map[int64]bool, len(stages))
	for _, s := range stages {
		folded[s.ID] = s.Fold
	}

	day := agent.DaySummary{
		Name:         emp.Name,
		Department:   emp.DepartmentName,
		WorkedDays:   month.TotalDays,
		WorkedHours:  month.TotalHours,
		LeaveBalance: "N/A",
	}
	for _, t := range tasks {
		if folded[t.StageID] {
			day.CompletedTasks++
		} else {
			day.PendingTasks++
		}
	}

	balances, err := b.services.Leaves.Balance(ctx, employeeID)
	if err != nil {
		return agent.DaySummary{}, err
	}
	if len(balances) > 0 {
		day.LeaveBalance = fmt.Sprintf("%.1f days", balances[0].Remaining)
	}
	return day, nil
}

func (b *Bot) requireLink(ctx context.Context, m Message, lang string) (int64, bool, error) {
	employeeID, err := b.links.LinkedEmployee(ctx, m.From.ID)
	if err != nil {
		return 0, false, err
	}
	if employeeID == 0 {
		return 0, false, b.reply(ctx, m.Chat.ID, msg("not_linked", lang))
	}
	return employeeID, true, nil
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) error {
	err := b.api.SendMessage(ctx, OutgoingMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: ParseModeMarkdown,
	})
	if err != nil {
		b.logger.Error("send message failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	return err
}

// messageLanguage prefers what the user typed; the Telegram client locale
// only decides when the text carries no Arabic.
func (b *Bot) messageLanguage(m Message) string {
	if langutil.Detect(m.Text) == langutil.Arabic {
		return langutil.Arabic
	}
	if m.From != nil && strings.HasPrefix(m.From.LanguageCode, "ar") {
		return langutil.Arabic
	}
	return langutil.English
}

// parseCommand splits "/cmd@bot args" into the lowercase command name and
// its arguments, empty command for plain text.
func parseCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	rest := strings.TrimPrefix(text, "/")
	cmd := rest
	args := ""
	if i := strings.IndexAny(rest, " \n"); i >= 0 {
		cmd = rest[:i]
		args = strings.TrimSpace(rest[i+1:])
	}
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), args
}

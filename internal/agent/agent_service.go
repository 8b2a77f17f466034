package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/Muhannad-Khaled/Ailigent/internal/config"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/langutil"
)

// maxToolIterations bounds one turn's generate/tool round trips so a model
// stuck in a call loop cannot burn tokens forever.
const maxToolIterations = 5

// generator is the one genai call the agent makes, pulled out so tests can
// script model turns.
type generator interface {
	generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiGenerator struct {
	client *genai.Client
}

func (g *geminiGenerator) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.client.Models.GenerateContent(ctx, model, contents, cfg)
}

// Agent answers free-form employee questions through Gemini function
// calling, with a sliding conversation window per Telegram user.
type Agent struct {
	client      *genai.Client
	gen         generator
	model       string
	temperature float32
	maxTokens   int32
	tools       *Toolset
	memory      *memory
	logger      *zap.Logger
	now         func() time.Time
}

func New(ctx context.Context, cfg config.Gemini, tools *Toolset, logger ...*zap.Logger) (*Agent, error) {
	l := zap.L().Named("agent.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("agent.service")
	}

	if cfg.APIKey == "" {
		return nil, errors.New("agent: GOOGLE_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("agent: create genai client: %w", err)
	}

	return &Agent{
		client:      client,
		gen:         &geminiGenerator{client: client},
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxOutputTokens,
		tools:       tools,
		memory:      newMemory(),
		logger:      l,
		now:         time.Now,
	}, nil
}

// Respond answers one user message. Model and tool failures come back as a
// polite text in the user's language rather than an error; the bot should
// never show a stack trace to an employee.
func (a *Agent) Respond(ctx context.Context, userID int64, emp EmployeeContext, message string) (string, error) {
	lang := langutil.Detect(message)

	contents := historyContents(a.memory.History(userID))
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt(emp, lang), genai.RoleUser),
		Temperature:       genai.Ptr(a.temperature),
		MaxOutputTokens:   a.maxTokens,
		Tools: []*genai.Tool{
			{FunctionDeclarations: a.tools.declarations()},
		},
	}

	for i := 0; i < maxToolIterations; i++ {
		resp, err := a.gen.generate(ctx, a.model, contents, cfg)
		if err != nil {
			a.logger.Error("generate failed",
				zap.Int64("telegram_id", userID),
				zap.Error(err),
			)
			return failureMessage(lang), nil
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			answer := strings.TrimSpace(resp.Text())
			if answer == "" {
				return failureMessage(lang), nil
			}
			a.memory.Append(userID, message, answer)
			return answer, nil
		}

		// Echo the model's call turn back, then answer every call.
		if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
			contents = append(contents, resp.Candidates[0].Content)
		}
		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			result := a.tools.Dispatch(ctx, emp, call)
			parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, result))
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	a.logger.Warn("tool iteration budget exhausted", zap.Int64("telegram_id", userID))
	return failureMessage(lang), nil
}

// GenerateDailySummary narrates the day's numbers. No tools; the caller
// already gathered the data.
func (a *Agent) GenerateDailySummary(ctx context.Context, day DaySummary, lang string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(a.temperature),
		MaxOutputTokens: a.maxTokens,
	}
	contents := []*genai.Content{
		genai.NewContentFromText(summaryPrompt(day, lang, a.now()), genai.RoleUser),
	}

	resp, err := a.gen.generate(ctx, a.model, contents, cfg)
	if err != nil {
		a.logger.Error("daily summary failed", zap.Error(err))
		return failureMessage(lang), nil
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return failureMessage(lang), nil
	}
	return text, nil
}

// ExtractTasks pulls actionable tasks out of free text, meeting notes and
// the like. Unlike Respond, transport errors surface to the caller.
func (a *Agent) ExtractTasks(ctx context.Context, text string) ([]ExtractedTask, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(a.temperature),
		MaxOutputTokens: a.maxTokens,
	}
	contents := []*genai.Content{
		genai.NewContentFromText(extractPrompt(text), genai.RoleUser),
	}

	resp, err := a.gen.generate(ctx, a.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("agent: extract tasks: %w", err)
	}
	return parseExtractedTasks(resp.Text())
}

// Catalog exposes the toolset for the inspection endpoint.
func (a *Agent) Catalog() []ToolInfo {
	return a.tools.Catalog()
}

// ClearSession drops a user's conversation window, for unlink and /cancel.
func (a *Agent) ClearSession(userID int64) {
	a.memory.Clear(userID)
}

func (a *Agent) Close() error {
	// genai.Client is HTTP-based and exposes no Close; nothing to release.
	return nil
}

func historyContents(history []Exchange) []*genai.Content {
	contents := make([]*genai.Content, 0, 2*len(history)+2)
	for _, ex := range history {
		contents = append(contents, genai.NewContentFromText(ex.User, genai.RoleUser))
		contents = append(contents, genai.NewContentFromText(ex.Model, genai.RoleModel))
	}
	return contents
}

// parseExtractedTasks tolerates the fenced code block models wrap JSON in
// despite instructions.
func parseExtractedTasks(raw string) ([]ExtractedTask, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil, nil
	}

	var tasks []ExtractedTask
	if err := json.Unmarshal([]byte(cleaned), &tasks); err != nil {
		return nil, fmt.Errorf("agent: parse extracted tasks: %w", err)
	}
	return tasks, nil
}

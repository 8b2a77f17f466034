package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/Muhannad-Khaled/Ailigent/internal/attendance"
	"github.com/Muhannad-Khaled/Ailigent/internal/employee"
	"github.com/Muhannad-Khaled/Ailigent/internal/leave"
	"github.com/Muhannad-Khaled/Ailigent/internal/payroll"
	"github.com/Muhannad-Khaled/Ailigent/internal/policy"
	"github.com/Muhannad-Khaled/Ailigent/internal/task"
)

const (
	toolEmployeeInfo  = "get_employee_info"
	toolLeaveBalance  = "get_leave_balance"
	toolLeaveRequests = "get_leave_requests"
	toolPayslips      = "get_payslips"
	toolAttendance    = "get_attendance_summary"
	toolTasks         = "get_employee_tasks"
	toolCreateTask    = "create_task"
	toolPolicies      = "get_company_policies"
)

// Toolset executes the functions the model may call. Every lookup is pinned
// to the employee from the session context, whatever arguments the model
// produces.
type Toolset struct {
	employees  employee.Service
	leaves     leave.Service
	payslips   payroll.Service
	attendance attendance.Service
	tasks      task.Service
	policies   policy.Repository
	logger     *zap.Logger
	now        func() time.Time
}

func NewToolset(
	employees employee.Service,
	leaves leave.Service,
	payslips payroll.Service,
	attendanceSvc attendance.Service,
	tasks task.Service,
	policies policy.Repository,
	logger ...*zap.Logger,
) *Toolset {
	l := zap.L().Named("agent.tools")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("agent.tools")
	}
	return &Toolset{
		employees:  employees,
		leaves:     leaves,
		payslips:   payslips,
		attendance: attendanceSvc,
		tasks:      tasks,
		policies:   policies,
		logger:     l,
		now:        time.Now,
	}
}

func (t *Toolset) declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        toolEmployeeInfo,
			Description: "Get the current employee's profile: name, job title, department and manager.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		},
		{
			Name:        toolLeaveBalance,
			Description: "Get the employee's leave balances per leave type: allocated, taken and remaining days.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		},
		{
			Name:        toolLeaveRequests,
			Description: "List the employee's leave requests, optionally filtered by state.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"state": {
						Type:        genai.TypeString,
						Description: "Request state to filter by.",
						Enum:        []string{"draft", "confirm", "validate1", "validate", "refuse"},
					},
				},
			},
		},
		{
			Name:        toolPayslips,
			Description: "List the employee's most recent payslips with net amounts.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"limit": {
						Type:        genai.TypeInteger,
						Description: "How many payslips to return, newest first. Defaults to 6.",
					},
				},
			},
		},
		{
			Name:        toolAttendance,
			Description: "Get the employee's attendance summary for a month: worked days and hours.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"month": {
						Type:        genai.TypeInteger,
						Description: "Month 1-12. Defaults to the current month.",
					},
					"year": {
						Type:        genai.TypeInteger,
						Description: "Four digit year. Defaults to the current year.",
					},
				},
			},
		},
		{
			Name:        toolTasks,
			Description: "List the tasks currently assigned to the employee with stage and deadline.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		},
		{
			Name:        toolCreateTask,
			Description: "Create a task assigned to the employee. Use when the user asks to add a task or reminder.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {
						Type:        genai.TypeString,
						Description: "Short task title.",
					},
					"description": {
						Type:        genai.TypeString,
						Description: "Optional longer description.",
					},
					"due_date": {
						Type:        genai.TypeString,
						Description: "Optional deadline in YYYY-MM-DD format.",
					},
				},
				Required: []string{"name"},
			},
		},
		{
			Name:        toolPolicies,
			Description: "List company policy documents from the knowledge base.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		},
	}
}

// Catalog lists the available tools for the inspection endpoint.
func (t *Toolset) Catalog() []ToolInfo {
	decls := t.declarations()
	out := make([]ToolInfo, len(decls))
	for i, d := range decls {
		out[i] = ToolInfo{Name: d.Name, Description: d.Description}
	}
	return out
}

// Dispatch runs one function call and always produces a response payload.
// Failures are fed back to the model as an error field so it can apologize
// or retry instead of the whole turn dying.
func (t *Toolset) Dispatch(ctx context.Context, emp EmployeeContext, call *genai.FunctionCall) map[string]any {
	result, err := t.run(ctx, emp, call)
	if err != nil {
		t.logger.Warn("tool call failed",
			zap.String("tool", call.Name),
			zap.Int64("employee_id", emp.EmployeeID),
			zap.Error(err),
		)
		return map[string]any{"error": err.Error()}
	}
	return result
}

func (t *Toolset) run(ctx context.Context, emp EmployeeContext, call *genai.FunctionCall) (map[string]any, error) {
	args := call.Args

	switch call.Name {
	case toolEmployeeInfo:
		resp, err := t.employees.GetByID(ctx, emp.EmployeeID)
		if err != nil {
			return nil, err
		}
		return asMap(resp)

	case toolLeaveBalance:
		balances, err := t.leaves.Balance(ctx, emp.EmployeeID)
		if err != nil {
			return nil, err
		}
		return listPayload(balances)

	case toolLeaveRequests:
		requests, err := t.leaves.Requests(ctx, leave.ListLeavesQuery{
			EmployeeID: emp.EmployeeID,
			State:      argString(args, "state"),
		})
		if err != nil {
			return nil, err
		}
		return listPayload(requests)

	case toolPayslips:
		payslips, err := t.payslips.Payslips(ctx, emp.EmployeeID, argInt(args, "limit", payroll.DefaultLimit))
		if err != nil {
			return nil, err
		}
		return listPayload(payslips)

	case toolAttendance:
		now := t.now()
		summary, err := t.attendance.EmployeeMonth(ctx, emp.EmployeeID,
			argInt(args, "month", int(now.Month())),
			argInt(args, "year", now.Year()),
		)
		if err != nil {
			return nil, err
		}
		return asMap(summary)

	case toolTasks:
		tasks, err := t.tasks.List(ctx, task.ListTasksQuery{EmployeeID: emp.EmployeeID})
		if err != nil {
			return nil, err
		}
		return listPayload(tasks)

	case toolCreateTask:
		name := argString(args, "name")
		if name == "" {
			return nil, errors.New("name is required")
		}
		created, err := t.tasks.Create(ctx, task.CreateTaskRequest{
			Name:        name,
			Description: argString(args, "description"),
			Deadline:    argString(args, "due_date"),
			EmployeeID:  emp.EmployeeID,
		})
		if err != nil {
			return nil, err
		}
		return asMap(created)

	case toolPolicies:
		docs, err := t.policies.List(ctx)
		if err != nil {
			return nil, err
		}
		return listPayload(docs)

	default:
		return nil, fmt.Errorf("unknown tool %q", call.Name)
	}
}

// asMap flattens a response through JSON so the model sees the same field
// names the REST API exposes.
func asMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func listPayload(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	items := []any{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return map[string]any{"items": items, "count": len(items)}, nil
}

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func argInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

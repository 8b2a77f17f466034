package agent

// EmployeeContext pins a conversation to the linked employee. Every tool
// call runs against this ID, never one the model picks.
type EmployeeContext struct {
	EmployeeID int64
	Name       string
	Department string
	JobTitle   string
}

// DaySummary is the raw material GenerateDailySummary writes from.
type DaySummary struct {
	Name           string
	Department     string
	WorkedDays     int
	WorkedHours    float64
	CompletedTasks int
	PendingTasks   int
	LeaveBalance   string
}

// ExtractedTask is one action item pulled out of a conversation.
type ExtractedTask struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// ToolInfo describes a registered tool for the catalog endpoint.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ExtractTasksRequest struct {
	Text string `json:"text" binding:"required"`
}

package attendance

// Anomaly types and severities.
const (
	AnomalyMissingCheckout   = "missing_checkout"
	AnomalyExcessiveOvertime = "excessive_overtime"

	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

type DailySummaryResponse struct {
	Date           string  `json:"date"`
	TotalEmployees int     `json:"total_employees"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	OnLeave        int     `json:"on_leave"`
	AttendanceRate float64 `json:"attendance_rate"`
	AvgWorkHours   float64 `json:"avg_work_hours"`
}

type MonthlySummaryResponse struct {
	EmployeeID int64   `json:"employee_id"`
	Month      int     `json:"month"`
	Year       int     `json:"year"`
	TotalDays  int     `json:"total_days"`
	TotalHours float64 `json:"total_hours"`
}

type AnomalyResponse struct {
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Type         string `json:"type"`
	Severity     string `json:"severity"`
	Description  string `json:"description"`
	Date         string `json:"date"`
}

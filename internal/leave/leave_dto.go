package leave

type ListLeavesQuery struct {
	EmployeeID int64  `form:"employee_id" binding:"required"`
	State      string `form:"state" binding:"omitempty,oneof=draft confirm validate1 validate refuse"`
}

type CreateLeaveRequest struct {
	EmployeeID int64  `json:"employee_id" binding:"required"`
	TypeID     int64  `json:"leave_type_id" binding:"required"`
	DateFrom   string `json:"date_from" binding:"required"`
	DateTo     string `json:"date_to" binding:"required"`
	Reason     string `json:"reason"`
}

type BalanceResponse struct {
	LeaveType string  `json:"leave_type"`
	Allocated float64 `json:"allocated"`
	Taken     float64 `json:"taken"`
	Remaining float64 `json:"remaining"`
}

type RequestResponse struct {
	ID        int64   `json:"id"`
	LeaveType string  `json:"leave_type"`
	DateFrom  string  `json:"date_from"`
	DateTo    string  `json:"date_to"`
	Days      float64 `json:"days"`
	State     string  `json:"state"`
	Reason    string  `json:"reason,omitempty"`
}

type LeaveTypeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

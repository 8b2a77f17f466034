package contract

type ContractResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	EmployeeID   int64   `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	DateStart    string  `json:"date_start,omitempty"`
	DateEnd      string  `json:"date_end"`
	State        string  `json:"state"`
	Wage         float64 `json:"wage,omitempty"`
	DaysLeft     int     `json:"days_left"`
}

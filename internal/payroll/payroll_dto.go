package payroll

type ListPayslipsQuery struct {
	EmployeeID int64 `form:"employee_id" binding:"required"`
	Limit      int   `form:"limit"`
}

type PayslipResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	DateFrom  string  `json:"date_from"`
	DateTo    string  `json:"date_to"`
	State     string  `json:"state"`
	NetWage   float64 `json:"net_wage"`
	GrossWage float64 `json:"gross_wage"`
	BasicWage float64 `json:"basic_wage"`
}

type PayslipLineResponse struct {
	Name     string  `json:"name"`
	Code     string  `json:"code"`
	Category string  `json:"category,omitempty"`
	Total    float64 `json:"total"`
}

type PayslipDetailResponse struct {
	PayslipResponse
	Lines []PayslipLineResponse `json:"lines"`
}

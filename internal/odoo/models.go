package odoo

// Model names of every ERP record this module touches.
const (
	ModelEmployee        = "hr.employee"
	ModelDepartment      = "hr.department"
	ModelLeave           = "hr.leave"
	ModelLeaveType       = "hr.leave.type"
	ModelLeaveAllocation = "hr.leave.allocation"
	ModelPayslip         = "hr.payslip"
	ModelPayslipLine     = "hr.payslip.line"
	ModelAttendance      = "hr.attendance"
	ModelContract        = "hr.contract"
	ModelApplicant       = "hr.applicant"
	ModelTask            = "project.task"
	ModelTaskStage       = "project.task.type"
	ModelProject         = "project.project"
	ModelUser            = "res.users"
	ModelPartner         = "res.partner"
	ModelAttachment      = "ir.attachment"
	ModelConfigParameter = "ir.config_parameter"
	ModelMail            = "mail.mail"
	ModelCalendarEvent   = "calendar.event"
)

// Field sets requested per model. Keeping them in one place makes the RPC
// payloads predictable and the cache keys stable.
var (
	EmployeeFields = []string{
		"id", "name", "work_email", "job_title",
		"department_id", "parent_id", "user_id", "active",
	}

	TaskFields = []string{
		"id", "name", "description", "project_id", "stage_id",
		"priority", "date_deadline", "date_assign", "create_date",
		"user_ids", "planned_hours", "remaining_hours", "kanban_state",
	}

	StageFields = []string{"id", "name", "sequence", "fold"}

	LeaveFields = []string{
		"id", "holiday_status_id", "date_from", "date_to",
		"number_of_days", "state", "name",
	}

	AllocationFields = []string{
		"id", "holiday_status_id", "number_of_days", "state",
	}

	PayslipFields = []string{
		"id", "name", "date_from", "date_to", "state",
		"net_wage", "gross_wage", "basic_wage",
	}

	AttendanceFields = []string{
		"id", "employee_id", "check_in", "check_out", "worked_hours",
	}

	ContractFields = []string{
		"id", "name", "employee_id", "date_start", "date_end", "state", "wage",
	}

	CalendarEventFields = []string{
		"id", "name", "start", "stop", "partner_ids", "res_model", "res_id",
	}

	ApplicantFields = []string{
		"id", "partner_name", "email_from", "job_id", "stage_id",
	}

	AttachmentFields = []string{"id", "name", "description", "mimetype", "create_date"}

	DepartmentFields = []string{"id", "name", "manager_id", "member_ids"}
)

// Task priorities as Odoo stores them.
const (
	PriorityLow    = "0"
	PriorityNormal = "1"
	PriorityHigh   = "2"
	PriorityUrgent = "3"
)

// Leave and allocation states.
const (
	LeaveStateDraft     = "draft"
	LeaveStateConfirm   = "confirm"
	LeaveStateValidate1 = "validate1"
	LeaveStateValidate  = "validate"
	LeaveStateRefuse    = "refuse"
)

// Contract states.
const (
	ContractStateDraft = "draft"
	ContractStateOpen  = "open"
	ContractStateClose = "close"
)

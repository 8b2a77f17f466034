package attendance

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Muhannad-Khaled/Ailigent/internal/odoo"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
	"github.com/Muhannad-Khaled/Ailigent/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func queryDate(c *gin.Context) (time.Time, bool) {
	raw := c.DefaultQuery("date", time.Now().UTC().Format(odoo.DateLayout))
	date, err := time.Parse(odoo.DateLayout, raw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid date, expected YYYY-MM-DD", nil)
		return time.Time{}, false
	}
	return date, true
}

func (h *Handler) Summary(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}

	resp, err := h.service.DailySummary(c.Request.Context(), date, 0)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) EmployeeMonth(c *gin.Context) {
	employeeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || employeeID <= 0 {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid employee id", nil)
		return
	}

	now := time.Now().UTC()
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))

	resp, err := h.service.EmployeeMonth(c.Request.Context(), employeeID, month, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DepartmentSummary(c *gin.Context) {
	departmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || departmentID <= 0 {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid department id", nil)
		return
	}
	date, ok := queryDate(c)
	if !ok {
		return
	}

	resp, err := h.service.DailySummary(c.Request.Context(), date, departmentID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

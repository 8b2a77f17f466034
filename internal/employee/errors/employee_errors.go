package employeeerrors

import (
	"net/http"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmailNotFound = apperror.New(
		apperror.CodeNotFound,
		"no employee matches this email",
		http.StatusNotFound,
	)
	ErrAmbiguousEmail = apperror.New(
		apperror.CodeConflict,
		"email matches more than one employee",
		http.StatusConflict,
	)
	ErrNoUserAccount = apperror.New(
		apperror.CodeInvalidState,
		"employee has no linked user account",
		http.StatusBadRequest,
	)
)

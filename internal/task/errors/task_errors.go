package taskerrors

import (
	"net/http"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
)

var (
	ErrInvalidTaskID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid task id",
		http.StatusBadRequest,
	)
	ErrTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"task not found",
		http.StatusNotFound,
	)
	ErrInvalidDeadline = apperror.New(
		apperror.CodeInvalidInput,
		"invalid deadline, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidStage = apperror.New(
		apperror.CodeInvalidInput,
		"unknown task stage",
		http.StatusBadRequest,
	)
	ErrNothingToUpdate = apperror.New(
		apperror.CodeInvalidInput,
		"no fields to update",
		http.StatusBadRequest,
	)
	ErrAssigneeWithoutUser = apperror.New(
		apperror.CodeInvalidState,
		"employee has no user account and cannot hold tasks",
		http.StatusBadRequest,
	)
	ErrNoTerminalStage = apperror.New(
		apperror.CodeInvalidState,
		"project has no terminal stage to complete into",
		http.StatusConflict,
	)
)

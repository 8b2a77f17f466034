package distributionerrors

import (
	"net/http"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
)

var (
	ErrTaskNotFound = apperror.New(
		apperror.CodeNotFound,
		"task not found",
		http.StatusNotFound,
	)
	ErrNoCandidates = apperror.New(
		apperror.CodeInvalidState,
		"no assignable employees available",
		http.StatusConflict,
	)
)

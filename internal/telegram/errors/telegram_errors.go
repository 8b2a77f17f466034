package telegramerrors

import (
	"net/http"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
)

var (
	ErrOTPInvalid = apperror.New(
		apperror.CodeInvalidInput,
		"verification code is wrong",
		http.StatusBadRequest,
	)
	ErrOTPExpired = apperror.New(
		apperror.CodeInvalidState,
		"verification code expired",
		http.StatusGone,
	)
	ErrOTPExhausted = apperror.New(
		apperror.CodeInvalidState,
		"too many wrong verification attempts",
		http.StatusTooManyRequests,
	)
)

package voiceerrors

import (
	"net/http"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
)

var (
	ErrInvalidInput = apperror.New(
		apperror.CodeInvalidInput,
		"room and identity are required",
		http.StatusBadRequest,
	)
	ErrNotConfigured = apperror.New(
		apperror.CodeServiceUnavailable,
		"voice tokens are not configured",
		http.StatusServiceUnavailable,
	)
)

package schedulererrors

import (
	"net/http"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
)

var (
	ErrJobNotFound = apperror.New(
		apperror.CodeNotFound,
		"Scheduled job not found",
		http.StatusNotFound,
	)
	ErrJobRunning = apperror.New(
		apperror.CodeConflict,
		"Job is already running",
		http.StatusConflict,
	)
)

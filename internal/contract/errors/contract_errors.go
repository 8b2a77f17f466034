package contracterrors

import (
	"net/http"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
)

var ErrInvalidWindow = apperror.New(
	apperror.CodeInvalidInput,
	"days must be between 1 and 365",
	http.StatusBadRequest,
)

package recruitmenterrors

import (
	"net/http"

	"github.com/Muhannad-Khaled/Ailigent/internal/shared/apperror"
)

var ErrInvalidWindow = apperror.New(
	apperror.CodeInvalidInput,
	"hours must be between 1 and 336",
	http.StatusBadRequest,
)

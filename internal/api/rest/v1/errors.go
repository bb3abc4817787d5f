package v1

import (
	"errors"
	"net/http"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"

	"github.com/gin-gonic/gin"
)

// statusCode maps service errors to HTTP status codes.
// ErrDecodingFailed on a stored key means the password was wrong.
func statusCode(err error) int {
	switch {
	case errors.Is(err, keys.ErrKeyNotFound):
		return http.StatusNotFound
	case errors.Is(err, cryptoalg.ErrDecodingFailed):
		return http.StatusUnauthorized
	case errors.Is(err, cryptoalg.ErrUnsupportedAlgorithm),
		errors.Is(err, cryptoalg.ErrWrongMode),
		errors.Is(err, keys.ErrKeyTypeMismatch),
		errors.Is(err, keys.ErrPasswordRequired):
		return http.StatusBadRequest
	case errors.Is(err, cryptoalg.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondWithError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, ErrorResponse{Message: message})
}

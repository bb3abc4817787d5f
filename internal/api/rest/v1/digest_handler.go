package v1

import (
	"fmt"
	"net/http"

	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"

	"github.com/gin-gonic/gin"
)

// DigestHandler defines the interface for computing message digests
type DigestHandler interface {
	Compute(ctx *gin.Context)
}

type digestHandler struct {
	digestService keys.DigestService
}

// NewDigestHandler creates a new DigestHandler
func NewDigestHandler(digestService keys.DigestService) DigestHandler {
	return &digestHandler{digestService: digestService}
}

// Compute handles the POST request to hash data
// @Summary Compute a message digest
// @Tags Digest
// @Accept json
// @Produce json
// @Param requestBody body DigestRequest true "Algorithm and base64 data"
// @Success 200 {object} DigestResponse
// @Failure 400 {object} ErrorResponse
// @Router /digests [post]
func (handler *digestHandler) Compute(ctx *gin.Context) {
	var request DigestRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondWithError(ctx, http.StatusBadRequest, fmt.Sprintf("invalid digest data: %v", err))
		return
	}

	if err := request.Validate(); err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	digest, err := handler.digestService.Compute(ctx, request.Algorithm, request.Data)
	if err != nil {
		respondWithError(ctx, statusCode(err), fmt.Sprintf("error computing digest: %v", err))
		return
	}

	ctx.JSON(http.StatusOK, DigestResponse{Algorithm: request.Algorithm, Digest: digest})
}

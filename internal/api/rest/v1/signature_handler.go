package v1

import (
	"fmt"
	"net/http"

	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"

	"github.com/gin-gonic/gin"
)

// SignatureHandler defines the interface for signing and verifying data
type SignatureHandler interface {
	Sign(ctx *gin.Context)
	Verify(ctx *gin.Context)
}

type signatureHandler struct {
	signatureService keys.SignatureService
}

// NewSignatureHandler creates a new SignatureHandler
func NewSignatureHandler(signatureService keys.SignatureService) SignatureHandler {
	return &signatureHandler{signatureService: signatureService}
}

// Sign handles the POST request to sign data with a stored private key
// @Summary Sign data
// @Tags Signature
// @Accept json
// @Produce json
// @Param requestBody body SignRequest true "Private key ID, password and base64 data"
// @Success 200 {object} SignResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /signatures [post]
func (handler *signatureHandler) Sign(ctx *gin.Context) {
	var request SignRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondWithError(ctx, http.StatusBadRequest, fmt.Sprintf("invalid signature data: %v", err))
		return
	}

	if err := request.Validate(); err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	signature, err := handler.signatureService.Sign(ctx, request.KeyID, []byte(request.Password), request.Data)
	if err != nil {
		respondWithError(ctx, statusCode(err), fmt.Sprintf("error signing with key %s: %v", request.KeyID, err))
		return
	}

	ctx.JSON(http.StatusOK, SignResponse{KeyID: request.KeyID, Signature: signature})
}

// Verify handles the POST request to verify a signature
// @Summary Verify a signature
// @Description A private key ID is resolved to the public key of its pair.
// @Tags Signature
// @Accept json
// @Produce json
// @Param requestBody body VerifyRequest true "Key ID, base64 data and base64 signature"
// @Success 200 {object} VerifyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /signatures/verify [post]
func (handler *signatureHandler) Verify(ctx *gin.Context) {
	var request VerifyRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondWithError(ctx, http.StatusBadRequest, fmt.Sprintf("invalid signature data: %v", err))
		return
	}

	if err := request.Validate(); err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	valid, err := handler.signatureService.Verify(ctx, request.KeyID, request.Data, request.Signature)
	if err != nil {
		respondWithError(ctx, statusCode(err), fmt.Sprintf("error verifying with key %s: %v", request.KeyID, err))
		return
	}

	ctx.JSON(http.StatusOK, VerifyResponse{Valid: valid})
}

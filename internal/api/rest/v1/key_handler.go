package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MGTheTrain/crypto-facade/internal/domain/cryptoalg"
	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDHeader optionally names the caller owning generated keys
const UserIDHeader = "X-User-ID"

// KeyHandler defines the interface for handling key-related operations
type KeyHandler interface {
	Generate(ctx *gin.Context)
	Import(ctx *gin.Context)
	ListMetadata(ctx *gin.Context)
	GetMetadataByID(ctx *gin.Context)
	DownloadByID(ctx *gin.Context)
	ChangePassword(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
}

// KeyHandler struct holds the services
type keyHandler struct {
	keyPairService           keys.KeyPairService
	cryptoKeyMetadataService keys.CryptoKeyMetadataService
}

// NewKeyHandler creates a new KeyHandler
func NewKeyHandler(keyPairService keys.KeyPairService, cryptoKeyMetadataService keys.CryptoKeyMetadataService) KeyHandler {
	return &keyHandler{
		keyPairService:           keyPairService,
		cryptoKeyMetadataService: cryptoKeyMetadataService,
	}
}

// Generate handles the POST request to generate and store a key pair
// @Summary Generate a key pair
// @Description Generate a DSA, RSA, ECDSA or Ed25519 key pair. The private key is stored encrypted under the given password.
// @Tags Key
// @Accept json
// @Produce json
// @Param requestBody body GenerateKeyRequest true "Key algorithm and password"
// @Success 201 {array} CryptoKeyMetaResponse
// @Failure 400 {object} ErrorResponse
// @Router /keys [post]
func (handler *keyHandler) Generate(ctx *gin.Context) {
	var request GenerateKeyRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondWithError(ctx, http.StatusBadRequest, fmt.Sprintf("invalid key data: %v", err))
		return
	}

	if err := request.Validate(); err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	keyMetas, err := handler.keyPairService.Generate(ctx, userID(ctx), request.Algorithm, []byte(request.Password))
	if err != nil {
		respondWithError(ctx, statusCode(err), fmt.Sprintf("error generating key pair: %v", err))
		return
	}

	ctx.JSON(http.StatusCreated, newCryptoKeyMetaListResponse(keyMetas))
}

// Import handles the POST request to store an existing private key and its public half
// @Summary Import a private key PEM
// @Tags Key
// @Accept json
// @Produce json
// @Param requestBody body ImportKeyRequest true "Private key PEM and passwords"
// @Success 201 {array} CryptoKeyMetaResponse
// @Failure 400 {object} ErrorResponse
// @Router /keys/import [post]
func (handler *keyHandler) Import(ctx *gin.Context) {
	var request ImportKeyRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondWithError(ctx, http.StatusBadRequest, fmt.Sprintf("invalid key data: %v", err))
		return
	}

	if err := request.Validate(); err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	keyMetas, err := handler.keyPairService.Import(ctx, userID(ctx), request.PEM, []byte(request.PEMPassword), []byte(request.Password))
	if err != nil {
		status := statusCode(err)
		if errors.Is(err, cryptoalg.ErrDecodingFailed) {
			status = http.StatusBadRequest
		}
		respondWithError(ctx, status, fmt.Sprintf("error importing key: %v", err))
		return
	}

	ctx.JSON(http.StatusCreated, newCryptoKeyMetaListResponse(keyMetas))
}

// ListMetadata handles the GET request to list cryptographic key metadata with optional query parameters
// @Summary List cryptographic key metadata based on query parameters
// @Description Fetch a list of cryptographic key metadata based on filters like algorithm, type and creation date, with pagination and sorting options.
// @Tags Key
// @Accept json
// @Produce json
// @Param algorithm query string false "Key Algorithm"
// @Param type query string false "Key Type"
// @Param key_pair_id query string false "Key Pair ID"
// @Param date_time_created query string false "Key Creation Date (RFC3339)"
// @Param limit query int false "Limit the number of results"
// @Param offset query int false "Offset the results"
// @Param sort_by query string false "Sort by a specific field"
// @Param sort_order query string false "Sort order (asc/desc)"
// @Success 200 {array} CryptoKeyMetaResponse
// @Failure 400 {object} ErrorResponse
// @Router /keys [get]
func (handler *keyHandler) ListMetadata(ctx *gin.Context) {
	query := keys.NewCryptoKeyQuery()

	if err := ctx.ShouldBindQuery(query); err != nil {
		respondWithError(ctx, http.StatusBadRequest, fmt.Sprintf("invalid query: %v", err))
		return
	}

	if err := query.Validate(); err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	keyMetas, err := handler.cryptoKeyMetadataService.List(ctx, query)
	if err != nil {
		respondWithError(ctx, statusCode(err), fmt.Sprintf("list query failed: %v", err))
		return
	}

	ctx.JSON(http.StatusOK, newCryptoKeyMetaListResponse(keyMetas))
}

// GetMetadataByID handles the GET request to retrieve crypto key metadata by ID
// @Summary Retrieve crypto key metadata by ID
// @Tags Key
// @Produce json
// @Param id path string true "Key ID"
// @Success 200 {object} CryptoKeyMetaResponse
// @Failure 404 {object} ErrorResponse
// @Router /keys/{id} [get]
func (handler *keyHandler) GetMetadataByID(ctx *gin.Context) {
	keyID := ctx.Param("id")

	keyMeta, err := handler.cryptoKeyMetadataService.GetByID(ctx, keyID)
	if err != nil {
		respondWithError(ctx, statusCode(err), fmt.Sprintf("key with id %s not found", keyID))
		return
	}

	ctx.JSON(http.StatusOK, newCryptoKeyMetaResponse(keyMeta))
}

// DownloadByID handles GET request to download a public key by ID
// @Summary Download a public key by ID
// @Description Download a public key in PEM format. Private keys never leave the store.
// @Tags Key
// @Produce application/x-pem-file
// @Param id path string true "Key ID"
// @Success 200 {file} file "Public key in PEM format"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /keys/{id}/pem [get]
func (handler *keyHandler) DownloadByID(ctx *gin.Context) {
	keyID := ctx.Param("id")

	keyMeta, err := handler.cryptoKeyMetadataService.GetByID(ctx, keyID)
	if err != nil {
		respondWithError(ctx, statusCode(err), fmt.Sprintf("key with id %s not found", keyID))
		return
	}

	if keyMeta.Type != keys.KeyTypePublic {
		respondWithError(ctx, http.StatusForbidden, "download forbidden for private keys")
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-public-key.pem", keyID))
	ctx.Data(http.StatusOK, "application/x-pem-file", []byte(keyMeta.PEM))
}

// ChangePassword handles the PUT request to re-encrypt a stored private key
// @Summary Change the password of a private key
// @Tags Key
// @Accept json
// @Produce json
// @Param id path string true "Private Key ID"
// @Param requestBody body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} InfoResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /keys/{id}/password [put]
func (handler *keyHandler) ChangePassword(ctx *gin.Context) {
	keyID := ctx.Param("id")
	var request ChangePasswordRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondWithError(ctx, http.StatusBadRequest, fmt.Sprintf("invalid password data: %v", err))
		return
	}

	if err := request.Validate(); err != nil {
		respondWithError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.keyPairService.ChangePassword(ctx, keyID, []byte(request.OldPassword), []byte(request.NewPassword)); err != nil {
		respondWithError(ctx, statusCode(err), fmt.Sprintf("error changing password of key %s: %v", keyID, err))
		return
	}

	ctx.JSON(http.StatusOK, InfoResponse{Message: fmt.Sprintf("changed password of key %s", keyID)})
}

// DeleteByID handles the DELETE request to delete the key pair a key belongs to
// @Summary Delete a key pair by the ID of either half
// @Tags Key
// @Produce json
// @Param id path string true "Key ID"
// @Success 204 {object} InfoResponse
// @Failure 404 {object} ErrorResponse
// @Router /keys/{id} [delete]
func (handler *keyHandler) DeleteByID(ctx *gin.Context) {
	keyID := ctx.Param("id")

	if err := handler.cryptoKeyMetadataService.DeleteByKeyPairID(ctx, keyID); err != nil {
		respondWithError(ctx, statusCode(err), fmt.Sprintf("error deleting key with id %s", keyID))
		return
	}

	ctx.JSON(http.StatusNoContent, InfoResponse{Message: fmt.Sprintf("deleted key with id %s", keyID)})
}

// userID reads the caller from the X-User-ID header.
// TODO(MGTheTrain): extract user id from JWT
func userID(ctx *gin.Context) string {
	if id := ctx.GetHeader(UserIDHeader); id != "" {
		return id
	}
	return uuid.New().String()
}

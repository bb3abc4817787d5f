package v1

import (
	"github.com/MGTheTrain/crypto-facade/internal/domain/keys"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	keyPairService keys.KeyPairService,
	cryptoKeyMetadataService keys.CryptoKeyMetadataService,
	signatureService keys.SignatureService,
	digestService keys.DigestService) {

	v1 := r.Group(BasePath) // lookup in version file

	// Keys Routes
	keyHandler := NewKeyHandler(keyPairService, cryptoKeyMetadataService)
	v1.POST("/keys", keyHandler.Generate)
	v1.POST("/keys/import", keyHandler.Import)
	v1.GET("/keys", keyHandler.ListMetadata)
	v1.GET("/keys/:id", keyHandler.GetMetadataByID)
	v1.GET("/keys/:id/pem", keyHandler.DownloadByID)
	v1.PUT("/keys/:id/password", keyHandler.ChangePassword)
	v1.DELETE("/keys/:id", keyHandler.DeleteByID)

	// Signatures Routes
	signatureHandler := NewSignatureHandler(signatureService)
	v1.POST("/signatures", signatureHandler.Sign)
	v1.POST("/signatures/verify", signatureHandler.Verify)

	// Digests Routes
	digestHandler := NewDigestHandler(digestService)
	v1.POST("/digests", digestHandler.Compute)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tollgate/internal/keys"
)

// PublicKeyHandler handles GET /api/public-key. Only the public half is
// ever served; the response is the trust anchor a verifying application
// pins at build time.
func PublicKeyHandler(authority *keys.Authority) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"public_key": authority.PublicKeyHex(),
			"format":     "ed25519",
		})
	}
}

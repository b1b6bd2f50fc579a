package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tollgate/internal/ledger"
	"tollgate/internal/license"
	"tollgate/internal/models"
	"tollgate/internal/service"
	"tollgate/internal/store"
)

type issueTrialRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type revokeTrialRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// IssueTrialHandler handles POST /api/trial/issue
func IssueTrialHandler(issuer *license.Issuer, ttl time.Duration, events store.EventStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req issueTrialRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		signed, err := issuer.Issue(req.UserID, ttl)
		if err != nil {
			if errors.Is(err, license.ErrInvalidRequest) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			slog.Error("Failed to issue trial", "error", err, "user_id", req.UserID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue trial"})
			return
		}

		logEntry := &models.EventLog{
			Action:    models.ActionIssueTrial,
			UserID:    req.UserID,
			IPAddress: c.ClientIP(),
			Details: map[string]interface{}{
				"issued_at":  signed.Token.IssuedAt,
				"expires_at": signed.Token.ExpiresAt,
			},
			CreatedAt: time.Now(),
		}
		service.AsyncLogEvent(c.Request.Context(), events, logEntry)

		c.JSON(http.StatusOK, gin.H{
			"token":      string(signed.Encoded),
			"signature":  signed.SignatureHex(),
			"expires_at": signed.Token.ExpiresAt,
		})
	}
}

// CheckRevocationHandler handles GET /api/trial/check
func CheckRevocationHandler(ldgr ledger.Ledger, events store.EventStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUserID(c)
		if !ok {
			return
		}

		revoked, err := ldgr.IsRevoked(c.Request.Context(), userID)
		if err != nil {
			slog.Error("Failed to check revocation", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check revocation"})
			return
		}

		logEntry := &models.EventLog{
			Action:    models.ActionCheckTrial,
			UserID:    userID,
			IPAddress: c.ClientIP(),
			Details:   map[string]interface{}{"revoked": revoked},
			CreatedAt: time.Now(),
		}
		service.AsyncLogEvent(c.Request.Context(), events, logEntry)

		c.JSON(http.StatusOK, gin.H{"revoked": revoked})
	}
}

// RevokeTrialHandler handles POST /api/trial/revoke
func RevokeTrialHandler(ldgr ledger.Ledger, events store.EventStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req revokeTrialRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := ldgr.Revoke(c.Request.Context(), req.UserID); err != nil {
			slog.Error("Failed to revoke trial", "error", err, "user_id", req.UserID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke trial"})
			return
		}

		slog.Info("Trial revoked", "user_id", req.UserID)

		logEntry := &models.EventLog{
			Action:    models.ActionRevokeTrial,
			UserID:    req.UserID,
			IPAddress: c.ClientIP(),
			CreatedAt: time.Now(),
		}
		service.AsyncLogEvent(c.Request.Context(), events, logEntry)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func requireUserID(c *gin.Context) (string, bool) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id query parameter is required"})
		return "", false
	}
	return userID, true
}

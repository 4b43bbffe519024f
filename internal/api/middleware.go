package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// timestampSkew is the maximum allowed age of a signed request.
const timestampSkew = 120 * time.Second

// requestID tags every request with an ID for log correlation, honoring a
// caller-supplied X-Request-ID.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// requestLogger emits one structured line per request.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// signing verifies the service key, timestamp freshness, and the HMAC-SHA256
// body signature. An empty secret disables verification entirely; /health is
// always exempt.
func signing(serviceKey, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		if serviceKey == "" || c.GetHeader("X-Api-Key") != serviceKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		timestamp := c.GetHeader("X-Timestamp")
		if !freshTimestamp(timestamp, time.Now()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid timestamp"})
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !validSignature(body, c.GetHeader("X-Signature"), secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		c.Next()
	}
}

// freshTimestamp reports whether ts is a unix-seconds value within
// timestampSkew of now.
func freshTimestamp(ts string, now time.Time) bool {
	if ts == "" {
		return false
	}
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	diff := now.Unix() - sec
	if diff < 0 {
		diff = -diff
	}
	return diff <= int64(timestampSkew/time.Second)
}

// validSignature checks the hex HMAC-SHA256 of the raw body in constant time.
func validSignature(body []byte, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

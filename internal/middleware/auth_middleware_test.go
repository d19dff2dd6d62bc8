package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gym_club_backend/internal/models"
	"gym_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(tokens *utils.TokenManager, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", AuthMiddleware(tokens), RequireRoles(roles...), func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "role": actor.Role})
	})
	return engine
}

func doRequest(engine *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareRejectsMissingOrBadTokens(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	engine := newTestEngine(tokens)

	for _, header := range []string{"", "Token abc", "Bearer", "Bearer not-a-jwt"} {
		rec := doRequest(engine, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)

		var body utils.Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, utils.StatusError, body.Status)
		assert.Equal(t, utils.ErrCodeUnauthorized, body.Code)
	}
}

func TestAuthMiddlewareRejectsUnknownRole(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Generate(5, "x@gym.test", "OWNER")
	require.NoError(t, err)

	rec := doRequest(newTestEngine(tokens), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareSetsActor(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Generate(5, "member@gym.test", "MEMBER")
	require.NoError(t, err)

	rec := doRequest(newTestEngine(tokens), "bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		UserID int64  `json:"user_id"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(5), body.UserID)
	assert.Equal(t, "MEMBER", body.Role)
}

func TestRequireRoles(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	engine := newTestEngine(tokens, models.RoleTrainer, models.RoleAdmin)

	memberToken, err := tokens.Generate(5, "member@gym.test", "MEMBER")
	require.NoError(t, err)
	rec := doRequest(engine, "Bearer "+memberToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "TRAINER, ADMIN")

	adminToken, err := tokens.Generate(1, "admin@gym.test", "ADMIN")
	require.NoError(t, err)
	rec = doRequest(engine, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesWithoutAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := doRequest(engine, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireCallbackSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/callback", RequireCallbackSecret("hook-secret"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/callback", nil)
		if token != "" {
			req.Header.Set(CallbackTokenHeader, token)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send(""))
	assert.Equal(t, http.StatusUnauthorized, send("guess"))
	assert.Equal(t, http.StatusOK, send("hook-secret"))
}

func TestRequireCallbackSecretDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/callback", RequireCallbackSecret(""), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/callback", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

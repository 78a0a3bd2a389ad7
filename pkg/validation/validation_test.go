package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,username"`
	Role     string `json:"role" binding:"omitempty,oneof=student teacher"`
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	Init()
	router := gin.New()
	router.POST("/signup", func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func post(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/signup", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRespond_FieldMessages(t *testing.T) {
	router := setupTestRouter()

	w := post(router, `{"email":"nope","username":"a b","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Error)
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "username")
	assert.Contains(t, body.Fields, "role")
	assert.Equal(t, "username may only contain letters, digits and underscores", body.Fields["username"])
}

func TestRespond_Required(t *testing.T) {
	router := setupTestRouter()

	w := post(router, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email is required")
}

func TestRespond_MalformedBody(t *testing.T) {
	router := setupTestRouter()

	w := post(router, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestRespond_Valid(t *testing.T) {
	router := setupTestRouter()

	w := post(router, `{"email":"a@b.io","username":"alice_1","role":"student"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFieldErrors_NonValidation(t *testing.T) {
	assert.Nil(t, FieldErrors(errors.New("boom")))
}

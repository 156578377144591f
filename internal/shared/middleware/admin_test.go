package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	userModel "cinema-backend/internal/domains/user/model"
)

func requestWithRole(t *testing.T, role string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/staff",
		func(c *gin.Context) {
			if role != "" {
				c.Set("role", role)
			}
			c.Next()
		},
		AdminMiddleware(),
		func(c *gin.Context) {
			c.Status(http.StatusOK)
		},
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestAdminMiddleware(t *testing.T) {
	t.Run("admin passes", func(t *testing.T) {
		w := requestWithRole(t, userModel.RoleAdmin)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("moderator passes", func(t *testing.T) {
		w := requestWithRole(t, userModel.RoleModerator)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("plain user is denied", func(t *testing.T) {
		w := requestWithRole(t, userModel.RoleUser)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing role is denied", func(t *testing.T) {
		w := requestWithRole(t, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

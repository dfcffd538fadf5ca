package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restaurant-api/models"

	"github.com/gin-gonic/gin"
)

func newRouter(a *Auth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/any", a.Required(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"staff_id": GetStaffID(c)})
	})
	r.GET("/chef", a.Required(), RoleRequired(models.RoleChef, models.RoleManager), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	a := NewAuth("test-secret", time.Hour)
	r := newRouter(a)

	chef, err := a.GenerateToken(&models.Staff{ID: 3, Email: "chef@example.com", Role: models.RoleChef})
	if err != nil {
		t.Fatal(err)
	}
	waiter, _ := a.GenerateToken(&models.Staff{ID: 4, Email: "waiter@example.com", Role: models.RoleWaiter})

	expired := NewAuth("test-secret", -time.Minute)
	stale, _ := expired.GenerateToken(&models.Staff{ID: 3, Role: models.RoleChef})

	other := NewAuth("other-secret", time.Hour)
	forged, _ := other.GenerateToken(&models.Staff{ID: 3, Role: models.RoleManager})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"noToken", "/any", "", http.StatusUnauthorized},
		{"validToken", "/any", "Bearer " + chef, http.StatusOK},
		{"queryToken", "/any?access_token=" + chef, "", http.StatusOK},
		{"expiredToken", "/any", "Bearer " + stale, http.StatusUnauthorized},
		{"wrongSecret", "/any", "Bearer " + forged, http.StatusUnauthorized},
		{"allowedRole", "/chef", "Bearer " + chef, http.StatusOK},
		{"deniedRole", "/chef", "Bearer " + waiter, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

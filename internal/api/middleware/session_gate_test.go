package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"agentConsole/internal/session"
)

func newGateRouter(manager *session.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", SessionGateMiddleware(manager), func(c *gin.Context) {
		sess, ok := SessionFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": sess.User.Email})
	})
	return router
}

func TestSessionGate_RejectsWithoutSession(t *testing.T) {
	router := newGateRouter(session.NewManager())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestSessionGate_InjectsSession(t *testing.T) {
	manager := session.NewManager()
	sess, err := session.New("opaque-token", session.Profile{Email: "agent@example.com"})
	if err != nil {
		t.Fatalf("build session: %v", err)
	}
	manager.Set(sess)

	router := newGateRouter(manager)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != `{"email":"agent@example.com"}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestSessionGate_RejectsAfterClear(t *testing.T) {
	manager := session.NewManager()
	sess, err := session.New("opaque-token", session.Profile{Email: "agent@example.com"})
	if err != nil {
		t.Fatalf("build session: %v", err)
	}
	manager.Set(sess)
	manager.Clear()

	router := newGateRouter(manager)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}

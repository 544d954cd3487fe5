package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingUpstream captures the paths an auth proxy forwards to it.
type recordingUpstream struct {
	mu    sync.Mutex
	paths []string
}

func (u *recordingUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.paths = append(u.paths, r.URL.Path)
	u.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

// closeNotifyRecorder adds the CloseNotify method that httputil.ReverseProxy
// requires of the ResponseWriter on Go toolchains before 1.23.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newCloseNotifyRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder(), make(chan bool, 1)}
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func newProxyTestRouter(t *testing.T, remoteURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler, err := NewAuthHandler(nil, remoteURL)
	require.NoError(t, err)
	engine := gin.New()
	handler.RegisterRoutes(engine.Group("/api/auth"))
	return engine
}

func TestProxyAuthRewritesAliases(t *testing.T) {
	upstream := &recordingUpstream{}
	server := httptest.NewServer(upstream)
	defer server.Close()

	engine := newProxyTestRouter(t, server.URL)

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/auth/login"},
		{http.MethodPost, "/api/auth/register"},
		{http.MethodGet, "/api/auth/get-session"},
	}
	for _, r := range requests {
		w := newCloseNotifyRecorder()
		req := httptest.NewRequest(r.method, r.path, nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, r.path)
	}

	// The short aliases reach the upstream under its canonical paths; the
	// already-canonical path passes through untouched.
	assert.Equal(t, []string{"/sign-in/email", "/sign-up/email", "/get-session"}, upstream.paths)
}

func TestProxyAuthHandlesTrailingSlashAlias(t *testing.T) {
	upstream := &recordingUpstream{}
	server := httptest.NewServer(upstream)
	defer server.Close()

	engine := newProxyTestRouter(t, server.URL)

	w := newCloseNotifyRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login/", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, upstream.paths, 1)
	assert.Equal(t, "/sign-in/email", upstream.paths[0])
}

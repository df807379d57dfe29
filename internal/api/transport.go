package api

import (
	"net/http"
	"strings"

	"taskman/internal/session"
	"taskman/pkg/logger"

	"go.uber.org/zap"
)

// authTransport attaches the bearer token and reacts to authorization
// failures. The token is read from the session store at send time, so every
// request sees the current token and nothing is captured in a closure.
type authTransport struct {
	base    http.RoundTripper
	session *session.Store
	client  *Client
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := t.session.Token(); token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		// Transport failures propagate unchanged, no session side effects.
		return nil, err
	}

	// 401 dari login berarti kredensial salah, bukan sesi kadaluarsa.
	if resp.StatusCode == http.StatusUnauthorized && !strings.HasSuffix(req.URL.Path, "/auth/login") {
		logger.SecurityLogger.Warn("Unauthorized response, clearing session",
			zap.String("method", req.Method),
			zap.String("url", req.URL.Path),
		)
		t.session.Logout()
		t.client.notifyUnauthorized()
	}

	return resp, nil
}

package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"taskman/internal/models"
	"taskman/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// Store holds the current bearer token and the user derived from it. The
// token is the only persisted state: a single file under tokenFile. The user
// is always recomputed from the token, never stored on its own.
type Store struct {
	mu      sync.Mutex
	path    string
	token   string
	user    *models.User
	subs    map[int]func()
	nextSub int

	// now dapat diganti di test untuk mengontrol waktu kadaluarsa.
	now func() time.Time
}

func NewStore(path string) *Store {
	s := &Store{
		path: path,
		subs: make(map[int]func()),
		now:  time.Now,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		s.applyToken(strings.TrimSpace(string(raw)))
	}
	return s
}

// Login persists the token and derives the user from it. A token that does
// not decode to a valid, unexpired claims object is treated as no session.
func (s *Store) Login(token string) error {
	s.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		s.mu.Unlock()
		return err
	}
	s.applyToken(token)
	s.mu.Unlock()

	s.notify()
	return nil
}

// Logout removes the persisted token and clears in-memory state.
func (s *Store) Logout() {
	s.mu.Lock()
	s.clear()
	s.mu.Unlock()

	s.notify()
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated is derived, never set: token present and user decoded.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

// Subscribe registers a callback fired after every state change. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// applyToken decodes the token and sets token/user state. Dipanggil dengan
// lock sudah dipegang. Token yang tidak valid diperlakukan sebagai tidak ada
// session sama sekali.
func (s *Store) applyToken(token string) {
	if token == "" {
		s.clear()
		return
	}

	user, ok := decodeUser(token, s.now())
	if !ok {
		logger.SecurityLogger.Warn("Discarding invalid or expired token")
		s.clear()
		return
	}

	s.token = token
	s.user = user
}

// clear menghapus file token dan state in-memory. Lock sudah dipegang.
func (s *Store) clear() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logger.ErrorLogger.Error("Error removing token file", zap.Error(err))
	}
	s.token = ""
	s.user = nil
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// decodeUser parses the token payload without verifying the signature; the
// server is the trust boundary and the claims are only used for UI gating.
func decodeUser(token string, now time.Time) (*models.User, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, false
	}

	exp, ok := claims["exp"].(float64)
	if !ok || int64(exp) <= now.Unix() {
		return nil, false
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, false
	}

	role, _ := claims["role"].(string)
	return &models.User{Username: sub, Role: role}, true
}

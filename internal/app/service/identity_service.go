package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"learnhub/internal/common"
	"learnhub/internal/common/security"
	"learnhub/internal/domain/model"
	"learnhub/internal/domain/repository"
	"learnhub/internal/remote"

	"github.com/google/uuid"
)

// IdentityService owns the user directory and the active session. All of
// its operations are authoritative against local storage; remote auth
// calls are best-effort token acquisition only, so there is no network
// failure mode for registration or login.
type IdentityService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	remote      remote.API

	mu      sync.RWMutex
	session model.Session
	loading bool

	onSessionChange []func(model.Session)
}

func NewIdentityService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	remoteAPI remote.API,
) *IdentityService {
	return &IdentityService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		remote:      remoteAPI,
		loading:     true,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin student"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Register adds a user to the directory. It does not log the user in.
// A duplicate email leaves the directory unchanged and reports a
// conflict.
func (s *IdentityService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, common.Errorf("name, email and password are required: %w", common.ErrBadRequest)
	}
	if req.Role != model.RoleAdmin && req.Role != model.RoleStudent {
		return nil, common.Errorf("role must be admin or student: %w", common.ErrBadRequest)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           req.Role,
		CreatedAt:      time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Mirror the registration to the remote service when it is up; the
	// local directory stays authoritative either way.
	if err := s.remote.Register(ctx, req.Name, req.Email, req.Password, req.Role); err != nil {
		log.Printf("Remote register unavailable, local directory only: %v", err)
	}

	out := user.WithoutCredentials()
	return &out, nil
}

// Login checks credentials against the directory and, on success, sets
// and persists the session with the credential hash stripped.
func (s *IdentityService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.Errorf("email and password are required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("invalid email or password: %w", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.Errorf("invalid email or password: %w", common.ErrUnauthorized)
	}

	// Best-effort remote token so later catalog calls can authenticate
	// upstream. Failure just means requests go out without a bearer.
	remoteToken, err := s.remote.Login(ctx, req.Email, req.Password)
	if err != nil {
		log.Printf("Remote login unavailable, continuing without bearer token: %v", err)
		remoteToken = ""
	}

	session := model.Session{User: user.WithoutCredentials(), RemoteToken: remoteToken}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	token, err := security.GenerateToken(session.User.ID, session.User.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.setSession(session)
	return &AuthResponse{User: session.User, Token: token}, nil
}

// Logout clears the session from memory and storage. It never fails: a
// storage hiccup is logged and the in-memory session is cleared anyway.
func (s *IdentityService) Logout(ctx context.Context) {
	if err := s.sessionRepo.Clear(ctx); err != nil {
		log.Printf("Failed to clear persisted session: %v", err)
	}
	s.setSession(model.Session{})
}

// Restore loads the persisted session into memory. It runs once at
// startup, before the router serves anything; Loading reports true until
// it finishes.
func (s *IdentityService) Restore(ctx context.Context) error {
	session, err := s.sessionRepo.Load(ctx)

	s.mu.Lock()
	if session != nil {
		s.session = *session
	}
	s.loading = false
	restored := s.session
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if restored.Active() {
		s.notifySessionChange(restored)
	}
	return nil
}

func (s *IdentityService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Session returns the active session; check Active() on the result.
func (s *IdentityService) Session() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Current returns the logged-in user, or nil when there is none.
func (s *IdentityService) Current() *model.User {
	session := s.Session()
	if !session.Active() {
		return nil
	}
	user := session.User
	return &user
}

// OnSessionChange registers a callback fired after login, logout and
// restore. The catalog uses it to re-hydrate per-user enrollments.
func (s *IdentityService) OnSessionChange(fn func(model.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSessionChange = append(s.onSessionChange, fn)
}

func (s *IdentityService) setSession(session model.Session) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	s.notifySessionChange(session)
}

func (s *IdentityService) notifySessionChange(session model.Session) {
	s.mu.RLock()
	listeners := make([]func(model.Session), len(s.onSessionChange))
	copy(listeners, s.onSessionChange)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(session)
	}
}

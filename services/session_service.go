package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smart-home-repair/repair-api/logger"
	"github.com/smart-home-repair/repair-api/models"
)

// ErrInvalidSession is returned when a bearer token does not match the active session
var ErrInvalidSession = errors.New("invalid or expired session")

// SessionService is the local login stub. It never checks, stores or hashes passwords;
// a session is just the stored user plus an opaque token.
type SessionService struct {
	store *RecordStore
	log   *logger.Logger

	now   func() time.Time
	newID func() string
}

var sessionServiceInstance *SessionService

// NewSessionService creates a session service over store
func NewSessionService(store *RecordStore, log *logger.Logger) *SessionService {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionService{
		store: store,
		log:   log.With("service", "SessionService"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// InitSessionService creates the process session service
func InitSessionService(store *RecordStore, log *logger.Logger) *SessionService {
	sessionServiceInstance = NewSessionService(store, log)
	return sessionServiceInstance
}

// GetSessionService returns the initialized session service
func GetSessionService() *SessionService {
	return sessionServiceInstance
}

// SetSessionService sets the session service instance (primarily for testing)
func SetSessionService(service *SessionService) {
	sessionServiceInstance = service
}

// Load reads the persisted session at startup
func (s *SessionService) Load(ctx context.Context) *models.User {
	user := s.store.GetUser(ctx)
	if user != nil {
		s.log.Info("Restored session", "user_id", user.ID)
	} else {
		s.log.Info("No stored session")
	}
	return user
}

// Current returns the active user, read from storage on every call
func (s *SessionService) Current(ctx context.Context) *models.User {
	return s.store.GetUser(ctx)
}

// Login reuses the stored user when the email matches, otherwise creates one named after the
// email's local part. A fresh token is issued either way.
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, "", newValidationError("email", "email is required")
	}
	if strings.TrimSpace(password) == "" {
		return nil, "", newValidationError("password", "password is required")
	}

	user := s.store.GetUser(ctx)
	if user == nil || user.Email != email {
		user = &models.User{
			ID:        s.newID(),
			Email:     email,
			Name:      strings.Split(email, "@")[0],
			CreatedAt: s.now().UTC(),
		}
		if err := s.store.SetUser(ctx, *user); err != nil {
			return nil, "", err
		}
		s.log.Info("Created user on login", "user_id", user.ID)
	}

	token, err := s.issueToken(ctx)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Signup always creates a new user, replacing any stored one
func (s *SessionService) Signup(ctx context.Context, name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, "", newValidationError("name", "name is required")
	}
	if email == "" {
		return nil, "", newValidationError("email", "email is required")
	}
	if strings.TrimSpace(password) == "" {
		return nil, "", newValidationError("password", "password is required")
	}

	user := models.User{
		ID:        s.newID(),
		Email:     email,
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.SetUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("Signed up user", "user_id", user.ID)
	return &user, token, nil
}

func (s *SessionService) issueToken(ctx context.Context) (string, error) {
	token := s.newID()
	if err := s.store.SetAuthToken(ctx, token); err != nil {
		return "", err
	}
	return token, nil
}

// Logout removes the user and token; reports, bookings and history stay
func (s *SessionService) Logout(ctx context.Context) error {
	return s.store.ClearSession(ctx)
}

// UpdateUser merges update into the active user. With no active user it does nothing and
// returns nil.
func (s *SessionService) UpdateUser(ctx context.Context, update models.UserUpdate) (*models.User, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, newValidationError("name", "name must not be empty")
	}
	if update.Email != nil && strings.TrimSpace(*update.Email) == "" {
		return nil, newValidationError("email", "email must not be empty")
	}

	user := s.store.GetUser(ctx)
	if user == nil {
		return nil, nil
	}

	updated := update.Apply(*user)
	if err := s.store.SetUser(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ValidateToken returns the active user when token matches the stored session token
func (s *SessionService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	stored, ok := s.store.GetAuthToken(ctx)
	if !ok || token == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return nil, ErrInvalidSession
	}

	user := s.store.GetUser(ctx)
	if user == nil {
		return nil, ErrInvalidSession
	}
	return user, nil
}

// DeleteAccount removes everything the device has stored
func (s *SessionService) DeleteAccount(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return err
	}
	s.log.Info("Deleted account and all local data")
	return nil
}

// ClearAppData removes reports, bookings and history but keeps the user signed in
func (s *SessionService) ClearAppData(ctx context.Context) error {
	return s.store.ClearAppData(ctx)
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront/models"
	"storefront/repositories"
	"storefront/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SessionRecordKey     = "ecommerce_user"
	CredentialsRecordKey = "ecommerce_credentials"
)

type AuthOptions struct {
	Store       repositories.KeyValueStore
	Notifier    *Notifier
	Faults      FaultInjector
	Hasher      *utils.PasswordHasher
	Sleep       Sleeper
	LoginDelay  time.Duration
	SignupDelay time.Duration
	Now         func() time.Time
	Logger      *zap.Logger
}

// AuthStore holds the single signed-in user of a session. The persisted
// record is read once at construction and written on every change.
type AuthStore struct {
	mu          sync.RWMutex
	user        *models.User
	store       repositories.KeyValueStore
	notifier    *Notifier
	faults      FaultInjector
	hasher      *utils.PasswordHasher
	sleep       Sleeper
	loginDelay  time.Duration
	signupDelay time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

func NewAuthStore(ctx context.Context, opts AuthOptions) (*AuthStore, error) {
	s := &AuthStore{
		store:       opts.Store,
		notifier:    opts.Notifier,
		faults:      opts.Faults,
		hasher:      opts.Hasher,
		sleep:       opts.Sleep,
		loginDelay:  opts.LoginDelay,
		signupDelay: opts.SignupDelay,
		now:         opts.Now,
		logger:      opts.Logger,
	}
	if s.faults == nil {
		s.faults = NoFaults{}
	}
	if s.hasher == nil {
		s.hasher = utils.DefaultPasswordHasher()
	}
	if s.sleep == nil {
		s.sleep = SleepContext
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	if err := s.restore(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AuthStore) restore(ctx context.Context) error {
	raw, err := s.store.Get(ctx, SessionRecordKey)
	if errors.Is(err, repositories.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session record: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		s.logger.Warn("discarding unreadable session record", zap.Error(err))
		if err := s.store.Remove(ctx, SessionRecordKey); err != nil {
			return fmt.Errorf("remove unreadable session record: %w", err)
		}
		return nil
	}

	s.user = &user
	return nil
}

func (s *AuthStore) Current() (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil, false
	}
	user := *s.user
	return &user, true
}

func (s *AuthStore) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

func validateLogin(email, password string) error {
	if email == "" || password == "" {
		return fieldError("email", "Email and password are required")
	}
	if !strings.Contains(email, "@") {
		return fieldError("email", "Please enter a valid email address")
	}
	if len(password) < 6 {
		return fieldError("password", "Password must be at least 6 characters long")
	}
	return nil
}

func (s *AuthStore) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if err := validateLogin(email, password); err != nil {
		return nil, err
	}

	if err := s.sleep(ctx, s.loginDelay); err != nil {
		return nil, err
	}

	if err := s.faults.Inject(ctx, OpLogin, email); err != nil {
		s.notifier.Error(err.Error())
		return nil, err
	}

	if err := s.checkCredentials(ctx, email, password); err != nil {
		s.notifier.Error(err.Error())
		return nil, err
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      strings.SplitN(email, "@", 2)[0],
		CreatedAt: s.now().UTC(),
	}
	if err := s.persist(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	s.notifier.Success("Login successful! Welcome back.")
	return user, nil
}

func validateSignup(req models.SignupRequest) error {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return fieldError("name", "All fields are required")
	}
	if len(req.Name) < 2 {
		return fieldError("name", "Name must be at least 2 characters long")
	}
	if !strings.Contains(req.Email, "@") {
		return fieldError("email", "Please enter a valid email address")
	}
	if len(req.Password) < 6 {
		return fieldError("password", "Password must be at least 6 characters long")
	}
	if req.Password != req.ConfirmPassword {
		return fieldError("confirm_password", "Passwords do not match")
	}
	return nil
}

func (s *AuthStore) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	if err := s.sleep(ctx, s.signupDelay); err != nil {
		return nil, err
	}

	if err := s.faults.Inject(ctx, OpSignup, req.Email); err != nil {
		s.notifier.Error(err.Error())
		return nil, err
	}

	exists, err := s.emailTaken(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.writeJSON(ctx, CredentialsRecordKey, models.Credential{Email: req.Email, PasswordHash: hash}); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Name:      req.Name,
		CreatedAt: s.now().UTC(),
	}
	if err := s.persist(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID))
	s.notifier.Success(fmt.Sprintf("Account created successfully! Welcome %s.", user.Name))
	return user, nil
}

func (s *AuthStore) Logout(ctx context.Context) error {
	if err := s.faults.Inject(ctx, OpLogout, ""); err != nil {
		s.notifier.Error(err.Error())
		return err
	}

	if err := s.store.Remove(ctx, SessionRecordKey); err != nil {
		return fmt.Errorf("remove session record: %w", err)
	}

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	s.notifier.Success("Logged out successfully!")
	return nil
}

func (s *AuthStore) emailTaken(ctx context.Context, email string) (bool, error) {
	if user, ok := s.Current(); ok && strings.EqualFold(user.Email, email) {
		return true, nil
	}

	cred, err := s.credential(ctx)
	if err != nil {
		return false, err
	}
	return cred != nil && strings.EqualFold(cred.Email, email), nil
}

// checkCredentials only rejects a login when a password was registered for
// this email; any other well-formed login is accepted.
func (s *AuthStore) checkCredentials(ctx context.Context, email, password string) error {
	cred, err := s.credential(ctx)
	if err != nil {
		return err
	}
	if cred == nil || !strings.EqualFold(cred.Email, email) {
		return nil
	}

	ok, err := s.hasher.Verify(cred.PasswordHash, password)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *AuthStore) credential(ctx context.Context) (*models.Credential, error) {
	raw, err := s.store.Get(ctx, CredentialsRecordKey)
	if errors.Is(err, repositories.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	var cred models.Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		s.logger.Warn("ignoring unreadable credentials record", zap.Error(err))
		return nil, nil
	}
	return &cred, nil
}

func (s *AuthStore) persist(ctx context.Context, user *models.User) error {
	if err := s.writeJSON(ctx, SessionRecordKey, user); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

func (s *AuthStore) writeJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

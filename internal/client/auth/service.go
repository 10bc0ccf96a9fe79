package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/zapsync/internal/client/api"
	"github.com/iudanet/zapsync/internal/client/storage"
)

var (
	// ErrNotSignedIn возвращается, если сессия отсутствует
	ErrNotSignedIn = errors.New("not signed in")

	// ErrSessionExpired возвращается, если срок действия токена истек
	ErrSessionExpired = errors.New("session expired")

	// ErrEmptyToken возвращается при попытке сохранить пустой токен
	ErrEmptyToken = errors.New("access token cannot be empty")
)

// Session текущая сессия пользователя
type Session struct {
	ExpiresAt   time.Time // ExpiresAt нулевое значение, если срок неизвестен
	UserID      string
	AccessToken string
}

// Expired сообщает, истек ли срок сессии к моменту now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// CleanupStep шаг очистки локальных данных при выходе
type CleanupStep struct {
	Run  func(ctx context.Context) error
	Name string
}

// Option настраивает сервис сессий
type Option func(*service)

// WithCleanup добавляет шаг очистки, выполняемый при SignOut
func WithCleanup(name string, run func(ctx context.Context) error) Option {
	return func(s *service) {
		s.cleanup = append(s.cleanup, CleanupStep{Name: name, Run: run})
	}
}

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

type service struct {
	storage storage.AuthStorage
	logger  *slog.Logger
	now     func() time.Time
	cleanup []CleanupStep
}

// Compile-time check that service implements Service
var _ Service = (*service)(nil)

// NewService создает сервис сессий поверх хранилища авторизации
func NewService(authStorage storage.AuthStorage, logger *slog.Logger, opts ...Option) Service {
	s := &service{
		storage: authStorage,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignIn сохраняет токен. Непрозрачные (не JWT) токены принимаются
// без срока действия и пользователя.
func (s *service) SignIn(ctx context.Context, token string) (*Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, ErrEmptyToken
	}

	session, err := parseToken(token)
	if err != nil {
		s.logger.Debug("Token is not a JWT, storing as opaque", "error", err)
		session = &Session{AccessToken: token}
	}

	if session.Expired(s.now()) {
		return nil, ErrSessionExpired
	}

	data := &storage.AuthData{
		UserID:      session.UserID,
		AccessToken: session.AccessToken,
	}
	if !session.ExpiresAt.IsZero() {
		data.ExpiresAt = session.ExpiresAt.Unix()
	}

	if err := s.storage.SaveAuth(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("Signed in", "user_id", session.UserID, "expires_at", session.ExpiresAt)
	return session, nil
}

// Current возвращает сохраненную сессию
func (s *service) Current(ctx context.Context) (*Session, error) {
	data, err := s.storage.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotSignedIn
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	session := &Session{
		UserID:      data.UserID,
		AccessToken: data.AccessToken,
	}
	if data.ExpiresAt > 0 {
		session.ExpiresAt = time.Unix(data.ExpiresAt, 0)
	}

	if session.AccessToken == "" {
		return nil, ErrNotSignedIn
	}
	if session.Expired(s.now()) {
		return session, ErrSessionExpired
	}
	return session, nil
}

// IsAuthenticated сообщает, есть ли действующая сессия
func (s *service) IsAuthenticated(ctx context.Context) (bool, error) {
	_, err := s.Current(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotSignedIn), errors.Is(err, ErrSessionExpired):
		return false, nil
	default:
		return false, err
	}
}

// SignOut удаляет сессию и выполняет все шаги очистки.
// Шаги выполняются даже если предыдущие завершились с ошибкой.
func (s *service) SignOut(ctx context.Context) error {
	var errs []error

	if err := s.storage.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		errs = append(errs, fmt.Errorf("failed to delete session: %w", err))
	}

	for _, step := range s.cleanup {
		if err := step.Run(ctx); err != nil {
			s.logger.Error("Sign-out cleanup step failed", "step", step.Name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", step.Name, err))
			continue
		}
		s.logger.Debug("Sign-out cleanup step completed", "step", step.Name)
	}

	if len(errs) == 0 {
		s.logger.Info("Signed out")
	}
	return errors.Join(errs...)
}

// TokenSource возвращает источник токена для API клиента.
// Без действующей сессии запросы отправляются анонимно.
func TokenSource(svc Service) api.TokenSource {
	return func(ctx context.Context) (string, error) {
		session, err := svc.Current(ctx)
		switch {
		case err == nil:
			return session.AccessToken, nil
		case errors.Is(err, ErrNotSignedIn), errors.Is(err, ErrSessionExpired):
			return "", nil
		default:
			return "", err
		}
	}
}

// parseToken читает claims JWT без проверки подписи: подпись проверяет backend
func parseToken(token string) (*Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	session := &Session{AccessToken: token}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil {
		session.ExpiresAt = exp.Time
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("invalid sub claim: %w", err)
	}
	session.UserID = sub

	return session, nil
}

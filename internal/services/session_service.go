package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "budgetbook/internal/errors"
	"budgetbook/internal/logger"
	"budgetbook/internal/models"
	"budgetbook/internal/uuid"
)

// sessionService manages server-side sessions backed by the store.
type sessionService struct {
	db       *gorm.DB
	lifetime time.Duration
}

// NewSessionService creates a new SessionServicer issuing sessions with the
// given absolute lifetime.
func NewSessionService(db *gorm.DB, lifetime time.Duration) SessionServicer {
	return &sessionService{db: db, lifetime: lifetime}
}

// Create issues a fresh session for the user with a random opaque token.
func (s *sessionService) Create(userID string) (*models.Session, error) {
	token, err := uuid.NewToken()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	session := &models.Session{
		Token:    token,
		UserID:   userID,
		ExpireAt: time.Now().Add(s.lifetime),
	}

	if err := s.db.Create(session).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return session, nil
}

// Authenticate resolves a session token to its owning user. A missing or
// unknown token yields ErrUnauthorized. An expired session yields
// ErrSessionExpired so callers can clear the stale cookie; the record is
// deleted best-effort and a sweep of all expired sessions is kicked off in
// the background.
func (s *sessionService) Authenticate(token string) (*models.User, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var session models.Session
	err := s.db.Preload("User").Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if session.Expired(time.Now()) {
		if err := s.db.Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
			logger.Get().Warnw("failed to delete expired session", "error", err)
		}
		go s.sweep()
		return nil, apperrors.ErrSessionExpired
	}

	return &session.User, nil
}

// Delete removes the session for the given token. Deleting an absent
// session is a no-op, so logout stays idempotent.
func (s *sessionService) Delete(token string) error {
	if token == "" {
		return nil
	}
	if err := s.db.Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteExpired removes every session whose expiry has passed and returns
// how many were removed.
func (s *sessionService) DeleteExpired() (int64, error) {
	result := s.db.Where("expire_at <= ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}

// IsFresh reports whether the token maps to an unexpired session. It is the
// coarse check behind the protected-page gate and never touches the store
// beyond a single lookup.
func (s *sessionService) IsFresh(token string) bool {
	if token == "" {
		return false
	}
	var session models.Session
	if err := s.db.Where("token = ?", token).First(&session).Error; err != nil {
		return false
	}
	return !session.Expired(time.Now())
}

// sweep runs DeleteExpired in the background; failures are logged only.
func (s *sessionService) sweep() {
	n, err := s.DeleteExpired()
	if err != nil {
		logger.Get().Warnw("session sweep failed", "error", err)
		return
	}
	if n > 0 {
		logger.Get().Infow("swept expired sessions", "count", n)
	}
}

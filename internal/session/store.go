package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"plantid-go/internal/models"
)

var ErrNotFound = errors.New("session not found")

// Store resolves opaque session tokens to users. Kept as an interface so the
// backing implementation can be swapped in tests.
type Store interface {
	Create(userID uint, ttl time.Duration) (string, error)
	Resolve(token string) (*models.User, error)
	Destroy(token string) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(userID uint, ttl time.Duration) (string, error) {
	token := "ps" + strings.ReplaceAll(uuid.NewString(), "-", "")
	sess := models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return "", err
	}
	return token, nil
}

func (s *GormStore) Resolve(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	var sess models.Session
	err := s.db.Where("token = ? AND expires_at > ?", token, time.Now()).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, sess.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) Destroy(token string) error {
	return s.db.Delete(&models.Session{}, "token = ?", token).Error
}

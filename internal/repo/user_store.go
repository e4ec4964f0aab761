package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rinklog/internal/models"
)

type UserStore struct{ db *gorm.DB }

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{db: db} }

type CreateUserInput struct {
	Email        string
	PasswordHash []byte
	Name         string
	Image        string
}

// Create inserts a new user. Email is normalized to lower case;
// a second user with the same email gets ErrEmailTaken.
func (s *UserStore) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	u := models.User{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: in.PasswordHash,
		Name:     in.Name,
		Image:    in.Image,
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &u, err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &u, err
}

// RefreshProfile updates name/image on sign-in when the client sent fresh values.
func (s *UserStore) RefreshProfile(ctx context.Context, id, name, image string) error {
	updates := map[string]any{}
	if name != "" {
		updates["name"] = name
	}
	if image != "" {
		updates["image"] = image
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cash-flow/internal/models"

	"gorm.io/gorm"
)

// NormalizeEmail lowercases and trims an address before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts u, failing with ErrEmailTaken when the address is in use.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = NormalizeEmail(u.Email)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(u).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// ProfileUpdate carries optional profile changes; nil fields are left alone.
type ProfileUpdate struct {
	PhoneNumber  *string
	PasswordHash *string
	Language     *string
}

func (s *Store) UpdateProfile(ctx context.Context, id uint, p ProfileUpdate) (*models.User, error) {
	updates := map[string]any{}
	if p.PhoneNumber != nil {
		updates["phone_number"] = *p.PhoneNumber
	}
	if p.PasswordHash != nil {
		updates["password"] = *p.PasswordHash
	}
	if p.Language != nil {
		updates["language"] = *p.Language
	}

	db := s.db.WithContext(ctx)
	if len(updates) > 0 {
		res := db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("update profile: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.UserByID(ctx, id)
}

// SetLanguage stores the display language preference.
func (s *Store) SetLanguage(ctx context.Context, id uint, lang string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("language", lang)
	if res.Error != nil {
		return fmt.Errorf("set language: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLogin records the time and address of a successful login.
func (s *Store) TouchLogin(ctx context.Context, id uint, ip string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
		"last_login_at": at,
		"last_login_ip": ip,
	}).Error
}

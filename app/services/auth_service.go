package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/crypt"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

type AuthService struct {
	admins *repositories.AdminRepository
	hasher crypt.Hasher
}

func NewAuthService(admins *repositories.AdminRepository, hasher crypt.Hasher) *AuthService {
	return &AuthService{admins: admins, hasher: hasher}
}

// Login checks a credential. It returns ErrUserNotFound or ErrWrongPassword
// for a bad credential and a wrapped error when the lookup itself fails.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.Admin, error) {
	admin, err := s.admins.FindByUsername(ctx, username)
	if errors.Is(err, orm.ErrNotFound) {
		return models.Admin{}, ErrUserNotFound
	}
	if err != nil {
		return models.Admin{}, fmt.Errorf("find admin: %w", err)
	}
	if !s.hasher.Check(admin.Password, password) {
		return models.Admin{}, ErrWrongPassword
	}
	return admin, nil
}

package auth

import (
	"context"

	"github.com/uberspeed/dispatch/internal/domain/models"
)

type UserRepo interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

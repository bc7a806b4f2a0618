package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uberspeed/dispatch/internal/domain/models"
)

// UserRepo resolves user identities for the authentication gate. The user
// store is owned by the account service; this repo only reads it.
type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

// GetUserByID fetches a user by id. Returns (nil, nil) when no such user
// exists; the caller decides whether that is an error.
func (r *UserRepo) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	const q = `
		SELECT id, name, email, role, created_at
		FROM users
		WHERE id = $1;
	`

	var u models.User
	err := r.db.QueryRow(ctx, q, userID).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Role,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &u, nil
}

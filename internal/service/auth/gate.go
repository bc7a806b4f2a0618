package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/uberspeed/dispatch/internal/domain/models"
	"github.com/uberspeed/dispatch/internal/domain/types"
	"github.com/uberspeed/dispatch/pkg/logger"
	wrap "github.com/uberspeed/dispatch/pkg/logger/wrapper"
)

// Gate validates a bearer credential once, at connection establishment, and
// resolves it to a user identity. Connections rejected here leave no trace in
// the registry or any room.
type Gate struct {
	secret   string
	userRepo UserRepo
	log      logger.Logger
}

func NewGate(secret string, userRepo UserRepo, log logger.Logger) *Gate {
	return &Gate{
		secret:   secret,
		userRepo: userRepo,
		log:      log,
	}
}

// Verify checks the token's signature and expiry and loads the user it names.
func (g *Gate) Verify(ctx context.Context, token string) (*models.User, error) {
	ctx = wrap.WithAction(ctx, "verify_connection")

	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := g.validate(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := g.userRepo.GetUserByID(ctx, claims.userID)
	if err != nil {
		g.log.Error(wrap.ErrorCtx(ctx, err), "failed to load user for token", err)
		return nil, ErrUnexpected
	}
	if user == nil {
		return nil, types.ErrUserNotFound
	}

	return user, nil
}

type tokenClaims struct {
	userID string
	role   string
}

func (g *Gate) validate(ctx context.Context, token string) (*tokenClaims, error) {
	parsedToken, err := jwt.ParseWithClaims(token, jwt.MapClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return []byte(g.secret), nil
	})
	if err != nil || !parsedToken.Valid {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	mc, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	userID, _ := mc["user_id"].(string)
	if userID == "" {
		// older tokens carry the id under 'id'
		userID, _ = mc["id"].(string)
	}
	if userID == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: missing 'user_id' claim", ErrInvalidToken))
	}

	expFloat, ok := mc["exp"].(float64)
	if !ok {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: missing 'exp' claim", ErrInvalidToken))
	}
	if time.Now().UTC().After(time.Unix(int64(expFloat), 0)) {
		return nil, wrap.Error(ctx, ErrExpToken)
	}

	role, _ := mc["role"].(string)

	return &tokenClaims{
		userID: userID,
		role:   role,
	}, nil
}

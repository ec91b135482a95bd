package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/cardshop-backend/internal/users"
	pkgAuth "github.com/angelmondragon/cardshop-backend/pkg/auth"
	"github.com/angelmondragon/cardshop-backend/pkg/config"
	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
	"github.com/angelmondragon/cardshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cardshop-backend/pkg/errors"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	DevLogin(ctx context.Context, req DevLoginRequest) (*LoginResponse, error)
}

type userEnsurer interface {
	EnsureUser(ctx context.Context, email string, name *string, role enums.UserRole) (*models.User, error)
}

type service struct {
	users  userEnsurer
	jwtCfg config.JWTConfig
	now    func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users     userEnsurer
	JWTConfig config.JWTConfig
	Now       func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user service is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:  params.Users,
		jwtCfg: params.JWTConfig,
		now:    now,
	}, nil
}

// DevLogin upserts the named identity and mints an access token for it.
// It stands in for the external identity provider outside production.
func (s *service) DevLogin(ctx context.Context, req DevLoginRequest) (*LoginResponse, error) {
	role := enums.UserRoleCustomer
	if raw := strings.TrimSpace(req.Role); raw != "" {
		parsed, err := enums.ParseUserRole(strings.ToUpper(raw))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
		}
		role = parsed
	}

	user, err := s.users.EnsureUser(ctx, req.Email, req.Name, role)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(s.jwtCfg.TTL()),
		User:        users.FromModel(user),
	}, nil
}

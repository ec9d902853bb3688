// Package workers lets an owner provision and remove staff logins.
package workers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-inventory/internal/auth"
	"github.com/noah-isme/backend-inventory/internal/common"
	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/repo"
	"github.com/noah-isme/backend-inventory/internal/tenant"
)

// ErrCannotDeleteSelf is returned when an owner tries to remove their own profile.
var ErrCannotDeleteSelf = errors.New("workers: cannot delete yourself")

// Profiles persists account memberships.
type Profiles interface {
	List(ctx context.Context, limit, offset int32) ([]dbgen.Profile, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, userID, email string, role tenant.Role) (dbgen.Profile, error)
	Delete(ctx context.Context, userID string) error
}

// Users manages logins on the auth platform.
type Users interface {
	CreateUser(ctx context.Context, email, password string) (auth.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

// Worker is the public view of a profile.
type Worker struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateInput is the payload for adding a worker.
type CreateInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Service coordinates the auth platform and the profiles table.
type Service struct {
	Profiles Profiles
	Users    Users
	Logger   zerolog.Logger

	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(profiles Profiles, users Users, logger zerolog.Logger) *Service {
	return &Service{Profiles: profiles, Users: users, Logger: logger, validate: validator.New()}
}

func toWorker(p dbgen.Profile) Worker {
	return Worker{ID: repo.UUIDString(p.ID), Email: p.Email, Role: p.Role, CreatedAt: p.CreatedAt.Time}
}

// List returns one page of the account's profiles, newest first. A page
// outside the range serves the first page.
func (s *Service) List(ctx context.Context, page, pageSize int) ([]Worker, common.Pagination, error) {
	total, err := s.Profiles.Count(ctx)
	if err != nil {
		return nil, common.Pagination{}, err
	}
	pager := common.NewPager(pageSize, int(total))
	pager.Goto(page)
	rows, err := s.Profiles.List(ctx, int32(pager.Limit()), int32(pager.Offset()))
	if err != nil {
		return nil, common.Pagination{}, err
	}
	out := make([]Worker, 0, len(rows))
	for _, row := range rows {
		out = append(out, toWorker(row))
	}
	return out, pager.Meta(), nil
}

// Create registers a login and binds it to the caller's account as a worker.
// The login is removed again when the profile cannot be stored.
func (s *Service) Create(ctx context.Context, in CreateInput) (Worker, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return Worker{}, err
	}
	if s.Users == nil {
		return Worker{}, auth.ErrAdminNotConfigured
	}
	user, err := s.Users.CreateUser(ctx, in.Email, in.Password)
	if err != nil {
		return Worker{}, err
	}
	profile, err := s.Profiles.Create(ctx, user.ID, in.Email, tenant.RoleWorker)
	if err != nil {
		if delErr := s.Users.DeleteUser(ctx, user.ID); delErr != nil {
			s.Logger.Error().Err(delErr).Str("user_id", user.ID).Msg("remove login after failed profile insert")
		}
		return Worker{}, err
	}
	s.Logger.Info().Str("user_id", user.ID).Msg("worker created")
	return toWorker(profile), nil
}

// Delete removes a profile from the account. The caller cannot remove itself.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if caller, ok := common.UserID(ctx); ok && caller == strings.TrimSpace(userID) {
		return ErrCannotDeleteSelf
	}
	return s.Profiles.Delete(ctx, userID)
}

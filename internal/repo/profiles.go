package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/noah-isme/backend-inventory/internal/db/gen"
	"github.com/noah-isme/backend-inventory/internal/tenant"
)

// ProfilesQuerier defines the sqlc generated queries used by ProfilesRepo.
type ProfilesQuerier interface {
	GetProfile(ctx context.Context, id pgtype.UUID) (dbgen.Profile, error)
	ListProfilesByAccount(ctx context.Context, arg dbgen.ListProfilesByAccountParams) ([]dbgen.Profile, error)
	CountProfilesByAccount(ctx context.Context, accountID pgtype.UUID) (int64, error)
	CreateProfile(ctx context.Context, arg dbgen.CreateProfileParams) (dbgen.Profile, error)
	DeleteProfile(ctx context.Context, arg dbgen.DeleteProfileParams) (int64, error)
}

// ProfilesRepo maps authenticated users to their account membership.
type ProfilesRepo struct {
	Q ProfilesQuerier
}

// MembershipFor resolves the profile of userID. It is not account scoped since
// it runs before the account is known.
func (r ProfilesRepo) MembershipFor(ctx context.Context, userID string) (tenant.Membership, error) {
	uid, err := UUID(userID)
	if err != nil {
		return tenant.Membership{}, tenant.ErrNoProfile
	}
	p, err := r.Q.GetProfile(ctx, uid)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return tenant.Membership{}, tenant.ErrNoProfile
		}
		return tenant.Membership{}, err
	}
	return tenant.Membership{
		UserID:    UUIDString(p.ID),
		AccountID: UUIDString(p.AccountID),
		Email:     p.Email,
		Role:      tenant.Role(p.Role),
	}, nil
}

// List pages through the profiles of the account bound to ctx.
func (r ProfilesRepo) List(ctx context.Context, limit, offset int32) ([]dbgen.Profile, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return r.Q.ListProfilesByAccount(ctx, dbgen.ListProfilesByAccountParams{
		AccountID:   aid,
		LimitValue:  limit,
		OffsetValue: offset,
	})
}

// Count returns the number of profiles in the account.
func (r ProfilesRepo) Count(ctx context.Context) (int64, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return 0, err
	}
	return r.Q.CountProfilesByAccount(ctx, aid)
}

// Create links an existing auth user to the account bound to ctx.
func (r ProfilesRepo) Create(ctx context.Context, userID, email string, role tenant.Role) (dbgen.Profile, error) {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return dbgen.Profile{}, err
	}
	uid, err := UUID(userID)
	if err != nil {
		return dbgen.Profile{}, err
	}
	return r.Q.CreateProfile(ctx, dbgen.CreateProfileParams{
		ID:        uid,
		AccountID: aid,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Role:      string(role),
	})
}

// Delete unlinks userID from the account.
func (r ProfilesRepo) Delete(ctx context.Context, userID string) error {
	aid, err := accountUUIDFromContext(ctx)
	if err != nil {
		return err
	}
	uid, err := UUID(userID)
	if err != nil {
		return ErrNotFound
	}
	n, err := r.Q.DeleteProfile(ctx, dbgen.DeleteProfileParams{ID: uid, AccountID: aid})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

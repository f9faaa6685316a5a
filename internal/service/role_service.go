package service

import (
	"context"
	"errors"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/auth"
	"github.com/Marga-Ghale/org-portal-backend/internal/db"
	"github.com/Marga-Ghale/org-portal-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ============================================
// Role Service
// ============================================

const roleCacheTTL = 5 * time.Minute

// Cache is the subset of db.RedisDB used for role lookups.
type Cache interface {
	GetCache(ctx context.Context, key string, dest interface{}) error
	SetCache(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DeleteCache(ctx context.Context, key string) error
}

type RoleService interface {
	auth.RoleResolver
	SetRole(ctx context.Context, email string, role auth.Role) error
}

type roleService struct {
	roleRepo repository.RoleRepository
	cache    Cache
	log      *zerolog.Logger
}

// NewRoleService creates the role resolver. cache may be nil.
func NewRoleService(roleRepo repository.RoleRepository, cache Cache, log *zerolog.Logger) RoleService {
	return &roleService{roleRepo: roleRepo, cache: cache, log: log}
}

func (s *roleService) ResolveRole(ctx context.Context, email string) (auth.Role, error) {
	if email == "" {
		return "", auth.ErrNoRoleAssigned
	}

	if s.cache != nil {
		var cached string
		err := s.cache.GetCache(ctx, roleCacheKey(email), &cached)
		if err == nil {
			if role, perr := auth.ParseRole(cached); perr == nil {
				return role, nil
			}
		} else if !errors.Is(err, db.ErrCacheMiss) {
			s.log.Warn().Err(err).Msg("[Roles] Cache read failed, falling back to database")
		}
	}

	value, err := s.roleRepo.FindRole(ctx, email)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", auth.ErrNoRoleAssigned
	}
	role, err := auth.ParseRole(value)
	if err != nil {
		s.log.Error().Str("email", email).Str("role", value).Msg("[Roles] Stored role is not recognized")
		return "", auth.ErrNoRoleAssigned
	}

	if s.cache != nil {
		if err := s.cache.SetCache(ctx, roleCacheKey(email), string(role), roleCacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("[Roles] Cache write failed")
		}
	}
	return role, nil
}

func (s *roleService) SetRole(ctx context.Context, email string, role auth.Role) error {
	if _, err := auth.ParseRole(string(role)); err != nil {
		return ErrInvalidInput
	}
	if err := s.roleRepo.SetRole(ctx, email, string(role)); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.DeleteCache(ctx, roleCacheKey(email)); err != nil {
			s.log.Warn().Err(err).Msg("[Roles] Cache invalidation failed")
		}
	}
	return nil
}

func roleCacheKey(email string) string {
	return "role:" + email
}

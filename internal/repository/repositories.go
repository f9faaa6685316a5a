package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Store      Store
	EventRepo  EventRepository
	MemberRepo MemberRepository
	RoleRepo   RoleRepository
	UserRepo   UserRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Store:      NewStore(pool),
		EventRepo:  NewEventRepository(pool),
		MemberRepo: NewMemberRepository(pool),
		RoleRepo:   NewRoleRepository(pool),
		UserRepo:   NewUserRepository(pool),
	}
}

package service

import (
	"github.com/Marga-Ghale/org-portal-backend/internal/config"
	"github.com/Marga-Ghale/org-portal-backend/internal/email"
	"github.com/Marga-Ghale/org-portal-backend/internal/metrics"
	"github.com/Marga-Ghale/org-portal-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Roles        RoleService
	Attendance   AttendanceService
	Events       EventService
	Members      MemberService
	Notification NotificationService
}

// Publisher pushes committed changes to realtime subscribers.
type Publisher interface {
	AttendancePublisher
	EventPublisher
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config    *config.Config
	Repos     *repository.Repositories
	Cache     Cache
	Sender    email.Sender
	Publisher Publisher
	Metrics   *metrics.Metrics
	Log       *zerolog.Logger
}

func NewServices(deps *ServiceDeps) *Services {
	notification := NewNotificationService(
		deps.Sender,
		deps.Repos.EventRepo,
		deps.Repos.MemberRepo,
		deps.Repos.UserRepo,
		deps.Config.FrontendURL,
		deps.Metrics,
		deps.Log,
	)

	return &Services{
		Roles: NewRoleService(deps.Repos.RoleRepo, deps.Cache, deps.Log),
		Attendance: NewAttendanceService(
			deps.Repos.Store,
			deps.Repos.EventRepo,
			deps.Repos.UserRepo,
			deps.Config.CheckInMaxDistance,
			deps.Publisher,
			deps.Metrics,
			deps.Log,
		),
		Events:       NewEventService(deps.Repos.EventRepo, notification, deps.Publisher, deps.Log),
		Members:      NewMemberService(deps.Repos.Store, deps.Repos.MemberRepo, deps.Log),
		Notification: notification,
	}
}

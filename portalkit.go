// Package portalkit is the resilient client and session kit for the
// SENSES blood-sample logistics admin portal: a cookie-backed session
// lifecycle, a retrying REST client and a de-duplicating query cache,
// wired together behind one facade.
package portalkit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sensesdx/portalkit/cache"
	"github.com/sensesdx/portalkit/core"
	"github.com/sensesdx/portalkit/notify"
	"github.com/sensesdx/portalkit/pkg/cookie"
	"github.com/sensesdx/portalkit/query"
	"github.com/sensesdx/portalkit/rest"
	"github.com/sensesdx/portalkit/session"
)

// interfaces
type (
	CookieStore = core.CookieStore
	Cache       = core.Cache
	Notifier    = core.Notifier
)

// structs
type (
	User            = core.User
	Order           = core.Order
	OrderStatistics = core.OrderStatistics
	OrderFilters    = core.OrderFilters
	DateRange       = core.DateRange
	CreateUserInput = core.CreateUserInput
	UpdateUserInput = core.UpdateUserInput
	LoginResult     = core.LoginResult
	APIError        = core.APIError
	RetryPolicy     = rest.RetryPolicy
	CacheConfig     = core.CacheConfig
	CacheStats      = core.CacheStats
)

// Views and roles
const (
	ViewDashboard  = core.ViewDashboard
	ViewOrders     = core.ViewOrders
	ViewUsers      = core.ViewUsers
	ViewExecutives = core.ViewExecutives
	ViewReports    = core.ViewReports
	DefaultView    = core.DefaultView

	RoleAdmin          = core.RoleAdmin
	RoleFieldExecutive = core.RoleFieldExecutive
	RoleHospitalStaff  = core.RoleHospitalStaff
)

// Constructors & helpers (convenience re-exports)
var (
	NewJar         = cookie.NewJar
	NewMemoryCache = cache.NewMemory
	NewRecorder    = notify.NewRecorder
	CanAccess      = core.CanAccess
	Views          = core.Views
)

var (
	ErrUnauthorized    = core.ErrUnauthorized
	ErrSessionMissing  = core.ErrSessionMissing
	ErrAlreadyLoggedIn = core.ErrAlreadyLoggedIn
)

type Config struct {
	BaseURL string

	// Optional config
	Cookies         core.CookieStore
	Cache           core.Cache
	Notifier        core.Notifier
	Logger          *zap.Logger
	Timeout         time.Duration
	Retry           *rest.RetryPolicy
	QueryRetries    int
	QueryRetryDelay time.Duration
}

// Portal bundles the wired subsystems. Views talk to Portal (or to the
// fiber adapter sitting on top of it) and never to the REST client
// directly.
type Portal struct {
	Session *session.Controller
	Client  *rest.Client
	Queries *query.Client
	Cookies core.CookieStore
}

func New(config Config) (*Portal, error) {
	if config.BaseURL == "" {
		return nil, core.ErrBaseURLRequired
	}

	// Set Defaults

	cookies := config.Cookies
	if cookies == nil {
		cookies = cookie.NewJar()
	}

	cacheAdapter := config.Cache
	if cacheAdapter == nil {
		cacheAdapter = cache.NewMemory(core.CacheConfig{
			TTL:     5 * time.Minute,
			MaxSize: 500,
		})
	}

	notifier := config.Notifier
	if notifier == nil {
		notifier = notify.NewRecorder()
	}

	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var controller *session.Controller

	client, err := rest.New(rest.Config{
		BaseURL: config.BaseURL,
		Cookies: cookies,
		Timeout: config.Timeout,
		Retry:   config.Retry,
		Logger:  log,
		OnUnauthorized: func() {
			if controller != nil {
				controller.ForcedLogout()
			}
		},
	})
	if err != nil {
		return nil, err
	}

	queries := query.New(query.Config{
		Cache:      cacheAdapter,
		Notifier:   notifier,
		Retries:    config.QueryRetries,
		RetryDelay: config.QueryRetryDelay,
		Logger:     log,
	})

	controller = session.New(session.Config{
		Cookies: cookies,
		Client:  client,
		Queries: queries,
		Logger:  log,
	})

	return &Portal{
		Session: controller,
		Client:  client,
		Queries: queries,
		Cookies: cookies,
	}, nil
}

// ============================================
// QUERIES
// ============================================

// OrderStatisticsQuery fetches the dashboard counters through the cache.
func (p *Portal) OrderStatisticsQuery(ctx context.Context) (*core.OrderStatistics, error) {
	key := query.Key(rest.PathOrderStatistics, nil)
	return query.Fetch(ctx, p.Queries, key, func(ctx context.Context) (*core.OrderStatistics, error) {
		return p.Client.GetOrderStatistics(ctx)
	})
}

// OrdersQuery lists orders for a filter set through the cache.
func (p *Portal) OrdersQuery(ctx context.Context, filters core.OrderFilters) ([]core.Order, error) {
	key := query.Key(rest.PathOrders, filters)
	return query.Fetch(ctx, p.Queries, key, func(ctx context.Context) ([]core.Order, error) {
		return p.Client.GetOrders(ctx, filters)
	})
}

// RefetchOrders forces a fresh orders read, ignoring cache freshness.
func (p *Portal) RefetchOrders(ctx context.Context, filters core.OrderFilters) ([]core.Order, error) {
	key := query.Key(rest.PathOrders, filters)
	return query.Refetch(ctx, p.Queries, key, func(ctx context.Context) ([]core.Order, error) {
		return p.Client.GetOrders(ctx, filters)
	})
}

// UsersQuery lists accounts with the given role through the cache.
func (p *Portal) UsersQuery(ctx context.Context, role string) ([]core.User, error) {
	key := query.Key(rest.PathUsers, map[string]string{"role": role})
	return query.Fetch(ctx, p.Queries, key, func(ctx context.Context) ([]core.User, error) {
		return p.Client.GetUsers(ctx, role)
	})
}

// ReportStatisticsQuery fetches report counters for a date range.
func (p *Portal) ReportStatisticsQuery(ctx context.Context, r core.DateRange) (*core.OrderStatistics, error) {
	key := query.Key(rest.PathReportStatistics, r)
	return query.Fetch(ctx, p.Queries, key, func(ctx context.Context) (*core.OrderStatistics, error) {
		return p.Client.GetReportStatistics(ctx, r)
	})
}

// HospitalReportsQuery lists report rows for a filter set.
func (p *Portal) HospitalReportsQuery(ctx context.Context, filters core.OrderFilters) ([]core.Order, error) {
	key := query.Key(rest.PathHospitalReports, filters)
	return query.Fetch(ctx, p.Queries, key, func(ctx context.Context) ([]core.Order, error) {
		return p.Client.GetHospitalReports(ctx, filters)
	})
}

// ============================================
// MUTATIONS
// ============================================

// ordersFamily prefixes every cached orders read, dashboard statistics
// included, matching the invalidation breadth of the portal UI.
const ordersFamily = "orders"

// AssignOrder hands a Created order to a field executive. On success
// the orders key family is stale before the notification fires.
func (p *Portal) AssignOrder(ctx context.Context, orderID, fieldExecutiveID string) (*core.Order, error) {
	hooks := query.Hooks{
		Invalidates: []string{ordersFamily},
		OnSuccess:   "Order assigned successfully",
		OnError:     "Failed to assign order",
	}
	return query.Mutate(ctx, p.Queries, hooks, func(ctx context.Context) (*core.Order, error) {
		return p.Client.AssignOrder(ctx, orderID, fieldExecutiveID)
	})
}

// AdminCredential chains a set-password call after creating an
// administrator account.
type AdminCredential struct {
	Password        string
	ConfirmPassword string
}

// CreateUser registers an account and invalidates the field-executive
// listing. When cred is non-nil the admin onboarding chain runs before
// the success notification.
func (p *Portal) CreateUser(ctx context.Context, input core.CreateUserInput, cred *AdminCredential) (*core.User, error) {
	hooks := query.Hooks{
		Invalidates: []string{query.Key(rest.PathUsers, map[string]string{"role": core.RoleFieldExecutive})},
		OnSuccess:   "User created successfully",
		OnError:     "Error creating user",
	}
	return query.Mutate(ctx, p.Queries, hooks, func(ctx context.Context) (*core.User, error) {
		user, err := p.Client.CreateUser(ctx, input)
		if err != nil {
			return nil, err
		}
		if cred != nil {
			if err := p.Client.SetPassword(ctx, core.SetPasswordInput{
				Phone:           input.Phone,
				Password:        cred.Password,
				ConfirmPassword: cred.ConfirmPassword,
			}); err != nil {
				return nil, err
			}
		}
		return user, nil
	})
}

// UpdateStatus toggles an account's isActive flag.
func (p *Portal) UpdateStatus(ctx context.Context, id string, isActive bool) (*core.User, error) {
	hooks := query.Hooks{
		OnSuccess: "User status updated successfully",
		OnError:   "Error updating user status",
	}
	return query.Mutate(ctx, p.Queries, hooks, func(ctx context.Context) (*core.User, error) {
		return p.Client.UpdateStatus(ctx, id, isActive)
	})
}

// UpdateUser changes an account's profile and invalidates the listing
// for its role.
func (p *Portal) UpdateUser(ctx context.Context, input core.UpdateUserInput, role string) (*core.User, error) {
	hooks := query.Hooks{
		Invalidates: []string{query.Key(rest.PathUsers, map[string]string{"role": role})},
		OnSuccess:   "User updated successfully",
		OnError:     "Error updating user",
	}
	return query.Mutate(ctx, p.Queries, hooks, func(ctx context.Context) (*core.User, error) {
		return p.Client.UpdateUser(ctx, input)
	})
}

// ForgotPassword starts the reset flow for the account behind phone.
func (p *Portal) ForgotPassword(ctx context.Context, phone string) error {
	hooks := query.Hooks{
		OnSuccess: "Password reset link sent successfully",
		OnError:   "Failed to send password reset link",
	}
	_, err := query.Mutate(ctx, p.Queries, hooks, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.Client.ForgotPassword(ctx, phone)
	})
	return err
}

// ResetPassword completes a reset flow.
func (p *Portal) ResetPassword(ctx context.Context, token, password string) error {
	hooks := query.Hooks{
		OnSuccess: "Password reset successfully",
		OnError:   "Failed to reset password",
	}
	_, err := query.Mutate(ctx, p.Queries, hooks, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.Client.ResetPassword(ctx, token, password)
	})
	return err
}

package domain

import (
	"context"
	"time"

	"roombook/internal/models"
)

// BookingTx is the unit of work handed to BookingStore.WithinTx. All reads
// made through it observe the writes of the same transaction.
type BookingTx interface {
	// LockResource serializes booking writers for one resource until commit.
	LockResource(ctx context.Context, resourceID string) error
	CreatedBookingsForResource(ctx context.Context, resourceID string) ([]*models.Booking, error)
	InsertBooking(ctx context.Context, booking *models.Booking) error
	// GetBooking reads the booking with a row lock held until commit.
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	MarkBookingCancelled(ctx context.Context, id string) error
	AppendAuditEvent(ctx context.Context, event *models.AuditEvent) error
}

type BookingStore interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx BookingTx) error) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	GetUserBookings(ctx context.Context, userID string) ([]*models.Booking, error)
	ListAuditEvents(ctx context.Context, filter models.AuditFilter) ([]*models.AuditEvent, error)
}

type ResourceRepository interface {
	GetActiveResources(ctx context.Context) ([]*models.Resource, error)
	GetResourceByID(ctx context.Context, id string) (*models.Resource, error)
	GetResourceByName(ctx context.Context, name string) (*models.Resource, error)
	CreateResource(ctx context.Context, resource *models.Resource) error
	UpdateResource(ctx context.Context, resource *models.Resource) error
	SetResourceActive(ctx context.Context, id string, active bool) error
}

type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertUser(ctx context.Context, user *models.User) error
}

// Store is implemented by every storage backend (sqlite, postgres).
type Store interface {
	BookingStore
	ResourceRepository
	UserRepository
	Ping(ctx context.Context) error
	Close() error
}

// ResourceCatalog answers whether a resource can currently be booked.
type ResourceCatalog interface {
	IsBookable(ctx context.Context, resourceID string) (bool, error)
	GetActiveResources(ctx context.Context) ([]*models.Resource, error)
}

type ResourceCache interface {
	GetActiveResources(ctx context.Context) ([]*models.Resource, bool, error)
	SetActiveResources(ctx context.Context, resources []*models.Resource, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID, actorEmail, resourceID string, start, end time.Time) (*models.Booking, error)
	ListBookingsForUser(ctx context.Context, userID string) ([]*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, callerUserID, callerRole, actorEmail string) error
	ListAuditEvents(ctx context.Context, filter models.AuditFilter) ([]*models.AuditEvent, error)
}

type ResourceService interface {
	ResourceCatalog
	CreateResource(ctx context.Context, name, description string) (*models.Resource, error)
	SetResourceActive(ctx context.Context, id string, active bool) error
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
}

type SeedService interface {
	Seed(ctx context.Context) error
}

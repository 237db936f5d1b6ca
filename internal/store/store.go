package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a product or subscriber does not exist.
var ErrNotFound = errors.New("store: not found")

// Product is one licensed product's record.
type Product struct {
	ID      string
	Title   string
	OwnerID int
	Version string

	// Status is one of: working | on_update | stopped.
	Status string

	CreatedDate time.Time
	UpdatedDate time.Time
}

// Subscriber is one device subscription record within a product's
// subscriber set.
type Subscriber struct {
	// Identity is the opaque per-device secret (e.g. a hashed hardware
	// identifier). Unique within a product's subscriber set.
	Identity string

	UserID   int
	UserName string

	StartDate  time.Time
	ExpireDate time.Time

	// Lifetime overrides ExpireDate entirely when true.
	Lifetime bool

	// Active is the operator kill switch; when false the subscription is
	// suspended regardless of dates.
	Active bool

	IPStart            string
	IPLast             string
	LastOnline         time.Time
	SubscriptionsCount int
}

// Store is the document-store capability consumed by the handlers.
type Store interface {
	// ProductExists reports whether a product with the given ID exists.
	ProductExists(ctx context.Context, productID string) (bool, error)

	// FindSubscriber returns the subscriber with the given identity within
	// the product's subscriber set, or ErrNotFound if either the product or
	// the subscriber is unknown.
	FindSubscriber(ctx context.Context, productID, identity string) (*Subscriber, error)
}

// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitbill/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// BillFilter narrows ListBills. Zero values mean no filter.
type BillFilter struct {
	Category models.Category

	// Since keeps bills dated on or after this YYYY-MM-DD day.
	Since string
}

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category models.Category
	Total    float64
	Bills    int
}

// Store defines the interface for bill and friend storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateBill persists a new bill with its items and computed shares.
	// The bill.ID field (and any empty item IDs) will be populated by the store.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by its ID.
	// Returns an error wrapping ErrNotFound if the bill does not exist.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBills returns bills newest first.
	ListBills(ctx context.Context, filter BillFilter) ([]*models.Bill, error)

	// DeleteBill removes a bill and everything attached to it.
	DeleteBill(ctx context.Context, billID string) error

	// MarkSharePaid sets the paid flag of one participant's share.
	MarkSharePaid(ctx context.Context, billID, participant string, paid bool) error

	// SpendingByCategory sums bill totals per category for bills dated on or
	// after since (YYYY-MM-DD).
	SpendingByCategory(ctx context.Context, since string) ([]CategoryTotal, error)

	// CreateFriend adds a friend to the directory.
	CreateFriend(ctx context.Context, friend *models.Friend) error

	// FindFriendByContact returns a friend with the same email or phone, or nil.
	FindFriendByContact(ctx context.Context, email, phone string) (*models.Friend, error)

	// ListFriends returns friends ordered by name, optionally matching query
	// against name, email and phone.
	ListFriends(ctx context.Context, query string) ([]*models.Friend, error)

	// DeleteFriend removes a friend from the directory.
	DeleteFriend(ctx context.Context, friendID string) error

	// Close releases any resources held by the store.
	Close() error
}

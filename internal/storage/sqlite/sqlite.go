// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBill persists a new bill, its items, participants and shares in one transaction.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	// Generate IDs if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Date == "" {
		bill.Date = time.Unix(bill.CreatedAt, 0).UTC().Format("2006-01-02")
	}
	if bill.Title == "" {
		bill.Title = generateTitle(bill.Category, bill.Participants)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, title, category, date, payer_id, tax, tip, additional, unassigned, nights, location, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.Title, string(bill.Category), bill.Date, bill.PayerID,
		bill.Tax, bill.Tip, bill.Additional, bill.Unassigned, bill.Nights, bill.Location, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i, name := range bill.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO participants (bill_id, position, name) VALUES (?, ?, ?)",
			bill.ID, i, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i := range bill.Items {
		item := &bill.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, bill_id, position, name, price, quantity, unit_price) VALUES (?, ?, ?, ?, ?, ?, ?)",
			item.ID, bill.ID, i, item.Name, item.Price, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for j, participant := range item.AssignedTo {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO item_assignments (item_id, position, participant) VALUES (?, ?, ?)",
				item.ID, j, participant,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}

	for i, share := range bill.Shares {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO shares (bill_id, position, participant, subtotal, surcharge, amount, paid)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			bill.ID, i, share.Participant, share.Subtotal, share.Surcharge, share.Amount, share.Paid,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBill retrieves a bill by ID, including items, participants and shares.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var category string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, category, date, payer_id, tax, tip, additional, unassigned, nights, location, created_at
		 FROM bills WHERE id = ?`,
		billID,
	).Scan(&bill.ID, &bill.Title, &category, &bill.Date, &bill.PayerID,
		&bill.Tax, &bill.Tip, &bill.Additional, &bill.Unassigned, &bill.Nights, &bill.Location, &bill.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.Category = models.Category(category)

	if bill.Participants, err = s.participants(ctx, billID); err != nil {
		return nil, err
	}
	if bill.Items, err = s.items(ctx, billID); err != nil {
		return nil, err
	}
	if bill.Shares, err = s.shares(ctx, billID); err != nil {
		return nil, err
	}

	return bill, nil
}

func (s *SQLiteStore) participants(ctx context.Context, billID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM participants WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return names, nil
}

func (s *SQLiteStore) items(ctx context.Context, billID string) ([]models.LineItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price, quantity, unit_price FROM items WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}

	var items []models.LineItem
	index := make(map[string]int)
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &item.UnitPrice); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		index[item.ID] = len(items)
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	// Assignments for all items in one query, rather than one per item.
	assignRows, err := s.db.QueryContext(ctx,
		`SELECT a.item_id, a.participant FROM item_assignments a
		 JOIN items i ON i.id = a.item_id
		 WHERE i.bill_id = ? ORDER BY i.position, a.position`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get item assignments: %w", err)
	}
	defer assignRows.Close()

	for assignRows.Next() {
		var itemID, participant string
		if err := assignRows.Scan(&itemID, &participant); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].AssignedTo = append(items[i].AssignedTo, participant)
		}
	}
	if err := assignRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}

	return items, nil
}

// ListBills returns bills newest first, narrowed by filter.
func (s *SQLiteStore) ListBills(ctx context.Context, filter storage.BillFilter) ([]*models.Bill, error) {
	query := "SELECT id FROM bills"
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, string(filter.Category))
	}
	if filter.Since != "" {
		conds = append(conds, "date >= ?")
		args = append(args, filter.Since)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan bill id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	bills := make([]*models.Bill, 0, len(ids))
	for _, id := range ids {
		bill, err := s.GetBill(ctx, id)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

// DeleteBill removes a bill by ID. Items, participants and shares cascade.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	return nil
}

// SpendingByCategory sums bill totals (items plus surcharges) per category.
func (s *SQLiteStore) SpendingByCategory(ctx context.Context, since string) ([]storage.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.category,
		        SUM(b.tax + b.tip + b.additional +
		            COALESCE((SELECT SUM(i.price) FROM items i WHERE i.bill_id = b.id), 0)),
		        COUNT(*)
		 FROM bills b
		 WHERE b.date >= ?
		 GROUP BY b.category`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum spending: %w", err)
	}
	defer rows.Close()

	var totals []storage.CategoryTotal
	for rows.Next() {
		var (
			t        storage.CategoryTotal
			category string
		)
		if err := rows.Scan(&category, &t.Total, &t.Bills); err != nil {
			return nil, fmt.Errorf("failed to scan spending: %w", err)
		}
		t.Category = models.Category(category)
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate spending: %w", err)
	}
	return totals, nil
}

// generateTitle creates an auto-generated title from category and participants.
func generateTitle(category models.Category, participants []string) string {
	prefix := "Bill"
	if category != "" {
		prefix = strings.ToUpper(string(category[:1])) + string(category[1:])
	}
	if len(participants) == 0 {
		return fmt.Sprintf("%s - %s", prefix, time.Now().Format("Jan 2, 2006"))
	}
	if len(participants) <= 3 {
		return fmt.Sprintf("%s with %s", prefix, strings.Join(participants, ", "))
	}
	return fmt.Sprintf("%s with %s and %d others",
		prefix,
		strings.Join(participants[:2], ", "),
		len(participants)-2,
	)
}

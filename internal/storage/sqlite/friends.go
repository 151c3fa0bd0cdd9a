package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

const friendColumns = "id, name, email, phone, created_at"

// CreateFriend inserts a new friend into the directory.
func (s *SQLiteStore) CreateFriend(ctx context.Context, friend *models.Friend) error {
	if friend.ID == "" {
		friend.ID = uuid.New().String()
	}
	if friend.CreatedAt == 0 {
		friend.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO friends ("+friendColumns+") VALUES (?, ?, ?, ?, ?)",
		friend.ID, friend.Name, friend.Email, friend.Phone, friend.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create friend: %w", err)
	}
	return nil
}

// FindFriendByContact looks up a friend sharing the email or the phone number.
// Blank values never match. Returns nil, nil when there is no such friend.
func (s *SQLiteStore) FindFriendByContact(ctx context.Context, email, phone string) (*models.Friend, error) {
	if email == "" && phone == "" {
		return nil, nil
	}

	friend := &models.Friend{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+friendColumns+` FROM friends
		 WHERE (? != '' AND lower(email) = lower(?)) OR (? != '' AND phone = ?)
		 LIMIT 1`,
		email, email, phone, phone,
	).Scan(&friend.ID, &friend.Name, &friend.Email, &friend.Phone, &friend.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend: %w", err)
	}
	return friend, nil
}

// ListFriends returns friends ordered by name. A non-empty query matches name
// and email case-insensitively and phone as a plain substring.
func (s *SQLiteStore) ListFriends(ctx context.Context, query string) ([]*models.Friend, error) {
	q := "SELECT " + friendColumns + " FROM friends"
	var args []any
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q += " WHERE lower(name) LIKE ? OR lower(email) LIKE ? OR phone LIKE ?"
		args = append(args, like, like, "%"+query+"%")
	}
	q += " ORDER BY lower(name), created_at"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	var friends []*models.Friend
	for rows.Next() {
		friend := &models.Friend{}
		if err := rows.Scan(&friend.ID, &friend.Name, &friend.Email, &friend.Phone, &friend.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, friend)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate friends: %w", err)
	}
	return friends, nil
}

// DeleteFriend removes a friend by ID.
func (s *SQLiteStore) DeleteFriend(ctx context.Context, friendID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM friends WHERE id = ?", friendID)
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete friend: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("friend %s: %w", friendID, storage.ErrNotFound)
	}
	return nil
}

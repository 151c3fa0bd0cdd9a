package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
)

func (s *SQLiteStore) shares(ctx context.Context, billID string) ([]models.Share, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT participant, subtotal, surcharge, amount, paid
		 FROM shares WHERE bill_id = ? ORDER BY position`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var share models.Share
		if err := rows.Scan(&share.Participant, &share.Subtotal, &share.Surcharge, &share.Amount, &share.Paid); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

// MarkSharePaid records whether participant has paid their share of a bill.
func (s *SQLiteStore) MarkSharePaid(ctx context.Context, billID, participant string, paid bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE shares SET paid = ? WHERE bill_id = ? AND participant = ?",
		paid, billID, participant,
	)
	if err != nil {
		return fmt.Errorf("failed to update share: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update share: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("share of %s on bill %s: %w", participant, billID, storage.ErrNotFound)
	}
	return nil
}

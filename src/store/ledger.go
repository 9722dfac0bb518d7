package store

import (
	"fmt"

	"github.com/username/kopilka/backend/src/models"
)

func (s *Store) CreateTransaction(tx *models.Transaction) error {
	res, err := s.db.Exec(
		`INSERT INTO transactions (amount, description, category, kind, date, account_id, user_id, group_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.Amount.StringFixed(2), tx.Description, tx.Category, tx.Kind, tx.Date,
		tx.AccountID, tx.UserID, tx.GroupID)
	if err != nil {
		return fmt.Errorf("error inserting transaction %q: %w", tx.Description, err)
	}
	tx.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error getting inserted transaction id: %w", err)
	}
	return nil
}

func (s *Store) TransactionsByGroup(groupID string) ([]models.Transaction, error) {
	rows, err := s.db.Query(`
		SELECT id, amount, description, category, kind, date, account_id, user_id, group_id, created_at
		FROM transactions WHERE group_id = ?
		ORDER BY date ASC, id ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions for group %s: %w", groupID, err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.Amount, &tx.Description, &tx.Category, &tx.Kind,
			&tx.Date, &tx.AccountID, &tx.UserID, &tx.GroupID, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}

func (s *Store) DeleteTransaction(id, userID int64) error {
	res, err := s.db.Exec(`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting transaction %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateTransfer(transfer *models.Transfer) error {
	if transfer.FromAccountID == transfer.ToAccountID {
		return fmt.Errorf("transfer source and destination accounts must differ")
	}
	res, err := s.db.Exec(
		`INSERT INTO transfers (from_amount, to_amount, description, date, from_account_id, to_account_id, user_id, group_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		transfer.FromAmount.StringFixed(2), transfer.ToAmount.StringFixed(2),
		transfer.Description, transfer.Date, transfer.FromAccountID, transfer.ToAccountID,
		transfer.UserID, transfer.GroupID)
	if err != nil {
		return fmt.Errorf("error inserting transfer %q: %w", transfer.Description, err)
	}
	transfer.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error getting inserted transfer id: %w", err)
	}
	return nil
}

func (s *Store) TransfersByGroup(groupID string) ([]models.Transfer, error) {
	rows, err := s.db.Query(`
		SELECT id, from_amount, to_amount, description, date, from_account_id, to_account_id, user_id, group_id, created_at
		FROM transfers WHERE group_id = ?
		ORDER BY date ASC, id ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("error querying transfers for group %s: %w", groupID, err)
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var transfer models.Transfer
		if err := rows.Scan(&transfer.ID, &transfer.FromAmount, &transfer.ToAmount,
			&transfer.Description, &transfer.Date, &transfer.FromAccountID, &transfer.ToAccountID,
			&transfer.UserID, &transfer.GroupID, &transfer.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning transfer row: %w", err)
		}
		transfers = append(transfers, transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfer rows: %w", err)
	}
	return transfers, nil
}

func (s *Store) DeleteTransfer(id, userID int64) error {
	res, err := s.db.Exec(`DELETE FROM transfers WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting transfer %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

package store

import (
	"database/sql"
	"fmt"

	"github.com/username/kopilka/backend/src/models"
)

const accountColumns = `a.id, a.name, a.type, a.balance, a.currency_id, c.code, a.user_id, a.group_id, a.created_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	var account models.Account
	err := row.Scan(&account.ID, &account.Name, &account.Type, &account.Balance,
		&account.CurrencyID, &account.CurrencyCode, &account.UserID, &account.GroupID, &account.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// AccountByName matches scoped to the owner and group: imports by one user
// must never attach to another user's account just because names collide.
func (s *Store) AccountByName(userID int64, groupID, name string) (*models.Account, error) {
	account, err := scanAccount(s.db.QueryRow(`
		SELECT `+accountColumns+`
		FROM accounts a JOIN currencies c ON c.id = a.currency_id
		WHERE a.user_id = ? AND a.group_id = ? AND a.name = ?`, userID, groupID, name))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying account %q: %w", name, err)
	}
	return account, nil
}

func (s *Store) AccountByID(id int64) (*models.Account, error) {
	account, err := scanAccount(s.db.QueryRow(`
		SELECT `+accountColumns+`
		FROM accounts a JOIN currencies c ON c.id = a.currency_id
		WHERE a.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying account %d: %w", id, err)
	}
	return account, nil
}

func (s *Store) CreateAccount(account *models.Account) error {
	res, err := s.db.Exec(
		`INSERT INTO accounts (name, type, balance, currency_id, user_id, group_id) VALUES (?, ?, ?, ?, ?, ?)`,
		account.Name, account.Type, account.Balance.StringFixed(2),
		account.CurrencyID, account.UserID, account.GroupID)
	if err != nil {
		return fmt.Errorf("error inserting account %q: %w", account.Name, err)
	}
	account.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error getting inserted account id: %w", err)
	}
	return nil
}

func (s *Store) UpdateAccount(account *models.Account) error {
	res, err := s.db.Exec(
		`UPDATE accounts SET name = ?, type = ?, balance = ?, currency_id = ? WHERE id = ? AND user_id = ?`,
		account.Name, account.Type, account.Balance.StringFixed(2),
		account.CurrencyID, account.ID, account.UserID)
	if err != nil {
		return fmt.Errorf("error updating account %d: %w", account.ID, err)
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

func (s *Store) DeleteAccount(id, userID int64) error {
	res, err := s.db.Exec(`DELETE FROM accounts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("error deleting account %d: %w", id, err)
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

func (s *Store) AccountsByGroup(groupID string) ([]models.Account, error) {
	rows, err := s.db.Query(`
		SELECT `+accountColumns+`
		FROM accounts a JOIN currencies c ON c.id = a.currency_id
		WHERE a.group_id = ?
		ORDER BY a.created_at ASC, a.id ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("error querying accounts for group %s: %w", groupID, err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning account row: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

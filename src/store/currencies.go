package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/username/kopilka/backend/src/models"
)

func (s *Store) CurrencyByCode(code string) (*models.Currency, error) {
	var cur models.Currency
	err := s.db.QueryRow(
		`SELECT id, code, name, symbol, is_active FROM currencies WHERE code = ?`,
		strings.ToUpper(code)).Scan(&cur.ID, &cur.Code, &cur.Name, &cur.Symbol, &cur.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying currency %q: %w", code, err)
	}
	return &cur, nil
}

func (s *Store) CreateCurrency(cur *models.Currency) error {
	cur.Code = strings.ToUpper(cur.Code)
	res, err := s.db.Exec(
		`INSERT INTO currencies (code, name, symbol, is_active) VALUES (?, ?, ?, ?)`,
		cur.Code, cur.Name, cur.Symbol, cur.IsActive)
	if err != nil {
		return fmt.Errorf("error inserting currency %q: %w", cur.Code, err)
	}
	cur.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error getting inserted currency id: %w", err)
	}
	return nil
}

func (s *Store) Currencies() ([]models.Currency, error) {
	rows, err := s.db.Query(`SELECT id, code, name, symbol, is_active FROM currencies ORDER BY code ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying currencies: %w", err)
	}
	defer rows.Close()

	var currencies []models.Currency
	for rows.Next() {
		var cur models.Currency
		if err := rows.Scan(&cur.ID, &cur.Code, &cur.Name, &cur.Symbol, &cur.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning currency row: %w", err)
		}
		currencies = append(currencies, cur)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", err)
	}
	return currencies, nil
}

// ActiveCurrencyCodes lists the codes the rate service needs quotes for.
func (s *Store) ActiveCurrencyCodes() ([]string, error) {
	rows, err := s.db.Query(`SELECT code FROM currencies WHERE is_active = TRUE ORDER BY code ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying active currency codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("error scanning currency code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency codes: %w", err)
	}
	return codes, nil
}

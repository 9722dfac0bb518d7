// Package store is the persistence layer: owner/group-scoped CRUD over the
// relational schema. Services depend on the narrow interfaces they declare,
// not on this package's concrete type.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/username/kopilka/backend/src/models"
)

// ErrNotFound is returned by finders when no row matches.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateUser(user *models.User) error {
	res, err := s.db.Exec(
		`INSERT INTO users (username, password, email) VALUES (?, ?, ?)`,
		user.Username, user.Password, user.Email)
	if err != nil {
		return fmt.Errorf("error inserting user %q: %w", user.Username, err)
	}
	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error getting inserted user id: %w", err)
	}
	return nil
}

func (s *Store) UserByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(
		`SELECT id, username, password, email, created_at FROM users WHERE username = ?`,
		username).Scan(&user.ID, &user.Username, &user.Password, &user.Email, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user %q: %w", username, err)
	}
	return &user, nil
}

func (s *Store) UserByID(id int64) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(
		`SELECT id, username, password, email, created_at FROM users WHERE id = ?`,
		id).Scan(&user.ID, &user.Username, &user.Password, &user.Email, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user %d: %w", id, err)
	}
	return &user, nil
}

func (s *Store) CreateSession(session *models.Session) error {
	res, err := s.db.Exec(
		`INSERT INTO sessions (user_id, token, refresh_token, expires_at) VALUES (?, ?, ?, ?)`,
		session.UserID, session.Token, session.RefreshToken, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("error inserting session for user %d: %w", session.UserID, err)
	}
	session.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error getting inserted session id: %w", err)
	}
	return nil
}

func (s *Store) SessionByToken(token string) (*models.Session, error) {
	var session models.Session
	err := s.db.QueryRow(
		`SELECT id, user_id, token, refresh_token, expires_at, created_at FROM sessions WHERE token = ?`,
		token).Scan(&session.ID, &session.UserID, &session.Token, &session.RefreshToken,
		&session.ExpiresAt, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying session: %w", err)
	}
	return &session, nil
}

func (s *Store) SessionByRefreshToken(refreshToken string) (*models.Session, error) {
	var session models.Session
	err := s.db.QueryRow(
		`SELECT id, user_id, token, refresh_token, expires_at, created_at FROM sessions WHERE refresh_token = ?`,
		refreshToken).Scan(&session.ID, &session.UserID, &session.Token, &session.RefreshToken,
		&session.ExpiresAt, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying session by refresh token: %w", err)
	}
	return &session, nil
}

// UpdateSessionTokens rotates both tokens of an existing session.
func (s *Store) UpdateSessionTokens(id int64, token, refreshToken string, expiresAt time.Time) error {
	res, err := s.db.Exec(
		`UPDATE sessions SET token = ?, refresh_token = ?, expires_at = ? WHERE id = ?`,
		token, refreshToken, expiresAt, id)
	if err != nil {
		return fmt.Errorf("error updating session %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking updated session %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteSessionByToken(token string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

package store

import (
	"database/sql"
	"fmt"

	"github.com/username/kopilka/backend/src/models"
)

// CreateGroup inserts the group and its creator's admin membership in one
// transaction.
func (s *Store) CreateGroup(group *models.Group) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO groups (id, name, created_by) VALUES (?, ?, ?)`,
		group.ID, group.Name, group.CreatedBy); err != nil {
		return fmt.Errorf("error inserting group %q: %w", group.Name, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO group_members (group_id, user_id, role) VALUES (?, ?, ?)`,
		group.ID, group.CreatedBy, models.RoleAdmin); err != nil {
		return fmt.Errorf("error inserting admin membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing group creation: %w", err)
	}
	return nil
}

func (s *Store) GroupByID(id string) (*models.Group, error) {
	var group models.Group
	err := s.db.QueryRow(
		`SELECT id, name, created_by, created_at FROM groups WHERE id = ?`,
		id).Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying group %s: %w", id, err)
	}
	return &group, nil
}

func (s *Store) AddGroupMember(groupID string, userID int64, role string) error {
	if _, err := s.db.Exec(
		`INSERT INTO group_members (group_id, user_id, role) VALUES (?, ?, ?)`,
		groupID, userID, role); err != nil {
		return fmt.Errorf("error adding user %d to group %s: %w", userID, groupID, err)
	}
	return nil
}

func (s *Store) IsGroupMember(groupID string, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking membership: %w", err)
	}
	return true, nil
}

func (s *Store) GroupsForUser(userID int64) ([]models.Group, error) {
	rows, err := s.db.Query(`
		SELECT g.id, g.name, g.created_by, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY gm.joined_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying groups for user %d: %w", userID, err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning group row: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}
	return groups, nil
}

func (s *Store) GroupMembers(groupID string) ([]models.GroupMember, error) {
	rows, err := s.db.Query(`
		SELECT group_id, user_id, role, is_default, joined_at
		FROM group_members WHERE group_id = ?
		ORDER BY joined_at ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("error querying members of group %s: %w", groupID, err)
	}
	defer rows.Close()

	var members []models.GroupMember
	for rows.Next() {
		var member models.GroupMember
		if err := rows.Scan(&member.GroupID, &member.UserID, &member.Role,
			&member.IsDefault, &member.JoinedAt); err != nil {
			return nil, fmt.Errorf("error scanning member row: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return members, nil
}

// SetDefaultGroup enforces the single-default-per-user invariant: all of the
// user's defaults are cleared before the new one is set, in one transaction.
func (s *Store) SetDefaultGroup(userID int64, groupID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE group_members SET is_default = FALSE WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("error clearing default groups for user %d: %w", userID, err)
	}
	res, err := tx.Exec(
		`UPDATE group_members SET is_default = TRUE WHERE user_id = ? AND group_id = ?`,
		userID, groupID)
	if err != nil {
		return fmt.Errorf("error setting default group %s for user %d: %w", groupID, userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing default group change: %w", err)
	}
	return nil
}

func (s *Store) DefaultGroup(userID int64) (*models.Group, error) {
	var group models.Group
	err := s.db.QueryRow(`
		SELECT g.id, g.name, g.created_by, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ? AND gm.is_default = TRUE`, userID).
		Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying default group for user %d: %w", userID, err)
	}
	return &group, nil
}

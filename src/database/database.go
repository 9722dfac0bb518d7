package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/kopilka/backend/src/currency"
	"github.com/username/kopilka/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if _, err := DB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		stdlog.Fatalf("failed to enable foreign keys: %v", err)
	}

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_by INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(created_by) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS group_members (
		group_id TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		role TEXT NOT NULL DEFAULT 'member',
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		joined_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY(group_id, user_id),
		FOREIGN KEY(group_id) REFERENCES groups(id),
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS currencies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		balance TEXT NOT NULL DEFAULT '0.00',
		currency_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		group_id TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(currency_id) REFERENCES currencies(id),
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(group_id) REFERENCES groups(id)
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		amount TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		kind TEXT NOT NULL CHECK(kind IN ('expense', 'income')),
		date TIMESTAMP NOT NULL,
		account_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		group_id TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(account_id) REFERENCES accounts(id),
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(group_id) REFERENCES groups(id)
	);

	CREATE TABLE IF NOT EXISTS transfers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		from_amount TEXT NOT NULL,
		to_amount TEXT NOT NULL,
		description TEXT NOT NULL,
		date TIMESTAMP NOT NULL,
		from_account_id INTEGER NOT NULL,
		to_account_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		group_id TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CHECK(from_account_id != to_account_id),
		FOREIGN KEY(from_account_id) REFERENCES accounts(id),
		FOREIGN KEY(to_account_id) REFERENCES accounts(id),
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(group_id) REFERENCES groups(id)
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_group ON transactions(group_id, date);
	CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id);
	CREATE INDEX IF NOT EXISTS idx_transfers_group ON transfers(group_id, date);
	CREATE INDEX IF NOT EXISTS idx_accounts_group ON accounts(group_id);
	`

	if _, err = DB.Exec(createTableStatement); err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}

	seedBaseCurrencies()

	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.", "databasePath", databasePath)
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// seedBaseCurrencies makes sure the reference currency and the most common
// codes exist so that conversion and manual account creation work before the
// first import.
func seedBaseCurrencies() {
	for _, code := range []string{"RUB", "USD", "EUR"} {
		info := currency.Lookup(code)
		_, err := DB.Exec(
			`INSERT OR IGNORE INTO currencies (code, name, symbol, is_active) VALUES (?, ?, ?, TRUE)`,
			code, info.Name, info.Symbol)
		if err != nil {
			if logger.L != nil {
				logger.L.Error("failed to seed currency", "code", code, "error", err)
			} else {
				stdlog.Printf("failed to seed currency %s: %v", code, err)
			}
		}
	}
}

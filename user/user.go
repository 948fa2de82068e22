// Package user persists accounts and monthly generation usage in sqlite.
package user

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/tabgenius/tabgenius/constants"
)

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Account struct {
	ID    int64
	Email string
	Tier  string
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	tier TEXT DEFAULT 'free',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	last_login TIMESTAMP
);
CREATE TABLE IF NOT EXISTS usage (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER,
	generation_type TEXT,
	timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	month_year TEXT,
	FOREIGN KEY (user_id) REFERENCES users (id)
);`

func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open user db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not init user db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CurrentMonth is the usage bucket key, e.g. "2026-08".
func CurrentMonth() string {
	return time.Now().Format("2006-01")
}

func (s *Store) Create(email, password string) error {
	_, err := s.db.Exec(
		`INSERT INTO users (email, password_hash) VALUES (?, ?)`,
		email, hashPassword(password),
	)

	// the UNIQUE constraint is the duplicate check, so concurrent signups
	// can't race past it
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrEmailTaken
	}
	return err
}

func (s *Store) Authenticate(email, password string) (*Account, error) {
	var acc Account
	err := s.db.QueryRow(
		`SELECT id, tier FROM users WHERE email = ? AND password_hash = ?`,
		email, hashPassword(password),
	).Scan(&acc.ID, &acc.Tier)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	acc.Email = email

	_, err = s.db.Exec(`UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?`, acc.ID)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *Store) LogUsage(userID int64, generationType string) error {
	_, err := s.db.Exec(
		`INSERT INTO usage (user_id, generation_type, month_year) VALUES (?, ?, ?)`,
		userID, generationType, CurrentMonth(),
	)
	return err
}

func (s *Store) UsageCount(userID int64, month string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM usage WHERE user_id = ? AND month_year = ?`,
		userID, month,
	).Scan(&count)
	return count, err
}

// CanGenerate reports whether the account is still under its tier's monthly
// quota.
func (s *Store) CanGenerate(acc *Account) (bool, error) {
	limit := constants.MonthlyLimit(acc.Tier)
	if limit < 0 {
		return true, nil
	}
	used, err := s.UsageCount(acc.ID, CurrentMonth())
	if err != nil {
		return false, err
	}
	return used < limit, nil
}

// Package storage persists the portal's own records: user accounts, the
// customer directory, and the audit trail of submitted orders. ERP
// documents are never stored here; they are fetched fresh per page visit.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/Harith-design/webportal-sub000/internal/core"
)

type (
	// User is a portal login account, scoped to one ERP customer code.
	User struct {
		ID           int64
		Username     string
		PasswordHash string
		Role         string
		CardCode     string
		CreatedAt    time.Time
	}

	// Customer is one directory entry of the customers the portal serves.
	Customer struct {
		CardCode string
		Name     string
		Currency string
	}

	// OrderEvent is one audit record of a submitted sales order.
	OrderEvent struct {
		ID          int64
		DocEntry    int64
		CardCode    string
		Total       decimal.Decimal
		SubmittedBy string
		CreatedAt   time.Time
	}
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetUserByUsername looks a user up for login.
func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, card_code, created_at
		 FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// GetUser looks a user up by id.
func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, card_code, created_at
		 FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// CreateUser inserts a new portal account and returns its id.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u User) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, role, card_code) VALUES (?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.Role, u.CardCode)
	if err != nil {
		return 0, fmt.Errorf("create user %s: %w", u.Username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user %s: %w", u.Username, err)
	}
	return id, nil
}

// UpdatePassword replaces a user's password hash.
func (r *SQLiteRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("update password for user %d: %w", userID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ListCustomers returns the customer directory ordered by name.
func (r *SQLiteRepository) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT card_code, name, currency FROM customers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.CardCode, &c.Name, &c.Currency); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// UpsertCustomer inserts or refreshes one directory entry.
func (r *SQLiteRepository) UpsertCustomer(ctx context.Context, c Customer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (card_code, name, currency) VALUES (?, ?, ?)
		 ON CONFLICT(card_code) DO UPDATE SET name = excluded.name, currency = excluded.currency`,
		c.CardCode, c.Name, c.Currency)
	if err != nil {
		return fmt.Errorf("upsert customer %s: %w", c.CardCode, err)
	}
	return nil
}

// RecordOrderEvent appends one submitted-order audit record.
func (r *SQLiteRepository) RecordOrderEvent(ctx context.Context, e OrderEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO order_events (doc_entry, card_code, total, submitted_by) VALUES (?, ?, ?, ?)`,
		e.DocEntry, e.CardCode, e.Total.String(), e.SubmittedBy)
	if err != nil {
		return fmt.Errorf("record order event %d: %w", e.DocEntry, err)
	}
	return nil
}

// ListRecentOrderEvents returns the newest audit records for one customer,
// or across all customers when cardCode is empty.
func (r *SQLiteRepository) ListRecentOrderEvents(ctx context.Context, cardCode string, limit int) ([]OrderEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, doc_entry, card_code, total, submitted_by, created_at
		 FROM order_events WHERE (? = '' OR card_code = ?)
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		cardCode, cardCode, limit)
	if err != nil {
		return nil, fmt.Errorf("list order events for %s: %w", cardCode, err)
	}
	defer rows.Close()

	var events []OrderEvent
	for rows.Next() {
		var (
			e        OrderEvent
			totalStr string
		)
		if err := rows.Scan(&e.ID, &e.DocEntry, &e.CardCode, &totalStr, &e.SubmittedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order event: %w", err)
		}
		if total, err := decimal.NewFromString(totalStr); err == nil {
			e.Total = total
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CardCode, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, core.ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

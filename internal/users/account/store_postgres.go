// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/unimart/internal/platform/database/schema"
	"github.com/taibuivan/unimart/internal/platform/dberr"
	"github.com/taibuivan/unimart/internal/platform/postgres"
	"github.com/taibuivan/unimart/internal/platform/sec"
)

// # Repository Implementation

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewPostgresRepository creates a new Postgres implementation for accounts.
func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectColumns = strings.Join(schema.UserAccount.Columns(), ", ")

/*
FindBySubject retrieves an account by its normalized email.

Parameters:
  - context: context.Context
  - subject: string (email, normalized before querying)

Returns:
  - *Account: Hydrated account entity
  - error: [ErrNotFound] or database execution failure
*/
func (repository *PostgresRepository) FindBySubject(context context.Context, subject string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.UserAccount.Table, schema.UserAccount.Email)

	account, err := scanAccount(repository.db.QueryRow(context, query, sec.NormalizeSubject(subject)))
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_find_by_subject_failed: %w", err)
	}
	return account, nil
}

// FindByID retrieves an account by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	account, err := scanAccount(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}
	return account, nil
}

/*
Create inserts a new account row and fills its timestamps from the database.

Returns:
  - error: "Account already exists" (BAD_REQUEST) on a duplicate email
*/
func (repository *PostgresRepository) Create(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.Password,
		schema.UserAccount.DisplayName, schema.UserAccount.Role, schema.UserAccount.Status,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		account.ID,
		sec.NormalizeSubject(account.Email),
		account.PasswordHash,
		account.DisplayName,
		string(account.Role),
		string(account.Status),
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		return dberr.Wrap(err, "Account", "postgres_account_repo_create_failed")
	}
	return nil
}

// UpdateStatus changes an account's lifecycle status.
func (repository *PostgresRepository) UpdateStatus(context context.Context, id string, status sec.Status) (*Account, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Status, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		selectColumns,
	)

	account, err := scanAccount(repository.db.QueryRow(context, query, id, string(status)))
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_update_status_failed: %w", err)
	}
	return account, nil
}

// scanAccount hydrates one row in [schema.UserAccountTable.Columns] order.
func scanAccount(row pgx.Row) (*Account, error) {
	var (
		account Account
		role    string
		status  string
	)

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.DisplayName,
		&role,
		&status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	account.Role = sec.ParseRole(role)
	account.Status = sec.Status(status)
	return &account, nil
}

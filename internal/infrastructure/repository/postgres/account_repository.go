package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO accounts (username, tax_id, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (username) DO UPDATE SET tax_id = EXCLUDED.tax_id
`, account.Username, account.TaxID, account.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT username, tax_id, created_at FROM accounts WHERE username = $1
`, username)

	var account domain.Account
	if err := row.Scan(&account.Username, &account.TaxID, &account.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrAccountNotFound, "get account", fmt.Errorf("username=%s", username))
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT username, tax_id, created_at FROM accounts ORDER BY username
`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.Username, &account.TaxID, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

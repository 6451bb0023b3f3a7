package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
)

func newAccountRepoWithMock(t *testing.T) (*AccountRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewAccountRepository(db), mock
}

func TestAccountRepositoryCreate(t *testing.T) {
	repo, mock := newAccountRepoWithMock(t)

	now := time.Now().UTC()
	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs("A", "12345678", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &domain.Account{Username: "A", TaxID: "12345678", CreatedAt: now})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAccountRepositoryGetByUsernameNotFound(t *testing.T) {
	repo, mock := newAccountRepoWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM accounts`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"username", "tax_id", "created_at"}))

	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !domain.IsKind(err, domain.ErrAccountNotFound) {
		t.Fatalf("error = %v, want account not found", err)
	}
}

func TestAccountRepositoryList(t *testing.T) {
	repo, mock := newAccountRepoWithMock(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"username", "tax_id", "created_at"}).
			AddRow("A", "12345678", now).
			AddRow("B", "87654321", now))

	accounts, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(accounts) != 2 || accounts[1].TaxID != "87654321" {
		t.Errorf("accounts = %+v", accounts)
	}
}

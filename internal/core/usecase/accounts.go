package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/wenlipeng/invoice-scanner/internal/core/domain"
	"github.com/wenlipeng/invoice-scanner/internal/core/extract"
	"github.com/wenlipeng/invoice-scanner/internal/core/ports"
)

// AccountUseCase manages buyer accounts and resolves the account
// context used by validation. The active account is fixed per service
// instance through configuration.
type AccountUseCase struct {
	repo            ports.AccountRepository
	currentUsername string
}

func NewAccountUseCase(repo ports.AccountRepository, currentUsername string) *AccountUseCase {
	return &AccountUseCase{repo: repo, currentUsername: currentUsername}
}

func (uc *AccountUseCase) Create(ctx context.Context, username, taxID string) (*domain.Account, error) {
	if username == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "create account", fmt.Errorf("empty username"))
	}
	if !extract.IsValidTaxID(taxID) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "create account", fmt.Errorf("tax id must be 8 digits"))
	}

	account := &domain.Account{
		Username:  username,
		TaxID:     taxID,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

func (uc *AccountUseCase) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// AccountContext loads the active account and every known account. A
// missing active account yields an empty current identity, which the
// validator reports as such.
func (uc *AccountUseCase) AccountContext(ctx context.Context) (domain.AccountContext, error) {
	known, err := uc.repo.List(ctx)
	if err != nil {
		return domain.AccountContext{}, fmt.Errorf("list accounts: %w", err)
	}

	accountCtx := domain.AccountContext{Known: known}
	for _, account := range known {
		if account.Username == uc.currentUsername {
			accountCtx.Current = account
			break
		}
	}
	return accountCtx, nil
}

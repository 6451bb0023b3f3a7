package domain

import "time"

// Account is one registered buyer identity (username + 8-digit tax id).
type Account struct {
	Username  string    `json:"username"`
	TaxID     string    `json:"tax_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountContext is the explicit validator input replacing ambient
// session state: the active account plus all known accounts, so a
// mismatched tax id can be attributed to another account.
type AccountContext struct {
	Current Account   `json:"current"`
	Known   []Account `json:"known"`
}

// FindByTaxID returns the known account owning the given tax id.
func (c AccountContext) FindByTaxID(taxID string) (Account, bool) {
	for _, account := range c.Known {
		if account.TaxID == taxID {
			return account, true
		}
	}
	return Account{}, false
}

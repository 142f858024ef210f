package domain

// Identity selects which preference backend is authoritative for a call.
// The zero value is the anonymous guest identity; a non-empty AccountID
// routes to the relational account backend.
type Identity struct {
	AccountID string
}

// Guest is the single implicit anonymous identity.
var Guest = Identity{}

func AccountIdentity(accountID string) Identity {
	return Identity{AccountID: accountID}
}

func (i Identity) IsAccount() bool {
	return i.AccountID != ""
}

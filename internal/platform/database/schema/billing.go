// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// LedgerEntriesTable represents the 'ledger_entries' table.
type LedgerEntriesTable struct {
	Table     string
	ID        string
	UserID    string
	Delta     string
	Kind      string
	Reference string
	CreatedAt string
}

// LedgerEntries is the schema definition for ledger_entries.
var LedgerEntries = LedgerEntriesTable{
	Table:     "ledger_entries",
	ID:        "id",
	UserID:    "user_id",
	Delta:     "delta",
	Kind:      "kind",
	Reference: "reference",
	CreatedAt: "created_at",
}

// PaymentsTable represents the 'payments' table.
type PaymentsTable struct {
	Table     string
	ID        string
	UserID    string
	Coins     string
	Amount    string
	Currency  string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// Payments is the schema definition for payments.
var Payments = PaymentsTable{
	Table:     "payments",
	ID:        "id",
	UserID:    "user_id",
	Coins:     "coins",
	Amount:    "amount",
	Currency:  "currency",
	Status:    "status",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names every table and column the PostgreSQL repositories touch.

Queries are assembled from these descriptors so a rename in data/migrations
has exactly one Go counterpart.
*/
package schema

// AccountsTable represents the 'accounts' table (credentials only).
type AccountsTable struct {
	Table        string
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    string
}

// Accounts is the schema definition for accounts.
var Accounts = AccountsTable{
	Table:        "accounts",
	ID:           "id",
	Email:        "email",
	PasswordHash: "password_hash",
	CreatedAt:    "created_at",
}

// Constraint names surfaced by unique violations.
const (
	ConstraintAccountsEmail     = "accounts_email_key"
	ConstraintProfilesPseudonym = "profiles_pseudonym_key"
	ConstraintVotesUserChapter  = "votes_user_chapter_key"
	ConstraintChaptersNumber    = "chapters_story_number_key"
	ConstraintLedgerReference   = "ledger_entries_reference_key"
)

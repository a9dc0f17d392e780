// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ProfilesTable represents the 'profiles' table.
type ProfilesTable struct {
	Table         string
	ID            string
	Pseudonym     string
	PseudonymKey  string
	AvatarURL     string
	Bio           string
	AcceptedTerms string
	Coins         string
	CreatedAt     string
	UpdatedAt     string
}

// Profiles is the schema definition for profiles.
var Profiles = ProfilesTable{
	Table:         "profiles",
	ID:            "id",
	Pseudonym:     "pseudonym",
	PseudonymKey:  "pseudonym_key",
	AvatarURL:     "avatar_url",
	Bio:           "bio",
	AcceptedTerms: "accepted_terms",
	Coins:         "coins",
	CreatedAt:     "created_at",
	UpdatedAt:     "updated_at",
}

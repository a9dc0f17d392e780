// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ChaptersTable represents the 'chapters' table.
type ChaptersTable struct {
	Table        string
	ID           string
	StoryID      string
	Number       string
	Title        string
	Content      string
	QuestionText string
	ExpiresAt    string
	CreatedAt    string
}

// Chapters is the schema definition for chapters.
var Chapters = ChaptersTable{
	Table:        "chapters",
	ID:           "id",
	StoryID:      "story_id",
	Number:       "chapter_number",
	Title:        "title",
	Content:      "content",
	QuestionText: "question_text",
	ExpiresAt:    "expires_at",
	CreatedAt:    "created_at",
}

// OptionsTable represents the 'options' table.
type OptionsTable struct {
	Table     string
	ID        string
	ChapterID string
	Position  string
	Text      string
	VoteCount string
}

// Options is the schema definition for options.
var Options = OptionsTable{
	Table:     "options",
	ID:        "id",
	ChapterID: "chapter_id",
	Position:  "position",
	Text:      "text",
	VoteCount: "vote_count",
}

// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package publication

import (
	"context"

	"github.com/taibuivan/storyvoter/internal/core/chapter"
	"github.com/taibuivan/storyvoter/internal/core/story"
)

// # Publication Data Access

// Repository writes new stories and chapters.
type Repository interface {

	/*
		PublishChapter locks the draft's story, passes its [Sequence] to check
		and, if check returns nil, inserts the chapter and its options.

		Returns:
		  - error: check's error, NOT_FOUND for an unknown story, or a store
		    error. Nothing is written on error.
	*/
	PublishChapter(context context.Context, draft *chapter.Chapter, check func(Sequence) error) error

	/*
		PublishStory inserts a story and its first chapter. acceptTerms records
		the author's acceptance in the same transaction.

		Returns:
		  - error: ErrTermsNotAccepted if the author never accepted and
		    acceptTerms is false
	*/
	PublishStory(context context.Context, newStory *story.Story, first *chapter.Chapter, acceptTerms bool) error
}

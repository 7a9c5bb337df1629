package services

import "github.com/dmitrijs2005/imagefeed/internal/client/models"

// IndexRange is the half-open range [From, To) of collection indices.
type IndexRange struct {
	From, To int
}

func (r IndexRange) Len() int { return r.To - r.From }

// FeedChanged is published after every successful page fetch and after a
// reset. On a fetch Added covers the appended photos, which always sit at the
// tail of the collection; it is empty when the whole page was already known.
type FeedChanged struct {
	Added  IndexRange
	Page   int
	Photos []models.Photo
	Reset  bool
}

// PhotoUpdated is published after a confirmed like or unlike of a photo that
// is still in the collection.
type PhotoUpdated struct {
	Index int
	Photo models.Photo
}

// FetchFailed reports a failed page fetch. Superseded fetches are not
// reported.
type FetchFailed struct {
	Page int
	Err  error
}

// ProfileChanged carries the new profile, or nil after a clear.
type ProfileChanged struct {
	Profile *models.Profile
}

// AvatarChanged carries the new avatar URL, or "" after a clear.
type AvatarChanged struct {
	URL string
}

// StateChanged is published on every session state transition.
type StateChanged struct {
	From, To State
	Err      error
}

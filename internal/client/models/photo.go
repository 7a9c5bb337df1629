// Package models defines the client-side domain values of the photo feed and
// the wire shapes they are decoded from.
package models

import (
	"time"
)

// Size is a pixel size.
type Size struct {
	Width  int
	Height int
}

// Photo is one item of the feed. It is an immutable value: an update produces
// a new Photo that replaces the old one wholesale.
type Photo struct {
	// ID is stable and unique within the feed.
	ID string

	// Size is the pixel size of the original image.
	Size Size

	// CreatedAt is nil when the upstream timestamp is missing or unparsable.
	CreatedAt *time.Time

	// Description is the optional caption; empty when absent.
	Description string

	// ThumbURL points at the thumbnail rendition.
	ThumbURL string
	// LargeURL points at the full-size rendition.
	LargeURL string

	// Liked reports whether the current user likes the photo.
	Liked bool
}

// WithLiked returns a copy of p with Liked set to liked.
func (p Photo) WithLiked(liked bool) Photo {
	p.Liked = liked
	return p
}

// PhotoFromResult converts a decoded feed item. A malformed created_at value
// yields a Photo without CreatedAt instead of an error.
func PhotoFromResult(r PhotoResult) Photo {
	p := Photo{
		ID:       r.ID,
		Size:     Size{Width: r.Width, Height: r.Height},
		ThumbURL: r.URLs.Thumb,
		LargeURL: r.URLs.Regular,
		Liked:    r.LikedByUser,
	}
	if r.CreatedAt != nil {
		p.CreatedAt = ParseTimestamp(*r.CreatedAt)
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	return p
}

// ParseTimestamp parses an ISO-8601 timestamp with a zone offset. It returns
// nil when s cannot be parsed.
func ParseTimestamp(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

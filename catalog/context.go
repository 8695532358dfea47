package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Context carries the immutable per-run evaluation context: the reference
// user for user-specific fields, the media types in scope, and global
// options.
type Context struct {
	// UserID is the reference user for user-specific fields. Individual
	// rules may override it.
	UserID string

	// MediaTypes restricts candidates to these media types; empty means all.
	MediaTypes []string

	// IncludeExtras admits items flagged as extras (trailers, featurettes).
	IncludeExtras bool

	// SimilarityReference is the item similarity rules compare against.
	SimilarityReference *Item
	// SimilarityFields selects which sub-fields similarity compares
	// (genres, tags, studios, people). Empty means genres+tags+studios.
	SimilarityFields []string

	// Now fixes the evaluation clock. Zero means time.Now at run start.
	Now time.Time

	// RunID identifies the run in logs and progress reports. Generated when
	// empty.
	RunID string
}

// Clock returns the evaluation time, fixing it to the wall clock when unset.
func (c Context) Clock() time.Time {
	if c.Now.IsZero() {
		return time.Now().UTC()
	}
	return c.Now
}

// EnsureRunID returns the context with a generated run ID when none is set.
func (c Context) EnsureRunID() Context {
	if c.RunID == "" {
		c.RunID = uuid.NewString()
	}
	return c
}

// WantsMediaType reports whether an item's media type is in scope.
func (c Context) WantsMediaType(mediaType string) bool {
	if len(c.MediaTypes) == 0 {
		return true
	}
	for _, mt := range c.MediaTypes {
		if mt == mediaType {
			return true
		}
	}
	return false
}

package newsletter

import (
	"errors"

	"github.com/solsticehq/solstice-api/internal/models"
)

var (
	// ErrInvalidEmail marks addresses that fail the local@domain.tld shape check.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrNotFound is returned when unsubscribing an email with no record.
	ErrNotFound = errors.New("subscriber not found")
	// ErrDuplicateEmail is the store-level signal that the uniqueness
	// constraint arbitrated a concurrent insert. The state machine maps it
	// back to an idempotent success; it never escapes this package.
	ErrDuplicateEmail = errors.New("subscriber email already exists")
)

// SubscribeMeta carries optional provenance for a subscribe call.
type SubscribeMeta struct {
	Source string `json:"source"`
}

// SubscribeResult is the structured outcome of a subscribe call.
type SubscribeResult struct {
	Success      bool                    `json:"success"`
	Created      bool                    `json:"created"`
	Resubscribed bool                    `json:"resubscribed,omitempty"`
	Message      string                  `json:"message"`
	Subscriber   *models.SubscriberModel `json:"-"`
}

// UnsubscribeResult is the structured outcome of an unsubscribe call.
// Success is false when the record was already unsubscribed; that outcome is
// reported, not raised as an error.
type UnsubscribeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Content describes a freshly published piece for fan-out.
type Content struct {
	Title   string `json:"title"`
	Slug    string `json:"slug,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Image   string `json:"image,omitempty"`
}

// DispatchResult is the binary outcome of one fan-out. There is no
// partial-delivery accounting: either every batch was accepted by the
// transport or the dispatch failed.
type DispatchResult struct {
	Success    bool   `json:"success"`
	Reason     string `json:"reason,omitempty"`
	Recipients int    `json:"recipients"`
	Batches    int    `json:"batches"`
}

// SearchOptions filters and pages the administrative subscriber listing.
// Zero values fall back to: page 1, size 10, status "active",
// sort subscribedAt descending.
type SearchOptions struct {
	Page      int
	Size      int
	Status    string // "active" | "unsubscribed" | "all"
	SortField string // "subscribedAt" | "email"
	SortOrder string // "asc" | "desc"
}

// Stats is the subscriber ledger breakdown. The two counts are taken
// without a shared snapshot; Total is their sum.
type Stats struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	Unsubscribed int64 `json:"unsubscribed"`
}

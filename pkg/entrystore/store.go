package entrystore

import (
	"context"
	"errors"

	"github.com/chainsafe/waitlist-api/pkg/waitlist"
)

// ErrEntryNotFound is returned when an entry lookup finds no matching record.
var ErrEntryNotFound = errors.New("waitlist entry not found")

// Duplicate-key errors, distinguished by the violated unique index so
// callers can surface the right user-facing conflict.
var (
	ErrDuplicateEmail   = errors.New("email already on waitlist")
	ErrDuplicateWallet  = errors.New("wallet address already on waitlist")
	ErrDuplicateToken   = errors.New("verification token already in use")
	ErrDuplicatePostURL = errors.New("post URL already claimed by another entry")
)

// Filter narrows admin listing queries.
type Filter struct {
	// Status restricts results to one review status when non-nil.
	Status *waitlist.Status
	// Search is a case-insensitive substring match over name OR email.
	Search string
}

// Fields is a partial update applied by UpdateFields. Nil members are left
// untouched; updated_at is always refreshed.
type Fields struct {
	Status            *waitlist.Status
	EmailVerified     *bool
	VerificationToken *string
	Posted            *bool
	PostURL           *string
}

// ConsumeResult is the outcome of an atomic token consumption.
type ConsumeResult struct {
	Entry *waitlist.Entry
	// AlreadyVerified is true when the entry matching the token had been
	// verified before this call; the token was not consumed again.
	AlreadyVerified bool
}

// Store defines the interface for waitlist entry persistence.
type Store interface {
	// Insert persists a new entry and returns its generated id. Uniqueness
	// conflicts surface as one of the ErrDuplicate* sentinels.
	Insert(ctx context.Context, entry *waitlist.Entry) (string, error)
	// Find returns the single entry matching the given options, or
	// ErrEntryNotFound.
	Find(ctx context.Context, opts ...QueryOption) (*waitlist.Entry, error)
	// UpdateFields applies a partial update to the entry with the given id
	// and returns the updated entry, or ErrEntryNotFound.
	UpdateFields(ctx context.Context, id string, fields Fields) (*waitlist.Entry, error)
	// Delete removes the entry with the given id, reporting whether a row
	// was deleted.
	Delete(ctx context.Context, id string) (bool, error)
	// List returns one page of entries matching the filter, newest first,
	// along with the total count of matching entries. Pagination is
	// 1-indexed; callers validate page and pageSize before calling.
	List(ctx context.Context, filter Filter, page, pageSize int) ([]*waitlist.Entry, int, error)
	// ListAll returns every entry, newest first. Used by CSV export.
	ListAll(ctx context.Context) ([]*waitlist.Entry, error)
	// CountByStatus returns entry counts grouped by review status.
	CountByStatus(ctx context.Context) (map[waitlist.Status]int, error)
	// CountByRole returns entry counts grouped by role. An entry with two
	// roles contributes to two buckets.
	CountByRole(ctx context.Context) (map[waitlist.Role]int, error)
	// CountVerified returns the number of email-verified entries.
	CountVerified(ctx context.Context) (int, error)
	// ConsumeToken atomically marks the entry holding the token as verified
	// and approved and clears the token. No two concurrent consumers can
	// both observe first-time success. Returns ErrTokenNotFound via
	// ErrEntryNotFound semantics when no entry holds the token.
	ConsumeToken(ctx context.Context, token string) (*ConsumeResult, error)
	// ClaimPostURL sets posted=true and records the canonical post URL on
	// the entry. A concurrent claim of the same URL by another entry fails
	// with ErrDuplicatePostURL.
	ClaimPostURL(ctx context.Context, id, postURL string) (*waitlist.Entry, error)
}

// QueryOptions defines options for querying entries
type QueryOptions struct {
	ID      *string
	Email   *string
	Token   *string
	PostURL *string
}

// QueryOption is a functional option for querying entries
type QueryOption func(*QueryOptions)

// WithID sets the entry id filter
func WithID(id string) QueryOption {
	return func(opts *QueryOptions) {
		opts.ID = &id
	}
}

// WithEmail sets the email filter; the value is compared against the
// lowercased stored email.
func WithEmail(email string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Email = &email
	}
}

// WithToken sets the verification token filter
func WithToken(token string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Token = &token
	}
}

// WithPostURL sets the canonical post URL filter
func WithPostURL(postURL string) QueryOption {
	return func(opts *QueryOptions) {
		opts.PostURL = &postURL
	}
}

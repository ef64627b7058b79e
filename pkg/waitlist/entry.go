// Package waitlist holds the domain model for waitlist signups.
package waitlist

import (
	"regexp"
	"strings"
	"time"
)

// Status is the review state of a waitlist entry.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Statuses lists all valid entry statuses.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Role describes how a signup intends to participate.
type Role string

const (
	RoleDeveloper        Role = "developer"
	RoleCommunityBuilder Role = "community_builder"
	RoleInvestor         Role = "investor"
	RoleContentCreator   Role = "content_creator"
	RoleEarlyAdopter     Role = "early_adopter"
	RoleOther            Role = "other"
)

// Roles lists all valid entry roles.
var Roles = []Role{
	RoleDeveloper,
	RoleCommunityBuilder,
	RoleInvestor,
	RoleContentCreator,
	RoleEarlyAdopter,
	RoleOther,
}

// ValidRole reports whether r is a member of the role enum.
func ValidRole(r Role) bool {
	switch r {
	case RoleDeveloper, RoleCommunityBuilder, RoleInvestor,
		RoleContentCreator, RoleEarlyAdopter, RoleOther:
		return true
	}
	return false
}

// Entry represents the domain model for a single waitlist signup.
// It is a plain data record; lifecycle behavior lives in the service layer.
type Entry struct {
	ID                string
	Name              string
	Email             string
	WalletAddress     string // empty when not provided
	Roles             []Role
	Note              string
	XHandle           string
	EmailVerified     bool
	VerificationToken string // non-empty only while unverified
	Posted            bool
	PostURL           string
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SafeEntry is the admin-facing projection of an Entry. It omits the
// verification token so the secret never leaves the service.
type SafeEntry struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	WalletAddress string    `json:"walletAddress,omitempty"`
	Roles         []Role    `json:"roles"`
	Note          string    `json:"note,omitempty"`
	XHandle       string    `json:"xHandle,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	Posted        bool      `json:"posted"`
	PostURL       string    `json:"postUrl,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Safe returns the projection of e without the verification token.
func (e *Entry) Safe() SafeEntry {
	return SafeEntry{
		ID:            e.ID,
		Name:          e.Name,
		Email:         e.Email,
		WalletAddress: e.WalletAddress,
		Roles:         e.Roles,
		Note:          e.Note,
		XHandle:       e.XHandle,
		EmailVerified: e.EmailVerified,
		Posted:        e.Posted,
		PostURL:       e.PostURL,
		Status:        e.Status,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

const (
	NameMinLen = 2
	NameMaxLen = 100
	NoteMaxLen = 500
)

var (
	walletAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	xHandleRe       = regexp.MustCompile(`^[a-zA-Z0-9_]{1,15}$`)
)

// NormalizeEmail case-folds an email address for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeXHandle trims, strips a leading @ and lowercases an X handle.
func NormalizeXHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}

// ValidWalletAddress reports whether addr is a 0x-prefixed 40-hex-char address.
func ValidWalletAddress(addr string) bool {
	return walletAddressRe.MatchString(addr)
}

// ValidXHandle reports whether handle is 1-15 alphanumeric/underscore characters.
func ValidXHandle(handle string) bool {
	return xHandleRe.MatchString(handle)
}

package waitlist

// SubmitRequest represents a public waitlist signup submission.
// Shape constraints are declared here and enforced with validator/v10;
// the service re-checks them even when the boundary already validated.
type SubmitRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Email         string `json:"email" validate:"required,email"`
	WalletAddress string `json:"walletAddress,omitempty" validate:"omitempty,eth_addr"`
	Roles         []Role `json:"roles" validate:"required,min=1,dive,oneof=developer community_builder investor content_creator early_adopter other"`
	Note          string `json:"note,omitempty" validate:"omitempty,max=500"`
	XHandle       string `json:"xHandle,omitempty"`
}

// SubmitResponse represents a successful signup.
type SubmitResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// VerifyResponse represents the outcome of an email verification.
type VerifyResponse struct {
	// AlreadyVerified is false on first-time verification and true when the
	// entry had been verified before; replays are not errors.
	AlreadyVerified bool   `json:"alreadyVerified"`
	Email           string `json:"email"`
}

// ListRequest narrows and pages the admin entry listing.
type ListRequest struct {
	Page     int     `json:"page,omitempty"`
	PageSize int     `json:"limit,omitempty"`
	Status   *Status `json:"status,omitempty"`
	Search   string  `json:"search,omitempty"`
}

// Pagination describes one page of an admin listing.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListStats aggregates the listing counters shown on the admin panel.
type ListStats struct {
	StatusCounts map[Status]int `json:"statusCounts"`
	RoleCounts   map[Role]int   `json:"roleCounts"`
}

// ListResponse is one page of entries plus aggregate counters.
type ListResponse struct {
	Entries    []SafeEntry `json:"entries"`
	Pagination Pagination  `json:"pagination"`
	Stats      ListStats   `json:"stats"`
}

// Stats are the waitlist-wide counters. They are computed so that
// Verified+Unverified == Total and Pending+Approved+Rejected == Total.
type Stats struct {
	Total      int `json:"total"`
	Verified   int `json:"verified"`
	Unverified int `json:"unverified"`
	Pending    int `json:"pending"`
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
}

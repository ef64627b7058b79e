// Package service implements the waitlist entry lifecycle: submission,
// email verification, admin review and export.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/chainsafe/waitlist-api/internal/metrics"
	apperrors "github.com/chainsafe/waitlist-api/pkg/app/errors"
	"github.com/chainsafe/waitlist-api/pkg/entrystore"
	"github.com/chainsafe/waitlist-api/pkg/waitlist"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// emailSendTimeout bounds the detached verification email send that
	// runs after a submission has already been persisted.
	emailSendTimeout = 30 * time.Second
)

var (
	ErrDuplicateEmail  = errors.New("email is already on the waitlist")
	ErrTokenNotFound   = errors.New("verification token not found")
	ErrAlreadyVerified = errors.New("email is already verified")
	ErrNotVerified     = errors.New("email is not verified yet")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidRoles    = errors.New("roles must be a non-empty set of known roles")
	ErrPostURLInUse    = errors.New("post URL is already claimed by another entry")
	ErrEntryNotFound   = errors.New("waitlist entry not found")
)

// Mailer is the narrow email capability the lifecycle service depends on.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, displayName, token string) error
}

// Service defines the interface for the waitlist lifecycle business logic
type Service interface {
	Submit(ctx context.Context, req *waitlist.SubmitRequest) (*waitlist.SubmitResponse, error)
	VerifyByToken(ctx context.Context, token string) (*waitlist.VerifyResponse, error)
	ListForAdmin(ctx context.Context, req *waitlist.ListRequest) (*waitlist.ListResponse, error)
	SetStatus(ctx context.Context, id string, status waitlist.Status) error
	Remove(ctx context.Context, id string) error
	ResendVerification(ctx context.Context, id string) error
	ExportCSV(ctx context.Context) ([]byte, error)
	RecordPostURL(ctx context.Context, id, rawURL string) error
	Statistics(ctx context.Context) (*waitlist.Stats, error)
}

type waitlistService struct {
	store    entrystore.Store
	mailer   Mailer
	logger   *zap.Logger
	validate *validator.Validate
}

// NewService creates a new waitlist lifecycle service
func NewService(store entrystore.Store, mailer Mailer, logger *zap.Logger) Service {
	return &waitlistService{
		store:    store,
		mailer:   mailer,
		logger:   logger,
		validate: validator.New(),
	}
}

// Submit normalizes and validates a public signup, issues a verification
// token, persists the entry and fires the verification email best-effort.
// A send failure never rolls back or fails the signup.
func (s *waitlistService) Submit(ctx context.Context, req *waitlist.SubmitRequest) (*waitlist.SubmitResponse, error) {
	normalized := &waitlist.SubmitRequest{
		Name:          strings.TrimSpace(req.Name),
		Email:         waitlist.NormalizeEmail(req.Email),
		WalletAddress: strings.TrimSpace(req.WalletAddress),
		Roles:         req.Roles,
		Note:          strings.TrimSpace(req.Note),
		XHandle:       waitlist.NormalizeXHandle(req.XHandle),
	}

	// Boundary validation is re-checked here so the lifecycle invariants do
	// not depend on every caller doing it.
	if err := s.validate.Struct(normalized); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid submission")
	}
	if len(normalized.Roles) == 0 {
		return nil, apperrors.BadRequestError(ErrInvalidRoles, "at least one role is required")
	}
	for _, role := range normalized.Roles {
		if !waitlist.ValidRole(role) {
			return nil, apperrors.BadRequestError(ErrInvalidRoles, fmt.Sprintf("unknown role: %s", role))
		}
	}
	if normalized.XHandle != "" && !waitlist.ValidXHandle(normalized.XHandle) {
		return nil, apperrors.BadRequestError(nil, "invalid X handle")
	}

	token, err := waitlist.NewVerificationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to issue verification token: %w", err)
	}

	entry := &waitlist.Entry{
		Name:              normalized.Name,
		Email:             normalized.Email,
		WalletAddress:     normalized.WalletAddress,
		Roles:             normalized.Roles,
		Note:              normalized.Note,
		XHandle:           normalized.XHandle,
		VerificationToken: token,
		Status:            waitlist.StatusPending,
	}

	id, err := s.store.Insert(ctx, entry)
	if err != nil {
		switch {
		case errors.Is(err, entrystore.ErrDuplicateEmail):
			return nil, apperrors.ConflictError(ErrDuplicateEmail, "email is already on the waitlist")
		case errors.Is(err, entrystore.ErrDuplicateWallet):
			return nil, apperrors.ConflictError(err, "wallet address is already on the waitlist")
		}
		return nil, fmt.Errorf("failed to persist entry: %w", err)
	}

	metrics.SignupsTotal.Inc()

	// Best-effort, fire-and-forget: the public path never waits for the
	// email provider, and a delivery failure is logged, not propagated.
	go s.sendVerificationEmail(entry.Email, entry.Name, token)

	return &waitlist.SubmitResponse{ID: id, Email: entry.Email}, nil
}

func (s *waitlistService) sendVerificationEmail(email, name, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), emailSendTimeout)
	defer cancel()

	if err := s.mailer.SendVerificationEmail(ctx, email, name, token); err != nil {
		metrics.EmailSendsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		s.logger.Warn("Verification email send failed",
			zap.String("email", email),
			zap.Error(err),
		)
		return
	}
	metrics.EmailSendsTotal.WithLabelValues(metrics.OutcomeSent).Inc()
}

// VerifyByToken consumes a verification token. First-time success flips the
// entry to verified+approved and destroys the token atomically; replaying a
// token that still resolves to a verified entry reports alreadyVerified
// instead of erroring.
func (s *waitlistService) VerifyByToken(ctx context.Context, token string) (*waitlist.VerifyResponse, error) {
	if token == "" {
		return nil, apperrors.ResourceNotFoundError(ErrTokenNotFound, "verification token not found")
	}

	res, err := s.store.ConsumeToken(ctx, token)
	if err != nil {
		if errors.Is(err, entrystore.ErrEntryNotFound) {
			metrics.VerificationsTotal.WithLabelValues(metrics.ResultNotFound).Inc()
			return nil, apperrors.ResourceNotFoundError(ErrTokenNotFound, "verification token not found")
		}
		return nil, fmt.Errorf("failed to consume token: %w", err)
	}

	if res.AlreadyVerified {
		metrics.VerificationsTotal.WithLabelValues(metrics.ResultAlreadyVerified).Inc()
	} else {
		metrics.VerificationsTotal.WithLabelValues(metrics.ResultVerified).Inc()
	}

	return &waitlist.VerifyResponse{
		AlreadyVerified: res.AlreadyVerified,
		Email:           res.Entry.Email,
	}, nil
}

// ListForAdmin returns one page of entries plus the aggregate counters the
// admin panel renders next to the table.
func (s *waitlistService) ListForAdmin(ctx context.Context, req *waitlist.ListRequest) (*waitlist.ListResponse, error) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if page < 1 || pageSize < 1 {
		return nil, apperrors.BadRequestError(nil, "page and limit must be positive")
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if req.Status != nil && !waitlist.ValidStatus(*req.Status) {
		return nil, apperrors.BadRequestError(ErrInvalidStatus, fmt.Sprintf("invalid status: %s", *req.Status))
	}

	filter := entrystore.Filter{Status: req.Status, Search: strings.TrimSpace(req.Search)}
	entries, total, err := s.store.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	statusCounts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	roleCounts, err := s.store.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count by role: %w", err)
	}

	// Zero-fill so the response shape is stable across an empty waitlist.
	for _, status := range waitlist.Statuses {
		if _, ok := statusCounts[status]; !ok {
			statusCounts[status] = 0
		}
	}
	for _, role := range waitlist.Roles {
		if _, ok := roleCounts[role]; !ok {
			roleCounts[role] = 0
		}
	}

	safe := make([]waitlist.SafeEntry, len(entries))
	for i, entry := range entries {
		safe[i] = entry.Safe()
	}

	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &waitlist.ListResponse{
		Entries: safe,
		Pagination: waitlist.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
		Stats: waitlist.ListStats{
			StatusCounts: statusCounts,
			RoleCounts:   roleCounts,
		},
	}, nil
}

// SetStatus moves an entry to the given review status.
func (s *waitlistService) SetStatus(ctx context.Context, id string, status waitlist.Status) error {
	if !waitlist.ValidStatus(status) {
		return apperrors.BadRequestError(ErrInvalidStatus, fmt.Sprintf("invalid status: %s", status))
	}

	_, err := s.store.UpdateFields(ctx, id, entrystore.Fields{Status: &status})
	if err != nil {
		if errors.Is(err, entrystore.ErrEntryNotFound) {
			return apperrors.ResourceNotFoundError(ErrEntryNotFound, "waitlist entry not found")
		}
		return fmt.Errorf("failed to update status: %w", err)
	}

	metrics.AdminActionsTotal.WithLabelValues("set_status").Inc()
	return nil
}

// Remove permanently deletes an entry.
func (s *waitlistService) Remove(ctx context.Context, id string) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if !deleted {
		return apperrors.ResourceNotFoundError(ErrEntryNotFound, "waitlist entry not found")
	}

	metrics.AdminActionsTotal.WithLabelValues("delete").Inc()
	return nil
}

// ResendVerification re-sends the verification email for an unverified
// entry. An existing token is reused so a previously sent email stays
// valid; a fresh one is issued only when none exists. Unlike the public
// submission path, a send failure here is surfaced to the caller.
func (s *waitlistService) ResendVerification(ctx context.Context, id string) error {
	entry, err := s.store.Find(ctx, entrystore.WithID(id))
	if err != nil {
		if errors.Is(err, entrystore.ErrEntryNotFound) {
			return apperrors.ResourceNotFoundError(ErrEntryNotFound, "waitlist entry not found")
		}
		return fmt.Errorf("failed to find entry: %w", err)
	}

	if entry.EmailVerified {
		return apperrors.BadRequestError(ErrAlreadyVerified, "email is already verified")
	}

	token := entry.VerificationToken
	if token == "" {
		token, err = waitlist.NewVerificationToken()
		if err != nil {
			return fmt.Errorf("failed to issue verification token: %w", err)
		}
		if _, err = s.store.UpdateFields(ctx, id, entrystore.Fields{VerificationToken: &token}); err != nil {
			return fmt.Errorf("failed to store verification token: %w", err)
		}
	}

	if err := s.mailer.SendVerificationEmail(ctx, entry.Email, entry.Name, token); err != nil {
		metrics.EmailSendsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return apperrors.DependencyError(err, "failed to send verification email")
	}
	metrics.EmailSendsTotal.WithLabelValues(metrics.OutcomeSent).Inc()

	metrics.AdminActionsTotal.WithLabelValues("resend_verification").Inc()
	return nil
}

var csvHeader = []string{"Name", "Email", "Wallet Address", "Roles", "Status", "Email Verified", "Created At"}

// ExportCSV renders every entry as CSV. Every field is quote-wrapped so
// embedded delimiters cannot break the document; a waitlist with zero
// entries still yields a valid header-only document.
func (s *waitlistService) ExportCSV(ctx context.Context) ([]byte, error) {
	entries, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	var b strings.Builder
	writeCSVRow(&b, csvHeader)

	for _, entry := range entries {
		wallet := entry.WalletAddress
		if wallet == "" {
			wallet = "N/A"
		}
		roles := make([]string, len(entry.Roles))
		for i, r := range entry.Roles {
			roles[i] = string(r)
		}
		verified := "No"
		if entry.EmailVerified {
			verified = "Yes"
		}
		writeCSVRow(&b, []string{
			entry.Name,
			entry.Email,
			wallet,
			strings.Join(roles, ";"),
			string(entry.Status),
			verified,
			entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	metrics.AdminActionsTotal.WithLabelValues("export").Inc()
	return []byte(b.String()), nil
}

// writeCSVRow writes one record with every field quoted, doubling any
// embedded quotes per RFC 4180.
func writeCSVRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
}

// RecordPostURL validates and canonicalizes a social post URL, then claims
// it for the entry. Re-submitting the same canonical URL for its owning
// entry is an idempotent accept.
func (s *waitlistService) RecordPostURL(ctx context.Context, id, rawURL string) error {
	canonical, err := waitlist.CanonicalPostURL(rawURL)
	if err != nil {
		return apperrors.BadRequestError(err, "invalid post URL format")
	}

	entry, err := s.store.Find(ctx, entrystore.WithID(id))
	if err != nil {
		if errors.Is(err, entrystore.ErrEntryNotFound) {
			return apperrors.ResourceNotFoundError(ErrEntryNotFound, "waitlist entry not found")
		}
		return fmt.Errorf("failed to find entry: %w", err)
	}

	if !entry.EmailVerified {
		return apperrors.BadRequestError(ErrNotVerified, "email must be verified before posting")
	}
	if entry.PostURL == canonical {
		return nil
	}

	if _, err := s.store.ClaimPostURL(ctx, id, canonical); err != nil {
		if errors.Is(err, entrystore.ErrDuplicatePostURL) {
			return apperrors.ConflictError(ErrPostURLInUse, "post URL is already claimed by another entry")
		}
		return fmt.Errorf("failed to claim post URL: %w", err)
	}

	metrics.AdminActionsTotal.WithLabelValues("record_post_url").Inc()
	return nil
}

// Statistics computes waitlist-wide counts. Unverified is derived as
// total-verified so the returned counters are internally consistent.
func (s *waitlistService) Statistics(ctx context.Context) (*waitlist.Stats, error) {
	statusCounts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	verified, err := s.store.CountVerified(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count verified entries: %w", err)
	}

	total := 0
	for _, count := range statusCounts {
		total += count
	}

	return &waitlist.Stats{
		Total:      total,
		Verified:   verified,
		Unverified: total - verified,
		Pending:    statusCounts[waitlist.StatusPending],
		Approved:   statusCounts[waitlist.StatusApproved],
		Rejected:   statusCounts[waitlist.StatusRejected],
	}, nil
}

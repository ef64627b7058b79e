package entrystore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/chainsafe/waitlist-api/pkg/waitlist"
)

// Unique index names created by migrations; the violated constraint name is
// how a generic integrity violation is mapped back to a domain conflict.
const (
	idxEmail   = "idx_waitlist_entries_email"
	idxWallet  = "idx_waitlist_entries_wallet_address"
	idxToken   = "idx_waitlist_entries_verification_token"
	idxPostURL = "idx_waitlist_entries_post_url"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the entry store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

// mapDuplicateErr translates a postgres unique violation into the matching
// ErrDuplicate* sentinel. Returns nil when err is not a unique violation.
func mapDuplicateErr(err error) error {
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) || !pgErr.IntegrityViolation() {
		return nil
	}
	switch pgErr.Field('n') {
	case idxEmail:
		return ErrDuplicateEmail
	case idxWallet:
		return ErrDuplicateWallet
	case idxToken:
		return ErrDuplicateToken
	case idxPostURL:
		return ErrDuplicatePostURL
	}
	return nil
}

func (s *pgStore) Insert(ctx context.Context, entry *waitlist.Entry) (string, error) {
	dao := toEntryDao(entry)
	dao.ID = uuid.NewString()
	now := time.Now().UTC()
	dao.CreatedAt = now
	dao.UpdatedAt = now

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		if dup := mapDuplicateErr(err); dup != nil {
			return "", dup
		}
		return "", fmt.Errorf("failed to insert entry: %w", err)
	}

	return dao.ID, nil
}

func (s *pgStore) Find(ctx context.Context, opts ...QueryOption) (*waitlist.Entry, error) {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	dao := new(EntryDao)
	query := s.db.NewSelect().Model(dao)

	if options.ID != nil {
		query = query.Where("id = ?", *options.ID)
	}
	if options.Email != nil {
		query = query.Where("email = ?", *options.Email)
	}
	if options.Token != nil {
		query = query.Where("verification_token = ?", *options.Token)
	}
	if options.PostURL != nil {
		query = query.Where("post_url = ?", *options.PostURL)
	}

	err := query.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return toEntry(dao), nil
}

func (s *pgStore) UpdateFields(ctx context.Context, id string, fields Fields) (*waitlist.Entry, error) {
	dao := new(EntryDao)
	query := s.db.NewUpdate().
		Model(dao).
		Set("updated_at = now()").
		Where("id = ?", id).
		Returning("*")

	if fields.Status != nil {
		query = query.Set("status = ?", string(*fields.Status))
	}
	if fields.EmailVerified != nil {
		query = query.Set("email_verified = ?", *fields.EmailVerified)
	}
	if fields.VerificationToken != nil {
		query = query.Set("verification_token = ?", *fields.VerificationToken)
	}
	if fields.Posted != nil {
		query = query.Set("posted = ?", *fields.Posted)
	}
	if fields.PostURL != nil {
		query = query.Set("post_url = ?", *fields.PostURL)
	}

	// With a scan destination, bun reports a RETURNING update that matched
	// no row as sql.ErrNoRows rather than via RowsAffected.
	_, err := query.Exec(ctx, dao)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		if dup := mapDuplicateErr(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	return toEntry(dao), nil
}

func (s *pgStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.NewDelete().
		Model((*EntryDao)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete entry: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return rows > 0, nil
}

func (s *pgStore) List(ctx context.Context, filter Filter, page, pageSize int) ([]*waitlist.Entry, int, error) {
	var daos []EntryDao
	query := s.db.NewSelect().Model(&daos)

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("name ILIKE ?", pattern).WhereOr("email ILIKE ?", pattern)
		})
	}

	total, err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}

	entries := make([]*waitlist.Entry, len(daos))
	for i := range daos {
		entries[i] = toEntry(&daos[i])
	}
	return entries, total, nil
}

func (s *pgStore) ListAll(ctx context.Context) ([]*waitlist.Entry, error) {
	var daos []EntryDao
	err := s.db.NewSelect().
		Model(&daos).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	entries := make([]*waitlist.Entry, len(daos))
	for i := range daos {
		entries[i] = toEntry(&daos[i])
	}
	return entries, nil
}

func (s *pgStore) CountByStatus(ctx context.Context) (map[waitlist.Status]int, error) {
	var rows []struct {
		Status string `bun:"status"`
		Count  int    `bun:"count"`
	}
	err := s.db.NewSelect().
		Model((*EntryDao)(nil)).
		Column("status").
		ColumnExpr("count(*) AS count").
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries by status: %w", err)
	}

	counts := make(map[waitlist.Status]int, len(rows))
	for _, row := range rows {
		counts[waitlist.Status(row.Status)] = row.Count
	}
	return counts, nil
}

func (s *pgStore) CountByRole(ctx context.Context) (map[waitlist.Role]int, error) {
	var rows []struct {
		Role  string `bun:"role"`
		Count int    `bun:"count"`
	}
	// Each entry's role set is flattened, so an entry with two roles
	// contributes to two buckets.
	err := s.db.NewSelect().
		Model((*EntryDao)(nil)).
		ColumnExpr("unnest(roles) AS role").
		ColumnExpr("count(*) AS count").
		GroupExpr("role").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries by role: %w", err)
	}

	counts := make(map[waitlist.Role]int, len(rows))
	for _, row := range rows {
		counts[waitlist.Role(row.Role)] = row.Count
	}
	return counts, nil
}

func (s *pgStore) CountVerified(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().
		Model((*EntryDao)(nil)).
		Where("email_verified = TRUE").
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count verified entries: %w", err)
	}
	return count, nil
}

func (s *pgStore) ConsumeToken(ctx context.Context, token string) (*ConsumeResult, error) {
	dao := new(EntryDao)
	_, err := s.db.NewUpdate().
		Model(dao).
		Set("email_verified = TRUE").
		Set("status = ?", string(waitlist.StatusApproved)).
		Set("verification_token = NULL").
		Set("updated_at = now()").
		Where("verification_token = ?", token).
		Where("email_verified = FALSE").
		Returning("*").
		Exec(ctx, dao)
	if err == nil {
		return &ConsumeResult{Entry: toEntry(dao)}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to consume token: %w", err)
	}

	// The conditional write matched nothing: either the token was never
	// issued (or already consumed), or the entry was verified through
	// another path while still holding the token.
	entry, err := s.Find(ctx, WithToken(token))
	if err != nil {
		return nil, err
	}
	return &ConsumeResult{Entry: entry, AlreadyVerified: true}, nil
}

func (s *pgStore) ClaimPostURL(ctx context.Context, id, postURL string) (*waitlist.Entry, error) {
	posted := true
	return s.UpdateFields(ctx, id, Fields{Posted: &posted, PostURL: &postURL})
}

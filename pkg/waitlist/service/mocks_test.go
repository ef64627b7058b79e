package service

import (
	"context"

	"github.com/chainsafe/waitlist-api/pkg/entrystore"
	"github.com/chainsafe/waitlist-api/pkg/waitlist"
)

// MockStore is a mock implementation of entrystore.Store
type MockStore struct {
	InsertFunc        func(ctx context.Context, entry *waitlist.Entry) (string, error)
	FindFunc          func(ctx context.Context, opts ...entrystore.QueryOption) (*waitlist.Entry, error)
	UpdateFieldsFunc  func(ctx context.Context, id string, fields entrystore.Fields) (*waitlist.Entry, error)
	DeleteFunc        func(ctx context.Context, id string) (bool, error)
	ListFunc          func(ctx context.Context, filter entrystore.Filter, page, pageSize int) ([]*waitlist.Entry, int, error)
	ListAllFunc       func(ctx context.Context) ([]*waitlist.Entry, error)
	CountByStatusFunc func(ctx context.Context) (map[waitlist.Status]int, error)
	CountByRoleFunc   func(ctx context.Context) (map[waitlist.Role]int, error)
	CountVerifiedFunc func(ctx context.Context) (int, error)
	ConsumeTokenFunc  func(ctx context.Context, token string) (*entrystore.ConsumeResult, error)
	ClaimPostURLFunc  func(ctx context.Context, id, postURL string) (*waitlist.Entry, error)
}

func (m *MockStore) Insert(ctx context.Context, entry *waitlist.Entry) (string, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, entry)
	}
	return "", nil
}

func (m *MockStore) Find(ctx context.Context, opts ...entrystore.QueryOption) (*waitlist.Entry, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, opts...)
	}
	return nil, entrystore.ErrEntryNotFound
}

func (m *MockStore) UpdateFields(ctx context.Context, id string, fields entrystore.Fields) (*waitlist.Entry, error) {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil, entrystore.ErrEntryNotFound
}

func (m *MockStore) Delete(ctx context.Context, id string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

func (m *MockStore) List(
	ctx context.Context,
	filter entrystore.Filter,
	page, pageSize int) ([]*waitlist.Entry, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, page, pageSize)
	}
	return nil, 0, nil
}

func (m *MockStore) ListAll(ctx context.Context) ([]*waitlist.Entry, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) CountByStatus(ctx context.Context) (map[waitlist.Status]int, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx)
	}
	return map[waitlist.Status]int{}, nil
}

func (m *MockStore) CountByRole(ctx context.Context) (map[waitlist.Role]int, error) {
	if m.CountByRoleFunc != nil {
		return m.CountByRoleFunc(ctx)
	}
	return map[waitlist.Role]int{}, nil
}

func (m *MockStore) CountVerified(ctx context.Context) (int, error) {
	if m.CountVerifiedFunc != nil {
		return m.CountVerifiedFunc(ctx)
	}
	return 0, nil
}

func (m *MockStore) ConsumeToken(ctx context.Context, token string) (*entrystore.ConsumeResult, error) {
	if m.ConsumeTokenFunc != nil {
		return m.ConsumeTokenFunc(ctx, token)
	}
	return nil, entrystore.ErrEntryNotFound
}

func (m *MockStore) ClaimPostURL(ctx context.Context, id, postURL string) (*waitlist.Entry, error) {
	if m.ClaimPostURLFunc != nil {
		return m.ClaimPostURLFunc(ctx, id, postURL)
	}
	return nil, entrystore.ErrEntryNotFound
}

// MockMailer is a mock implementation of Mailer
type MockMailer struct {
	SendVerificationEmailFunc func(ctx context.Context, to, displayName, token string) error
}

func (m *MockMailer) SendVerificationEmail(ctx context.Context, to, displayName, token string) error {
	if m.SendVerificationEmailFunc != nil {
		return m.SendVerificationEmailFunc(ctx, to, displayName, token)
	}
	return nil
}

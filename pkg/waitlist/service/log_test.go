package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chainsafe/waitlist-api/pkg/auth"
	"github.com/chainsafe/waitlist-api/pkg/entrystore"
	"github.com/chainsafe/waitlist-api/pkg/waitlist"
)

func TestLogService_AttributesAdminActions(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	storeMock := &MockStore{
		UpdateFieldsFunc: func(_ context.Context, id string, fields entrystore.Fields) (*waitlist.Entry, error) {
			return &waitlist.Entry{ID: id, Status: *fields.Status}, nil
		},
	}
	svc := NewLog(NewService(storeMock, &MockMailer{}, zap.NewNop()), logger)

	adminAddress := "0x1111111111111111111111111111111111111111"
	ctx := auth.WithAdminAddress(context.Background(), adminAddress)

	if err := svc.SetStatus(ctx, "e1", waitlist.StatusApproved); err != nil {
		t.Fatalf("SetStatus() failed: %v", err)
	}

	entries := logs.FilterMessage("SetStatus completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 completion log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["admin"] != adminAddress {
		t.Fatalf("expected admin attribution %s, got %v", adminAddress, fields["admin"])
	}
	if fields["status"] != "approved" {
		t.Fatalf("expected status field, got %v", fields["status"])
	}
}

func TestLogService_NoAdminFieldWithoutContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	storeMock := &MockStore{
		DeleteFunc: func(_ context.Context, _ string) (bool, error) {
			return true, nil
		},
	}
	svc := NewLog(NewService(storeMock, &MockMailer{}, zap.NewNop()), logger)

	if err := svc.Remove(context.Background(), "e1"); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}

	entries := logs.FilterMessage("Remove completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 completion log, got %d", len(entries))
	}
	if _, ok := entries[0].ContextMap()["admin"]; ok {
		t.Fatal("expected no admin field without an authenticated context")
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/waitlist-api/pkg/auth"
	"github.com/chainsafe/waitlist-api/pkg/waitlist"
)

const serviceName = "WaitlistService"

const tokenDisplaySize = 8

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the waitlist Service.
// It logs method entry/exit, duration, errors, and sanitized data; email
// verification tokens are never logged in full.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

// adminField attributes a privileged operation to the verified admin
// address the HTTP layer stored on the context.
func adminField(ctx context.Context) zap.Field {
	if addr, ok := auth.AdminAddressFromContext(ctx); ok {
		return zap.String("admin", addr)
	}
	return zap.Skip()
}

func (ls *logService) logDone(method string, start time.Time, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		ls.logger.Error(method+" failed", append(fields, zap.Error(err))...)
		return
	}
	ls.logger.Info(method+" completed", fields...)
}

func (ls *logService) Submit(ctx context.Context, req *waitlist.SubmitRequest) (resp *waitlist.SubmitResponse, err error) {
	start := time.Now()
	ls.logger.Info("Submit started",
		zap.String("service", serviceName),
		zap.String("method", "Submit"),
		zap.String("email", req.Email),
		zap.Int("roles", len(req.Roles)),
	)
	defer func() {
		id := ""
		if resp != nil {
			id = resp.ID
		}
		ls.logDone("Submit", start, err, zap.String("id", id))
	}()
	return ls.svc.Submit(ctx, req)
}

func (ls *logService) VerifyByToken(ctx context.Context, token string) (resp *waitlist.VerifyResponse, err error) {
	start := time.Now()
	ls.logger.Info("VerifyByToken started",
		zap.String("service", serviceName),
		zap.String("method", "VerifyByToken"),
		zap.String("token", redactToken(token)),
	)
	defer func() {
		already := false
		if resp != nil {
			already = resp.AlreadyVerified
		}
		ls.logDone("VerifyByToken", start, err, zap.Bool("already_verified", already))
	}()
	return ls.svc.VerifyByToken(ctx, token)
}

func (ls *logService) ListForAdmin(ctx context.Context, req *waitlist.ListRequest) (resp *waitlist.ListResponse, err error) {
	start := time.Now()
	defer func() {
		total := 0
		if resp != nil {
			total = resp.Pagination.Total
		}
		ls.logDone("ListForAdmin", start, err,
			adminField(ctx),
			zap.Int("page", req.Page),
			zap.Int("limit", req.PageSize),
			zap.Int("total", total),
		)
	}()
	return ls.svc.ListForAdmin(ctx, req)
}

func (ls *logService) SetStatus(ctx context.Context, id string, status waitlist.Status) (err error) {
	start := time.Now()
	defer func() {
		ls.logDone("SetStatus", start, err,
			adminField(ctx),
			zap.String("id", id),
			zap.String("status", string(status)),
		)
	}()
	return ls.svc.SetStatus(ctx, id, status)
}

func (ls *logService) Remove(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() {
		ls.logDone("Remove", start, err, adminField(ctx), zap.String("id", id))
	}()
	return ls.svc.Remove(ctx, id)
}

func (ls *logService) ResendVerification(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() {
		ls.logDone("ResendVerification", start, err, adminField(ctx), zap.String("id", id))
	}()
	return ls.svc.ResendVerification(ctx, id)
}

func (ls *logService) ExportCSV(ctx context.Context) (data []byte, err error) {
	start := time.Now()
	defer func() {
		ls.logDone("ExportCSV", start, err, adminField(ctx), zap.Int("bytes", len(data)))
	}()
	return ls.svc.ExportCSV(ctx)
}

func (ls *logService) RecordPostURL(ctx context.Context, id, rawURL string) (err error) {
	start := time.Now()
	defer func() {
		ls.logDone("RecordPostURL", start, err,
			adminField(ctx),
			zap.String("id", id),
			zap.String("url", rawURL),
		)
	}()
	return ls.svc.RecordPostURL(ctx, id, rawURL)
}

func (ls *logService) Statistics(ctx context.Context) (stats *waitlist.Stats, err error) {
	start := time.Now()
	defer func() {
		total := 0
		if stats != nil {
			total = stats.Total
		}
		ls.logDone("Statistics", start, err, adminField(ctx), zap.Int("total", total))
	}()
	return ls.svc.Statistics(ctx)
}

// redactToken shows only a token prefix; the full value is a single-use
// secret equivalent to control of the email address.
func redactToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	if len(token) > tokenDisplaySize {
		return fmt.Sprintf("%s... (%d chars)", token[:tokenDisplaySize], len(token))
	}
	return fmt.Sprintf("<%d chars>", len(token))
}

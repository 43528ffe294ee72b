package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock func() time.Time
}

// ServiceOption is a functional option shared by every service constructor.
type ServiceOption func(*BaseService)

// WithClock overrides the time source, mainly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(b *BaseService) {
		b.clock = clock
	}
}

func newBaseService(options []ServiceOption) BaseService {
	b := BaseService{clock: time.Now}
	for _, option := range options {
		option(&b)
	}
	return b
}

// Now returns the current time from the configured clock.
func (s *BaseService) Now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

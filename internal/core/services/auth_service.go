package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/platform/config"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils"
)

// tokenService issues JWT access tokens carrying the user's role.
type tokenService struct {
	BaseService
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, options ...ServiceOption) portssvc.TokenSvcFacade {
	return &tokenService{
		BaseService: newBaseService(options),
		cfg:         cfg,
	}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	token, expiresAt, err := utils.GenerateJWT(user, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

package services

import (
	"errors"
	"time"

	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/observability/logging"
	"github.com/ming0627/bellyfed-new-sub002/internal/infrastructure/security"
	"github.com/ming0627/bellyfed-new-sub002/pkg/config"
)

// ErrInvalidCredentials is returned when the admin password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues dashboard tokens against the configured admin password.
type AuthService struct {
	logger *logging.ChanneledLogger
}

// NewAuthService creates the service.
func NewAuthService(logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{logger: logger}
}

// Login verifies the admin password and returns a signed dashboard token.
func (s *AuthService) Login(password string) (string, error) {
	if config.AdminPasswordHash == "" || config.JWTSecret == "" {
		s.logger.Auth().Error("Dashboard auth not configured",
			"hasPasswordHash", config.AdminPasswordHash != "",
			"hasJWTSecret", config.JWTSecret != "")
		return "", errors.New("dashboard authentication is not configured")
	}

	if !security.CheckPassword(password, config.AdminPasswordHash) {
		s.logger.Auth().Info("Dashboard login rejected")
		return "", ErrInvalidCredentials
	}

	lifetime := time.Duration(config.TokenLifetimeHours) * time.Hour
	token, err := security.GenerateDashboardToken("dashboard-admin", config.JWTSecret, lifetime)
	if err != nil {
		s.logger.Auth().Error("Token generation failed", "error", err.Error())
		return "", err
	}

	s.logger.Auth().Info("Dashboard login succeeded", "lifetimeHours", config.TokenLifetimeHours)
	return token, nil
}

// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"orderdesk/config"
	"orderdesk/internal/cache"
	deliverycontext "orderdesk/internal/delivery/context"
	"orderdesk/internal/domain/entity"
	domainerrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/repository"
	"orderdesk/internal/domain/service"
	"orderdesk/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// logoutDelay is the contractual pause before a logout response returns.
// Clients depend on it; do not remove without a coordinated release.
const logoutDelay = 1500 * time.Millisecond

const revokedMarker = "revoked"

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	cacheStore   service.CacheStore
	mailer       service.Mailer
	invalidator  *cache.Invalidator
	refreshTTL   time.Duration
	codeTTL      time.Duration
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	CacheStore   service.CacheStore
	Mailer       service.Mailer
	Invalidator  *cache.Invalidator
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		cacheStore:   params.CacheStore,
		mailer:       params.Mailer,
		invalidator:  params.Invalidator,
		refreshTTL:   params.Config.Auth.RefreshTokenTTL,
		codeTTL:      params.Config.Cache.CodeTTL,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new FREELANCER account and issues an email verification code.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	if _, err := srv.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, domainerrors.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check email uniqueness")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	verified := false
	newUser := &entity.User{
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		PasswordHash:    hashedPassword,
		Country:         input.Country,
		IsEmailVerified: &verified,
		Role:            entity.RoleFreelancer,
	}

	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		// A concurrent registration may win the unique index race.
		if errors.Is(err, domainerrors.ErrEmailTaken) {
			return nil, domainerrors.ErrEmailTaken
		}

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	srv.invalidator.DropPrefixes(ctx, cache.UserListPrefix)

	// Verification is best effort at this point; the account exists either
	// way and the code can be re-requested.
	if err := srv.issueCode(ctx, cache.VerifyKey(input.Email), input.Email, srv.mailer.SendVerificationCode); err != nil {
		srv.log(ctx).Warn("Failed to issue verification code after registration",
			slog.String("email", input.Email), slog.Any("error", err))
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// Login authenticates a user and returns a fresh token pair.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to load user during login")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch during login", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens during login")
	}

	if err := srv.cacheStore.Set(ctx, cache.RefreshKey(user.ID), refreshToken, srv.refreshTTL); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	srv.log(ctx).Info("User logged in", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The presented
// token must match the one stored at login; logout clears it, which makes
// every outstanding refresh token unusable at once.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.RefreshOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrTokenInvalid
	}

	stored, err := srv.cacheStore.Get(ctx, cache.RefreshKey(claims.UserID))
	if err != nil {
		if errors.Is(err, service.ErrCacheMiss) {
			return nil, domainerrors.ErrTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to load stored refresh token")
	}
	if stored != refreshToken {
		return nil, domainerrors.ErrTokenInvalid
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to load user during token refresh")
	}

	accessToken, newRefreshToken, err := srv.tokenService.GenerateTokens(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens during refresh")
	}

	if err := srv.cacheStore.Set(ctx, cache.RefreshKey(user.ID), newRefreshToken, srv.refreshTTL); err != nil {
		return nil, errors.Wrap(err, "failed to rotate refresh token")
	}

	return &usecase.RefreshOutput{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the presented access token and drops the stored refresh
// token. The raw token string is the ledger key; the marker lives exactly as
// long as the token could otherwise remain valid.
func (srv *authService) Logout(ctx context.Context, principal entity.Principal, accessToken string) error {
	ttl := srv.tokenService.GetAccessTokenDuration()
	if err := srv.cacheStore.Set(ctx, accessToken, revokedMarker, ttl); err != nil {
		return errors.Wrap(err, "failed to write revocation marker")
	}

	srv.invalidator.DropKeys(ctx, cache.RefreshKey(principal.UserID))

	srv.log(ctx).Info("User logged out", slog.Any("userID", principal.UserID))

	time.Sleep(logoutDelay)

	return nil
}

// SendVerificationCode issues a fresh email verification code.
func (srv *authService) SendVerificationCode(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to load user for verification code")
	}
	if user.IsEmailVerified != nil && *user.IsEmailVerified {
		return nil
	}

	return srv.issueCode(ctx, cache.VerifyKey(email), email, srv.mailer.SendVerificationCode)
}

// VerifyEmail redeems a verification code and marks the address verified.
func (srv *authService) VerifyEmail(ctx context.Context, email, code string) error {
	if err := srv.redeemCode(ctx, cache.VerifyKey(email), code); err != nil {
		return err
	}

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to load user during email verification")
	}

	verified := true
	user.IsEmailVerified = &verified
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to mark email verified")
	}

	srv.invalidator.DropPrefixes(ctx, cache.UserListPrefix)
	srv.invalidator.DropKeys(ctx, cache.DetailKey(cache.UserDetailPrefix, user.ID))

	srv.log(ctx).Info("Email verified", slog.Any("userID", user.ID))

	return nil
}

// ForgotPassword issues a one-time password reset code.
func (srv *authService) ForgotPassword(ctx context.Context, email string) error {
	if _, err := srv.userRepo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to load user for password reset")
	}

	return srv.issueCode(ctx, cache.ResetKey(email), email, srv.mailer.SendPasswordResetCode)
}

// ResetPassword redeems a reset code and replaces the user's password. The
// stored refresh token is dropped so stolen sessions die with the old password.
func (srv *authService) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) error {
	if err := srv.redeemCode(ctx, cache.ResetKey(input.Email), input.Code); err != nil {
		return err
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to load user during password reset")
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	user.PasswordHash = hashedPassword
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to persist new password")
	}

	srv.invalidator.DropKeys(ctx, cache.RefreshKey(user.ID))

	srv.log(ctx).Info("Password reset completed", slog.Any("userID", user.ID))

	return nil
}

// issueCode stores a fresh one-time code under key and hands it to send. The
// code expires on its own; re-issuing overwrites the previous one.
func (srv *authService) issueCode(ctx context.Context, key, email string, send func(context.Context, string, string) error) error {
	code, err := generateCode()
	if err != nil {
		return errors.Wrap(err, "failed to generate one-time code")
	}

	if err := srv.cacheStore.Set(ctx, key, code, srv.codeTTL); err != nil {
		return errors.Wrap(err, "failed to store one-time code")
	}

	if err := send(ctx, email, code); err != nil {
		return errors.Wrap(err, "failed to send one-time code")
	}

	return nil
}

// redeemCode checks the presented code against the stored one and consumes it
// on success. An expired, absent or mismatched code is the same failure.
func (srv *authService) redeemCode(ctx context.Context, key, code string) error {
	stored, err := srv.cacheStore.Get(ctx, key)
	if err != nil {
		if errors.Is(err, service.ErrCacheMiss) {
			return domainerrors.ErrCodeInvalid
		}

		return errors.Wrap(err, "failed to load one-time code")
	}
	if stored != code {
		return domainerrors.ErrCodeInvalid
	}

	srv.invalidator.DropKeys(ctx, key)

	return nil
}

// generateCode produces a 6-digit numeric one-time code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}

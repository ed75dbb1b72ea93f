package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"html"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/config"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/repository"
	portaltypes "github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/pkg/types"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/auth"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/mailer"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/metrics"
)

// OTPUsecase defines the email one-time code login.
type OTPUsecase interface {
	// RequestOTP issues a new code for a registered email and mails it.
	RequestOTP(ctx context.Context, email string) error

	// VerifyOTP checks a code and returns a session token on success.
	VerifyOTP(ctx context.Context, email, code string) (*portaltypes.SessionToken, error)
}

var (
	ErrUserNotFound = errors.New("email not found")
	ErrNoPendingOTP = errors.New("no otp pending verification")
	ErrInvalidOTP   = errors.New("invalid otp")
	ErrOTPExpired   = errors.New("otp expired")
)

const otpSubject = "Your OTP for Stranger Things Portal"

type otpUsecase struct {
	userRepo         repository.UserRepository
	otpRepo          repository.OTPCredentialRepository
	jwtAuth          auth.JWTAuthenticator
	mailer           mailer.Sender
	portalServiceCfg *config.PortalServiceConfig
	logger           *zerolog.Logger
	now              func() time.Time
	generateCode     func() (string, error)
}

// NewOTPUsecase creates a new instance of OTPUsecase.
func NewOTPUsecase(
	userRepo repository.UserRepository,
	otpRepo repository.OTPCredentialRepository,
	jwtAuth auth.JWTAuthenticator,
	mailer mailer.Sender,
	portalServiceCfg *config.PortalServiceConfig,
	logger *zerolog.Logger,
) OTPUsecase {
	return &otpUsecase{
		userRepo:         userRepo,
		otpRepo:          otpRepo,
		jwtAuth:          jwtAuth,
		mailer:           mailer,
		portalServiceCfg: portalServiceCfg,
		logger:           logger,
		now:              time.Now,
		generateCode:     generateCode,
	}
}

func (u *otpUsecase) RequestOTP(ctx context.Context, email string) error {
	email = model.NormalizeEmail(email)

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	code, err := u.generateCode()
	if err != nil {
		return err
	}

	// Concurrent requests for the same email race here; the last write wins.
	expiresAt := u.now().Add(u.portalServiceCfg.OTP.ExpiresIn)
	if err := u.otpRepo.SaveCredential(ctx, &model.OTPCredential{
		Email:     user.Email,
		Code:      code,
		ExpiresAt: expiresAt,
		PurgeAt:   expiresAt.Add(u.portalServiceCfg.OTP.Grace),
	}); err != nil {
		return err
	}

	validFor := formatValidity(u.portalServiceCfg.OTP.ExpiresIn)
	if err := u.mailer.Send(mailer.Email{
		To:       []string{user.Email},
		Subject:  otpSubject,
		Body:     fmt.Sprintf("Your OTP is %s. It is valid for %s.", code, validFor),
		HTMLBody: otpHTMLBody(user.Name, code, validFor),
	}); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	metrics.OTPIssued.Inc()

	return nil
}

func (u *otpUsecase) VerifyOTP(ctx context.Context, email, code string) (*portaltypes.SessionToken, error) {
	email = model.NormalizeEmail(email)

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, u.verificationFailed("unknown_email", ErrUserNotFound)
		}
		return nil, err
	}

	credential, err := u.otpRepo.GetCredential(ctx, user.Email)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return nil, u.verificationFailed("not_pending", ErrNoPendingOTP)
		}
		return nil, err
	}

	// A wrong code is reported before an expired one and leaves the pending
	// code in place.
	if subtle.ConstantTimeCompare([]byte(credential.Code), []byte(code)) != 1 {
		return nil, u.verificationFailed("invalid", ErrInvalidOTP)
	}

	if err := u.otpRepo.DeleteCredential(ctx, user.Email); err != nil {
		return nil, err
	}

	if credential.Expired(u.now()) {
		return nil, u.verificationFailed("expired", ErrOTPExpired)
	}

	if !model.ValidYear(user.Year) {
		return nil, fmt.Errorf("user %s has invalid year %d", user.Email, user.Year)
	}

	token, err := u.generateSessionToken(user)
	if err != nil {
		return nil, err
	}

	metrics.OTPVerifications.WithLabelValues("success").Inc()

	return &portaltypes.SessionToken{
		Token:        token,
		RedirectPath: fmt.Sprintf("/portal/year%d", user.Year),
		Year:         user.Year,
	}, nil
}

func (u *otpUsecase) verificationFailed(result string, err error) error {
	metrics.OTPVerifications.WithLabelValues(result).Inc()
	return err
}

func (u *otpUsecase) generateSessionToken(user *model.User) (string, error) {
	now := u.now()
	claims := portaltypes.SessionClaims{
		Email: user.Email,
		Year:  user.Year,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.portalServiceCfg.Token.ExpiresIn)),
		},
	}
	if issuer := u.jwtAuth.Issuer(); issuer != "" {
		claims.Issuer = issuer
	}
	if audience := u.jwtAuth.Audience(); audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}

	return u.jwtAuth.GenerateToken(claims, u.portalServiceCfg.Token.Secret)
}

// generateCode returns a uniformly random six digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func formatValidity(d time.Duration) string {
	if d%time.Minute == 0 {
		minutes := int(d / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}

	return d.String()
}

func otpHTMLBody(name, code, validFor string) string {
	greeting := "Hi,"
	if name != "" {
		greeting = fmt.Sprintf("Hi %s,", html.EscapeString(name))
	}

	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; background: #0b0b0b; color: #f5f5f5; padding: 24px;">
			<h2 style="color: #e6194b; letter-spacing: 2px;">STRANGER THINGS PORTAL</h2>
			<p>%s</p>
			<p>Your one-time password is:</p>
			<p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">%s</p>
			<p>It is valid for %s. Do not share it with anyone.</p>
			<p>If you did not request this code, you can ignore this email.</p>
		</div>
	`, greeting, code, validFor)
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"smarthire/internal/metrics"
	"smarthire/internal/models"
	"smarthire/internal/repositories"
	"smarthire/internal/utils"
)

const purposeEmailOTP = "email_otp"

// OTPService verifies the email of accounts that already exist but were never
// verified, using codes persisted next to the account.
type OTPService interface {
	RequestEmailOTP(ctx context.Context, email string) (time.Time, error)
	VerifyEmailOTP(ctx context.Context, email, otpCode string) error
}

type otpService struct {
	userRepo repositories.UserRepository
	otpRepo  repositories.OTPRepository
	mailer   EmailService
	opts     AuthOptions

	now         func() time.Time
	generateOTP func(account string) (string, error)
}

func NewOTPService(userRepo repositories.UserRepository, otpRepo repositories.OTPRepository, mailer EmailService, opts AuthOptions) OTPService {
	return &otpService{
		userRepo:    userRepo,
		otpRepo:     otpRepo,
		mailer:      mailer,
		opts:        opts,
		now:         time.Now,
		generateOTP: utils.GenerateOTP,
	}
}

func (s *otpService) findUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *otpService) RequestEmailOTP(ctx context.Context, email string) (time.Time, error) {
	email, err := utils.NormalizeEmail(email)
	if err != nil {
		return time.Time{}, invalid("email", err)
	}

	user, err := s.findUser(ctx, email)
	if err != nil {
		return time.Time{}, err
	}
	if user.IsEmailVerified {
		return time.Time{}, ErrAlreadyVerified
	}

	now := s.now()
	if n, err := s.otpRepo.DeleteExpired(ctx, now.Add(-s.opts.PendingRetention)); err != nil {
		log.Warn().Err(err).Msg("Failed to delete expired email OTPs")
	} else if n > 0 {
		log.Debug().Int64("deleted", n).Msg("Deleted expired email OTPs")
	}

	if _, err := s.otpRepo.InvalidateUnused(ctx, user.ID); err != nil {
		return time.Time{}, err
	}

	code, err := s.generateOTP(email)
	if err != nil {
		return time.Time{}, err
	}
	otp, err := s.otpRepo.Create(ctx, &models.EmailOTP{
		UserID:    user.ID,
		OTPCode:   code,
		ExpiresAt: now.Add(s.opts.OTPExpiry).UTC(),
		CreatedAt: now.UTC(),
	})
	if err != nil {
		return time.Time{}, err
	}

	if err := sendOTPEmail(s.mailer, purposeEmailOTP, email, user.Name, code, s.opts.OTPExpiry); err != nil {
		return time.Time{}, err
	}

	log.Info().Str("user_id", user.ID.Hex()).Msg("Email OTP issued")
	return otp.ExpiresAt, nil
}

func (s *otpService) VerifyEmailOTP(ctx context.Context, email, otpCode string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := utils.ValidateOTP(otpCode); err != nil {
		return invalid("otp", err)
	}

	user, err := s.findUser(ctx, email)
	if err != nil {
		return err
	}

	otp, err := s.otpRepo.FindUnused(ctx, user.ID, otpCode)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrInvalidOTP
	}
	if err != nil {
		return err
	}
	if !otp.ExpiresAt.After(s.now().UTC()) {
		return ErrOTPExpired
	}

	// a concurrent verify may have consumed it first
	if err := s.otpRepo.MarkAsUsed(ctx, otp.ID); errors.Is(err, repositories.ErrNotFound) {
		return ErrInvalidOTP
	} else if err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user.ID, bson.M{"is_email_verified": true}); err != nil {
		return err
	}

	metrics.AccountsVerifiedTotal.WithLabelValues(purposeEmailOTP).Inc()
	log.Info().Str("user_id", user.ID.Hex()).Msg("Email verified via OTP")
	return nil
}

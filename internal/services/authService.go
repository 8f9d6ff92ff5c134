package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"smarthire/internal/metrics"
	"smarthire/internal/models"
	"smarthire/internal/repositories"
	"smarthire/internal/utils"
)

// AuthService drives the OTP-gated signup and password reset flows and
// issues access tokens.
type AuthService interface {
	StartSignup(ctx context.Context, name, email, password string) (token string, expiresAt time.Time, err error)
	VerifySignupOTP(ctx context.Context, token, email, code string) error
	ResendSignupOTP(ctx context.Context, token, email string) (time.Time, error)

	StartPasswordReset(ctx context.Context, email string) (token string, expiresAt time.Time, err error)
	ResendResetOTP(ctx context.Context, token, email string) (time.Time, error)
	VerifyResetOTP(ctx context.Context, token, email, code string) error
	ResetPassword(ctx context.Context, token, email, newPassword, confirmPassword string) error

	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

// MaxOTPAttempts is how many wrong codes a pending record accepts before its
// code stops working.
const MaxOTPAttempts = 5

type AuthOptions struct {
	OTPExpiry        time.Duration
	PendingRetention time.Duration
}

type authService struct {
	userRepo repositories.UserRepository
	signups  repositories.PendingRepository
	resets   repositories.PendingRepository
	mailer   EmailService
	jwt      *utils.JWTManager
	opts     AuthOptions

	now           func() time.Time
	generateOTP   func(account string) (string, error)
	generateToken func() (string, error)
}

func NewAuthService(
	userRepo repositories.UserRepository,
	signups, resets repositories.PendingRepository,
	mailer EmailService,
	jwt *utils.JWTManager,
	opts AuthOptions,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		signups:       signups,
		resets:        resets,
		mailer:        mailer,
		jwt:           jwt,
		opts:          opts,
		now:           time.Now,
		generateOTP:   utils.GenerateOTP,
		generateToken: utils.GenerateSessionToken,
	}
}

// purgeExpired drops pending records that expired more than the retention
// window ago. Failures only cost memory, so they are logged and ignored.
func (s *authService) purgeExpired(ctx context.Context) {
	cutoff := s.now().Add(-s.opts.PendingRetention)
	for kind, store := range map[models.PendingKind]repositories.PendingRepository{
		models.PendingSignup: s.signups,
		models.PendingReset:  s.resets,
	} {
		n, err := store.PurgeExpired(ctx, cutoff)
		if err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to purge expired pending records")
			continue
		}
		if n > 0 {
			log.Debug().Int("purged", n).Str("kind", string(kind)).Msg("Purged expired pending records")
		}
	}
}

func (s *authService) StartSignup(ctx context.Context, name, email, password string) (string, time.Time, error) {
	s.purgeExpired(ctx)

	name = strings.TrimSpace(name)
	if err := utils.ValidateName(name); err != nil {
		return "", time.Time{}, invalid("name", err)
	}
	email, err := utils.NormalizeEmail(email)
	if err != nil {
		return "", time.Time{}, invalid("email", err)
	}
	if err := utils.ValidatePassword(password); err != nil {
		return "", time.Time{}, invalid("password", err)
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.IsEmailVerified:
		log.Warn().Str("email", email).Msg("Signup attempted for registered email")
		return "", time.Time{}, ErrDuplicateEmail
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return "", time.Time{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password during signup")
		return "", time.Time{}, fmt.Errorf("hash password: %w", err)
	}

	rec, err := s.newPendingRecord(models.PendingSignup, name, email)
	if err != nil {
		return "", time.Time{}, err
	}
	rec.PasswordHash = string(hash)

	if err := s.signups.Create(ctx, rec); err != nil {
		return "", time.Time{}, fmt.Errorf("store pending signup: %w", err)
	}

	if err := sendOTPEmail(s.mailer, string(models.PendingSignup), email, name, rec.OTPCode, s.opts.OTPExpiry); err != nil {
		if delErr := s.signups.Delete(ctx, rec.Token); delErr != nil {
			log.Warn().Err(delErr).Msg("Failed to drop pending signup after mail failure")
		}
		return "", time.Time{}, err
	}

	metrics.SignupsStartedTotal.Inc()
	log.Info().Str("email", email).Msg("Signup OTP issued")
	return rec.Token, rec.ExpiresAt, nil
}

func (s *authService) newPendingRecord(kind models.PendingKind, name, email string) (*models.PendingRecord, error) {
	code, err := s.generateOTP(email)
	if err != nil {
		return nil, err
	}
	token, err := s.generateToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	now := s.now()
	return &models.PendingRecord{
		Token:     token,
		Kind:      kind,
		Name:      name,
		Email:     email,
		OTPCode:   code,
		ExpiresAt: now.Add(s.opts.OTPExpiry),
		CreatedAt: now,
	}, nil
}

// update wraps PendingRepository.Update, mapping a missing record or a
// mismatched email to ErrSessionExpiredOrMissing.
func (s *authService) update(ctx context.Context, store repositories.PendingRepository, token, email string, fn repositories.UpdateFunc) (*models.PendingRecord, error) {
	rec, err := store.Update(ctx, token, func(rec *models.PendingRecord) (bool, error) {
		if rec.Email != email {
			return false, ErrSessionExpiredOrMissing
		}
		return fn(rec)
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrSessionExpiredOrMissing
	}
	return rec, err
}

// checkCode validates a submitted code against the record's current one.
// A wrong code bumps FailedAttempts on rec; after MaxOTPAttempts failures
// the code is burned and only a resend issues a usable one.
func (s *authService) checkCode(rec *models.PendingRecord, code string) error {
	if rec.Expired(s.now()) {
		return ErrOTPExpired
	}
	if rec.FailedAttempts >= MaxOTPAttempts {
		return ErrTooManyAttempts
	}
	if !utils.OTPEqual(rec.OTPCode, code) {
		rec.FailedAttempts++
		if rec.FailedAttempts >= MaxOTPAttempts {
			return ErrTooManyAttempts
		}
		return ErrInvalidOTP
	}
	return nil
}

// verifyCode runs checkCode inside a pending update. Failed attempts are
// stored; onMatch decides what happens to the record on success.
func (s *authService) verifyCode(ctx context.Context, store repositories.PendingRepository, token, email, code string, onMatch repositories.UpdateFunc) (*models.PendingRecord, error) {
	var codeErr error
	rec, err := s.update(ctx, store, token, email, func(rec *models.PendingRecord) (bool, error) {
		codeErr = s.checkCode(rec, code)
		switch {
		case codeErr == nil:
			return onMatch(rec)
		case errors.Is(codeErr, ErrInvalidOTP), errors.Is(codeErr, ErrTooManyAttempts):
			return false, nil
		default:
			return false, codeErr
		}
	})
	if err != nil {
		return nil, err
	}
	if codeErr != nil {
		log.Warn().Str("email", email).Int("failed_attempts", rec.FailedAttempts).Msg("Rejected OTP")
		return nil, codeErr
	}
	return rec, nil
}

func (s *authService) VerifySignupOTP(ctx context.Context, token, email, code string) error {
	s.purgeExpired(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if err := utils.ValidateOTP(code); err != nil {
		return invalid("otp", err)
	}

	rec, err := s.verifyCode(ctx, s.signups, token, email, code, func(*models.PendingRecord) (bool, error) {
		return true, nil
	})
	if err != nil {
		return err
	}

	if err := s.persistVerifiedUser(ctx, rec); err != nil {
		if !errors.Is(err, ErrDuplicateEmail) {
			// give the client a chance to retry with the same token
			if restoreErr := s.signups.Create(ctx, rec); restoreErr != nil {
				log.Warn().Err(restoreErr).Str("email", email).Msg("Failed to restore pending signup")
			}
		}
		return err
	}

	metrics.AccountsVerifiedTotal.WithLabelValues("signup").Inc()
	log.Info().Str("email", email).Msg("Signup verified")
	return nil
}

// persistVerifiedUser creates the account for a consumed signup, or upgrades
// an existing unverified account with the same email.
func (s *authService) persistVerifiedUser(ctx context.Context, rec *models.PendingRecord) error {
	existing, err := s.userRepo.FindByEmail(ctx, rec.Email)
	switch {
	case err == nil && existing.IsEmailVerified:
		return ErrDuplicateEmail
	case err == nil:
		return s.userRepo.Update(ctx, existing.ID, bson.M{
			"name":              rec.Name,
			"password_hash":     rec.PasswordHash,
			"is_email_verified": true,
		})
	case !errors.Is(err, repositories.ErrNotFound):
		return err
	}

	_, err = s.userRepo.Create(ctx, &models.User{
		Name:            rec.Name,
		Email:           rec.Email,
		PasswordHash:    rec.PasswordHash,
		IsEmailVerified: true,
		CreatedAt:       s.now().UTC(),
	})
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *authService) ResendSignupOTP(ctx context.Context, token, email string) (time.Time, error) {
	return s.resend(ctx, s.signups, models.PendingSignup, token, email)
}

func (s *authService) ResendResetOTP(ctx context.Context, token, email string) (time.Time, error) {
	return s.resend(ctx, s.resets, models.PendingReset, token, email)
}

// resend replaces the record's code and expiry, invalidating the previous
// code, then mails the new one.
func (s *authService) resend(ctx context.Context, store repositories.PendingRepository, kind models.PendingKind, token, email string) (time.Time, error) {
	s.purgeExpired(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	code, err := s.generateOTP(email)
	if err != nil {
		return time.Time{}, err
	}

	rec, err := s.update(ctx, store, token, email, func(rec *models.PendingRecord) (bool, error) {
		rec.OTPCode = code
		rec.ExpiresAt = s.now().Add(s.opts.OTPExpiry)
		rec.Verified = false
		rec.FailedAttempts = 0
		return false, nil
	})
	if err != nil {
		return time.Time{}, err
	}

	if err := sendOTPEmail(s.mailer, string(kind), rec.Email, rec.Name, code, s.opts.OTPExpiry); err != nil {
		return time.Time{}, err
	}
	log.Info().Str("email", email).Str("kind", string(kind)).Msg("OTP resent")
	return rec.ExpiresAt, nil
}

func (s *authService) StartPasswordReset(ctx context.Context, email string) (string, time.Time, error) {
	s.purgeExpired(ctx)

	email, err := utils.NormalizeEmail(email)
	if err != nil {
		return "", time.Time{}, invalid("email", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", time.Time{}, ErrUserNotFound
	}
	if err != nil {
		return "", time.Time{}, err
	}

	rec, err := s.newPendingRecord(models.PendingReset, user.Name, email)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := s.resets.Create(ctx, rec); err != nil {
		return "", time.Time{}, fmt.Errorf("store pending reset: %w", err)
	}

	if err := sendOTPEmail(s.mailer, string(models.PendingReset), email, user.Name, rec.OTPCode, s.opts.OTPExpiry); err != nil {
		if delErr := s.resets.Delete(ctx, rec.Token); delErr != nil {
			log.Warn().Err(delErr).Msg("Failed to drop pending reset after mail failure")
		}
		return "", time.Time{}, err
	}

	log.Info().Str("email", email).Msg("Password reset OTP issued")
	return rec.Token, rec.ExpiresAt, nil
}

func (s *authService) VerifyResetOTP(ctx context.Context, token, email, code string) error {
	s.purgeExpired(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if err := utils.ValidateOTP(code); err != nil {
		return invalid("otp", err)
	}

	_, err := s.verifyCode(ctx, s.resets, token, email, code, func(rec *models.PendingRecord) (bool, error) {
		rec.Verified = true
		return false, nil
	})
	return err
}

func (s *authService) ResetPassword(ctx context.Context, token, email, newPassword, confirmPassword string) error {
	s.purgeExpired(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if err := utils.ValidatePassword(newPassword); err != nil {
		return invalid("new_password", err)
	}

	rec, err := s.update(ctx, s.resets, token, email, func(rec *models.PendingRecord) (bool, error) {
		if rec.Expired(s.now()) {
			return false, ErrOTPExpired
		}
		if !rec.Verified {
			return false, ErrOTPNotVerified
		}
		if newPassword != confirmPassword {
			return false, ErrPasswordMismatch
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	userID, err := s.applyPasswordReset(ctx, email, newPassword)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			// keep the verified record so the client can retry with the same token
			if restoreErr := s.resets.Create(ctx, rec); restoreErr != nil {
				log.Warn().Err(restoreErr).Str("email", email).Msg("Failed to restore pending reset")
			}
		}
		return err
	}

	metrics.PasswordResetsTotal.Inc()
	log.Info().Str("user_id", userID).Msg("Password reset")
	return nil
}

// applyPasswordReset stores the new password hash for a consumed reset.
func (s *authService) applyPasswordReset(ctx context.Context, email, newPassword string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password during reset")
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	err = s.userRepo.Update(ctx, user.ID, bson.M{
		"password_hash":     string(hash),
		"is_email_verified": true,
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return user.ID.Hex(), nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	s.purgeExpired(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.LoginAttemptsTotal.WithLabelValues("not_found").Inc()
		return "", ErrUserNotFound
	}
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("email", email).Msg("Error finding user for login")
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("bad_password").Inc()
		log.Warn().Str("email", email).Msg("Invalid credentials (password mismatch) during login attempt")
		return "", ErrInvalidCredentials
	}

	if !user.IsEmailVerified {
		metrics.LoginAttemptsTotal.WithLabelValues("unverified").Inc()
		return "", ErrEmailNotVerified
	}

	token, err := s.jwt.Generate(user.ID.Hex())
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Could not generate token for user")
		return "", fmt.Errorf("generate token: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	log.Info().Str("user_id", user.ID.Hex()).Msg("User logged in successfully")
	return token, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

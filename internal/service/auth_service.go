package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"bais_express/internal/model"
	"bais_express/internal/repository"
	"bais_express/internal/utils"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("token expired or invalid")
	ErrResetTokenUsed     = errors.New("reset token already used")
	ErrEmailDelivery      = errors.New("email sending failed")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

// ResetLinkSender delivers password reset links
type ResetLinkSender interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type AuthOptions struct {
	// FrontendURL is the origin the reset page is served from
	FrontendURL string
	// InitialAdminEmail registers with the admin role instead of user
	InitialAdminEmail string
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	mailer   ResetLinkSender
	ledger   repository.ResetTokenLedger
	opts     AuthOptions
	log      zerolog.Logger
}

// NewAuthService creates a new AuthService. A nil ledger leaves reset tokens reusable until they expire.
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, mailer ResetLinkSender, ledger repository.ResetTokenLedger, opts AuthOptions, log zerolog.Logger) AuthService {
	opts.FrontendURL = strings.TrimRight(opts.FrontendURL, "/")
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		mailer:   mailer,
		ledger:   ledger,
		opts:     opts,
		log:      log,
	}
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	userRole := model.RoleUser
	if s.opts.InitialAdminEmail != "" && strings.EqualFold(email, s.opts.InitialAdminEmail) {
		userRole = model.RoleAdmin
		s.log.Info().Str("email", email).Msg("registering user as admin via INITIAL_ADMIN_EMAIL")
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         userRole,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	s.log.Info().Int("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return user, nil
}

// Login authenticates a user and returns a session token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateSessionToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// ForgotPassword mails a reset link. It does not reveal whether the email is registered.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	token, err := s.jwtUtil.GenerateResetToken(email)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	link := s.opts.FrontendURL + "/reset.html?token=" + url.QueryEscape(token)
	if err := s.mailer.SendPasswordReset(ctx, email, link); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("password reset email failed")
		return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
	}
	return nil
}

// ResetPassword verifies a reset token and replaces the password of the account it names
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.jwtUtil.ValidateResetToken(token)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	// hash before consuming the token so a rejected password leaves the link usable
	hashedPassword, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if s.ledger != nil {
		fresh, err := s.ledger.MarkUsed(ctx, claims.ID, s.jwtUtil.ResetTTL())
		if err != nil {
			return fmt.Errorf("failed to check reset token: %w", err)
		}
		if !fresh {
			return fmt.Errorf("%w: %w", ErrInvalidToken, ErrResetTokenUsed)
		}
	}

	matched, err := s.userRepo.UpdatePasswordByEmail(ctx, claims.Email, hashedPassword)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if !matched {
		return ErrInvalidToken
	}

	s.log.Info().Str("email", claims.Email).Msg("password reset")
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := utils.HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	return hash, err
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/platform/hash"
	clockport "github.com/tripcrew/tripcrew-api/internal/ports/out/clock"
	mailerport "github.com/tripcrew/tripcrew-api/internal/ports/out/mailer"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/tokenrepo"
	"github.com/tripcrew/tripcrew-api/internal/ports/out/userrepo"
)

const minPasswordLen = 6

type Service struct {
	users  userrepo.Repository
	tokens tokenrepo.Repository
	mail   mailerport.Mailer
	clk    clockport.Clock

	newUserID func() domain.UserID
	newToken  func() string

	// VerificationTTL bounds how long a signup token is honored.
	VerificationTTL time.Duration

	// BaseURL is used to build verification links in outgoing mail.
	BaseURL string
}

func NewService(users userrepo.Repository, tokens tokenrepo.Repository, m mailerport.Mailer, clk clockport.Clock, verificationTTL time.Duration, baseURL string) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		mail:   m,
		clk:    clk,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
		newToken:        uuid.NewString,
		VerificationTTL: verificationTTL,
		BaseURL:         baseURL,
	}
}

// SetTokenGeneratorForTest overrides token generation for deterministic tests.
func (s *Service) SetTokenGeneratorForTest(fn func() string) {
	if fn != nil {
		s.newToken = fn
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup creates an unverified account and issues a verification token.
// The verification mail is fire-and-forget: delivery failure is logged
// and never fails the signup.
func (s *Service) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	name := domain.NormalizeHumanName(in.Name)
	if name == "" {
		return domain.User{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid name", Details: map[string]any{"name": "must be non-empty"}}
	}
	email := domain.NormalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return domain.User{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid email", Details: map[string]any{"email": err.Error()}}
	}
	if len(in.Password) < minPasswordLen {
		return domain.User{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "invalid password", Details: map[string]any{"password": fmt.Sprintf("must be at least %d characters", minPasswordLen)}}
	}

	hashed, err := hash.Password(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := s.clk.Now()
	u := userrepo.User{
		ID:           s.newUserID(),
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrEmailTaken) {
			return domain.User{}, &Error{Status: 400, Code: "EMAIL_TAKEN", Message: "an account with this email already exists"}
		}
		return domain.User{}, err
	}

	tok := tokenrepo.Token{
		Token:     s.newToken(),
		Email:     email,
		ExpiresAt: now.Add(s.VerificationTTL),
	}
	if err := s.tokens.Create(ctx, tok); err != nil {
		return domain.User{}, err
	}

	s.sendVerificationMail(ctx, name, email, tok.Token)

	return toDomain(u), nil
}

// Verify consumes a verification token. An expired token is deleted
// rather than honored; a consumed token is unusable on a second attempt.
func (s *Service) Verify(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "missing token", Details: map[string]any{"token": "must be non-empty"}}
	}

	tok, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, tokenrepo.ErrNotFound) {
			return domain.User{}, &Error{Status: 404, Code: "TOKEN_NOT_FOUND", Message: "verification token not found"}
		}
		return domain.User{}, err
	}

	now := s.clk.Now()
	if now.After(tok.ExpiresAt) {
		// Expiry-triggered cleanup: delete rather than honor.
		if err := s.tokens.Delete(ctx, token); err != nil && !errors.Is(err, tokenrepo.ErrNotFound) {
			return domain.User{}, err
		}
		return domain.User{}, &Error{Status: 400, Code: "TOKEN_EXPIRED", Message: "verification token expired"}
	}

	u, err := s.users.GetByEmail(ctx, tok.Email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			// Token outlived its account; clean it up.
			if derr := s.tokens.Delete(ctx, token); derr != nil && !errors.Is(derr, tokenrepo.ErrNotFound) {
				return domain.User{}, derr
			}
			return domain.User{}, &Error{Status: 404, Code: "TOKEN_NOT_FOUND", Message: "verification token not found"}
		}
		return domain.User{}, err
	}

	if u.EmailVerifiedAt == nil {
		verifiedAt := now
		u.EmailVerifiedAt = &verifiedAt
		u.UpdatedAt = now
		if err := s.users.Update(ctx, u); err != nil {
			return domain.User{}, err
		}
	}
	if err := s.tokens.Delete(ctx, token); err != nil && !errors.Is(err, tokenrepo.ErrNotFound) {
		return domain.User{}, err
	}
	return toDomain(u), nil
}

// Login checks credentials and returns the account. Session issuance is
// the transport adapter's concern.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "email and password are required"}
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, &Error{Status: 401, Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}
		}
		return domain.User{}, err
	}
	if err := hash.Compare(u.PasswordHash, password); err != nil {
		return domain.User{}, &Error{Status: 401, Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}
	}
	if u.EmailVerifiedAt == nil {
		return domain.User{}, &Error{Status: 403, Code: "EMAIL_NOT_VERIFIED", Message: "email address is not verified"}
	}
	return toDomain(u), nil
}

func (s *Service) sendVerificationMail(ctx context.Context, name, email, token string) {
	if s.mail == nil {
		return
	}
	link := fmt.Sprintf("%s/api/auth/verify?token=%s", strings.TrimRight(s.BaseURL, "/"), token)
	body := fmt.Sprintf("Hello %s,\n\nPlease verify your email address by opening:\n%s\n\nIf you didn't sign up, ignore this message.", name, link)
	go func() {
		// Detached from the request: signup must not fail on mail errors.
		if err := s.mail.Send(context.WithoutCancel(ctx), email, "Verify your email", body); err != nil {
			slog.Error("verification mail send failed", "email", email, "error", err)
		}
	}()
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("must be non-empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return err
	}
	// Ensure no "Name <email@x>" format sneaks in.
	if addr.Address != email {
		return errors.New("must be a bare email address")
	}
	return nil
}

func toDomain(u userrepo.User) domain.User {
	out := domain.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.EmailVerifiedAt != nil {
		v := *u.EmailVerifiedAt
		out.EmailVerifiedAt = &v
	}
	return out
}

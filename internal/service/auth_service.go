package service

import (
	"context"
	"strings"
	"time"

	"github.com/licx/authgate/internal/model"
	appErr "github.com/licx/authgate/internal/pkg/errors"
	"github.com/licx/authgate/internal/pkg/jwt"
	"github.com/licx/authgate/internal/pkg/password"
)

// AccountStore is the relational collaborator holding identity records.
// *repo.AccountRepo satisfies it.
type AccountStore interface {
	Create(ctx context.Context, account *model.Account) error
	FindByUsernameOrEmail(ctx context.Context, text string) (*model.Account, error)
	GetByID(ctx context.Context, id int64) (*model.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type AuthorizeResult struct {
	Username string    `json:"username"`
	Role     string    `json:"role"`
	Token    string    `json:"token"`
	Expire   time.Time `json:"expire"`
}

type RegisterRequest struct {
	Username string
	Email    string
	Code     string
	Password string
}

// AuthService orchestrates login, logout, registration and password
// reset on top of the token codec, the revocation registry and the
// verification code service.
type AuthService struct {
	accounts    AccountStore
	codec       *jwt.Codec
	revocations *RevocationRegistry
	codes       *VerifyCodeService
}

func NewAuthService(accounts AccountStore, codec *jwt.Codec, revocations *RevocationRegistry, codes *VerifyCodeService) *AuthService {
	return &AuthService{accounts: accounts, codec: codec, revocations: revocations, codes: codes}
}

// Login authenticates a username-or-email plus password pair and issues
// a fresh token. Unknown account and wrong password collapse into the
// same ErrUnauthorized so usernames cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, text, plainPassword string) (*AuthorizeResult, error) {
	account, err := s.accounts.FindByUsernameOrEmail(ctx, text)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.ErrUnauthorized
		}
		return nil, err
	}
	if err := password.Compare(account.Password, plainPassword); err != nil {
		return nil, appErr.ErrUnauthorized
	}
	token, expire, err := s.codec.Create(account.ID, account.Username, []string{account.Role})
	if err != nil {
		return nil, appErr.ErrForbidden
	}
	return &AuthorizeResult{
		Username: account.Username,
		Role:     account.Role,
		Token:    token,
		Expire:   expire,
	}, nil
}

// Logout revokes the token carried in the Authorization header. It
// fails when the token does not verify or is already revoked.
func (s *AuthService) Logout(ctx context.Context, headerToken string) error {
	claims, err := s.codec.Verify(headerToken)
	if err != nil {
		return appErr.Message("logout failed")
	}
	revoked, err := s.revocations.Revoke(ctx, claims.ID(), claims.ExpiresAt())
	if err != nil {
		return err
	}
	if !revoked {
		return appErr.Message("logout failed")
	}
	return nil
}

// Register creates an account once the emailed code checks out. The
// consumed code is removed so it cannot be replayed.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if err := s.checkCode(ctx, email, req.Code); err != nil {
		return err
	}
	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return appErr.Message("this email address is already registered")
	}
	exists, err = s.accounts.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if exists {
		return appErr.Message("this username is already taken, please choose another")
	}
	hash, err := password.Hash(req.Password)
	if err != nil {
		return err
	}
	account := &model.Account{
		Username:     req.Username,
		Email:        email,
		Password:     hash,
		Role:         model.RoleDefault,
		RegisterTime: time.Now().Unix(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if appErr.IsConflict(err) {
			return appErr.Message("this email address is already registered")
		}
		return err
	}
	return s.codes.ConsumeCode(ctx, email)
}

// ResetConfirm checks the reset code without consuming it, so the
// frontend can validate before asking for the new password.
func (s *AuthService) ResetConfirm(ctx context.Context, email, code string) error {
	return s.checkCode(ctx, strings.TrimSpace(strings.ToLower(email)), code)
}

// ResetPassword re-checks the code, replaces the stored hash and then
// consumes the code.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, plainPassword string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := s.checkCode(ctx, email, code); err != nil {
		return err
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(ctx, email, hash); err != nil {
		if appErr.IsNotFound(err) {
			return appErr.Message("this email address is not registered")
		}
		return err
	}
	return s.codes.ConsumeCode(ctx, email)
}

// VerifyAccount is the pre-registration probe: it fails with a
// client-facing message when email has no account yet.
func (s *AuthService) VerifyAccount(ctx context.Context, email string) error {
	exists, err := s.accounts.ExistsByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return err
	}
	if !exists {
		return appErr.Message("this email address is not registered, please sign up first")
	}
	return nil
}

// GetAccount loads the account behind an authenticated request.
func (s *AuthService) GetAccount(ctx context.Context, id int64) (*model.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *AuthService) checkCode(ctx context.Context, email, code string) error {
	stored, ok, err := s.codes.PeekCode(ctx, email)
	if err != nil {
		return err
	}
	if !ok {
		return appErr.Message("please request a verification code first")
	}
	if stored != code {
		return appErr.Message("verification code incorrect, please re-enter")
	}
	return nil
}

package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/licx/authgate/internal/kv"
	appErr "github.com/licx/authgate/internal/pkg/errors"
)

const (
	VerifyKindRegister = "register"
	VerifyKindReset    = "reset"

	limitKeyPrefix = "authgate:verify:limit:"
	codeKeyPrefix  = "authgate:verify:code:"

	codeTTL = 3 * time.Minute
)

// VerifyCodeService generates one-time numeric codes, mails them out and
// keeps them in the shared store until consumed or expired. Issuance is
// rate limited per requesting address.
type VerifyCodeService struct {
	store   kv.Store
	limiter *RateLimiter
	sender  EmailSender
}

func NewVerifyCodeService(store kv.Store, limiter *RateLimiter, sender EmailSender) *VerifyCodeService {
	return &VerifyCodeService{store: store, limiter: limiter, sender: sender}
}

// IssueCode mails a fresh 6-digit code for kind to email. The code is
// stored for the full TTL even when the mail transport reports a
// failure, matching the order of operations the rest of the flow
// expects: a stored code is only reachable through the mailed message.
func (s *VerifyCodeService) IssueCode(ctx context.Context, kind, email, address string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || address == "" {
		return appErr.ErrInvalid
	}
	code, err := generateCode()
	if err != nil {
		return err
	}
	var subject, body string
	switch kind {
	case VerifyKindRegister:
		subject = "Welcome to our site"
		body = fmt.Sprintf("Your registration verification code is %s. It is valid for 3 minutes; do not share it with anyone.", code)
	case VerifyKindReset:
		subject = "Your password reset request"
		body = fmt.Sprintf("You are resetting your password. The verification code is %s, valid for 3 minutes. If this was not you, please ignore this message.", code)
	default:
		return appErr.Message("invalid verification code type")
	}
	allowed, err := s.limiter.Allow(ctx, limitKeyPrefix+address)
	if err != nil {
		return err
	}
	if !allowed {
		return appErr.Message("requests are too frequent, please try again later")
	}
	sendErr := s.sender.Send(email, subject, body)
	if err := s.store.Set(ctx, codeKeyPrefix+email, code, codeTTL); err != nil {
		return err
	}
	if sendErr != nil {
		return appErr.Message("failed to send the verification email, please try again later")
	}
	return nil
}

// PeekCode returns the live code for email without consuming it.
func (s *VerifyCodeService) PeekCode(ctx context.Context, email string) (string, bool, error) {
	return s.store.Get(ctx, codeKeyPrefix+email)
}

// ConsumeCode removes the live code for email after a successful use.
func (s *VerifyCodeService) ConsumeCode(ctx context.Context, email string) error {
	return s.store.Delete(ctx, codeKeyPrefix+email)
}

// generateCode draws a code in [100000, 999999] from the system
// entropy source, so concurrent issuances never repeat a sequence.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", 100000+n.Int64()), nil
}

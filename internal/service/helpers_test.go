package service

import (
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/licx/authgate/internal/kv"
	"github.com/licx/authgate/test/testutil"
)

func newTestStore(t *testing.T) (kv.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return kv.New(client), mr
}

func newMemAccounts() *testutil.MemAccountStore {
	return testutil.NewMemAccountStore()
}

// captureSender records outgoing mail instead of talking to SMTP.
type captureSender struct {
	sent []capturedMail
	fail error
}

type capturedMail struct {
	To      string
	Subject string
	Body    string
}

func (s *captureSender) Send(to, subject, body string) error {
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, capturedMail{To: to, Subject: subject, Body: body})
	return nil
}

var errMailDown = errors.New("smtp unreachable")

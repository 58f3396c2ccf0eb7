package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/licx/authgate/internal/handler"
	"github.com/licx/authgate/internal/kv"
	"github.com/licx/authgate/internal/middleware"
	"github.com/licx/authgate/internal/pkg/jwt"
	"github.com/licx/authgate/internal/service"
	"github.com/licx/authgate/test/testutil"
)

// captureSender keeps every outgoing mail so tests can read the code
// that would have been delivered.
type captureSender struct {
	bodies []string
}

func (s *captureSender) Send(to, subject, body string) error {
	s.bodies = append(s.bodies, body)
	return nil
}

func (s *captureSender) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, s.bodies)
	body := s.bodies[len(s.bodies)-1]
	for i := 0; i+6 <= len(body); i++ {
		digits := true
		for j := i; j < i+6; j++ {
			if body[j] < '0' || body[j] > '9' {
				digits = false
				break
			}
		}
		if digits {
			return body[i : i+6]
		}
	}
	t.Fatalf("no code in mail body: %q", body)
	return ""
}

type testEnv struct {
	router http.Handler
	sender *captureSender
	redis  *miniredis.Miniredis
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := kv.New(client)

	accounts := testutil.NewMemAccountStore()
	sender := &captureSender{}
	codec := jwt.NewCodec([]byte("test-secret"), time.Hour)
	limiter := service.NewRateLimiter(store, time.Minute)
	revocations := service.NewRevocationRegistry(store)
	codeService := service.NewVerifyCodeService(store, limiter, sender)
	authService := service.NewAuthService(accounts, codec, revocations, codeService)

	deps := handler.RouterDeps{
		Auth:        handler.NewAuthHandler(authService, codeService),
		Account:     handler.NewAccountHandler(authService),
		Codec:       codec,
		Revocations: revocations,
	}

	engine, err := webapi.NewEngine(
		"/api",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)

	return &testEnv{router: engine, sender: sender, redis: mr}
}

package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cyber924/taebaek/internal/platform/requestctx"
)

func TestRequestLoggerMiddlewareRecordsStatusAndRoute(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	router := chi.NewRouter()
	router.Use(InjectLoggerMiddleware(logger))
	router.Use(RequestLoggerMiddleware())
	router.Get("/dong/{dongId}", func(w http.ResponseWriter, r *http.Request) {
		require.NotSame(t, requestctx.NoopLogger(), requestctx.Logger(r.Context()))
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dong/hwangji", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, int64(http.StatusNotFound), fields["status"])
	require.Equal(t, "/dong/{dongId}", fields["route"])
	require.Equal(t, "/dong/hwangji", fields["path"])
	require.Equal(t, zap.WarnLevel, entries[0].Level)
}

func TestRecoveryMiddlewareRendersFallback(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.ErrorLevel)
	handler := RecoveryMiddleware(zap.New(core), func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("문제가 발생했습니다"))
	})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "문제가 발생했습니다")
	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestSanitizeStripsControlCharacters(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/visitx", SanitizeRoute("/visit\n\rx"))
	require.Equal(t, "/", SanitizeRoute(""))
	require.Len(t, []rune(SanitizeValue(strings.Repeat("가", 200))), 96)
}

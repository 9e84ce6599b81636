package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sports-tournament/internal/config"
	"github.com/riskibarqy/sports-tournament/internal/platform/logging"
)

type capturedBatches struct {
	mu      sync.Mutex
	auth    []string
	records []map[string]any
}

func (c *capturedBatches) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var batch []map[string]any
		require.NoError(t, sonic.Unmarshal(body, &batch))

		c.mu.Lock()
		c.auth = append(c.auth, r.Header.Get("Authorization"))
		c.records = append(c.records, batch...)
		c.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}
}

func betterStackConfig(endpoint string) config.Config {
	return config.Config{
		AppEnv:              config.EnvDev,
		ServiceName:         "sports-tournament-api",
		LogLevel:            logging.LevelInfo,
		BetterStackEnabled:  true,
		BetterStackEndpoint: endpoint,
		BetterStackToken:    "secret-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelError,
	}
}

func TestInitBetterStackLogger_ShipsErrorRecords(t *testing.T) {
	t.Parallel()

	captured := &capturedBatches{}
	server := httptest.NewServer(captured.handler(t))
	defer server.Close()

	logger, shutdown, err := InitBetterStackLogger(betterStackConfig(server.URL))
	require.NoError(t, err)

	logger.ErrorContext(context.Background(), "leaderboard recalculation failed", "sport_event_id", "se-1", "attempt", 3)
	logger.InfoContext(context.Background(), "below the shipping level")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, shutdown(ctx))

	captured.mu.Lock()
	defer captured.mu.Unlock()
	require.Len(t, captured.records, 1)
	assert.Equal(t, "leaderboard recalculation failed", captured.records[0]["msg"])
	assert.Equal(t, "se-1", captured.records[0]["sport_event_id"])
	assert.Equal(t, "sports-tournament-api", captured.records[0]["service"])
	assert.Equal(t, "Bearer secret-token", captured.auth[0])
}

func TestBetterStackSink_DropsAfterClose(t *testing.T) {
	t.Parallel()

	captured := &capturedBatches{}
	server := httptest.NewServer(captured.handler(t))
	defer server.Close()

	sink := newBetterStackSink(server.URL, "", time.Second)
	_, err := sink.Write([]byte(`{"msg":"one"}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, sink.Close(context.Background()))

	n, err := sink.Write([]byte(`{"msg":"late"}`))
	require.NoError(t, err)
	assert.Equal(t, len(`{"msg":"late"}`), n)

	captured.mu.Lock()
	defer captured.mu.Unlock()
	require.Len(t, captured.records, 1)
	assert.Equal(t, "one", captured.records[0]["msg"])
	assert.Equal(t, "", captured.auth[0])
}

func TestNormalizeBetterStackEndpoint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://in.logs.betterstack.com", normalizeBetterStackEndpoint(" in.logs.betterstack.com "))
	assert.Equal(t, "http://localhost:9000", normalizeBetterStackEndpoint("http://localhost:9000"))
	assert.Empty(t, normalizeBetterStackEndpoint(" "))
}

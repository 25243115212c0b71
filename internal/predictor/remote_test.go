package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stake-engine/internal/logger"
)

func newRemoteTestConfig(baseURL string) RemoteConfig {
	cfg := DefaultRemoteConfig(baseURL)
	cfg.APIKey = "test-key"
	cfg.Timeout = 2 * time.Second
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 5 * time.Millisecond
	cfg.RateLimit = 1000.0
	return cfg
}

func TestRemoteLoaderVerifiesReadyArtifact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/models/premier_league-v3", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(modelStatusResponse{
			ModelRef: "premier_league-v3",
			Version:  "premier_league-v3.2",
			Status:   "ready",
			Features: 12,
		})
	}))
	defer server.Close()

	loader := NewRemoteLoader(newRemoteTestConfig(server.URL), logger.NewNop())
	p, err := loader.Load(context.Background(), "premier_league-v3")
	require.NoError(t, err)
	assert.Equal(t, "premier_league-v3.2", p.ModelVersion())
}

func TestRemoteLoaderRejectsNotReadyArtifact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(modelStatusResponse{ModelRef: "serie_a-v2", Status: "training"})
	}))
	defer server.Close()

	loader := NewRemoteLoader(newRemoteTestConfig(server.URL), logger.NewNop())
	_, err := loader.Load(context.Background(), "serie_a-v2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready")
}

func TestRemoteLoaderMissingArtifact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	loader := NewRemoteLoader(newRemoteTestConfig(server.URL), logger.NewNop())
	_, err := loader.Load(context.Background(), "ligue_1-v1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRemotePredictorPostsFeatures(t *testing.T) {
	var gotFeatures []float64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/models/la_liga-v2":
			json.NewEncoder(w).Encode(modelStatusResponse{Version: "la_liga-v2.0", Status: "ready"})
		case "/api/v1/models/la_liga-v2/predict":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var req predictRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			gotFeatures = req.Features
			json.NewEncoder(w).Encode(predictResponse{ProbHome: 0.50, ProbAway: 0.30, ProbDraw: 0.20})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	loader := NewRemoteLoader(newRemoteTestConfig(server.URL), logger.NewNop())
	p, err := loader.Load(context.Background(), "la_liga-v2")
	require.NoError(t, err)

	features := []float64{0.50, 0.30, 0.20, 0.6, 0.4}
	probs, err := p.Predict(context.Background(), features)
	require.NoError(t, err)

	assert.Equal(t, features, gotFeatures)
	assert.Equal(t, 0.50, probs.Home)
	assert.Equal(t, 0.30, probs.Away)
	assert.Equal(t, 0.20, probs.Draw)
}

func TestRemoteClientRetriesServerErrors(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			http.Error(w, "temporarily overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(modelStatusResponse{Version: "bundesliga-v1.0", Status: "ready"})
	}))
	defer server.Close()

	loader := NewRemoteLoader(newRemoteTestConfig(server.URL), logger.NewNop())
	p, err := loader.Load(context.Background(), "bundesliga-v1")
	require.NoError(t, err)
	assert.Equal(t, "bundesliga-v1.0", p.ModelVersion())
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestRemoteRetryPolicy(t *testing.T) {
	policy := modelServiceRetryPolicy()
	ctx := context.Background()

	retry, _ := policy(ctx, &http.Response{StatusCode: http.StatusTooManyRequests}, nil)
	assert.True(t, retry)

	retry, _ = policy(ctx, &http.Response{StatusCode: http.StatusBadGateway}, nil)
	assert.True(t, retry)

	retry, _ = policy(ctx, &http.Response{StatusCode: http.StatusBadRequest}, nil)
	assert.False(t, retry)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	retry, err := policy(cancelled, nil, nil)
	assert.False(t, retry)
	assert.ErrorIs(t, err, context.Canceled)
}

package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/stake-engine/internal/models"
)

// RemoteConfig holds settings for the model-serving HTTP client.
type RemoteConfig struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	RateLimit    float64 // requests per second
}

// DefaultRemoteConfig returns recommended defaults.
func DefaultRemoteConfig(baseURL string) RemoteConfig {
	return RemoteConfig{
		BaseURL:      baseURL,
		Timeout:      10 * time.Second,
		MaxRetries:   3,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 5 * time.Second,
		RateLimit:    20.0,
	}
}

// RemoteLoader builds predictors backed by the model-serving HTTP API. All
// predictors share one rate-limited retrying client.
type RemoteLoader struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	cfg     RemoteConfig
	logger  *logrus.Logger
}

// NewRemoteLoader creates a loader for the model service at cfg.BaseURL.
func NewRemoteLoader(cfg RemoteConfig, logger *logrus.Logger) *RemoteLoader {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = modelServiceRetryPolicy()
	retryClient.Logger = nil

	return &RemoteLoader{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		cfg:     cfg,
		logger:  logger,
	}
}

type modelStatusResponse struct {
	ModelRef string `json:"model_ref"`
	Version  string `json:"version"`
	Status   string `json:"status"`
	Features int    `json:"features"`
}

// Load verifies the artifact exists and is ready, then returns a predictor
// bound to it.
func (l *RemoteLoader) Load(ctx context.Context, modelRef string) (Predictor, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/v1/models/%s", l.cfg.BaseURL, modelRef)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	l.authorize(req)

	resp, err := l.client.Do(req)
	if err != nil {
		RemotePredictorErrorsTotal.WithLabelValues("network").Inc()
		return nil, fmt.Errorf("model service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		RemotePredictorErrorsTotal.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("artifact %s not found", modelRef)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		RemotePredictorErrorsTotal.WithLabelValues("http_error").Inc()
		return nil, fmt.Errorf("model service returned status %d: %s", resp.StatusCode, string(body))
	}

	var status modelStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode model status: %w", err)
	}
	if status.Status != "ready" {
		return nil, fmt.Errorf("artifact %s is %s, not ready", modelRef, status.Status)
	}

	l.logger.WithFields(logrus.Fields{
		"model_ref": modelRef,
		"version":   status.Version,
		"features":  status.Features,
	}).Info("Remote model artifact verified")

	return &remotePredictor{loader: l, modelRef: modelRef, version: status.Version}, nil
}

func (l *RemoteLoader) authorize(req *retryablehttp.Request) {
	if l.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.cfg.APIKey)
	}
}

// remotePredictor calls the model service for each prediction.
type remotePredictor struct {
	loader   *RemoteLoader
	modelRef string
	version  string
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	ProbHome float64 `json:"p_home"`
	ProbAway float64 `json:"p_away"`
	ProbDraw float64 `json:"p_draw"`
}

// ModelVersion implements Predictor.
func (p *remotePredictor) ModelVersion() string { return p.version }

// Predict implements Predictor.
func (p *remotePredictor) Predict(ctx context.Context, features []float64) (models.ProbabilityTriple, error) {
	if err := p.loader.limiter.Wait(ctx); err != nil {
		return models.ProbabilityTriple{}, err
	}

	payload, err := json.Marshal(predictRequest{Features: features})
	if err != nil {
		return models.ProbabilityTriple{}, err
	}

	url := fmt.Sprintf("%s/api/v1/models/%s/predict", p.loader.cfg.BaseURL, p.modelRef)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return models.ProbabilityTriple{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	p.loader.authorize(req)

	resp, err := p.loader.client.Do(req)
	if err != nil {
		RemotePredictorErrorsTotal.WithLabelValues("network").Inc()
		return models.ProbabilityTriple{}, fmt.Errorf("model service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		RemotePredictorErrorsTotal.WithLabelValues("http_error").Inc()
		return models.ProbabilityTriple{}, fmt.Errorf("predict returned status %d: %s", resp.StatusCode, string(body))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.ProbabilityTriple{}, fmt.Errorf("failed to decode prediction: %w", err)
	}

	return models.ProbabilityTriple{Home: out.ProbHome, Away: out.ProbAway, Draw: out.ProbDraw}, nil
}

// modelServiceRetryPolicy retries network errors, 429 and 5xx responses.
func modelServiceRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return true, nil
		}
		return false, nil
	}
}

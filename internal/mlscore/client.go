// Package mlscore provides a client for the trained compatibility model
// server. It implements matching.PairScorer; callers fall back to the
// rule-based score when the model is unavailable.
package mlscore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wandermate/wandermate/internal/matching"
	"github.com/wandermate/wandermate/internal/upstream"
)

const (
	// DefaultBaseURL is the model server default address.
	DefaultBaseURL = "http://localhost:8001"

	// DefaultModelDir is the model directory the server loads from.
	DefaultModelDir = "models"

	// defaultTimeout bounds a single prediction call.
	defaultTimeout = 5 * time.Second
)

// ErrUnavailable indicates the model server could not produce a prediction.
var ErrUnavailable = errors.New("model server unavailable")

// ClientConfig holds configuration for the model server client.
type ClientConfig struct {
	// BaseURL is the model server address (default: DefaultBaseURL).
	BaseURL string

	// ModelDir is passed through to the server (default: DefaultModelDir).
	ModelDir string

	// Timeout bounds a single prediction call (default: 5s).
	Timeout time.Duration

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *upstream.Client
}

// Client calls the compatibility model server over HTTP.
type Client struct {
	baseURL    string
	modelDir   string
	httpClient *upstream.Client
}

// NewClient creates a new model server client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	modelDir := cfg.ModelDir
	if modelDir == "" {
		modelDir = DefaultModelDir
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = upstream.NewClient(upstream.ClientConfig{
			Name:            "mlscore",
			Timeout:         timeout,
			MaxRetries:      1,
			InitialInterval: 100 * time.Millisecond,
		})
	}

	return &Client{
		baseURL:    baseURL,
		modelDir:   modelDir,
		httpClient: httpClient,
	}
}

// featurePayload extends the pair features with inputs the model was trained
// on but the engine does not derive separately. They are sent as zero.
type featurePayload struct {
	matching.Features
	LanguageScore   float64 `json:"languageScore"`
	LifestyleScore  float64 `json:"lifestyleScore"`
	BackgroundScore float64 `json:"backgroundScore"`
}

type predictRequest struct {
	Features featurePayload `json:"features"`
	ModelDir string         `json:"model_dir"`
}

type predictResponse struct {
	Success     bool     `json:"success"`
	Probability *float64 `json:"probability"`
	Prediction  *int     `json:"prediction"`
	Score       *float64 `json:"score"`
	Error       string   `json:"error"`
}

// Score predicts the pair compatibility probability in [0, 1].
// Returns ErrUnavailable when the server is down or declines the prediction.
func (c *Client) Score(ctx context.Context, features matching.Features) (float64, error) {
	body, err := json.Marshal(predictRequest{
		Features: featurePayload{Features: features},
		ModelDir: c.modelDir,
	})
	if err != nil {
		return 0, fmt.Errorf("mlscore: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("mlscore: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var result predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("%w: decode response: %s", ErrUnavailable, err)
	}
	if !result.Success {
		return 0, fmt.Errorf("%w: %s", ErrUnavailable, result.Error)
	}

	switch {
	case result.Score != nil:
		return *result.Score, nil
	case result.Probability != nil:
		return *result.Probability, nil
	default:
		return 0, fmt.Errorf("%w: response carried no score", ErrUnavailable)
	}
}

// Healthy reports whether the model server circuit is closed.
func (c *Client) Healthy() bool {
	return c.httpClient.Healthy()
}

// Package hub provides the model provider backed by a hosted-inference API.
// Models are identified by hub name (e.g. facebook/bart-large-cnn); their
// configuration metadata is fetched once and cached on disk.
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sakabe/article-pipeline/internal/genconfig"
)

const (
	defaultInferenceURL = "https://api-inference.huggingface.co/models"
	defaultConfigURL    = "https://huggingface.co"
	defaultCacheDir     = "model_cache"

	// fallbackInputWords is used when the model config does not advertise an
	// input window.
	fallbackInputWords = 1024
)

// Client talks to the inference hub and implements the model provider.
type Client struct {
	token        string
	inferenceURL string
	configURL    string
	cacheDir     string
	httpClient   *http.Client
}

// NewClient creates a hub client. token may be empty for anonymous access.
func NewClient(token string) *Client {
	return &Client{
		token:        token,
		inferenceURL: defaultInferenceURL,
		configURL:    defaultConfigURL,
		cacheDir:     EnsureCacheDir(),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// NewClientWithURLs creates a client against explicit endpoints. Used by
// tests and self-hosted inference deployments.
func NewClientWithURLs(token, inferenceURL, configURL, cacheDir string) *Client {
	return &Client{
		token:        token,
		inferenceURL: strings.TrimSuffix(inferenceURL, "/"),
		configURL:    strings.TrimSuffix(configURL, "/"),
		cacheDir:     cacheDir,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// EnsureCacheDir resolves the model cache directory: MODEL_CACHE_DIR
// override, then the fixed relative default, then a temporary directory if
// neither is writable.
func EnsureCacheDir() string {
	dir := os.Getenv("MODEL_CACHE_DIR")
	if dir == "" {
		dir = defaultCacheDir
	}

	if err := os.MkdirAll(dir, 0o755); err == nil {
		return dir
	} else {
		log.Printf("Error creating cache directory %s: %v", dir, err)
	}

	tmp, err := os.MkdirTemp("", "model_cache_")
	if err != nil {
		// Last resort: the system temp dir itself.
		return os.TempDir()
	}
	log.Printf("Using temporary cache directory: %s", tmp)
	return tmp
}

// modelConfig is the subset of the hub's model configuration we need.
type modelConfig struct {
	MaxPositionEmbeddings int `json:"max_position_embeddings"`
}

// Model is a loaded model handle bound to the client that created it.
type Model struct {
	client        *Client
	name          string
	maxInputWords int
}

// Load resolves a model by name, fetching and caching its configuration.
func (c *Client) Load(ctx context.Context, name string) (*Model, error) {
	cfg, err := c.modelConfig(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", name, err)
	}

	maxWords := cfg.MaxPositionEmbeddings
	if maxWords <= 0 {
		maxWords = fallbackInputWords
	}

	return &Model{
		client:        c,
		name:          name,
		maxInputWords: maxWords,
	}, nil
}

// Name returns the hub model name.
func (m *Model) Name() string { return m.name }

// MaxInputWords returns the model's input budget in words.
func (m *Model) MaxInputWords() int { return m.maxInputWords }

// generateRequest is the inference API request body.
type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
	Options    generateOptions    `json:"options"`
}

type generateParameters struct {
	MaxLength         int     `json:"max_length"`
	MinLength         int     `json:"min_length"`
	Temperature       float64 `json:"temperature"`
	NumBeams          int     `json:"num_beams"`
	LengthPenalty     float64 `json:"length_penalty"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
	TopP              float64 `json:"top_p"`
	TopK              int     `json:"top_k"`
	NoRepeatNgramSize int     `json:"no_repeat_ngram_size"`
	EarlyStopping     bool    `json:"early_stopping"`
	DoSample          bool    `json:"do_sample"`
}

type generateOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type generateResult struct {
	SummaryText string `json:"summary_text"`
}

type hubError struct {
	Error string `json:"error"`
}

// Generate runs one summarization call. Input longer than the model's input
// budget is truncated at a word boundary before sending.
func (m *Model) Generate(ctx context.Context, text string, cfg genconfig.GenerationConfig) (string, error) {
	text = truncateWords(text, m.maxInputWords)

	reqBody := generateRequest{
		Inputs: text,
		Parameters: generateParameters{
			MaxLength:         cfg.MaxLength,
			MinLength:         cfg.MinLength,
			Temperature:       cfg.Temperature,
			NumBeams:          cfg.NumBeams,
			LengthPenalty:     cfg.LengthPenalty,
			RepetitionPenalty: cfg.RepetitionPenalty,
			TopP:              cfg.TopP,
			TopK:              cfg.TopK,
			NoRepeatNgramSize: cfg.NoRepeatNgramSize,
			EarlyStopping:     cfg.EarlyStopping,
			DoSample:          cfg.Temperature > 0,
		},
		Options: generateOptions{WaitForModel: true},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling generation request: %w", err)
	}

	url := m.client.inferenceURL + "/" + m.name
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if m.client.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+m.client.token)
	}

	resp, err := m.client.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending generation request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading generation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var hubErr hubError
		if json.Unmarshal(respBody, &hubErr) == nil && hubErr.Error != "" {
			return "", fmt.Errorf("generation failed with status %d: %s", resp.StatusCode, hubErr.Error)
		}
		return "", fmt.Errorf("generation failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var results []generateResult
	if err := json.Unmarshal(respBody, &results); err != nil {
		return "", fmt.Errorf("decoding generation response: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no generation result in response")
	}

	return results[0].SummaryText, nil
}

// modelConfig returns the model's configuration, reading the on-disk cache
// before the hub.
func (c *Client) modelConfig(ctx context.Context, name string) (*modelConfig, error) {
	cachePath := filepath.Join(c.cacheDir, cacheFileName(name))

	if data, err := os.ReadFile(cachePath); err == nil {
		var cfg modelConfig
		if json.Unmarshal(data, &cfg) == nil {
			return &cfg, nil
		}
		// Corrupt cache entry: refetch below.
	}

	url := fmt.Sprintf("%s/%s/raw/main/config.json", c.configURL, name)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating config request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching model config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("unknown model name: %s", name)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("config request failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading model config: %w", err)
	}

	var cfg modelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding model config: %w", err)
	}

	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		log.Printf("Warning: failed to cache model config for %s: %v", name, err)
	}

	return &cfg, nil
}

// cacheFileName flattens a hub model name into a single file name.
func cacheFileName(name string) string {
	return strings.ReplaceAll(name, "/", "--") + ".json"
}

// truncateWords cuts text to at most maxWords words.
func truncateWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ")
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/linguist/internal/config"
	"github.com/example/linguist/internal/logger"
)

// Fallback answers returned instead of errors
const (
	FallbackEmpty = "Maaf, AI sedang tidak tersedia."
	FallbackError = "Terjadi kesalahan saat menghubungi AI. Pastikan kunci API Anda valid."
)

// SystemInstruction biases every answer towards grammar tutoring
const SystemInstruction = `You are an expert language teacher. Help the user with grammar questions.
Provide clear explanations and practical examples. Keep the tone encouraging and professional.
If asked for examples, provide them in a clear bulleted list. Use Markdown for formatting.`

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	requestTimeout = 60 * time.Second
)

var errNoAPIKey = errors.New("API key is not configured")

// Tutor answers grammar questions. Ask never fails, it degrades to a fixed message.
type Tutor interface {
	Ask(ctx context.Context, prompt string) string
}

// Gemini is a client for the Gemini generateContent API
type Gemini struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a Gemini client. A missing API key is reported on every Ask.
func New(cfg config.AI, log *logger.Logger) *Gemini {
	if log == nil {
		log = logger.Nop()
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}
	return &Gemini{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log.With("component", "ai"),
	}
}

// WithBaseURL points the client at another endpoint
func (g *Gemini) WithBaseURL(url string) *Gemini {
	g.baseURL = strings.TrimRight(url, "/")
	return g
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction content   `json:"system_instruction"`
	Contents          []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Ask sends prompt to the model and returns its answer or a fallback message
func (g *Gemini) Ask(ctx context.Context, prompt string) string {
	answer, err := g.Generate(ctx, prompt)
	if err != nil {
		g.log.Warn("grammar question failed", "error", err)
		return FallbackError
	}
	if answer == "" {
		return FallbackEmpty
	}
	return answer
}

// Generate sends prompt to the model and returns the raw answer
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", errNoAPIKey
	}

	body, err := json.Marshal(generateRequest{
		SystemInstruction: content{Parts: []part{{Text: SystemInstruction}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var response generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("API error %d: %s", response.Error.Code, response.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var sb strings.Builder
	if len(response.Candidates) > 0 {
		for _, p := range response.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// Disabled is a Tutor used when no model is configured
type Disabled struct{}

// Ask always returns the unavailable message
func (Disabled) Ask(context.Context, string) string {
	return FallbackEmpty
}

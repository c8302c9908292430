package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"parbhani/backend/internal/config"
)

type ModelUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ModelResponse struct {
	Text  string
	Model string
	Usage ModelUsage
}

// ModelClient is the completion-service boundary: one prompt string in, raw
// completion text out. Errors propagate to the caller unchanged; there is no
// retry or partial-result handling at this layer.
type ModelClient interface {
	Generate(ctx context.Context, prompt string) (ModelResponse, error)
}

// Fixed decoding parameters for every request. Low temperature keeps the
// profile JSON stable enough for best-effort extraction.
const (
	geminiTemperature     = 0.2
	geminiTopP            = 0.8
	geminiTopK            = 40
	geminiBlockThreshold  = "BLOCK_MEDIUM_AND_ABOVE"
	defaultMaxOutputToken = 1024
)

var geminiSafetyCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

// Gemini REST wire format. The API uses camelCase field names.
type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
	SafetySettings   []geminiSafetySetting  `json:"safetySettings"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
			Role  string       `json:"role"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

type GeminiClient struct {
	apiKey          string
	baseURL         string
	model           string
	maxOutputTokens int
	httpClient      *http.Client
}

func NewGeminiClient(cfg config.Config) *GeminiClient {
	timeoutSeconds := cfg.AITimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	maxTokens := cfg.AIMaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputToken
	}
	return &GeminiClient{
		apiKey:          strings.TrimSpace(cfg.GeminiAPIKey),
		baseURL:         strings.TrimRight(strings.TrimSpace(cfg.GeminiBaseURL), "/"),
		model:           strings.TrimSpace(cfg.GeminiModel),
		maxOutputTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (ModelResponse, error) {
	if c.apiKey == "" {
		return ModelResponse{}, errors.New("GEMINI_API_KEY is not configured")
	}
	if c.baseURL == "" {
		return ModelResponse{}, errors.New("GEMINI_BASE_URL is not configured")
	}
	if c.model == "" {
		return ModelResponse{}, errors.New("GEMINI_MODEL is not configured")
	}

	safety := make([]geminiSafetySetting, 0, len(geminiSafetyCategories))
	for _, category := range geminiSafetyCategories {
		safety = append(safety, geminiSafetySetting{
			Category:  category,
			Threshold: geminiBlockThreshold,
		})
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: prompt}},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     geminiTemperature,
			TopP:            geminiTopP,
			TopK:            geminiTopK,
			MaxOutputTokens: c.maxOutputTokens,
		},
		SafetySettings: safety,
	}
	bodyRaw, err := json.Marshal(payload)
	if err != nil {
		return ModelResponse{}, err
	}

	endpoint := fmt.Sprintf(
		"%s/models/%s:generateContent?key=%s",
		c.baseURL,
		url.PathEscape(c.model),
		url.QueryEscape(c.apiKey),
	)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyRaw))
	if err != nil {
		return ModelResponse{}, err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return ModelResponse{}, err
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return ModelResponse{}, err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return ModelResponse{}, fmt.Errorf(
			"gemini error (%d): %s",
			response.StatusCode,
			strings.TrimSpace(string(responseBody)),
		)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return ModelResponse{}, fmt.Errorf("gemini response is not valid JSON: %w", err)
	}
	if parsed.Error != nil {
		return ModelResponse{}, fmt.Errorf("gemini error (%d): %s", parsed.Error.Code, parsed.Error.Message)
	}

	text := extractCandidateText(parsed)
	if strings.TrimSpace(text) == "" {
		return ModelResponse{}, errors.New("gemini response contained no candidate text")
	}

	return ModelResponse{
		Text:  text,
		Model: c.model,
		Usage: ModelUsage{
			PromptTokens:     parsed.UsageMetadata.PromptTokenCount,
			CompletionTokens: parsed.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      parsed.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

func extractCandidateText(parsed geminiResponse) string {
	if len(parsed.Candidates) == 0 {
		return ""
	}
	parts := make([]string, 0, len(parsed.Candidates[0].Content.Parts))
	for _, part := range parsed.Candidates[0].Content.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	return strings.Join(parts, "")
}

// MockModelClient stands in for Gemini in tests and keyless local runs.
type MockModelClient struct {
	Completion string
	Err        error
}

func (m MockModelClient) Generate(_ context.Context, prompt string) (ModelResponse, error) {
	if m.Err != nil {
		return ModelResponse{}, m.Err
	}
	text := m.Completion
	if text == "" {
		text = "Mock response. How can I help you in Selu today?"
	}
	return ModelResponse{
		Text:  text,
		Model: "mock",
		Usage: ModelUsage{
			PromptTokens:     len(strings.Fields(prompt)),
			CompletionTokens: len(strings.Fields(text)),
			TotalTokens:      len(strings.Fields(prompt)) + len(strings.Fields(text)),
		},
	}, nil
}

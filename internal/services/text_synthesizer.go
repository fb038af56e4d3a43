package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/utils"
)

// TextSynthesizer is the LLM-mode collaborator. GenerateValue returns the
// synthesized value, or ErrUnavailable when the backend cannot serve the
// request; the engine then resolves the key randomly instead.
type TextSynthesizer interface {
	GenerateValue(ctx context.Context, keyPath string, docContext map[string]interface{}, template *string) (interface{}, error)
}

// NullTextSynthesizer is always unavailable. Used when no API key is
// configured and by tests.
type NullTextSynthesizer struct{}

func (NullTextSynthesizer) GenerateValue(ctx context.Context, keyPath string, docContext map[string]interface{}, template *string) (interface{}, error) {
	return nil, ErrUnavailable
}

// Built-in templates for key paths commonly resolved via LLM; a stored
// template on the variable default wins over these.
var defaultTemplates = map[string]string{
	"subject":        "Return a JSON array of 3 concise subject phrases for a merch design. Style: concise, evocative, no periods.",
	"icons_symbols":  "Return a JSON array of 2-3 succinct icon/symbol keywords coherent with the design.",
	"text.secondary": "Return a single short brand tagline string (no quotes) coherent with the design aesthetics.",
}

type openAITextSynthesizer struct {
	log     *logger.Logger
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAITextSynthesizer builds the production synthesizer from env.
// With no OPENAI_API_KEY it still constructs, but every call reports
// unavailable so resolution degrades instead of failing.
func NewOpenAITextSynthesizer(log *logger.Logger) TextSynthesizer {
	serviceLog := log.With("service", "OpenAITextSynthesizer")
	return &openAITextSynthesizer{
		log:     serviceLog,
		apiKey:  utils.GetEnv("OPENAI_API_KEY", "", nil),
		baseURL: utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com/v1", nil),
		model:   utils.GetEnv("DESIGNMILL_LLM_MODEL", "gpt-4o-mini", nil),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *openAITextSynthesizer) GenerateValue(ctx context.Context, keyPath string, docContext map[string]interface{}, template *string) (interface{}, error) {
	if s.apiKey == "" {
		return nil, ErrUnavailable
	}

	userPrompt := ""
	if template != nil && strings.TrimSpace(*template) != "" {
		userPrompt = *template
	} else if tpl, ok := defaultTemplates[keyPath]; ok {
		userPrompt = tpl
	} else {
		userPrompt = fmt.Sprintf("Return a concise JSON string value for %s.", keyPath)
	}

	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You generate structured JSON snippets that fit a merch design JSON schema. Only output the requested JSON value and nothing else."},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, ErrUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, ErrUnavailable
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("Text synthesis request failed", "key_path", keyPath, "error", err)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		s.log.Warn("Text synthesis returned non-200", "key_path", keyPath, "status", resp.StatusCode)
		return nil, ErrUnavailable
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil || len(parsed.Choices) == 0 {
		return nil, ErrUnavailable
	}
	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return nil, ErrUnavailable
	}

	// Prefer a JSON value (arrays for list keys); fall back to the bare
	// string with quotes stripped.
	var val interface{}
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return val, nil
	}
	return strings.Trim(text, `"`), nil
}

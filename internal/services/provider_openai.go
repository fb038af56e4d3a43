package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"

	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/prompt"
	"github.com/yungbote/designmill-backend/internal/utils"
)

// OpenAIImageProvider calls the images API and materializes the result
// under the assets dir. A failure here propagates and fails the run; only
// the text synthesizer degrades silently.
type OpenAIImageProvider struct {
	log       *logger.Logger
	assetsDir string
	apiKey    string
	baseURL   string
	model     string
	client    *http.Client
}

func NewOpenAIImageProvider(log *logger.Logger, assetsDir string) *OpenAIImageProvider {
	return &OpenAIImageProvider{
		log:       log.With("provider", "openai"),
		assetsDir: assetsDir,
		apiKey:    utils.GetEnv("OPENAI_API_KEY", "", nil),
		baseURL:   utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com/v1", nil),
		model:     utils.GetEnv("DESIGNMILL_IMAGE_MODEL", "gpt-image-1", nil),
		client:    &http.Client{Timeout: 180 * time.Second},
	}
}

func (p *OpenAIImageProvider) Name() string { return "openai" }

type imageGenRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageGenResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

func (p *OpenAIImageProvider) Generate(ctx context.Context, doc *prompt.Document) (*ProviderResult, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openai image provider: OPENAI_API_KEY is not set")
	}

	body, err := json.Marshal(imageGenRequest{
		Model:  p.model,
		Prompt: renderPromptText(doc),
		N:      1,
		Size:   "1024x1024",
	})
	if err != nil {
		return nil, fmt.Errorf("openai image provider: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai image provider: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai image provider: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai image provider: status %d", resp.StatusCode)
	}

	var parsed imageGenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("openai image provider: decode response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("openai image provider: empty response")
	}
	raw, err := base64.StdEncoding.DecodeString(parsed.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai image provider: decode b64 payload: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("openai image provider: decode image: %w", err)
	}

	if err := os.MkdirAll(p.assetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("openai image provider: create assets dir: %w", err)
	}
	path := filepath.Join(p.assetsDir, fmt.Sprintf("openai_%s.png", uuid.NewString()[:8]))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return nil, fmt.Errorf("openai image provider: write image: %w", err)
	}

	bounds := img.Bounds()
	p.log.Info("Image generated", "path", path, "width", bounds.Dx(), "height", bounds.Dy())
	return &ProviderResult{
		FilePath: path,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Gray:     grayMatrix(img),
		ResponsePayload: map[string]interface{}{
			"provider": "openai",
			"model":    p.model,
		},
	}, nil
}

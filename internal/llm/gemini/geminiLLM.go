package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/customHttpClient"
	"github.com/akolanti/propdocs/internal/extraction"
	"github.com/akolanti/propdocs/internal/llm"
	"github.com/akolanti/propdocs/internal/metrics"
	"github.com/akolanti/propdocs/pkg/logger_i"
	"google.golang.org/genai"
)

// Client covers answering, summarising and vision transcription.
type Client struct {
	client      *genai.Client
	modelName   string
	visionModel string
}

var (
	logger       = logger_i.NewLogger("llm_gemini")
	geminiClient *Client
	initErr      error
	once         sync.Once
)

// GetGeminiClient builds the shared client on first call. Later calls return
// the same client whatever settings they pass.
func GetGeminiClient(ctx context.Context, settings config.LLMSettings) (*Client, error) {
	once.Do(func() {
		geminiClient, initErr = newGeminiClient(ctx, settings, genai.HTTPOptions{})
	})
	return geminiClient, initErr
}

func newGeminiClient(ctx context.Context, settings config.LLMSettings, httpOptions genai.HTTPOptions) (*Client, error) {
	if settings.GeminiAPIKey == "" {
		return nil, errors.New("gemini api key is not set")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      settings.GeminiAPIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  customHttpClient.Shared(),
		HTTPOptions: httpOptions,
	})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return nil, err
	}
	model := settings.GeminiModel
	if model == "" {
		model = config.GeminiModelName
	}
	vision := settings.VisionModel
	if vision == "" {
		vision = config.GeminiVisionModelName
	}
	logger.Info("Gemini client created", "model", model, "visionModel", vision)
	return &Client{client: c, modelName: model, visionModel: vision}, nil
}

func (c *Client) InputCeiling() int {
	return config.AnalysisInputCeiling
}

func (c *Client) Answer(ctx context.Context, documentText string, question string) (string, error) {
	userPrompt := fmt.Sprintf("Document:\n%s\n\nUser Question: %s", documentText, question)
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(config.ModelContext, genai.RoleUser),
		Temperature:       genai.Ptr(config.ModelTemperature),
		MaxOutputTokens:   config.AnswerMaxTokens,
	}
	return c.generate(ctx, c.modelName, genai.Text(userPrompt), contentConfig)
}

func (c *Client) Summarize(ctx context.Context, documentText string) (string, error) {
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(config.SummaryPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(config.ModelTemperature),
		MaxOutputTokens:   config.SummaryMaxTokens,
	}
	return c.generate(ctx, c.modelName, genai.Text(documentText), contentConfig)
}

// ExtractVision sends the document inline. The caller checks the inline size limit.
func (c *Client) ExtractVision(ctx context.Context, data []byte, mimeType string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(config.VisionPrompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	return c.generate(ctx, c.visionModel, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
}

func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	log := logger.WithTrace(ctx).With("model", model)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("gemini_generate", time.Since(start)) }()

	result, err := c.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		log.Warn("gemini call failed", "error", err)
		return "", classify(err)
	}
	if result == nil {
		return "", fmt.Errorf("%w: empty gemini response", extraction.ErrServiceUnavailable)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", llm.ErrEmptyReply
	}
	return text, nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return llm.ClassifyStatus(apiErr.Code, err)
	}
	return err
}

var (
	_ llm.Provider               = (*Client)(nil)
	_ extraction.VisionExtractor = (*Client)(nil)
)

package openaiLLM

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/customHttpClient"
	"github.com/akolanti/propdocs/internal/extraction"
	"github.com/akolanti/propdocs/internal/llm"
	"github.com/akolanti/propdocs/internal/metrics"
	"github.com/akolanti/propdocs/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Client struct {
	client    openai.Client
	modelName string
}

var logger = logger_i.NewLogger("llm_openai")

// NewClient builds a chat completions client on the shared pooled transport.
// Extra options are appended last so callers can point it elsewhere.
func NewClient(settings config.LLMSettings, opts ...option.RequestOption) (*Client, error) {
	if settings.OpenAIAPIKey == "" {
		return nil, errors.New("openai api key is not set")
	}
	model := settings.OpenAIModel
	if model == "" {
		model = config.OpenAIModelName
	}
	base := []option.RequestOption{
		option.WithAPIKey(settings.OpenAIAPIKey),
		option.WithHTTPClient(customHttpClient.Shared()),
	}
	c := openai.NewClient(append(base, opts...)...)
	logger.Info("OpenAI client created", "model", model)
	return &Client{client: c, modelName: model}, nil
}

func (c *Client) InputCeiling() int {
	return config.AnalysisInputCeiling
}

func (c *Client) Answer(ctx context.Context, documentText string, question string) (string, error) {
	userPrompt := fmt.Sprintf("Document:\n%s\n\nUser Question: %s", documentText, question)
	return c.complete(ctx, config.ModelContext, userPrompt, config.AnswerMaxTokens)
}

func (c *Client) Summarize(ctx context.Context, documentText string) (string, error) {
	return c.complete(ctx, config.SummaryPrompt, documentText, config.SummaryMaxTokens)
}

func (c *Client) complete(ctx context.Context, system, user string, maxTokens int64) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("openai_completion", time.Since(start)) }()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:       openai.ChatModel(c.modelName),
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(float64(config.ModelTemperature)),
	})
	if err != nil {
		logger.WithTrace(ctx).Warn("openai call failed", "model", c.modelName, "error", err)
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", llm.ClassifyStatus(apiErr.StatusCode, err)
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", extraction.ErrServiceUnavailable)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", llm.ErrEmptyReply
	}
	return text, nil
}

var _ llm.Provider = (*Client)(nil)

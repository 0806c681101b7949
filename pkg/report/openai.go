package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"

	"github.com/vinscope/vinscope/pkg/shared/stringutil"
)

const systemInstruction = `You are a vehicle-history analyst. You receive a JSON
payload with a vehicle identifier, decoded registry facts, quality markers,
risk flags, and web search evidence. Write a concise report for a buyer:
summarize what the vehicle is, call out every risk flag with the evidence
behind it, and state clearly when evidence is thin or absent. Use only the
evidence in the payload; never invent facts. Answer in markdown.`

// CredentialError means the summarization credential is missing. It is
// returned before any API call is attempted.
type CredentialError struct{}

func (e *CredentialError) Error() string {
	return "OPENAI_API_KEY is not set"
}

// OpenAIConfig controls the summarization client.
type OpenAIConfig struct {
	APIKey              string  `yaml:"api_key"`
	BaseURL             string  `yaml:"base_url"`
	Model               string  `yaml:"model"`
	MaxCompletionTokens int     `yaml:"max_completion_tokens"`
	Temperature         float64 `yaml:"temperature"`
	TimeoutSecs         int     `yaml:"timeout_seconds"`
	PayloadTokenBudget  int     `yaml:"payload_token_budget"`
}

// WithDefaults fills in zero-valued fields and returns the config.
func (c *OpenAIConfig) WithDefaults() *OpenAIConfig {
	if c == nil {
		c = &OpenAIConfig{}
	}
	if strings.TrimSpace(c.Model) == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.MaxCompletionTokens <= 0 {
		c.MaxCompletionTokens = 1024
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = 60
	}
	if c.PayloadTokenBudget <= 0 {
		c.PayloadTokenBudget = 6000
	}
	return c
}

// ApplyEnvDefaults overlays environment variables on cfg and returns the
// config with defaults applied.
func ApplyEnvDefaults(cfg *OpenAIConfig) *OpenAIConfig {
	if cfg == nil {
		cfg = &OpenAIConfig{}
	}
	cfg.APIKey = stringutil.EnvOr(cfg.APIKey, os.Getenv("OPENAI_API_KEY"))
	cfg.BaseURL = stringutil.EnvOr(cfg.BaseURL, os.Getenv("OPENAI_BASE_URL"))
	cfg.Model = stringutil.EnvOr(cfg.Model, os.Getenv("OPENAI_MODEL"))
	return cfg.WithDefaults()
}

// OpenAIClient implements Summarizer over the chat completions API.
type OpenAIClient struct {
	cfg    *OpenAIConfig
	client openai.Client
	log    zerolog.Logger
}

// NewOpenAIClient builds a client from cfg. A missing API key is not an
// error here; Summarize reports it as a CredentialError so callers can skip
// the stage cleanly.
func NewOpenAIClient(cfg *OpenAIConfig, log zerolog.Logger) *OpenAIClient {
	cfg = cfg.WithDefaults()
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{
		cfg:    cfg,
		client: openai.NewClient(opts...),
		log:    log.With().Str("component", "summarizer").Logger(),
	}
}

// Summarize sends the system instruction plus the JSON payload and returns
// the completion text verbatim.
func (c *OpenAIClient) Summarize(ctx context.Context, payload Payload) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", &CredentialError{}
	}

	payload = TrimToBudget(payload, c.cfg.Model, c.cfg.PayloadTokenBudget, c.log)
	body, err := payload.JSON()
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSecs)*time.Second)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage("Vehicle intelligence payload:\n\n" + body),
		},
		MaxCompletionTokens: openai.Int(int64(c.cfg.MaxCompletionTokens)),
	}
	if c.cfg.Temperature > 0 {
		params.Temperature = openai.Float(c.cfg.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(callCtx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	c.log.Debug().
		Str("model", c.cfg.Model).
		Int64("prompt_tokens", resp.Usage.PromptTokens).
		Int64("completion_tokens", resp.Usage.CompletionTokens).
		Msg("summary generated")
	return resp.Choices[0].Message.Content, nil
}

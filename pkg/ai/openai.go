package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tuimian",
		Subsystem: "ai",
		Name:      "classification_duration_seconds",
		Help:      "Duration of AI classification requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tuimian",
		Subsystem: "ai",
		Name:      "classification_failures_total",
		Help:      "Number of AI classification failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI classifier.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIClassifier implements Classifier against the OpenAI chat completion API.
type OpenAIClassifier struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIClassifier builds a classifier using the provided configuration.
func NewOpenAIClassifier(cfg OpenAIConfig) (*OpenAIClassifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 256
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/liuwy-dev/tuimian-go-api/pkg/ai/openai"),
		logger: logger,
	}, nil
}

// Classify sends the paragraph to OpenAI and parses the structured verdict.
func (c *OpenAIClassifier) Classify(parent context.Context, input ClassificationInput) (ClassificationResult, error) {
	ctx, span := c.tracer.Start(parent, "openai.classify", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: classifierSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildClassifierPrompt(input),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := c.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(c.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues(c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ClassificationResult{}, fmt.Errorf("openai classify: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues(c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ClassificationResult{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	result, err := parseClassificationResponse(content, input.Categories)
	if err != nil {
		aiFailures.WithLabelValues(c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ClassificationResult{}, err
	}

	result.Raw = map[string]interface{}{
		"usage": resp.Usage,
	}

	return result, nil
}

func classifierSystemPrompt() string {
	return "You classify Chinese university achievement descriptions. Respond with a JSON object containing category (one of" +
		" the offered values or empty when none fits), confidence (0-1), and a short reason in Chinese."
}

func buildClassifierPrompt(input ClassificationInput) string {
	builder := strings.Builder{}
	builder.WriteString("# Categories\n")
	builder.WriteString(strings.Join(input.Categories, ", "))
	builder.WriteString("\n\n# Paragraph\n")
	builder.WriteString(input.Paragraph)
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}

func parseClassificationResponse(content string, allowed []string) (ClassificationResult, error) {
	type payload struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
		Reason     string  `json:"reason"`
	}

	var data payload
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return ClassificationResult{}, fmt.Errorf("parse classification json: %w", err)
	}

	if data.Confidence < 0 {
		data.Confidence = 0
	}
	if data.Confidence > 1 {
		data.Confidence = 1
	}

	category := strings.TrimSpace(data.Category)
	if category != "" {
		valid := false
		for _, candidate := range allowed {
			if candidate == category {
				valid = true
				break
			}
		}
		if !valid {
			category = ""
		}
	}

	return ClassificationResult{
		Category:   category,
		Confidence: data.Confidence,
		Reason:     data.Reason,
	}, nil
}

package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/voicedesk/voicedesk/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var groqTracer = otel.Tracer("voicedesk.internal.conversation.groq")

type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// GroqClient produces assistant responses through the Groq OpenAI-compatible
// chat completion endpoint.
type GroqClient struct {
	client chatClient
	model  string
	logger *logging.Logger
}

// NewGroqClient returns a Groq-backed LLMClient implementation.
func NewGroqClient(client chatClient, model string, logger *logging.Logger) *GroqClient {
	if client == nil {
		panic("conversation: chat client cannot be nil")
	}
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GroqClient{
		client: client,
		model:  model,
		logger: logger,
	}
}

// Complete sends the system instruction plus transcript and returns the next
// assistant utterance. Failures wrap ErrGeneration.
func (c *GroqClient) Complete(ctx context.Context, system string, history []ChatMessage) (string, error) {
	ctx, span := groqTracer.Start(ctx, "conversation.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("voicedesk.llm.model", c.model),
		attribute.Int("voicedesk.llm.history_len", len(history)),
	)

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		err := errors.New("no choices returned")
		span.RecordError(err)
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

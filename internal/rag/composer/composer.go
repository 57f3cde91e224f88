package composer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// ErrUnavailable is returned when the generative model failed to initialize
var ErrUnavailable = errors.New("language model is not available")

// GenerationError wraps any failure of a call to the generative model
// (timeout, quota, malformed response)
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate response: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// DefaultTemplate is the instructional prompt used when no override file is
// configured. {transcript} and {question} are substituted at compose time
const DefaultTemplate = `You are a helpful assistant that answers questions based on YouTube video transcripts.

Instructions:
- Provide accurate answers based only on the given transcript
- If the transcript doesn't contain relevant information, say so clearly
- Include specific details and examples from the video when possible
- Be conversational and helpful
- Respond in the language of the question unless asked otherwise
- If asked about timestamps, mention that you can reference general sections but not exact times
- Provide explanation when asked by the user

Transcript:
{transcript}

Question: {question}

Answer:`

// Generator sends a prompt to a generative language model and returns its raw
// text response
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator calls chat completions on an OpenAI-compatible API
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

// NewOpenAIGenerator creates a generator against the given OpenAI-compatible
// endpoint. The API key is required; a positive timeout bounds every
// completion request
func NewOpenAIGenerator(apiKey, baseURL, model string, timeout time.Duration) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("missing language model API key")
	}
	if model == "" {
		return nil, errors.New("missing language model name")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	return &OpenAIGenerator{client: openai.NewClient(opts...), model: model}, nil
}

// Generate sends the prompt as a single user message
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(g.model),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Composer assembles retrieved transcript segments and a question into a
// prompt and asks the generative model for an answer
type Composer struct {
	generator Generator
	template  string
}

// New creates a composer using the given generator. A nil generator marks the
// composer unavailable; every Compose call then fails with ErrUnavailable.
// An empty template falls back to DefaultTemplate
func New(generator Generator, template string) *Composer {
	if template == "" {
		template = DefaultTemplate
	}
	return &Composer{generator: generator, template: template}
}

// Available reports whether the generative model initialized successfully
func (c *Composer) Available() bool {
	return c.generator != nil
}

// Compose joins the retrieved segment texts into a context block, fills the
// instructional template, and returns the model's raw text response
func (c *Composer) Compose(ctx context.Context, retrieved []string, question string) (string, error) {
	if c.generator == nil {
		return "", ErrUnavailable
	}

	prompt := c.Prompt(retrieved, question)
	answer, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	return answer, nil
}

// Prompt builds the full prompt text without calling the model
func (c *Composer) Prompt(retrieved []string, question string) string {
	contextBlock := strings.Join(retrieved, "\n\n")
	prompt := strings.ReplaceAll(c.template, "{transcript}", contextBlock)
	return strings.ReplaceAll(prompt, "{question}", question)
}

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"remitiq/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultAdvisorMaxHistory = 20

// AdvisorIntelligence supplies the live analysis that grounds advisor
// answers in current market conditions.
type AdvisorIntelligence interface {
	GetIntelligence(ctx context.Context) (domain.IntelligenceData, error)
}

type chatTurn struct {
	question string
	answer   string
}

type completionFunc func(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)

// AdvisorService answers free-form questions about AUD to INR transfer
// timing. Each chat keeps a bounded conversation history so follow-up
// questions stay coherent.
type AdvisorService struct {
	tracer       trace.Tracer
	intelligence AdvisorIntelligence
	complete     completionFunc
	model        string
	maxHistory   int

	mu      sync.Mutex
	history map[int64][]chatTurn
}

func NewAdvisorService(tracer trace.Tracer, intelligence AdvisorIntelligence, apiKey, model string, maxHistory int) *AdvisorService {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}
	if maxHistory <= 0 {
		maxHistory = defaultAdvisorMaxHistory
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &AdvisorService{
		tracer:       tracer,
		intelligence: intelligence,
		complete: func(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
			return client.Chat.Completions.New(ctx, params)
		},
		model:        model,
		maxHistory:   maxHistory,
		history:      make(map[int64][]chatTurn),
	}
}

func (s *AdvisorService) Ask(ctx context.Context, chatID int64, message string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "advisor-service.ask")
	defer span.End()
	span.SetAttributes(attribute.Int64("chat.id", chatID))

	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("empty question")
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(s.systemPrompt(ctx)),
	}
	for _, turn := range s.turns(chatID) {
		messages = append(messages, openai.UserMessage(turn.question))
		messages = append(messages, openai.AssistantMessage(turn.answer))
	}
	messages = append(messages, openai.UserMessage(message))

	resp, err := s.complete(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(s.model),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	s.remember(chatID, chatTurn{question: message, answer: answer})
	return answer, nil
}

// Forget drops the stored conversation for a chat.
func (s *AdvisorService) Forget(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, chatID)
}

// systemPrompt embeds the current analysis so the model answers from
// live numbers instead of inventing them. A failed intelligence lookup
// degrades to a context-free prompt rather than blocking the question.
func (s *AdvisorService) systemPrompt(ctx context.Context) string {
	var b strings.Builder
	b.WriteString("You are RemitIQ, an assistant that helps people in Australia decide when to send AUD to INR remittances. ")
	b.WriteString("Be concise and practical. You are not a licensed financial adviser and should say so when asked for guarantees.")

	if s.intelligence == nil {
		return b.String()
	}
	data, err := s.intelligence.GetIntelligence(ctx)
	if err != nil {
		return b.String()
	}

	fmt.Fprintf(&b, "\n\nCurrent market context:\n")
	fmt.Fprintf(&b, "- Best platform rate: %.4f INR per AUD (mid-market %.4f)\n", data.Stats.Current, data.MidMarketRate)
	fmt.Fprintf(&b, "- Recommendation: %s at %d%% confidence. %s\n", data.Recommendation.Signal, data.Recommendation.Confidence, data.Recommendation.Reason)
	fmt.Fprintf(&b, "- 30d range: %.4f to %.4f, RSI(14) %.1f\n", data.Stats.Low30d, data.Stats.High30d, data.Stats.RSI14)
	if data.Recommendation.Forecast.Direction != "" {
		fmt.Fprintf(&b, "- 3-7 day forecast: %s (%d%% confidence)\n", data.Recommendation.Forecast.Direction, data.Recommendation.Forecast.Confidence)
	}
	return b.String()
}

func (s *AdvisorService) turns(chatID int64) []chatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chatTurn(nil), s.history[chatID]...)
}

func (s *AdvisorService) remember(chatID int64, turn chatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := append(s.history[chatID], turn)
	if len(turns) > s.maxHistory {
		turns = turns[len(turns)-s.maxHistory:]
	}
	s.history[chatID] = turns
}

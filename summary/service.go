// Package summary bridges a tenant record to a short natural-language
// health narrative from a text-generation API. The bridge degrades to
// canned copy whenever the API is unconfigured or unreachable: callers
// never see an error.
package summary

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/azure-innovate/procheck/telemetry"
	"github.com/azure-innovate/procheck/types"
)

// Fallback copy returned in place of a live diagnostic
const (
	FallbackOffline = "Operational Intelligence: Summary offline. Please configure the ProCheck API Bridge for AI-driven insights."
	FallbackTimeout = "The AI Diagnostic Bridge experienced a timeout. Falling back to rule-based summary."
	FallbackEmpty   = "Diagnostic engine failed to provide a text response."
)

const defaultModel = openai.GPT4oMini

// ChatClient is the slice of the OpenAI client the service needs
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Service produces health narratives for the tenant detail view
type Service struct {
	client ChatClient
	model  string
	logger *telemetry.Logger
}

// New creates a summary service. An empty API key leaves the client unset
// and every call returns the offline fallback.
func New(apiKey, model string) *Service {
	s := &Service{
		model:  model,
		logger: telemetry.NewLogger("summary"),
	}
	if s.model == "" {
		s.model = defaultModel
	}
	if apiKey != "" {
		s.client = openai.NewClient(apiKey)
	}
	return s
}

// NewWithClient injects a prebuilt client, for tests
func NewWithClient(client ChatClient, model string) *Service {
	s := New("", model)
	s.client = client
	return s
}

// HealthSummary returns a short diagnostic narrative for the tenant. The
// call is attempted exactly once; any failure is absorbed into a fixed
// fallback string.
func (s *Service) HealthSummary(ctx context.Context, tenant types.Tenant) string {
	if s.client == nil {
		return FallbackOffline
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are an Azure Managed Services Architect for the ProCheck multi-tenant dashboard."},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(tenant)},
		},
	})
	if err != nil {
		s.logger.WithContext(ctx).Error().
			Err(err).
			Str("tenant_id", tenant.ID).
			Msg("diagnostic bridge call failed")
		return FallbackTimeout
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return FallbackEmpty
	}
	return resp.Choices[0].Message.Content
}

func buildPrompt(tenant types.Tenant) string {
	return fmt.Sprintf(`Task: Provide a high-density health diagnostic for %s.
Current Status: %s.
Infrastructure: %s, Subscription ID %s.

If Status is NOT Healthy, respond ONLY with:
- A 1-sentence executive summary of the primary risk.
- A bulleted list of 2-3 specific technical remediation actions based on Azure best practices (e.g., "Check MFA policies", "Analyze Log Analytics Workspace for CMP-101 errors", "Scale VM SKU").

If Status IS Healthy, respond ONLY with:
- A 1-sentence confirmation of stability and a proactive maintenance tip.

Keep response under 80 words. No narrative filler.`,
		tenant.Name, tenant.Status, tenant.Location, tenant.SubscriptionID)
}

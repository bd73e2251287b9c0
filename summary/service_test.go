package summary

import (
	"context"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	"github.com/azure-innovate/procheck/types"
)

type stubClient struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (s *stubClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	if s.content == "" {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.content}},
		},
	}, nil
}

var testTenant = types.Tenant{
	ID:             "t-1",
	Name:           "Acme Corp",
	SubscriptionID: "sub-1234",
	Location:       "westeurope",
	Status:         types.StatusHealthy,
}

func TestHealthSummary_OfflineWithoutKey(t *testing.T) {
	svc := New("", "")
	assert.Equal(t, FallbackOffline, svc.HealthSummary(context.Background(), testTenant))
}

func TestHealthSummary_Success(t *testing.T) {
	client := &stubClient{content: "Acme Corp is stable. Consider rotating VPN shared keys this quarter."}
	svc := NewWithClient(client, "")

	got := svc.HealthSummary(context.Background(), testTenant)
	assert.Equal(t, client.content, got)

	// Prompt carries the tenant identity fields
	prompt := client.lastReq.Messages[1].Content
	assert.Contains(t, prompt, "Acme Corp")
	assert.Contains(t, prompt, "Healthy")
	assert.Contains(t, prompt, "westeurope")
	assert.Contains(t, prompt, "sub-1234")
}

func TestHealthSummary_CallFailure(t *testing.T) {
	client := &stubClient{err: fmt.Errorf("connection refused")}
	svc := NewWithClient(client, "")

	assert.Equal(t, FallbackTimeout, svc.HealthSummary(context.Background(), testTenant))
}

func TestHealthSummary_EmptyResponse(t *testing.T) {
	client := &stubClient{}
	svc := NewWithClient(client, "")

	assert.Equal(t, FallbackEmpty, svc.HealthSummary(context.Background(), testTenant))
}

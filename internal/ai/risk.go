// Package ai wraps the external risk-assessment collaborator. The rest of
// the system treats its output as opaque: a score, a band, and a narrative.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const promptVersion = "1.0"

// RiskInput is the vendor context handed to the scorer.
type RiskInput struct {
	VendorName    string `json:"vendor_name"`
	Country       string `json:"country"`
	VendorType    string `json:"vendor_type"` // local, international
	EntityType    string `json:"entity_type"`
	Questionnaire string `json:"questionnaire,omitempty"` // raw DD questionnaire JSON
}

// RiskResult is the scorer's verdict.
type RiskResult struct {
	Score               float64  `json:"risk_score"` // 0-100
	Level               string   `json:"risk_level"` // Low, Medium, High
	TopRiskDrivers      []string `json:"top_risk_drivers"`
	Summary             string   `json:"assessment_summary"`
	ConfidenceLevel     string   `json:"confidence_level"`
	ConfidenceRationale string   `json:"confidence_rationale"`
	PromptVersion       string   `json:"prompt_version"`
	AssessedAt          time.Time `json:"assessed_at"`
}

// RiskScorer produces a risk assessment for a vendor. Implementations must
// be safe for concurrent use.
type RiskScorer interface {
	Score(ctx context.Context, in RiskInput) (*RiskResult, error)
}

// NewScorer returns the OpenAI-backed scorer when an API key is configured,
// otherwise the deterministic heuristic fallback.
func NewScorer(apiKey, model string) RiskScorer {
	if apiKey == "" {
		return &heuristicScorer{}
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &openaiScorer{client: openai.NewClient(apiKey), model: model}
}

const systemPrompt = `You are a vendor risk analyst for a procurement department.
Given vendor details and an optional due-diligence questionnaire, respond with a
single JSON object: {"risk_score": <0-100 number>, "risk_level": "Low"|"Medium"|"High",
"top_risk_drivers": [<up to 3 strings>], "assessment_summary": <string>,
"confidence_level": "High"|"Medium"|"Low", "confidence_rationale": <string>}.
Respond with JSON only, no prose.`

type openaiScorer struct {
	client *openai.Client
	model  string
}

func (s *openaiScorer) Score(ctx context.Context, in RiskInput) (*RiskResult, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode risk input: %w", err)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("risk scoring request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("risk scoring returned no choices")
	}

	var result RiskResult
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("failed to decode risk assessment: %w", err)
	}
	result.PromptVersion = promptVersion
	result.AssessedAt = time.Now().UTC()
	return &result, nil
}

// heuristicScorer is the offline fallback: a deterministic rubric over the
// structured vendor fields. It never inspects the free-form questionnaire.
type heuristicScorer struct{}

func (s *heuristicScorer) Score(_ context.Context, in RiskInput) (*RiskResult, error) {
	score := 10.0
	var drivers []string

	if in.VendorType == "international" {
		score += 30
		drivers = append(drivers, "International vendor")
	}
	if in.Country == "" {
		score += 15
		drivers = append(drivers, "Unknown jurisdiction")
	}
	if strings.TrimSpace(in.Questionnaire) == "" {
		score += 20
		drivers = append(drivers, "No due-diligence questionnaire on file")
	}

	level := "Low"
	switch {
	case score >= 60:
		level = "High"
	case score >= 35:
		level = "Medium"
	}

	return &RiskResult{
		Score:               score,
		Level:               level,
		TopRiskDrivers:      drivers,
		Summary:             fmt.Sprintf("Heuristic assessment of %s: %s risk (%.0f/100).", in.VendorName, level, score),
		ConfidenceLevel:     "Low",
		ConfidenceRationale: "Static rubric used because no AI backend is configured.",
		PromptVersion:       promptVersion,
		AssessedAt:          time.Now().UTC(),
	}, nil
}

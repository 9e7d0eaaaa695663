package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	// DefaultTimeout bounds a single reasoning call. Expiry is a stage
	// failure, handled by the orchestrator's fallback/default policy.
	DefaultTimeout = 60 * time.Second

	maxRetries = 3

	systemPrompt = "You are a helpful assistant that always responds with valid JSON. " +
		"Do not include any text outside the JSON object."
)

// ClientOpts holds parameters for creating a reasoning Client.
type ClientOpts struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	HorizonDays int // how far ahead the optimal-time stage may suggest
}

// Client implements Engine on top of the OpenAI chat completions API.
type Client struct {
	api     openaigo.Client
	model   string
	horizon int
}

// NewClient creates a reasoning Client.
func NewClient(opts ClientOpts) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("reasoning: api key is required")
	}
	if opts.Model == "" {
		opts.Model = "gpt-4o"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = 14
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(opts.APIKey)),
		option.WithMaxRetries(maxRetries),
		option.WithRequestTimeout(opts.Timeout),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(strings.TrimRight(opts.BaseURL, "/")))
	}

	return &Client{
		api:     openaigo.NewClient(clientOpts...),
		model:   opts.Model,
		horizon: opts.HorizonDays,
	}, nil
}

// complete issues one chat completion and returns the raw text content.
func (c *Client) complete(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(c.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(systemPrompt),
			openaigo.UserMessage(prompt),
		},
		MaxTokens:   openaigo.Int(maxTokens),
		Temperature: openaigo.Float(0.1),
	})
	if err != nil {
		return "", fmt.Errorf("reasoning: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("reasoning: chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// DetectIntent asks whether the transcript shows a clear intent to
// schedule a meeting.
func (c *Client) DetectIntent(ctx context.Context, transcript string) (*IntentResult, error) {
	prompt := fmt.Sprintf(`Analyze the following chat conversation and determine if there is a clear intent to schedule a meeting.

Chat History:
%s

Look for:
- Direct requests to schedule meetings ("let's meet", "schedule a meeting", "can we meet")
- Discussion about availability and timing
- Coordination of group activities
- Planning sessions or calls

Respond with a JSON object containing:
{
    "has_intent": boolean,
    "confidence": float (0.0 to 1.0),
    "reasoning": "Brief explanation of your decision"
}`, transcript)

	raw, err := c.complete(ctx, prompt, 200)
	if err != nil {
		return nil, err
	}
	var result IntentResult
	if err := parseResult(raw, &result, "has_intent"); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractAvailability asks for each participant's stated availability,
// with relative dates resolved against now.
func (c *Client) ExtractAvailability(ctx context.Context, transcript string, participants []string, now time.Time) (*Availability, error) {
	prompt := fmt.Sprintf(`Analyze the following chat conversation and extract availability information for each participant.

Chat History:
%s

Participants: %s

For each participant, extract:
- Available time slots (dates, times, durations)
- Unavailable periods
- Preferences or constraints
- Time zone (assume IST/Asia/Kolkata if not specified)

Current date context: Today is %s

Parse relative dates like "Thursday", "tomorrow", "this week" into specific dates.
Parse times like "2-5 PM", "morning", "after 4 PM" into specific time ranges.

Respond with a JSON object:
{
    "participants": {
        "ParticipantName": {
            "available_slots": [
                {
                    "date": "YYYY-MM-DD",
                    "start_time": "HH:MM",
                    "end_time": "HH:MM",
                    "timezone": "Asia/Kolkata"
                }
            ],
            "unavailable_slots": [...],
            "has_availability": boolean,
            "constraints": "Any specific constraints mentioned"
        }
    }
}`, transcript, strings.Join(participants, ", "), now.Format("2006-01-02"))

	raw, err := c.complete(ctx, prompt, 800)
	if err != nil {
		return nil, err
	}
	var result Availability
	if err := parseResult(raw, &result, "participants"); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckMissingInfo asks whether any participant's availability is missing
// or unclear, and for a follow-up question if so.
func (c *Client) CheckMissingInfo(ctx context.Context, avail *Availability, participants []string, transcript string) (*MissingInfo, error) {
	availJSON, err := json.MarshalIndent(avail, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("reasoning: marshal availability: %w", err)
	}

	prompt := fmt.Sprintf(`Review the extracted availability information and determine if any participant's availability is missing or unclear.

Extracted Availability:
%s

Participants: %s

Chat History:
%s

Determine:
1. Which participants haven't provided clear availability
2. What specific information is missing
3. Generate a helpful follow-up question if needed

Respond with JSON:
{
    "needs_followup": boolean,
    "missing_participants": ["ParticipantName1", ...],
    "followup_message": "Natural language message asking for missing availability",
    "reasoning": "Why follow-up is needed"
}`, availJSON, strings.Join(participants, ", "), transcript)

	raw, err := c.complete(ctx, prompt, 300)
	if err != nil {
		return nil, err
	}
	var result MissingInfo
	if err := parseResult(raw, &result, "needs_followup"); err != nil {
		return nil, err
	}
	return &result, nil
}

// FindOptimalTime asks for a slot the majority of participants can attend.
func (c *Client) FindOptimalTime(ctx context.Context, avail *Availability, participants []string) (*OptimalTime, error) {
	availJSON, err := json.MarshalIndent(avail, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("reasoning: marshal availability: %w", err)
	}

	prompt := fmt.Sprintf(`Given the availability information, find the optimal meeting time that works for the majority of participants.

Availability Data:
%s

Participants: %s (Total: %d)
Majority needed: %d participants

Rules:
1. Find time slots where the majority (>50%%) can attend
2. Prefer earlier times if multiple options exist
3. Suggest 1-hour duration unless context suggests otherwise
4. Use IST timezone
5. Only suggest times within the next %d days

Respond with JSON:
{
    "found_time": boolean,
    "meeting_time": {
        "date": "YYYY-MM-DD",
        "start_time": "HH:MM",
        "end_time": "HH:MM",
        "timezone": "Asia/Kolkata"
    },
    "attending_participants": ["ParticipantName1", ...],
    "title": "Suggested meeting title",
    "reason": "Why this time was chosen or why no time found"
}`, availJSON, strings.Join(participants, ", "), len(participants), MajorityThreshold(len(participants)), c.horizon)

	raw, err := c.complete(ctx, prompt, 400)
	if err != nil {
		return nil, err
	}
	var result OptimalTime
	if err := parseResult(raw, &result, "found_time"); err != nil {
		return nil, err
	}
	return &result, nil
}

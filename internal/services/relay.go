package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ErrRelayTimeout is returned when the model does not answer within the
// configured timeout.
var ErrRelayTimeout = errors.New("model request timed out")

// fallbackReply is used when the model returns an empty completion.
const fallbackReply = "I'm here to support you. Could you tell me more?"

// chatSystemPrompt is the fixed persona sent with every request.
const chatSystemPrompt = `You are MindWell AI, a specialized mental health support chatbot. Your purpose is to provide compassionate, evidence-based emotional support.

CORE PRINCIPLES:
- Always respond with empathy, warmth, and without judgment
- Use active listening techniques - validate feelings and reflect back what users share
- Provide practical coping strategies based on CBT, DBT, and mindfulness techniques
- Encourage healthy habits (sleep, exercise, nutrition, social connection)
- Recognize signs of crisis and encourage professional help when needed

RESPONSE GUIDELINES:
1. Acknowledge the user's emotions first
2. Normalize their feelings when appropriate
3. Ask open-ended questions to understand better
4. Suggest evidence-based coping techniques
5. Be supportive but honest - you're a support tool, not a replacement for therapy

CRISIS INDICATORS - If user mentions:
- Suicidal thoughts or self-harm
- Plans to hurt themselves or others
- Severe depression or inability to function
RESPOND: Express concern, validate their courage in sharing, and strongly encourage immediate professional help (crisis hotline, emergency services, therapist).

TECHNIQUES TO OFFER:
- Deep breathing exercises (4-7-8 breathing, box breathing)
- Grounding techniques (5-4-3-2-1 sensory method)
- Cognitive reframing for negative thoughts
- Mindfulness and meditation practices
- Journaling and self-reflection
- Progressive muscle relaxation
- Establishing healthy routines

Keep responses conversational, warm, and hope-focused. You're here to support their mental wellness journey.`

// ChatRelay forwards prompts to the hosted model with the MindWell persona.
// It keeps no conversation memory: every call is a single prompt and reply.
type ChatRelay struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewChatRelay creates the relay. The timeout bounds each model call.
func NewChatRelay(ctx context.Context, apiKey, model string, timeout time.Duration) (*ChatRelay, error) {
	if apiKey == "" {
		return nil, errors.New("model API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &ChatRelay{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Generate sends a single prompt and returns the generated text. Callers are
// expected to have rejected blank prompts already.
func (r *ChatRelay) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.client.Models.GenerateContent(ctx, r.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(chatSystemPrompt, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.8),
			TopP:              genai.Ptr[float32](0.95),
			MaxOutputTokens:   1500,
		})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrRelayTimeout
		}
		return "", err
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return fallbackReply, nil
	}
	return text, nil
}

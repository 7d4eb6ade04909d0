package nlquery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/OZiad/league-of-legends-match-intelligence-system/internal/model"
)

const translateSystemPrompt = `You translate natural-language questions about League of Legends
teamfights into a JSON query object. Respond with ONLY a single JSON object, no prose,
no markdown fences.

Fields (all optional, omit what the text does not ask for):
- "champion": string — a champion that must be involved in the fight
- "top_killer_champ": string — the champion with the most kills in the fight
- "tag": string — one of "multi-kill", "objective-fight"
- "min_kills": integer — minimum total kills in the fight
- "min_participants": integer — minimum unique participants
- "match_id": string — restrict to one match
- "top_n_per_match": integer — keep the top N fights per match
- "sort_by": string — "kills", "participants", or "score"

If the text asks for nothing that maps onto these fields, respond with exactly {}.
Never invent constraints the text does not state.`

// wireQuery is the strict JSON schema the model must emit. Unknown fields
// are a translation failure, not a best guess.
type wireQuery struct {
	Champion        string `json:"champion,omitempty"`
	TopKillerChamp  string `json:"top_killer_champ,omitempty"`
	Tag             string `json:"tag,omitempty"`
	MinKills        int    `json:"min_kills,omitempty"`
	MinParticipants int    `json:"min_participants,omitempty"`
	MatchID         string `json:"match_id,omitempty"`
	TopNPerMatch    int    `json:"top_n_per_match,omitempty"`
	SortBy          string `json:"sort_by,omitempty"`
}

// AITranslator maps free text to a Query via an Anthropic model. It is the
// fuzzier counterpart of Translate for phrasing the rule table cannot cover.
type AITranslator struct {
	client  anthropic.Client
	modelID string
}

// NewAITranslator builds a translator using the given API key and model ID.
func NewAITranslator(apiKey, modelID string) *AITranslator {
	return &AITranslator{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		modelID: modelID,
	}
}

// Translate asks the model for a strict JSON query. Any response that is not
// a valid query object — prose, unknown fields, malformed JSON, or an empty
// object — is a translation failure.
func (t *AITranslator) Translate(ctx context.Context, text string) (*Result, error) {
	msg, err := t.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(t.modelID),
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: translateSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic request: %w", err)
	}

	var raw strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			raw.WriteString(block.Text)
		}
	}
	reply := strings.TrimSpace(raw.String())

	dec := json.NewDecoder(bytes.NewReader([]byte(reply)))
	dec.DisallowUnknownFields()
	var w wireQuery
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("model reply is not a query object: %w", ErrTranslationFailed)
	}

	q := model.Query{
		Champion:        w.Champion,
		TopKillerChamp:  w.TopKillerChamp,
		Tag:             w.Tag,
		MinKills:        w.MinKills,
		MinParticipants: w.MinParticipants,
		MatchID:         w.MatchID,
		TopNPerMatch:    w.TopNPerMatch,
		SortBy:          w.SortBy,
	}
	if q.IsZero() {
		return nil, fmt.Errorf("text carries no query constraints: %w", ErrTranslationFailed)
	}
	return &Result{Query: q}, nil
}

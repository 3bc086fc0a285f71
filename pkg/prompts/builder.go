package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/evergarden-code/vova/pkg/story"
)

// Gemini generateContent wire types. Only the fields the relay and the
// builder actually touch are modeled.
type (
	// InlineData is a base64-encoded media attachment.
	InlineData struct {
		MIMEType string `json:"mimeType"`
		Data     string `json:"data"`
	}

	// Part is one piece of a content turn: text or inline media.
	Part struct {
		Text       string      `json:"text,omitempty"`
		InlineData *InlineData `json:"inlineData,omitempty"`
	}

	Content struct {
		Role  string `json:"role,omitempty"`
		Parts []Part `json:"parts"`
	}

	// Payload is the request body sent to the relay, which forwards it
	// upstream after attaching the credential.
	Payload struct {
		Contents          []Content              `json:"contents"`
		SystemInstruction Content                `json:"systemInstruction"`
		GenerationConfig  map[string]interface{} `json:"generationConfig,omitempty"`
	}
)

// BuildRequest assembles the oracle payload for one turn. The turn
// context is rendered as a readable state block so the oracle sees the
// same facts the policy layer acted on.
func BuildRequest(tc story.TurnContext) *Payload {
	parts := []Part{{Text: renderTurn(tc)}}

	if tc.Material.Type == story.MaterialImage && tc.Material.Data != "" {
		mime := tc.Material.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		parts = append(parts, Part{InlineData: &InlineData{
			MIMEType: mime,
			Data:     tc.Material.Data,
		}})
	}

	return &Payload{
		Contents: []Content{{Role: "user", Parts: parts}},
		SystemInstruction: Content{
			Parts: []Part{{Text: SystemInstruction(tc)}},
		},
		GenerationConfig: map[string]interface{}{
			"temperature": 0.9,
		},
	}
}

// renderTurn flattens the turn context into the user message.
func renderTurn(tc story.TurnContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Целевая стадия: %s\n", tc.TargetStage)
	fmt.Fprintf(&b, "Настроение Вовы после прошлого хода: %d\n", tc.LastMood)
	fmt.Fprintf(&b, "Реплик Вовы всего: %d, выборов игрока: %d\n", tc.TotalReplies, tc.TotalChoicesMade)

	switch {
	case tc.Material.Type == story.MaterialImage && tc.Material.Data != "":
		b.WriteString("Материал игрока: изображение (приложено к сообщению)")
		if tc.Material.Name != "" {
			fmt.Fprintf(&b, ", файл %q", tc.Material.Name)
		}
		b.WriteString("\n")
	case tc.Material.Data != "":
		fmt.Fprintf(&b, "Материал игрока: %s\n", tc.Material.Data)
	default:
		b.WriteString("Материала нет: игрок зашёл просто так.\n")
	}

	if tc.CoreSummary != "" {
		fmt.Fprintf(&b, "Сводка разговора: %s\n", tc.CoreSummary)
	}
	if tc.PreviousNote != "" {
		fmt.Fprintf(&b, "Твоя заметка с прошлого хода: %s\n", tc.PreviousNote)
	}
	if tc.PreviousEval != "" {
		fmt.Fprintf(&b, "Оценка прошлого хода: %s\n", tc.PreviousEval)
	}
	if len(tc.VisitedLocations) > 0 {
		fmt.Fprintf(&b, "Локации, где уже были: %s\n", strings.Join(tc.VisitedLocations, ", "))
	}
	if len(tc.DiscussedTopics) > 0 {
		fmt.Fprintf(&b, "Темы, которые уже обсуждали (не повторяйся): %s\n", strings.Join(tc.DiscussedTopics, ", "))
	}
	if tc.BadChoiceStreak > 0 {
		fmt.Fprintf(&b, "Подряд неудачных реплик игрока: %d\n", tc.BadChoiceStreak)
	}
	if tc.RefusalCount > 0 {
		fmt.Fprintf(&b, "Игрок отказывался уходить: %d раз(а)\n", tc.RefusalCount)
	}

	if len(tc.RecentDialogue) > 0 {
		b.WriteString("\nПоследние реплики:\n")
		for _, entry := range tc.RecentDialogue {
			fmt.Fprintf(&b, "%s: %s\n", entry.Speaker, entry.Text)
		}
	}

	if tc.ChosenText != "" {
		if tc.IsCustomInput {
			fmt.Fprintf(&b, "\nИгрок написал свой ответ: %s\n", tc.ChosenText)
		} else {
			fmt.Fprintf(&b, "\nИгрок выбрал: %s\n", tc.ChosenText)
		}
	} else {
		b.WriteString("\nЭто первый ход: Вова открывает дверь и встречает гостя.\n")
	}

	return b.String()
}

// generateContentResponse is the slice of the Gemini answer we consume.
type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ParseStoryData extracts the StoryData object from a raw
// generateContent response body.
func ParseStoryData(raw json.RawMessage) (*story.StoryData, error) {
	var resp generateContentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse oracle response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("oracle response has no candidates")
	}

	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	text = stripFences(text)

	var sd story.StoryData
	if err := json.Unmarshal([]byte(text), &sd); err != nil {
		return nil, fmt.Errorf("failed to parse story data: %w", err)
	}
	return &sd, nil
}

// stripFences removes a markdown code fence if the oracle wrapped its
// JSON in one despite the structured-output mode.
func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

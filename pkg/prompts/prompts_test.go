package prompts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergarden-code/vova/pkg/story"
)

func baseContext() story.TurnContext {
	return story.TurnContext{
		Material:    story.Material{Type: story.MaterialText, Data: "бананы в New World"},
		TargetStage: story.StageMiddle,
		LastMood:    60,
		Personality: story.Personality{IQ: 95, BaseMood: story.MoodGrumpy},
	}
}

func TestSystemInstruction(t *testing.T) {
	tc := baseContext()
	instr := SystemInstruction(tc)

	assert.Contains(t, instr, "IQ: 95")
	assert.Contains(t, instr, "ворчливое")
	assert.NotContains(t, instr, "Директива хода")

	tc.TargetStage = story.StageFinal
	instr = SystemInstruction(tc)
	assert.Contains(t, instr, "Директива хода")
	assert.Contains(t, instr, "force_end")
}

func TestBuildRequestTextMaterial(t *testing.T) {
	payload := BuildRequest(baseContext())

	require.Len(t, payload.Contents, 1)
	require.Len(t, payload.Contents[0].Parts, 1)
	assert.Equal(t, "user", payload.Contents[0].Role)

	turn := payload.Contents[0].Parts[0].Text
	assert.Contains(t, turn, "Целевая стадия: MIDDLE")
	assert.Contains(t, turn, "бананы в New World")
	assert.Contains(t, turn, "первый ход")

	require.NotEmpty(t, payload.SystemInstruction.Parts)
	assert.NotEmpty(t, payload.SystemInstruction.Parts[0].Text)
}

func TestBuildRequestImageMaterial(t *testing.T) {
	tc := baseContext()
	tc.Material = story.Material{
		Type:     story.MaterialImage,
		Data:     "aGVsbG8=",
		MIMEType: "image/jpeg",
		Name:     "photo.jpg",
	}

	payload := BuildRequest(tc)
	require.Len(t, payload.Contents[0].Parts, 2)

	inline := payload.Contents[0].Parts[1].InlineData
	require.NotNil(t, inline)
	assert.Equal(t, "image/jpeg", inline.MIMEType)
	assert.Equal(t, "aGVsbG8=", inline.Data)
	assert.Contains(t, payload.Contents[0].Parts[0].Text, "photo.jpg")
}

func TestBuildRequestChosenText(t *testing.T) {
	tc := baseContext()
	tc.ChosenText = "Расскажи про Женю"
	tc.IsCustomInput = true

	turn := BuildRequest(tc).Contents[0].Parts[0].Text
	assert.Contains(t, turn, "написал свой ответ: Расскажи про Женю")
	assert.NotContains(t, turn, "первый ход")
}

func TestBuildRequestStateLines(t *testing.T) {
	tc := baseContext()
	tc.BadChoiceStreak = 2
	tc.RefusalCount = 1
	tc.VisitedLocations = []string{"entrance", "kitchen"}
	tc.DiscussedTopics = []string{"zhena"}
	tc.RecentDialogue = []story.DialogueEntry{
		{Speaker: story.SpeakerCharacter, Text: "Чего пришёл?"},
	}

	turn := BuildRequest(tc).Contents[0].Parts[0].Text
	assert.Contains(t, turn, "Подряд неудачных реплик игрока: 2")
	assert.Contains(t, turn, "отказывался уходить: 1")
	assert.Contains(t, turn, "entrance, kitchen")
	assert.Contains(t, turn, "zhena")
	assert.Contains(t, turn, "Вова: Чего пришёл?")
}

func oracleBody(t *testing.T, text string) json.RawMessage {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
	require.NoError(t, err)
	return body
}

const storyJSON = `{
	"session_info": {"stage": "MIDDLE", "mood_level": 65, "location": "kitchen"},
	"frames": [{"text": "Чай будешь?"}],
	"choices": [{"text": "Давай", "mood_impact": 5}]
}`

func TestParseStoryData(t *testing.T) {
	sd, err := ParseStoryData(oracleBody(t, storyJSON))
	require.NoError(t, err)

	assert.Equal(t, story.StageMiddle, sd.SessionInfo.Stage)
	assert.Equal(t, 65, sd.SessionInfo.MoodLevel)
	require.Len(t, sd.Frames, 1)
	assert.Equal(t, "Чай будешь?", sd.Frames[0].Text)
	require.Len(t, sd.Choices, 1)
	assert.Equal(t, 5, sd.Choices[0].MoodImpact)
}

func TestParseStoryDataStripsFences(t *testing.T) {
	sd, err := ParseStoryData(oracleBody(t, "```json\n"+storyJSON+"\n```"))
	require.NoError(t, err)
	assert.Equal(t, story.StageMiddle, sd.SessionInfo.Stage)
}

func TestParseStoryDataErrors(t *testing.T) {
	_, err := ParseStoryData(json.RawMessage(`{"candidates": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")

	_, err = ParseStoryData(oracleBody(t, "это не JSON"))
	require.Error(t, err)

	_, err = ParseStoryData(json.RawMessage(`not even json`))
	require.Error(t, err)
}

func TestEndMessage(t *testing.T) {
	assert.Contains(t, EndMessage(story.EndCommand), "попрощался")
	assert.Contains(t, EndMessage(story.EndBadChoices), "разочарован")
	assert.Contains(t, EndMessage(story.EndKickedOut), "выпроводил")
	assert.Equal(t, "История завершена.", EndMessage(""))
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergarden-code/vova/pkg/story"
)

func validStory(stage story.Stage, mood int) *story.StoryData {
	return &story.StoryData{
		SessionInfo: story.SessionInfo{
			Stage:     stage,
			MoodLevel: mood,
			Location:  "entrance",
		},
		Frames: []story.Frame{{Text: "Ну заходи."}},
	}
}

func TestStageHint(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(s *Session)
		expected story.Stage
	}{
		{
			name:     "first turn is always START",
			setup:    func(s *Session) {},
			expected: story.StageStart,
		},
		{
			name: "after START hint MIDDLE",
			setup: func(s *Session) {
				s.TotalReplies = 2
				s.Stage = story.StageStart
			},
			expected: story.StageMiddle,
		},
		{
			name: "MIDDLE stays MIDDLE",
			setup: func(s *Session) {
				s.TotalReplies = 6
				s.Stage = story.StageMiddle
			},
			expected: story.StageMiddle,
		},
		{
			name: "FINAL stays FINAL",
			setup: func(s *Session) {
				s.TotalReplies = 12
				s.Stage = story.StageFinal
			},
			expected: story.StageFinal,
		},
		{
			name: "two bad choices warn the end",
			setup: func(s *Session) {
				s.TotalReplies = 4
				s.Stage = story.StageMiddle
				s.BadChoiceStreak = 2
			},
			expected: story.StageFinal,
		},
		{
			name: "repeated refusals force FINAL",
			setup: func(s *Session) {
				s.TotalReplies = 4
				s.Stage = story.StageMiddle
				s.RefusalToLeaveCount = 2
			},
			expected: story.StageFinal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			tt.setup(s)
			assert.Equal(t, tt.expected, s.StageHint())
		})
	}
}

func TestNoteRefusal(t *testing.T) {
	s := newTestSession(t)
	s.LastFrames = []story.Frame{{Text: "Всё, уходи уже."}}

	s.NoteRefusal(story.Choice{Text: "Нет, я ещё посижу"})
	assert.Equal(t, 1, s.RefusalToLeaveCount)

	s.NoteRefusal(story.Choice{Text: "Ладно, ухожу"})
	assert.Equal(t, 1, s.RefusalToLeaveCount, "agreement is not a refusal")

	s.LastFrames = []story.Frame{{Text: "Чай будешь?"}}
	s.NoteRefusal(story.Choice{Text: "нет"})
	assert.Equal(t, 1, s.RefusalToLeaveCount, "refusing tea is not refusing to leave")

	s.LastFrames = nil
	s.NoteRefusal(story.Choice{Text: "нет"})
	assert.Equal(t, 1, s.RefusalToLeaveCount)
}

func TestBuildTurnContext(t *testing.T) {
	s := newTestSession(t)
	s.TotalReplies = 3
	s.TotalChoicesMade = 2
	s.LastMood = 64
	s.Stage = story.StageMiddle
	s.CoreSummary = "обсуждали бананы"
	s.PreviousNote = "спросить про мать"
	s.VisitedLocations = []string{"entrance", "kitchen"}
	s.DialogueHistory = []story.DialogueEntry{
		{Speaker: story.SpeakerCharacter, Text: "Женя мне больше не пишет."},
	}

	choice := story.Choice{Text: "Расскажи про Женю", NextStageHint: story.StageHintCustom}
	tc := s.BuildTurnContext(&choice)

	assert.Equal(t, story.StageMiddle, tc.TargetStage)
	assert.Equal(t, "Расскажи про Женю", tc.ChosenText)
	assert.True(t, tc.IsCustomInput)
	assert.Equal(t, 64, tc.LastMood)
	assert.Equal(t, 2, tc.TotalChoicesMade)
	assert.Equal(t, 3, tc.TotalReplies)
	assert.Equal(t, "обсуждали бананы", tc.CoreSummary)
	assert.Equal(t, "спросить про мать", tc.PreviousNote)
	assert.Equal(t, []string{"entrance", "kitchen"}, tc.VisitedLocations)
	assert.Equal(t, []string{"zhena"}, tc.DiscussedTopics,
		"building the context recomputes topics")
	assert.Equal(t, s.Personality, tc.Personality)
}

func TestBuildTurnContextOpeningTurn(t *testing.T) {
	s := newTestSession(t)
	tc := s.BuildTurnContext(nil)
	assert.Equal(t, story.StageStart, tc.TargetStage)
	assert.Empty(t, tc.ChosenText)
	assert.False(t, tc.IsCustomInput)
}

func TestApplyResultMoodStreak(t *testing.T) {
	tests := []struct {
		name       string
		lastMood   int
		streak     int
		newMood    int
		wantStreak int
	}{
		{"hard drop below floor counts", 40, 0, 15, 1},
		{"drop above floor does not count", 80, 1, 60, 1},
		{"small drop below floor does not count", 25, 1, 18, 1},
		{"mood gain resets the streak", 40, 2, 55, 0},
		{"flat mood keeps the streak", 40, 1, 40, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			s.Stage = story.StageMiddle
			s.TotalReplies = 4
			s.LastMood = tt.lastMood
			s.BadChoiceStreak = tt.streak

			sd := validStory(story.StageMiddle, tt.newMood)
			s.ApplyResult(&story.Choice{Text: "..."}, sd)

			assert.Equal(t, tt.wantStreak, s.BadChoiceStreak)
			assert.Equal(t, tt.newMood, s.LastMood)
		})
	}
}

func TestApplyResultStreakForcesFinal(t *testing.T) {
	s := newTestSession(t)
	s.Stage = story.StageMiddle
	s.LastMood = 35
	s.BadChoiceStreak = 2

	sd := validStory(story.StageMiddle, 10)
	s.ApplyResult(&story.Choice{Text: "грубость"}, sd)

	assert.Equal(t, 3, s.BadChoiceStreak)
	assert.Equal(t, story.StageFinal, s.Stage)
	assert.Equal(t, story.StageFinal, sd.SessionInfo.Stage,
		"the response is rewritten so downstream consumers agree")
}

func TestApplyResultBlocksPrematureFinal(t *testing.T) {
	s := newTestSession(t)
	s.Stage = story.StageStart
	s.TotalReplies = 1

	sd := validStory(story.StageFinal, 60)
	s.ApplyResult(&story.Choice{Text: "привет"}, sd)

	assert.Equal(t, story.StageMiddle, s.Stage)
	assert.Equal(t, story.StageMiddle, sd.SessionInfo.Stage)
}

func TestApplyResultAllowsEarnedFinal(t *testing.T) {
	s := newTestSession(t)
	s.Stage = story.StageMiddle
	s.VisitedLocations = []string{"entrance", "kitchen"}

	sd := validStory(story.StageFinal, 60)
	s.ApplyResult(&story.Choice{Text: "мне пора"}, sd)

	assert.Equal(t, story.StageFinal, s.Stage)
}

func TestApplyResultFinalViaChoiceCount(t *testing.T) {
	s := newTestSession(t)
	s.Stage = story.StageMiddle
	s.TotalChoicesMade = 6

	sd := validStory(story.StageFinal, 60)
	s.ApplyResult(&story.Choice{Text: "мне пора"}, sd)

	assert.Equal(t, story.StageFinal, s.Stage)
}

func TestApplyResultCurrentChoiceDoesNotUnlockFinal(t *testing.T) {
	s := newTestSession(t)
	s.Stage = story.StageMiddle
	s.TotalChoicesMade = 5 // the 6th choice is the one being applied

	sd := validStory(story.StageFinal, 60)
	s.ApplyResult(&story.Choice{Text: "шестой выбор"}, sd)

	assert.Equal(t, story.StageMiddle, s.Stage,
		"the guard counts choices made before this turn")
	assert.Equal(t, 6, s.TotalChoicesMade)
}

func TestApplyResultStageNeverRegresses(t *testing.T) {
	s := newTestSession(t)
	s.Stage = story.StageMiddle
	s.TotalReplies = 4

	sd := validStory(story.StageStart, 60)
	s.ApplyResult(&story.Choice{Text: "..."}, sd)

	assert.Equal(t, story.StageMiddle, s.Stage)
	assert.Equal(t, story.StageMiddle, sd.SessionInfo.Stage)
}

func TestApplyResultActionReconciliation(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		location   string
		action     string
		wantAction string
	}{
		{"valid pair in place", "kitchen", "kitchen", "cooking", "cooking"},
		{"wrong location for action", "kitchen", "kitchen", "smoking", ""},
		{"unknown action", "room", "room", "dancing", ""},
		{"action during location change", "entrance", "kitchen", "cooking", ""},
		{"no action passes through", "room", "room", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			s.Stage = story.StageMiddle
			s.CurrentLocation = tt.current

			sd := validStory(story.StageMiddle, 60)
			sd.SessionInfo.Location = tt.location
			sd.SessionInfo.Action = tt.action
			s.ApplyResult(&story.Choice{Text: "..."}, sd)

			assert.Equal(t, tt.wantAction, sd.SessionInfo.Action)
			assert.Equal(t, tt.location, s.CurrentLocation)
		})
	}
}

func TestApplyResultRecordsTurn(t *testing.T) {
	s := newTestSession(t)
	s.Stage = story.StageStart
	s.TotalReplies = 1

	sd := &story.StoryData{
		SessionInfo: story.SessionInfo{
			Stage:       story.StageMiddle,
			MoodLevel:   70,
			Location:    "kitchen",
			CoreSummary: "пошли на кухню",
		},
		Frames: []story.Frame{
			{Text: "Пошли, чайник поставлю."},
			{Text: "В New World бананы опять подорожали."},
		},
		NextNote: "игрок любит чай",
	}

	s.ApplyResult(&story.Choice{Text: "Пошли на кухню"}, sd)

	require.Len(t, s.DialogueHistory, 3)
	assert.Equal(t, story.SpeakerPlayer, s.DialogueHistory[0].Speaker)
	assert.Equal(t, story.SpeakerCharacter, s.DialogueHistory[1].Speaker)
	assert.Equal(t, 3, s.TotalReplies)
	assert.Equal(t, 1, s.TotalChoicesMade)
	assert.Equal(t, 70, s.LastMood)
	assert.Equal(t, "kitchen", s.CurrentLocation)
	assert.Equal(t, []string{"kitchen"}, s.VisitedLocations)
	assert.Equal(t, "пошли на кухню", s.CoreSummary)
	assert.Equal(t, "игрок любит чай", s.PreviousNote)
	assert.Equal(t, sd.Frames, s.LastFrames)
	assert.Contains(t, s.DiscussedTopics, "new_world_bananas")
}

func TestApplyResultOpeningTurn(t *testing.T) {
	s := newTestSession(t)

	sd := validStory(story.StageStart, 55)
	s.ApplyResult(nil, sd)

	assert.Equal(t, 0, s.TotalChoicesMade)
	assert.Equal(t, 1, s.TotalReplies)
	require.Len(t, s.DialogueHistory, 1)
	assert.Equal(t, story.SpeakerCharacter, s.DialogueHistory[0].Speaker)
}

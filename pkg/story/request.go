package story

// Material is the player-uploaded discussion topic: either plain text or
// a base64-encoded image.
type Material struct {
	Type     string `json:"type"` // "text" or "image"
	Data     string `json:"data"`
	MIMEType string `json:"mime_type,omitempty"`
	Name     string `json:"name,omitempty"`
}

const (
	MaterialText  = "text"
	MaterialImage = "image"
)

// DialogueEntry is one line of the running transcript.
type DialogueEntry struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Speaker labels for the transcript. The character name is fixed by the
// scenario; the player is always "Player".
const (
	SpeakerCharacter = "Вова"
	SpeakerPlayer    = "Player"
)

// Personality is rolled once per session and immutable afterwards.
type Personality struct {
	IQ       int      `json:"iq"` // 60-140
	BaseMood BaseMood `json:"base_mood"`
}

// BaseMood is the character's disposition for the day.
type BaseMood string

const (
	MoodGrumpy     BaseMood = "grumpy"
	MoodChill      BaseMood = "chill"
	MoodReflective BaseMood = "reflective"
)

// TurnContext is the immutable request bundle sent to the oracle for one
// turn. It is assembled read-only from session state; building it has no
// side effects.
type TurnContext struct {
	Material         Material        `json:"material"`
	TargetStage      Stage           `json:"target_stage"`
	ChosenText       string          `json:"chosen_text,omitempty"` // empty on the first turn
	CoreSummary      string          `json:"core_summary,omitempty"`
	BadChoiceStreak  int             `json:"bad_choice_streak"`
	LastMood         int             `json:"last_mood"`
	IsCustomInput    bool            `json:"is_custom_input"`
	TotalChoicesMade int             `json:"total_choices_made"`
	RecentDialogue   []DialogueEntry `json:"recent_dialogue,omitempty"` // last 10 entries
	TotalReplies     int             `json:"total_replies"`
	VisitedLocations []string        `json:"visited_locations,omitempty"`
	PreviousNote     string          `json:"previous_note,omitempty"`
	DiscussedTopics  []string        `json:"discussed_topics,omitempty"`
	Personality      Personality     `json:"personality"`
	RefusalCount     int             `json:"refusal_count"`
	PreviousEval     string          `json:"previous_evaluation,omitempty"`
}

package story

import "fmt"

// Stage is the coarse narrative phase of a session. Stages only ever
// advance: START -> MIDDLE -> FINAL.
type Stage string

const (
	StageStart  Stage = "START"
	StageMiddle Stage = "MIDDLE"
	StageFinal  Stage = "FINAL"
)

// order maps stages onto a comparable progression.
var order = map[Stage]int{
	StageStart:  0,
	StageMiddle: 1,
	StageFinal:  2,
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	_, ok := order[s]
	return ok
}

// Before reports whether s precedes other in the narrative progression.
func (s Stage) Before(other Stage) bool {
	return order[s] < order[other]
}

// EndReason explains why a session terminated early.
type EndReason string

const (
	EndCommand    EndReason = "end_command" // explicit goodbye from the character
	EndBadChoices EndReason = "bad_choices" // accumulated bad choices
	EndKickedOut  EndReason = "kicked_out"  // forced removal
)

// Frame is a single narrative beat: one block of character speech.
// ShowChoicesAfter requests a mid-sequence choice reveal once this
// frame finishes playing.
type Frame struct {
	Text             string `json:"text"`
	ShowChoicesAfter bool   `json:"show_choices_after,omitempty"`
}

// Choice is one player option. MoodImpact is an author-supplied hint;
// free-typed input gets NextStageHint "custom" and a neutral impact.
type Choice struct {
	Text          string `json:"text"`
	NextStageHint string `json:"next_stage_hint,omitempty"`
	MoodImpact    int    `json:"mood_impact"`
}

// StageHintCustom marks a choice synthesized from free-text input.
const StageHintCustom = "custom"

// IsCustom reports whether the choice came from free-text input rather
// than an oracle-authored option.
func (c Choice) IsCustom() bool {
	return c.NextStageHint == StageHintCustom
}

// SessionInfo carries the oracle's per-turn session directives.
type SessionInfo struct {
	Stage         Stage  `json:"stage"`
	MoodLevel     int    `json:"mood_level"`
	Location      string `json:"location,omitempty"`
	Action        string `json:"action,omitempty"`
	CharacterPose string `json:"character_pose,omitempty"`
	Music         string `json:"music,omitempty"`
	CoreSummary   string `json:"core_summary,omitempty"`
}

// StoryData is one oracle response: an ordered list of frames, optional
// choices, session directives and an optional force-end signal.
type StoryData struct {
	SessionInfo      SessionInfo `json:"session_info"`
	Frames           []Frame     `json:"frames"`
	Choices          []Choice    `json:"choices,omitempty"`
	ShowChoicesAtEnd *bool       `json:"show_choices_at_end,omitempty"`
	ForceEnd         bool        `json:"force_end,omitempty"`
	EndReason        EndReason   `json:"end_reason,omitempty"`
	NextNote         string      `json:"next_note,omitempty"`
}

// Validate checks the structural invariants of an oracle response.
// Mood is clamped rather than rejected: the oracle occasionally drifts
// a point or two outside 0-100 and that is not worth aborting a turn.
func (sd *StoryData) Validate() error {
	if !sd.SessionInfo.Stage.Valid() {
		return fmt.Errorf("unknown stage %q", sd.SessionInfo.Stage)
	}
	if len(sd.Frames) == 0 {
		return fmt.Errorf("oracle response has no frames")
	}
	if sd.SessionInfo.MoodLevel < 0 {
		sd.SessionInfo.MoodLevel = 0
	}
	if sd.SessionInfo.MoodLevel > 100 {
		sd.SessionInfo.MoodLevel = 100
	}
	return nil
}

// WantsChoicesAtEnd reports whether choices should be revealed after the
// last frame. Absent the flag, the default is true.
func (sd *StoryData) WantsChoicesAtEnd() bool {
	return sd.ShowChoicesAtEnd == nil || *sd.ShowChoicesAtEnd
}

// FrameTexts returns the frame texts in playback order.
func (sd *StoryData) FrameTexts() []string {
	texts := make([]string, len(sd.Frames))
	for i, f := range sd.Frames {
		texts[i] = f.Text
	}
	return texts
}

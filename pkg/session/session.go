// Package session owns the per-game mutable state and the turn policy:
// which stage to hint to the oracle, and how to reconcile the oracle's
// answer with local safety rules.
package session

import (
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/evergarden-code/vova/pkg/story"
	"github.com/evergarden-code/vova/pkg/topics"
)

// PromptHistoryLimit caps how much transcript is sent to the oracle.
const PromptHistoryLimit = 10

// DefaultLocation is where every visit starts.
const DefaultLocation = "entrance"

// initialMood is the neutral baseline before the first oracle reply.
const initialMood = 50

// Session is the single live game instance. All turn operations thread
// through it; there is no ambient global state.
type Session struct {
	ID                  uuid.UUID             `json:"id"`
	Material            story.Material        `json:"material"`
	Stage               story.Stage           `json:"stage"`
	LastMood            int                   `json:"last_mood"`
	BadChoiceStreak     int                   `json:"bad_choice_streak"`
	RefusalToLeaveCount int                   `json:"refusal_to_leave_count"`
	CoreSummary         string                `json:"core_summary,omitempty"`
	PreviousNote        string                `json:"previous_note,omitempty"`
	PreviousEval        string                `json:"previous_evaluation,omitempty"`
	Personality         story.Personality     `json:"personality"`
	DialogueHistory     []story.DialogueEntry `json:"dialogue_history,omitempty"`
	VisitedLocations    []string              `json:"visited_locations,omitempty"`
	DiscussedTopics     []string              `json:"discussed_topics,omitempty"`
	TotalReplies        int                   `json:"total_replies"`
	TotalChoicesMade    int                   `json:"total_choices_made"`
	CurrentLocation     string                `json:"current_location"`

	// Frames from the most recent oracle response, scanned for
	// dismissal phrases before the next turn is sent.
	LastFrames []story.Frame `json:"last_frames,omitempty"`

	classifier topics.Classifier
	refusals   topics.RefusalDetector
	logger     *slog.Logger
}

// New creates a fresh session for the given material, rolling the
// character's personality for its lifetime.
func New(material story.Material, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		ID:         uuid.New(),
		Material:   material,
		classifier: topics.NewKeywordClassifier(nil),
		refusals:   topics.NewKeywordRefusalDetector(),
		logger:     logger,
	}
	s.Reset()
	s.Material = material
	s.rollPersonality()
	return s
}

// Attach restores the unexported collaborators after a snapshot of the
// session has been decoded from storage.
func (s *Session) Attach(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	s.classifier = topics.NewKeywordClassifier(nil)
	s.refusals = topics.NewKeywordRefusalDetector()
	s.logger = logger
}

// Reset returns every field to its initial empty or zero state. The
// personality is rolled again on the next New, not here.
func (s *Session) Reset() {
	s.Material = story.Material{Type: story.MaterialText}
	s.Stage = story.StageStart
	s.LastMood = initialMood
	s.BadChoiceStreak = 0
	s.RefusalToLeaveCount = 0
	s.CoreSummary = ""
	s.PreviousNote = ""
	s.PreviousEval = ""
	s.Personality = story.Personality{IQ: 100, BaseMood: story.MoodChill}
	s.DialogueHistory = nil
	s.VisitedLocations = nil
	s.DiscussedTopics = nil
	s.TotalReplies = 0
	s.TotalChoicesMade = 0
	s.CurrentLocation = DefaultLocation
	s.LastFrames = nil
}

func (s *Session) rollPersonality() {
	moods := []story.BaseMood{story.MoodGrumpy, story.MoodChill, story.MoodReflective}
	s.Personality = story.Personality{
		IQ:       60 + rand.IntN(81), // 60-140
		BaseMood: moods[rand.IntN(len(moods))],
	}
}

// RecentDialogue returns the last PromptHistoryLimit transcript entries.
func (s *Session) RecentDialogue() []story.DialogueEntry {
	if len(s.DialogueHistory) <= PromptHistoryLimit {
		return s.DialogueHistory
	}
	return s.DialogueHistory[len(s.DialogueHistory)-PromptHistoryLimit:]
}

// characterLines returns the last limit oracle-authored transcript lines.
func (s *Session) characterLines(limit int) []string {
	var lines []string
	for _, entry := range s.DialogueHistory {
		if entry.Speaker == story.SpeakerCharacter {
			lines = append(lines, entry.Text)
		}
	}
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines
}

// RecomputeTopics rebuilds the discussed-topic set from scratch out of
// the last 10 character lines plus any extra texts. Stale topics drop
// out; nothing is removed piecemeal.
func (s *Session) RecomputeTopics(extraTexts ...string) {
	lines := s.characterLines(PromptHistoryLimit)
	lines = append(lines, extraTexts...)
	s.DiscussedTopics = s.classifier.Classify(lines)
}

// HasVisited reports whether the location was ever shown this session.
func (s *Session) HasVisited(location string) bool {
	for _, loc := range s.VisitedLocations {
		if loc == location {
			return true
		}
	}
	return false
}

func (s *Session) recordVisit(location string) {
	if location == "" || s.HasVisited(location) {
		return
	}
	s.VisitedLocations = append(s.VisitedLocations, location)
}

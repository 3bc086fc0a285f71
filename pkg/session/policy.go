package session

import (
	"github.com/evergarden-code/vova/pkg/story"
)

// Thresholds for the local safety policy.
const (
	badChoiceLimit   = 3  // streak that pins the session to FINAL
	refusalLimit     = 2  // refusals to leave before a forced FINAL
	badMoodDrop      = 10 // mood fall counting as a bad choice
	badMoodFloor     = 20 // mood below which a fall counts
	minLocationsSeen = 2  // either of these two unlocks FINAL
	minChoicesMade   = 6
)

// canFinish is the anti-premature-ending guard: the oracle may only end
// the story once the player has seen enough of it. choicesMade is the
// count before the turn's own choice.
func (s *Session) canFinish(choicesMade int) bool {
	return len(s.VisitedLocations) >= minLocationsSeen || choicesMade >= minChoicesMade
}

// StageHint picks the stage to suggest to the oracle for the next turn.
// The oracle may disagree; ApplyResult reconciles afterwards.
func (s *Session) StageHint() story.Stage {
	if s.TotalReplies == 0 {
		return story.StageStart
	}

	var hint story.Stage
	switch {
	case s.BadChoiceStreak >= badChoiceLimit-1:
		// Two bad choices already: a third ends the visit, so warn
		// the oracle the end is coming.
		hint = story.StageFinal
	case s.Stage == story.StageStart:
		hint = story.StageMiddle
	case s.Stage == story.StageMiddle:
		hint = story.StageMiddle
	default:
		hint = story.StageFinal
	}

	if s.RefusalToLeaveCount >= refusalLimit {
		hint = story.StageFinal
	}
	return hint
}

// NoteRefusal checks whether the previous turn's frames asked the player
// to leave and the chosen reply refuses. Called once per turn, before
// the oracle request is built.
func (s *Session) NoteRefusal(choice story.Choice) {
	if len(s.LastFrames) == 0 {
		return
	}
	texts := make([]string, len(s.LastFrames))
	for i, f := range s.LastFrames {
		texts[i] = f.Text
	}
	if s.refusals.AskedToLeave(texts) && s.refusals.Refused(choice.Text) {
		s.RefusalToLeaveCount++
		s.logger.Info("player refused to leave",
			"refusal_count", s.RefusalToLeaveCount)
	}
}

// BuildTurnContext assembles the oracle request bundle from current
// state. It is a pure read of the session apart from the topic
// recompute, which is part of forming the request.
func (s *Session) BuildTurnContext(choice *story.Choice) story.TurnContext {
	s.RecomputeTopics()

	ctx := story.TurnContext{
		Material:         s.Material,
		TargetStage:      s.StageHint(),
		CoreSummary:      s.CoreSummary,
		BadChoiceStreak:  s.BadChoiceStreak,
		LastMood:         s.LastMood,
		TotalChoicesMade: s.TotalChoicesMade,
		RecentDialogue:   s.RecentDialogue(),
		TotalReplies:     s.TotalReplies,
		VisitedLocations: s.VisitedLocations,
		PreviousNote:     s.PreviousNote,
		DiscussedTopics:  s.DiscussedTopics,
		Personality:      s.Personality,
		RefusalCount:     s.RefusalToLeaveCount,
		PreviousEval:     s.PreviousEval,
	}
	if choice != nil {
		ctx.ChosenText = choice.Text
		ctx.IsCustomInput = choice.IsCustom()
	}
	return ctx
}

// validActionLocations is the allow-list of (action, location) pairs.
var validActionLocations = map[string]string{
	"cooking": "kitchen",
	"gaming":  "room",
	"smoking": "balcony",
}

// reconcileAction nullifies an oracle-declared action that is invalid
// for its location, or that coincides with a location change. It never
// aborts the turn.
func (s *Session) reconcileAction(info *story.SessionInfo) {
	if info.Action == "" {
		return
	}
	if want, ok := validActionLocations[info.Action]; !ok || want != info.Location {
		s.logger.Warn("invalid location/action pair, dropping action",
			"location", info.Location, "action", info.Action)
		info.Action = ""
		return
	}
	if info.Location != s.CurrentLocation {
		s.logger.Warn("action declared during location change, dropping action",
			"from", s.CurrentLocation, "to", info.Location, "action", info.Action)
		info.Action = ""
	}
}

// ApplyResult commits a validated oracle response to the session. The
// caller must have run StoryData.Validate first; nothing here fails, so
// a turn either commits completely or (on an oracle error upstream of
// this call) not at all.
//
// choice is the player input that triggered the turn, or nil for the
// opening turn.
func (s *Session) ApplyResult(choice *story.Choice, sd *story.StoryData) {
	// The ending guard judges the turn by the choices made before it.
	choicesBefore := s.TotalChoicesMade

	// Record the player's line before the oracle's reply.
	if choice != nil {
		s.DialogueHistory = append(s.DialogueHistory, story.DialogueEntry{
			Speaker: story.SpeakerPlayer,
			Text:    choice.Text,
		})
		s.TotalChoicesMade++
	}

	newMood := sd.SessionInfo.MoodLevel
	moodChange := newMood - s.LastMood
	if moodChange < -badMoodDrop && newMood < badMoodFloor {
		s.BadChoiceStreak++
	} else if moodChange > 0 {
		s.BadChoiceStreak = 0
	}

	if s.BadChoiceStreak >= badChoiceLimit {
		// Three bad choices in a row end the visit no matter what
		// stage the oracle chose.
		if sd.SessionInfo.Stage != story.StageFinal {
			s.logger.Info("bad choice streak reached limit, forcing FINAL",
				"streak", s.BadChoiceStreak, "oracle_stage", sd.SessionInfo.Stage)
			sd.SessionInfo.Stage = story.StageFinal
		}
		s.Stage = story.StageFinal
	} else if sd.SessionInfo.Stage == story.StageFinal && !s.canFinish(choicesBefore) {
		s.logger.Warn("blocking premature ending",
			"visited_locations", len(s.VisitedLocations),
			"choices_made", s.TotalChoicesMade)
		sd.SessionInfo.Stage = story.StageMiddle
		s.Stage = story.StageMiddle
	} else if !sd.SessionInfo.Stage.Before(s.Stage) {
		// Accept the oracle's stage; it never moves backwards.
		s.Stage = sd.SessionInfo.Stage
	} else {
		s.logger.Warn("oracle tried to regress stage, keeping current",
			"oracle_stage", sd.SessionInfo.Stage, "stage", s.Stage)
		sd.SessionInfo.Stage = s.Stage
	}

	s.LastMood = newMood

	// Action validity is judged against the location that was active
	// before this turn.
	s.reconcileAction(&sd.SessionInfo)
	if sd.SessionInfo.Location != "" {
		s.recordVisit(sd.SessionInfo.Location)
		s.CurrentLocation = sd.SessionInfo.Location
	}

	for _, frame := range sd.Frames {
		s.DialogueHistory = append(s.DialogueHistory, story.DialogueEntry{
			Speaker: story.SpeakerCharacter,
			Text:    frame.Text,
		})
		s.TotalReplies++
	}

	s.CoreSummary = sd.SessionInfo.CoreSummary
	s.PreviousNote = sd.NextNote
	s.PreviousEval = ""
	s.LastFrames = sd.Frames

	s.RecomputeTopics(sd.FrameTexts()...)
}

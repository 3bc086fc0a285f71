// Package sequencer plays back the ordered frames of one oracle
// response, revealing text at a configurable rate and deciding when to
// surface choices or end the session.
package sequencer

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/evergarden-code/vova/pkg/story"
)

// State is the sequencer's playback phase.
type State int

const (
	Idle State = iota
	Playing
	AwaitingChoice
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case AwaitingChoice:
		return "awaiting_choice"
	case Ended:
		return "ended"
	}
	return "unknown"
}

// ErrBusy is returned when playback is requested while a turn's frames
// are still being sequenced.
var ErrBusy = errors.New("sequencer: playback already in progress")

const (
	// DefaultRevealInterval is the per-rune typewriter delay.
	DefaultRevealInterval = 30 * time.Millisecond
	// DefaultAutoDelay is the pause before auto mode advances past a
	// fully revealed frame.
	DefaultAutoDelay = 2 * time.Second
	// maxOverrun bounds how far past the frame list playback may be
	// driven before the turn is declared runaway.
	maxOverrun = 100
	// lowMoodCutoff is the mood below which a FINAL turn hard-stops.
	lowMoodCutoff = 20
)

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// timerFactory schedules fn after d. Replaceable in tests.
type timerFactory func(d time.Duration, fn func()) Timer

type realTimer struct{ *time.Timer }

func defaultTimerFactory(d time.Duration, fn func()) Timer {
	return realTimer{time.AfterFunc(d, fn)}
}

// Config tunes a Sequencer. Zero values pick the defaults.
type Config struct {
	RevealInterval time.Duration
	AutoDelay      time.Duration
	Logger         *slog.Logger
}

// Sequencer steps through the frames of the current turn result. All
// pending timers are owned here: any transition that invalidates one
// cancels it before proceeding.
type Sequencer struct {
	mu        sync.Mutex
	presenter Presenter
	logger    *slog.Logger

	revealInterval time.Duration
	autoDelay      time.Duration
	newTimer       timerFactory

	state        State
	data         *story.StoryData
	frameIndex   int
	advances     int  // advance count for the runaway guard
	choicesShown bool // this turn's choices were already surfaced

	revealing  bool
	revealText []rune
	revealPos  int
	revealGen  uint64 // invalidates stale reveal callbacks

	auto      bool
	endReason story.EndReason

	revealTimer Timer
	autoTimer   Timer
}

// New builds a sequencer around the given presenter.
func New(p Presenter, cfg Config) *Sequencer {
	if cfg.RevealInterval <= 0 {
		cfg.RevealInterval = DefaultRevealInterval
	}
	if cfg.AutoDelay <= 0 {
		cfg.AutoDelay = DefaultAutoDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Sequencer{
		presenter:      p,
		logger:         cfg.Logger,
		revealInterval: cfg.RevealInterval,
		autoDelay:      cfg.AutoDelay,
		newTimer:       defaultTimerFactory,
	}
}

// State returns the current playback phase.
func (q *Sequencer) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// EndReason returns the reason recorded when the sequencer ended.
func (q *Sequencer) EndReason() story.EndReason {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.endReason
}

// Play starts sequencing a new turn result from Idle. Starting while a
// previous turn is still playing is rejected; starting after Ended is
// rejected until Stop resets the sequencer.
func (q *Sequencer) Play(sd *story.StoryData) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch q.state {
	case Playing, AwaitingChoice:
		return ErrBusy
	case Ended:
		return errors.New("sequencer: session has ended, reset required")
	}

	q.cancelTimersLocked()
	q.data = sd
	q.frameIndex = 0
	q.advances = 0
	q.choicesShown = false
	q.state = Playing
	q.presenter.SetScene(sd.SessionInfo)
	q.advanceLocked()
	return nil
}

// Interrupt is the player's manual input during playback: it completes
// the current reveal instantly, or advances to the next frame when the
// text is already fully shown. Interrupts during AwaitingChoice or
// after the end are no-ops.
func (q *Sequencer) Interrupt() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != Playing {
		return
	}
	q.cancelAutoLocked()
	if q.revealing {
		q.finishRevealLocked()
		return
	}
	q.advanceLocked()
}

// ChoiceSelected resumes playback after the player picks a choice. Any
// frames remaining from a mid-sequence reveal continue playing; with
// none left the sequencer returns to Idle awaiting the next turn.
func (q *Sequencer) ChoiceSelected() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != AwaitingChoice {
		return
	}
	if q.data != nil && q.frameIndex < len(q.data.Frames) {
		q.state = Playing
		q.advanceLocked()
		return
	}
	q.state = Idle
}

// SetAuto toggles unattended playback. Disabling cancels any pending
// auto-advance; enabling mid-frame schedules one if the text is fully
// revealed.
func (q *Sequencer) SetAuto(on bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.auto = on
	if !on {
		q.cancelAutoLocked()
		return
	}
	if q.state == Playing && !q.revealing {
		q.scheduleAutoLocked()
	}
}

// Auto reports whether unattended playback is enabled.
func (q *Sequencer) Auto() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.auto
}

// Stop quiesces all pending timers and returns the sequencer to Idle.
// Used on session reset and before playing a fresh turn result.
func (q *Sequencer) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.cancelTimersLocked()
	q.state = Idle
	q.data = nil
	q.frameIndex = 0
	q.advances = 0
	q.choicesShown = false
	q.revealing = false
	q.endReason = ""
}

// advanceLocked moves playback forward by one step. Callers hold q.mu.
func (q *Sequencer) advanceLocked() {
	if q.revealing || q.data == nil {
		return
	}

	q.advances++
	if q.advances > len(q.data.Frames)+maxOverrun {
		// Malformed oracle output has driven playback far past the
		// frame list; force an emergency end instead of looping.
		q.logger.Error("frame overrun limit exceeded, forcing end",
			"advances", q.advances, "frames", len(q.data.Frames))
		q.endLocked(story.EndKickedOut)
		return
	}

	if q.frameIndex >= len(q.data.Frames) {
		q.finishTurnLocked()
		return
	}

	frame := q.data.Frames[q.frameIndex]
	q.frameIndex++
	q.startRevealLocked(frame.Text)
}

// finishTurnLocked decides what follows the last frame.
func (q *Sequencer) finishTurnLocked() {
	sd := q.data
	switch {
	case sd.ForceEnd || (sd.SessionInfo.Stage == story.StageFinal && sd.SessionInfo.MoodLevel < lowMoodCutoff):
		reason := sd.EndReason
		if reason == "" {
			reason = story.EndKickedOut
		}
		q.endLocked(reason)
	case len(sd.Choices) > 0 && !q.choicesShown && sd.WantsChoicesAtEnd():
		q.choicesShown = true
		q.state = AwaitingChoice
		q.presenter.ShowChoices(sd.Choices)
	case sd.SessionInfo.Stage == story.StageFinal:
		// Normal completion, no specific reason.
		q.endLocked("")
	default:
		q.state = Idle
	}
}

func (q *Sequencer) endLocked(reason story.EndReason) {
	q.cancelTimersLocked()
	q.state = Ended
	q.endReason = reason
	q.presenter.End(reason)
}

// startRevealLocked begins the typewriter reveal of one frame.
func (q *Sequencer) startRevealLocked(text string) {
	q.cancelRevealLocked()
	q.revealing = true
	q.revealText = []rune(text)
	q.revealPos = 0
	q.revealGen++
	q.stepRevealLocked()
}

// stepRevealLocked emits the next rune and schedules the following one.
func (q *Sequencer) stepRevealLocked() {
	if q.revealPos >= len(q.revealText) {
		q.finishRevealLocked()
		return
	}
	q.revealPos++
	q.presenter.ShowText(string(q.revealText[:q.revealPos]))

	gen := q.revealGen
	q.revealTimer = q.newTimer(q.revealInterval, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if q.revealGen != gen || !q.revealing {
			return // cancelled or superseded
		}
		q.stepRevealLocked()
	})
}

// finishRevealLocked completes the current frame's text instantly and
// runs the post-frame checks.
func (q *Sequencer) finishRevealLocked() {
	q.cancelRevealLocked()
	q.revealing = false
	q.presenter.ShowText(string(q.revealText))

	// A frame may request choices immediately, before any frames
	// that follow it.
	played := q.frameIndex - 1
	if played >= 0 && played < len(q.data.Frames) {
		frame := q.data.Frames[played]
		if frame.ShowChoicesAfter && len(q.data.Choices) > 0 && !q.choicesShown {
			q.choicesShown = true
			q.state = AwaitingChoice
			q.presenter.ShowChoices(q.data.Choices)
			return
		}
	}

	if q.auto {
		q.scheduleAutoLocked()
	}
}

func (q *Sequencer) scheduleAutoLocked() {
	q.cancelAutoLocked()
	gen := q.revealGen
	q.autoTimer = q.newTimer(q.autoDelay, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if q.revealGen != gen || q.state != Playing || q.revealing {
			return // stale: a newer turn or interrupt took over
		}
		q.advanceLocked()
	})
}

func (q *Sequencer) cancelRevealLocked() {
	if q.revealTimer != nil {
		q.revealTimer.Stop()
		q.revealTimer = nil
	}
	q.revealGen++
}

func (q *Sequencer) cancelAutoLocked() {
	if q.autoTimer != nil {
		q.autoTimer.Stop()
		q.autoTimer = nil
	}
}

func (q *Sequencer) cancelTimersLocked() {
	q.cancelRevealLocked()
	q.cancelAutoLocked()
}

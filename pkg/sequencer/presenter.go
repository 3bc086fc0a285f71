package sequencer

import "github.com/evergarden-code/vova/pkg/story"

// Presenter is the presentation-adapter boundary. The sequencer decides
// what happens next; the presenter owns how it looks and sounds.
// Implementations must be cheap: calls happen under the sequencer lock.
type Presenter interface {
	// SetScene applies the turn's location, action, pose and music
	// directives before its frames play.
	SetScene(info story.SessionInfo)

	// ShowText displays the currently revealed portion of the active
	// frame's text. It is called repeatedly during the typewriter
	// reveal, ending with the full text.
	ShowText(text string)

	// ShowChoices reveals the player's options.
	ShowChoices(choices []story.Choice)

	// End terminates the session. reason is empty on a normal FINAL
	// completion.
	End(reason story.EndReason)
}

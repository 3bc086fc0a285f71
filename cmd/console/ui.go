package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/evergarden-code/vova/pkg/assets"
	"github.com/evergarden-code/vova/pkg/prompts"
	"github.com/evergarden-code/vova/pkg/sequencer"
	"github.com/evergarden-code/vova/pkg/session"
	"github.com/evergarden-code/vova/pkg/story"
)

const (
	PlaceHolderText  = "Свой вариант ответа..."
	TopicPlaceHolder = "О чём поговорить с Вовой? (пусто = просто зайти)"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config   *ConsoleConfig
	client   *http.Client
	manifest *assets.Manifest

	sess *session.Session
	seq  *sequencer.Sequencer

	// events carries presenter callbacks out of the sequencer's timer
	// goroutines into the BubbleTea loop.
	events chan tea.Msg

	storyViewport viewport.Model
	metaViewport  viewport.Model
	textarea      textarea.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool

	// Topic entry state
	showTopicModal bool

	// Quit confirmation state
	showQuitModal bool

	// Current scene and frame
	scene     story.SessionInfo
	frameText string

	// Choice state
	choices        []story.Choice
	selectedChoice int
	awaiting       bool

	// Turn state
	pendingChoice *story.Choice
	pendingStory  *story.StoryData

	// End screen state
	ended     bool
	endReason story.EndReason

	status       string
	progressTick int
}

// Presenter callbacks, delivered as messages.
type sceneMsg story.SessionInfo
type frameTextMsg string
type choicesMsg []story.Choice
type endedMsg story.EndReason

type sessionCreatedMsg struct {
	sess *session.Session
	err  error
}

type storyMsg struct {
	data *story.StoryData
	err  error
}

type sessionSavedMsg struct {
	err error
}

type progressTickMsg struct{}
type retryPlayMsg struct{}

// channelPresenter forwards sequencer callbacks onto the event channel.
// The channel is buffered generously; callbacks happen under the
// sequencer lock and must not block.
type channelPresenter struct {
	ch chan tea.Msg
}

func (p channelPresenter) SetScene(info story.SessionInfo)    { p.send(sceneMsg(info)) }
func (p channelPresenter) ShowText(text string)               { p.send(frameTextMsg(text)) }
func (p channelPresenter) ShowChoices(choices []story.Choice) { p.send(choicesMsg(choices)) }
func (p channelPresenter) End(reason story.EndReason)         { p.send(endedMsg(reason)) }

func (p channelPresenter) send(msg tea.Msg) {
	select {
	case p.ch <- msg:
	default:
		// Dropping a reveal step only skips ahead visually.
	}
}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	frameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	selectedChoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	sceneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, manifest *assets.Manifest) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = TopicPlaceHolder
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	storyVp := viewport.New(50, 20)
	metaVp := viewport.New(20, 20)

	events := make(chan tea.Msg, 256)

	return ConsoleUI{
		config:         cfg,
		client:         client,
		manifest:       manifest,
		events:         events,
		seq:            sequencer.New(channelPresenter{ch: events}, sequencer.Config{}),
		textarea:       ta,
		storyViewport:  storyVp,
		metaViewport:   metaVp,
		showTopicModal: true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForEvent())
}

// waitForEvent pumps one presenter callback into the update loop.
func (m ConsoleUI) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Sequencer events are handled in every phase, so the reveal keeps
	// running behind modals.
	switch msg := msg.(type) {
	case sceneMsg:
		m.scene = story.SessionInfo(msg)
		m.frameText = ""
		m.refreshMeta()
		return m, m.waitForEvent()

	case frameTextMsg:
		m.frameText = string(msg)
		m.refreshStory()
		return m, m.waitForEvent()

	case choicesMsg:
		m.choices = msg
		m.selectedChoice = 0
		m.awaiting = true
		m.textarea.Placeholder = PlaceHolderText
		m.refreshStory()
		return m, m.waitForEvent()

	case endedMsg:
		m.ended = true
		m.endReason = story.EndReason(msg)
		m.awaiting = false
		m.loading = false
		return m, m.waitForEvent()

	case retryPlayMsg:
		if m.pendingStory != nil && m.seq.State() == sequencer.Idle {
			sd := m.pendingStory
			m.pendingStory = nil
			if err := m.seq.Play(sd); err != nil {
				m.err = err
			}
			return m, nil
		}
		if m.pendingStory != nil {
			return m, retryPlay()
		}
		return m, nil

	case sessionSavedMsg:
		if msg.err != nil {
			m.status = "не удалось сохранить сессию"
		}
		return m, nil
	}

	if m.showTopicModal {
		return m.updateTopicModal(msg)
	}
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.ended {
		return m.updateEndScreen(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil

		case tea.KeyUp:
			if m.awaiting && m.selectedChoice > 0 {
				m.selectedChoice--
				m.refreshStory()
				return m, nil
			}

		case tea.KeyDown:
			if m.awaiting && m.selectedChoice < len(m.choices)-1 {
				m.selectedChoice++
				m.refreshStory()
				return m, nil
			}

		case tea.KeyCtrlA:
			m.seq.SetAuto(!m.seq.Auto())
			m.refreshMeta()
			return m, nil

		case tea.KeyCtrlY:
			m.copyDialogueLog()
			return m, nil

		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			if m.awaiting {
				return m.submitChoice()
			}
			// During playback Enter is the skip/advance input.
			m.seq.Interrupt()
			return m, nil
		}

	case storyMsg:
		return m.applyStory(msg)

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.refreshStory()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.storyViewport, vpCmd = m.storyViewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// submitChoice turns the current selection or free text into the next
// oracle turn.
func (m ConsoleUI) submitChoice() (tea.Model, tea.Cmd) {
	var choice story.Choice
	if input := strings.TrimSpace(m.textarea.Value()); input != "" {
		choice = story.Choice{
			Text:          input,
			NextStageHint: story.StageHintCustom,
		}
	} else {
		if len(m.choices) == 0 {
			return m, nil
		}
		choice = m.choices[m.selectedChoice]
	}

	// Choices stay around until the turn commits, so a failed request
	// can be retried.
	m.textarea.Reset()
	m.awaiting = false
	m.loading = true
	m.progressTick = 0
	m.err = nil

	m.sess.NoteRefusal(choice)
	tc := m.sess.BuildTurnContext(&choice)
	m.pendingChoice = &choice

	// Leftover frames from a mid-sequence choice keep playing while the
	// oracle thinks.
	m.seq.ChoiceSelected()
	m.refreshStory()

	return m, tea.Batch(m.requestStory(tc), progressTick())
}

// applyStory commits an oracle response and hands it to the sequencer.
func (m ConsoleUI) applyStory(msg storyMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.err = msg.err
		m.awaiting = len(m.choices) > 0
		m.refreshStory()
		return m, nil
	}

	m.sess.ApplyResult(m.pendingChoice, msg.data)
	m.pendingChoice = nil
	m.choices = nil
	m.refreshMeta()

	cmds := []tea.Cmd{m.persistSession()}
	if m.seq.State() == sequencer.Idle {
		if err := m.seq.Play(msg.data); err != nil {
			m.err = err
		}
	} else {
		m.pendingStory = msg.data
		cmds = append(cmds, retryPlay())
	}
	return m, tea.Batch(cmds...)
}

func (m ConsoleUI) requestStory(tc story.TurnContext) tea.Cmd {
	return func() tea.Msg {
		sd, err := generateStory(m.client, m.config.APIBaseURL, tc)
		return storyMsg{sd, err}
	}
}

func (m ConsoleUI) persistSession() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		return sessionSavedMsg{saveSession(m.client, m.config.APIBaseURL, sess)}
	}
}

func (m *ConsoleUI) copyDialogueLog() {
	if m.sess == nil || len(m.sess.DialogueHistory) == 0 {
		return
	}
	var b strings.Builder
	for _, entry := range m.sess.DialogueHistory {
		fmt.Fprintf(&b, "%s: %s\n", entry.Speaker, entry.Text)
	}
	if err := clipboard.WriteAll(b.String()); err != nil {
		m.status = "буфер обмена недоступен"
		return
	}
	m.status = "диалог скопирован в буфер обмена"
}

func (m *ConsoleUI) resize(width, height int) {
	m.width = width
	m.height = height

	storyWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - storyWidth - 6

	m.storyViewport.Width = storyWidth - 2
	m.storyViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(storyWidth - 4)

	m.ready = true
	m.refreshStory()
	m.refreshMeta()
}

// refreshStory rebuilds the main panel: scene line, current frame text,
// choices and transient status.
func (m *ConsoleUI) refreshStory() {
	if !m.ready {
		return
	}
	width := m.storyViewport.Width - 4
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("В ГОСТЯХ У ВОВЫ") + "\n\n")
	content.WriteString(m.renderSceneLine() + "\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	if m.frameText != "" {
		content.WriteString(speakerStyle.Render(story.SpeakerCharacter+": ") +
			frameStyle.Render(wordwrap.String(m.frameText, width)) + "\n\n")
	}

	if m.awaiting {
		content.WriteString(promptStyle.Render("Выбери ответ (↑/↓, Enter) или напиши свой:") + "\n")
		for i, c := range m.choices {
			line := fmt.Sprintf("  %s", c.Text)
			if i == m.selectedChoice {
				line = fmt.Sprintf("▶ %s", c.Text)
				content.WriteString(selectedChoiceStyle.Render(wordwrap.String(line, width)) + "\n")
				continue
			}
			content.WriteString(choiceStyle.Render(wordwrap.String(line, width)) + "\n")
		}
		content.WriteString("\n")
	}

	if m.loading {
		content.WriteString(loadingStyle.Render("Вова думает...") + "\n")
		content.WriteString(m.renderProgressBar(width) + "\n")
	}

	if m.err != nil {
		content.WriteString(errorStyle.Render("Ошибка: "+m.err.Error()) + "\n")
	}
	if m.status != "" {
		content.WriteString(promptStyle.Render(m.status) + "\n")
	}

	m.storyViewport.SetContent(content.String())
	m.storyViewport.GotoBottom()
}

func (m *ConsoleUI) renderSceneLine() string {
	loc := m.scene.Location
	if loc == "" {
		loc = session.DefaultLocation
	}
	line := fmt.Sprintf("Локация: %s [%s]", loc, m.manifest.Background(loc))
	if m.scene.Action != "" {
		if file, ok := m.manifest.EventScene(loc, m.scene.Action); ok {
			line += fmt.Sprintf("  Действие: %s [%s]", m.scene.Action, file)
		} else {
			line += fmt.Sprintf("  Действие: %s", m.scene.Action)
		}
	}
	if m.scene.CharacterPose != "" {
		line += fmt.Sprintf("  Поза: %s [%s]", m.scene.CharacterPose, m.manifest.PoseSprite(m.scene.CharacterPose))
	}
	if m.scene.Music != "" {
		line += fmt.Sprintf("  ♪ %s", m.manifest.Track(m.scene.Music))
	}
	return sceneStyle.Render(line)
}

func (m *ConsoleUI) refreshMeta() {
	if !m.ready || m.sess == nil {
		return
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("СЕССИЯ") + "\n\n")
	content.WriteString("ID:\n" + m.sess.ID.String()[:8] + "...\n\n")
	content.WriteString(fmt.Sprintf("Стадия: %s\n", m.sess.Stage))
	content.WriteString(fmt.Sprintf("Настроение: %d/100\n", m.sess.LastMood))
	content.WriteString(fmt.Sprintf("IQ: %d (%s)\n\n", m.sess.Personality.IQ, m.sess.Personality.BaseMood))
	content.WriteString(fmt.Sprintf("Реплик: %d\n", m.sess.TotalReplies))
	content.WriteString(fmt.Sprintf("Выборов: %d\n", m.sess.TotalChoicesMade))
	if m.sess.BadChoiceStreak > 0 {
		content.WriteString(fmt.Sprintf("Неудачных подряд: %d\n", m.sess.BadChoiceStreak))
	}
	if m.sess.RefusalToLeaveCount > 0 {
		content.WriteString(fmt.Sprintf("Отказов уйти: %d\n", m.sess.RefusalToLeaveCount))
	}
	content.WriteString("\n")

	if len(m.sess.VisitedLocations) > 0 {
		content.WriteString("Где были:\n")
		for _, loc := range m.sess.VisitedLocations {
			content.WriteString("• " + loc + "\n")
		}
		content.WriteString("\n")
	}
	if len(m.sess.DiscussedTopics) > 0 {
		content.WriteString("Обсудили:\n")
		for _, topic := range m.sess.DiscussedTopics {
			content.WriteString("• " + topic + "\n")
		}
		content.WriteString("\n")
	}

	auto := "выкл"
	if m.seq.Auto() {
		auto = "вкл"
	}
	content.WriteString(fmt.Sprintf("Авторежим: %s\n\n", auto))

	content.WriteString("Клавиши:\n")
	content.WriteString("• Enter: дальше/выбор\n")
	content.WriteString("• ↑/↓: по вариантам\n")
	content.WriteString("• Ctrl+A: авторежим\n")
	content.WriteString("• Ctrl+Y: копировать лог\n")
	content.WriteString("• Ctrl+C: выход\n")

	m.metaViewport.SetContent(content.String())
}

func (m ConsoleUI) updateTopicModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case sessionCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.sess = msg.sess
		m.showTopicModal = false
		m.err = nil
		m.refreshMeta()

		// Opening turn: no player choice yet.
		m.loading = true
		m.progressTick = 0
		tc := m.sess.BuildTurnContext(nil)
		m.pendingChoice = nil
		return m, tea.Batch(m.requestStory(tc), progressTick(), textarea.Blink)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			topic := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			m.loading = true
			m.err = nil
			return m, m.startSession(topic)
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m ConsoleUI) startSession(topic string) tea.Cmd {
	return func() tea.Msg {
		s, err := createSession(m.client, m.config.APIBaseURL, topic)
		return sessionCreatedMsg{s, err}
	}
}

func (m ConsoleUI) updateEndScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlN:
			return m.newVisit()
		}
	}
	return m, nil
}

// newVisit tears the finished session down and returns to topic entry.
func (m ConsoleUI) newVisit() (tea.Model, tea.Cmd) {
	m.seq.Stop()
	old := m.sess
	m.sess = nil
	m.ended = false
	m.endReason = ""
	m.frameText = ""
	m.scene = story.SessionInfo{}
	m.choices = nil
	m.awaiting = false
	m.pendingStory = nil
	m.pendingChoice = nil
	m.err = nil
	m.status = ""
	m.showTopicModal = true
	m.textarea.Reset()
	m.textarea.Placeholder = TopicPlaceHolder
	m.textarea.Focus()

	cleanup := func() tea.Msg {
		if old != nil {
			_ = deleteSession(m.client, m.config.APIBaseURL, old.ID)
		}
		return nil
	}
	return m, tea.Batch(cleanup, textarea.Blink)
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}
	return m, nil
}

func (m ConsoleUI) renderTopicModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("В ГОСТЯХ У ВОВЫ"))
	content.WriteString("\n\n")
	if m.loading {
		content.WriteString(loadingStyle.Render("Вова готовится к разговору..."))
	} else {
		content.WriteString("Принеси Вове тему для разговора или зайди просто так.\n\n")
		content.WriteString(m.textarea.View())
		content.WriteString("\n\n")
		content.WriteString(promptStyle.Render("Enter — начать визит, Ctrl+C — выход"))
	}
	if m.err != nil {
		content.WriteString("\n\n" + errorStyle.Render("Ошибка: "+m.err.Error()))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Уйти от Вовы?"))
	content.WriteString("\n\n")
	content.WriteString("Визит не закончен. Точно выйти?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Y — выйти, N — остаться"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderEndScreen() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("*.*.*.*.*.*. КОНЕЦ .*.*.*.*.*.*"))
	content.WriteString("\n\n")
	content.WriteString(prompts.EndMessage(m.endReason))
	content.WriteString("\n\n")
	if m.sess != nil {
		content.WriteString(fmt.Sprintf("Реплик Вовы: %d\n", m.sess.TotalReplies))
		content.WriteString(fmt.Sprintf("Твоих выборов: %d\n", m.sess.TotalChoicesMade))
		content.WriteString(fmt.Sprintf("Локаций посещено: %d\n", len(m.sess.VisitedLocations)))
	}
	content.WriteString("\n")
	content.WriteString(promptStyle.Render("Ctrl+N — новый визит, Ctrl+C — выход"))

	modal := modalStyle.Width(56).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showTopicModal {
		return m.renderTopicModal()
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.ended {
		return m.renderEndScreen()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	storyWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - storyWidth - 6

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.storyViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", storyWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}

// renderProgressBar draws the animated wait bar under the loading line.
func (m ConsoleUI) renderProgressBar(width int) string {
	if width > 60 {
		width = 60
	} else if width < 10 {
		width = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * width) / totalFrames

	var bar strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

func retryPlay() tea.Cmd {
	return tea.Tick(time.Millisecond*150, func(time.Time) tea.Msg {
		return retryPlayMsg{}
	})
}

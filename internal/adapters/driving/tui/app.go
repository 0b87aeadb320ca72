package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lore-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/lore-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/lore-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/lore-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lore-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/lore-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driving"
)

// Mode selects what Enter does with the typed text.
type Mode int

const (
	// ModeRetrieve returns ranked chunks.
	ModeRetrieve Mode = iota

	// ModeAsk runs the full retrieve-then-generate pipeline.
	ModeAsk
)

// String returns the mode badge text.
func (m Mode) String() string {
	if m == ModeAsk {
		return "ask"
	}
	return "retrieve"
}

// App is the interactive corpus console following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for service calls.
	ctx context.Context

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	// mode is what Enter does: retrieve or ask.
	mode Mode

	// answer holds the last generated answer in ask mode.
	answer *domain.Answer

	// err holds the last error that occurred.
	err error

	// busy blocks re-submission while a query is in flight.
	busy bool

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first WindowSizeMsg has arrived.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new console with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating console: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	bar := status.NewBar(s, km)
	bar.SetMode(ModeRetrieve.String())

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		input:     input.NewQueryInput(s),
		list:      list.NewResultList(s),
		statusbar: bar,
		mode:      ModeRetrieve,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithModelInfo sets the provider and model shown in the status bar.
func (a *App) WithModelInfo(provider, model string) *App {
	info := provider
	if model != "" {
		info += "/" + model
	}
	a.statusbar.SetModelInfo(info)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.input.Init(),
		a.loadStatus(),
		tea.SetWindowTitle("lore - corpus console"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.QueryCompleted:
		a.busy = false
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.answer = nil
		a.list.SetMatches(msg.Matches)
		a.statusbar.SetState(status.StateResults)
		a.statusbar.SetResultCount(len(msg.Matches))
		return a, nil

	case messages.AnswerCompleted:
		a.busy = false
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.err = nil
		answer := msg.Answer
		a.answer = &answer
		a.list.SetMatches(nil)
		a.statusbar.SetState(status.StateResults)
		a.statusbar.SetResultCount(len(answer.UsedChunkIDs))
		return a, nil

	case messages.StatusLoaded:
		if msg.Err == nil {
			a.statusbar.SetCorpus(fmt.Sprintf(
				"%d artifacts | %d records", msg.Status.ArtifactCount, msg.Status.RecordCount,
			))
		}
		return a, nil
	}

	// Forward everything else to the input (cursor blink and friends).
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKey processes keyboard input.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		return a, a.submit()
	case tea.KeyTab:
		a.toggleMode()
		return a, nil
	case tea.KeyEsc:
		a.clear()
		return a, nil
	case tea.KeyUp:
		a.list.MoveUp()
		return a, nil
	case tea.KeyDown:
		a.list.MoveDown()
		return a, nil
	}

	// Quit only fires on an empty input so the letter stays typeable.
	if a.input.Value() == "" && keymap.Matches(msg.String(), a.keymap.Quit) {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit runs the typed text through the active mode.
func (a *App) submit() tea.Cmd {
	text := strings.TrimSpace(a.input.Value())
	if text == "" || a.busy {
		return nil
	}

	a.busy = true
	a.statusbar.SetState(status.StateWorking)

	if a.mode == ModeAsk {
		return a.performAsk(text)
	}
	return a.performQuery(text)
}

// performQuery retrieves ranked chunks for the text.
func (a *App) performQuery(text string) tea.Cmd {
	return func() tea.Msg {
		matches, err := a.ports.RAG.Query(a.ctx, text, 0)
		return messages.QueryCompleted{Matches: matches, Err: err}
	}
}

// performAsk runs the retrieve-then-generate pipeline.
func (a *App) performAsk(question string) tea.Cmd {
	return func() tea.Msg {
		if a.ports.Answer == nil {
			return messages.AnswerCompleted{Err: ErrNoAnswerService}
		}

		answer, err := a.ports.Answer.Answer(a.ctx, question, driving.AnswerOptions{})
		return messages.AnswerCompleted{Answer: answer, Err: err}
	}
}

// loadStatus fetches corpus statistics for the status bar.
func (a *App) loadStatus() tea.Cmd {
	return func() tea.Msg {
		st, err := a.ports.RAG.Status(a.ctx)
		return messages.StatusLoaded{Status: st, Err: err}
	}
}

// toggleMode switches between retrieve and ask mode.
func (a *App) toggleMode() {
	if a.mode == ModeRetrieve {
		a.mode = ModeAsk
		a.input.SetLabel("Ask: ")
	} else {
		a.mode = ModeRetrieve
		a.input.SetLabel("Query: ")
	}
	a.statusbar.SetMode(a.mode.String())
}

// clear resets the input, the results and the error state.
func (a *App) clear() {
	a.input.SetValue("")
	a.list.SetMatches(nil)
	a.answer = nil
	a.err = nil
	a.statusbar.Clear()
}

// setError records an error and surfaces it in the status bar.
func (a *App) setError(err error) {
	a.err = err
	a.statusbar.SetState(status.StateError)
	a.statusbar.SetMessage(err.Error())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	header := a.styles.Title.Render("lore console")
	sections = append(sections, header, "")

	sections = append(sections, a.input.View(), "")

	if a.err != nil {
		sections = append(sections, a.styles.Error.Render("Error: "+a.err.Error()), "")
	}

	if a.answer != nil {
		sections = append(sections, a.renderAnswer())
	} else {
		sections = append(sections, a.list.View())
	}

	sections = append(sections, "", a.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderAnswer renders the generated answer with its provenance.
func (a *App) renderAnswer() string {
	lines := []string{
		a.styles.Subtitle.Render("Answer"),
		"",
		a.styles.Normal.Render(a.answer.Text),
	}

	if len(a.answer.UsedChunkIDs) > 0 {
		lines = append(lines, "", a.styles.Muted.Render("Sources: "+strings.Join(a.answer.UsedChunkIDs, ", ")))
	}
	if a.answer.Model != "" {
		lines = append(lines, a.styles.Muted.Render("Model:   "+a.answer.Model))
	}

	return a.styles.Border.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.input.SetWidth(width)
	a.list.SetDimensions(width, height-10) // Reserve space for header, input, status
	a.statusbar.SetWidth(width)
}

// Query returns the current input text.
func (a *App) Query() string {
	return a.input.Value()
}

// Matches returns the current retrieval matches.
func (a *App) Matches() []domain.ChunkMatch {
	return a.list.Matches()
}

// SelectedIndex returns the currently selected match index.
func (a *App) SelectedIndex() int {
	return a.list.Selected()
}

// Answer returns the last generated answer, or nil.
func (a *App) Answer() *domain.Answer {
	return a.answer
}

// Mode returns the active mode.
func (a *App) Mode() Mode {
	return a.mode
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

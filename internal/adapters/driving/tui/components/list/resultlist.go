// Package list provides the match list component for the console.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lore-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lore-cli/internal/core/domain"
)

// ResultList displays retrieval matches in a navigable list.
type ResultList struct {
	matches  []domain.ChunkMatch
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		matches:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
			// Other keys belong to the input
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.matches) == 0 {
		return r.styles.Muted.Render("No matches")
	}

	lines := make([]string, 0, len(r.matches)*2+2)

	header := r.styles.Subtitle.Render(fmt.Sprintf("Matches (%d)", len(r.matches)))
	lines = append(lines, header, "")

	// Each match takes two lines (source + preview), plus the header.
	visibleCount := (r.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.matches) {
		end = len(r.matches)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderMatch(i, &r.matches[i]))
	}

	return strings.Join(lines, "\n")
}

// renderMatch formats a single match as source line plus preview.
func (r *ResultList) renderMatch(index int, match *domain.ChunkMatch) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	source := match.ArtifactID
	if source == "" {
		source = match.ChunkID
	}

	maxSourceLen := r.width - 14
	if maxSourceLen < 10 {
		maxSourceLen = 10
	}
	if len(source) > maxSourceLen {
		source = source[:maxSourceLen-3] + "..."
	}

	score := fmt.Sprintf("%.4f", match.Score)

	var sourceLine string
	if index == r.selected {
		sourceLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxSourceLen, source, score))
	} else {
		sourceLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxSourceLen, source)) +
			r.styles.Muted.Render(score)
	}

	// Preview is the first line of the chunk, truncated to fit.
	preview := match.Content
	if idx := strings.IndexByte(preview, '\n'); idx >= 0 {
		preview = preview[:idx]
	}

	maxPreviewLen := r.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	if len(preview) > maxPreviewLen {
		preview = preview[:maxPreviewLen-3] + "..."
	}

	previewLine := r.styles.Muted.Render("    " + preview)

	return sourceLine + "\n" + previewLine
}

// SetMatches updates the match list and resets the selection.
func (r *ResultList) SetMatches(matches []domain.ChunkMatch) {
	r.matches = matches
	r.selected = 0
}

// Matches returns the current matches.
func (r *ResultList) Matches() []domain.ChunkMatch {
	return r.matches
}

// Selected returns the index of the selected match.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.matches) {
		r.selected = index
	}
}

// SelectedMatch returns the currently selected match, or nil if none.
func (r *ResultList) SelectedMatch() *domain.ChunkMatch {
	if len(r.matches) == 0 || r.selected < 0 || r.selected >= len(r.matches) {
		return nil
	}
	return &r.matches[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.matches)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of matches.
func (r *ResultList) Count() int {
	return len(r.matches)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.matches) == 0
}

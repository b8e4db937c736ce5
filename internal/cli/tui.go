package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	pkgio "github.com/matzehuels/stackdiagram/pkg/io"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// ManifestPickerModel - Interactive manifest selection
// =============================================================================

// manifestEntry is one row of the picker.
type manifestEntry struct {
	Path     string
	Syntax   pkgio.Syntax
	Size     int64
	Modified time.Time
}

func newManifestEntries(paths []string) []manifestEntry {
	entries := make([]manifestEntry, 0, len(paths))
	for _, p := range paths {
		e := manifestEntry{Path: p}
		e.Syntax, _ = pkgio.SyntaxForPath(p)
		if fi, err := os.Stat(p); err == nil {
			e.Size = fi.Size()
			e.Modified = fi.ModTime()
		}
		entries = append(entries, e)
	}
	return entries
}

// ManifestPickerModel is the bubbletea model for choosing one manifest out
// of a directory.
type ManifestPickerModel struct {
	Entries  []manifestEntry
	Cursor   int
	Selected string
	Height   int
	Offset   int
	now      func() time.Time
}

// NewManifestPickerModel creates a picker over paths.
func NewManifestPickerModel(paths []string) ManifestPickerModel {
	return ManifestPickerModel{
		Entries: newManifestEntries(paths),
		Height:  15,
		now:     time.Now,
	}
}

func (m ManifestPickerModel) Init() tea.Cmd {
	return nil
}

func (m ManifestPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Entries) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Entries[m.Cursor].Path
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ManifestPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Manifest"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))

	now := time.Now
	if m.now != nil {
		now = m.now
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			filepath.Base(e.Path),
			string(e.Syntax),
			formatSize(e.Size),
			formatRelativeTime(e.Modified, now()),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Manifest", "Syntax", "Size", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle()
			if col >= 2 {
				base = base.Foreground(colorDim)
			}
			if m.Offset+row == m.Cursor {
				if col < 2 {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Foreground(colorGray).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// pickManifest lets the user choose one of paths. It returns
// context.Canceled when the picker is quit without a selection.
func pickManifest(ctx context.Context, paths []string) (string, error) {
	final, err := tea.NewProgram(NewManifestPickerModel(paths), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	picked := final.(ManifestPickerModel).Selected
	if picked == "" {
		return "", context.Canceled
	}
	return picked, nil
}

// =============================================================================
// Helpers
// =============================================================================

func formatSize(n int64) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	}
}

func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

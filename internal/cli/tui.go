package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/packforge/atlaspack/pkg/descriptor"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// recordRow is one flattened (texture, record) pair for display.
type recordRow struct {
	Texture string
	Record  descriptor.Record
}

// =============================================================================
// RecordListModel - Interactive descriptor browsing
// =============================================================================

// RecordListModel is the bubbletea model for browsing sprite records.
type RecordListModel struct {
	Rows   []recordRow
	Cursor int
	Height int
	Offset int
}

// NewRecordListModel creates a record browser over every texture in doc.
func NewRecordListModel(doc descriptor.Document) RecordListModel {
	var rows []recordRow
	for _, tex := range doc.Textures {
		for _, rec := range tex.Images {
			rows = append(rows, recordRow{Texture: tex.Name, Record: rec})
		}
	}
	return RecordListModel{
		Rows:   rows,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m RecordListModel) Init() tea.Cmd {
	return nil
}

func (m RecordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RecordListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Atlas Records"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rotated := ""
		if r.Record.Rotated {
			rotated = "✓"
		}

		frame := "—"
		if r.Record.FrameX != 0 || r.Record.FrameY != 0 {
			frame = fmt.Sprintf("%dx%d (%d,%d)", r.Record.FrameW, r.Record.FrameH, r.Record.FrameX, r.Record.FrameY)
		}

		rows = append(rows, []string{
			cursor,
			r.Record.Name,
			r.Texture,
			fmt.Sprintf("(%d,%d)", r.Record.X, r.Record.Y),
			fmt.Sprintf("%dx%d", r.Record.W, r.Record.H),
			rotated,
			frame,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Sprite", "Texture", "Position", "Size", "Rot", "Frame").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d/%d records", m.Cursor+1, len(m.Rows))))
	b.WriteString("\n")

	return b.String()
}

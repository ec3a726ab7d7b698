package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/greatlse/openchemlib/pkg/molfile"
)

var listHeaderStyle = styleMuted.Bold(true)

const maxTitleWidth = 32

// =============================================================================
// RecordListModel - Interactive SD record selection
// =============================================================================

// RecordListModel is the bubbletea model for picking one record of an SD
// file. Records without atoms are shown dimmed and cannot be selected.
type RecordListModel struct {
	Records  []*molfile.Record
	Cursor   int
	Selected int // index of the chosen record, -1 until enter is pressed
	Height   int
	Offset   int
}

// NewRecordListModel creates a new record list model.
func NewRecordListModel(records []*molfile.Record) RecordListModel {
	return RecordListModel{
		Records:  records,
		Selected: -1,
		Height:   15,
	}
}

func (m RecordListModel) Init() tea.Cmd {
	return nil
}

func (m RecordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "pgup":
			m.moveTo(m.Cursor - m.Height)
		case "pgdown":
			m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.Records) - 1)
		case "enter":
			if len(m.Records) == 0 || m.Records[m.Cursor].Molecule.AllAtoms() == 0 {
				return m, nil
			}
			m.Selected = m.Cursor
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor on record i, clamped to the list, and scrolls
// so that it stays visible.
func (m *RecordListModel) moveTo(i int) {
	m.Cursor = max(0, min(i, len(m.Records)-1))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m RecordListModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Select Record"))
	b.WriteString("\n")
	b.WriteString(styleFaint.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Records))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Records[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mol := r.Molecule
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", i+1),
			truncateTitle(r.Title()),
			fmt.Sprintf("%d", mol.Atoms()),
			fmt.Sprintf("%d", mol.Bonds()),
			dataSummary(r),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleFaint).
		Headers("", "#", "Title", "Atoms", "Bonds", "Data").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Records) {
				return lipgloss.NewStyle()
			}
			empty := m.Records[idx].Molecule.AllAtoms() == 0
			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorMuted)
			}
			switch {
			case empty:
				return base.Foreground(colorFaint)
			case idx == m.Cursor:
				return base.Foreground(colorOK).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(styleFaint.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Records))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func truncateTitle(s string) string {
	if s == "" {
		return "—"
	}
	r := []rune(s)
	if len(r) > maxTitleWidth {
		return string(r[:maxTitleWidth-1]) + "…"
	}
	return s
}

// dataSummary shows the first data item and how many follow it.
func dataSummary(r *molfile.Record) string {
	switch len(r.Data) {
	case 0:
		return "—"
	case 1:
		return r.Data[0].Name + "=" + truncateTitle(r.Data[0].Value)
	}
	return fmt.Sprintf("%s=%s +%d", r.Data[0].Name, truncateTitle(r.Data[0].Value), len(r.Data)-1)
}

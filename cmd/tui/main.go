package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/KS-Adharshini/BioIntel/internal/mutation"
	"github.com/KS-Adharshini/BioIntel/internal/report"
)

// Colors for modern design
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	surfaceColor   = lipgloss.Color("#1F2937") // Dark gray
	textColor      = lipgloss.Color("#F3F4F6") // Light gray
	mutedColor     = lipgloss.Color("#9CA3AF") // Muted gray
	borderColor    = lipgloss.Color("#374151") // Border gray
)

// Styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Align(lipgloss.Center)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	sequenceStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(lipgloss.Color("#111827")).
			Padding(1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	gcHighStyle = lipgloss.NewStyle().Foreground(secondaryColor).Bold(true)
	gcLowStyle  = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(mutedColor)
)

// analysisRecord mirrors one entry of the analysis.json written by the
// pipeline command.
type analysisRecord struct {
	report.Summary
	Mutations []mutation.Mutation `json:"mutations"`
}

type listItem struct {
	record analysisRecord
}

func (i listItem) FilterValue() string {
	return i.record.Filename
}

func (i listItem) Title() string {
	return i.record.Filename
}

func (i listItem) Description() string {
	// Metadata line shown below the title in the selector list
	gc := fmt.Sprintf("GC: %.1f%%", i.record.GCContent)
	var gcRendered string
	if i.record.GCContent >= 50 {
		gcRendered = gcHighStyle.Render(gc)
	} else {
		gcRendered = gcLowStyle.Render(gc)
	}
	return fmt.Sprintf("%s    Length: %d    Mutations: %d", gcRendered, i.record.Length, len(i.record.Mutations))
}

type mode int

const (
	modeComposition mode = iota
	modeSequence
	modeMutations
)

func (m mode) String() string {
	switch m {
	case modeComposition:
		return "📊 Composition"
	case modeSequence:
		return "🧬 Sequence"
	case modeMutations:
		return "🧪 Mutations"
	default:
		return "Unknown"
	}
}

type model struct {
	list          list.Model
	records       []analysisRecord
	currentMode   mode
	showHelp      bool
	width         int
	height        int
	totalRecords  int
	selectedIndex int
}

func loadRecords(path string) ([]analysisRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []analysisRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func initialModel(records []analysisRecord) model {
	items := make([]list.Item, len(records))
	for i, record := range records {
		items[i] = listItem{record: record}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Analyzed Samples"
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)

	return model{
		list:         l,
		records:      records,
		currentMode:  modeComposition,
		totalRecords: len(records),
	}
}

func (m model) cycleMode() model {
	m.currentMode = (m.currentMode + 1) % 3
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Left panel takes 1/3 of the width
		listWidth := msg.Width / 3
		listHeight := msg.Height - 4 // Account for borders and status

		m.list.SetWidth(listWidth)
		m.list.SetHeight(listHeight)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "h":
			m.showHelp = !m.showHelp
			return m, nil

		case "tab":
			return m.cycleMode(), nil

		case "1":
			m.currentMode = modeComposition
			return m, nil

		case "2":
			m.currentMode = modeSequence
			return m, nil

		case "3":
			m.currentMode = modeMutations
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectedIndex = m.list.Index()
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelpModal()
	}

	leftPanel := m.renderLeftPanel()
	rightPanel := m.renderRightPanel()
	statusBar := m.renderStatusBar()

	main := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanel,
		rightPanel,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		main,
		statusBar,
	)
}

func (m model) renderLeftPanel() string {
	listWidth := m.width / 3

	return containerStyle.
		Width(listWidth - 2). // Account for padding
		Height(m.height - 4). // Account for status bar
		Render(m.list.View())
}

func (m model) renderRightPanel() string {
	rightWidth := (m.width * 2) / 3

	if len(m.records) == 0 {
		return containerStyle.
			Width(rightWidth - 2).
			Height(m.height - 4).
			Render("No records available")
	}

	selectedItem := m.list.SelectedItem()
	if selectedItem == nil {
		return containerStyle.
			Width(rightWidth - 2).
			Height(m.height - 4).
			Render("No item selected")
	}

	record := selectedItem.(listItem).record

	lines := m.buildRightLines(record)
	panelContent := lipgloss.JoinVertical(lipgloss.Left, lines...)

	return containerStyle.
		Width(rightWidth - 2).
		Height(m.height - 4).
		Render(panelContent)
}

// buildRightLines assembles the right-panel content for the selected record
// in the current view mode.
func (m model) buildRightLines(record analysisRecord) []string {
	header := titleStyle.Render(record.Filename)

	gc := fmt.Sprintf("GC: %.1f%%", record.GCContent)
	var gcColored string
	if record.GCContent >= 50 {
		gcColored = gcHighStyle.Render(gc)
	} else {
		gcColored = gcLowStyle.Render(gc)
	}
	metaStr := labelStyle.Render("Length: ") + fmt.Sprintf("%d", record.Length) +
		labelStyle.Render("    ") + gcColored +
		labelStyle.Render("    Mutations: ") + fmt.Sprintf("%d", len(record.Mutations))

	var content string
	switch m.currentMode {
	case modeComposition:
		content = m.formatComposition(record)
	case modeSequence:
		content = m.formatSequence(record.Sequence, "Sequence")
	case modeMutations:
		content = m.formatMutations(record.Mutations)
	}

	return []string{header, metaStr, "", content}
}

func (m model) formatComposition(record analysisRecord) string {
	titleStr := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		Render("Base Composition:")

	rows := []struct {
		name  string
		count int
	}{
		{"A", record.ACount},
		{"C", record.CCount},
		{"G", record.GCount},
		{"T", record.TCount},
		{"N", record.NCount},
	}

	var b strings.Builder
	for _, row := range rows {
		pct := 0.0
		if record.Length > 0 {
			pct = float64(row.count) / float64(record.Length) * 100
		}
		bar := strings.Repeat("█", int(pct/2))
		fmt.Fprintf(&b, "%s  %6d  %5.1f%%  %s\n", row.name, row.count, pct, bar)
	}
	fmt.Fprintf(&b, "\nGC content: %.1f%%", record.GCContent)

	body := sequenceStyle.
		Width(m.width*2/3 - 6). // Account for padding and borders
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, titleStr, "", body)
}

func (m model) formatSequence(sequence, title string) string {
	if sequence == "" {
		return labelStyle.Render(fmt.Sprintf("No %s available", strings.ToLower(title)))
	}

	cleanSequence := strings.ReplaceAll(sequence, "\n", "")
	cleanSequence = strings.ReplaceAll(cleanSequence, "\r", "")

	titleStr := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		Render(title + ":")

	sequenceContent := sequenceStyle.
		Width(m.width*2/3 - 6). // Account for padding and borders
		Render(cleanSequence)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStr,
		"",
		sequenceContent,
	)
}

func (m model) formatMutations(muts []mutation.Mutation) string {
	titleStr := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		Render("Simulated Mutations:")

	if len(muts) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, titleStr, "", labelStyle.Render("No mutations called"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %-5s %-5s %s\n", "Position", "Ref", "Alt", "Type")
	for _, mut := range muts {
		fmt.Fprintf(&b, "%-10d %-5s %-5s %s\n", mut.Position, mut.Ref, mut.Alt, mut.Type)
	}

	body := sequenceStyle.
		Width(m.width*2/3 - 6).
		Render(strings.TrimRight(b.String(), "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, titleStr, "", body)
}

func (m model) renderStatusBar() string {
	leftInfo := fmt.Sprintf("📊 %d/%d samples", m.selectedIndex+1, m.totalRecords)
	centerInfo := fmt.Sprintf("Mode: %s", m.currentMode.String())
	rightInfo := "Press 'h' for help • 'q' to quit"

	totalUsed := len(leftInfo) + len(centerInfo) + len(rightInfo)
	spacing := m.width - totalUsed - 6 // Account for padding

	var statusContent string
	if spacing > 0 {
		leftSpacing := spacing / 2
		rightSpacing := spacing - leftSpacing

		statusContent = fmt.Sprintf("%s%s%s%s%s",
			leftInfo,
			strings.Repeat(" ", leftSpacing),
			centerInfo,
			strings.Repeat(" ", rightSpacing),
			rightInfo,
		)
	} else {
		// Fallback for narrow terminals
		statusContent = fmt.Sprintf("%s | %s", leftInfo, centerInfo)
	}

	return statusBarStyle.
		Width(m.width).
		Render(statusContent)
}

func (m model) renderHelpModal() string {
	helpContent := `🧬 Sample Browser - Help

Navigation:
  ↑/↓, j/k     Navigate list
  /            Filter samples
  Enter        Select sample

View Modes:
  1            Show base composition
  2            Show sequence
  3            Show mutation calls
  Tab          Cycle view modes

General:
  h            Toggle this help
  q, Ctrl+C    Quit application

Current Mode: ` + m.currentMode.String() + `
Total Samples: ` + fmt.Sprintf("%d", m.totalRecords) + `
`

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(surfaceColor).
		Foreground(textColor).
		Width(60).
		Align(lipgloss.Center)

	modal := modalStyle.Render(helpContent)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}

func main() {
	path := flag.String("data", "analysis.json", "path to the pipeline's analysis JSON")
	flag.Parse()

	records, err := loadRecords(*path)
	if err != nil {
		log.Fatal(err)
	}

	p := tea.NewProgram(initialModel(records), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
		os.Exit(1)
	}
}

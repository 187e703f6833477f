// Package tui provides a Bubble Tea TUI for browsing a window's drift
// report: score, prompts and per-session stats.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vibedrift/vibedrift/internal/drift"
	"github.com/vibedrift/vibedrift/internal/transcript"
)

// Report is everything the viewer renders for one window.
type Report struct {
	ProjectPath  string
	Since        time.Time
	Until        time.Time
	Score        float64
	Level        drift.Level
	Color        string
	LinesAdded   int
	LinesDeleted int
	Aggregate    transcript.SessionSummary
	Sessions     []transcript.SessionSummary
}

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Active tab: bright, underlined
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	// Inactive tab: muted
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	// Separator between tabs
	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	// Section heading inside a tab
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// Key=value label
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	bulletStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	codePromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	chatPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	addStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	delStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabPrompts
	tabSessions
	tabCount
)

var tabNames = [tabCount]string{"Summary", "Prompts", "Sessions"}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the drift viewer.
type Model struct {
	report    *Report
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
	// Prompts tab: hide prompts that did not produce code
	codeOnly bool
}

// New creates a viewer model for the given report.
func New(r *Report) Model {
	return Model{report: r}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3":
			m.activeTab = tabID(msg.String()[0] - '1')
		case "c":
			if m.activeTab == tabPrompts {
				m.codeOnly = !m.codeOnly
				m.viewports[tabPrompts].SetContent(m.renderPrompts())
				m.viewports[tabPrompts].GotoTop()
			}
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  vibedrift  " + m.report.ProjectPath)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-3 jump  q quit"
	if m.activeTab == tabPrompts {
		mode := "all"
		if m.codeOnly {
			mode = "code only"
		}
		hint += "  c filter (" + mode + ")"
	}
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Model) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabPrompts:
		return m.renderPrompts()
	case tabSessions:
		return m.renderSessions()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func (m *Model) renderSummary() string {
	r := m.report
	scoreStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(r.Color))

	var b strings.Builder
	b.WriteString(heading("Drift"))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		scoreStyle.Render(fmt.Sprintf("%.1f", r.Score)),
		scoreStyle.Render("("+string(r.Level)+")")))
	b.WriteString(heading("Window"))
	b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Since:"), r.Since.Format("2006-01-02 15:04:05 MST")))
	b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("Until:"), r.Until.Format("2006-01-02 15:04:05 MST")))
	b.WriteString(heading("Counts"))
	b.WriteString(fmt.Sprintf("  %s %d (%d produced code)\n", labelStyle.Render("Prompts:"), r.Aggregate.UserPrompts, r.Aggregate.CodePrompts))
	b.WriteString(fmt.Sprintf("  %s %d\n", labelStyle.Render("Responses:"), r.Aggregate.AIResponses))
	b.WriteString(fmt.Sprintf("  %s %d\n", labelStyle.Render("Tool calls:"), r.Aggregate.ToolCalls))
	b.WriteString(fmt.Sprintf("  %s %s %s\n", labelStyle.Render("Lines:"),
		addStyle.Render(fmt.Sprintf("+%d", r.LinesAdded)),
		delStyle.Render(fmt.Sprintf("-%d", r.LinesDeleted))))
	b.WriteString(fmt.Sprintf("  %s %d\n", labelStyle.Render("Sessions:"), len(r.Sessions)))
	return b.String()
}

func (m *Model) renderPrompts() string {
	var b strings.Builder
	b.WriteString(heading("Prompts"))

	shown := 0
	for _, p := range m.report.Aggregate.Prompts {
		if m.codeOnly && !p.CodeGenerated {
			continue
		}
		shown++
		marker := chatPromptStyle.Render("chat")
		if p.CodeGenerated {
			marker = codePromptStyle.Render("code")
		}
		ts := "        "
		if !p.Timestamp.IsZero() {
			ts = p.Timestamp.Format("15:04:05")
		}
		b.WriteString(fmt.Sprintf("  %s [%s] %s\n",
			timeStyle.Render(ts), marker, firstLine(p.Text)))
	}
	if shown == 0 {
		b.WriteString(dimStyle.Render("  (none)") + "\n")
	}
	return b.String()
}

func (m *Model) renderSessions() string {
	var b strings.Builder
	b.WriteString(heading("Sessions"))

	if len(m.report.Sessions) == 0 {
		b.WriteString(dimStyle.Render("  (none)") + "\n")
		return b.String()
	}
	for _, s := range m.report.Sessions {
		b.WriteString(bulletStyle.Render("  •") + "  " + labelStyle.Render(s.SessionID) + "\n")
		span := ""
		if s.StartTime != nil && s.EndTime != nil {
			span = s.StartTime.Format("15:04:05") + " – " + s.EndTime.Format("15:04:05")
		}
		b.WriteString(fmt.Sprintf("     %d prompts, %d responses, %d tool calls  %s\n",
			s.UserPrompts, s.AIResponses, s.ToolCalls, timeStyle.Render(span)))
	}
	return b.String()
}

// firstLine returns the first line of a prompt, shortened to fit a row.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) > 100 {
		return string(runes[:100]) + "…"
	}
	return s
}

// Run starts the TUI in the alternate screen and blocks until exit.
func Run(r *Report) error {
	p := tea.NewProgram(New(r), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

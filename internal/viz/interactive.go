package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/andersnelson/SSCP-2018/internal/analysis"
	"github.com/andersnelson/SSCP-2018/internal/dynamo"
	"github.com/andersnelson/SSCP-2018/internal/integrators"
	"github.com/andersnelson/SSCP-2018/internal/models"
	"github.com/andersnelson/SSCP-2018/internal/stimulus"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	subStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("44")).Bold(true)
)

var modelInfo = map[string]string{
	"crossbridge": "four-state crossbridge cycling",
	"fhn":         "excitable membrane kinetics",
}

const (
	stateMenu = iota
	stateParams
	stateResult
)

// model is the interactive parameter panel. It owns the parameter
// values; the simulation core never sees the UI. Every parameter
// change in the result view re-runs the whole solve-and-diagnose
// pipeline, with no caching in between.
type model struct {
	state       int
	cursor      int
	names       []string
	selected    string
	params      map[string]float64
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string
	width       int

	trace  *dynamo.Result
	dev    analysis.Development
	devErr error
	runErr error
}

func NewInteractiveApp() *model {
	return &model{
		state: stateMenu,
		names: []string{"crossbridge", "fhn"},
		width: 80,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateParams:
		return m.paramsKey(msg)
	case stateResult:
		return m.resultKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.names[m.cursor]
		m.state, m.paramCursor = stateParams, 0
		m.setParamsForModel()
	}
	return m, nil
}

func (m model) paramsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			fmt.Sscanf(m.editBuf, "%f", &val)
			m.params[m.paramNames[m.paramCursor]] = val
			m.editing, m.editBuf = false, ""
		case "escape":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "escape":
		m.state = stateMenu
	case "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%.3f", m.params[m.paramNames[m.paramCursor]])
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(+1)
	case "s":
		m.solve()
		m.state = stateResult
	}
	return m, nil
}

func (m model) resultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "escape":
		m.state = stateParams
	case "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "left", "h":
		m.nudge(-1)
		m.solve()
	case "right", "l":
		m.nudge(+1)
		m.solve()
	case "r":
		m.solve()
	}
	return m, nil
}

// nudge moves the selected parameter by 5% of its magnitude so sliders
// feel the same for rates of order 1 and of order 400.
func (m *model) nudge(dir float64) {
	name := m.paramNames[m.paramCursor]
	v := m.params[name]
	step := v * 0.05
	if step < 0 {
		step = -step
	}
	if step == 0 {
		step = 0.1
	}
	m.params[name] = v + dir*step
}

func (m *model) setParamsForModel() {
	switch m.selected {
	case "fhn":
		m.paramNames = []string{"eps", "beta", "gamma", "amplitude", "start", "width", "dt", "duration"}
		m.params = map[string]float64{
			"eps": 0.08, "beta": 0.7, "gamma": 0.8,
			"amplitude": 0.8, "start": 5, "width": 5,
			"dt": 0.01, "duration": 100,
		}
	default:
		m.paramNames = []string{"rt", "kon", "koff", "f", "fprime", "h", "hprime", "g", "dt", "duration"}
		cb := models.NewCrossBridge()
		m.params = cb.GetParams()
		m.params["dt"] = 0.001
		m.params["duration"] = 1.0
	}
	m.trace, m.runErr, m.devErr = nil, nil, nil
}

// solve runs the full pipeline: build the system from the current
// parameter values, integrate, then derive the diagnostic.
func (m *model) solve() {
	var (
		dyn  dynamo.System
		x0   dynamo.State
		stim dynamo.Stimulus
	)

	switch m.selected {
	case "fhn":
		fhn := models.NewFitzHughNagumo()
		fhn.Eps, fhn.Beta, fhn.Gamma = m.params["eps"], m.params["beta"], m.params["gamma"]
		dyn = fhn
		x0 = fhn.DefaultState()
		stim = stimulus.NewPulse(m.params["amplitude"], m.params["start"], m.params["width"])
	default:
		cb := models.NewCrossBridge()
		for name, v := range m.params {
			cb.SetParam(name, v)
		}
		dyn = cb
		x0 = cb.DefaultState()
		stim = stimulus.NewNone(0)
	}

	cfg := dynamo.DefaultConfig()
	cfg.Dt = m.params["dt"]
	cfg.Duration = m.params["duration"]

	sim := dynamo.New(dyn, integrators.NewRK4(), stim)
	result, err := sim.Run(context.Background(), x0, cfg)
	m.trace, m.runErr = result, err
	if err != nil {
		return
	}

	if m.selected == "crossbridge" {
		m.dev, m.devErr = analysis.RateOfDevelopment(result.Times, result.Series(2))
	} else {
		m.devErr = nil
	}
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateParams:
		return m.viewParams()
	case stateResult:
		return m.viewResult()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + headerStyle.Render("SSCP LAB") + "\n")
	b.WriteString("    " + subStyle.Render("computational physiology models") + "\n")
	b.WriteString("    " + subStyle.Render("───────────────────────────────") + "\n\n")
	for i, name := range m.names {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				cursorStyle.Render("▸"),
				nameStyle.Render(fmt.Sprintf("%-14s", name)),
				valueStyle.Render(modelInfo[name])))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n",
				dimStyle.Render(fmt.Sprintf("%-14s", name)),
				dimStyle.Render(modelInfo[name])))
		}
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + subStyle.Render(" navigate  ") +
		keyStyle.Render("enter") + subStyle.Render(" select  ") +
		keyStyle.Render("q") + subStyle.Render(" quit") + "\n")
	return b.String()
}

func (m model) viewParams() string {
	var b strings.Builder
	b.WriteString("\n\n    " + headerStyle.Render(strings.ToUpper(m.selected)) + "\n")
	b.WriteString("    " + subStyle.Render(modelInfo[m.selected]) + "\n")
	b.WriteString("    " + subStyle.Render("───────────────────────────────") + "\n\n")
	b.WriteString(m.renderParamList())
	b.WriteString("\n    " + keyStyle.Render("j/k") + subStyle.Render(" select  ") +
		keyStyle.Render("h/l") + subStyle.Render(" adjust  ") +
		keyStyle.Render("enter") + subStyle.Render(" edit  ") +
		keyStyle.Render("s") + subStyle.Render(" solve  ") +
		keyStyle.Render("esc") + subStyle.Render(" back") + "\n")
	return b.String()
}

func (m model) renderParamList() string {
	var b strings.Builder
	for i, name := range m.paramNames {
		valStr := fmt.Sprintf("%10.3f", m.params[name])
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n",
				cursorStyle.Render("▸"),
				nameStyle.Render(fmt.Sprintf("%-10s", name)),
				valueStyle.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s\n",
				dimStyle.Render(fmt.Sprintf("%-10s", name)),
				dimStyle.Render(valStr)))
		}
	}
	return b.String()
}

func (m model) viewResult() string {
	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render(strings.ToUpper(m.selected)) + "\n\n")

	if m.runErr != nil {
		b.WriteString("  " + errStyle.Render("simulation failed: "+m.runErr.Error()) + "\n")
		return b.String()
	}
	if m.trace == nil || len(m.trace.States) == 0 {
		b.WriteString("  " + dimStyle.Render("no trajectory") + "\n")
		return b.String()
	}

	var series []float64
	caption := "membrane potential v"
	if m.selected == "crossbridge" {
		series = m.trace.Series(2)
		caption = "force-bearing fraction A2"
	} else {
		series = m.trace.Series(0)
	}

	graphWidth := m.width - 30
	if graphWidth < 40 {
		graphWidth = 40
	}
	graph := asciigraph.Plot(series,
		asciigraph.Height(12),
		asciigraph.Width(graphWidth),
		asciigraph.Caption(caption),
	)
	b.WriteString(graphStyle.Render(graph) + "\n\n")

	if m.selected == "crossbridge" {
		if m.devErr != nil {
			b.WriteString("  " + errStyle.Render("k_dev: "+m.devErr.Error()) + "\n")
		} else {
			b.WriteString(fmt.Sprintf("  %s %s   %s %s   %s %s\n",
				subStyle.Render("f_max"), valueStyle.Render(fmt.Sprintf("%.4f", m.dev.FMax)),
				subStyle.Render("t_half"), valueStyle.Render(fmt.Sprintf("%.4fs", m.dev.THalf)),
				subStyle.Render("k_dev"), valueStyle.Render(fmt.Sprintf("%.2f/s", m.dev.KDev))))
		}
	}

	b.WriteString("\n" + m.renderParamList())
	b.WriteString("\n  " + keyStyle.Render("h/l") + subStyle.Render(" adjust + re-solve  ") +
		keyStyle.Render("j/k") + subStyle.Render(" select  ") +
		keyStyle.Render("r") + subStyle.Render(" re-solve  ") +
		keyStyle.Render("esc") + subStyle.Render(" back") + "\n")
	return b.String()
}

// RunInteractive launches the terminal UI.
func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}

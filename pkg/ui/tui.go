package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	appevents "github.com/rescp17/ipLeak/internal/app_events"
	"github.com/rescp17/ipLeak/internal/style"
	"github.com/rescp17/ipLeak/pkg/detector"
)

// state defines the different states of the detection UI.
type state int

const (
	gathering state = iota
	resolved
	failed
)

var columns = []table.Column{
	{Title: "Type", Width: 8},
	{Title: "Address", Width: 40},
	{Title: "Class", Width: 12},
}

type model struct {
	state         state
	appController AppController
	ctx           context.Context
	cancel        context.CancelFunc
	spinner       spinner.Model
	table         table.Model
	attempt       int
	servers       []string
	observations  []detector.Observation
	result        detector.Result
	err           error
}

// InitialModel creates the detection model around a controller.
func InitialModel(appController AppController) model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(0),
	)
	t.SetStyles(style.NewTableStyles())

	ctx, cancel := context.WithCancel(context.Background())
	return model{
		state:         gathering,
		appController: appController,
		ctx:           ctx,
		cancel:        cancel,
		spinner:       style.NewSpinner(),
		table:         t,
	}
}

// listenForAppMessages is a command that listens for messages from the app controller.
func (m model) listenForAppMessages() tea.Cmd {
	return func() tea.Msg {
		return <-m.appController.UIMessages()
	}
}

func (m model) Init() tea.Cmd {
	go m.appController.Run(m.ctx)
	return tea.Batch(m.spinner.Tick, m.listenForAppMessages())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			m.cancel()
			// Wait for the controller's DetectionDoneMsg before quitting.
			return m, nil
		}
	case appevents.AttemptStartedMsg:
		m.attempt = msg.Attempt
		m.servers = msg.Servers
		m.observations = nil
		m.updateTable()
		return m, m.listenForAppMessages()
	case appevents.CandidateFoundMsg:
		m.observations = append(m.observations, msg.Observation)
		m.updateTable()
		return m, m.listenForAppMessages()
	case appevents.DetectionDoneMsg:
		m.result = msg.Result
		m.err = msg.Err
		if msg.Err != nil {
			m.state = failed
		} else {
			m.state = resolved
		}
		m.cancel()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *model) updateTable() {
	rows := make([]table.Row, 0, len(m.observations))
	for _, o := range m.observations {
		rows = append(rows, table.Row{o.Type, o.Address, o.Class.String()})
	}
	m.table.SetRows(rows)
	m.table.SetHeight(len(rows) + 1)
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("IP leak check"))
	b.WriteString("\n")

	if len(m.observations) > 0 {
		b.WriteString(style.BaseStyle.Render(m.table.View()))
		b.WriteString("\n")
	}

	switch m.state {
	case gathering:
		fmt.Fprintf(&b, "\n%s Gathering candidates from %d STUN server(s)", m.spinner.View(), len(m.servers))
		if m.attempt > 1 {
			fmt.Fprintf(&b, " (attempt %d)", m.attempt)
		}
		b.WriteString("...\n")
		b.WriteString(style.HelpStyle.Render("Press q or ctrl + c to abort"))
	case resolved:
		fmt.Fprintf(&b, "\n✔ Effective IP: %s (%s)\n",
			style.ClassStyle(m.result.Class).Render(m.result.Address), m.result.Class)
	case failed:
		fmt.Fprintf(&b, "\n%s\n", style.ErrorStyle.Render("✘ Detection failed: "+m.err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

// Run drives the TUI until the controller reports a final result.
func Run(appController AppController, opts ...tea.ProgramOption) (detector.Result, error) {
	p := tea.NewProgram(InitialModel(appController), opts...)
	final, err := p.Run()
	if err != nil {
		return detector.Result{}, fmt.Errorf("failed to run TUI: %w", err)
	}
	m, ok := final.(model)
	if !ok {
		return detector.Result{}, fmt.Errorf("unexpected final model %T", final)
	}
	return m.result, m.err
}

package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/Koryaku/internal/emoji"
	"github.com/yildizm/Koryaku/internal/logger"
	"github.com/yildizm/Koryaku/internal/monitor"
	"github.com/yildizm/Koryaku/internal/session"
	"github.com/yildizm/Koryaku/internal/templates"
	"github.com/yildizm/Koryaku/internal/ui/components"
)

// Options configures the interactive app
type Options struct {
	Source    templates.Source
	Symbols   []string
	Areas     []string
	Session   session.Options
	Clipboard session.Clipboard
	Logger    *logger.Logger
}

// Animation message
type tickMsg time.Time

// Animation command
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the interactive strategy generator screen
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	controller *session.Controller
	source     templates.Source
	log        *logger.Logger

	form     *inputForm
	spinner  *components.Spinner
	progress *components.ProgressBar
	styles   *Styles

	width    int
	height   int
	quitting bool

	// Mirrors of what the controller last published
	result          string
	failed          bool
	status          string
	alert           string
	copyLabel       string
	analyzing       bool
	generateEnabled bool
	copyEnabled     bool
}

// NewModel creates the model. attach must be called before the program runs.
func NewModel(ctx context.Context, opts Options) *Model {
	ctx, cancel := context.WithCancel(ctx)
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	styles := GetStyles()
	progress := components.NewProgressBar(24)
	progress.FilledStyle = styles.ProgressFilled
	progress.EmptyStyle = styles.ProgressEmpty

	spinner := components.NewSpinner()
	spinner.Style = styles.Success
	spinner.SetLabel("Analyzing...")

	return &Model{
		ctx:       ctx,
		cancel:    cancel,
		source:    opts.Source,
		log:       opts.Logger.WithComponent("ui"),
		form:      newInputForm(opts.Symbols, opts.Areas),
		spinner:   spinner,
		progress:  progress,
		styles:    styles,
		copyLabel: session.CopyLabel(),
	}
}

func (m *Model) attach(controller *session.Controller) {
	m.controller = controller
}

// Init starts loading the templates
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCmd(),
		textinput.Blink,
		tick(),
	)
}

func (m *Model) loadCmd() tea.Cmd {
	controller, source, ctx := m.controller, m.source, m.ctx
	return func() tea.Msg {
		return loadDoneMsg{err: controller.Load(ctx, source)}
	}
}

func (m *Model) generateCmd() tea.Cmd {
	controller, ctx, fields := m.controller, m.ctx, m.form.Fields()
	return func() tea.Msg {
		accepted, err := controller.Generate(ctx, fields)
		return generateDoneMsg{accepted: accepted, err: err}
	}
}

func (m *Model) copyCmd() tea.Cmd {
	controller, ctx := m.controller, m.ctx
	return func() tea.Msg {
		return copyDoneMsg{err: controller.Copy(ctx)}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		if m.analyzing {
			m.spinner.Tick()
		}
		return m, tick()

	case resultMsg:
		m.result = string(msg)
		m.failed = false
	case failureMsg:
		m.result = string(msg)
		m.failed = true
	case statusMsg:
		m.status = string(msg)
		m.refreshProgress()
	case alertMsg:
		m.alert = string(msg)
	case copyLabelMsg:
		m.copyLabel = string(msg)
	case analyzingMsg:
		m.analyzing = bool(msg)
	case generateEnabledMsg:
		m.generateEnabled = bool(msg)
	case copyEnabledMsg:
		m.copyEnabled = bool(msg)

	case loadDoneMsg:
		if msg.err != nil {
			m.log.Error("load failed: %v", msg.err)
		}
	case generateDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.log.Warn("generate ended early: %v", msg.err)
		}
	case copyDoneMsg:
		if msg.err != nil {
			m.log.Debug("copy failed: %v", msg.err)
		}
	}

	return m, nil
}

// refreshProgress syncs the progress bar with the controller counts
func (m *Model) refreshProgress() {
	state := m.controller.State()
	m.progress.SetProgress(state.Shown, state.Total)
	m.progress.SetLabel(m.status)
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.alert = ""

	switch msg.String() {
	case "ctrl+c", "esc":
		return m.handleQuit()
	case "enter", "ctrl+g":
		if !m.generateEnabled {
			return m, nil
		}
		return m, m.generateCmd()
	case "ctrl+y":
		if !m.copyEnabled {
			return m, nil
		}
		return m, m.copyCmd()
	case "tab", "down":
		return m, m.form.MoveFocus(1)
	case "shift+tab", "up":
		return m, m.form.MoveFocus(-1)
	case "left":
		if m.form.Cycle(-1) {
			return m, nil
		}
	case "right":
		if m.form.Cycle(1) {
			return m, nil
		}
	}

	return m, m.form.Update(msg)
}

// handleQuit cancels any running sequence and quits
func (m *Model) handleQuit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	return m, tea.Quit
}

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return m.styles.Success.Render("Good luck at the hall! "+emoji.GetEmoji("sparkles")) + "\n"
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render(emoji.Prefix("target") + "Koryaku Strategy Generator"))
	b.WriteString("\n\n")
	b.WriteString(m.form.View(m.styles))
	b.WriteString("\n")
	b.WriteString(m.renderButtons())
	b.WriteString("\n")
	b.WriteString(m.renderResult())
	b.WriteString("\n")

	if m.analyzing {
		b.WriteString(m.spinner.Render())
	} else {
		b.WriteString(m.progress.Render())
	}
	b.WriteString("\n")

	if m.alert != "" {
		b.WriteString(m.styles.Alert.Render(emoji.Prefix("warning")+m.alert) + "\n")
	}

	b.WriteString(m.styles.Muted.Render("enter generate • ctrl+y copy • tab/shift+tab move • ←/→ choose • esc quit"))
	return b.String()
}

func (m *Model) renderButtons() string {
	generate := m.styles.ButtonDisabled.Render(emoji.Prefix("database") + "Generate")
	if m.generateEnabled {
		generate = m.styles.Button.Render(emoji.Prefix("database") + "Generate")
	}
	copyButton := m.styles.ButtonDisabled.Render(m.copyLabel)
	if m.copyEnabled {
		copyButton = m.styles.Button.Render(m.copyLabel)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, generate, " ", copyButton)
}

func (m *Model) renderResult() string {
	width := 60
	if m.width > 8 && m.width-4 < width {
		width = m.width - 4
	}
	style := m.styles.Result
	if m.failed {
		style = m.styles.Failure
	}
	return style.Width(width).Render(m.result)
}

// Run runs the interactive app until the user quits or ctx ends
func Run(ctx context.Context, opts Options) error {
	model := NewModel(ctx, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	view := &programView{send: p.Send}
	controller := session.NewController(view, opts.Clipboard, opts.Session)
	model.attach(controller)

	_, err := p.Run()
	model.log.Info("session finished\n%s", monitor.FormatText(controller.Metrics()))
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

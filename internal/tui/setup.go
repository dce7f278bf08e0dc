// ABOUTME: Interactive TUI wizard for configuring stufflog storage and sync.
// ABOUTME: 3-step bubbletea model collecting storage dir, remote URL, and remote name.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultRemoteName is used when the remote name step is left empty.
const DefaultRemoteName = "origin"

// Step represents the current wizard step.
type Step int

const (
	StepStorageDir Step = iota
	StepRemoteURL
	StepRemoteName
	StepValidating
	StepDone
	StepFailed
)

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn is the function signature for remote validation.
type ValidateFn func(ctx context.Context, remoteURL string) error

// cancelHolder shares a cancel function across bubbletea model copies.
// This MUST be stored as a pointer field on SetupModel so that value-receiver
// methods (required by tea.Model) can store the cancel func and have it
// visible to all copies of the model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	inputs        [3]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	validationErr error
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(storageDir, remoteURL, remoteName string) SetupModel {
	dirInput := textinput.New()
	dirInput.Placeholder = "~/.stufflog"
	dirInput.Focus()
	dirInput.Width = 50
	if storageDir != "" {
		dirInput.SetValue(storageDir)
	}

	urlInput := textinput.New()
	urlInput.Placeholder = "git@github.com:you/stufflog.git"
	urlInput.Width = 50
	if remoteURL != "" {
		urlInput.SetValue(remoteURL)
	}

	nameInput := textinput.New()
	nameInput.Placeholder = DefaultRemoteName
	nameInput.Width = 50
	if remoteName != "" {
		nameInput.SetValue(remoteName)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SetupModel{
		step:       StepStorageDir,
		inputs:     [3]textinput.Model{dirInput, urlInput, nameInput},
		spinner:    s,
		validateFn: ValidateRemote,
		cancelCtx:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepStorageDir, StepRemoteURL, StepRemoteName:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		idx := int(m.step)
		m.inputs[idx].SetValue(strings.TrimSpace(m.inputs[idx].Value()))

		// The storage directory is required; the remote is optional.
		if m.step == StepStorageDir && m.inputs[0].Value() == "" {
			return m, nil
		}
		if m.step == StepRemoteName && m.inputs[2].Value() == "" {
			m.inputs[2].SetValue(DefaultRemoteName)
		}

		m.inputs[idx].Blur()

		switch m.step {
		case StepStorageDir:
			m.step = StepRemoteURL
			m.inputs[1].Focus()
			return m, textinput.Blink
		case StepRemoteURL:
			if m.inputs[1].Value() == "" {
				m.step = StepDone
				return m, tea.Quit
			}
			m.step = StepRemoteName
			m.inputs[2].Focus()
			return m, textinput.Blink
		case StepRemoteName:
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
	}

	// Forward to the active input
	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 {
		switch msg.Runes[0] {
		case 'r':
			m.step = StepValidating
			m.validationErr = nil
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		case 's':
			m.step = StepDone
			return m, tea.Quit
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	remoteURL := m.inputs[1].Value()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, remoteURL)}
	}
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   STUFFLOG"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Choose where your stufflogs live and where they sync to.\n\n")

	switch m.step {
	case StepStorageDir:
		b.WriteString(stepStyle.Render("Step 1 of 3: Storage directory"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter to keep the current directory)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepRemoteURL:
		b.WriteString(fmt.Sprintf("  Storage: %s\n\n", m.inputs[0].Value()))
		b.WriteString(stepStyle.Render("Step 2 of 3: Git remote URL"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(leave empty to skip syncing)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepRemoteName:
		b.WriteString(fmt.Sprintf("  Storage: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Remote URL: %s\n\n", m.inputs[1].Value()))
		b.WriteString(stepStyle.Render("Step 3 of 3: Remote name"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for origin)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[2].View())
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("  Storage: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Remote: %s %s\n\n", m.inputs[2].Value(), m.inputs[1].Value()))
		b.WriteString(m.spinner.View())
		b.WriteString(" Checking remote...")
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("✓ Ready!"))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Validation failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values. remoteName is empty when no remote URL
// was given.
func (m SetupModel) Result() (storageDir, remoteURL, remoteName string) {
	remoteURL = m.inputs[1].Value()
	if remoteURL == "" {
		return m.inputs[0].Value(), "", ""
	}
	return m.inputs[0].Value(), remoteURL, m.inputs[2].Value()
}

// ShouldSave returns true if the wizard completed (via validation success,
// skipping the remote, or "save anyway") and the user did not cancel with
// Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}

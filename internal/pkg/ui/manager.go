// Package ui provides interactive terminal UI components for autocommit.
package ui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/autocommit/autocommit/internal/pkg/ai"
	"github.com/autocommit/autocommit/internal/pkg/cost"
)

// Action represents a user action in the interactive UI.
type Action int

const (
	ActionAccept Action = iota
	ActionEdit
	ActionRegenerate
	ActionCancel
)

// String returns the string representation of an Action.
func (a Action) String() string {
	switch a {
	case ActionAccept:
		return "accept"
	case ActionEdit:
		return "edit"
	case ActionRegenerate:
		return "regenerate"
	case ActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Spinner provides loading animation functionality. A spinner owns its
// own lifecycle state; callers only Start, Stop, and UpdateText.
type Spinner interface {
	Start()
	Stop()
	UpdateText(text string)
}

// Manager defines the interface for UI operations.
type Manager interface {
	DisplayMessage(message *ai.GenerateResponse) error
	PromptAction() (Action, error)
	EditMessage(message *ai.GenerateResponse) (*ai.GenerateResponse, error)
	ShowSpinner(text string) Spinner
	ShowCostEstimate(estimate *cost.Estimate, model string)
	ShowError(err error)
	ShowSuccess(message string)
	PromptConfirm(message string) (bool, error)
}

// DefaultManager implements the Manager interface using charmbracelet libraries.
type DefaultManager struct {
	colorEnabled bool
	editor       string
	styles       *styles
}

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	title      lipgloss.Style
	subject    lipgloss.Style
	body       lipgloss.Style
	footer     lipgloss.Style
	success    lipgloss.Style
	errorStyle lipgloss.Style
	info       lipgloss.Style
}

// NewDefaultManager creates a new DefaultManager with the specified options.
func NewDefaultManager(colorEnabled bool, editor string) *DefaultManager {
	m := &DefaultManager{
		colorEnabled: colorEnabled,
		editor:       editor,
	}
	m.styles = newStyles(colorEnabled)
	return m
}

// newStyles initializes the lipgloss styles.
func newStyles(colorEnabled bool) *styles {
	if !colorEnabled {
		return &styles{
			title:      lipgloss.NewStyle(),
			subject:    lipgloss.NewStyle(),
			body:       lipgloss.NewStyle(),
			footer:     lipgloss.NewStyle(),
			success:    lipgloss.NewStyle(),
			errorStyle: lipgloss.NewStyle(),
			info:       lipgloss.NewStyle(),
		}
	}

	return &styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1),
		subject: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220")),
		body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
	}
}

// DisplayMessage displays the generated commit message to the user.
func (m *DefaultManager) DisplayMessage(message *ai.GenerateResponse) error {
	if message == nil {
		return fmt.Errorf("message cannot be nil")
	}

	fmt.Println()
	fmt.Println(m.styles.title.Render("Proposed Commit Message"))
	fmt.Println(strings.Repeat("-", 50))

	fmt.Println(m.styles.subject.Render(displaySubject(message)))

	if message.Body != "" {
		fmt.Println()
		fmt.Println(m.styles.body.Render(message.Body))
	}

	if message.Footer != "" {
		fmt.Println()
		fmt.Println(m.styles.footer.Render(message.Footer))
	}

	fmt.Println(strings.Repeat("-", 50))
	fmt.Println()

	return nil
}

// displaySubject returns the subject line, falling back to the first
// line of the raw text when the parser produced none.
func displaySubject(message *ai.GenerateResponse) string {
	if message.Subject != "" {
		return message.Subject
	}
	if message.RawText != "" {
		lines := strings.Split(message.RawText, "\n")
		return lines[0]
	}
	return ""
}

// ShowCostEstimate prints the token count and projected request cost.
func (m *DefaultManager) ShowCostEstimate(estimate *cost.Estimate, model string) {
	if estimate == nil {
		return
	}
	fmt.Println(m.styles.info.Render(fmt.Sprintf(
		"Estimated cost: ~%d tokens, $%.6f (%s)", estimate.Tokens, estimate.USD, model)))
}

// PromptAction prompts the user to select an action using Bubble Tea.
func (m *DefaultManager) PromptAction() (Action, error) {
	model := newActionSelectModel()
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return ActionCancel, err
	}

	result := finalModel.(actionSelectModel)
	return result.selected, nil
}

// actionSelectModel is the Bubble Tea model for action selection.
type actionSelectModel struct {
	choices  []actionChoice
	cursor   int
	selected Action
	done     bool
}

type actionChoice struct {
	action Action
	label  string
	icon   string
	desc   string
}

func newActionSelectModel() actionSelectModel {
	return actionSelectModel{
		choices: []actionChoice{
			{ActionAccept, "Accept", "›", "Commit with this message"},
			{ActionEdit, "Edit", "•", "Modify the message"},
			{ActionRegenerate, "Regenerate", "↻", "Generate a new message"},
			{ActionCancel, "Cancel", "×", "Abort without committing"},
		},
		cursor:   0,
		selected: ActionCancel,
	}
}

func (m actionSelectModel) Init() tea.Cmd {
	return nil
}

func (m actionSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.selected = ActionCancel
			m.done = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "enter", " ":
			m.selected = m.choices[m.cursor].action
			m.done = true
			return m, tea.Quit
		case "1":
			m.selected = ActionAccept
			m.done = true
			return m, tea.Quit
		case "2":
			m.selected = ActionEdit
			m.done = true
			return m, tea.Quit
		case "3":
			m.selected = ActionRegenerate
			m.done = true
			return m, tea.Quit
		case "4":
			m.selected = ActionCancel
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m actionSelectModel) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212"))

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("What would you like to do?"))
	sb.WriteString("\n\n")

	for i, choice := range m.choices {
		cursor := "  "
		style := normalStyle
		if m.cursor == i {
			cursor = "▸ "
			style = selectedStyle
		}

		line := fmt.Sprintf("%s%s %s", cursor, choice.icon, style.Render(choice.label))
		sb.WriteString(line)
		sb.WriteString(descStyle.Render(fmt.Sprintf(" - %s", choice.desc)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(descStyle.Render("↑/↓ or j/k to move • Enter to select • 1-4 quick select • q to cancel"))

	return sb.String()
}

// EditMessage opens an editor for the user to modify the commit message.
func (m *DefaultManager) EditMessage(message *ai.GenerateResponse) (*ai.GenerateResponse, error) {
	if message == nil {
		return nil, fmt.Errorf("message cannot be nil")
	}

	editContent := formatMessageForEdit(message)

	// Prefer the external editor; fall back to the inline form.
	editor := m.getEditor()
	if editor != "" {
		edited, err := m.editWithExternalEditor(editor, editContent)
		if err == nil {
			return parseEditedMessage(edited), nil
		}
		fmt.Println(m.styles.info.Render("External editor not available, using inline editor..."))
	}

	edited, err := m.editWithInlineEditor(editContent)
	if err != nil {
		return nil, fmt.Errorf("failed to edit message: %w", err)
	}

	return parseEditedMessage(edited), nil
}

// formatMessageForEdit formats the message for editing.
func formatMessageForEdit(message *ai.GenerateResponse) string {
	var builder strings.Builder

	builder.WriteString(displaySubject(message))

	if message.Body != "" {
		builder.WriteString("\n\n")
		builder.WriteString(message.Body)
	}

	if message.Footer != "" {
		builder.WriteString("\n\n")
		builder.WriteString(message.Footer)
	}

	return builder.String()
}

// getEditor returns the editor to use for editing messages.
func (m *DefaultManager) getEditor() string {
	if m.editor != "" {
		return m.editor
	}

	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}

	return ""
}

// editWithExternalEditor opens an external editor for editing.
func (m *DefaultManager) editWithExternalEditor(editor, content string) (string, error) {
	tmpFile, err := os.CreateTemp("", "autocommit-message-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}
	tmpFile.Close()

	cmd := exec.Command(editor, tmpPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor failed: %w", err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}

	return string(edited), nil
}

// editWithInlineEditor uses a huh text area for inline editing.
func (m *DefaultManager) editWithInlineEditor(content string) (string, error) {
	edited := content

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Edit Commit Message").
				Description("Edit below. Press Ctrl+D or Tab then Enter to save. Ctrl+C or Esc to cancel.").
				Value(&edited).
				CharLimit(0),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}

	return edited, nil
}

// parseEditedMessage parses the edited text back into a GenerateResponse.
func parseEditedMessage(edited string) *ai.GenerateResponse {
	edited = strings.TrimSpace(edited)
	if edited == "" {
		return &ai.GenerateResponse{}
	}

	parts := strings.SplitN(edited, "\n\n", 3)

	response := &ai.GenerateResponse{
		RawText: edited,
	}

	response.Subject = strings.TrimSpace(parts[0])

	if len(parts) > 1 {
		response.Body = strings.TrimSpace(parts[1])
	}

	if len(parts) > 2 {
		response.Footer = strings.TrimSpace(parts[2])
	}

	return response
}

// ShowSpinner creates and returns a spinner for loading states.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	return newBubbleSpinner(text)
}

// ShowError displays an error message to the user.
func (m *DefaultManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Println()
	fmt.Println(m.styles.errorStyle.Render("Error: " + err.Error()))
	fmt.Println()
}

// PromptConfirm prompts the user for a yes/no confirmation using Bubble Tea.
func (m *DefaultManager) PromptConfirm(message string) (bool, error) {
	model := newConfirmModel(message)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	result := finalModel.(confirmModel)
	return result.confirmed, nil
}

// confirmModel is the Bubble Tea model for yes/no confirmation.
type confirmModel struct {
	message   string
	cursor    int // 0 = Yes, 1 = No
	confirmed bool
	done      bool
}

func newConfirmModel(message string) confirmModel {
	return confirmModel{
		message: message,
		cursor:  0,
	}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "n":
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		case "y", "Y":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "left", "h":
			m.cursor = 0
		case "right", "l":
			m.cursor = 1
		case "enter", " ":
			m.confirmed = m.cursor == 0
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("220"))

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("42"))

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.message))
	sb.WriteString(" ")

	yesStyle := normalStyle
	noStyle := normalStyle
	if m.cursor == 0 {
		yesStyle = selectedStyle
	} else {
		noStyle = selectedStyle
	}

	sb.WriteString(yesStyle.Render("[Y]es"))
	sb.WriteString(" / ")
	sb.WriteString(noStyle.Render("[N]o"))

	return sb.String()
}

// ShowSuccess displays a success message to the user.
func (m *DefaultManager) ShowSuccess(message string) {
	fmt.Println()
	fmt.Println(m.styles.success.Render("[OK] " + message))
	fmt.Println()
}

// bubbleSpinner implements Spinner using Bubble Tea. The spinner owns
// its program handle and text; the service layer never touches either.
type bubbleSpinner struct {
	text    string
	program *tea.Program
	model   *spinnerModel
	mu      sync.Mutex
}

// spinnerModel is the Bubble Tea model for the spinner.
type spinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
}

// spinnerTickMsg updates the spinner text from outside.
type spinnerTickMsg struct {
	text string
}

// spinnerQuitMsg signals the spinner to quit.
type spinnerQuitMsg struct{}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTickMsg:
		m.text = msg.text
		return m, nil
	case spinnerQuitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.text)
}

func newBubbleSpinner(text string) *bubbleSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	model := &spinnerModel{
		spinner: s,
		text:    text,
	}

	return &bubbleSpinner{
		text:  text,
		model: model,
	}
}

func (s *bubbleSpinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.program = tea.NewProgram(s.model)
	go func() {
		_, _ = s.program.Run()
	}()
}

func (s *bubbleSpinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil {
		s.program.Send(spinnerQuitMsg{})
		time.Sleep(50 * time.Millisecond)
	}
}

func (s *bubbleSpinner) UpdateText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	if s.program != nil {
		s.program.Send(spinnerTickMsg{text: text})
	}
}

// NonInteractiveManager implements Manager for non-interactive mode (--yes flag).
type NonInteractiveManager struct {
	colorEnabled bool
	styles       *styles
}

// NewNonInteractiveManager creates a new NonInteractiveManager.
func NewNonInteractiveManager(colorEnabled bool) *NonInteractiveManager {
	return &NonInteractiveManager{
		colorEnabled: colorEnabled,
		styles:       newStyles(colorEnabled),
	}
}

// DisplayMessage displays the generated commit message.
func (m *NonInteractiveManager) DisplayMessage(message *ai.GenerateResponse) error {
	if message == nil {
		return fmt.Errorf("message cannot be nil")
	}

	fmt.Println(displaySubject(message))
	if message.Body != "" {
		fmt.Println()
		fmt.Println(message.Body)
	}
	if message.Footer != "" {
		fmt.Println()
		fmt.Println(message.Footer)
	}

	return nil
}

// ShowCostEstimate prints the token count and projected request cost.
func (m *NonInteractiveManager) ShowCostEstimate(estimate *cost.Estimate, model string) {
	if estimate == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Estimated cost: ~%d tokens, $%.6f (%s)\n", estimate.Tokens, estimate.USD, model)
}

// PromptAction always returns ActionAccept in non-interactive mode.
func (m *NonInteractiveManager) PromptAction() (Action, error) {
	return ActionAccept, nil
}

// EditMessage returns the original message unchanged in non-interactive mode.
func (m *NonInteractiveManager) EditMessage(message *ai.GenerateResponse) (*ai.GenerateResponse, error) {
	return message, nil
}

// ShowSpinner returns a no-op spinner in non-interactive mode.
func (m *NonInteractiveManager) ShowSpinner(text string) Spinner {
	return &noopSpinner{}
}

// ShowError displays an error message.
func (m *NonInteractiveManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}

// ShowSuccess displays a success message.
func (m *NonInteractiveManager) ShowSuccess(message string) {
	fmt.Println(message)
}

// PromptConfirm always returns true in non-interactive mode.
func (m *NonInteractiveManager) PromptConfirm(message string) (bool, error) {
	return true, nil
}

// noopSpinner is a no-op implementation of Spinner.
type noopSpinner struct{}

func (s *noopSpinner) Start()            {}
func (s *noopSpinner) Stop()             {}
func (s *noopSpinner) UpdateText(string) {}

package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/vapor/internal/vapor"
)

// loginState is the email and password form.
type loginState struct {
	inputs     []textinput.Model
	focusIdx   int
	err        string
	submitting bool
}

func newLoginState() loginState {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email    "
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	return loginState{inputs: []textinput.Model{email, password}}
}

// focus puts the cursor on the current field.
func (l *loginState) focus() tea.Cmd {
	var cmd tea.Cmd
	for i := range l.inputs {
		if i == l.focusIdx {
			cmd = l.inputs[i].Focus()
		} else {
			l.inputs[i].Blur()
		}
	}
	return cmd
}

func (l *loginState) moveFocus(step int) tea.Cmd {
	l.focusIdx = (l.focusIdx + step + len(l.inputs)) % len(l.inputs)
	return l.focus()
}

func (l *loginState) reset() {
	for i := range l.inputs {
		l.inputs[i].SetValue("")
	}
	l.focusIdx = 0
	l.err = ""
	l.submitting = false
}

type loginMsg struct {
	email string
	token string
	err   error
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.submitting {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		// Browse without an account.
		m.login.err = ""
		return m.switchTo(ViewHome)
	case msg.String() == "tab" || msg.String() == "down":
		cmd := m.login.moveFocus(1)
		return m, cmd
	case msg.String() == "shift+tab" || msg.String() == "up":
		cmd := m.login.moveFocus(-1)
		return m, cmd
	case key.Matches(msg, m.keys.Submit):
		if m.login.focusIdx < len(m.login.inputs)-1 {
			cmd := m.login.moveFocus(1)
			return m, cmd
		}
		return m.submitLogin()
	}

	var cmd tea.Cmd
	idx := m.login.focusIdx
	m.login.inputs[idx], cmd = m.login.inputs[idx].Update(msg)
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.login.inputs[0].Value())
	password := m.login.inputs[1].Value()
	if email == "" || password == "" {
		m.login.err = "Email and password are required"
		return m, nil
	}
	if m.api == nil {
		return m, nil
	}
	m.login.err = ""
	m.login.submitting = true

	ctx, api := m.ctx, m.api
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, actionTimeout)
		defer cancel()
		token, err := api.Login(ctx, vapor.LoginPayload{Email: email, Password: password})
		return loginMsg{email: email, token: token, err: err}
	}
}

func (m Model) handleLoginResult(msg loginMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false
	if msg.err != nil {
		m.logger.Warn("login failed", zap.String("email", msg.email), zap.Error(msg.err))
		m.login.err = vapor.Message(msg.err)
		m.login.inputs[1].SetValue("")
		return m, nil
	}
	if m.sessions != nil {
		if err := m.sessions.Save(msg.token, msg.email); err != nil {
			m.login.err = "Could not save session: " + err.Error()
			return m, nil
		}
	}
	m.logger.Info("logged in", zap.String("email", msg.email))
	m.login.reset()
	m.kickRefresh()

	mm, cmd := m.switchTo(ViewHome)
	m = mm.(Model)
	toast := m.showToast("Signed in as "+msg.email, false)
	return m, tea.Batch(cmd, toast)
}

func (m Model) renderLogin() string {
	height := m.contentHeight()
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.FocusBg)
	formWidth := min(max(m.width-4, 20), 60)

	lines := []string{
		bg.Render("Sign in to Vapor", styles.AccentText.Bold(true)),
		"",
	}
	for i := range m.login.inputs {
		input := m.login.inputs[i]
		input.Width = max(formWidth-14, 10)
		lines = append(lines, input.View(), "")
	}
	switch {
	case m.login.submitting:
		lines = append(lines, bg.Render("Signing in...", styles.InfoText))
	case m.login.err != "":
		lines = append(lines, bg.Render(truncate(m.login.err, formWidth-4), styles.DangerText))
	default:
		lines = append(lines, bg.Render("enter submit · tab next field · esc browse without account", styles.FaintText))
	}

	form := m.renderTitledBox("Login", strings.Join(lines, "\n"), formWidth, len(lines)+2, true)
	return m.renderCentered(form, m.width, height)
}

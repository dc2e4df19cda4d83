package main

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var errPromptCancelled = errors.New("cancelled")

// passwordPrompt is a one-field Bubble Tea program that hides what is typed.
type passwordPrompt struct {
	input     textinput.Model
	done      bool
	cancelled bool
}

func newPasswordPrompt(label string) passwordPrompt {
	ti := textinput.New()
	ti.Prompt = label + ": "
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Focus()
	return passwordPrompt{input: ti}
}

func (p passwordPrompt) Init() tea.Cmd {
	return textinput.Blink
}

func (p passwordPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			p.done = true
			return p, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			p.cancelled = true
			return p, tea.Quit
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p passwordPrompt) View() string {
	if p.done || p.cancelled {
		return ""
	}
	return p.input.View() + "\n"
}

func promptPassword(label string) (string, error) {
	final, err := tea.NewProgram(newPasswordPrompt(label)).Run()
	if err != nil {
		return "", err
	}
	p := final.(passwordPrompt)
	if p.cancelled {
		return "", errPromptCancelled
	}
	return p.input.Value(), nil
}

package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/autoalbum/internal/wizard"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgQuestion MsgKind = iota
)

type questionData struct {
	question wizard.Question
	err      error
}

// questionMsg is the constructor for [MsgQuestion], sent when the wizard has processed an answer.
func questionMsg(q wizard.Question, err error) Msg {
	return Msg{kind: MsgQuestion, data: questionData{question: q, err: err}}
}

package ui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/autoalbum/internal/wizard"
)

var _ list.DefaultItem = choiceItem{}

// choiceItem wraps [wizard.Choice] to implement [list.Item].
type choiceItem struct {
	choice wizard.Choice
}

func (i choiceItem) FilterValue() string { return i.choice.Label }
func (i choiceItem) Title() string       { return i.choice.Label }

// Description shows the album id under album titles.
func (i choiceItem) Description() string {
	if i.choice.Value == i.choice.Label {
		return ""
	}
	return i.choice.Value
}

// newChoiceList builds a list over choices with the default value selected.
func newChoiceList(q wizard.Question, width, height int) list.Model {
	items := make([]list.Item, len(q.Choices))
	selected := 0
	for i, c := range q.Choices {
		items[i] = choiceItem{choice: c}
		if c.Value == q.Default {
			selected = i
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = q.State == wizard.NeedSourceAlbum || q.State == wizard.NeedDestinationAlbum

	l := list.New(items, delegate, width, height)
	l.Title = q.Prompt
	l.Styles.Title = styles.prompt
	l.SetShowHelp(false)
	l.SetFilteringEnabled(len(items) > 10)
	l.Select(selected)
	return l
}

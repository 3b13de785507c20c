package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeanpaul/phonebook/internal/phonebook"
	"github.com/jeanpaul/phonebook/internal/validate"
)

// formModel collects the six record fields.
type formModel struct {
	title  string
	inputs []textinput.Model
	focus  int
	errs   map[int]string
}

func newForm(title string, initial *phonebook.Fields) formModel {
	var values []string
	if initial != nil {
		values = initial.Values()
	}

	inputs := make([]textinput.Model, len(phonebook.Labels))
	for i, label := range phonebook.Labels {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = label
		ti.CharLimit = 256
		ti.Width = 40
		if values != nil {
			ti.SetValue(values[i])
		}
		inputs[i] = ti
	}
	inputs[0].Focus()

	return formModel{title: title, inputs: inputs}
}

func (f formModel) fields() phonebook.Fields {
	values := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		values[i] = in.Value()
	}
	return phonebook.FieldsFromValues(values)
}

func (f *formModel) setFocus(i int) {
	n := len(f.inputs)
	f.inputs[f.focus].Blur()
	f.focus = (i%n + n) % n
	f.inputs[f.focus].Focus()
}

// setErrors attaches validation failures to their inputs and focuses the
// first failing one.
func (f *formModel) setErrors(err error) {
	f.errs = make(map[int]string)
	first := -1
	for _, v := range validate.Violations(err) {
		for i, name := range validate.FieldNames {
			if name != v.Field {
				continue
			}
			if _, seen := f.errs[i]; !seen {
				f.errs[i] = v.Reason
			}
			if first < 0 || i < first {
				first = i
			}
		}
	}
	if first >= 0 {
		f.setFocus(first)
	}
}

// Update moves between inputs and reports submitted when enter is pressed
// on the last one.
func (f formModel) Update(msg tea.Msg) (formModel, bool, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return f, false, nil
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return f, false, nil
		case "enter":
			if f.focus == len(f.inputs)-1 {
				return f, true, nil
			}
			f.setFocus(f.focus + 1)
			return f, false, nil
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, false, cmd
}

func (f formModel) View() string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render(f.title) + "\n\n")

	width := 0
	for _, label := range phonebook.Labels {
		if w := len([]rune(label)); w > width {
			width = w
		}
	}

	for i, in := range f.inputs {
		label := phonebook.Labels[i]
		pad := strings.Repeat(" ", width-len([]rune(label)))
		style := InputBorderStyle
		if i == f.focus {
			style = InputActiveStyle
		}
		fmt.Fprintf(&b, "%s%s %s\n", LabelStyle.Render(label), pad, style.Render(in.View()))
		if msg, ok := f.errs[i]; ok {
			fmt.Fprintf(&b, "%s %s\n", strings.Repeat(" ", width), ErrorStyle.Render(msg))
		}
	}
	return b.String()
}

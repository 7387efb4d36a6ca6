package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/Koryaku/internal/emoji"
	"github.com/yildizm/Koryaku/internal/snapshot"
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldSelect
)

// Field order in the form
const (
	fieldRotation = iota
	fieldBigWin
	fieldTop
	fieldMiddle
	fieldBottom
	fieldArea
)

// noneOption is how the empty first option of a selector is displayed
const noneOption = "(none)"

type formField struct {
	icon  string
	label string
	kind  fieldKind

	input   textinput.Model
	options []string
	index   int
}

func (f *formField) value() string {
	if f.kind == fieldText {
		return f.input.Value()
	}
	return f.options[f.index]
}

// inputForm holds the six player inputs and which one has focus
type inputForm struct {
	fields []*formField
	focus  int
}

func newTextField(icon, label, placeholder string) *formField {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	input.CharLimit = 12
	input.Width = 12
	return &formField{icon: icon, label: label, kind: fieldText, input: input}
}

// newSelectField builds a selector whose first option is the empty selection
func newSelectField(icon, label string, options []string) *formField {
	all := make([]string, 0, len(options)+1)
	all = append(all, "")
	all = append(all, options...)
	return &formField{icon: icon, label: label, kind: fieldSelect, options: all}
}

func newInputForm(symbols, areas []string) *inputForm {
	form := &inputForm{
		fields: []*formField{
			fieldRotation: newTextField("rotation", "Rotations", "0"),
			fieldBigWin:   newTextField("big_win", "Big wins today", "0"),
			fieldTop:      newSelectField("reels", "Top symbol", symbols),
			fieldMiddle:   newSelectField("reels", "Middle symbol", symbols),
			fieldBottom:   newSelectField("reels", "Bottom symbol", symbols),
			fieldArea:     newSelectField("area", "Area", areas),
		},
	}
	form.fields[fieldRotation].input.Focus()
	return form
}

// Fields returns the raw field values for a snapshot
func (f *inputForm) Fields() snapshot.Fields {
	return snapshot.Fields{
		Rotation:     f.fields[fieldRotation].value(),
		BigWin:       f.fields[fieldBigWin].value(),
		TopSymbol:    f.fields[fieldTop].value(),
		MiddleSymbol: f.fields[fieldMiddle].value(),
		BottomSymbol: f.fields[fieldBottom].value(),
		AreaPosition: f.fields[fieldArea].value(),
	}
}

// Focused returns the focused field
func (f *inputForm) Focused() *formField {
	return f.fields[f.focus]
}

// MoveFocus shifts focus by delta, wrapping around
func (f *inputForm) MoveFocus(delta int) tea.Cmd {
	current := f.Focused()
	if current.kind == fieldText {
		current.input.Blur()
	}

	n := len(f.fields)
	f.focus = ((f.focus+delta)%n + n) % n

	next := f.Focused()
	if next.kind == fieldText {
		return next.input.Focus()
	}
	return nil
}

// Cycle moves the focused selector by delta. It reports false when the
// focused field is not a selector.
func (f *inputForm) Cycle(delta int) bool {
	field := f.Focused()
	if field.kind != fieldSelect {
		return false
	}
	n := len(field.options)
	field.index = ((field.index+delta)%n + n) % n
	return true
}

// Update forwards a message to the focused text input
func (f *inputForm) Update(msg tea.Msg) tea.Cmd {
	field := f.Focused()
	if field.kind != fieldText {
		return nil
	}
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	return cmd
}

// View renders the form
func (f *inputForm) View(styles *Styles) string {
	var b strings.Builder
	for i, field := range f.fields {
		focused := i == f.focus

		b.WriteString(styles.Label.Render(emoji.Prefix(field.icon) + field.label))

		var body string
		if field.kind == fieldText {
			body = field.input.View()
		} else {
			option := field.options[field.index]
			if option == "" {
				option = noneOption
			}
			body = "‹ " + styles.Option.Render(option) + " ›"
		}

		if focused {
			b.WriteString(styles.FieldFocused.Render(body))
		} else {
			b.WriteString(styles.Field.Render(body))
		}
		b.WriteString("\n")
	}
	return b.String()
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SelectorOption is one row in a searchable selector. A nil ID is the
// "None" entry used to clear nullable references (machine, operator).
type SelectorOption struct {
	ID    *int64
	Label string
}

// Selector is the searchable dropdown used by the machine and operator
// pickers. Typing filters the options and drops any committed selection;
// the selection only comes back via an explicit commit (enter on a
// highlighted row, or leaving the field while the text exactly matches one
// option).
type Selector struct {
	options     []SelectorOption
	query       string
	highlighted int
	selected    *SelectorOption
	open        bool
	allowNone   bool
	placeholder string
}

// NewSelector creates a closed, empty selector. When allowNone is set, a
// "None" entry is offered above the options.
func NewSelector(placeholder string, allowNone bool) Selector {
	return Selector{placeholder: placeholder, allowNone: allowNone}
}

// SetOptions replaces the option list and re-clamps the highlight.
func (s *Selector) SetOptions(options []SelectorOption) {
	s.options = options
	s.clampHighlight()
}

// Selected returns the committed selection, nil when nothing is committed.
func (s *Selector) Selected() *SelectorOption {
	return s.selected
}

// SelectedID returns the committed option id; nil for no selection and for
// the "None" entry alike, which both mean "no reference" on the wire.
func (s *Selector) SelectedID() *int64 {
	if s.selected == nil {
		return nil
	}
	return s.selected.ID
}

// Select commits an option directly, e.g. when pre-filling an edit form.
func (s *Selector) Select(option SelectorOption) {
	s.selected = &option
	s.query = option.Label
	s.open = false
}

// Query returns the current filter text.
func (s *Selector) Query() string {
	return s.query
}

// Open reports whether the option list is showing.
func (s *Selector) Open() bool {
	return s.open
}

// Visible returns the options matching the query, case-insensitive
// substring. The "None" entry is prepended when enabled and always matches
// an empty query.
func (s *Selector) Visible() []SelectorOption {
	var visible []SelectorOption
	q := strings.ToLower(strings.TrimSpace(s.query))
	if s.allowNone && (q == "" || strings.Contains("none", q)) {
		visible = append(visible, SelectorOption{Label: "None"})
	}
	for _, opt := range s.options {
		if q == "" || strings.Contains(strings.ToLower(opt.Label), q) {
			visible = append(visible, opt)
		}
	}
	return visible
}

// Type appends text to the query. Any committed selection is dropped:
// the displayed text no longer names it.
func (s *Selector) Type(text string) {
	s.query += text
	s.selected = nil
	s.open = true
	s.highlighted = 0
}

// Backspace removes the last query rune, with the same selection-clearing
// rule as typing.
func (s *Selector) Backspace() {
	if s.query == "" {
		return
	}
	runes := []rune(s.query)
	s.query = string(runes[:len(runes)-1])
	s.selected = nil
	s.open = true
	s.highlighted = 0
}

// MoveUp moves the highlight toward the first visible option.
func (s *Selector) MoveUp() {
	s.open = true
	if s.highlighted > 0 {
		s.highlighted--
	}
}

// MoveDown moves the highlight toward the last visible option.
func (s *Selector) MoveDown() {
	s.open = true
	if s.highlighted < len(s.Visible())-1 {
		s.highlighted++
	}
}

// Enter commits the highlighted option and closes the list. With no
// visible options it is a no-op.
func (s *Selector) Enter() {
	visible := s.Visible()
	if len(visible) == 0 {
		return
	}
	s.clampHighlight()
	opt := visible[s.highlighted]
	s.selected = &opt
	s.query = opt.Label
	s.open = false
}

// Escape closes the list without changing the committed selection. The
// query snaps back to the selection's label (or empty).
func (s *Selector) Escape() {
	s.open = false
	if s.selected != nil {
		s.query = s.selected.Label
	} else {
		s.query = ""
	}
	s.highlighted = 0
}

// Blur is called when focus leaves the field. Text that exactly matches
// one option (case-insensitive) commits it; anything else reverts like
// Escape, so a half-typed name never silently sticks.
func (s *Selector) Blur() {
	if s.selected == nil {
		q := strings.TrimSpace(s.query)
		if s.allowNone && strings.EqualFold(q, "None") {
			s.selected = &SelectorOption{Label: "None"}
		} else {
			for i := range s.options {
				if strings.EqualFold(s.options[i].Label, q) {
					opt := s.options[i]
					s.selected = &opt
					break
				}
			}
		}
	}
	s.Escape()
}

func (s *Selector) clampHighlight() {
	if n := len(s.Visible()); s.highlighted >= n {
		s.highlighted = max(0, n-1)
	}
}

// View renders the field and, when open, the filtered option list.
func (s *Selector) View(focused bool) string {
	var b strings.Builder

	text := s.query
	if text == "" && !focused {
		text = s.placeholder
	}
	if focused {
		b.WriteString(inputStyle.Render(text + "█"))
	} else if s.selected != nil {
		b.WriteString(text)
	} else {
		b.WriteString(dimStyle.Render(text))
	}

	if s.open && focused {
		visible := s.Visible()
		if len(visible) == 0 {
			b.WriteString("\n  ")
			b.WriteString(dimStyle.Render("no matches"))
		}
		for i, opt := range visible {
			b.WriteString("\n  ")
			if i == s.highlighted {
				b.WriteString(selectedRowStyle.Render(opt.Label))
			} else if opt.ID == nil && s.allowNone && i == 0 {
				b.WriteString(dimStyle.Render(opt.Label))
			} else {
				b.WriteString(lipgloss.NewStyle().Render(opt.Label))
			}
		}
	}
	return b.String()
}

package tui

import (
	"testing"
)

func sampleOptions() []SelectorOption {
	ids := []int64{1, 2, 3}
	return []SelectorOption{
		{ID: &ids[0], Label: "HAL-01 5-axis mill"},
		{ID: &ids[1], Label: "HAL-02 manual lathe"},
		{ID: &ids[2], Label: "DRH-07 drill press"},
	}
}

func TestSelectorTypingClearsSelection(t *testing.T) {
	s := NewSelector("machine", true)
	s.SetOptions(sampleOptions())

	s.Select(sampleOptions()[0])
	if s.Selected() == nil {
		t.Fatal("expected a committed selection")
	}

	s.Type("x")
	if s.Selected() != nil {
		t.Error("typing must drop the committed selection")
	}
	if !s.Open() {
		t.Error("typing must open the option list")
	}

	// Backspacing is still editing, the selection stays gone.
	s.Backspace()
	if s.Selected() != nil {
		t.Error("backspace must not restore the selection")
	}
}

func TestSelectorFilterIsCaseInsensitiveSubstring(t *testing.T) {
	s := NewSelector("machine", false)
	s.SetOptions(sampleOptions())

	s.Type("hal")
	visible := s.Visible()
	if len(visible) != 2 {
		t.Fatalf("expected 2 matches for %q, got %d", "hal", len(visible))
	}
	for _, opt := range visible {
		if opt.ID == nil {
			t.Error("None must not appear when disabled")
		}
	}

	s.Type("zzz")
	if len(s.Visible()) != 0 {
		t.Error("expected no matches")
	}
}

func TestSelectorHighlightClampsWhenFilterShrinks(t *testing.T) {
	s := NewSelector("machine", false)
	s.SetOptions(sampleOptions())

	s.MoveDown()
	s.MoveDown()
	if s.highlighted != 2 {
		t.Fatalf("expected highlight 2, got %d", s.highlighted)
	}

	// Narrowing to one match resets the highlight to a valid row.
	s.Type("drh")
	if len(s.Visible()) != 1 {
		t.Fatalf("expected 1 match, got %d", len(s.Visible()))
	}
	s.Enter()
	if s.Selected() == nil || s.Selected().Label != "DRH-07 drill press" {
		t.Errorf("expected the single visible option committed, got %+v", s.Selected())
	}
}

func TestSelectorEnterCommitsHighlighted(t *testing.T) {
	s := NewSelector("machine", false)
	s.SetOptions(sampleOptions())

	s.MoveDown()
	s.Enter()
	sel := s.Selected()
	if sel == nil || sel.Label != "HAL-02 manual lathe" {
		t.Fatalf("expected second option, got %+v", sel)
	}
	if s.Open() {
		t.Error("enter must close the list")
	}
	if s.Query() != sel.Label {
		t.Errorf("query should show the committed label, got %q", s.Query())
	}
	if s.SelectedID() == nil || *s.SelectedID() != 2 {
		t.Errorf("expected id 2, got %v", s.SelectedID())
	}
}

func TestSelectorEnterOnEmptyListIsNoop(t *testing.T) {
	s := NewSelector("machine", false)
	s.SetOptions(sampleOptions())

	s.Type("nothing matches this")
	s.Enter()
	if s.Selected() != nil {
		t.Errorf("expected no selection, got %+v", s.Selected())
	}
}

func TestSelectorEscapeRestoresCommittedLabel(t *testing.T) {
	s := NewSelector("machine", false)
	s.SetOptions(sampleOptions())

	s.Select(sampleOptions()[0])
	s.Type("garbage")
	s.Escape()

	if s.Open() {
		t.Error("escape must close the list")
	}
	// The commit was already dropped by typing; escape clears the text.
	if s.Selected() != nil {
		t.Errorf("expected dropped selection to stay dropped, got %+v", s.Selected())
	}
	if s.Query() != "" {
		t.Errorf("expected empty query, got %q", s.Query())
	}

	// Escape with an intact selection snaps the text back to its label.
	s.Select(sampleOptions()[2])
	s.open = true
	s.Escape()
	if s.Query() != "DRH-07 drill press" {
		t.Errorf("expected label restored, got %q", s.Query())
	}
}

func TestSelectorBlurCommitsExactMatch(t *testing.T) {
	s := NewSelector("machine", false)
	s.SetOptions(sampleOptions())

	s.Type("hal-02 manual lathe")
	s.Blur()
	if s.Selected() == nil || *s.Selected().ID != 2 {
		t.Errorf("expected exact match committed on blur, got %+v", s.Selected())
	}
}

func TestSelectorBlurRevertsPartialText(t *testing.T) {
	s := NewSelector("machine", false)
	s.SetOptions(sampleOptions())

	s.Type("HAL")
	s.Blur()
	if s.Selected() != nil {
		t.Errorf("partial text must not commit, got %+v", s.Selected())
	}
	if s.Query() != "" {
		t.Errorf("expected query reverted, got %q", s.Query())
	}
}

func TestSelectorNoneEntry(t *testing.T) {
	s := NewSelector("machine", true)
	s.SetOptions(sampleOptions())

	visible := s.Visible()
	if len(visible) != 4 || visible[0].Label != "None" || visible[0].ID != nil {
		t.Fatalf("expected None first, got %+v", visible)
	}

	s.Enter()
	if s.Selected() == nil || s.Selected().Label != "None" {
		t.Fatalf("expected None committed, got %+v", s.Selected())
	}
	if s.SelectedID() != nil {
		t.Error("None must carry a nil id")
	}

	// Blur also recognizes typed "none".
	s2 := NewSelector("machine", true)
	s2.SetOptions(sampleOptions())
	s2.Type("none")
	s2.Blur()
	if s2.Selected() == nil || s2.Selected().Label != "None" {
		t.Errorf("expected typed none committed on blur, got %+v", s2.Selected())
	}
}

package model

import "testing"

func TestOptionText(t *testing.T) {
	q := Question{
		Option1: "alpha",
		Option2: "beta",
		Option3: "gamma",
		Option4: "delta",
	}

	tests := []struct {
		code   int
		want   string
		wantOK bool
	}{
		{1, "alpha", true},
		{2, "beta", true},
		{3, "gamma", true},
		{4, "delta", true},
		{0, "", false},
		{5, "", false},
		{SelectedNone, "", false},
	}

	for _, tc := range tests {
		got, ok := q.OptionText(tc.code)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("OptionText(%d) = (%q, %v), want (%q, %v)", tc.code, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestResponseAnswered(t *testing.T) {
	if (Response{SelectedOption: SelectedNone}).Answered() {
		t.Error("SelectedNone must read as unanswered")
	}
	if !(Response{SelectedOption: 3}).Answered() {
		t.Error("a selected option must read as answered")
	}
}

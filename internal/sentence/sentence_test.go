package sentence

import "testing"

func TestJoin(t *testing.T) {
	tests := []struct {
		input    []string
		expected string
	}{
		{nil, ""},
		{[]string{""}, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a and b"},
		{[]string{"a", "b", "c"}, "a, b, and c"},
		{[]string{"a", "", "b"}, "a and b"},
		{[]string{"a", "b", "c", "d"}, "a, b, c, and d"},
	}

	for _, tt := range tests {
		result := Join(tt.input...)
		if result != tt.expected {
			t.Errorf("Join(%q) = %q; want %q", tt.input, result, tt.expected)
		}
	}
}

func TestJoinWith(t *testing.T) {
	tests := []struct {
		conjunction string
		input       []string
		expected    string
	}{
		{"or", []string{"a", "b"}, "a or b"},
		{"or", []string{"day", "month", "year"}, "day, month, or year"},
		{"or", []string{"day"}, "day"},
		{"but", []string{}, ""},
	}

	for _, tt := range tests {
		result := JoinWith(tt.conjunction, tt.input...)
		if result != tt.expected {
			t.Errorf("JoinWith(%q, %q) = %q; want %q", tt.conjunction, tt.input, result, tt.expected)
		}
	}
}

package format

import (
	"testing"
)

func TestStripAnsi(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no ansi", "hello", "hello"},
		{"single color", "\x1b[31mred\x1b[0m", "red"},
		{"multiple colors", "\x1b[31mred\x1b[0m \x1b[32mgreen\x1b[0m", "red green"},
		{"complex", "\x1b[1;31;40mbold red on black\x1b[0m", "bold red on black"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripAnsi(tt.input)
			if got != tt.expected {
				t.Errorf("StripAnsi(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"with ansi", "\x1b[31mred\x1b[0m", 3},
		{"cjk", "日本", 4},
		{"accented", "não", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayWidth(tt.input); got != tt.expected {
				t.Errorf("DisplayWidth(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"fits", "react", 10, "react"},
		{"exact", "react", 5, "react"},
		{"cut", "react-native", 8, "react..."},
		{"tiny width", "react", 2, "re"},
		{"zero width", "react", 0, ""},
		{"wide runes", "日本語のテキスト", 7, "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.width)
			if got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
			if DisplayWidth(got) > tt.width {
				t.Errorf("Truncate(%q, %d) width %d exceeds limit", tt.input, tt.width, DisplayWidth(got))
			}
		})
	}
}

func TestFit(t *testing.T) {
	if got := Fit("go", 5); got != "go   " {
		t.Errorf("Fit() = %q", got)
	}
	if got := Fit("golang", 5); got != "go..." {
		t.Errorf("Fit() = %q", got)
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("  A library\nfor\t\tbuilding  UIs \r\n"); got != "A library for building UIs" {
		t.Errorf("SingleLine() = %q", got)
	}
}

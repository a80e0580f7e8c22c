package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Email(tt.input)
			if got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Algo Study", "Algo Study"},
		{"  Algo   Study  ", "Algo Study"},
		{"", ""},
		{"   ", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSubjectKey(t *testing.T) {
	if SubjectKey(" Computer  Science ") != SubjectKey("computer science") {
		t.Errorf("SubjectKey should fold case and whitespace: %q vs %q",
			SubjectKey(" Computer  Science "), SubjectKey("computer science"))
	}
	if SubjectKey("") != "" {
		t.Errorf("SubjectKey(\"\") = %q, want empty", SubjectKey(""))
	}
}

func TestEnum(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"HIGH", "high"},
		{"  Completed ", "completed"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Enum(tt.input)
			if got != tt.want {
				t.Errorf("Enum(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Weekly review of graphs", "Weekly review of graphs"},
		{"tags", "<p>Weekly <strong>review</strong></p>", "Weekly review"},
		{"script", "notes<script>alert('x')</script>", "notes"},
		{"trimmed", "  spaced  ", "spaced"},
		{"apostrophe", "Sam's notes & links", "Sam's notes & links"},
		{"empty", "", ""},
		{"encoded script", "notes &lt;script&gt;alert(1)&lt;/script&gt;", "notes"},
		{"encoded tags", "&lt;b&gt;bold&lt;/b&gt; text", "bold text"},
		{"double encoded", "&amp;lt;img src=x onerror=alert(1)&amp;gt;ok", "ok"},
		{"numeric entities", "&#60;i&#62;x&#60;/i&#62;", "x"},
		{"lone angle bracket", "a < b and c > d", "a < b and c > d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlainText(tt.input)
			if got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

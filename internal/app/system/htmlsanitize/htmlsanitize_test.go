package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/opsconsole/internal/app/system/htmlsanitize"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Hello, World!", "Hello, World!"},
		{"trims", "  spaced  ", "spaced"},
		{"strips tags", "<b>Bold</b> text", "Bold text"},
		{"removes script", "Hi<script>alert('x')</script>", "Hi"},
		{"keeps ampersand", "Sales & Support", "Sales & Support"},
		{"strips attributes", `<a href="javascript:alert(1)">link</a>`, "link"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlainTextAll(t *testing.T) {
	got := htmlsanitize.PlainTextAll([]string{"book a table", "<i></i>", " cancel <b>order</b> "})
	want := []string{"book a table", "cancel order"}
	if len(got) != len(want) {
		t.Fatalf("PlainTextAll: got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PlainTextAll[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
	if htmlsanitize.PlainTextAll(nil) != nil {
		t.Error("PlainTextAll(nil) should be nil")
	}
}

package sms

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"09171234567":     "639171234567",
		"+639171234567":   "639171234567",
		"639171234567":    "639171234567",
		"9171234567":      "639171234567",
		"0917-123-4567":   "639171234567",
		"0917 123 4567":   "639171234567",
		"(0917) 123 4567": "639171234567",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValid(t *testing.T) {
	valid := []string{"09171234567", "+639171234567", "639171234567"}
	for _, p := range valid {
		if !Valid(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}

	invalid := []string{"", "12345", "091712345", "19171234567"}
	for _, p := range invalid {
		if Valid(p) {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

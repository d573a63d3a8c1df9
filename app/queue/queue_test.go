package queue

import "testing"

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"ESIF-9999", "ESIF-9999"},
		{"ESIF 9999", "ESIF-9999"},
		{"a.b*c>d", "a-b-c-d"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		if got := sanitizeToken(tt.key); got != tt.want {
			t.Errorf("sanitizeToken(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

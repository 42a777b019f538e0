package normalize

import "testing"

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii", in: "Alice", want: "alice"},
		{name: "spaces", in: "  Alice  ", want: "alice"},
		{name: "cyrillic", in: "Вася", want: "вася"},
		{name: "sharp s", in: "Straße", want: "strasse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.in); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

package database

import "testing"

func TestContentRepository_FindByTitlePrefix(t *testing.T) {
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}

func TestContentRepository_UpsertBatch(t *testing.T) {
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}

func TestEscapeLikePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain title", input: "The Office", want: "The Office"},
		{name: "percent escaped", input: "100% Love", want: "100\\% Love"},
		{name: "underscore escaped", input: "snake_case", want: "snake\\_case"},
		{name: "backslash escaped", input: `back\slash`, want: `back\\slash`},
		{name: "empty", input: "", want: ""},
		{name: "unicode untouched", input: "카페", want: "카페"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := escapeLikePattern(tt.input); got != tt.want {
				t.Errorf("escapeLikePattern(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

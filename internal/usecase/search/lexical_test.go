package search

import "testing"

func TestLexicalMatch(t *testing.T) {
	tests := []struct {
		name    string
		content string
		query   string
		want    bool
	}{
		{"exact", "breach of contract", "breach of contract", true},
		{"substring", "a clear breach of contract occurred", "breach", true},
		{"case insensitive", "Breach Of CONTRACT", "breach of contract", true},
		{"no match", "settlement agreement", "breach", false},
		{"empty query", "anything", "", false},
		{"empty content", "", "breach", false},
		{"whitespace not normalized", "breach  of contract", "breach of", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LexicalMatch(tt.content, tt.query); got != tt.want {
				t.Fatalf("LexicalMatch(%q, %q) = %v, want %v", tt.content, tt.query, got, tt.want)
			}
		})
	}
}

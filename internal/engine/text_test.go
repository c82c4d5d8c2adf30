package engine

import (
	"reflect"
	"testing"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello world"},
		{"  what   are the   FEES?  ", "what are the fees"},
		{"today's classes", "todays classes"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := preprocess(tt.in); got != tt.want {
			t.Errorf("preprocess(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractKeywords(t *testing.T) {
	got := extractKeywords("What is the fee structure for BCA?")
	want := []string{"fee", "structure", "bca"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("extractKeywords = %v, want %v", got, want)
	}

	// A message of nothing but stop words yields no keywords.
	if got := extractKeywords("what is this about"); len(got) != 0 {
		t.Errorf("extractKeywords = %v, want empty", got)
	}
}

func TestSimilarity(t *testing.T) {
	if got := similarity("library timings", "library timings"); got != 1.0 {
		t.Errorf("identical strings = %v, want 1.0", got)
	}
	if got := similarity("", ""); got != 1.0 {
		t.Errorf("empty strings = %v, want 1.0", got)
	}
	if got := similarity("abc", "xyz"); got != 0.0 {
		t.Errorf("disjoint strings = %v, want 0.0", got)
	}

	got := similarity("hello", "hallo")
	if got <= 0.7 || got >= 0.9 {
		t.Errorf("similarity(hello, hallo) = %v, want 0.8", got)
	}
}

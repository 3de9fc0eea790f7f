package trigger

import (
	"reflect"
	"testing"
)

func TestMatch(t *testing.T) {
	m := NewMatcher([]string{"whereclipped", "cliplive"})

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"no trigger", "hello there", nil},
		{"single hit", "check cliplive pls", []string{"cliplive"}},
		{"case insensitive", "WHERECLIPPED???", []string{"whereclipped"}},
		{"substring inside word", "xcliplivey", []string{"cliplive"}},
		{"both hits keep configured order", "cliplive and whereclipped", []string{"whereclipped", "cliplive"}},
		{"empty text", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Match(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNewMatcherNormalizes(t *testing.T) {
	m := NewMatcher([]string{" ClipLive ", "", "FindIt"})
	want := []string{"cliplive", "findit"}
	if !reflect.DeepEqual(m.Phrases(), want) {
		t.Errorf("Phrases() = %v, want %v", m.Phrases(), want)
	}
}

func TestMatchNoConfiguredPhrases(t *testing.T) {
	m := NewMatcher(nil)
	if got := m.Match("anything"); got != nil {
		t.Errorf("expected nil for empty phrase list, got %v", got)
	}
}

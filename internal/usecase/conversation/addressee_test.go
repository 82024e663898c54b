package conversation

import "testing"

func TestExtractAddressee(t *testing.T) {
	extractor := NewRegexAddresseeExtractor()

	tests := []struct {
		utterance string
		wantName  string
		wantOK    bool
	}{
		{"Sarah, what's your take on pricing?", "Sarah", true},
		{"What do you think, Mike?", "Mike", true},
		{"Your thoughts, Priya?", "Priya", true},
		{"I want to ask Sarah about the budget", "Sarah", true},
		{"Hey Mike, how does this integrate?", "Mike", true},
		{"Hi Sarah", "Sarah", true},
		{"We offer a 20% discount this quarter", "", false},
		{"what about pricing?", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		name, ok := extractor.ExtractAddressee(tt.utterance)
		if ok != tt.wantOK || name != tt.wantName {
			t.Errorf("ExtractAddressee(%q) = (%q, %v), want (%q, %v)",
				tt.utterance, name, ok, tt.wantName, tt.wantOK)
		}
	}
}

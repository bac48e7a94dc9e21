package classifier

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected ContentType
	}{
		{
			name:     "Technical keywords dominate",
			text:     "algorithm architecture framework",
			expected: TypeTechnical,
		},
		{
			name:     "Research keywords dominate",
			text:     "study research findings",
			expected: TypeResearch,
		},
		{
			name:     "No keyword overlap defaults to article",
			text:     "the cat sat",
			expected: TypeArticle,
		},
		{
			name:     "Tie defaults to article",
			text:     "the algorithm behind the study",
			expected: TypeArticle,
		},
		{
			name:     "Case insensitive matching",
			text:     "The ALGORITHM and its Implementation define the SYSTEM",
			expected: TypeTechnical,
		},
		{
			name:     "Repeated keywords count once",
			text:     "study study study study algorithm model",
			expected: TypeTechnical,
		},
		{
			name:     "Empty input defaults to article",
			text:     "",
			expected: TypeArticle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.expected {
				t.Errorf("Classify(%q) = %q, expected %q", tt.text, got, tt.expected)
			}
		})
	}
}

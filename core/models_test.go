package core

import (
	"testing"
)

func TestHashContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same digest",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "Employee Alice Johnson has expertise in machine learning with 4 years of experience",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h1 := HashContent(tt.content)
			h2 := HashContent(tt.content)

			if tt.wantSame && h1 != h2 {
				t.Errorf("HashContent() produced different digests for same content: %d vs %d", h1, h2)
			}
		})
	}
}

func TestHashContent_Different(t *testing.T) {
	h1 := HashContent("content1")
	h2 := HashContent("content2")

	if h1 == h2 {
		t.Errorf("HashContent() produced same digest for different content")
	}
}

func TestParseAvailability(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Availability
		wantErr bool
	}{
		{
			name:  "available",
			input: "available",
			want:  AvailabilityAvailable,
		},
		{
			name:  "unavailable",
			input: "unavailable",
			want:  AvailabilityUnavailable,
		},
		{
			name:  "mixed case",
			input: "Available",
			want:  AvailabilityAvailable,
		},
		{
			name:  "surrounding whitespace",
			input: "  unavailable  ",
			want:  AvailabilityUnavailable,
		},
		{
			name:    "unknown status",
			input:   "busy",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAvailability(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseAvailability(%q) error = nil, want error", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseAvailability(%q) error = %v, want nil", tt.input, err)
				return
			}

			if got != tt.want {
				t.Errorf("ParseAvailability(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAvailability_String(t *testing.T) {
	tests := []struct {
		name         string
		availability Availability
		want         string
	}{
		{
			name:         "available",
			availability: AvailabilityAvailable,
			want:         "available",
		},
		{
			name:         "unavailable",
			availability: AvailabilityUnavailable,
			want:         "unavailable",
		},
		{
			name:         "unknown value",
			availability: Availability(42),
			want:         "availability(42)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.availability.String()
			if got != tt.want {
				t.Errorf("Availability.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	tests := []struct {
		name   string
		skills []string
		want   []string
	}{
		{
			name:   "lowercases and sorts",
			skills: []string{"Python", "Machine Learning", "AWS"},
			want:   []string{"aws", "machine learning", "python"},
		},
		{
			name:   "deduplicates case-insensitively",
			skills: []string{"python", "Python", "PYTHON"},
			want:   []string{"python"},
		},
		{
			name:   "drops blank entries",
			skills: []string{"", "  ", "go"},
			want:   []string{"go"},
		},
		{
			name:   "trims whitespace",
			skills: []string{" docker "},
			want:   []string{"docker"},
		},
		{
			name:   "nil input",
			skills: nil,
			want:   nil,
		},
		{
			name:   "all blank",
			skills: []string{"", "   "},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSkills(tt.skills)

			if len(got) != len(tt.want) {
				t.Fatalf("NormalizeSkills() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("NormalizeSkills()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeSkills_Idempotent(t *testing.T) {
	once := NormalizeSkills([]string{"Go", "Kubernetes", "go"})
	twice := NormalizeSkills(once)

	if len(once) != len(twice) {
		t.Fatalf("NormalizeSkills() not idempotent: %v vs %v", once, twice)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("NormalizeSkills() not idempotent at %d: %v vs %v", i, once[i], twice[i])
		}
	}
}

func TestDocumentID_String(t *testing.T) {
	tests := []struct {
		name string
		id   DocumentID
		want string
	}{
		{
			name: "profile document",
			id:   DocumentID{ProfileId: "1", Kind: DocumentKindProfile},
			want: "1/profile",
		},
		{
			name: "skill document",
			id:   DocumentID{ProfileId: "7", Kind: DocumentKindSkill, Key: "python"},
			want: "7/skill:python",
		},
		{
			name: "project document",
			id:   DocumentID{ProfileId: "7", Kind: DocumentKindProject, Key: "Payment Gateway"},
			want: "7/project:Payment Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.id.String()
			if got != tt.want {
				t.Errorf("DocumentID.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDocumentID_Compare(t *testing.T) {
	tests := []struct {
		name string
		a    DocumentID
		b    DocumentID
		want int // sign only
	}{
		{
			name: "equal ids",
			a:    DocumentID{ProfileId: "1", Kind: DocumentKindProfile},
			b:    DocumentID{ProfileId: "1", Kind: DocumentKindProfile},
			want: 0,
		},
		{
			name: "profile id orders first",
			a:    DocumentID{ProfileId: "1", Kind: DocumentKindProject, Key: "z"},
			b:    DocumentID{ProfileId: "2", Kind: DocumentKindProfile},
			want: -1,
		},
		{
			name: "kind orders within a profile",
			a:    DocumentID{ProfileId: "1", Kind: DocumentKindProfile},
			b:    DocumentID{ProfileId: "1", Kind: DocumentKindSkill, Key: "go"},
			want: -1,
		},
		{
			name: "key orders within a kind",
			a:    DocumentID{ProfileId: "1", Kind: DocumentKindSkill, Key: "go"},
			b:    DocumentID{ProfileId: "1", Kind: DocumentKindSkill, Key: "python"},
			want: -1,
		},
		{
			name: "reversed arguments flip the sign",
			a:    DocumentID{ProfileId: "2", Kind: DocumentKindProfile},
			b:    DocumentID{ProfileId: "1", Kind: DocumentKindProfile},
			want: 1,
		},
	}

	sign := func(n int) int {
		switch {
		case n < 0:
			return -1
		case n > 0:
			return 1
		default:
			return 0
		}
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sign(tt.a.Compare(tt.b))
			if got != tt.want {
				t.Errorf("DocumentID.Compare() sign = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDocumentKind_String(t *testing.T) {
	tests := []struct {
		name string
		kind DocumentKind
		want string
	}{
		{
			name: "profile",
			kind: DocumentKindProfile,
			want: "profile",
		},
		{
			name: "skill",
			kind: DocumentKindSkill,
			want: "skill",
		},
		{
			name: "project",
			kind: DocumentKindProject,
			want: "project",
		},
		{
			name: "unknown",
			kind: DocumentKind(9),
			want: "kind(9)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.kind.String()
			if got != tt.want {
				t.Errorf("DocumentKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

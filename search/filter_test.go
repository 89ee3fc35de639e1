package search

import (
	"testing"

	"github.com/poiesic/staffit/core"
	"github.com/stretchr/testify/assert"
)

func filterMeta() core.DocumentMeta {
	return core.DocumentMeta{
		ProfileId:       "1",
		Name:            "Alice Johnson",
		Position:        "ML Engineer",
		Department:      "Engineering",
		Skills:          []string{"machine learning", "python"},
		ExperienceYears: 4,
		Availability:    core.AvailabilityAvailable,
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		query core.Query
		want  bool
	}{
		{
			name:  "no active filters passes vacuously",
			query: core.Query{},
			want:  true,
		},
		{
			name:  "skill intersects",
			query: core.Query{Skills: []string{"Python"}},
			want:  true,
		},
		{
			name:  "skill intersects case-insensitively",
			query: core.Query{Skills: []string{"MACHINE LEARNING"}},
			want:  true,
		},
		{
			name:  "any-of skill match",
			query: core.Query{Skills: []string{"rust", "python"}},
			want:  true,
		},
		{
			name:  "no skill intersection",
			query: core.Query{Skills: []string{"rust"}},
			want:  false,
		},
		{
			name:  "department equal case-insensitively",
			query: core.Query{Department: "engineering"},
			want:  true,
		},
		{
			name:  "department mismatch",
			query: core.Query{Department: "Sales"},
			want:  false,
		},
		{
			name:  "experience at boundary",
			query: core.Query{MinExperience: 4},
			want:  true,
		},
		{
			name:  "experience below minimum",
			query: core.Query{MinExperience: 5},
			want:  false,
		},
		{
			name:  "availability match",
			query: core.Query{Availability: core.AvailabilityAvailable},
			want:  true,
		},
		{
			name:  "availability mismatch",
			query: core.Query{Availability: core.AvailabilityUnavailable},
			want:  false,
		},
		{
			name:  "name substring case-insensitive",
			query: core.Query{Name: "johnson"},
			want:  true,
		},
		{
			name:  "name substring miss",
			query: core.Query{Name: "smith"},
			want:  false,
		},
		{
			name: "all filters conjunctive",
			query: core.Query{
				Skills:        []string{"python"},
				Department:    "Engineering",
				MinExperience: 3,
				Availability:  core.AvailabilityAvailable,
			},
			want: true,
		},
		{
			name: "one failing filter fails the conjunction",
			query: core.Query{
				Skills:        []string{"python"},
				Department:    "Engineering",
				MinExperience: 10,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := filterMeta()
			assert.Equal(t, tt.want, Matches(&meta, &tt.query))
		})
	}
}

func TestHasActiveFilters(t *testing.T) {
	assert.False(t, HasActiveFilters(&core.Query{}))
	assert.False(t, HasActiveFilters(&core.Query{RawText: "some text", K: 5}))

	assert.True(t, HasActiveFilters(&core.Query{Skills: []string{"go"}}))
	assert.True(t, HasActiveFilters(&core.Query{Department: "Engineering"}))
	assert.True(t, HasActiveFilters(&core.Query{MinExperience: 1}))
	assert.True(t, HasActiveFilters(&core.Query{Availability: core.AvailabilityAvailable}))
	assert.True(t, HasActiveFilters(&core.Query{Name: "alice"}))
}

func TestTokenizeAndFilter(t *testing.T) {
	assert.Equal(t, []string{"machine", "learning", "healthcare"},
		tokenizeAndFilter("the Machine Learning, healthcare!"))
	assert.Empty(t, tokenizeAndFilter("the a an"))
	assert.Empty(t, tokenizeAndFilter("   "))
}

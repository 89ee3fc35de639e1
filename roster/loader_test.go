package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/staffit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRoster = `{
  "employees": [
    {
      "id": 1,
      "name": "Alice Johnson",
      "position": "ML Engineer",
      "department": "Engineering",
      "skills": ["Python", "Machine Learning", "python"],
      "experience_years": 4,
      "availability": "available",
      "projects": ["Healthcare ML System"]
    },
    {
      "id": "emp-2",
      "name": "  Bob Smith  ",
      "skills": ["Go"],
      "experience_years": 7,
      "availability": "Unavailable",
      "projects": [
        {"name": "Payments Platform", "description": "Settlement pipeline rewrite"}
      ]
    }
  ]
}`

func TestDecode(t *testing.T) {
	records, err := Decode(strings.NewReader(sampleRoster))
	require.NoError(t, err)
	require.Len(t, records, 2)

	t.Run("numeric id and normalized skills", func(t *testing.T) {
		alice := records[0]
		assert.Equal(t, "1", alice.Id)
		assert.Equal(t, "Alice Johnson", alice.Name)
		assert.Equal(t, "ML Engineer", alice.Position)
		assert.Equal(t, "Engineering", alice.Department)
		assert.Equal(t, []string{"machine learning", "python"}, alice.Skills)
		assert.Equal(t, 4, alice.ExperienceYears)
		assert.Equal(t, core.AvailabilityAvailable, alice.Availability)
		require.Len(t, alice.Projects, 1)
		assert.Equal(t, "Healthcare ML System", alice.Projects[0].Name)
	})

	t.Run("string id, trimmed name, project object", func(t *testing.T) {
		bob := records[1]
		assert.Equal(t, "emp-2", bob.Id)
		assert.Equal(t, "Bob Smith", bob.Name)
		assert.Equal(t, core.AvailabilityUnavailable, bob.Availability)
		require.Len(t, bob.Projects, 1)
		assert.Equal(t, "Payments Platform", bob.Projects[0].Name)
		assert.Equal(t, "Settlement pipeline rewrite", bob.Projects[0].Description)
	})
}

func TestDecode_UnknownAvailabilityPassedThrough(t *testing.T) {
	records, err := Decode(strings.NewReader(`{
	  "employees": [
	    {"id": "1", "name": "Carol", "availability": "sabbatical"}
	  ]
	}`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	// Invalid availability is preserved as the zero value so the document
	// builder can reject just this record.
	assert.Equal(t, core.Availability(0), records[0].Availability)
}

func TestDecode_Errors(t *testing.T) {
	t.Run("invalid JSON", func(t *testing.T) {
		_, err := Decode(strings.NewReader("{not json"))
		assert.ErrorIs(t, err, ErrInvalidRoster)
	})

	t.Run("empty employee list", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`{"employees": []}`))
		assert.ErrorIs(t, err, ErrNoEmployees)
	})

	t.Run("missing employees key", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`{"staff": []}`))
		assert.ErrorIs(t, err, ErrNoEmployees)
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "employees.json")
		require.NoError(t, os.WriteFile(path, []byte(sampleRoster), 0644))

		records, err := Load(path)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}

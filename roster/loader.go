// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/staffit/core"
)

var (
	// ErrNoEmployees indicates a syntactically valid roster with an empty or
	// missing employee list.
	ErrNoEmployees = errors.New("no employee records in roster")

	// ErrInvalidRoster indicates a roster file that could not be decoded.
	ErrInvalidRoster = errors.New("invalid roster file")
)

// envelope is the top-level shape of an employees JSON file.
type envelope struct {
	Employees []employee `json:"employees"`
}

// employee mirrors one roster entry. The flexible field types absorb the
// format drift found in real roster files.
type employee struct {
	Id              flexString `json:"id"`
	Name            string     `json:"name"`
	Position        string     `json:"position"`
	Department      string     `json:"department"`
	Skills          []string   `json:"skills"`
	ExperienceYears int        `json:"experience_years"`
	Availability    string     `json:"availability"`
	Projects        []project  `json:"projects"`
}

// flexString decodes a JSON string or number into a string. Older rosters
// carry numeric employee ids.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// project decodes either a bare project name string or a {name, description}
// object.
type project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (p *project) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		p.Name = name
		p.Description = ""
		return nil
	}
	type plain project
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*p = project(obj)
	return nil
}

// Load reads and decodes the roster file at path.
func Load(path string) ([]core.ProfileRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	slog.Default().Info("loaded roster", "path", path, "records", len(records))
	return records, nil
}

// Decode parses the employees envelope from r and normalizes each record:
// fields are trimmed and skills case-normalized. Records are returned in file
// order. Decode fails on invalid JSON or an empty employee list; a record
// with a malformed availability string is passed through with an invalid
// availability for the document builder to reject, so the rest of the roster
// still loads.
func Decode(r io.Reader) ([]core.ProfileRecord, error) {
	var env envelope
	dec := json.NewDecoder(r)
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoster, err)
	}
	if len(env.Employees) == 0 {
		return nil, ErrNoEmployees
	}

	records := make([]core.ProfileRecord, len(env.Employees))
	for i, emp := range env.Employees {
		availability, err := core.ParseAvailability(emp.Availability)
		if err != nil {
			slog.Default().Warn("roster record has unknown availability",
				"id", string(emp.Id), "availability", emp.Availability)
		}

		projects := make([]core.Project, 0, len(emp.Projects))
		for _, p := range emp.Projects {
			projects = append(projects, core.Project{
				Name:        strings.TrimSpace(p.Name),
				Description: strings.TrimSpace(p.Description),
			})
		}

		records[i] = core.ProfileRecord{
			Id:              strings.TrimSpace(string(emp.Id)),
			Name:            strings.TrimSpace(emp.Name),
			Position:        strings.TrimSpace(emp.Position),
			Department:      strings.TrimSpace(emp.Department),
			Skills:          core.NormalizeSkills(emp.Skills),
			ExperienceYears: emp.ExperienceYears,
			Availability:    availability,
			Projects:        projects,
		}
	}
	return records, nil
}

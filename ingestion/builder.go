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


package ingestion

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/staffit/core"
)

// Builder expands profile records into retrievable documents. One record
// yields a profile summary document, one document per distinct skill, and one
// document per project. The per-skill and per-project variants let a narrow
// query outrank a generic profile match.
type Builder struct {
	logger *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithBuilderLogger sets a custom logger. Default is slog.Default().
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a document builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		logger: slog.Default().With("component", "document-builder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build expands records into documents. A record that fails validation is
// logged and skipped; the build never fails as a whole on a bad record.
// Input records are not mutated.
func (b *Builder) Build(records []core.ProfileRecord) []core.Document {
	docs := make([]core.Document, 0, len(records))
	skipped := 0
	for i := range records {
		recordDocs, err := b.BuildRecord(&records[i])
		if err != nil {
			b.logger.Warn("skipping invalid profile record",
				"id", records[i].Id, "name", records[i].Name, "err", err)
			skipped++
			continue
		}
		docs = append(docs, recordDocs...)
	}
	if skipped > 0 {
		b.logger.Info("document build finished with skipped records",
			"records", len(records), "skipped", skipped, "documents", len(docs))
	}
	return docs
}

// BuildRecord expands a single record into its documents. It fails with an
// error wrapping core.ErrInvalidRecord if the record is malformed.
func (b *Builder) BuildRecord(rec *core.ProfileRecord) ([]core.Document, error) {
	if err := core.ValidateProfileRecord(rec); err != nil {
		return nil, err
	}

	skills := core.NormalizeSkills(rec.Skills)
	meta := core.DocumentMeta{
		ProfileId:       rec.Id,
		Name:            rec.Name,
		Position:        rec.Position,
		Department:      rec.Department,
		Skills:          skills,
		ExperienceYears: rec.ExperienceYears,
		Availability:    rec.Availability,
	}

	docs := make([]core.Document, 0, 1+len(skills)+len(rec.Projects))
	docs = append(docs, core.Document{
		Id:   core.DocumentID{ProfileId: rec.Id, Kind: core.DocumentKindProfile},
		Text: profileText(rec, skills),
		Meta: meta,
	})
	for _, skill := range skills {
		docs = append(docs, core.Document{
			Id:   core.DocumentID{ProfileId: rec.Id, Kind: core.DocumentKindSkill, Key: skill},
			Text: skillText(rec, skill),
			Meta: meta,
		})
	}
	for i := range rec.Projects {
		docs = append(docs, core.Document{
			Id:   core.DocumentID{ProfileId: rec.Id, Kind: core.DocumentKindProject, Key: rec.Projects[i].Name},
			Text: projectText(rec, &rec.Projects[i], skills),
			Meta: meta,
		})
	}
	return docs, nil
}

// profileText renders the full profile summary. Field order is fixed so that
// identical records always produce byte-identical text.
func profileText(rec *core.ProfileRecord, skills []string) string {
	var sb strings.Builder
	sb.WriteString("Employee Profile:\n")
	fmt.Fprintf(&sb, "Name: %s\n", rec.Name)
	if rec.Position != "" {
		fmt.Fprintf(&sb, "Position: %s\n", rec.Position)
	}
	if rec.Department != "" {
		fmt.Fprintf(&sb, "Department: %s\n", rec.Department)
	}
	if len(skills) > 0 {
		fmt.Fprintf(&sb, "Skills: %s\n", strings.Join(skills, ", "))
	}
	fmt.Fprintf(&sb, "Experience: %d years\n", rec.ExperienceYears)
	if len(rec.Projects) > 0 {
		fmt.Fprintf(&sb, "Projects: %s\n", strings.Join(projectNames(rec.Projects), ", "))
	}
	fmt.Fprintf(&sb, "Availability: %s", rec.Availability)
	return sb.String()
}

// skillText renders a per-skill document: the skill itself plus the role and
// department context of the person holding it.
func skillText(rec *core.ProfileRecord, skill string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Employee %s has expertise in %s with %d years of experience.",
		rec.Name, skill, rec.ExperienceYears)
	if rec.Position != "" || rec.Department != "" {
		sb.WriteString("\nRole:")
		if rec.Position != "" {
			fmt.Fprintf(&sb, " %s", rec.Position)
		}
		if rec.Department != "" {
			fmt.Fprintf(&sb, " in %s", rec.Department)
		}
		sb.WriteString(".")
	}
	fmt.Fprintf(&sb, "\nAvailability: %s", rec.Availability)
	return sb.String()
}

// projectText renders a per-project document: the project name and
// description plus the full skill set, so project queries surface the right
// people even when the project name alone carries little skill signal.
func projectText(rec *core.ProfileRecord, project *core.Project, skills []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Employee %s worked on the %s project.", rec.Name, project.Name)
	if project.Description != "" {
		fmt.Fprintf(&sb, "\n%s", project.Description)
	}
	if len(skills) > 0 {
		fmt.Fprintf(&sb, "\nSkills used: %s.", strings.Join(skills, ", "))
	}
	fmt.Fprintf(&sb, "\nExperience: %d years.", rec.ExperienceYears)
	return sb.String()
}

func projectNames(projects []core.Project) []string {
	names := make([]string, len(projects))
	for i := range projects {
		names[i] = projects[i].Name
	}
	return names
}

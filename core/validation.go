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


package core

import (
	"fmt"
	"strings"
)

// ValidateProfileRecord validates a ProfileRecord according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Name must not be empty
//   - ExperienceYears must not be negative
//   - Availability must be a known value
//   - every project must have a name
//
// NOT validated:
//   - Skills (an empty skill set is legal; blank entries are dropped by
//     NormalizeSkills)
//   - Position and Department (optional free text)
func ValidateProfileRecord(record *ProfileRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if strings.TrimSpace(record.Id) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrMissingId)
	}

	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrMissingName)
	}

	if record.ExperienceYears < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrNegativeExperience)
	}

	if err := ValidateAvailability(record.Availability); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	for _, project := range record.Projects {
		if strings.TrimSpace(project.Name) == "" {
			return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrUnnamedProject)
		}
	}

	return nil
}

// ValidateAvailability validates that an Availability has a known value.
func ValidateAvailability(a Availability) error {
	if a != AvailabilityAvailable && a != AvailabilityUnavailable {
		return fmt.Errorf("%w: value %d", ErrInvalidAvailability, a)
	}
	return nil
}

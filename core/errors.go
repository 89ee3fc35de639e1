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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a ProfileRecord failed validation.
	ErrInvalidRecord = errors.New("invalid profile record")

	// ErrMissingId indicates the record Id field is empty.
	ErrMissingId = errors.New("record id cannot be empty")

	// ErrMissingName indicates the record Name field is empty.
	ErrMissingName = errors.New("record name cannot be empty")

	// ErrNegativeExperience indicates ExperienceYears is negative.
	ErrNegativeExperience = errors.New("experience years cannot be negative")

	// ErrInvalidAvailability indicates an unknown Availability value.
	ErrInvalidAvailability = errors.New("invalid availability")

	// ErrUnnamedProject indicates a project entry without a name.
	ErrUnnamedProject = errors.New("project name cannot be empty")
)

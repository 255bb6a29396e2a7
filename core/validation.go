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

import "fmt"

// ValidateSource validates a Source according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - OwnerID must not be empty
//   - Type must be valid (File or Repo)
//   - Status must be valid
//
// NOT validated:
//   - Title (may be empty; the caller can fall back to a path or URL)
//   - CreatedAt (populated by the lifecycle manager)
func ValidateSource(source *Source) error {
	if source == nil {
		return fmt.Errorf("%w: source is nil", ErrInvalidSource)
	}

	if source.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSource, ErrEmptySourceID)
	}

	if source.OwnerID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSource, ErrEmptyOwnerID)
	}

	if err := ValidateSourceType(source.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}

	if err := ValidateStatus(source.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}

	return nil
}

// ValidateSourceType validates a SourceType value.
func ValidateSourceType(t SourceType) error {
	switch t {
	case SourceTypeFile, SourceTypeRepo:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidSourceType, t)
	}
}

// ValidateStatus validates a SourceStatus value.
func ValidateStatus(s SourceStatus) error {
	switch s {
	case StatusUploaded, StatusIndexing, StatusIndexed, StatusFailed:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidStatus, s)
	}
}

// ValidateEntity validates an Entity according to domain rules.
//
// Validation rules:
//   - SourceID must not be empty (every graph node carries its scope)
//   - Name must not be empty (it is the merge key)
//   - Type must not be empty
func ValidateEntity(entity *Entity) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidEntity)
	}

	if entity.SourceID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptySourceID)
	}

	if entity.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyEntityName)
	}

	if entity.Type == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyEntityType)
	}

	return nil
}

// ValidateRelationship validates a Relationship according to domain rules.
//
// Validation rules:
//   - SourceID must not be empty
//   - From, To and Type must not be empty (they form the merge key)
func ValidateRelationship(rel *Relationship) error {
	if rel == nil {
		return fmt.Errorf("%w: relationship is nil", ErrInvalidRelationship)
	}

	if rel.SourceID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRelationship, ErrEmptySourceID)
	}

	if rel.From == "" || rel.To == "" {
		return fmt.Errorf("%w: missing endpoint", ErrInvalidRelationship)
	}

	if rel.Type == "" {
		return fmt.Errorf("%w: missing predicate type", ErrInvalidRelationship)
	}

	return nil
}

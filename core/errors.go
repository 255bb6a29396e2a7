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
	// ErrInvalidSource indicates a Source failed validation.
	ErrInvalidSource = errors.New("invalid source")

	// ErrInvalidEntity indicates an Entity failed validation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidRelationship indicates a Relationship failed validation.
	ErrInvalidRelationship = errors.New("invalid relationship")

	// ErrInvalidSourceType indicates an invalid SourceType value.
	ErrInvalidSourceType = errors.New("invalid source type")

	// ErrInvalidStatus indicates an invalid SourceStatus value.
	ErrInvalidStatus = errors.New("invalid source status")

	// ErrInvalidTransition indicates a status transition the state machine forbids.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrEmptyContent indicates ingestion content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptySourceID indicates a record is missing its source scope.
	ErrEmptySourceID = errors.New("source id cannot be empty")

	// ErrEmptyOwnerID indicates a source is missing its owner.
	ErrEmptyOwnerID = errors.New("owner id cannot be empty")

	// ErrEmptyEntityName indicates the entity Name field is empty.
	ErrEmptyEntityName = errors.New("entity name cannot be empty")

	// ErrEmptyEntityType indicates the entity Type field is empty.
	ErrEmptyEntityType = errors.New("entity type cannot be empty")
)

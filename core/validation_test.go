package core

import (
	"errors"
	"testing"
	"time"
)

func validSource() *Source {
	return &Source{
		ID:        "src-1",
		Title:     "notes.pdf",
		Type:      SourceTypeFile,
		Status:    StatusUploaded,
		OwnerID:   "user-1",
		CreatedAt: time.Now().UTC(),
	}
}

func TestValidateSource(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Source)
		wantErr error
	}{
		{
			name:   "valid file source",
			mutate: func(s *Source) {},
		},
		{
			name:   "valid repo source",
			mutate: func(s *Source) { s.Type = SourceTypeRepo },
		},
		{
			name:    "missing id",
			mutate:  func(s *Source) { s.ID = "" },
			wantErr: ErrEmptySourceID,
		},
		{
			name:    "missing owner",
			mutate:  func(s *Source) { s.OwnerID = "" },
			wantErr: ErrEmptyOwnerID,
		},
		{
			name:    "unknown source type",
			mutate:  func(s *Source) { s.Type = 0 },
			wantErr: ErrInvalidSourceType,
		},
		{
			name:    "unknown status",
			mutate:  func(s *Source) { s.Status = 99 },
			wantErr: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := validSource()
			tt.mutate(source)

			err := ValidateSource(source)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSource() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidSource) || !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSource() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSource_Nil(t *testing.T) {
	if err := ValidateSource(nil); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("ValidateSource(nil) = %v, want ErrInvalidSource", err)
	}
}

func TestValidateEntity(t *testing.T) {
	tests := []struct {
		name    string
		entity  *Entity
		wantErr error
	}{
		{
			name:   "valid",
			entity: &Entity{SourceID: "s1", Name: "parser", Type: "Function"},
		},
		{
			name:    "missing scope",
			entity:  &Entity{Name: "parser", Type: "Function"},
			wantErr: ErrEmptySourceID,
		},
		{
			name:    "missing name",
			entity:  &Entity{SourceID: "s1", Type: "Function"},
			wantErr: ErrEmptyEntityName,
		},
		{
			name:    "missing type",
			entity:  &Entity{SourceID: "s1", Name: "parser"},
			wantErr: ErrEmptyEntityType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntity(tt.entity)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEntity() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidEntity) || !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEntity() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRelationship(t *testing.T) {
	tests := []struct {
		name    string
		rel     *Relationship
		wantErr bool
	}{
		{
			name: "valid",
			rel:  &Relationship{SourceID: "s1", From: "a", To: "b", Type: "USES"},
		},
		{
			name:    "missing scope",
			rel:     &Relationship{From: "a", To: "b", Type: "USES"},
			wantErr: true,
		},
		{
			name:    "missing from endpoint",
			rel:     &Relationship{SourceID: "s1", To: "b", Type: "USES"},
			wantErr: true,
		},
		{
			name:    "missing to endpoint",
			rel:     &Relationship{SourceID: "s1", From: "a", Type: "USES"},
			wantErr: true,
		},
		{
			name:    "missing predicate",
			rel:     &Relationship{SourceID: "s1", From: "a", To: "b"},
			wantErr: true,
		},
		{
			name:    "nil",
			rel:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelationship(tt.rel)
			if tt.wantErr && !errors.Is(err, ErrInvalidRelationship) {
				t.Errorf("ValidateRelationship() = %v, want ErrInvalidRelationship", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateRelationship() unexpected error: %v", err)
			}
		})
	}
}

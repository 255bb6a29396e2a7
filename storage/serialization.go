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


package storage

import (
	"github.com/poiesic/loom/core"
)

// MarshalSource serializes a Source to bytes.
func MarshalSource(source *core.Source) []byte {
	buf := make([]byte, core.SourceMUS.Size(*source))
	core.SourceMUS.Marshal(*source, buf)
	return buf
}

// UnmarshalSource deserializes a Source from bytes.
func UnmarshalSource(data []byte) (*core.Source, error) {
	source, _, err := core.SourceMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &source, nil
}

// MarshalVectorIndexMetadata serializes a VectorIndexMetadata to bytes.
func MarshalVectorIndexMetadata(meta *core.VectorIndexMetadata) []byte {
	buf := make([]byte, core.VectorIndexMetadataMUS.Size(*meta))
	core.VectorIndexMetadataMUS.Marshal(*meta, buf)
	return buf
}

// UnmarshalVectorIndexMetadata deserializes a VectorIndexMetadata from bytes.
func UnmarshalVectorIndexMetadata(data []byte) (*core.VectorIndexMetadata, error) {
	meta, _, err := core.VectorIndexMetadataMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// MarshalGraphMetadata serializes a GraphMetadata to bytes.
func MarshalGraphMetadata(meta *core.GraphMetadata) []byte {
	buf := make([]byte, core.GraphMetadataMUS.Size(*meta))
	core.GraphMetadataMUS.Marshal(*meta, buf)
	return buf
}

// UnmarshalGraphMetadata deserializes a GraphMetadata from bytes.
func UnmarshalGraphMetadata(data []byte) (*core.GraphMetadata, error) {
	meta, _, err := core.GraphMetadataMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// MarshalStoredChunk serializes a StoredChunk to bytes.
func MarshalStoredChunk(chunk *core.StoredChunk) []byte {
	buf := make([]byte, core.StoredChunkMUS.Size(*chunk))
	core.StoredChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalStoredChunk deserializes a StoredChunk from bytes.
func UnmarshalStoredChunk(data []byte) (*core.StoredChunk, error) {
	chunk, _, err := core.StoredChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalEntity serializes an Entity to bytes.
func MarshalEntity(entity *core.Entity) []byte {
	buf := make([]byte, core.EntityMUS.Size(*entity))
	core.EntityMUS.Marshal(*entity, buf)
	return buf
}

// UnmarshalEntity deserializes an Entity from bytes.
func UnmarshalEntity(data []byte) (*core.Entity, error) {
	entity, _, err := core.EntityMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// MarshalFileNode serializes a FileNode to bytes.
func MarshalFileNode(file *core.FileNode) []byte {
	buf := make([]byte, core.FileNodeMUS.Size(*file))
	core.FileNodeMUS.Marshal(*file, buf)
	return buf
}

// UnmarshalFileNode deserializes a FileNode from bytes.
func UnmarshalFileNode(data []byte) (*core.FileNode, error) {
	file, _, err := core.FileNodeMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// MarshalRelationship serializes a Relationship to bytes.
func MarshalRelationship(rel *core.Relationship) []byte {
	buf := make([]byte, core.RelationshipMUS.Size(*rel))
	core.RelationshipMUS.Marshal(*rel, buf)
	return buf
}

// UnmarshalRelationship deserializes a Relationship from bytes.
func UnmarshalRelationship(data []byte) (*core.Relationship, error) {
	rel, _, err := core.RelationshipMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

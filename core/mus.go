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
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted domain types. Timestamps are
// stored as Unix microseconds.

var (
	vectorMUS   = ord.NewSliceSer[float32](varint.Float32)
	metadataMUS = ord.NewMapSer[string, string](ord.String, ord.String)
)

func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	us, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

// SourceMUS serializes Source values.
var SourceMUS = sourceMUS{}

type sourceMUS struct{}

func (sourceMUS) Marshal(v Source, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += varint.Int.Marshal(int(v.Type), bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += ord.String.Marshal(v.OwnerID, bs[n:])
	n += marshalTime(v.CreatedAt, bs[n:])
	return n
}

func (sourceMUS) Unmarshal(bs []byte) (v Source, n int, err error) {
	var n1 int
	if v.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var i int
	if i, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	v.Type = SourceType(i)
	n += n1
	if i, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	v.Status = SourceStatus(i)
	n += n1
	if v.OwnerID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (sourceMUS) Size(v Source) int {
	return ord.String.Size(v.ID) +
		ord.String.Size(v.Title) +
		varint.Int.Size(int(v.Type)) +
		varint.Int.Size(int(v.Status)) +
		ord.String.Size(v.OwnerID) +
		sizeTime(v.CreatedAt)
}

// VectorIndexMetadataMUS serializes VectorIndexMetadata values.
var VectorIndexMetadataMUS = vectorIndexMetadataMUS{}

type vectorIndexMetadataMUS struct{}

func (vectorIndexMetadataMUS) Marshal(v VectorIndexMetadata, bs []byte) (n int) {
	n = ord.String.Marshal(v.SourceID, bs)
	n += ord.String.Marshal(v.Provider, bs[n:])
	n += ord.String.Marshal(v.Collection, bs[n:])
	n += marshalTime(v.IndexedAt, bs[n:])
	return n
}

func (vectorIndexMetadataMUS) Unmarshal(bs []byte) (v VectorIndexMetadata, n int, err error) {
	var n1 int
	if v.SourceID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Provider, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Collection, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.IndexedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (vectorIndexMetadataMUS) Size(v VectorIndexMetadata) int {
	return ord.String.Size(v.SourceID) +
		ord.String.Size(v.Provider) +
		ord.String.Size(v.Collection) +
		sizeTime(v.IndexedAt)
}

// GraphMetadataMUS serializes GraphMetadata values.
var GraphMetadataMUS = graphMetadataMUS{}

type graphMetadataMUS struct{}

func (graphMetadataMUS) Marshal(v GraphMetadata, bs []byte) (n int) {
	n = ord.String.Marshal(v.SourceID, bs)
	n += varint.Int.Marshal(v.EntityCount, bs[n:])
	n += varint.Int.Marshal(v.RelationCount, bs[n:])
	n += marshalTime(v.BuiltAt, bs[n:])
	return n
}

func (graphMetadataMUS) Unmarshal(bs []byte) (v GraphMetadata, n int, err error) {
	var n1 int
	if v.SourceID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.EntityCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.RelationCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.BuiltAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (graphMetadataMUS) Size(v GraphMetadata) int {
	return ord.String.Size(v.SourceID) +
		varint.Int.Size(v.EntityCount) +
		varint.Int.Size(v.RelationCount) +
		sizeTime(v.BuiltAt)
}

// StoredChunkMUS serializes StoredChunk values.
var StoredChunkMUS = storedChunkMUS{}

type storedChunkMUS struct{}

func (storedChunkMUS) Marshal(v StoredChunk, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Id), bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += varint.Int.Marshal(v.Ordinal, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	n += metadataMUS.Marshal(v.Metadata, bs[n:])
	return n
}

func (storedChunkMUS) Unmarshal(bs []byte) (v StoredChunk, n int, err error) {
	var n1 int
	var id uint64
	if id, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	v.Id = ID(id)
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Ordinal, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Metadata, n1, err = metadataMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (storedChunkMUS) Size(v StoredChunk) int {
	return varint.Uint64.Size(uint64(v.Id)) +
		ord.String.Size(v.Text) +
		varint.Int.Size(v.Ordinal) +
		vectorMUS.Size(v.Vector) +
		metadataMUS.Size(v.Metadata)
}

// EntityMUS serializes Entity values.
var EntityMUS = entityMUS{}

type entityMUS struct{}

func (entityMUS) Marshal(v Entity, bs []byte) (n int) {
	n = ord.String.Marshal(v.SourceID, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Type, bs[n:])
	return n
}

func (entityMUS) Unmarshal(bs []byte) (v Entity, n int, err error) {
	var n1 int
	if v.SourceID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Type, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (entityMUS) Size(v Entity) int {
	return ord.String.Size(v.SourceID) +
		ord.String.Size(v.Name) +
		ord.String.Size(v.Type)
}

// FileNodeMUS serializes FileNode values.
var FileNodeMUS = fileNodeMUS{}

type fileNodeMUS struct{}

func (fileNodeMUS) Marshal(v FileNode, bs []byte) (n int) {
	n = ord.String.Marshal(v.SourceID, bs)
	n += ord.String.Marshal(v.Path, bs[n:])
	n += ord.String.Marshal(v.Language, bs[n:])
	n += ord.String.Marshal(v.FileType, bs[n:])
	return n
}

func (fileNodeMUS) Unmarshal(bs []byte) (v FileNode, n int, err error) {
	var n1 int
	if v.SourceID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Path, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Language, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.FileType, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (fileNodeMUS) Size(v FileNode) int {
	return ord.String.Size(v.SourceID) +
		ord.String.Size(v.Path) +
		ord.String.Size(v.Language) +
		ord.String.Size(v.FileType)
}

// RelationshipMUS serializes Relationship values.
var RelationshipMUS = relationshipMUS{}

type relationshipMUS struct{}

func (relationshipMUS) Marshal(v Relationship, bs []byte) (n int) {
	n = ord.String.Marshal(v.SourceID, bs)
	n += ord.String.Marshal(v.From, bs[n:])
	n += ord.String.Marshal(v.To, bs[n:])
	n += ord.String.Marshal(v.Type, bs[n:])
	return n
}

func (relationshipMUS) Unmarshal(bs []byte) (v Relationship, n int, err error) {
	var n1 int
	if v.SourceID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.From, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.To, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Type, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (relationshipMUS) Size(v Relationship) int {
	return ord.String.Size(v.SourceID) +
		ord.String.Size(v.From) +
		ord.String.Size(v.To) +
		ord.String.Size(v.Type)
}

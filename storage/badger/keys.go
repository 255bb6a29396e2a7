package badger

import (
	"encoding/binary"
	"strings"

	"github.com/poiesic/loom/core"
)

// Key prefixes for different data types
const (
	sourcePrefix      = "src"
	sourceOwnerPrefix = "srcown"
	vectorMetaPrefix  = "vecmeta"
	graphMetaPrefix   = "gphmeta"
	collectionPrefix  = "veccol"
	scopePrefix       = "gscope"
	entityPrefix      = "gent"
	filePrefix        = "gfile"
	relForwardPrefix  = "grelf"
	relReversePrefix  = "grelr"
	mentionPrefix     = "gment"
)

// sep separates the parts of a composite key. Names, paths and predicate
// types may contain ':' or '/', so a control character keeps prefix scans
// from matching across part boundaries.
const sep = "\x1f"

// joinKey builds a composite key. Entity names and types arrive from model
// output and paths from callers, so an embedded separator would shift part
// boundaries; it is replaced with a space before joining. Lookups pass through
// the same replacement, so reads stay consistent with writes.
func joinKey(parts ...string) []byte {
	size := 0
	for _, part := range parts {
		size += len(part) + 1
	}
	buf := make([]byte, 0, size)
	for i, part := range parts {
		if i > 0 {
			buf = append(buf, sep...)
		}
		buf = append(buf, strings.ReplaceAll(part, sep, " ")...)
	}
	return buf
}

// scanPrefix builds a prefix that matches exactly the given leading key parts.
func scanPrefix(parts ...string) []byte {
	return append(joinKey(parts...), sep...)
}

func makeSourceKey(id string) []byte {
	return joinKey(sourcePrefix, id)
}

// makeSourceOwnerKey builds the owner index key. Format: srcown/ownerID/sourceID.
func makeSourceOwnerKey(ownerID, sourceID string) []byte {
	return joinKey(sourceOwnerPrefix, ownerID, sourceID)
}

func makeVectorMetaKey(sourceID string) []byte {
	return joinKey(vectorMetaPrefix, sourceID)
}

func makeGraphMetaKey(sourceID string) []byte {
	return joinKey(graphMetaPrefix, sourceID)
}

// makeChunkKey builds a vector collection member key.
// Format: veccol/collection/chunkID, the ID in BigEndian so iteration order is stable.
func makeChunkKey(collection string, id core.ID) []byte {
	buf := joinKey(collectionPrefix, collection)
	buf = append(buf, sep...)
	var idBytes [8]byte
	binary.BigEndian.PutUint64(idBytes[:], uint64(id))
	return append(buf, idBytes[:]...)
}

func makeScopeKey(sourceID string) []byte {
	return joinKey(scopePrefix, sourceID)
}

func makeEntityKey(sourceID, name string) []byte {
	return joinKey(entityPrefix, sourceID, name)
}

func makeFileKey(sourceID, path string) []byte {
	return joinKey(filePrefix, sourceID, path)
}

// Relationship keys are stored twice: once under the From endpoint and once
// under the To endpoint, each carrying the full serialized edge, so neighbor
// scans in either direction are single prefix iterations.
func makeRelForwardKey(rel *core.Relationship) []byte {
	return joinKey(relForwardPrefix, rel.SourceID, rel.From, rel.Type, rel.To)
}

func makeRelReverseKey(rel *core.Relationship) []byte {
	return joinKey(relReversePrefix, rel.SourceID, rel.To, rel.Type, rel.From)
}

func makeMentionKey(sourceID, entity, path string) []byte {
	return joinKey(mentionPrefix, sourceID, entity, path)
}

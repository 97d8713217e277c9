// Package citation normalizes the grounding metadata attached to a generated
// answer into a stable citation schema. The metadata is an opaque JSON
// document whose shape varies across service versions, so every field is
// resolved through an ordered fallback chain and anything missing or
// wrong-typed simply resolves to absent.
package citation

import (
	"encoding/json"
	"strings"

	"github.com/casestudyai/casestudyai/internal/model"
)

const unknownFile = "unknown"

// Extract returns one citation per grounding chunk, preserving input order.
// Absent or undecodable metadata yields an empty (non-nil) slice; this is a
// valid outcome, not an error.
func Extract(meta json.RawMessage) []model.Citation {
	citations := make([]model.Citation, 0)
	if len(meta) == 0 {
		return citations
	}
	var root map[string]json.RawMessage
	if err := json.Unmarshal(meta, &root); err != nil {
		return citations
	}
	var chunks []json.RawMessage
	if raw := firstRaw(root, "grounding_chunks", "groundingChunks"); raw != nil {
		_ = json.Unmarshal(raw, &chunks)
	}
	for _, rawChunk := range chunks {
		rec := decodeChunk(rawChunk)
		citations = append(citations, model.Citation{
			File:    rec.resolveFile(),
			ChunkID: rec.resolveChunkID(),
			Page:    rec.page,
		})
	}
	return citations
}

// chunkRecord is the variant-field view of a single grounding chunk. Only
// the fields the resolution chains consult are decoded.
type chunkRecord struct {
	sourceFileName   string
	fileDisplayName  string
	fileResourceName string
	contextTitle     string
	id               string
	chunkID          string
	page             *int
}

func decodeChunk(raw json.RawMessage) chunkRecord {
	var rec chunkRecord
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return rec
	}
	rec.sourceFileName = stringField(m, "source_file_name", "sourceFileName")
	if fileRaw := firstRaw(m, "file"); fileRaw != nil {
		var fm map[string]json.RawMessage
		if err := json.Unmarshal(fileRaw, &fm); err == nil {
			rec.fileDisplayName = stringField(fm, "display_name", "displayName")
			rec.fileResourceName = stringField(fm, "name")
		}
	}
	if ctxRaw := firstRaw(m, "retrieved_context", "retrievedContext"); ctxRaw != nil {
		var cm map[string]json.RawMessage
		if err := json.Unmarshal(ctxRaw, &cm); err == nil {
			rec.contextTitle = stringField(cm, "title")
		}
	}
	rec.id = scalarField(m, "id")
	rec.chunkID = scalarField(m, "chunk_id", "chunkId")
	rec.page = intField(m, "page")
	return rec
}

// resolveFile applies the fixed fallback chain: explicit source file name,
// the nested file object's display name, the last path segment of its
// resource name, the retrieved-context title, then "unknown".
func (r chunkRecord) resolveFile() string {
	if r.sourceFileName != "" {
		return r.sourceFileName
	}
	if r.fileDisplayName != "" {
		return r.fileDisplayName
	}
	if r.fileResourceName != "" {
		if idx := strings.LastIndex(r.fileResourceName, "/"); idx >= 0 {
			if seg := r.fileResourceName[idx+1:]; seg != "" {
				return seg
			}
		} else {
			return r.fileResourceName
		}
	}
	if r.contextTitle != "" {
		return r.contextTitle
	}
	return unknownFile
}

func (r chunkRecord) resolveChunkID() string {
	if r.id != "" {
		return r.id
	}
	return r.chunkID
}

func firstRaw(m map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, key := range keys {
		if raw, ok := m[key]; ok && len(raw) > 0 {
			return raw
		}
	}
	return nil
}

func stringField(m map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := m[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// scalarField reads a value that may arrive as either a string or a number
// and coerces it to its string form.
func scalarField(m map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := m[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				return s
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil && n.String() != "" {
			return n.String()
		}
	}
	return ""
}

func intField(m map[string]json.RawMessage, keys ...string) *int {
	for _, key := range keys {
		raw, ok := m[key]
		if !ok {
			continue
		}
		var v int
		if err := json.Unmarshal(raw, &v); err == nil {
			return &v
		}
	}
	return nil
}

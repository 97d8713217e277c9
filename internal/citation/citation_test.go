package citation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract_AbsentMetadata(t *testing.T) {
	citations := Extract(nil)
	require.NotNil(t, citations)
	require.Empty(t, citations)
}

func TestExtract_NoChunkList(t *testing.T) {
	citations := Extract(json.RawMessage(`{"web_search_queries":["acme"]}`))
	require.Empty(t, citations)

	citations = Extract(json.RawMessage(`{"grounding_chunks":[]}`))
	require.Empty(t, citations)
}

func TestExtract_InvalidPayload(t *testing.T) {
	require.Empty(t, Extract(json.RawMessage(`"not an object"`)))
	require.Empty(t, Extract(json.RawMessage(`{"grounding_chunks":"oops"}`)))
}

func TestExtract_FileResolutionChain(t *testing.T) {
	meta := json.RawMessage(`{"grounding_chunks":[
		{"source_file_name":"acme.pdf"},
		{"file":{"display_name":"globex.pdf","name":"files/xyz"}},
		{"file":{"name":"files/abc123"}},
		{"retrieved_context":{"title":"initech.md"}},
		{}
	]}`)
	citations := Extract(meta)
	require.Len(t, citations, 5)
	require.Equal(t, "acme.pdf", citations[0].File)
	require.Equal(t, "globex.pdf", citations[1].File)
	require.Equal(t, "abc123", citations[2].File)
	require.Equal(t, "initech.md", citations[3].File)
	require.Equal(t, "unknown", citations[4].File)
}

func TestExtract_CamelCaseKeys(t *testing.T) {
	meta := json.RawMessage(`{"groundingChunks":[
		{"sourceFileName":"a.txt"},
		{"file":{"displayName":"b.txt"}},
		{"retrievedContext":{"title":"c.txt"}}
	]}`)
	citations := Extract(meta)
	require.Len(t, citations, 3)
	require.Equal(t, "a.txt", citations[0].File)
	require.Equal(t, "b.txt", citations[1].File)
	require.Equal(t, "c.txt", citations[2].File)
}

func TestExtract_ChunkIDCoercion(t *testing.T) {
	meta := json.RawMessage(`{"grounding_chunks":[
		{"id":"chunk-1"},
		{"id":42},
		{"chunk_id":"alt-7"},
		{"id":"","chunk_id":"fallback"},
		{}
	]}`)
	citations := Extract(meta)
	require.Len(t, citations, 5)
	require.Equal(t, "chunk-1", citations[0].ChunkID)
	require.Equal(t, "42", citations[1].ChunkID)
	require.Equal(t, "alt-7", citations[2].ChunkID)
	require.Equal(t, "fallback", citations[3].ChunkID)
	require.Empty(t, citations[4].ChunkID)
}

func TestExtract_Page(t *testing.T) {
	meta := json.RawMessage(`{"grounding_chunks":[
		{"page":3},
		{"page":"three"},
		{}
	]}`)
	citations := Extract(meta)
	require.Len(t, citations, 3)
	require.NotNil(t, citations[0].Page)
	require.Equal(t, 3, *citations[0].Page)
	require.Nil(t, citations[1].Page)
	require.Nil(t, citations[2].Page)
}

func TestExtract_OrderPreservedNoDedup(t *testing.T) {
	meta := json.RawMessage(`{"grounding_chunks":[
		{"source_file_name":"z.pdf"},
		{"source_file_name":"a.pdf"},
		{"source_file_name":"z.pdf"}
	]}`)
	citations := Extract(meta)
	require.Len(t, citations, 3)
	require.Equal(t, "z.pdf", citations[0].File)
	require.Equal(t, "a.pdf", citations[1].File)
	require.Equal(t, "z.pdf", citations[2].File)
}

func TestExtract_WrongTypedFieldsResolveAbsent(t *testing.T) {
	meta := json.RawMessage(`{"grounding_chunks":[
		{"source_file_name":123,"file":"not an object","id":{"nested":true}}
	]}`)
	citations := Extract(meta)
	require.Len(t, citations, 1)
	require.Equal(t, "unknown", citations[0].File)
	require.Empty(t, citations[0].ChunkID)
	require.Nil(t, citations[0].Page)
}

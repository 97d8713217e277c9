package model

// Citation points at the source chunk that grounded part of an answer.
// Produced fresh per query, never persisted.
type Citation struct {
	File    string `json:"file"`
	ChunkID string `json:"chunk_id,omitempty"`
	Page    *int   `json:"page,omitempty"`
}

type QueryRequest struct {
	Question string `json:"question"`
}

type QueryResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	StoreName string `json:"store_name,omitempty"`
	FileCount *int64 `json:"file_count,omitempty"`
}

type UploadResponse struct {
	Success    bool     `json:"success"`
	Filename   string   `json:"filename"`
	Message    string   `json:"message"`
	FileSizeMB *float64 `json:"file_size_mb,omitempty"`
}

// StoreInfo reports store occupancy. A nil FileCount means the count could
// not be determined, which is not the same as an empty store.
type StoreInfo struct {
	StoreName string
	FileCount *int64
}

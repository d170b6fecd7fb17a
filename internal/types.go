package internal

import "time"

// JobRecord is the persisted summary of one translation job.
type JobRecord struct {
	ID              string    `json:"id"`
	Kind            string    `json:"kind"`
	Filename        string    `json:"filename,omitempty"`
	Format          string    `json:"format,omitempty"`
	TargetLanguage  string    `json:"target_language"`
	Model           string    `json:"model"`
	Status          string    `json:"status"`
	TotalChunks     int       `json:"total_chunks"`
	FailedChunks    []int     `json:"failed_chunks,omitempty"`
	DroppedSegments int       `json:"dropped_segments"`
	ResultText      string    `json:"result_text,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/study-schedule/internal/types"
)

// MetadataName is the hand-off record pointing at the latest schedule.
const MetadataName = "schedule_metadata.json"

// Metadata records which schedule artifact the document step should read.
type Metadata struct {
	CSVPath     string `json:"csv_path"`
	ParquetPath string `json:"parquet_path,omitempty"`
	FeedPath    string `json:"feed_path,omitempty"`
	Child       string `json:"child,omitempty"`
	RunID       string `json:"run_id,omitempty"`
}

// LabelFor turns a child name into the label used in file names and feed ids.
func LabelFor(childName string) string {
	return strings.Join(strings.Fields(childName), "_")
}

// Key identifies a schedule by child and birth date. It names the artifacts
// and keys the document checkpoint.
func Key(childName string, birth time.Time) string {
	return fmt.Sprintf("study_schedule_%s_%s", LabelFor(childName), birth.Format(types.DateLayout))
}

// CSVName returns the schedule table artifact name for key.
func CSVName(key string) string { return key + ".csv" }

// ParquetName returns the columnar schedule artifact name for key.
func ParquetName(key string) string { return key + ".parquet" }

// FeedName returns the calendar feed artifact name for key.
func FeedName(key string) string { return key + ".ics" }

// KeyFromName strips a known artifact extension from name.
func KeyFromName(name string) string {
	for _, ext := range []string{".csv", ".parquet", ".ics"} {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// EncodeMetadata renders m as indented JSON.
func EncodeMetadata(m Metadata) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, &ArtifactError{Message: "failed to encode metadata", Cause: err}
	}
	return data, nil
}

// DecodeMetadata parses a metadata record and requires a csv path.
func DecodeMetadata(data []byte) (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Metadata{}, &ArtifactError{Message: "failed to decode metadata", Cause: err}
	}
	if m.CSVPath == "" {
		return Metadata{}, &ArtifactError{Message: "metadata has no csv_path"}
	}
	return m, nil
}

// Package tasks defines the structure of ingest jobs sent over Kafka.
package tasks

// IngestTask asks the server to rebuild the vector index from a scraped
// table. Exactly one of ObjectName or TablePath locates the CSV: ObjectName
// points at a MinIO snapshot, TablePath at a local file.
type IngestTask struct {
	ObjectName string `json:"object_name,omitempty"`
	TablePath  string `json:"table_path,omitempty"`
	Region     string `json:"region"`
}

package models

// LogEntry is the compact log form pushed to websocket clients. Logs are
// not persisted here; retention belongs to the file writer.
type LogEntry struct {
	Timestamp string `json:"timestamp"` // HH:MM:SS for display
	Level     string `json:"level"`
	Message   string `json:"message"`
}

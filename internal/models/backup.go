package models

import "time"

// BackupVersion tags the export format written by AdminService.Backup.
const BackupVersion = "2.0"

// BackupData embeds the four persisted collections verbatim.
type BackupData struct {
	Users     []User    `json:"users"`
	Galleries []Gallery `json:"galleries"`
	Posts     []Post    `json:"posts"`
	Comments  []Comment `json:"comments"`
}

// Backup is the whole-store export document. Restore rejects payloads
// missing the Data field.
type Backup struct {
	Version    string      `json:"version"`
	ExportedAt time.Time   `json:"timestamp"`
	Data       *BackupData `json:"data"`
}

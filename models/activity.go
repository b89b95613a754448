package models

import "time"

// Common activity actions. Details are free text.
const (
	ActionLogin        = "LOGIN"
	ActionLoginFailed  = "LOGIN_FAILED"
	ActionFileUpload   = "FILE_UPLOAD"
	ActionFileReassign = "FILE_REASSIGN"
	ActionFileDelete   = "FILE_DELETE"
	ActionFamilyAdd    = "FAMILY_ADD"
	ActionFamilyEdit   = "FAMILY_EDIT"
	ActionFamilyDelete = "FAMILY_DELETE"
	ActionFamilyMerge  = "FAMILY_MERGE"
	ActionBackup       = "BACKUP"
)

// ActivityEntry is one row of the audit trail. The log is capped; the oldest
// entries are pruned once the configured limit is exceeded.
type ActivityEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Action    string    `json:"action" gorm:"index;not null"`
	Username  string    `json:"username" gorm:"index;not null"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"timestamp"`
}

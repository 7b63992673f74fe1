package models

import "time"

// AuditEntry 受控变更审计表
// 说明：仅追加，除全量重置外不修改不删除。
type AuditEntry struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	EntityType       string    `gorm:"type:varchar(40);index;not null" json:"entity_type"`
	EntityID         uint      `gorm:"index;not null" json:"entity_id"`
	OperatorUsername string    `gorm:"type:varchar(100);index;not null;default:''" json:"operator_username"`
	ChangeJSON       JSON      `gorm:"type:json" json:"change"`
	RequestID        string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	CommittedAt      time.Time `gorm:"index" json:"committed_at"`
}

// TableName 指定表名
func (AuditEntry) TableName() string {
	return "audit_entries"
}

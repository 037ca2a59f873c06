package model

import "time"

// AuditRun is one saved execution of the security audit.
type AuditRun struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Endpoint  string
	Passed    int
	Failed    int
	Missing   int
	Results   []AuditResult `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
}

// AuditResult is one check outcome within a run.
type AuditResult struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	RunID    string `gorm:"index"`
	CheckID  string
	Scope    string
	Object   string
	Key      string
	Expected string
	Actual   string
	Status   string
	Severity string
}

// Package store persists audit run history in a local SQLite database.
package store

import (
	"gorm.io/gorm"
)

type Store interface {
	Audit() Audit
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db    *gorm.DB
	audit Audit
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:    db,
		audit: NewAuditStore(db),
	}
}

func (s *DataStore) Audit() Audit {
	return s.audit
}

func (s *DataStore) InitialMigration() error {
	return s.audit.InitialMigration()
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

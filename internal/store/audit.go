package store

import (
	"context"

	"github.com/kubev2v/vcenter-toolkit/internal/store/model"
	"gorm.io/gorm"
)

type Audit interface {
	Create(ctx context.Context, run model.AuditRun) (*model.AuditRun, error)
	List(ctx context.Context) ([]model.AuditRun, error)
	Get(ctx context.Context, id string) (*model.AuditRun, error)
	InitialMigration() error
}

type AuditStore struct {
	db *gorm.DB
}

// Make sure we conform to the Audit interface
var _ Audit = (*AuditStore)(nil)

func NewAuditStore(db *gorm.DB) Audit {
	return &AuditStore{db: db}
}

func (s *AuditStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.AuditRun{}, &model.AuditResult{})
}

func (s *AuditStore) Create(ctx context.Context, run model.AuditRun) (*model.AuditRun, error) {
	if result := s.db.WithContext(ctx).Create(&run); result.Error != nil {
		return nil, result.Error
	}
	return &run, nil
}

// List returns runs newest first, without their per-check results.
func (s *AuditStore) List(ctx context.Context) ([]model.AuditRun, error) {
	var runs []model.AuditRun
	result := s.db.WithContext(ctx).Order("created_at DESC").Find(&runs)
	if result.Error != nil {
		return nil, result.Error
	}
	return runs, nil
}

func (s *AuditStore) Get(ctx context.Context, id string) (*model.AuditRun, error) {
	var run model.AuditRun
	result := s.db.WithContext(ctx).Preload("Results").First(&run, "id = ?", id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &run, nil
}

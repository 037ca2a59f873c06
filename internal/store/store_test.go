package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/kubev2v/vcenter-toolkit/internal/store/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := InitDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	s := NewStore(db)
	require.NoError(t, s.InitialMigration())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAuditRunRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := model.AuditRun{
		ID:       uuid.NewString(),
		Endpoint: "vcenter01.example.com",
		Passed:   10,
		Failed:   2,
		Missing:  1,
		Results: []model.AuditResult{
			{CheckID: "host-ssh-stopped", Object: "esx01", Status: "fail", Severity: "high"},
			{CheckID: "host-ntp-running", Object: "esx01", Status: "pass", Severity: "medium"},
		},
	}

	created, err := s.Audit().Create(ctx, run)
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.Audit().Get(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "vcenter01.example.com", got.Endpoint)
	assert.Equal(t, 2, got.Failed)
	require.Len(t, got.Results, 2)
	assert.Equal(t, "host-ssh-stopped", got.Results[0].CheckID)
}

func TestAuditRunList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Audit().Create(ctx, model.AuditRun{ID: uuid.NewString(), Endpoint: "vc"})
		require.NoError(t, err)
	}

	runs, err := s.Audit().List(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
	// list omits per-check results
	for _, run := range runs {
		assert.Empty(t, run.Results)
	}
}

func TestAuditRunGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Audit().Get(context.Background(), uuid.NewString())
	assert.Error(t, err)
}

package audit

import (
	"context"
	"testing"

	"github.com/kubev2v/vcenter-toolkit/internal/config"
	"github.com/kubev2v/vcenter-toolkit/internal/vsphere"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/simulator"
)

func TestEvaluate(t *testing.T) {
	baseline := []Check{
		{ID: "opt", Scope: ScopeHost, Key: "Security.AccountLockFailures", Expected: "5", Severity: SeverityHigh},
		{ID: "svc", Scope: ScopeHostService, Key: "TSM-SSH", Expected: "stopped", Severity: SeverityHigh},
		{ID: "vmx", Scope: ScopeVM, Key: "isolation.tools.copy.disable", Expected: "true", Severity: SeverityMedium},
	}

	tests := []struct {
		name    string
		hosts   []HostFacts
		vms     []VMFacts
		want    map[string]Status // checkID/object -> status
		passed  int
		failed  int
		missing int
	}{
		{
			name: "compliant host",
			hosts: []HostFacts{
				{
					Name:     "esx01",
					Options:  map[string]string{"Security.AccountLockFailures": "5"},
					Services: map[string]bool{"TSM-SSH": false},
				},
			},
			want: map[string]Status{
				"opt/esx01": StatusPass,
				"svc/esx01": StatusPass,
			},
			passed: 2,
		},
		{
			name: "drifted host",
			hosts: []HostFacts{
				{
					Name:     "esx01",
					Options:  map[string]string{"Security.AccountLockFailures": "0"},
					Services: map[string]bool{"TSM-SSH": true},
				},
			},
			want: map[string]Status{
				"opt/esx01": StatusFail,
				"svc/esx01": StatusFail,
			},
			failed: 2,
		},
		{
			name:  "absent keys report missing",
			hosts: []HostFacts{{Name: "esx01"}},
			vms:   []VMFacts{{Name: "vm01"}},
			want: map[string]Status{
				"opt/esx01": StatusMissing,
				"svc/esx01": StatusMissing,
				"vmx/vm01":  StatusMissing,
			},
			missing: 3,
		},
		{
			name: "vm boolean spelling",
			vms: []VMFacts{
				{Name: "vm01", ExtraConfig: map[string]string{"isolation.tools.copy.disable": "TRUE"}},
				{Name: "vm02", ExtraConfig: map[string]string{"isolation.tools.copy.disable": "1"}},
				{Name: "vm03", ExtraConfig: map[string]string{"isolation.tools.copy.disable": "false"}},
			},
			want: map[string]Status{
				"vmx/vm01": StatusPass,
				"vmx/vm02": StatusPass,
				"vmx/vm03": StatusFail,
			},
			passed: 2,
			failed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Evaluate(baseline, tt.hosts, tt.vms)

			got := map[string]Status{}
			for _, result := range report.Results {
				got[result.CheckID+"/"+result.Object] = result.Status
			}
			for key, want := range tt.want {
				assert.Equal(t, want, got[key], key)
			}
			assert.Equal(t, tt.passed, report.Passed, "passed")
			assert.Equal(t, tt.failed, report.Failed, "failed")
			assert.Equal(t, tt.missing, report.Missing, "missing")
		})
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		expected string
		actual   string
		want     bool
	}{
		{"5", "5", true},
		{"5", " 5 ", true},
		{"5", "6", false},
		{"true", "TRUE", true},
		{"true", "1", true},
		{"false", "0", true},
		{"false", "1", false},
		{"900", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, valuesEqual(tt.expected, tt.actual), "%q vs %q", tt.expected, tt.actual)
	}
}

func TestResultOrdering(t *testing.T) {
	baseline := []Check{
		{ID: "b-check", Scope: ScopeHost, Key: "k1", Expected: "1"},
		{ID: "a-check", Scope: ScopeHost, Key: "k2", Expected: "1"},
	}
	hosts := []HostFacts{{Name: "esx02"}, {Name: "esx01"}}

	report := Evaluate(baseline, hosts, nil)

	require.Len(t, report.Results, 4)
	assert.Equal(t, "esx01", report.Results[0].Object)
	assert.Equal(t, "a-check", report.Results[0].CheckID)
	assert.Equal(t, "esx02", report.Results[2].Object)
}

func TestRunAgainstSimulator(t *testing.T) {
	model := simulator.VPX()
	require.NoError(t, model.Create())
	t.Cleanup(model.Remove)

	server := model.Service.NewServer()
	t.Cleanup(server.Close)

	ctx := context.Background()
	client, err := vsphere.Connect(ctx, &config.Credentials{
		URL:      server.URL.String(),
		Username: "user",
		Password: "pass",
		Insecure: true,
	})
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	report, err := Run(ctx, client, DefaultBaseline())
	require.NoError(t, err)

	// The simulator's hosts and VMs carry none of the hardening keys, so
	// every result must still be accounted for in the counters.
	assert.NotEmpty(t, report.Results)
	assert.Equal(t, len(report.Results), report.Passed+report.Failed+report.Missing)
}

package vsphere

import (
	"context"
	"testing"

	"github.com/kubev2v/vcenter-toolkit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/simulator"
)

func newSimulator(t *testing.T) *simulator.Server {
	t.Helper()

	model := simulator.VPX()
	require.NoError(t, model.Create())
	t.Cleanup(model.Remove)

	server := model.Service.NewServer()
	t.Cleanup(server.Close)
	return server
}

func TestConnect(t *testing.T) {
	server := newSimulator(t)
	ctx := context.Background()

	client, err := Connect(ctx, &config.Credentials{
		URL:      server.URL.String(),
		Username: "user",
		Password: "pass",
		Insecure: true,
	})
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	assert.NotEmpty(t, client.About().Version)
	assert.Contains(t, client.About().ApiType, "VirtualCenter")
}

func TestConnectValidation(t *testing.T) {
	tests := []struct {
		name  string
		creds config.Credentials
	}{
		{
			name:  "missing URL",
			creds: config.Credentials{Username: "user", Password: "pass"},
		},
		{
			name:  "missing username",
			creds: config.Credentials{URL: "https://vcenter.local/sdk", Password: "pass"},
		},
		{
			name:  "missing password",
			creds: config.Credentials{URL: "https://vcenter.local/sdk", Username: "user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Connect(context.Background(), &tt.creds)
			assert.Error(t, err)
		})
	}
}

func TestRetrieveInventory(t *testing.T) {
	server := newSimulator(t)
	ctx := context.Background()

	client, err := Connect(ctx, &config.Credentials{
		URL:      server.URL.String(),
		Username: "user",
		Password: "pass",
		Insecure: true,
	})
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	hosts, err := client.Hosts(ctx, "name", "summary.hardware")
	require.NoError(t, err)
	assert.NotEmpty(t, hosts)

	vms, err := client.VirtualMachines(ctx, "name", "runtime.powerState")
	require.NoError(t, err)
	assert.NotEmpty(t, vms)

	clusters, err := client.Clusters(ctx, "name", "host")
	require.NoError(t, err)
	assert.NotEmpty(t, clusters)

	vm, err := client.FindVM(ctx, "DC0_H0_VM0")
	require.NoError(t, err)
	assert.Equal(t, "DC0_H0_VM0", vm.Name())

	_, err = client.FindVM(ctx, "no-such-vm")
	assert.Error(t, err)
}

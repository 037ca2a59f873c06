package disks

import (
	"context"
	"testing"
	"time"

	"github.com/kubev2v/vcenter-toolkit/internal/config"
	"github.com/kubev2v/vcenter-toolkit/internal/vsphere"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/simulator"
	"github.com/vmware/govmomi/vim25/types"
)

func simClient(t *testing.T) *vsphere.Client {
	t.Helper()

	model := simulator.VPX()
	require.NoError(t, model.Create())
	t.Cleanup(model.Remove)

	server := model.Service.NewServer()
	t.Cleanup(server.Close)

	client, err := vsphere.Connect(context.Background(), &config.Credentials{
		URL:      server.URL.String(),
		Username: "user",
		Password: "pass",
		Insecure: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Disconnect(context.Background()) })
	return client
}

func newTestProvisioner(client *vsphere.Client) *Provisioner {
	return NewProvisioner(client, 10*time.Second, 10*time.Millisecond)
}

func vmDiskCount(t *testing.T, client *vsphere.Client, name string) int {
	t.Helper()
	vm, err := client.FindVM(context.Background(), name)
	require.NoError(t, err)
	devices, err := vm.Device(context.Background())
	require.NoError(t, err)
	return len(devices.SelectByType((*types.VirtualDisk)(nil)))
}

func TestAddDisksHot(t *testing.T) {
	client := simClient(t)
	p := newTestProvisioner(client)

	before := vmDiskCount(t, client, "DC0_H0_VM0")

	result, err := p.AddDisks(context.Background(), AddRequest{
		VMName:  "DC0_H0_VM0",
		Count:   2,
		SizeGiB: 10,
		Thin:    true,
	})
	require.NoError(t, err)

	assert.Len(t, result.Added, 2)
	assert.False(t, result.PowerCycled)
	assert.Equal(t, before+2, vmDiskCount(t, client, "DC0_H0_VM0"))

	// slots continue from the existing disk count
	first, err := SlotForOrdinal(before)
	require.NoError(t, err)
	assert.Equal(t, first, result.Added[0].Slot)
}

func TestAddDisksColdAcrossControllers(t *testing.T) {
	client := simClient(t)
	p := newTestProvisioner(client)

	ctx := context.Background()
	before := vmDiskCount(t, client, "DC0_H0_VM0")
	count := UnitsPerController + 2 - before // reaches bus 1

	result, err := p.AddDisks(ctx, AddRequest{
		VMName:  "DC0_H0_VM0",
		Count:   count,
		SizeGiB: 5,
		Cold:    true,
		Force:   true,
	})
	require.NoError(t, err)

	assert.Len(t, result.Added, count)
	assert.True(t, result.PowerCycled)
	assert.Equal(t, before+count, vmDiskCount(t, client, "DC0_H0_VM0"))

	lastSlot := result.Added[len(result.Added)-1].Slot
	assert.Equal(t, int32(1), lastSlot.Bus)

	// VM is running again after the cold reconfigure
	vm, err := client.FindVM(ctx, "DC0_H0_VM0")
	require.NoError(t, err)
	state, err := vm.PowerState(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.VirtualMachinePowerStatePoweredOn, state)
}

func TestAddDisksHotRefusesNewController(t *testing.T) {
	client := simClient(t)
	p := newTestProvisioner(client)

	before := vmDiskCount(t, client, "DC0_H0_VM0")
	count := UnitsPerController + 1 - before

	_, err := p.AddDisks(context.Background(), AddRequest{
		VMName:  "DC0_H0_VM0",
		Count:   count,
		SizeGiB: 5,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--cold")
}

func TestAddDisksValidation(t *testing.T) {
	client := simClient(t)
	p := newTestProvisioner(client)

	_, err := p.AddDisks(context.Background(), AddRequest{VMName: "DC0_H0_VM0", Count: 1, SizeGiB: 0})
	assert.Error(t, err)

	_, err = p.AddDisks(context.Background(), AddRequest{VMName: "no-such-vm", Count: 1, SizeGiB: 1})
	assert.Error(t, err)

	_, err = p.AddDisks(context.Background(), AddRequest{VMName: "DC0_H0_VM0", Count: MaxDisks + 1, SizeGiB: 1})
	assert.Error(t, err)
}

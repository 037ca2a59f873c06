package disks

import (
	"context"
	"fmt"
	"time"

	"github.com/kubev2v/vcenter-toolkit/internal/vsphere"
	jitterbug "github.com/lthibault/jitterbug/v2"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"
)

// AddRequest describes a disk-provisioning run against one VM.
type AddRequest struct {
	VMName  string
	Count   int
	SizeGiB int64
	Thin    bool
	// Cold shuts the guest down before reconfiguring and powers it back on
	// after. Required when new SCSI controllers have to be added.
	Cold bool
	// Force falls back to a hard power-off when the guest shutdown fails
	// or times out.
	Force bool
}

type AddedDisk struct {
	Slot        Slot  `json:"slot"`
	CapacityGiB int64 `json:"capacityGiB"`
}

type AddResult struct {
	VMName      string      `json:"vmName"`
	Added       []AddedDisk `json:"added"`
	PowerCycled bool        `json:"powerCycled"`
}

// Provisioner carries the shared client and the polling knobs for power
// transitions.
type Provisioner struct {
	client       *vsphere.Client
	taskTimeout  time.Duration
	pollInterval time.Duration
}

func NewProvisioner(client *vsphere.Client, taskTimeout, pollInterval time.Duration) *Provisioner {
	return &Provisioner{
		client:       client,
		taskTimeout:  taskTimeout,
		pollInterval: pollInterval,
	}
}

// AddDisks attaches req.Count new disks to the VM according to the placement
// scheme, creating missing SCSI controllers in the same reconfigure.
func (p *Provisioner) AddDisks(ctx context.Context, req AddRequest) (*AddResult, error) {
	if req.SizeGiB < 1 {
		return nil, fmt.Errorf("disk size must be at least 1 GiB, got %d", req.SizeGiB)
	}

	vm, err := p.client.FindVM(ctx, req.VMName)
	if err != nil {
		return nil, err
	}

	devices, err := vm.Device(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices of %s: %w", req.VMName, err)
	}

	existingDisks := devices.SelectByType((*types.VirtualDisk)(nil))
	slots, err := Plan(len(existingDisks), req.Count)
	if err != nil {
		return nil, err
	}

	controllers := scsiControllersByBus(devices)
	if err := checkSlotsFree(devices, controllers, slots); err != nil {
		return nil, err
	}

	changes, newControllers := buildDeviceChanges(controllers, slots, req)

	state, err := vm.PowerState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read power state of %s: %w", req.VMName, err)
	}

	result := &AddResult{VMName: req.VMName}

	if state == types.VirtualMachinePowerStatePoweredOn {
		if req.Cold {
			if err := p.powerOff(ctx, vm, req.Force); err != nil {
				return nil, err
			}
			result.PowerCycled = true
		} else if newControllers {
			return nil, fmt.Errorf("placing %d disks needs a new SCSI controller, which cannot be hot-added: rerun with --cold", req.Count)
		}
	}

	zap.S().Named("disks").Infof("reconfiguring %s: %d device changes", req.VMName, len(changes))
	task, err := vm.Reconfigure(ctx, types.VirtualMachineConfigSpec{DeviceChange: changes})
	if err != nil {
		return nil, fmt.Errorf("reconfigure of %s failed: %w", req.VMName, err)
	}
	if _, err := task.WaitForResult(ctx, nil); err != nil {
		return nil, fmt.Errorf("reconfigure task on %s failed: %w", req.VMName, err)
	}

	if result.PowerCycled {
		if err := p.powerOn(ctx, vm); err != nil {
			return nil, err
		}
	}

	for _, slot := range slots {
		result.Added = append(result.Added, AddedDisk{Slot: slot, CapacityGiB: req.SizeGiB})
	}
	return result, nil
}

// scsiControllersByBus maps controller bus numbers to device keys.
func scsiControllersByBus(devices object.VirtualDeviceList) map[int32]int32 {
	controllers := map[int32]int32{}
	for _, device := range devices.SelectByType((*types.VirtualSCSIController)(nil)) {
		c := device.(types.BaseVirtualSCSIController).GetVirtualSCSIController()
		controllers[c.BusNumber] = c.Key
	}
	return controllers
}

// checkSlotsFree rejects the plan when a computed slot is already taken,
// which happens when the VM's disks were not laid out by this scheme.
func checkSlotsFree(devices object.VirtualDeviceList, controllers map[int32]int32, slots []Slot) error {
	busByKey := map[int32]int32{}
	for bus, key := range controllers {
		busByKey[key] = bus
	}

	occupied := map[Slot]bool{}
	for _, device := range devices.SelectByType((*types.VirtualDisk)(nil)) {
		vd := device.GetVirtualDevice()
		bus, ok := busByKey[vd.ControllerKey]
		if !ok || vd.UnitNumber == nil {
			continue
		}
		occupied[Slot{Bus: bus, Unit: *vd.UnitNumber}] = true
	}

	for _, slot := range slots {
		if occupied[slot] {
			return fmt.Errorf("slot %d:%d is already occupied; existing disk layout does not match the placement scheme", slot.Bus, slot.Unit)
		}
	}
	return nil
}

// buildDeviceChanges produces the controller and disk add specs. New devices
// get temporary negative keys that vSphere resolves during the reconfigure.
func buildDeviceChanges(controllers map[int32]int32, slots []Slot, req AddRequest) ([]types.BaseVirtualDeviceConfigSpec, bool) {
	var changes []types.BaseVirtualDeviceConfigSpec
	nextKey := int32(-100)
	newControllers := false

	for _, bus := range Buses(slots) {
		if _, ok := controllers[bus]; ok {
			continue
		}
		controller := &types.ParaVirtualSCSIController{
			VirtualSCSIController: types.VirtualSCSIController{
				SharedBus: types.VirtualSCSISharingNoSharing,
				VirtualController: types.VirtualController{
					BusNumber:     bus,
					VirtualDevice: types.VirtualDevice{Key: nextKey},
				},
			},
		}
		controllers[bus] = nextKey
		nextKey--
		newControllers = true
		changes = append(changes, &types.VirtualDeviceConfigSpec{
			Operation: types.VirtualDeviceConfigSpecOperationAdd,
			Device:    controller,
		})
	}

	for _, slot := range slots {
		disk := &types.VirtualDisk{
			VirtualDevice: types.VirtualDevice{
				Key:           nextKey,
				ControllerKey: controllers[slot.Bus],
				UnitNumber:    types.NewInt32(slot.Unit),
				Backing: &types.VirtualDiskFlatVer2BackingInfo{
					VirtualDeviceFileBackingInfo: types.VirtualDeviceFileBackingInfo{FileName: ""},
					DiskMode:                     string(types.VirtualDiskModePersistent),
					ThinProvisioned:              types.NewBool(req.Thin),
				},
			},
			CapacityInKB: req.SizeGiB * 1024 * 1024,
		}
		nextKey--
		changes = append(changes, &types.VirtualDeviceConfigSpec{
			Operation:     types.VirtualDeviceConfigSpecOperationAdd,
			FileOperation: types.VirtualDeviceConfigSpecFileOperationCreate,
			Device:        disk,
		})
	}

	return changes, newControllers
}

// powerOff asks the guest to shut down and waits for the VM to reach
// poweredOff. With force set, a failed or timed-out guest shutdown falls
// back to a hard power-off.
func (p *Provisioner) powerOff(ctx context.Context, vm *object.VirtualMachine, force bool) error {
	zap.S().Named("disks").Infof("shutting down guest of %s", vm.Name())

	if err := vm.ShutdownGuest(ctx); err != nil {
		if !force {
			return fmt.Errorf("guest shutdown failed (rerun with --force to power off hard): %w", err)
		}
		zap.S().Named("disks").Warnf("guest shutdown failed, powering off hard: %v", err)
		return p.hardPowerOff(ctx, vm)
	}

	if err := p.waitForPowerState(ctx, vm, types.VirtualMachinePowerStatePoweredOff); err != nil {
		if !force {
			return err
		}
		zap.S().Named("disks").Warnf("guest shutdown timed out, powering off hard: %v", err)
		return p.hardPowerOff(ctx, vm)
	}
	return nil
}

func (p *Provisioner) hardPowerOff(ctx context.Context, vm *object.VirtualMachine) error {
	task, err := vm.PowerOff(ctx)
	if err != nil {
		return fmt.Errorf("power off of %s failed: %w", vm.Name(), err)
	}
	if _, err := task.WaitForResult(ctx, nil); err != nil {
		return fmt.Errorf("power off task on %s failed: %w", vm.Name(), err)
	}
	return nil
}

func (p *Provisioner) powerOn(ctx context.Context, vm *object.VirtualMachine) error {
	zap.S().Named("disks").Infof("powering %s back on", vm.Name())

	task, err := vm.PowerOn(ctx)
	if err != nil {
		return fmt.Errorf("power on of %s failed: %w", vm.Name(), err)
	}
	if _, err := task.WaitForResult(ctx, nil); err != nil {
		return fmt.Errorf("power on task on %s failed: %w", vm.Name(), err)
	}
	return p.waitForPowerState(ctx, vm, types.VirtualMachinePowerStatePoweredOn)
}

// waitForPowerState polls on a jittered ticker until the VM reaches the
// wanted state or the task timeout elapses.
func (p *Provisioner) waitForPowerState(ctx context.Context, vm *object.VirtualMachine, want types.VirtualMachinePowerState) error {
	ticker := jitterbug.New(p.pollInterval, &jitterbug.Norm{Stdev: p.pollInterval / 10})
	defer ticker.Stop()
	deadline := time.After(p.taskTimeout)

	for {
		state, err := vm.PowerState(ctx)
		if err != nil {
			return fmt.Errorf("failed to read power state of %s: %w", vm.Name(), err)
		}
		if state == want {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("timed out waiting for %s to reach %s", vm.Name(), want)
		case <-ticker.C:
		}
	}
}

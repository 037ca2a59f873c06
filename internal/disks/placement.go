// Package disks attaches virtual disks to a VM with deterministic SCSI
// controller and unit-number placement.
package disks

import (
	"fmt"
)

const (
	// MaxControllers is the number of SCSI controllers a VM can carry.
	MaxControllers = 4
	// ReservedUnit is the unit number each SCSI controller claims for itself.
	ReservedUnit = 7
	// UnitsPerController is the number of usable disk slots per controller:
	// units 0..15 minus the controller's own slot.
	UnitsPerController = 15
	// MaxDisks is the placement scheme's hard ceiling per VM.
	MaxDisks = MaxControllers * UnitsPerController
)

// Slot is one controller/unit position.
type Slot struct {
	Bus  int32 `json:"bus"`
	Unit int32 `json:"unit"`
}

// SlotForOrdinal maps a disk ordinal (0-based, counting every disk on the VM)
// to its controller bus and unit number. Ordinals fill controller 0 first,
// and unit numbers at or past the reserved slot are shifted up by one so the
// controller's own unit is never assigned.
func SlotForOrdinal(ordinal int) (Slot, error) {
	if ordinal < 0 {
		return Slot{}, fmt.Errorf("invalid disk ordinal %d", ordinal)
	}
	if ordinal >= MaxDisks {
		return Slot{}, fmt.Errorf("disk ordinal %d exceeds the maximum of %d disks", ordinal, MaxDisks)
	}

	unit := int32(ordinal % UnitsPerController)
	if unit >= ReservedUnit {
		unit++
	}
	return Slot{Bus: int32(ordinal / UnitsPerController), Unit: unit}, nil
}

// Plan returns the slots for count new disks on a VM that already carries
// existing disks.
func Plan(existing, count int) ([]Slot, error) {
	if count < 1 {
		return nil, fmt.Errorf("disk count must be positive, got %d", count)
	}
	if existing+count > MaxDisks {
		return nil, fmt.Errorf("cannot place %d more disks: VM has %d and the scheme allows %d", count, existing, MaxDisks)
	}

	slots := make([]Slot, 0, count)
	for i := 0; i < count; i++ {
		slot, err := SlotForOrdinal(existing + i)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// Buses returns the distinct controller buses the given slots occupy, in
// ascending order.
func Buses(slots []Slot) []int32 {
	seen := map[int32]bool{}
	var buses []int32
	for _, slot := range slots {
		if !seen[slot.Bus] {
			seen[slot.Bus] = true
			buses = append(buses, slot.Bus)
		}
	}
	return buses
}

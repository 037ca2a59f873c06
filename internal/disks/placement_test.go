package disks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotForOrdinal(t *testing.T) {
	tests := []struct {
		ordinal int
		want    Slot
	}{
		{0, Slot{Bus: 0, Unit: 0}},
		{1, Slot{Bus: 0, Unit: 1}},
		{6, Slot{Bus: 0, Unit: 6}},
		// unit 7 is the controller itself; ordinal 7 lands on unit 8
		{7, Slot{Bus: 0, Unit: 8}},
		{8, Slot{Bus: 0, Unit: 9}},
		{14, Slot{Bus: 0, Unit: 15}},
		// controller rollover
		{15, Slot{Bus: 1, Unit: 0}},
		{21, Slot{Bus: 1, Unit: 6}},
		{22, Slot{Bus: 1, Unit: 8}},
		{29, Slot{Bus: 1, Unit: 15}},
		{30, Slot{Bus: 2, Unit: 0}},
		{45, Slot{Bus: 3, Unit: 0}},
		{59, Slot{Bus: 3, Unit: 15}},
	}

	for _, tt := range tests {
		slot, err := SlotForOrdinal(tt.ordinal)
		require.NoError(t, err, "ordinal %d", tt.ordinal)
		assert.Equal(t, tt.want, slot, "ordinal %d", tt.ordinal)
	}
}

func TestSlotForOrdinalNeverReserved(t *testing.T) {
	seen := map[Slot]bool{}
	for i := 0; i < MaxDisks; i++ {
		slot, err := SlotForOrdinal(i)
		require.NoError(t, err)
		assert.NotEqual(t, int32(ReservedUnit), slot.Unit, "ordinal %d", i)
		assert.False(t, seen[slot], "ordinal %d reuses slot %+v", i, slot)
		seen[slot] = true
	}
}

func TestSlotForOrdinalBounds(t *testing.T) {
	_, err := SlotForOrdinal(-1)
	assert.Error(t, err)

	_, err = SlotForOrdinal(MaxDisks)
	assert.Error(t, err)
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		existing int
		count    int
		want     []Slot
		wantErr  bool
	}{
		{
			name:  "first disks on empty VM",
			count: 3,
			want:  []Slot{{0, 0}, {0, 1}, {0, 2}},
		},
		{
			name:     "crossing the reserved unit",
			existing: 6,
			count:    3,
			want:     []Slot{{0, 6}, {0, 8}, {0, 9}},
		},
		{
			name:     "crossing a controller boundary",
			existing: 14,
			count:    2,
			want:     []Slot{{0, 15}, {1, 0}},
		},
		{
			name:     "fills to the ceiling",
			existing: MaxDisks - 1,
			count:    1,
			want:     []Slot{{3, 15}},
		},
		{
			name:     "over the ceiling",
			existing: MaxDisks - 1,
			count:    2,
			wantErr:  true,
		},
		{
			name:    "zero count",
			count:   0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := Plan(tt.existing, tt.count)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, slots)
		})
	}
}

func TestBuses(t *testing.T) {
	slots := []Slot{{0, 14}, {0, 15}, {1, 0}, {1, 1}}
	assert.Equal(t, []int32{0, 1}, Buses(slots))
}

package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

func at(day, hour, min int) time.Time {
	return time.Date(2026, time.March, day, hour, min, 0, 0, wib)
}

func TestSlotDuration(t *testing.T) {
	for _, kind := range []Kind{KindCommunal, KindKitchen, KindWasherWomen, KindWasherMen, KindMultipurpose, KindTheater} {
		d, err := SlotDuration(kind)
		require.NoError(t, err)
		assert.Equal(t, time.Hour, d, kind)
	}

	d, err := SlotDuration(KindCoworking)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, d)

	_, err = SlotDuration("sauna")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDaySlots(t *testing.T) {
	t.Run("one hour kinds", func(t *testing.T) {
		slots, err := DaySlots(at(3, 15, 42), KindCommunal, wib)
		require.NoError(t, err)
		require.Len(t, slots, 16)
		assert.Equal(t, at(3, 6, 0), slots[0].Start)
		assert.Equal(t, at(3, 22, 0), slots[15].End)
		for i := 1; i < len(slots); i++ {
			assert.Equal(t, slots[i-1].End, slots[i].Start, "slots are contiguous")
		}
	})

	t.Run("co-working", func(t *testing.T) {
		slots, err := DaySlots(at(3, 0, 0), KindCoworking, wib)
		require.NoError(t, err)
		require.Len(t, slots, 8)
		assert.Equal(t, at(3, 6, 0), slots[0].Start)
		assert.Equal(t, at(3, 8, 0), slots[0].End)
		assert.Equal(t, at(3, 22, 0), slots[7].End)
	})

	t.Run("date is read in the facility zone", func(t *testing.T) {
		// 20:00 UTC on the 2nd is already the 3rd in WIB.
		slots, err := DaySlots(time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC), KindTheater, wib)
		require.NoError(t, err)
		assert.Equal(t, at(3, 6, 0), slots[0].Start)
	})

	t.Run("restartable", func(t *testing.T) {
		a, err := DaySlots(at(3, 0, 0), KindKitchen, wib)
		require.NoError(t, err)
		b, err := DaySlots(at(3, 0, 0), KindKitchen, wib)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := DaySlots(at(3, 0, 0), "sauna", wib)
		assert.ErrorIs(t, err, ErrUnknownKind)
	})
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Washer-Women ")
	require.NoError(t, err)
	assert.Equal(t, KindWasherWomen, k)

	_, err = ParseKind("washer")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestPolicies(t *testing.T) {
	policies := NewPolicies(time.Thursday)
	assert.Len(t, policies.Kinds(), 7)

	cw, err := policies.Get(KindCoworking)
	require.NoError(t, err)
	require.NotNil(t, cw.BlackoutWeekday)
	assert.Equal(t, time.Thursday, *cw.BlackoutWeekday)
	assert.Equal(t, 2*time.Hour, cw.SlotDuration)
	assert.Equal(t, PartitionNone, cw.Partition)

	communal, err := policies.Get(KindCommunal)
	require.NoError(t, err)
	assert.Nil(t, communal.BlackoutWeekday)
	assert.Equal(t, PartitionFloor, communal.Partition)

	_, err = policies.Get("sauna")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestUnitFor(t *testing.T) {
	policies := NewPolicies(time.Thursday)
	floor := func(n int) *int { return &n }
	id := func(s string) *string { return &s }

	tests := []struct {
		name       string
		kind       Kind
		floor      *int
		facilityID *string
		want       UnitKey
		wantErr    bool
	}{
		{name: "floor", kind: KindCommunal, floor: floor(2), want: UnitKey{Kind: KindCommunal, Partition: "2"}},
		{name: "floor zero", kind: KindCommunal, floor: floor(0), wantErr: true},
		{name: "floor missing", kind: KindCommunal, wantErr: true},
		{name: "facility", kind: KindKitchen, facilityID: id("stove-1"), want: UnitKey{Kind: KindKitchen, Partition: "stove-1"}},
		{name: "facility blank", kind: KindKitchen, facilityID: id("  "), wantErr: true},
		{name: "facility id case folded", kind: KindWasherMen, facilityID: id(" 3F2B9C1E-AAAA-4BBB-8CCC-0000000000D1 "), want: UnitKey{Kind: KindWasherMen, Partition: "3f2b9c1e-aaaa-4bbb-8ccc-0000000000d1"}},
		{name: "singleton ignores partition", kind: KindTheater, floor: floor(4), want: UnitKey{Kind: KindTheater}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pol, err := policies.Get(tt.kind)
			require.NoError(t, err)

			got, err := pol.UnitFor(tt.floor, tt.facilityID)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidUnit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnit(t *testing.T) {
	policies := NewPolicies(time.Thursday)
	communal, _ := policies.Get(KindCommunal)

	u, err := communal.ParseUnit("3")
	require.NoError(t, err)
	assert.Equal(t, "communal/3", u.String())

	_, err = communal.ParseUnit("third")
	assert.ErrorIs(t, err, ErrInvalidUnit)

	theater, _ := policies.Get(KindTheater)
	u, err = theater.ParseUnit("anything")
	require.NoError(t, err)
	assert.Equal(t, "theater", u.String())
}

// Package rotation implements the pure cycle math of the shift rotation:
// mapping a calendar date, for a member with a fixed phase offset, to a
// shift slot under a fixed-length repeating cycle.
package rotation

import (
	"fmt"
	"time"
)

// Supported cycle lengths. The 4-day cycle has no off-days; the 8-day
// cycle works the same 4 phases and then rests 4 days.
const (
	CycleFour  = 4
	CycleEight = 8
)

// Slot indices produced by the clock. The second day of each pair swaps
// the two members so neither is stuck with the same sub-slot.
const (
	SlotDayFirst    = 0
	SlotDaySecond   = 1
	SlotNightFirst  = 2
	SlotNightSecond = 3
)

// FlooredMod returns a mod m with the sign of m, so dates before the
// epoch still resolve to a phase in [0, m).
func FlooredMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// NormalizeCycle validates a cycle length, falling back to the 4-day
// cycle for anything it does not recognize.
func NormalizeCycle(cycleLength int) (int, error) {
	switch cycleLength {
	case CycleFour, CycleEight:
		return cycleLength, nil
	default:
		return CycleFour, fmt.Errorf("unsupported cycle length %d, using %d", cycleLength, CycleFour)
	}
}

// ResolveSlot maps a target date to the slot index a member occupies,
// given the group's epoch and cycle length and the member's base
// position (0 or 1). The second return is false on an off-day, which
// only occurs with the 8-day cycle.
//
// Phase mapping (d = days since epoch mod cycle):
//
//	d=0  Day-1    slot = basePos
//	d=1  Day-2    slot = 1 - basePos (pair swap)
//	d=2  Night-1  slot = basePos + 2
//	d=3  Night-2  slot = 3 - basePos (pair swap)
//	d>3  off      (8-day cycle only)
func ResolveSlot(epoch time.Time, cycleLength, basePos int, target time.Time) (int, bool) {
	cycle, _ := NormalizeCycle(cycleLength)

	days := DaysBetween(epoch, target)
	d := FlooredMod(days, cycle)

	switch d {
	case 0:
		return basePos, true
	case 1:
		return 1 - basePos, true
	case 2:
		return basePos + 2, true
	case 3:
		return 3 - basePos, true
	default:
		return 0, false
	}
}

// CycleDay returns the phase index of a date within the cycle.
func CycleDay(epoch time.Time, cycleLength int, target time.Time) int {
	cycle, _ := NormalizeCycle(cycleLength)
	return FlooredMod(DaysBetween(epoch, target), cycle)
}

// DaysBetween counts whole calendar days from a to b, ignoring the
// time-of-day and zone components.
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}

// LocalDate shifts a calendar date into a group's utc-offset zone using
// a noon pivot, so the offset never moves the date by more than one day.
func LocalDate(d time.Time, tzOffsetHours int) time.Time {
	pivot := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
	local := pivot.Add(time.Duration(tzOffsetHours) * time.Hour)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

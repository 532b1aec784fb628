package wochenbericht

import "strconv"

const minutesPerDay = 24 * 60

// GrossHours is the elapsed time from start to end. An end before the
// start is taken to be on the following day.
func GrossHours(start, end Clock) float64 {
	diff := end.Minutes() - start.Minutes()
	if diff < 0 {
		diff += minutesPerDay
	}
	return float64(diff) / 60.0
}

// AutoBreak is the break the template deducts for a given gross figure.
func AutoBreak(gross float64) float64 {
	switch {
	case gross > 9.5:
		return 0.75
	case gross > 6:
		return 0.5
	default:
		return 0
	}
}

var breakCandidates = [...]float64{0, 0.5, 0.75}

// InferBreak guesses the auto break behind a net figure when the clock
// times are unknown. Several candidates can be consistent; the smallest wins.
func InferBreak(net float64) (float64, bool) {
	for _, b := range breakCandidates {
		if AutoBreak(net+b) == b {
			return b, true
		}
	}
	return 0, false
}

// round2 rounds the exact binary value half to even, so 8.125 stays 8.12.
func round2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}

// BreakSource says where ResolvedDay.Break came from.
type BreakSource int

const (
	BreakNone BreakSource = iota
	// BreakExplicit comes from pauseOverride.
	BreakExplicit
	// BreakAuto is deducted from the clock times.
	BreakAuto
	// BreakInferred is recovered from a net figure.
	BreakInferred
)

// ResolvedDay is the computed hours and break of one DayRecord.
type ResolvedDay struct {
	Hours       Decimal
	Break       float64
	BreakSource BreakSource

	Start, End       Clock
	HasStart, HasEnd bool
}

// ResolveDay applies the override precedence: explicit day hours, then
// clock times minus break, then nothing.
func ResolveDay(rec DayRecord) ResolvedDay {
	var rd ResolvedDay
	rd.Start, rd.HasStart = ParseClock(rec.Beginn)
	rd.End, rd.HasEnd = ParseClock(rec.Ende)
	pause, hasPause := ParseDecimal(rec.PauseOverride).Float()

	switch {
	case rec.DayHoursOverride.Kind == OverrideExplicit:
		rd.Hours = rec.DayHoursOverride.Value
	case rd.HasStart && rd.HasEnd:
		gross := GrossHours(rd.Start, rd.End)
		deduction := AutoBreak(gross)
		rd.BreakSource = BreakAuto
		if hasPause {
			deduction = pause
		}
		rd.Break = deduction
		rd.Hours = NumberValue(round2(gross - deduction))
	}

	if hasPause {
		rd.Break, rd.BreakSource = pause, BreakExplicit
		return rd
	}
	if !rd.HasStart && !rd.HasEnd {
		if net, ok := rd.Hours.Float(); ok {
			if b, ok := InferBreak(net); ok {
				rd.Break, rd.BreakSource = b, BreakInferred
			}
		}
	}
	return rd
}

// breakCellValue returns the value for the break column, if one should be
// written over the template's own break formula.
func (rd ResolvedDay) breakCellValue() (float64, bool) {
	switch rd.BreakSource {
	case BreakExplicit:
		return rd.Break, true
	case BreakInferred:
		return rd.Break, rd.Break > 0
	}
	return 0, false
}

package wochenbericht

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const isoDateLayout = "2006-01-02"

// ParseISODate parses YYYY-MM-DD. ok is false for anything else.
func ParseISODate(s string) (time.Time, bool) {
	d, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func parseDateField(f Field) (time.Time, bool) {
	if f.Kind != FieldString {
		return time.Time{}, false
	}
	return ParseISODate(f.Str)
}

// Clock is a local wall-clock time without date or zone.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) Minutes() int { return c.Hour*60 + c.Minute }

// Duration is the offset from midnight, the form excelize stores as a time of day.
func (c Clock) Duration() time.Duration {
	return time.Duration(c.Minutes()) * time.Minute
}

// ParseClock parses "HH:MM". Non-strings, empty strings and anything
// that is not exactly two numeric parts in range give ok == false.
func ParseClock(f Field) (Clock, bool) {
	if f.Kind != FieldString || f.Str == "" {
		return Clock{}, false
	}
	parts := strings.Split(f.Str, ":")
	if len(parts) != 2 {
		return Clock{}, false
	}
	hh, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Clock{}, false
	}
	mm, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Clock{}, false
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return Clock{}, false
	}
	return Clock{Hour: hh, Minute: mm}, true
}

type decimalKind int

const (
	decimalAbsent decimalKind = iota
	decimalNumber
	decimalText
)

// Decimal is a normalized numeric field: a finite number, text that did
// not look numeric (kept for display, e.g. "x"), or nothing.
type Decimal struct {
	kind decimalKind
	num  float64
	text string
}

func NumberValue(n float64) Decimal { return Decimal{kind: decimalNumber, num: n} }

func TextValue(s string) Decimal { return Decimal{kind: decimalText, text: s} }

func (d Decimal) IsAbsent() bool { return d.kind == decimalAbsent }

func (d Decimal) Float() (float64, bool) { return d.num, d.kind == decimalNumber }

func (d Decimal) Text() (string, bool) { return d.text, d.kind == decimalText }

// CellValue is the value written for pass-through numeric columns; absent becomes "".
func (d Decimal) CellValue() any {
	switch d.kind {
	case decimalNumber:
		return d.num
	case decimalText:
		return d.text
	default:
		return ""
	}
}

// ParseDecimal accepts a comma or a dot as decimal separator.
func ParseDecimal(f Field) Decimal {
	switch f.Kind {
	case FieldAbsent:
		return Decimal{}
	case FieldNumber:
		return NumberValue(f.Num)
	case FieldOther:
		return TextValue(f.Str)
	}
	return parseDecimalString(f.Str)
}

func parseDecimalString(s string) Decimal {
	trimmed := strings.TrimSpace(s)
	txt := strings.ReplaceAll(trimmed, ",", ".")
	if txt == "" {
		return Decimal{}
	}
	n, err := strconv.ParseFloat(txt, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return TextValue(trimmed)
	}
	return NumberValue(n)
}

// OverrideKind discriminates HoursOverride.
type OverrideKind int

const (
	OverrideAbsent OverrideKind = iota
	OverrideDeriveFromTime
	OverrideExplicit
)

// deriveFromTimeMarker is how the request layer spells OverrideDeriveFromTime.
const deriveFromTimeMarker = "__AUTO_FROM_TIME__"

// HoursOverride is the day-hours override of a DayRecord.
type HoursOverride struct {
	Kind  OverrideKind
	Value Decimal
}

func ExplicitHours(v Decimal) HoursOverride {
	return HoursOverride{Kind: OverrideExplicit, Value: v}
}

func DeriveFromTime() HoursOverride {
	return HoursOverride{Kind: OverrideDeriveFromTime}
}

func (o *HoursOverride) UnmarshalJSON(b []byte) error {
	var f Field
	if err := f.UnmarshalJSON(b); err != nil {
		return err
	}
	*o = OverrideFromField(f)
	return nil
}

// OverrideFromField maps the wire form onto the override variants. Blank
// strings carry no override.
func OverrideFromField(f Field) HoursOverride {
	switch f.Kind {
	case FieldAbsent:
		return HoursOverride{}
	case FieldString:
		s := strings.TrimSpace(f.Str)
		switch s {
		case "":
			return HoursOverride{}
		case deriveFromTimeMarker:
			return DeriveFromTime()
		}
		return ExplicitHours(parseDecimalString(s))
	}
	return ExplicitHours(ParseDecimal(f))
}

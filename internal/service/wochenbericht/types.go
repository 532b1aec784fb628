package wochenbericht

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FieldKind says what the request layer actually sent for a loosely typed field.
type FieldKind int

const (
	FieldAbsent FieldKind = iota // missing key or JSON null
	FieldString
	FieldNumber
	FieldOther // booleans, objects, arrays
)

// Field is a payload value that may arrive as a string, a number or not at all.
type Field struct {
	Kind FieldKind
	Str  string
	Num  float64
}

func String(s string) Field { return Field{Kind: FieldString, Str: s} }

func Number(n float64) Field { return Field{Kind: FieldNumber, Num: n} }

func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*f = Field{}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = String(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return err
		}
		*f = Number(n)
	default:
		*f = Field{Kind: FieldOther, Str: string(b)}
	}
	return nil
}

// CellValue is the value copied verbatim into a pass-through column.
func (f Field) CellValue() any {
	switch f.Kind {
	case FieldString, FieldOther:
		return f.Str
	case FieldNumber:
		return f.Num
	default:
		return ""
	}
}

// DayRecord is one input line of a weekly report.
type DayRecord struct {
	Date             Field         `json:"date"`
	SiteNameOrt      Field         `json:"siteNameOrt"`
	LohnType         Field         `json:"lohnType"`
	Ausloese         Field         `json:"ausloese"`
	Projektnummer    Field         `json:"projektnummer"`
	KabelschachtInfo Field         `json:"kabelschachtInfo"`
	Bauleiter        Field         `json:"bauleiter"`
	Arbeitskollege   Field         `json:"arbeitskollege"`
	Beginn           Field         `json:"beginn"`
	Ende             Field         `json:"ende"`
	DayHoursOverride HoursOverride `json:"dayHoursOverride"`
	PauseOverride    Field         `json:"pauseOverride"`
	Zulage           Field         `json:"zulage"`
	SmNr             Field         `json:"smNr"`
}

// Profile fields are copied into the header as sent, numbers included.
type Profile struct {
	Name                   Field `json:"name"`
	Vorname                Field `json:"vorname"`
	ArbeitsstaetteProjekte Field `json:"arbeitsstaetteProjekte"`
	ArtDerArbeit           Field `json:"artDerArbeit"`
}

// Segment is the payload for one filled report: one week against one template.
type Segment struct {
	KW            Field       `json:"kw"`
	ReportStartDe Field       `json:"reportStartDe"`
	ReportEnd     string      `json:"reportEnd"`
	Profile       Profile     `json:"profile"`
	SegmentDates  []string    `json:"segmentDates"`
	AllWeekDates  []string    `json:"allWeekDates"`
	Rows          []DayRecord `json:"rows"`
}

// Result is what a filled segment reports back to the caller.
type Result struct {
	RowsWritten   int      `json:"rows_written"`
	RowsTruncated int      `json:"rows_truncated"`
	Warnings      []string `json:"warnings"`
}

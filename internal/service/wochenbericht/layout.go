package wochenbericht

import (
	"fmt"
	"time"
)

// SheetName is the sheet every template must carry.
const SheetName = "Wochenbericht"

// Grid layout of the weekly report template.
const (
	WeekdayRow   = 9
	FirstDataRow = 10
	LastDataRow  = 49
	Capacity     = LastDataRow - FirstDataRow + 1
)

// Header cells.
const (
	cellKW                     = "H1"
	cellReportStart            = "L1"
	cellReportEnd              = "R1"
	cellName                   = "D3"
	cellVorname                = "P3"
	cellArbeitsstaetteProjekte = "D5"
	cellArtDerArbeit           = "D6"
)

// Data row columns. G (break), O and P hold template formulas and are
// only written when an explicit value is set.
const (
	colSite             = "A"
	colBeginn           = "E"
	colEnde             = "F"
	colBreak            = "G"
	colLohnType         = "Q"
	colAusloese         = "R"
	colZulage           = "S"
	colProjektnummer    = "T"
	colKabelschachtInfo = "U"
	colSmNr             = "V"
	colBauleiter        = "W"
	colArbeitskollege   = "X"
)

// weekdayColumns is indexed by ISO weekday - 1 (Monday first).
var weekdayColumns = [7]string{"H", "I", "J", "K", "L", "M", "N"}

// clearedColumns are emptied on every data row before writing.
var clearedColumns = []string{
	colSite, colBeginn, colEnde,
	"H", "I", "J", "K", "L", "M", "N",
	colLohnType, colAusloese, colZulage, colProjektnummer,
	colKabelschachtInfo, colSmNr, colBauleiter, colArbeitskollege,
}

// ISOWeekday maps time.Weekday onto 1 (Monday) .. 7 (Sunday).
func ISOWeekday(d time.Time) int {
	if wd := d.Weekday(); wd != time.Sunday {
		return int(wd)
	}
	return 7
}

// WeekdayColumn is the hours column of the date's weekday.
func WeekdayColumn(d time.Time) string {
	return weekdayColumns[ISOWeekday(d)-1]
}

// DataRow is the sheet row of the idx-th input record; ok is false past capacity.
func DataRow(idx int) (int, bool) {
	if idx < 0 || idx >= Capacity {
		return 0, false
	}
	return FirstDataRow + idx, true
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

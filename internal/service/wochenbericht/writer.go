package wochenbericht

import (
	"errors"
	"fmt"
	"github.com/xuri/excelize/v2"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrSheetNotFound  = errors.New("sheet '" + SheetName + "' not found in template")
	ErrInvalidSegment = errors.New("invalid segment payload")
)

// absenceMarker is the canonical spelling of the "not present" day code.
const absenceMarker = "x"

// sheetWriter remembers the first failed write so the fill code can stay linear.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(axis string, v any) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellValue(w.sheet, axis, v); err != nil {
		w.err = fmt.Errorf("set %s!%s: %w", w.sheet, axis, err)
	}
}

type header struct {
	kw        int
	reportEnd time.Time
}

// Fill writes seg into the report sheet of f. f is mutated in place; the
// caller owns loading and saving it. Nothing is written when the sheet is
// missing or the header fields are unusable.
func Fill(f *excelize.File, seg Segment) (Result, error) {
	const op = "service.wochenbericht.Fill"

	idx, err := f.GetSheetIndex(SheetName)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	if idx < 0 {
		return Result{}, fmt.Errorf("%s: %w", op, ErrSheetNotFound)
	}

	h, err := parseHeader(seg)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	markers, err := weekdayMarkers(seg)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	w := &sheetWriter{f: f, sheet: SheetName}
	writeHeader(w, seg, h)
	writeWeekdayRow(w, markers)
	clearDataRows(w)
	res := writeRows(w, seg.Rows)
	if w.err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, w.err)
	}
	return res, nil
}

func parseHeader(seg Segment) (header, error) {
	var h header
	switch seg.KW.Kind {
	case FieldNumber:
		h.kw = int(seg.KW.Num)
	case FieldString:
		kw, err := strconv.Atoi(strings.TrimSpace(seg.KW.Str))
		if err != nil {
			return h, fmt.Errorf("%w: kw %q is not a week number", ErrInvalidSegment, seg.KW.Str)
		}
		h.kw = kw
	default:
		return h, fmt.Errorf("%w: kw is required", ErrInvalidSegment)
	}

	end, ok := ParseISODate(seg.ReportEnd)
	if !ok {
		return h, fmt.Errorf("%w: reportEnd %q is not an ISO date", ErrInvalidSegment, seg.ReportEnd)
	}
	h.reportEnd = end
	return h, nil
}

func writeHeader(w *sheetWriter, seg Segment, h header) {
	w.set(cellKW, h.kw)
	// L1 is text-formatted in the template.
	w.set(cellReportStart, seg.ReportStartDe.CellValue())
	w.set(cellReportEnd, h.reportEnd)

	w.set(cellName, seg.Profile.Name.CellValue())
	w.set(cellVorname, seg.Profile.Vorname.CellValue())
	w.set(cellArbeitsstaetteProjekte, seg.Profile.ArbeitsstaetteProjekte.CellValue())
	w.set(cellArtDerArbeit, seg.Profile.ArtDerArbeit.CellValue())
}

// weekdayMarkers maps weekday columns to the day of month for every date
// of the week that is active in this segment.
func weekdayMarkers(seg Segment) (map[string]int, error) {
	active := make(map[string]struct{}, len(seg.SegmentDates))
	for _, d := range seg.SegmentDates {
		active[d] = struct{}{}
	}

	markers := make(map[string]int, len(weekdayColumns))
	for _, iso := range seg.AllWeekDates {
		if _, ok := active[iso]; !ok {
			continue
		}
		d, ok := ParseISODate(iso)
		if !ok {
			return nil, fmt.Errorf("%w: week date %q is not an ISO date", ErrInvalidSegment, iso)
		}
		markers[WeekdayColumn(d)] = d.Day()
	}
	return markers, nil
}

func writeWeekdayRow(w *sheetWriter, markers map[string]int) {
	for _, col := range weekdayColumns {
		w.set(cell(col, WeekdayRow), nil)
	}
	for _, col := range weekdayColumns {
		if day, ok := markers[col]; ok {
			w.set(cell(col, WeekdayRow), day)
		}
	}
}

func clearDataRows(w *sheetWriter) {
	for row := FirstDataRow; row <= LastDataRow; row++ {
		for _, col := range clearedColumns {
			w.set(cell(col, row), nil)
		}
	}
}

func writeRows(w *sheetWriter, rows []DayRecord) Result {
	res := Result{Warnings: []string{}}

	kept := rows
	if len(rows) > Capacity {
		kept = rows[:Capacity]
		res.RowsTruncated = len(rows) - Capacity
		res.Warnings = append(res.Warnings, TruncationWarning(res.RowsTruncated))
	}

	for idx, rec := range kept {
		row, _ := DataRow(idx)
		writeRow(w, row, rec)
	}
	res.RowsWritten = len(kept)
	return res
}

// TruncationWarning is the caller-facing note about dropped input rows.
func TruncationWarning(dropped int) string {
	return fmt.Sprintf(
		"More than %d lines for this report. Export truncated by %d line(s) to fit Excel rows %d-%d.",
		Capacity, dropped, FirstDataRow, LastDataRow,
	)
}

func writeRow(w *sheetWriter, row int, rec DayRecord) {
	rd := ResolveDay(rec)

	w.set(cell(colSite, row), rec.SiteNameOrt.CellValue())
	if rd.HasStart {
		w.set(cell(colBeginn, row), rd.Start.Duration())
	}
	if rd.HasEnd {
		w.set(cell(colEnde, row), rd.End.Duration())
	}
	if b, ok := rd.breakCellValue(); ok {
		w.set(cell(colBreak, row), b)
	}

	if d, ok := parseDateField(rec.Date); ok {
		if v, ok := dayCellValue(rd.Hours); ok {
			w.set(cell(WeekdayColumn(d), row), v)
		}
	}

	w.set(cell(colLohnType, row), rec.LohnType.CellValue())
	w.set(cell(colAusloese, row), rec.Ausloese.CellValue())
	w.set(cell(colZulage, row), ParseDecimal(rec.Zulage).CellValue())
	w.set(cell(colProjektnummer, row), rec.Projektnummer.CellValue())
	w.set(cell(colKabelschachtInfo, row), rec.KabelschachtInfo.CellValue())
	w.set(cell(colSmNr, row), ParseDecimal(rec.SmNr).CellValue())
	w.set(cell(colBauleiter, row), rec.Bauleiter.CellValue())
	w.set(cell(colArbeitskollege, row), rec.Arbeitskollege.CellValue())
}

// dayCellValue is what goes into the weekday hours column, if anything.
func dayCellValue(hours Decimal) (any, bool) {
	if n, ok := hours.Float(); ok {
		if n >= 0 && !math.IsNaN(n) {
			return n, true
		}
		return nil, false
	}
	if s, ok := hours.Text(); ok {
		marker := strings.TrimSpace(s)
		if marker == "" {
			return nil, false
		}
		if strings.EqualFold(marker, absenceMarker) {
			return absenceMarker, true
		}
		return marker, true
	}
	return nil, false
}

package wochenbericht

import (
	"encoding/json"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var week12 = []string{
	"2024-03-18", "2024-03-19", "2024-03-20", "2024-03-21",
	"2024-03-22", "2024-03-23", "2024-03-24",
}

func newTemplate(t *testing.T) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	require.NoError(t, f.SetSheetName("Sheet1", SheetName))
	for row := FirstDataRow; row <= LastDataRow; row++ {
		require.NoError(t, f.SetCellFormula(SheetName, cell("G", row), fmt.Sprintf("IF(F%d=\"\",\"\",0.5)", row)))
		require.NoError(t, f.SetCellFormula(SheetName, cell("O", row), fmt.Sprintf("SUM(H%d:N%d)", row, row)))
	}
	return f
}

func baseSegment(rows ...DayRecord) Segment {
	return Segment{
		KW:            Number(12),
		ReportStartDe: String("18.03.2024"),
		ReportEnd:     "2024-03-24",
		Profile: Profile{
			Name:                   String("Mustermann"),
			Vorname:                String("Max"),
			ArbeitsstaetteProjekte: String("Glasfaser Nord"),
			ArtDerArbeit:           String("Tiefbau"),
		},
		SegmentDates: []string{"2024-03-20"},
		AllWeekDates: week12,
		Rows:         rows,
	}
}

func get(t *testing.T, f *excelize.File, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(SheetName, axis)
	require.NoError(t, err)
	return v
}

func getFloat(t *testing.T, f *excelize.File, axis string) float64 {
	t.Helper()
	v, err := f.GetCellValue(SheetName, axis, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	n, err := strconv.ParseFloat(v, 64)
	require.NoError(t, err, "cell %s=%q", axis, v)
	return n
}

func TestFill_SingleWednesday(t *testing.T) {
	f := newTemplate(t)

	res, err := Fill(f, baseSegment(DayRecord{
		Date:        String("2024-03-20"),
		SiteNameOrt: String("Hamburg"),
		Beginn:      String("08:00"),
		Ende:        String("17:00"),
	}))
	require.NoError(t, err)

	assert.Equal(t, 1, res.RowsWritten)
	assert.Equal(t, 0, res.RowsTruncated)
	assert.Empty(t, res.Warnings)
	assert.NotNil(t, res.Warnings)

	assert.Equal(t, "12", get(t, f, "H1"))
	assert.Equal(t, "18.03.2024", get(t, f, "L1"))
	assert.NotEmpty(t, get(t, f, "R1"))
	assert.Equal(t, "Mustermann", get(t, f, "D3"))
	assert.Equal(t, "Max", get(t, f, "P3"))
	assert.Equal(t, "Glasfaser Nord", get(t, f, "D5"))
	assert.Equal(t, "Tiefbau", get(t, f, "D6"))

	assert.Equal(t, "20", get(t, f, "J9"))
	assert.Equal(t, "", get(t, f, "H9"))

	assert.Equal(t, "Hamburg", get(t, f, "A10"))
	assert.Equal(t, 8.5, getFloat(t, f, "J10"))
	assert.InDelta(t, 8.0/24, getFloat(t, f, "E10"), 1e-6)
	assert.InDelta(t, 17.0/24, getFloat(t, f, "F10"), 1e-6)
	for _, col := range []string{"H", "I", "K", "L", "M", "N"} {
		assert.Equal(t, "", get(t, f, col+"10"), col)
	}

	formula, err := f.GetCellFormula(SheetName, "G10")
	require.NoError(t, err)
	assert.NotEmpty(t, formula, "auto break stays on the template formula")
}

func TestFill_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := Fill(f, baseSegment(DayRecord{Date: String("2024-03-20")}))
	require.ErrorIs(t, err, ErrSheetNotFound)
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())

	v, err := f.GetCellValue("Sheet1", "H1")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestFill_InvalidHeaderWritesNothing(t *testing.T) {
	f := newTemplate(t)
	seg := baseSegment(DayRecord{Date: String("2024-03-20"), SiteNameOrt: String("Kiel")})
	seg.ReportEnd = "24.03.2024"

	_, err := Fill(f, seg)
	require.ErrorIs(t, err, ErrInvalidSegment)
	assert.Equal(t, "", get(t, f, "H1"))
	assert.Equal(t, "", get(t, f, "A10"))

	seg = baseSegment()
	seg.KW = String("zwölf")
	_, err = Fill(f, seg)
	require.ErrorIs(t, err, ErrInvalidSegment)
}

func TestFill_KWAsString(t *testing.T) {
	f := newTemplate(t)
	seg := baseSegment()
	seg.KW = String(" 7 ")

	_, err := Fill(f, seg)
	require.NoError(t, err)
	assert.Equal(t, "7", get(t, f, "H1"))
}

func TestFill_Truncation(t *testing.T) {
	f := newTemplate(t)

	rows := make([]DayRecord, 43)
	for i := range rows {
		rows[i] = DayRecord{
			Date:             String("2024-03-18"),
			SiteNameOrt:      String(fmt.Sprintf("site-%d", i)),
			DayHoursOverride: ExplicitHours(NumberValue(1)),
		}
	}

	res, err := Fill(f, baseSegment(rows...))
	require.NoError(t, err)

	assert.Equal(t, 40, res.RowsWritten)
	assert.Equal(t, 3, res.RowsTruncated)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "truncated by 3 line(s) to fit Excel rows 10-49")

	assert.Equal(t, "site-0", get(t, f, "A10"))
	assert.Equal(t, "site-39", get(t, f, "A49"))
	assert.Equal(t, "", get(t, f, "A50"))
}

func TestFill_ExactCapacityHasNoWarning(t *testing.T) {
	f := newTemplate(t)
	rows := make([]DayRecord, Capacity)

	res, err := Fill(f, baseSegment(rows...))
	require.NoError(t, err)
	assert.Equal(t, Capacity, res.RowsWritten)
	assert.Equal(t, 0, res.RowsTruncated)
	assert.Empty(t, res.Warnings)
}

func TestFill_ClearsStaleValues(t *testing.T) {
	f := newTemplate(t)
	require.NoError(t, f.SetCellValue(SheetName, "A30", "old site"))
	require.NoError(t, f.SetCellValue(SheetName, "K30", 7.5))
	require.NoError(t, f.SetCellValue(SheetName, "X30", "old colleague"))
	require.NoError(t, f.SetCellValue(SheetName, "H9", 11))

	_, err := Fill(f, baseSegment(DayRecord{Date: String("2024-03-20"), SiteNameOrt: String("Kiel")}))
	require.NoError(t, err)

	assert.Equal(t, "", get(t, f, "A30"))
	assert.Equal(t, "", get(t, f, "K30"))
	assert.Equal(t, "", get(t, f, "X30"))
	assert.Equal(t, "", get(t, f, "H9"))

	formula, err := f.GetCellFormula(SheetName, "O30")
	require.NoError(t, err)
	assert.Equal(t, "SUM(H30:N30)", formula)
}

func TestFill_WeekdayMarkers(t *testing.T) {
	f := newTemplate(t)
	seg := baseSegment()
	seg.SegmentDates = []string{"2024-03-21", "2024-03-24", "2024-04-01"}

	_, err := Fill(f, seg)
	require.NoError(t, err)

	assert.Equal(t, "21", get(t, f, "K9"))
	assert.Equal(t, "24", get(t, f, "N9"))
	for _, col := range []string{"H", "I", "J", "L", "M"} {
		assert.Equal(t, "", get(t, f, col+"9"), col)
	}
}

func TestFill_DayValues(t *testing.T) {
	f := newTemplate(t)

	rows := []DayRecord{
		// absence marker is normalised
		{Date: String("2024-03-18"), DayHoursOverride: ExplicitHours(TextValue("X"))},
		// other text passes through
		{Date: String("2024-03-19"), DayHoursOverride: ExplicitHours(TextValue("Urlaub"))},
		// negative figures are not written
		{Date: String("2024-03-20"), DayHoursOverride: ExplicitHours(NumberValue(-1))},
		// net figure without times shows the inferred break
		{Date: String("2024-03-21"), DayHoursOverride: ExplicitHours(NumberValue(8))},
		// unusable date: no weekday column, rest of the row still written
		{Date: String("21.03.2024"), SiteNameOrt: String("Lübeck"), DayHoursOverride: ExplicitHours(NumberValue(8))},
		// night shift wraps midnight
		{Date: String("2024-03-22"), Beginn: String("22:00"), Ende: String("06:00")},
		// explicit break override is shown
		{Date: String("2024-03-23"), Beginn: String("07:00"), Ende: String("12:00"), PauseOverride: String("0,25")},
	}

	_, err := Fill(f, baseSegment(rows...))
	require.NoError(t, err)

	assert.Equal(t, "x", get(t, f, "H10"))
	assert.Equal(t, "Urlaub", get(t, f, "I11"))
	assert.Equal(t, "", get(t, f, "J12"))

	assert.Equal(t, 8.0, getFloat(t, f, "K13"))
	assert.Equal(t, 0.5, getFloat(t, f, "G13"))

	assert.Equal(t, "Lübeck", get(t, f, "A14"))
	for _, col := range weekdayColumns {
		assert.Equal(t, "", get(t, f, col+"14"), col)
	}

	assert.Equal(t, 7.5, getFloat(t, f, "L15"))
	formula, err := f.GetCellFormula(SheetName, "G15")
	require.NoError(t, err)
	assert.NotEmpty(t, formula)

	assert.Equal(t, 4.75, getFloat(t, f, "M16"))
	assert.Equal(t, 0.25, getFloat(t, f, "G16"))
}

func TestFill_PassThroughColumns(t *testing.T) {
	f := newTemplate(t)

	_, err := Fill(f, baseSegment(DayRecord{
		Date:             String("2024-03-20"),
		LohnType:         String("T"),
		Ausloese:         String("A1"),
		Zulage:           String("12,50"),
		Projektnummer:    String("P-2024-17"),
		KabelschachtInfo: String("KS 4"),
		SmNr:             String("4711"),
		Bauleiter:        String("Schulz"),
		Arbeitskollege:   String("Yilmaz"),
	}, DayRecord{
		Date: String("2024-03-20"),
		SmNr: String("SM-12"),
	}))
	require.NoError(t, err)

	assert.Equal(t, "T", get(t, f, "Q10"))
	assert.Equal(t, "A1", get(t, f, "R10"))
	assert.Equal(t, 12.5, getFloat(t, f, "S10"))
	assert.Equal(t, "P-2024-17", get(t, f, "T10"))
	assert.Equal(t, "KS 4", get(t, f, "U10"))
	assert.Equal(t, 4711.0, getFloat(t, f, "V10"))
	assert.Equal(t, "Schulz", get(t, f, "W10"))
	assert.Equal(t, "Yilmaz", get(t, f, "X10"))

	assert.Equal(t, "SM-12", get(t, f, "V11"))
	assert.Equal(t, "", get(t, f, "S11"))
}

func TestFill_ReexportIsIdempotent(t *testing.T) {
	seg := baseSegment(
		DayRecord{Date: String("2024-03-20"), Beginn: String("08:00"), Ende: String("17:00")},
		DayRecord{Date: String("2024-03-21"), DayHoursOverride: ExplicitHours(NumberValue(8))},
	)

	f := newTemplate(t)
	_, err := Fill(f, seg)
	require.NoError(t, err)
	first := snapshot(t, f)

	_, err = Fill(f, seg)
	require.NoError(t, err)
	assert.Equal(t, first, snapshot(t, f))
}

func snapshot(t *testing.T, f *excelize.File) map[string]string {
	t.Helper()
	out := map[string]string{}
	for row := WeekdayRow; row <= LastDataRow; row++ {
		for _, col := range append([]string{colBreak}, weekdayColumns[:]...) {
			out[cell(col, row)] = get(t, f, cell(col, row))
		}
	}
	return out
}

func TestFill_LooselyTypedHeader(t *testing.T) {
	var seg Segment
	require.NoError(t, json.Unmarshal([]byte(`{
		"kw": "12",
		"reportStartDe": "18.03.2024",
		"reportEnd": "2024-03-24",
		"profile": {"vorname": 4711, "artDerArbeit": null},
		"segmentDates": [],
		"allWeekDates": []
	}`), &seg))

	f := newTemplate(t)
	require.NoError(t, f.SetCellValue(SheetName, "D3", "stale"))

	_, err := Fill(f, seg)
	require.NoError(t, err)

	assert.Equal(t, 4711.0, getFloat(t, f, "P3"))
	assert.Equal(t, "", get(t, f, "D3"))
	assert.Equal(t, "", get(t, f, "D6"))
	assert.Equal(t, "18.03.2024", get(t, f, "L1"))
}

func TestDataRow(t *testing.T) {
	row, ok := DataRow(0)
	assert.True(t, ok)
	assert.Equal(t, FirstDataRow, row)

	row, ok = DataRow(Capacity - 1)
	assert.True(t, ok)
	assert.Equal(t, LastDataRow, row)

	_, ok = DataRow(Capacity)
	assert.False(t, ok)
	_, ok = DataRow(-1)
	assert.False(t, ok)

	assert.Equal(t, 40, Capacity)
}

func TestWeekdayColumn(t *testing.T) {
	for i, iso := range week12 {
		d, ok := ParseISODate(iso)
		require.True(t, ok)
		assert.Equal(t, i+1, ISOWeekday(d))
		assert.Equal(t, weekdayColumns[i], WeekdayColumn(d))
	}
}

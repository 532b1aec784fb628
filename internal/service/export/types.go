package export

import (
	"encoding/json"
	"strconv"
	"strings"
	"wochenbericht/internal/service/wochenbericht"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatBoth Format = "both"
)

func (f Format) wantsPDF() bool {
	return f == FormatPDF || f == FormatBoth
}

func parseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatXLSX, true
	case FormatXLSX, FormatPDF, FormatBoth:
		return f, true
	}
	return "", false
}

// Request is one export call: a template plus the weeks to fill into it.
type Request struct {
	Format           string           `json:"format"`
	TemplateBase64   string           `json:"templateBase64"`
	TemplateFilename string           `json:"templateFilename"`
	Segments         []SegmentRequest `json:"segments"`
}

// SegmentRequest carries one week's payload. The bookkeeping fields are
// not interpreted here, only echoed back in the Report.
type SegmentRequest struct {
	BaseName              wochenbericht.Field    `json:"baseName"`
	SegmentKey            json.RawMessage        `json:"segmentKey"`
	Month                 json.RawMessage        `json:"month"`
	Dates                 []string               `json:"dates"`
	ReportYear            json.RawMessage        `json:"reportYear"`
	ReportKw              json.RawMessage        `json:"reportKw"`
	IsCarryOverToNextYear wochenbericht.Field    `json:"isCarryOverToNextYear"`
	Payload               *wochenbericht.Segment `json:"payload"`
}

var emptySegmentKey = json.RawMessage(`""`)

func (s SegmentRequest) segmentKey() json.RawMessage {
	if len(s.SegmentKey) == 0 {
		return emptySegmentKey
	}
	return s.SegmentKey
}

// fieldText spells a loosely typed value as text; 12 becomes "12".
func fieldText(f wochenbericht.Field) string {
	switch f.Kind {
	case wochenbericht.FieldString, wochenbericht.FieldOther:
		return f.Str
	case wochenbericht.FieldNumber:
		return strconv.FormatFloat(f.Num, 'f', -1, 64)
	}
	return ""
}

// truthy reads a flag that may arrive as a bool, a number or a string.
// Zero, empty strings, empty containers and false are false.
func truthy(f wochenbericht.Field) bool {
	switch f.Kind {
	case wochenbericht.FieldString:
		return f.Str != ""
	case wochenbericht.FieldNumber:
		return f.Num != 0
	case wochenbericht.FieldOther:
		switch strings.Join(strings.Fields(f.Str), "") {
		case "false", "[]", "{}":
			return false
		}
		return true
	}
	return false
}

type Report struct {
	BaseName              string          `json:"baseName"`
	SegmentKey            json.RawMessage `json:"segmentKey"`
	Month                 json.RawMessage `json:"month"`
	Dates                 []string        `json:"dates"`
	ReportYear            json.RawMessage `json:"reportYear"`
	ReportKw              json.RawMessage `json:"reportKw"`
	IsCarryOverToNextYear bool            `json:"isCarryOverToNextYear"`
	Warnings              []string        `json:"warnings"`
	RowsWritten           int             `json:"rowsWritten"`
	RowsTruncated         int             `json:"rowsTruncated"`
	XLSXBase64            string          `json:"xlsxBase64"`
	PDFBase64             *string         `json:"pdfBase64"`
}

type Response struct {
	ExportID string   `json:"exportId"`
	Reports  []Report `json:"reports"`
}

// RequestError is a problem with the caller's input; its message is safe
// to return to the caller as is.
type RequestError struct {
	Msg string
}

func (e *RequestError) Error() string { return e.Msg }

func badRequest(msg string) error { return &RequestError{Msg: msg} }

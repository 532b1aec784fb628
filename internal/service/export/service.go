package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"wochenbericht/internal/service/convert"
	"wochenbericht/internal/service/wochenbericht"
)

const defaultTemplateFilename = "template.xlsx"

type Converter interface {
	ConvertToPDF(ctx context.Context, xlsxPath string) (string, error)
}

type Service struct {
	log     *slog.Logger
	conv    Converter
	workDir string
}

// NewService builds the export service. An empty workDir means os.TempDir.
func NewService(log *slog.Logger, conv Converter, workDir string) *Service {
	return &Service{log: log, conv: conv, workDir: workDir}
}

type job struct {
	format       Format
	template     []byte
	templateName string
	segments     []SegmentRequest
	baseNames    []string
}

// ExportWeek fills every segment of req into its own copy of the template.
// Segments run one after another; the first structural error aborts the
// whole request.
func (s *Service) ExportWeek(ctx context.Context, req Request) (Response, error) {
	const op = "service.export.ExportWeek"

	j, err := validate(req)
	if err != nil {
		return Response{}, err
	}

	exportID := uuid.NewString()
	log := s.log.With(slog.String("op", op), slog.String("export_id", exportID))

	tmp, err := os.MkdirTemp(s.workDir, "wb_worker_")
	if err != nil {
		return Response{}, fmt.Errorf("%s: create work dir: %w", op, err)
	}
	defer func() {
		if err := os.RemoveAll(tmp); err != nil {
			log.Warn("failed to remove work dir", slog.String("dir", tmp), slog.String("error", err.Error()))
		}
	}()

	reports := make([]Report, 0, len(j.segments))
	for i, seg := range j.segments {
		if err := ctx.Err(); err != nil {
			return Response{}, fmt.Errorf("%s: %w", op, err)
		}

		rep, err := s.exportSegment(ctx, j, tmp, j.baseNames[i], seg)
		if err != nil {
			return Response{}, fmt.Errorf("%s: segment '%s': %w", op, j.baseNames[i], err)
		}
		log.Info("segment exported",
			slog.String("base_name", rep.BaseName),
			slog.Int("rows_written", rep.RowsWritten),
			slog.Int("rows_truncated", rep.RowsTruncated),
			slog.Int("warnings", len(rep.Warnings)),
		)
		reports = append(reports, rep)
	}

	return Response{ExportID: exportID, Reports: reports}, nil
}

func validate(req Request) (job, error) {
	var j job

	format, ok := parseFormat(req.Format)
	if !ok {
		return j, badRequest("Invalid format")
	}
	j.format = format

	if strings.TrimSpace(req.TemplateBase64) == "" {
		return j, badRequest("templateBase64 is required")
	}
	if len(req.Segments) == 0 {
		return j, badRequest("segments is required")
	}

	tmpl, err := base64.StdEncoding.Strict().DecodeString(strings.TrimSpace(req.TemplateBase64))
	if err != nil {
		return j, badRequest("templateBase64 is invalid")
	}
	j.template = tmpl

	j.templateName = filepath.Base(strings.TrimSpace(req.TemplateFilename))
	if j.templateName == "." || j.templateName == string(filepath.Separator) {
		j.templateName = defaultTemplateFilename
	}

	j.segments = req.Segments
	j.baseNames = make([]string, len(req.Segments))
	for i, seg := range req.Segments {
		var given string
		if truthy(seg.BaseName) {
			given = fieldText(seg.BaseName)
		}
		name := baseName(given, i)
		if seg.Payload == nil {
			return j, badRequest(fmt.Sprintf("Missing payload for segment '%s'", name))
		}
		j.baseNames[i] = name
	}
	return j, nil
}

// baseName keeps caller-chosen names inside the work dir.
func baseName(name string, idx int) string {
	name = filepath.Base(strings.TrimSpace(name))
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return fmt.Sprintf("segment_%d", idx)
	}
	return name
}

func (s *Service) exportSegment(ctx context.Context, j job, dir, name string, seg SegmentRequest) (Report, error) {
	f, err := excelize.OpenReader(bytes.NewReader(j.template))
	if err != nil {
		return Report{}, fmt.Errorf("open template '%s': %w", j.templateName, err)
	}
	defer f.Close()

	res, err := wochenbericht.Fill(f, *seg.Payload)
	if err != nil {
		return Report{}, err
	}

	xlsxPath := filepath.Join(dir, name+".xlsx")
	if err := f.SaveAs(xlsxPath); err != nil {
		return Report{}, fmt.Errorf("save workbook: %w", err)
	}

	rep := Report{
		BaseName:              name,
		SegmentKey:            seg.segmentKey(),
		Month:                 seg.Month,
		Dates:                 seg.Dates,
		ReportYear:            seg.ReportYear,
		ReportKw:              seg.ReportKw,
		IsCarryOverToNextYear: truthy(seg.IsCarryOverToNextYear),
		Warnings:              append([]string{}, res.Warnings...),
		RowsWritten:           res.RowsWritten,
		RowsTruncated:         res.RowsTruncated,
	}
	if rep.Dates == nil {
		rep.Dates = []string{}
	}

	if j.format.wantsPDF() {
		pdf, warning := s.renderPDF(ctx, xlsxPath)
		if warning != "" {
			rep.Warnings = append(rep.Warnings, warning)
		}
		rep.PDFBase64 = pdf
	}

	xlsx, err := os.ReadFile(xlsxPath)
	if err != nil {
		return Report{}, fmt.Errorf("read workbook: %w", err)
	}
	rep.XLSXBase64 = base64.StdEncoding.EncodeToString(xlsx)

	return rep, nil
}

// renderPDF never fails the segment: conversion problems become warnings.
func (s *Service) renderPDF(ctx context.Context, xlsxPath string) (*string, string) {
	pdfPath, err := s.conv.ConvertToPDF(ctx, xlsxPath)
	if err != nil {
		s.log.Warn("pdf conversion failed", slog.String("path", xlsxPath), slog.String("error", err.Error()))
		return nil, convert.Warning(err)
	}
	b, err := os.ReadFile(pdfPath)
	if err != nil {
		s.log.Warn("converted pdf unreadable", slog.String("path", pdfPath), slog.String("error", err.Error()))
		return nil, "PDF export failed: converted file is unreadable."
	}
	enc := base64.StdEncoding.EncodeToString(b)
	return &enc, ""
}

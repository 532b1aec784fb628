package convert

import (
	"context"
	"errors"
	"fmt"
	"golang.org/x/sync/semaphore"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrDisabled    = errors.New("pdf export disabled")
	ErrUnavailable = errors.New("no soffice candidate produced a pdf")
)

const (
	WarningDisabled    = "PDF export disabled on worker."
	WarningUnavailable = "PDF export requires LibreOffice (soffice) on worker."
)

// Warning is the report warning for an error returned by ConvertToPDF.
func Warning(err error) string {
	if errors.Is(err, ErrDisabled) {
		return WarningDisabled
	}
	return WarningUnavailable
}

var defaultSofficeCandidates = []string{
	"soffice",
	"/usr/bin/soffice",
	"/usr/lib/libreoffice/program/soffice",
}

type Options struct {
	Enabled       bool
	SofficePath   string
	Timeout       time.Duration
	MaxConcurrent int64
}

// runFunc runs one converter binary; swapped in tests.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// PDFConverter renders spreadsheets to PDF with a headless LibreOffice.
// soffice does not tolerate parallel runs on one user profile, so runs are
// bounded by a semaphore.
type PDFConverter struct {
	log        *slog.Logger
	enabled    bool
	candidates []string
	timeout    time.Duration
	sem        *semaphore.Weighted
	run        runFunc
}

func NewPDFConverter(log *slog.Logger, opts Options) *PDFConverter {
	var candidates []string
	if p := strings.TrimSpace(opts.SofficePath); p != "" {
		candidates = append(candidates, p)
	}
	candidates = append(candidates, defaultSofficeCandidates...)

	n := opts.MaxConcurrent
	if n < 1 {
		n = 1
	}

	return &PDFConverter{
		log:        log,
		enabled:    opts.Enabled,
		candidates: candidates,
		timeout:    opts.Timeout,
		sem:        semaphore.NewWeighted(n),
		run:        execRun,
	}
}

// ConvertToPDF writes <name>.pdf next to xlsxPath and returns its path.
func (c *PDFConverter) ConvertToPDF(ctx context.Context, xlsxPath string) (string, error) {
	const op = "service.convert.ConvertToPDF"

	if !c.enabled {
		return "", ErrDisabled
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer c.sem.Release(1)

	outDir := filepath.Dir(xlsxPath)
	pdfPath := strings.TrimSuffix(xlsxPath, filepath.Ext(xlsxPath)) + ".pdf"

	for _, candidate := range c.candidates {
		if err := c.runOnce(ctx, candidate, outDir, xlsxPath); err != nil {
			c.log.Debug("soffice attempt failed",
				slog.String("op", op),
				slog.String("binary", candidate),
				slog.String("error", err.Error()),
			)
			continue
		}
		if _, err := os.Stat(pdfPath); err == nil {
			return pdfPath, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return "", ErrUnavailable
}

func (c *PDFConverter) runOnce(ctx context.Context, binary, outDir, xlsxPath string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out, err := c.run(ctx, binary, "--headless", "--convert-to", "pdf", "--outdir", outDir, xlsxPath)
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

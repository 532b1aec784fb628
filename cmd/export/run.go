package main

import (
	"encoding/json"
	"fmt"
	"github.com/xuri/excelize/v2"
	"io"
	"os"
	"path/filepath"
	"wochenbericht/internal/service/wochenbericht"
)

type payloadFile struct {
	TemplatePath string                 `json:"templatePath"`
	Payload      *wochenbericht.Segment `json:"payload"`
}

type result struct {
	OutputPath string `json:"output_path"`
	wochenbericht.Result
}

func run(payloadPath, output string) (result, error) {
	raw, err := os.ReadFile(payloadPath)
	if err != nil {
		return result{}, fmt.Errorf("read payload: %w", err)
	}

	var pf payloadFile
	if err := json.Unmarshal(raw, &pf); err != nil {
		return result{}, fmt.Errorf("decode payload: %w", err)
	}
	if pf.TemplatePath == "" {
		return result{}, fmt.Errorf("templatePath is required")
	}
	if pf.Payload == nil {
		return result{}, fmt.Errorf("payload is required")
	}

	f, err := excelize.OpenFile(pf.TemplatePath)
	if err != nil {
		return result{}, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	res, err := wochenbericht.Fill(f, *pf.Payload)
	if err != nil {
		return result{}, err
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return result{}, fmt.Errorf("create output dir: %w", err)
	}
	if err := f.SaveAs(output); err != nil {
		return result{}, fmt.Errorf("save workbook: %w", err)
	}

	return result{OutputPath: output, Result: res}, nil
}

func writeResult(w io.Writer, res result) error {
	return json.NewEncoder(w).Encode(res)
}

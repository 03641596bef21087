package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/jakopako/tagcheck/internal/types"
)

const resultsFilename = "results.json"

// Report is what the FileWriter and the APIWriter write.
type Report struct {
	Summary types.Summary       `json:"summary"`
	Results []types.CheckResult `json:"results"`
}

func collectReport(resultChan <-chan types.CheckResult) Report {
	report := Report{Results: []types.CheckResult{}}
	for r := range resultChan {
		report.Results = append(report.Results, r)
		report.Summary.Add(r)
	}
	return report
}

// encodeReport marshals the report without escaping the HTML the failure
// messages quote.
func encodeReport(report Report) ([]byte, error) {
	buffer := &bytes.Buffer{}
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// FileWriter represents a writer that writes to a file
type FileWriter struct {
	*WriterConfig
	logger *slog.Logger
}

// NewFileWriter returns a new FileWriter
func NewFileWriter(wc *WriterConfig) (*FileWriter, error) {
	if wc.FileDir == "" {
		return nil, errors.New("filedir needs to be specified for the FileWriter")
	}

	if err := os.MkdirAll(wc.FileDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", wc.FileDir, err)
	}

	return &FileWriter{
		WriterConfig: wc,
		logger:       slog.With(slog.String("writer", string(FILE_WRITER_TYPE))),
	}, nil
}

func (w *FileWriter) Write(resultChan <-chan types.CheckResult) error {
	report := collectReport(resultChan)
	data, err := encodeReport(report)
	if err != nil {
		return fmt.Errorf("error while encoding results: %w", err)
	}

	filepath := path.Join(w.FileDir, resultsFilename)
	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("error while writing results to file: %w", err)
	}
	w.logger.Info(fmt.Sprintf("wrote %d results to file %s", report.Summary.Total, filepath))
	return nil
}

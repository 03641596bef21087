package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jakopako/tagcheck/internal/types"
)

// APIWriter posts the report of a run as JSON to an HTTP endpoint, eg. a
// dashboard collecting the results of scheduled runs.
type APIWriter struct {
	*WriterConfig
	client *http.Client
	logger *slog.Logger
}

// NewAPIWriter returns a new APIWriter
func NewAPIWriter(wc *WriterConfig) (*APIWriter, error) {
	if wc.Uri == "" {
		return nil, errors.New("uri needs to be specified for the APIWriter")
	}
	return &APIWriter{
		WriterConfig: wc,
		client: &http.Client{
			Timeout: time.Second * 60,
		},
		logger: slog.With(slog.String("writer", string(API_WRITER_TYPE))),
	}, nil
}

func (w *APIWriter) Write(resultChan <-chan types.CheckResult) error {
	report := collectReport(resultChan)
	data, err := encodeReport(report)
	if err != nil {
		return fmt.Errorf("error while encoding results: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, w.Uri, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.User != "" {
		req.SetBasicAuth(w.User, w.Password)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("error while sending post request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("error while reading post request response: %w", err)
		}
		return fmt.Errorf("error while posting results. Status Code: %d Response: %s", resp.StatusCode, body)
	}
	w.logger.Info(fmt.Sprintf("posted %d results to %s", report.Summary.Total, w.Uri))
	return nil
}

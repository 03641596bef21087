package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/jakopako/tagcheck/internal/types"
	"github.com/jakopako/tagcheck/internal/utils"
	"github.com/olekukonko/tablewriter"
)

// maximum width of the description column
const descriptionWidth = 60

// StdoutWriter prints a table of all results followed by the messages of
// the failed checks.
type StdoutWriter struct {
	*WriterConfig
	out    io.Writer
	logger *slog.Logger
}

// NewStdoutWriter returns a new StdoutWriter
func NewStdoutWriter(wc *WriterConfig) *StdoutWriter {
	return &StdoutWriter{
		WriterConfig: wc,
		out:          os.Stdout,
		logger:       slog.With(slog.String("writer", string(STDOUT_WRITER_TYPE))),
	}
}

func (w *StdoutWriter) Write(resultChan <-chan types.CheckResult) error {
	results := []types.CheckResult{}
	summary := types.Summary{}
	for r := range resultChan {
		results = append(results, r)
		summary.Add(r)
	}

	table := tablewriter.NewWriter(w.out)
	table.Header("Check", "Document", "Description", "Result")
	for _, r := range results {
		if r.Passed && !w.Verbose {
			continue
		}
		if err := table.Append([]string{r.Name, r.Document, utils.ShortenString(r.Description, descriptionWidth), resultLabel(r)}); err != nil {
			return fmt.Errorf("error while adding result of check %s: %w", r.Name, err)
		}
	}
	table.Footer("total "+strconv.Itoa(summary.Total), "", "passed "+strconv.Itoa(summary.Passed), "failed "+strconv.Itoa(summary.Failed))
	if err := table.Render(); err != nil {
		return fmt.Errorf("error while rendering results: %w", err)
	}

	for _, r := range results {
		if r.Passed {
			continue
		}
		fmt.Fprintf(w.out, "\n%s (%s):\n  %s\n", r.Name, r.Document, r.Message)
		if r.Hint != "" {
			fmt.Fprintf(w.out, "  hint: %s\n", r.Hint)
		}
	}
	w.logger.Debug(fmt.Sprintf("printed %d results", summary.Total))
	return nil
}

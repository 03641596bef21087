// Package output provides the interface and configuration and implementation
// for writers reporting check results.
package output

import (
	"fmt"

	"github.com/jakopako/tagcheck/internal/types"
)

// Writer defines the interface for all writers that are responsible for
// reporting check results to a specific output.
type Writer interface {
	// Write consumes resultChan until it is closed.
	Write(resultChan <-chan types.CheckResult) error
}

// WriterConfig defines the necessary parameters to make a new writer.
type WriterConfig struct {
	Type     WriterType `yaml:"type" env:"TAGCHECK_OUTPUT_TYPE" env-default:"stdout"`
	FileDir  string     `yaml:"filedir" env:"TAGCHECK_OUTPUT_DIR"`
	Uri      string     `yaml:"uri"`
	User     string     `yaml:"user" env:"TAGCHECK_API_USER"`         // we want to be able to pass credentials via env vars
	Password string     `yaml:"password" env:"TAGCHECK_API_PASSWORD"` // we want to be able to pass credentials via env vars
	// Verbose also lists the passed checks.
	Verbose bool `yaml:"verbose"`
}

// WriterType encapsulates the type of a writer
// See below constants for possible types
type WriterType string

const (
	STDOUT_WRITER_TYPE WriterType = "stdout"
	FILE_WRITER_TYPE   WriterType = "file"
	API_WRITER_TYPE    WriterType = "api"
)

// NewWriter returns a new writer depending on the writer type
func NewWriter(wc *WriterConfig) (Writer, error) {
	switch wc.Type {
	case STDOUT_WRITER_TYPE, "":
		return NewStdoutWriter(wc), nil
	case FILE_WRITER_TYPE:
		return NewFileWriter(wc)
	case API_WRITER_TYPE:
		return NewAPIWriter(wc)
	default:
		return nil, fmt.Errorf("writer of type '%s' not implemented", wc.Type)
	}
}

func resultLabel(r types.CheckResult) string {
	if r.Passed {
		return "pass"
	}
	return "FAIL"
}

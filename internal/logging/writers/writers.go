// Package writers resolves log output destinations. The default is stderr
// rather than stdout: under the stdio transport, stdout belongs to the MCP
// protocol stream.
package writers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriterType represents the kind of destination an output string names
type WriterType string

const (
	WriterTypeStdout WriterType = "stdout"
	WriterTypeStderr WriterType = "stderr"
	WriterTypeFile   WriterType = "file"
)

// CreateWriter creates an io.Writer based on the output specification
// Supported formats:
//   - "stderr" or "" - writes to os.Stderr
//   - "stdout" - writes to os.Stdout (rejected by config validation when
//     the stdio transport is active)
//   - "file:/path/to/file" - writes to file (creates directories if needed)
//   - "/path/to/file" - writes to file (creates directories if needed)
func CreateWriter(output string) (io.Writer, error) {
	switch {
	case output == "" || output == "stderr":
		return os.Stderr, nil
	case output == "stdout":
		return os.Stdout, nil
	case strings.HasPrefix(output, "file://"):
		return createFileWriter(strings.TrimPrefix(output, "file://"))
	case isFilePath(output):
		return createFileWriter(output)
	default:
		return nil, fmt.Errorf("unsupported log output: %s", output)
	}
}

// ParseWriterType determines the writer type from an output string without
// opening anything. Config validation uses this to reject stdout logging
// while the stdio transport owns stdout.
func ParseWriterType(output string) WriterType {
	switch output {
	case "", "stderr":
		return WriterTypeStderr
	case "stdout":
		return WriterTypeStdout
	default:
		return WriterTypeFile
	}
}

// isFilePath determines if the string represents a local file path
func isFilePath(path string) bool {
	if strings.Contains(path, "://") && !strings.HasPrefix(path, "file://") {
		return false
	}
	return strings.Contains(path, "/") || strings.Contains(path, "\\")
}

// createFileWriter creates a file writer, ensuring the directory exists
func createFileWriter(filePath string) (io.Writer, error) {
	dir := filepath.Dir(filePath)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}

	return file, nil
}

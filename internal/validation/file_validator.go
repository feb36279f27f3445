package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"trendcli/internal/files"
)

// FileValidator provides common file validation for the executables.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateInputDirectory validates that the input directory exists and
// contains files matching the given glob pattern. A pattern with no
// matches is a warning, not an error: an empty batch set is valid.
func (v *FileValidator) ValidateInputDirectory(dir string, requiredPattern string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if requiredPattern != "" {
		pattern := filepath.Join(dir, requiredPattern)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("failed to check for files: %w", err)
		}
		if len(matches) == 0 {
			v.logger.Warn("No files matching pattern found",
				slog.String("directory", dir),
				slog.String("pattern", requiredPattern))
		}
	}
	return nil
}

// ValidateUploadName checks an uploaded file name for a supported
// workbook extension.
func (v *FileValidator) ValidateUploadName(name string) error {
	if !files.IsExcelFile(name) {
		v.logger.Warn("Rejected upload with unsupported extension",
			slog.String("name", name))
		return fmt.Errorf("unsupported file type: %s (want .xlsx or .xls)", name)
	}
	return nil
}

package error

import (
	"errors"
	"fmt"
)

// MissingExportFileError is returned when an export log expected by the
// account id rewrite does not exist.
type MissingExportFileError struct {
	Path string
	err  error
}

func NewMissingExportFileError(path string, err error) MissingExportFileError {
	return MissingExportFileError{Path: path, err: err}
}

func (e MissingExportFileError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("export file %s does not exist", e.Path)
	}
	return fmt.Sprintf("export file %s does not exist: %s", e.Path, e.err.Error())
}

func (e MissingExportFileError) Unwrap() error         { return e.err }
func (MissingExportFileError) GetReason() Reason       { return MissingExportFile }
func (MissingExportFileError) GetComponent() Component { return ExportDirDependency }

func IsMissingExportFileError(err error) bool {
	var missing MissingExportFileError
	return errors.As(err, &missing)
}

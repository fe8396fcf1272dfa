package exportdir

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	exportErr "github.com/workspace-migration/exportclient/internal/error"
)

// Rewriter replaces account ids in the logs of an export directory.
//
// Every file is renamed to <file>.bak and rewritten from the backup under its
// original name. Backups are removed only after all files were rewritten. There
// is no rollback: when a file fails, the files processed before it stay
// modified and their backups stay on disk.
type Rewriter struct {
	fs  afero.Fs
	dir string
	log logrus.FieldLogger
}

func NewRewriter(fs afero.Fs, dir string, log logrus.FieldLogger) *Rewriter {
	return &Rewriter{
		fs:  fs,
		dir: dir,
		log: log,
	}
}

func (r *Rewriter) UpdateAccountID(newAccountID, oldAccountID string) error {
	if oldAccountID == "" {
		return exportErr.NewConfigError("old account id must not be empty")
	}

	var rewritten []string
	for _, name := range AccountLogs {
		path := filepath.Join(r.dir, name)
		count, err := r.rewriteFile(path, newAccountID, oldAccountID)
		if err != nil {
			return err
		}
		r.log.Infof("replaced %d occurrences in %s", count, path)
		rewritten = append(rewritten, path)
	}

	groups, err := r.groupFiles()
	if err != nil {
		return err
	}
	for _, path := range groups {
		count, err := r.rewriteFile(path, newAccountID, oldAccountID)
		if err != nil {
			return err
		}
		r.log.Debugf("replaced %d occurrences in %s", count, path)
		rewritten = append(rewritten, path)
	}

	return r.removeBackups(rewritten)
}

func (r *Rewriter) groupFiles() ([]string, error) {
	dir := groupsPath(r.dir)
	infos, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, exportErr.NewMissingExportFileError(dir, err)
		}
		return nil, errors.Wrapf(err, "while listing %s", dir)
	}

	var files []string
	for _, info := range infos {
		if info.IsDir() || strings.HasSuffix(info.Name(), BackupSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, info.Name()))
	}
	sort.Strings(files)

	return files, nil
}

func (r *Rewriter) rewriteFile(path, newAccountID, oldAccountID string) (int, error) {
	if _, err := r.fs.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return 0, exportErr.NewMissingExportFileError(path, err)
		}
		return 0, errors.Wrapf(err, "while checking %s", path)
	}

	backup := backupName(path)
	if err := r.fs.Rename(path, backup); err != nil {
		return 0, errors.Wrapf(err, "while creating backup %s", backup)
	}

	src, err := r.fs.Open(backup)
	if err != nil {
		return 0, errors.Wrapf(err, "while opening backup %s", backup)
	}
	defer src.Close()

	dst, err := r.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, errors.Wrapf(err, "while creating %s", path)
	}

	count, err := replaceLines(src, dst, oldAccountID, newAccountID)
	if err != nil {
		dst.Close()
		return 0, errors.Wrapf(err, "while rewriting %s", path)
	}
	if err := dst.Close(); err != nil {
		return 0, errors.Wrapf(err, "while closing %s", path)
	}

	return count, nil
}

// replaceLines copies src to dst line by line substituting oldValue with newValue.
// Line endings and a missing final newline are kept as they are.
func replaceLines(src io.Reader, dst io.Writer, oldValue, newValue string) (int, error) {
	reader := bufio.NewReader(src)
	writer := bufio.NewWriter(dst)
	count := 0

	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return count, readErr
		}
		if line != "" {
			count += strings.Count(line, oldValue)
			if _, err := writer.WriteString(strings.ReplaceAll(line, oldValue, newValue)); err != nil {
				return count, err
			}
		}
		if readErr == io.EOF {
			break
		}
	}

	return count, writer.Flush()
}

func (r *Rewriter) removeBackups(paths []string) error {
	var result *multierror.Error
	for _, path := range paths {
		if err := r.fs.Remove(backupName(path)); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "while removing backup of %s", path))
		}
	}
	return result.ErrorOrNil()
}

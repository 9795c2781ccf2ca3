package purge

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/dchest/safefile"
	"github.com/pkg/errors"
)

// WriteReport saves rr as indented JSON at path. The file is replaced
// atomically so a reader never sees half a report.
func WriteReport(path string, rr *RunResult) error {
	bs, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return errors.WithMessage(err, "marshalling run report")
	}

	err = os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return errors.WithMessage(err, "creating folder for run report")
	}

	f, err := safefile.Create(path, 0644)
	if err != nil {
		return errors.WithMessage(err, "creating run report")
	}
	defer f.Close()

	_, err = f.Write(bs)
	if err != nil {
		return errors.WithMessage(err, "writing run report")
	}

	err = f.Commit()
	if err != nil {
		return errors.WithMessage(err, "committing run report")
	}

	return nil
}

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jeanpaul/phonebook/internal/phonebook"
	"github.com/jeanpaul/phonebook/internal/validate"
)

// Rejected is a record from a source file that failed validation.
type Rejected struct {
	Source string
	Record phonebook.Record
	Err    error
}

// MergeResult summarizes a Merge.
type MergeResult struct {
	Files    []string
	Imported []phonebook.Record
	Rejected []Rejected
	// Malformed counts lines in the sources that were not records at all.
	Malformed int
}

// Merge adds every record found in files matching pattern to dst. The
// pattern may use ** to cross directories. Each record is validated again
// and receives a fresh id from dst; records that fail are reported in
// Rejected and left out. Files ending in .xlsx are read as spreadsheets.
// The destination file itself is never a source. dst is not saved.
func Merge(dst phonebook.Directory, dstPath, pattern string, v *validate.Validator) (*MergeResult, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("import: bad pattern %q: %w", pattern, err)
	}

	self, _ := filepath.Abs(dstPath)
	result := &MergeResult{}
	for _, path := range matches {
		if abs, _ := filepath.Abs(path); abs == self {
			continue
		}

		records, malformed, err := readSource(path)
		if err != nil {
			return result, err
		}
		result.Files = append(result.Files, path)
		result.Malformed += malformed

		for _, rec := range records {
			clean, err := v.Validate(rec.Fields)
			if err != nil {
				result.Rejected = append(result.Rejected, Rejected{Source: path, Record: rec, Err: err})
				continue
			}
			result.Imported = append(result.Imported, dst.Add(clean))
		}
	}
	return result, nil
}

func readSource(path string) ([]phonebook.Record, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}

	src := phonebook.New(path, 1)
	if err := src.Load(); err != nil {
		return nil, 0, fmt.Errorf("import: %w", err)
	}
	return src.Records(), src.Skipped(), nil
}

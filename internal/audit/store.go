package audit

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/jeanpaul/phonebook/internal/phonebook"
)

// Ensure Store implements phonebook.Directory
var _ phonebook.Directory = (*Store)(nil)

// Store forwards every call to a phonebook.Store and reports it to an
// Observer. Return values and errors are passed through untouched.
type Store struct {
	inner *phonebook.Store
	obs   *Observer
}

// Wrap instruments inner.
func Wrap(inner *phonebook.Store, obs *Observer) *Store {
	return &Store{inner: inner, obs: obs}
}

// Unwrap returns the wrapped store.
func (s *Store) Unwrap() *phonebook.Store { return s.inner }

func (s *Store) Load() error {
	start := time.Now()
	err := s.inner.Load()
	s.obs.Record("load", start, err,
		"path", s.inner.Path(), "entries", s.inner.Len(), "skipped", s.inner.Skipped())
	return err
}

func (s *Store) Save() error {
	start := time.Now()
	err := s.inner.Save()
	s.obs.Record("save", start, err, "path", s.inner.Path(), "entries", s.inner.Len())
	return err
}

func (s *Store) Pages() int { return s.inner.Pages() }

func (s *Store) Entry(index int) (string, error) { return s.inner.Entry(index) }

func (s *Store) Page(n int) []string {
	start := time.Now()
	entries := s.inner.Page(n)
	s.obs.Record("display_entries", start, nil, "page", n, "shown", len(entries))
	return entries
}

func (s *Store) Add(f phonebook.Fields) phonebook.Record {
	start := time.Now()
	rec := s.inner.Add(f)
	s.obs.Record("add_entry", start, nil, "id", rec.ID, fieldsAttr(f))
	return rec
}

func (s *Store) Find(id int) (int, error) {
	start := time.Now()
	index, err := s.inner.Find(id)
	s.obs.Record("entry_exists", start, err, "id", id, "index", index)
	return index, err
}

func (s *Store) Edit(index int, f phonebook.Fields) (phonebook.Record, error) {
	before, _ := s.inner.Entry(index)

	start := time.Now()
	rec, err := s.inner.Edit(index, f)

	args := []any{"index", index, fieldsAttr(f)}
	if err == nil {
		args = append(args, "id", rec.ID, "diff", lineDiff(before, rec.String()))
	}
	s.obs.Record("edit_entry", start, err, args...)
	return rec, err
}

func (s *Store) Search(query string) []string {
	start := time.Now()
	results := s.inner.Search(query)
	s.obs.Record("search_entries", start, nil, "query", query, "matches", len(results))
	return results
}

func fieldsAttr(f phonebook.Fields) slog.Attr {
	return slog.Group("fields",
		"last_name", f.LastName,
		"first_name", f.FirstName,
		"middle_name", f.MiddleName,
		"organization", f.Organization,
		"work_phone", f.WorkPhone,
		"personal_phone", f.PersonalPhone,
	)
}

// lineDiff renders a unified diff between two serialized entries.
func lineDiff(before, after string) string {
	before, after = before+"\n", after+"\n"
	edits := myers.ComputeEdits(span.URIFromPath("entry"), before, after)
	return fmt.Sprint(gotextdiff.ToUnified("before", "after", before, edits))
}

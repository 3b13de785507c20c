package phonebook

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Ensure Store implements Directory
var _ Directory = (*Store)(nil)

// maxLineSize bounds a single line read from the backing file. Longer
// lines are skipped as malformed.
const maxLineSize = 1 << 20

// Store is the in-memory phonebook bound to one backing file.
// Entries are kept in their serialized form, in load/insertion order.
type Store struct {
	path     string
	pageSize int
	entries  []string
	nextID   int
	skipped  int
}

// New returns an empty store for path. A pageSize below 1 is treated as 1.
func New(path string, pageSize int) *Store {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Store{
		path:     path,
		pageSize: pageSize,
		nextID:   1,
	}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// PageSize returns the number of entries per page.
func (s *Store) PageSize() int { return s.pageSize }

// NextID returns the id the next Add will assign.
func (s *Store) NextID() int { return s.nextID }

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Skipped returns how many lines the last Load rejected as malformed.
func (s *Store) Skipped() int { return s.skipped }

// Load reads entries from the backing file, replacing any loaded before.
// A missing file leaves the store empty and is not an error. Lines that do
// not hold exactly seven fields with a positive integer id are skipped.
func (s *Store) Load() error {
	s.entries = nil
	s.nextID = 1
	s.skipped = 0

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	var line []byte
	tooLong := false
	for {
		chunk, more, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", s.path, err)
		}
		if !tooLong {
			line = append(line, chunk...)
			tooLong = len(line) > maxLineSize
		}
		if more {
			continue
		}
		if tooLong {
			s.skipped++
		} else {
			s.loadLine(string(line))
		}
		line, tooLong = line[:0], false
	}
}

func (s *Store) loadLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	rec, err := ParseRecord(line)
	if err != nil {
		s.skipped++
		return
	}
	if rec.ID >= s.nextID {
		s.nextID = rec.ID + 1
	}
	s.entries = append(s.entries, line)
}

// Save writes every entry to the backing file, one per line, replacing its
// previous contents. The write is not atomic.
func (s *Store) Save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}

	w := bufio.NewWriter(f)
	for _, entry := range s.entries {
		w.WriteString(entry)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	return nil
}

// Pages returns the number of pages needed to show every entry.
func (s *Store) Pages() int {
	pages := len(s.entries) / s.pageSize
	if len(s.entries)%s.pageSize != 0 {
		pages++
	}
	return pages
}

// Page returns the entries on the 1-based page n. Pages outside the
// range yield an empty slice.
func (s *Store) Page(n int) []string {
	if n < 1 || n > s.Pages() {
		return []string{}
	}
	start := (n - 1) * s.pageSize
	end := min(start+s.pageSize, len(s.entries))
	return append([]string{}, s.entries[start:end]...)
}

// Entries returns a copy of every entry in store order.
func (s *Store) Entries() []string {
	return append([]string{}, s.entries...)
}

// Entry returns the serialized entry at index.
func (s *Store) Entry(index int) (string, error) {
	if index < 0 || index >= len(s.entries) {
		return "", ErrIndexOutOfRange
	}
	return s.entries[index], nil
}

// Records returns every entry parsed into a Record.
func (s *Store) Records() []Record {
	records := make([]Record, 0, len(s.entries))
	for _, entry := range s.entries {
		rec, err := ParseRecord(entry)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// Add appends a new entry with the next id. It does not persist.
func (s *Store) Add(f Fields) Record {
	rec := Record{ID: s.nextID, Fields: f}
	s.nextID++
	s.entries = append(s.entries, rec.String())
	return rec
}

// Find returns the position of the first entry with the given id.
func (s *Store) Find(id int) (int, error) {
	for i, entry := range s.entries {
		if lineID(entry) == id {
			return i, nil
		}
	}
	return -1, &NotFoundError{ID: id}
}

// Edit replaces the entry at index, keeping its id, and saves the store.
// If saving fails the previous entry is restored.
func (s *Store) Edit(index int, f Fields) (Record, error) {
	if index < 0 || index >= len(s.entries) {
		return Record{}, ErrIndexOutOfRange
	}
	old := s.entries[index]
	rec := Record{ID: lineID(old), Fields: f}
	s.entries[index] = rec.String()
	if err := s.Save(); err != nil {
		s.entries[index] = old
		return Record{}, err
	}
	return rec, nil
}

// Search returns every entry containing query, ignoring case.
func (s *Store) Search(query string) []string {
	q := strings.ToLower(query)
	results := []string{}
	for _, entry := range s.entries {
		if strings.Contains(strings.ToLower(entry), q) {
			results = append(results, entry)
		}
	}
	return results
}

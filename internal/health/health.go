package health

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/jeanpaul/phonebook/internal/phonebook"
	"github.com/jeanpaul/phonebook/internal/validate"
)

type Status struct {
	Name    string
	OK      bool
	Detail  string
	Error   string
	Latency time.Duration
}

// Report is the outcome of Check, one Status per probe.
type Report struct {
	Path     string
	Statuses []Status
}

// Healthy reports whether every probe passed.
func (r Report) Healthy() bool {
	for _, s := range r.Statuses {
		if !s.OK {
			return false
		}
	}
	return true
}

// Check inspects the backing file at path and the phone region without
// changing anything on disk.
func Check(ctx context.Context, path, region string) Report {
	r := Report{Path: path}
	probes := []struct {
		name string
		fn   func() (string, error)
	}{
		{"file", func() (string, error) { return checkFile(path) }},
		{"directory", func() (string, error) { return checkDir(path) }},
		{"records", func() (string, error) { return checkRecords(path) }},
		{"region", func() (string, error) { return checkRegion(region) }},
	}

	for _, p := range probes {
		if ctx.Err() != nil {
			r.Statuses = append(r.Statuses, Status{Name: p.name, Error: ctx.Err().Error()})
			continue
		}
		start := time.Now()
		detail, err := p.fn()
		s := Status{Name: p.name, OK: err == nil, Detail: detail, Latency: time.Since(start)}
		if err != nil {
			s.Error = friendlyError(err)
		}
		r.Statuses = append(r.Statuses, s)
	}
	return r
}

func checkFile(path string) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "not created yet; it will be written on first save", nil
	}
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	f.Close()
	return fmt.Sprintf("%d bytes", info.Size()), nil
}

// checkDir makes sure a save could create or replace the file.
func checkDir(path string) (string, error) {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return dir + " will be created on save", nil
	}
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	probe, err := os.CreateTemp(dir, ".phonebook-health-*")
	if err != nil {
		return "", err
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return dir + " is writable", nil
}

func checkRecords(path string) (string, error) {
	store := phonebook.New(path, 1)
	if err := store.Load(); err != nil {
		return "", err
	}

	seen := make(map[int]int)
	for _, rec := range store.Records() {
		seen[rec.ID]++
	}
	var ids []int
	for id, n := range seen {
		if n > 1 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	dups := make([]string, len(ids))
	for i, id := range ids {
		dups[i] = fmt.Sprint(id)
	}

	detail := fmt.Sprintf("%d entries, %d malformed lines skipped, next id %d",
		store.Len(), store.Skipped(), store.NextID())
	if len(dups) > 0 {
		return detail, fmt.Errorf("duplicate ids %s; the first occurrence wins", strings.Join(dups, ", "))
	}
	return detail, nil
}

func checkRegion(region string) (string, error) {
	v, err := validate.New(region)
	if err != nil {
		return "", err
	}
	if v.Region() == "" {
		return "no default region; every number needs a country code", nil
	}
	return "numbers without a country code are read as " + v.Region(), nil
}

func friendlyError(err error) string {
	msg := err.Error()
	if errors.Is(err, fs.ErrPermission) {
		return "permission denied (check file ownership and mode)"
	}
	if strings.Contains(msg, "not a directory") {
		return "a path component is a file, not a directory"
	}
	return msg
}

package audit

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/phonebook/internal/phonebook"
)

func fields(last string) phonebook.Fields {
	return phonebook.Fields{
		LastName:      last,
		FirstName:     "Иван",
		MiddleName:    "Иванович",
		Organization:  "Acme",
		WorkPhone:     "+74951234567",
		PersonalPhone: "+79161234567",
	}
}

func newWrapped(t *testing.T) (*Store, *Observer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewObserver(logger)
	inner := phonebook.New(filepath.Join(t.TempDir(), "phonebook.txt"), 2)
	return Wrap(inner, obs), obs, &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestStore_PassesResultsThrough(t *testing.T) {
	s, _, _ := newWrapped(t)
	plain := phonebook.New(filepath.Join(t.TempDir(), "plain.txt"), 2)

	for _, last := range []string{"Иванов", "Петров", "Сидоров"} {
		assert.Equal(t, plain.Add(fields(last)), s.Add(fields(last)))
	}
	assert.Equal(t, plain.Pages(), s.Pages())
	assert.Equal(t, plain.Page(2), s.Page(2))
	assert.Equal(t, plain.Search("петров"), s.Search("петров"))

	_, wantErr := plain.Find(99)
	_, gotErr := s.Find(99)
	assert.Equal(t, wantErr, gotErr)
	assert.ErrorIs(t, gotErr, phonebook.ErrNotFound)
}

func TestStore_AuditLines(t *testing.T) {
	s, obs, buf := newWrapped(t)

	s.Add(fields("Иванов"))
	s.Search("иван")
	_, err := s.Find(7)
	require.Error(t, err)

	lines := logLines(t, buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "add_entry", lines[0]["op"])
	assert.Equal(t, obs.Session(), lines[0]["session"])
	assert.Equal(t, "INFO", lines[0]["level"])
	group, ok := lines[0]["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Иванов", group["last_name"])
	assert.Contains(t, lines[0], "duration")

	assert.Equal(t, "search_entries", lines[1]["op"])
	assert.Equal(t, "иван", lines[1]["query"])
	assert.EqualValues(t, 1, lines[1]["matches"])

	assert.Equal(t, "entry_exists", lines[2]["op"])
	assert.Equal(t, "WARN", lines[2]["level"])
	assert.Contains(t, lines[2]["err"], "7")
}

func TestStore_EditLogsDiff(t *testing.T) {
	s, _, buf := newWrapped(t)
	s.Add(fields("Иванов"))

	index, err := s.Find(1)
	require.NoError(t, err)
	rec, err := s.Edit(index, fields("Петров"))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ID)

	lines := logLines(t, buf)
	edit := lines[len(lines)-1]
	assert.Equal(t, "edit_entry", edit["op"])
	diff, _ := edit["diff"].(string)
	assert.Contains(t, diff, "-1|Иванов|")
	assert.Contains(t, diff, "+1|Петров|")
}

func TestStore_LoadAndSave(t *testing.T) {
	s, _, buf := newWrapped(t)
	s.Add(fields("Иванов"))
	require.NoError(t, s.Save())
	require.NoError(t, s.Load())
	assert.Equal(t, 1, s.Unwrap().Len())

	lines := logLines(t, buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "save", lines[1]["op"])
	assert.Equal(t, "load", lines[2]["op"])
	assert.EqualValues(t, 1, lines[2]["entries"])
}

func TestObserver_Metrics(t *testing.T) {
	s, obs, _ := newWrapped(t)
	s.Add(fields("A"))
	s.Add(fields("B"))
	s.Find(42)

	var out bytes.Buffer
	obs.WritePrometheus(&out)
	text := out.String()

	assert.Contains(t, text, `phonebook_operations_total{operation="add_entry",status="ok"} 2`)
	assert.Contains(t, text, `phonebook_operations_total{operation="entry_exists",status="not_found"} 1`)
	assert.Contains(t, text, `phonebook_operation_duration_seconds_count{operation="add_entry"} 2`)
}

func TestObserver_NilLogger(t *testing.T) {
	obs := NewObserver(nil)
	assert.NotEmpty(t, obs.Session())
	assert.NotPanics(t, func() {
		Wrap(phonebook.New("unused", 5), obs).Search("x")
	})
}

func TestNewLogger_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_logs.txt")
	require.NoError(t, os.WriteFile(path, []byte("earlier\n"), 0644))

	logger, closer := NewLogger(Options{File: path, Level: "info", Format: "text"})
	logger.Info("operation", "op", "add_entry")
	logger.Debug("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "earlier\n"))
	assert.Contains(t, text, "op=add_entry")
	assert.NotContains(t, text, "hidden")
}

func TestNewLogger_Fallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")

	logger, closer := NewLogger(Options{File: path, Level: "loud", Format: "json"})
	logger.Info("still works")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "could not parse logger level")
	assert.Contains(t, string(data), "still works")

	logger, closer = NewLogger(Options{File: os.DevNull})
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}

package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/phonebook/internal/phonebook"
	"github.com/jeanpaul/phonebook/internal/validate"
)

var seed = []string{
	"1|Иванов|Иван|Иванович|Acme|+74951234567|+79161234567",
	"2|Петров|Пётр|Петрович|Acme|+74951234567|+79161234567",
	"3|Сидоров|Сидор|Сидорович|Globex|+74951234567|+79161234567",
}

func newTestModel(t *testing.T, lines ...string) (Model, *phonebook.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phonebook.txt")
	if len(lines) > 0 {
		require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	}
	store := phonebook.New(path, 2)
	require.NoError(t, store.Load())
	v, err := validate.New("RU")
	require.NoError(t, err)

	m := NewModel(store, v)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model), store
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var updated tea.Model
		updated, cmd = m.Update(msg)
		m = updated.(Model)
	}
	return m, cmd
}

// fill types values into the form, pressing enter after each one.
func fill(t *testing.T, m Model, values ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, v := range values {
		if v != "" {
			m, _ = press(t, m, v)
		}
		m, cmd = press(t, m, "enter")
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestMenu_Shortcuts(t *testing.T) {
	m, _ := newTestModel(t, seed...)
	assert.Equal(t, screenMenu, m.screen)
	assert.Contains(t, m.View(), "Вывести записи")

	m, _ = press(t, m, "4")
	assert.Equal(t, screenSearch, m.screen)
	m, _ = press(t, m, "esc")
	assert.Equal(t, screenMenu, m.screen)

	m, _ = press(t, m, "?")
	assert.Equal(t, screenHelp, m.screen)
	assert.NotEmpty(t, m.View())
}

func TestPage_Paging(t *testing.T) {
	m, _ := newTestModel(t, seed...)

	m, _ = press(t, m, "1")
	require.Equal(t, screenPage, m.screen)
	assert.Equal(t, 1, m.page)
	assert.Len(t, m.table.Rows(), 2)
	assert.Equal(t, "Иванов", m.table.Rows()[0][1])

	m, _ = press(t, m, "right")
	assert.Equal(t, 2, m.page)
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "3", m.table.Rows()[0][0])

	m, _ = press(t, m, "right")
	assert.Equal(t, 2, m.page, "no page past the last")

	m, _ = press(t, m, "left", "left")
	assert.Equal(t, 1, m.page)
}

func TestAdd_ValidRecord(t *testing.T) {
	m, store := newTestModel(t)

	m, _ = press(t, m, "2")
	require.Equal(t, screenAdd, m.screen)

	m, _ = fill(t, m, "Иванов", "Иван", "Иванович", "Acme", "+7 495 123-45-67", "+79161234567")

	assert.Equal(t, screenMenu, m.screen)
	assert.Contains(t, m.status, "Запись 1 добавлена")
	assert.Equal(t, []string{"1|Иванов|Иван|Иванович|Acme|+74951234567|+79161234567"}, store.Entries())
}

func TestAdd_InvalidStaysOnForm(t *testing.T) {
	m, store := newTestModel(t)

	m, _ = press(t, m, "2")
	m, _ = fill(t, m, "12345", "Иван", "", "", "not-a-phone", "+79161234567")

	assert.Equal(t, screenAdd, m.screen)
	assert.Equal(t, 0, store.Len())
	assert.Contains(t, m.form.errs, 0)
	assert.Contains(t, m.form.errs, 4)
	assert.Equal(t, 0, m.form.focus)
}

func TestEdit_UnknownIDReturnsToMenu(t *testing.T) {
	m, _ := newTestModel(t, seed...)

	m, _ = press(t, m, "3", "99", "enter")

	assert.Equal(t, screenMenu, m.screen)
	assert.Contains(t, m.status, "99")
	assert.Contains(t, m.status, "не найдена")
}

func TestEdit_PrefilledAndPersisted(t *testing.T) {
	m, store := newTestModel(t, seed...)

	m, _ = press(t, m, "3", "2", "enter")
	require.Equal(t, screenEdit, m.screen)
	assert.Equal(t, "Петров", m.form.inputs[0].Value())
	assert.Equal(t, "+74951234567", m.form.inputs[4].Value())

	m.form.inputs[0].SetValue("Смирнов")
	m, _ = fill(t, m, "", "", "", "", "", "")

	assert.Equal(t, screenMenu, m.screen)
	assert.Contains(t, m.status, "успешно отредактирована")

	reloaded := phonebook.New(store.Path(), 2)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "2|Смирнов|Пётр|Петрович|Acme|+74951234567|+79161234567", reloaded.Entries()[1])
}

func TestEdit_FromPage(t *testing.T) {
	m, _ := newTestModel(t, seed...)

	m, _ = press(t, m, "1", "down", "e")

	require.Equal(t, screenEdit, m.screen)
	assert.Equal(t, 2, m.editID)
	assert.Equal(t, 1, m.editIndex)
}

func TestEdit_BadID(t *testing.T) {
	m, _ := newTestModel(t, seed...)

	m, _ = press(t, m, "3", "abc", "enter")

	assert.Equal(t, screenEditID, m.screen)
	assert.Contains(t, m.status, "Неверный номер")
}

func TestSearch_NumberedResults(t *testing.T) {
	m, _ := newTestModel(t, seed...)

	m, _ = press(t, m, "4", "ACME", "enter")
	require.Len(t, m.results, 2)
	view := m.View()
	assert.Contains(t, view, "1. 1|Иванов|")
	assert.Contains(t, view, "2. 2|Петров|")

	m.query.SetValue("нет такого")
	m, _ = press(t, m, "enter")
	assert.Empty(t, m.results)
	assert.Contains(t, m.View(), "Ничего не найдено.")
}

func TestQuit_Saves(t *testing.T) {
	m, store := newTestModel(t)
	m, _ = press(t, m, "2")
	m, _ = fill(t, m, "Иванов", "Иван", "Иванович", "Acme", "+74951234567", "+79161234567")

	_, err := os.Stat(store.Path())
	require.True(t, os.IsNotExist(err), "add does not persist")

	m, cmd := press(t, m, "ctrl+c")
	assert.True(t, isQuit(cmd))
	assert.NoError(t, m.Err())
	assert.Empty(t, m.View())

	reloaded := phonebook.New(store.Path(), 2)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 1, reloaded.Len())
}

func TestQuit_SaveErrorIsReported(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	store := phonebook.New(filepath.Join(blocker, "phonebook.txt"), 5)
	v, err := validate.New("RU")
	require.NoError(t, err)

	m, cmd := press(t, NewModel(store, v), "q")
	assert.True(t, isQuit(cmd))
	assert.Error(t, m.Err())
}

func TestUseTheme(t *testing.T) {
	t.Cleanup(func() { UseTheme("green") })

	assert.True(t, UseTheme("amber"))
	assert.Equal(t, palettes["amber"].Accent, current.Accent)
	assert.False(t, UseTheme("neon"))
	assert.Equal(t, palettes["amber"].Accent, current.Accent)
	assert.Equal(t, []string{"amber", "green", "mono"}, Themes())
}

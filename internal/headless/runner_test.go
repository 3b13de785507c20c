package headless

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/phonebook/internal/phonebook"
	"github.com/jeanpaul/phonebook/internal/validate"
)

func setup(t *testing.T, lines ...string) (*phonebook.Store, *validate.Validator) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "phonebook.txt")
	if len(lines) > 0 {
		require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	}
	store := phonebook.New(path, 2)
	require.NoError(t, store.Load())
	v, err := validate.New("RU")
	require.NoError(t, err)
	return store, v
}

func run(t *testing.T, store *phonebook.Store, v *validate.Validator, input ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(input, "\n") + "\n")
	require.NoError(t, Run(context.Background(), in, &out, store, v))
	return out.String()
}

func TestRun_AddAndExitSaves(t *testing.T) {
	store, v := setup(t)

	out := run(t, store, v,
		"2", "Иванов", "Иван", "Иванович", "Acme", "+7 495 123-45-67", "8 916 123-45-67",
		"5",
	)

	assert.Contains(t, out, "Запись 1 добавлена.")
	assert.Contains(t, out, msgGoodbye)

	reloaded := phonebook.New(store.Path(), 2)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, []string{"1|Иванов|Иван|Иванович|Acme|+74951234567|+79161234567"}, reloaded.Entries())
}

func TestRun_AddRejectsInvalid(t *testing.T) {
	store, v := setup(t)

	out := run(t, store, v,
		"2", "12345", "Иван", "", "", "not-a-phone", "+74951234567",
		"5",
	)

	assert.Contains(t, out, "- last_name:")
	assert.Contains(t, out, "- work_phone:")
	assert.Equal(t, 0, store.Len())
}

func TestRun_Display(t *testing.T) {
	store, v := setup(t,
		"1|A|a|a|o|+74951234567|+74951234567",
		"2|B|b|b|o|+74951234567|+74951234567",
		"3|C|c|c|o|+74951234567|+74951234567",
	)

	out := run(t, store, v, "1", "2", "x", "выйти", "5")

	assert.Contains(t, out, "Всего страниц: 2")
	assert.Contains(t, out, "3|C|c|c|o|")
	assert.NotContains(t, out, "1|A|a|a|o|")
	assert.Contains(t, out, msgBadChoice)
}

func TestRun_DisplayHugePage(t *testing.T) {
	store, v := setup(t,
		"1|A|a|a|o|+74951234567|+74951234567",
		"2|B|b|b|o|+74951234567|+74951234567",
	)
	store.Add(phonebook.Fields{LastName: "C", WorkPhone: "+74951234567", PersonalPhone: "+74951234567"})

	out := run(t, store, v, "1", "1844674407370955163", "выйти", "5")

	assert.NotContains(t, out, "1|A|a|a|o|")
	assert.Contains(t, out, msgGoodbye)

	reloaded := phonebook.New(store.Path(), 2)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 3, reloaded.Len())
}

func TestRun_Search(t *testing.T) {
	store, v := setup(t,
		"1|Иванов|Иван|Иванович|Acme|+74951234567|+79161234567",
		"2|Петров|Пётр|Петрович|Acme|+74951234567|+79161234567",
		"3|Сидоров|Иван|Сидорович|Other|+74951234567|+79161234567",
	)

	out := run(t, store, v, "4", "ИВАН", "4", "zzz", "5")

	assert.Contains(t, out, "1. 1|Иванов|")
	assert.Contains(t, out, "2. 3|Сидоров|")
	assert.Contains(t, out, msgNoResults)
}

func TestRun_EditKeepsBlankFields(t *testing.T) {
	store, v := setup(t,
		"1|Иванов|Иван|Иванович|Acme|+74951234567|+79161234567",
		"4|Петров|Пётр|Петрович|Acme|+74951234567|+79161234567",
	)

	out := run(t, store, v, "3", "4", "Смирнов", "", "", "Globex", "", "", "5")
	assert.Contains(t, out, msgEdited)

	reloaded := phonebook.New(store.Path(), 2)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "4|Смирнов|Пётр|Петрович|Globex|+74951234567|+79161234567", reloaded.Entries()[1])
}

func TestRun_EditClearsMarkedFields(t *testing.T) {
	store, v := setup(t, "1|Иванов|Иван|Иванович|Acme|+74951234567|+79161234567")

	out := run(t, store, v, "3", "1", "", "", "-", " - ", "", "", "5")
	assert.Contains(t, out, msgEditHint)
	assert.Contains(t, out, msgEdited)

	reloaded := phonebook.New(store.Path(), 2)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, []string{"1|Иванов|Иван|||+74951234567|+79161234567"}, reloaded.Entries())
}

func TestRun_EditUnknownIDExitsEarly(t *testing.T) {
	store, v := setup(t, "1|Иванов|Иван|Иванович|Acme|+74951234567|+79161234567")

	out := run(t, store, v, "3", "9", "5")

	assert.Contains(t, out, msgNotFound)
	assert.NotContains(t, out, phonebook.Labels[0])
}

func TestRun_EditBadID(t *testing.T) {
	store, v := setup(t)
	out := run(t, store, v, "3", "abc", "5")
	assert.Contains(t, out, "Неверный выбор.")
}

func TestRun_BadChoiceAndEOF(t *testing.T) {
	store, v := setup(t)

	out := run(t, store, v, "9")

	assert.Contains(t, out, msgBadChoice)
	assert.Contains(t, out, msgGoodbye)
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	store, v := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, strings.NewReader("5\n"), &bytes.Buffer{}, store, v)
	assert.ErrorIs(t, err, context.Canceled)
}

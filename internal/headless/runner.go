// Package headless runs the phonebook as a numbered text menu over plain
// reader and writer streams. It is used when stdin is not a terminal or
// when the user asks for it.
package headless

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jeanpaul/phonebook/internal/phonebook"
	"github.com/jeanpaul/phonebook/internal/validate"
)

const (
	menuText = `
Телефонный справочник
1. Вывести записи
2. Добавить запись
3. Редактировать запись
4. Поиск записей
5. Выйти`

	promptChoice = "Выберите действие: "
	promptPage   = "Введите номер страницы или 'выйти' для выхода: "
	promptID     = "Введите номер записи для редактирования: "
	promptQuery  = "Введите строку для поиска: "
	leaveWord    = "выйти"
	clearMark    = "-"

	msgEditHint  = "Пустой ввод оставляет текущее значение, '-' очищает поле."
	msgBadChoice = "Неверный выбор. Попробуйте снова."
	msgNotFound  = "Запись с указанным номером не найдена."
	msgEdited    = "Запись успешно отредактирована."
	msgNoResults = "Ничего не найдено."
	msgGoodbye   = "До свидания!"
)

type runner struct {
	in  *bufio.Scanner
	out io.Writer
	dir phonebook.Directory
	v   *validate.Validator
}

// Run serves the menu until the user exits, input ends or ctx is done.
// The directory must already be loaded; it is saved on every way out
// except cancellation. Only I/O failures are returned.
func Run(ctx context.Context, in io.Reader, out io.Writer, dir phonebook.Directory, v *validate.Validator) error {
	r := &runner{in: bufio.NewScanner(in), out: out, dir: dir, v: v}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(r.out, menuText)
		choice, ok := r.prompt(promptChoice)
		if !ok {
			return r.exit()
		}

		var err error
		switch strings.TrimSpace(choice) {
		case "1":
			r.display()
		case "2":
			r.add()
		case "3":
			err = r.edit()
		case "4":
			r.search()
		case "5":
			return r.exit()
		default:
			fmt.Fprintln(r.out, msgBadChoice)
		}
		if err != nil {
			return err
		}
	}
}

func (r *runner) prompt(text string) (string, bool) {
	fmt.Fprint(r.out, text)
	if !r.in.Scan() {
		fmt.Fprintln(r.out)
		return "", false
	}
	return r.in.Text(), true
}

func (r *runner) exit() error {
	if err := r.dir.Save(); err != nil {
		return fmt.Errorf("save on exit: %w", err)
	}
	fmt.Fprintln(r.out, msgGoodbye)
	return nil
}

func (r *runner) display() {
	for {
		fmt.Fprintf(r.out, "Всего страниц: %d\n", r.dir.Pages())
		input, ok := r.prompt(promptPage)
		if !ok || strings.EqualFold(strings.TrimSpace(input), leaveWord) {
			return
		}
		page, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			fmt.Fprintln(r.out, msgBadChoice)
			continue
		}
		for _, entry := range r.dir.Page(page) {
			fmt.Fprintln(r.out, entry)
		}
	}
}

// readFields asks for every field. With current set, a blank answer keeps
// the current value and clearMark empties it.
func (r *runner) readFields(current *phonebook.Fields) (phonebook.Fields, bool) {
	var keep []string
	if current != nil {
		keep = current.Values()
		fmt.Fprintln(r.out, msgEditHint)
	}

	values := make([]string, len(phonebook.Labels))
	for i, label := range phonebook.Labels {
		text := label + ": "
		if keep != nil {
			text = fmt.Sprintf("%s [%s]: ", label, keep[i])
		}
		value, ok := r.prompt(text)
		if !ok {
			return phonebook.Fields{}, false
		}
		if keep != nil {
			switch strings.TrimSpace(value) {
			case "":
				value = keep[i]
			case clearMark:
				value = ""
			}
		}
		values[i] = value
	}

	return phonebook.FieldsFromValues(values), true
}

func (r *runner) validate(raw phonebook.Fields) (phonebook.Fields, bool) {
	clean, err := r.v.Validate(raw)
	if err != nil {
		fmt.Fprintln(r.out, "Ошибка ввода:")
		for _, violation := range validate.Violations(err) {
			fmt.Fprintf(r.out, "- %s: %s\n", violation.Field, violation.Reason)
		}
		return phonebook.Fields{}, false
	}
	return clean, true
}

func (r *runner) add() {
	fmt.Fprintln(r.out, "Добавление новой записи:")
	raw, ok := r.readFields(nil)
	if !ok {
		return
	}
	clean, ok := r.validate(raw)
	if !ok {
		return
	}
	rec := r.dir.Add(clean)
	fmt.Fprintf(r.out, "Запись %d добавлена.\n", rec.ID)
}

func (r *runner) edit() error {
	fmt.Fprintln(r.out, "Редактирование записи:")
	input, ok := r.prompt(promptID)
	if !ok {
		return nil
	}
	id, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		fmt.Fprintln(r.out, "Неверный выбор.")
		return nil
	}

	index, err := r.dir.Find(id)
	if errors.Is(err, phonebook.ErrNotFound) {
		fmt.Fprintln(r.out, msgNotFound)
		return nil
	}
	if err != nil {
		return err
	}

	var current *phonebook.Fields
	if line, err := r.dir.Entry(index); err == nil {
		fmt.Fprintln(r.out, line)
		if rec, err := phonebook.ParseRecord(line); err == nil {
			current = &rec.Fields
		}
	}

	raw, ok := r.readFields(current)
	if !ok {
		return nil
	}
	clean, ok := r.validate(raw)
	if !ok {
		return nil
	}
	if _, err := r.dir.Edit(index, clean); err != nil {
		return fmt.Errorf("edit entry %d: %w", id, err)
	}
	fmt.Fprintln(r.out, msgEdited)
	return nil
}

func (r *runner) search() {
	query, ok := r.prompt(promptQuery)
	if !ok {
		return
	}
	results := r.dir.Search(query)
	if len(results) == 0 {
		fmt.Fprintln(r.out, msgNoResults)
		return
	}
	fmt.Fprintln(r.out, "Результаты поиска:")
	for i, entry := range results {
		fmt.Fprintf(r.out, "%d. %s\n", i+1, entry)
	}
}

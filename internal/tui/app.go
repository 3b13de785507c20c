package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeanpaul/phonebook/internal/phonebook"
	"github.com/jeanpaul/phonebook/internal/validate"
)

type screen int

const (
	screenMenu screen = iota
	screenPage
	screenAdd
	screenEditID
	screenEdit
	screenSearch
	screenHelp
)

const helpText = `# Телефонный справочник

| Клавиша | Действие |
|---|---|
| 1–5, enter | пункт меню |
| ←/→, pgup/pgdown | листать страницы |
| e | редактировать выбранную запись |
| tab, shift+tab | поля формы |
| enter на последнем поле | сохранить запись |
| esc | назад в меню |
| ctrl+c, q | сохранить и выйти |

Записи хранятся в текстовом файле, по одной на строку:

` + "```" + `
id|Фамилия|Имя|Отчество|Организация|Телефон рабочий|Телефон личный
` + "```" + `

Имя, фамилия, отчество и организация не могут состоять только из цифр.
Телефоны приводятся к формату E.164.
`

type Model struct {
	width, height int

	dir phonebook.Directory
	v   *validate.Validator

	screen   screen
	menu     MenuModel
	table    table.Model
	page     int
	form     formModel
	idInput  textinput.Model
	query    textinput.Model
	results  []string
	searched bool
	help     viewport.Model

	editIndex int
	editID    int

	status   string
	statusOK bool
	err      error
	quitting bool
}

// NewModel builds the interactive front end over an already loaded
// directory.
func NewModel(dir phonebook.Directory, v *validate.Validator) Model {
	id := textinput.New()
	id.Placeholder = "номер записи"
	id.CharLimit = 10
	id.Width = 20

	q := textinput.New()
	q.Placeholder = "строка для поиска"
	q.Width = 40

	vp := viewport.New(80, 20)

	return Model{
		dir:     dir,
		v:       v,
		menu:    NewMenuModel(),
		table:   newTable(10),
		page:    1,
		idInput: id,
		query:   q,
		help:    vp,
	}
}

// Err returns the I/O error that ended the program, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyH := max(msg.Height-8, 5)
		m.menu.SetSize(msg.Width, bodyH)
		m.table.SetHeight(bodyH - 2)
		m.help.Width = msg.Width - 4
		m.help.Height = bodyH
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenPage:
			return m.updatePage(msg)
		case screenAdd, screenEdit:
			return m.updateForm(msg)
		case screenEditID:
			return m.updateEditID(msg)
		case screenSearch:
			return m.updateSearch(msg)
		case screenHelp:
			return m.updateHelp(msg)
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if err := m.dir.Save(); err != nil {
		m.err = err
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) setStatus(ok bool, format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusOK = ok
}

func (m Model) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		action Action
		cmd    tea.Cmd
	)
	m.menu, action, cmd = m.menu.Update(msg)
	if action != ActionNone {
		m.status = ""
	}

	switch action {
	case ActionList:
		m.page = 1
		m.loadPage()
		m.screen = screenPage
	case ActionAdd:
		m.form = newForm("Добавление новой записи", nil)
		m.screen = screenAdd
	case ActionEdit:
		m.idInput.Reset()
		m.idInput.Focus()
		m.screen = screenEditID
	case ActionSearch:
		m.query.Reset()
		m.query.Focus()
		m.results = nil
		m.searched = false
		m.screen = screenSearch
	case ActionHelp:
		m.help.SetContent(m.renderHelp())
		m.help.GotoTop()
		m.screen = screenHelp
	case ActionQuit:
		return m.quit()
	}
	return m, cmd
}

func (m *Model) loadPage() {
	m.table.SetRows(entryRows(m.dir.Page(m.page)))
	m.table.GotoTop()
}

func (m Model) updatePage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m.toMenu()
	case "left", "h", "pgup":
		if m.page > 1 {
			m.page--
			m.loadPage()
		}
		return m, nil
	case "right", "l", "pgdown":
		if m.page < m.dir.Pages() {
			m.page++
			m.loadPage()
		}
		return m, nil
	case "e":
		if id := rowID(m.table.SelectedRow()); id > 0 {
			return m.beginEdit(id)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateEditID(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.toMenu()
	case tea.KeyEnter:
		id, err := strconv.Atoi(strings.TrimSpace(m.idInput.Value()))
		if err != nil {
			m.setStatus(false, "Неверный номер записи: %q", m.idInput.Value())
			return m, nil
		}
		return m.beginEdit(id)
	}

	var cmd tea.Cmd
	m.idInput, cmd = m.idInput.Update(msg)
	return m, cmd
}

// beginEdit looks the id up before anything is asked; an unknown id goes
// straight back to the menu.
func (m Model) beginEdit(id int) (tea.Model, tea.Cmd) {
	index, err := m.dir.Find(id)
	if errors.Is(err, phonebook.ErrNotFound) {
		m.setStatus(false, "Запись с номером %d не найдена.", id)
		return m.toMenu()
	}
	if err != nil {
		m.err = err
		return m, tea.Quit
	}

	var current *phonebook.Fields
	if line, err := m.dir.Entry(index); err == nil {
		if rec, err := phonebook.ParseRecord(line); err == nil {
			current = &rec.Fields
		}
	}

	m.editIndex, m.editID = index, id
	m.form = newForm(fmt.Sprintf("Редактирование записи %d", id), current)
	m.status = ""
	m.screen = screenEdit
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return m.toMenu()
	}

	var (
		submitted bool
		cmd       tea.Cmd
	)
	m.form, submitted, cmd = m.form.Update(msg)
	if !submitted {
		return m, cmd
	}

	clean, err := m.v.Validate(m.form.fields())
	if err != nil {
		m.form.setErrors(err)
		m.setStatus(false, "Исправьте отмеченные поля.")
		return m, nil
	}

	if m.screen == screenAdd {
		rec := m.dir.Add(clean)
		m.setStatus(true, "Запись %d добавлена.", rec.ID)
		return m.toMenu()
	}

	if _, err := m.dir.Edit(m.editIndex, clean); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.setStatus(true, "Запись %d успешно отредактирована.", m.editID)
	return m.toMenu()
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.toMenu()
	case tea.KeyEnter:
		m.results = m.dir.Search(m.query.Value())
		m.searched = true
		return m, nil
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return m, cmd
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m.toMenu()
	}
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(msg)
	return m, cmd
}

func (m Model) renderHelp() string {
	width := m.help.Width
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpText
	}
	out, err := r.Render(helpText)
	if err != nil {
		return helpText
	}
	return out
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	header := TitleStyle.Render("phonebook") +
		StatusStyle.Render(fmt.Sprintf("страниц: %d", m.dir.Pages()))
	b.WriteString(header + "\n\n")

	switch m.screen {
	case screenMenu:
		b.WriteString(m.menu.View())
	case screenPage:
		b.WriteString(LabelStyle.Render(fmt.Sprintf("Страница %d из %d", m.page, max(m.dir.Pages(), 1))) + "\n")
		b.WriteString(m.table.View())
	case screenAdd, screenEdit:
		b.WriteString(m.form.View())
	case screenEditID:
		b.WriteString(LabelStyle.Render("Редактирование записи") + "\n\n")
		b.WriteString(InputActiveStyle.Render(m.idInput.View()))
	case screenSearch:
		b.WriteString(m.searchView())
	case screenHelp:
		b.WriteString(m.help.View())
	}

	b.WriteString("\n")
	if m.status != "" {
		style := ErrorStyle
		if m.statusOK {
			style = StatusStyle
		}
		b.WriteString(style.Render(m.status) + "\n")
	}
	b.WriteString(HelpStyle.Render(m.keyHints()))
	return b.String()
}

func (m Model) searchView() string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("Поиск записей") + "\n\n")
	b.WriteString(InputActiveStyle.Render(m.query.View()) + "\n")

	if !m.searched {
		return b.String()
	}
	if len(m.results) == 0 {
		b.WriteString(MutedStyle.Render("Ничего не найдено.") + "\n")
		return b.String()
	}

	b.WriteString(LabelStyle.Render("Результаты поиска:") + "\n")
	width := m.width - 6
	if width <= 0 {
		width = 120
	}
	for i, entry := range m.results {
		b.WriteString(TextStyle.Render(fmt.Sprintf("%d. %s", i+1, truncate(entry, width))) + "\n")
	}
	return b.String()
}

func (m Model) keyHints() string {
	switch m.screen {
	case screenPage:
		return "←/→ страницы • ↑/↓ строки • e редактировать • esc меню"
	case screenAdd, screenEdit:
		return "tab/shift+tab поля • enter далее / сохранить • esc отмена"
	case screenEditID, screenSearch:
		return "enter подтвердить • esc меню"
	case screenHelp:
		return "↑/↓ прокрутка • esc меню"
	default:
		return "1–5 или enter выбор • ? справка • q выйти"
	}
}

package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Action is a main menu entry.
type Action int

const (
	ActionNone Action = iota
	ActionList
	ActionAdd
	ActionEdit
	ActionSearch
	ActionHelp
	ActionQuit
)

type item struct {
	title, desc string
	key         string
	action      Action
}

func (i item) Title() string       { return i.key + ". " + i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

type MenuModel struct {
	list list.Model
}

func NewMenuModel() MenuModel {
	items := []list.Item{
		item{key: "1", title: "Вывести записи", desc: "Постраничный просмотр справочника", action: ActionList},
		item{key: "2", title: "Добавить запись", desc: "Новая запись со следующим номером", action: ActionAdd},
		item{key: "3", title: "Редактировать запись", desc: "Изменить запись по номеру", action: ActionEdit},
		item{key: "4", title: "Поиск записей", desc: "Поиск подстроки без учета регистра", action: ActionSearch},
		item{key: "?", title: "Справка", desc: "Клавиши и формат файла", action: ActionHelp},
		item{key: "5", title: "Выйти", desc: "Сохранить и выйти", action: ActionQuit},
	}

	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = SelectedStyle
	d.Styles.SelectedDesc = SelectedStyle.Foreground(current.Dim)

	l := list.New(items, d, 50, 20)
	l.Title = "Телефонный справочник"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = lipgloss.NewStyle().Foreground(current.Accent).Bold(true).MarginLeft(2)

	return MenuModel{list: l}
}

func (m *MenuModel) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Update returns the chosen action when the user presses enter or an
// entry's shortcut key, ActionNone otherwise.
func (m MenuModel) Update(msg tea.Msg) (MenuModel, Action, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.Type == tea.KeyEnter {
			if it, ok := m.list.SelectedItem().(item); ok {
				return m, it.action, nil
			}
			return m, ActionNone, nil
		}
		for i, li := range m.list.Items() {
			if it := li.(item); it.key == key.String() {
				m.list.Select(i)
				return m, it.action, nil
			}
		}
		if key.String() == "q" {
			return m, ActionQuit, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, ActionNone, cmd
}

func (m MenuModel) View() string {
	return m.list.View()
}

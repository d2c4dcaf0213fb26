package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/HailuBoc/student-task-manager/internal/client"
	dom "github.com/HailuBoc/student-task-manager/internal/domain"
)

func (m model) View() string {
	switch m.screen {
	case screenAuth:
		return m.viewAuth()
	case screenAdd:
		return m.viewAdd()
	}
	return m.viewList()
}

func (m model) viewAuth() string {
	var b strings.Builder
	if m.signupMode {
		b.WriteString(m.styles.title.Render("Sign up") + "\n\n")
		b.WriteString(m.authInputs[0].View() + "\n")
	} else {
		b.WriteString(m.styles.title.Render("Log in") + "\n\n")
	}
	b.WriteString(m.authInputs[1].View() + "\n")
	b.WriteString(m.authInputs[2].View() + "\n\n")
	if m.busy {
		b.WriteString(m.styles.faint.Render("working...") + "\n")
	}
	b.WriteString(m.viewNotice())
	mode := "ctrl+s: switch to sign up"
	if m.signupMode {
		mode = "ctrl+s: switch to log in"
	}
	b.WriteString(m.styles.faint.Render("enter: submit • tab: next field • " + mode))
	return m.styles.inputBox.Render(b.String())
}

func (m model) viewAdd() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("New task") + "\n\n")
	for _, in := range m.addInputs {
		b.WriteString(in.View() + "\n")
	}
	b.WriteString("priority: " + m.priorityLabel(m.addPrio) + m.styles.faint.Render("  (←/→ to change)") + "\n\n")
	b.WriteString(m.viewNotice())
	b.WriteString(m.styles.faint.Render("enter: create • esc: cancel"))
	return m.styles.inputBox.Render(b.String())
}

func (m model) viewList() string {
	var b strings.Builder

	title := "Tasks"
	if m.userName != "" {
		title = m.userName + "'s tasks"
	}
	b.WriteString(m.styles.title.Render(title))
	b.WriteString("  " + m.styles.faint.Render(fmt.Sprintf("filter: %s • sort: %s", statusLabel(m.store.Status()), sortLabel(m.store.Sort()))))
	if m.busy {
		b.WriteString("  " + m.styles.faint.Render("…"))
	}
	b.WriteString("\n")

	if m.focus == focusFilter || m.store.Query() != "" {
		b.WriteString(m.filterInput.View() + "\n")
	}
	b.WriteString("\n")

	view := m.store.View()
	if len(view) == 0 {
		b.WriteString(m.styles.faint.Render("no tasks match") + "\n")
	}
	now := time.Now()
	for i, t := range view {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.cursor.Render("> ")
		}
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s %s", check, m.priorityLabel(dom.Priority(t.Priority)), t.Title)
		if t.Completed {
			line = m.styles.done.Render(line)
		}
		due := t.DueDate.Format("2006-01-02")
		if client.Overdue(t, now) {
			due = m.styles.overdue.Render(due + " overdue")
		} else {
			due = m.styles.faint.Render(due)
		}
		b.WriteString(cursor + line + "  " + due + "\n")
	}

	b.WriteString("\n" + m.viewNotice())
	b.WriteString(m.styles.faint.Render(
		"j/k: move • J/K: reorder • space: done • a: add • d: delete • /: search • f: filter • s: sort • r: refresh • m: theme • q: quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m model) viewNotice() string {
	if m.notice == "" {
		return ""
	}
	style := m.styles.errNote
	if m.noticeOK {
		style = m.styles.okNote
	}
	return style.Render(m.notice) + "\n"
}

func (m model) priorityLabel(p dom.Priority) string {
	switch p {
	case dom.PriorityLow:
		return m.styles.low.Render("low   ")
	case dom.PriorityHigh:
		return m.styles.high.Render("high  ")
	}
	return m.styles.medium.Render("medium")
}

func statusLabel(f dom.StatusFilter) string {
	if f == dom.StatusAll {
		return "all"
	}
	return string(f)
}

func sortLabel(k dom.SortKey) string {
	if k == dom.SortCreatedAt {
		return "newest"
	}
	return string(k)
}

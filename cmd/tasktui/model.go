package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HailuBoc/student-task-manager/internal/client"
	dom "github.com/HailuBoc/student-task-manager/internal/domain"
	"github.com/HailuBoc/student-task-manager/internal/dto"
)

// screen identifies which full-screen view is active.
type screen int

const (
	// screenAuth shows the login/signup form.
	screenAuth screen = iota
	// screenList shows the task list with filter and sort controls.
	screenList
	// screenAdd shows the new-task form.
	screenAdd
)

// focusRegion identifies where keystrokes go on the list screen.
type focusRegion int

const (
	// focusList means navigation keys move the cursor.
	focusList focusRegion = iota
	// focusFilter means keystrokes go to the search input.
	focusFilter
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Search   key.Binding
	Status   key.Binding
	Sort     key.Binding
	Toggle   key.Binding
	Add      key.Binding
	Delete   key.Binding
	Refresh  key.Binding
	DarkMode key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down")),
		Search:   key.NewBinding(key.WithKeys("/")),
		Status:   key.NewBinding(key.WithKeys("f")),
		Sort:     key.NewBinding(key.WithKeys("s")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "x")),
		Add:      key.NewBinding(key.WithKeys("a")),
		Delete:   key.NewBinding(key.WithKeys("d")),
		Refresh:  key.NewBinding(key.WithKeys("r")),
		DarkMode: key.NewBinding(key.WithKeys("m")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c")),
	}
}

// Messages delivered by asynchronous API calls.
type authDoneMsg struct {
	resp dto.AuthResponse
	err  error
}

type refreshDoneMsg struct{ err error }

type mutationDoneMsg struct {
	err error
}

type noticeFadeMsg struct{}

const noticeFadeDelay = 3 * time.Second

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	cursor   lipgloss.Style
	done     lipgloss.Style
	overdue  lipgloss.Style
	low      lipgloss.Style
	medium   lipgloss.Style
	high     lipgloss.Style
	faint    lipgloss.Style
	errNote  lipgloss.Style
	okNote   lipgloss.Style
	inputBox lipgloss.Style
}

func newStyles(dark bool) styles {
	base := lipgloss.NewStyle()
	text := lipgloss.Color("235")
	if dark {
		text = lipgloss.Color("252")
	}
	return styles{
		title:    base.Bold(true).Foreground(lipgloss.Color("63")),
		header:   base.Bold(true).Foreground(text),
		cursor:   base.Bold(true).Foreground(lipgloss.Color("205")),
		done:     base.Strikethrough(true).Faint(true),
		overdue:  base.Foreground(lipgloss.Color("196")),
		low:      base.Foreground(lipgloss.Color("72")),
		medium:   base.Foreground(lipgloss.Color("178")),
		high:     base.Foreground(lipgloss.Color("203")),
		faint:    base.Faint(true),
		errNote:  base.Foreground(lipgloss.Color("196")),
		okNote:   base.Foreground(lipgloss.Color("72")),
		inputBox: base.Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

// model is the bubbletea state machine for the terminal client. All
// server traffic goes through the TaskStore / Client; the model only
// renders and routes keys.
type model struct {
	api    *client.Client
	store  *client.TaskStore
	prefs  *client.Prefs
	keys   keyMap
	styles styles

	screen screen
	focus  focusRegion
	width  int
	height int

	// auth form
	signupMode bool
	authInputs []textinput.Model // name, email, password
	authFocus  int

	// list screen
	cursor      int
	filterInput textinput.Model
	busy        bool

	// add form
	addInputs []textinput.Model // title, description, due date
	addFocus  int
	addPrio   dom.Priority

	userName string
	notice   string
	noticeOK bool
}

func newModel(api *client.Client, prefs *client.Prefs) model {
	name := textinput.New()
	name.Placeholder = "name"
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	filter := textinput.New()
	filter.Placeholder = "search title or description"

	title := textinput.New()
	title.Placeholder = "title"
	desc := textinput.New()
	desc.Placeholder = "description"
	due := textinput.New()
	due.Placeholder = "due date (YYYY-MM-DD)"

	return model{
		api:         api,
		store:       client.NewTaskStore(api),
		prefs:       prefs,
		keys:        defaultKeyMap(),
		styles:      newStyles(prefs.DarkMode),
		screen:      screenAuth,
		authInputs:  []textinput.Model{name, email, password},
		authFocus:   1, // email first; name only matters for signup
		filterInput: filter,
		addInputs:   []textinput.Model{title, desc, due},
		addPrio:     dom.PriorityMedium,
	}
}

func (m model) Init() tea.Cmd {
	if m.prefs.Token != "" {
		// Resume the stored session; a 401 falls back to the form.
		m.api.SetToken(m.prefs.Token)
		return m.refreshCmd()
	}
	return textinput.Blink
}

func (m model) refreshCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return refreshDoneMsg{err: store.Refresh(ctx)}
	}
}

func noticeFadeCmd() tea.Cmd {
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg { return noticeFadeMsg{} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case authDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.notice, m.noticeOK = apiErrorText(msg.err), false
			return m, noticeFadeCmd()
		}
		m.userName = msg.resp.User.Name
		_ = m.prefs.SetToken(msg.resp.Token)
		m.screen = screenList
		m.busy = true
		return m, m.refreshCmd()

	case refreshDoneMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrUnauthorized) {
				// Stored token rejected: drop it and show the form.
				_ = m.prefs.SetToken("")
				m.api.SetToken("")
				m.screen = screenAuth
				return m, textinput.Blink
			}
			m.notice, m.noticeOK = apiErrorText(msg.err), false
			return m, noticeFadeCmd()
		}
		m.screen = screenList
		m.clampCursor()
		return m, nil

	case mutationDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.notice, m.noticeOK = apiErrorText(msg.err), false
			return m, noticeFadeCmd()
		}
		m.clampCursor()
		return m, nil

	case noticeFadeMsg:
		m.notice = ""
		return m, nil

	case tea.KeyMsg:
		switch m.screen {
		case screenAuth:
			return m.updateAuth(msg)
		case screenAdd:
			return m.updateAdd(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func apiErrorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	// Network or decode failure: the server never saw or never
	// answered the request.
	return "something went wrong, try again later"
}

func (m *model) clampCursor() {
	n := len(m.store.View())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "down":
		m.authFocus = m.nextAuthField(1)
		return m.focusAuth()
	case "shift+tab", "up":
		m.authFocus = m.nextAuthField(-1)
		return m.focusAuth()
	case "ctrl+s":
		m.signupMode = !m.signupMode
		if !m.signupMode && m.authFocus == 0 {
			m.authFocus = 1
		}
		return m.focusAuth()
	case "enter":
		name := strings.TrimSpace(m.authInputs[0].Value())
		email := strings.TrimSpace(m.authInputs[1].Value())
		password := m.authInputs[2].Value()
		m.busy = true
		api := m.api
		signup := m.signupMode
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if signup {
				resp, err := api.Signup(ctx, name, email, password)
				return authDoneMsg{resp: resp, err: err}
			}
			resp, err := api.Login(ctx, email, password)
			return authDoneMsg{resp: resp, err: err}
		}
	}
	var cmd tea.Cmd
	m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	return m, cmd
}

func (m model) nextAuthField(dir int) int {
	first := 1 // login mode skips the name field
	if m.signupMode {
		first = 0
	}
	next := m.authFocus + dir
	if next < first {
		return len(m.authInputs) - 1
	}
	if next >= len(m.authInputs) {
		return first
	}
	return next
}

func (m model) focusAuth() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i := range m.authInputs {
		if i == m.authFocus {
			cmds = append(cmds, m.authInputs[i].Focus())
		} else {
			m.authInputs[i].Blur()
		}
	}
	return m, tea.Batch(cmds...)
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focus == focusFilter {
		switch msg.String() {
		case "enter", "esc":
			m.focus = focusList
			m.filterInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.store.SetQuery(m.filterInput.Value())
		m.clampCursor()
		return m, cmd
	}

	view := m.store.View()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(view)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.MoveUp):
		m.moveSelected(view, -1)
	case key.Matches(msg, m.keys.MoveDown):
		m.moveSelected(view, 1)
	case key.Matches(msg, m.keys.Search):
		m.focus = focusFilter
		return m, m.filterInput.Focus()
	case key.Matches(msg, m.keys.Status):
		m.store.SetStatus(nextStatus(m.store.Status()))
		m.clampCursor()
	case key.Matches(msg, m.keys.Sort):
		m.store.SetSort(nextSort(m.store.Sort()))
		m.clampCursor()
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(view) {
			id := view[m.cursor].ID
			store := m.store
			m.busy = true
			return m, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_, err := store.ToggleComplete(ctx, id)
				return mutationDoneMsg{err: err}
			}
		}
	case key.Matches(msg, m.keys.Delete):
		if m.cursor < len(view) {
			id := view[m.cursor].ID
			store := m.store
			m.busy = true
			return m, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return mutationDoneMsg{err: store.Delete(ctx, id)}
			}
		}
	case key.Matches(msg, m.keys.Add):
		m.screen = screenAdd
		m.addFocus = 0
		for i := range m.addInputs {
			m.addInputs[i].SetValue("")
			m.addInputs[i].Blur()
		}
		m.addPrio = dom.PriorityMedium
		return m, m.addInputs[0].Focus()
	case key.Matches(msg, m.keys.Refresh):
		m.busy = true
		return m, m.refreshCmd()
	case key.Matches(msg, m.keys.DarkMode):
		_ = m.prefs.SetDarkMode(!m.prefs.DarkMode)
		m.styles = newStyles(m.prefs.DarkMode)
	}
	return m, nil
}

// moveSelected shifts the selected task one place in the underlying
// local order. View positions are translated to list positions by id,
// so the move also behaves sanely while a filter hides neighbors.
func (m *model) moveSelected(view []dto.TaskResponse, dir int) {
	target := m.cursor + dir
	if m.cursor >= len(view) || target < 0 || target >= len(view) {
		return
	}
	from := m.indexOf(view[m.cursor].ID)
	to := m.indexOf(view[target].ID)
	if from < 0 || to < 0 {
		return
	}
	m.store.Move(from, to)
	m.cursor = target
}

func (m *model) indexOf(id int64) int {
	for i, t := range m.store.Tasks() {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func nextStatus(f dom.StatusFilter) dom.StatusFilter {
	switch f {
	case dom.StatusAll:
		return dom.StatusPending
	case dom.StatusPending:
		return dom.StatusCompleted
	}
	return dom.StatusAll
}

func nextSort(k dom.SortKey) dom.SortKey {
	switch k {
	case dom.SortCreatedAt:
		return dom.SortPriority
	case dom.SortPriority:
		return dom.SortDueDate
	}
	return dom.SortCreatedAt
}

func (m model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenList
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "down":
		return m.cycleAddFocus(1)
	case "shift+tab", "up":
		return m.cycleAddFocus(-1)
	case "left":
		m.addPrio = prevPriority(m.addPrio)
		return m, nil
	case "right":
		m.addPrio = nextPriority(m.addPrio)
		return m, nil
	case "enter":
		due, err := time.Parse("2006-01-02", strings.TrimSpace(m.addInputs[2].Value()))
		if err != nil {
			m.notice, m.noticeOK = "due date must be YYYY-MM-DD", false
			return m, noticeFadeCmd()
		}
		req := dto.CreateTaskRequest{
			Title:       strings.TrimSpace(m.addInputs[0].Value()),
			Description: strings.TrimSpace(m.addInputs[1].Value()),
			Priority:    string(m.addPrio),
			DueDate:     dto.NewDueDate(due),
		}
		store := m.store
		m.busy = true
		m.screen = screenList
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_, err := store.Create(ctx, req)
			return mutationDoneMsg{err: err}
		}
	}
	var cmd tea.Cmd
	m.addInputs[m.addFocus], cmd = m.addInputs[m.addFocus].Update(msg)
	return m, cmd
}

func (m model) cycleAddFocus(dir int) (tea.Model, tea.Cmd) {
	m.addInputs[m.addFocus].Blur()
	m.addFocus = (m.addFocus + dir + len(m.addInputs)) % len(m.addInputs)
	return m, m.addInputs[m.addFocus].Focus()
}

func prevPriority(p dom.Priority) dom.Priority {
	switch p {
	case dom.PriorityHigh:
		return dom.PriorityMedium
	case dom.PriorityMedium:
		return dom.PriorityLow
	}
	return dom.PriorityHigh
}

func nextPriority(p dom.Priority) dom.Priority {
	switch p {
	case dom.PriorityLow:
		return dom.PriorityMedium
	case dom.PriorityMedium:
		return dom.PriorityHigh
	}
	return dom.PriorityLow
}

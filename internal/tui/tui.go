// Package tui is the interactive bubbletea front end over the list and todo
// stores.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tadalists/internal/due"
	"github.com/Makepad-fr/tadalists/internal/lists"
	"github.com/Makepad-fr/tadalists/internal/model"
	"github.com/Makepad-fr/tadalists/internal/todos"
	"github.com/Makepad-fr/tadalists/internal/ui"
	"github.com/Makepad-fr/tadalists/internal/view"
)

type Options struct {
	Lists     *lists.Store
	TodoStore func(model.ID, ...todos.Option) *todos.Store
	SortBy    view.SortKey
	Order     view.Order
	Now       func() time.Time
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opt Options) error {
	p := tea.NewProgram(newModel(ctx, opt), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type screen int

const (
	screenLists screen = iota
	screenTodos
)

type inputMode int

const (
	inputNone inputMode = iota
	inputAddList
	inputRenameList
	inputAddTodo
	inputEditTodo
	inputSearch
	inputTags
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusErr
)

type modelTUI struct {
	ctx    context.Context
	opt    Options
	screen screen

	lists list.Model
	todos list.Model

	listStore *lists.Store
	todoStore *todos.Store // nil on the lists screen
	query     view.Query
	loading   bool

	// Inline input, shared by every mode
	mode     inputMode
	ti       textinput.Model
	inputErr string
	pending  bool     // request in flight for the open input
	inputReq int      // id of that request
	lastReq  int      // last id handed out
	editID   model.ID // list or todo being edited

	status     string
	statusKind statusKind

	width, height int
}

var (
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	deleteBind = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	openBind   = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	reloadBind = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	toggleBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done"))
	searchBind = key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search"))
	tagsBind   = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tags"))
	sortBind   = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort"))
	orderBind  = key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "order"))
	clearBind  = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters"))
	backBind   = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
)

func newModel(ctx context.Context, opt Options) modelTUI {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.SortBy == "" {
		opt.SortBy = view.SortCreated
	}
	if opt.Order == "" {
		opt.Order = view.Asc
	}
	t := ui.Current()

	ll := list.New(nil, listDelegate{}, 0, 0)
	ll.SetShowHelp(true)
	ll.SetShowStatusBar(true)
	ll.SetFilteringEnabled(true)
	ll.Styles.Title = t.Title
	ll.Styles.HelpStyle = t.Muted
	ll.Styles.PaginationStyle = t.Muted
	ll.FilterInput.Prompt = "/ "
	ll.SetStatusBarItemName("list", "lists")
	listKeys := func() []key.Binding { return []key.Binding{openBind, addBind, editBind, deleteBind, reloadBind} }
	ll.AdditionalShortHelpKeys = listKeys
	ll.AdditionalFullHelpKeys = listKeys

	// todo filtering is ours (view.Query), not the fuzzy list filter
	tl := list.New(nil, todoDelegate{now: opt.Now}, 0, 0)
	tl.SetShowHelp(true)
	tl.SetShowStatusBar(true)
	tl.SetFilteringEnabled(false)
	tl.Styles.Title = t.Title
	tl.Styles.HelpStyle = t.Muted
	tl.Styles.PaginationStyle = t.Muted
	tl.SetStatusBarItemName("todo", "todos")
	tl.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{addBind, toggleBind, editBind, deleteBind, searchBind, tagsBind, sortBind, orderBind, backBind}
	}
	tl.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{addBind, toggleBind, editBind, deleteBind, searchBind, tagsBind, sortBind, orderBind, clearBind, reloadBind, backBind}
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 500

	m := modelTUI{
		ctx:       ctx,
		opt:       opt,
		lists:     ll,
		todos:     tl,
		listStore: opt.Lists,
		ti:        ti,
		loading:   true,
		width:     80,
		height:    24,
	}
	m.lists.Title = m.listsTitle()
	return m
}

func (m modelTUI) Init() tea.Cmd {
	return fetchLists(m.ctx, m.listStore)
}

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case listsFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.setStatus(statusErr, m.listStore.Err())
		}
		m.refreshLists()
		return m, nil

	case listDoneMsg:
		return m.listDone(msg), nil

	case todosFetchedMsg:
		if m.todoStore == nil || msg.listID != m.todoStore.ListID() {
			return m, nil // user already left this list
		}
		m.loading = false
		switch {
		case msg.err != nil:
			m.setStatus(statusErr, "failed to fetch todos: "+msg.err.Error())
		case len(msg.warnings) > 0:
			m.setStatus(statusWarn, warningText(msg.warnings))
		}
		m.refreshTodos()
		return m, nil

	case todoDoneMsg:
		return m.todoDone(msg), nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		if m.screen == screenTodos {
			return m.updateTodos(msg)
		}
		return m.updateLists(msg)
	}

	var cmd tea.Cmd
	if m.screen == screenTodos {
		m.todos, cmd = m.todos.Update(msg)
	} else {
		m.lists, cmd = m.lists.Update(msg)
	}
	return m, cmd
}

func (m modelTUI) updateLists(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.lists.SettingFilter() {
		var cmd tea.Cmd
		m.lists, cmd = m.lists.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "a":
		return m.openInput(inputAddList, "", "List name..."), nil
	case "e":
		if l, ok := m.selectedList(); ok {
			m = m.openInput(inputRenameList, l.Name, "New list name...")
			m.editID = l.ID
		}
		return m, nil
	case "d":
		if l, ok := m.selectedList(); ok {
			m.setStatus(statusInfo, fmt.Sprintf("deleting %q...", l.Name))
			return m, removeList(m.ctx, m.listStore, l)
		}
		return m, nil
	case "r":
		m.loading = true
		m.lists.Title = m.listsTitle()
		return m, fetchLists(m.ctx, m.listStore)
	case "enter":
		if l, ok := m.selectedList(); ok {
			return m.openList(l)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.lists, cmd = m.lists.Update(msg)
	return m, cmd
}

func (m modelTUI) openList(l model.TodoList) (tea.Model, tea.Cmd) {
	// warnings come back from Fetch and Add, so the store stays quiet
	quiet := due.NotifierFunc(func(due.Warning) {})
	m.todoStore = m.opt.TodoStore(l.ID, todos.WithNotifier(quiet), todos.WithTitle(l.Name))
	m.screen = screenTodos
	m.query = view.Query{SortBy: m.opt.SortBy, Order: m.opt.Order}
	m.loading = true
	m.status = ""
	m.todos.SetItems(nil)
	m.todos.Select(0)
	m.todos.Title = m.todosTitle(l.Name)
	return m, fetchTodos(m.ctx, m.todoStore)
}

func (m modelTUI) updateTodos(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.screen = screenLists
		m.todoStore = nil
		m.status = ""
		m.refreshLists()
		return m, nil
	case "a":
		return m.openInput(inputAddTodo, "", todoInputHelp), nil
	case "e":
		if td, ok := m.selectedTodo(); ok {
			m = m.openInput(inputEditTodo, formatTodoInput(td), todoInputHelp)
			m.editID = td.ID
		}
		return m, nil
	case " ":
		if td, ok := m.selectedTodo(); ok {
			return m, toggleTodo(m.ctx, m.todoStore, td.ID)
		}
		return m, nil
	case "d":
		if td, ok := m.selectedTodo(); ok {
			return m, removeTodo(m.ctx, m.todoStore, td)
		}
		return m, nil
	case "/":
		return m.openInput(inputSearch, m.query.Search, "Search text..."), nil
	case "t":
		return m.openInput(inputTags, strings.Join(m.query.Tags, ", "), tagPlaceholder(m.todoStore.TagOptions())), nil
	case "s":
		m.query.SortBy = m.query.SortBy.Next()
		m.refreshTodos()
		return m, nil
	case "o":
		m.query.Order = m.query.Order.Toggle()
		m.refreshTodos()
		return m, nil
	case "c":
		m.query.Search, m.query.Tags = "", nil
		m.refreshTodos()
		return m, nil
	case "r":
		m.loading = true
		return m, fetchTodos(m.ctx, m.todoStore)
	}
	var cmd tea.Cmd
	m.todos, cmd = m.todos.Update(msg)
	return m, cmd
}

func (m modelTUI) openInput(mode inputMode, value, placeholder string) modelTUI {
	m.mode = mode
	m.inputErr = ""
	m.pending = false
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	m.ti.Focus()
	return m
}

func (m modelTUI) closeInput() modelTUI {
	m.mode = inputNone
	m.inputErr = ""
	m.pending = false
	m.inputReq = 0
	m.editID = ""
	m.ti.SetValue("")
	m.ti.Blur()
	return m
}

func (m modelTUI) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeInput(), nil
	case "enter":
		if m.pending {
			return m, nil
		}
		return m.submitInput()
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m modelTUI) submitInput() (tea.Model, tea.Cmd) {
	value := m.ti.Value()
	switch m.mode {
	case inputAddList:
		return m.send(addList(m.ctx, m.listStore, value))
	case inputRenameList:
		return m.send(renameList(m.ctx, m.listStore, m.editID, value))
	case inputAddTodo, inputEditTodo:
		in, err := parseTodoInput(value)
		if err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		if m.mode == inputEditTodo {
			return m.send(updateTodo(m.ctx, m.todoStore, m.editID, in))
		}
		return m.send(addTodo(m.ctx, m.todoStore, in, m.opt.Now))
	case inputSearch:
		m.query.Search = strings.TrimSpace(value)
	case inputTags:
		m.query.Tags = model.SplitTags(value)
	}
	m = m.closeInput()
	m.refreshTodos()
	return m, nil
}

// send starts the request for the open input and waits for its result.
func (m modelTUI) send(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.lastReq++
	m.inputReq = m.lastReq
	m.pending = true
	return m, fromInput(m.inputReq, cmd)
}

// answersInput reports whether req is the request the open input waits on.
func (m modelTUI) answersInput(req int) bool {
	return m.pending && req != 0 && req == m.inputReq
}

func (m modelTUI) listDone(msg listDoneMsg) modelTUI {
	mine := m.answersInput(msg.req)
	if mine && msg.err != nil && isInputError(msg.err) {
		m.pending = false
		m.inputErr = msg.err.Error()
		return m
	}
	if mine {
		m = m.closeInput()
	}
	if msg.err != nil {
		m.setStatus(statusErr, fmt.Sprintf("failed to %s list: %v", msg.op, msg.err))
		m.refreshLists()
		return m
	}
	m.setStatus(statusOK, fmt.Sprintf("%s %q", msg.verb, msg.name))
	m.refreshLists()
	return m
}

func (m modelTUI) todoDone(msg todoDoneMsg) modelTUI {
	if m.todoStore == nil {
		return m
	}
	mine := m.answersInput(msg.req)
	if mine && msg.err != nil && isInputError(msg.err) {
		m.pending = false
		m.inputErr = msg.err.Error()
		return m
	}
	if mine {
		m = m.closeInput()
	}
	if msg.err != nil {
		m.setStatus(statusErr, fmt.Sprintf("failed to %s todo: %v", msg.op, msg.err))
		m.refreshTodos()
		return m
	}
	if len(msg.warnings) > 0 {
		m.setStatus(statusWarn, warningText(msg.warnings))
	} else {
		m.setStatus(statusOK, fmt.Sprintf("%s %q", msg.verb, msg.text))
	}
	m.refreshTodos()
	return m
}

func (m *modelTUI) setStatus(kind statusKind, text string) {
	m.statusKind, m.status = kind, text
}

func (m *modelTUI) refreshLists() {
	ls := m.listStore.Lists()
	items := make([]list.Item, len(ls))
	for i, l := range ls {
		items[i] = listItem{l}
	}
	m.lists.SetItems(items)
	m.lists.Title = m.listsTitle()
}

func (m *modelTUI) refreshTodos() {
	if m.todoStore == nil {
		return
	}
	rows := m.query.Apply(m.todoStore.Todos())
	items := make([]list.Item, len(rows))
	for i, td := range rows {
		items[i] = todoItem{td}
	}
	m.todos.SetItems(items)
	m.todos.Title = m.todosTitle(m.todoStore.Title())
}

func (m modelTUI) listsTitle() string {
	t := ui.Current()
	title := t.Title.Render("Lists")
	if m.loading {
		return title + "  " + t.Muted.Render("loading...")
	}
	return fmt.Sprintf("%s   %s %d", title, t.Accent.Render("Total"), len(m.listStore.Lists()))
}

func (m modelTUI) todosTitle(name string) string {
	t := ui.Current()
	if name == "" {
		name = "Todos"
	}
	if m.loading {
		return t.Title.Render(name) + "  " + t.Muted.Render("loading...")
	}
	all := m.todoStore.Todos()
	var done int
	for _, td := range all {
		if td.Completed {
			done++
		}
	}
	parts := []string{
		t.Title.Render(name),
		fmt.Sprintf("%s %d  %s %d  %s %d",
			t.Success.Render(t.SymDone), done,
			t.Pending.Render(t.SymPending), len(all)-done,
			t.Accent.Render("Total"), len(all)),
		t.Muted.Render(fmt.Sprintf("[%s %s]", m.query.SortBy.Label(), m.query.Order)),
	}
	if m.query.Search != "" {
		parts = append(parts, t.Muted.Render(fmt.Sprintf("[%q]", m.query.Search)))
	}
	if len(m.query.Tags) > 0 {
		parts = append(parts, ui.TagList(m.query.Tags))
	}
	return strings.Join(parts, "  ")
}

func (m modelTUI) selectedList() (model.TodoList, bool) {
	it, ok := m.lists.SelectedItem().(listItem)
	return it.TodoList, ok
}

func (m modelTUI) selectedTodo() (model.Todo, bool) {
	it, ok := m.todos.SelectedItem().(todoItem)
	return it.Todo, ok
}

func (m modelTUI) View() string {
	t := ui.Current()
	inner := max(m.width-4, 20)
	listHeight := max(m.height-4, 5)
	if m.mode != inputNone {
		listHeight = max(listHeight-4, 3)
	}

	var content string
	if m.screen == screenTodos {
		m.todos.SetSize(inner, listHeight)
		content = m.todos.View()
	} else {
		m.lists.SetSize(inner, listHeight)
		content = m.lists.View()
	}

	if m.mode != inputNone {
		bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)
		title := m.inputTitle()
		if m.pending {
			title += "  " + t.Muted.Render("saving...")
		}
		if m.inputErr != "" {
			title += "  " + t.Error.Render(m.inputErr)
		}
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	if m.status != "" {
		content += "\n" + m.statusLine(inner)
	}
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(content)
}

func (m modelTUI) inputTitle() string {
	switch m.mode {
	case inputAddList:
		return "Add list"
	case inputRenameList:
		return "Rename list"
	case inputAddTodo:
		return "Add todo"
	case inputEditTodo:
		return "Edit todo"
	case inputSearch:
		return "Search"
	case inputTags:
		return "Filter by tags (all of)"
	}
	return ""
}

func (m modelTUI) statusLine(width int) string {
	t := ui.Current()
	text := ui.Truncate(m.status, width)
	switch m.statusKind {
	case statusOK:
		return t.Success.Render(t.SymOK) + " " + text
	case statusWarn:
		return t.Warn.Render(t.SymWarn) + " " + text
	case statusErr:
		return t.Error.Render(t.SymFail) + " " + text
	}
	return t.Muted.Render(text)
}

func warningText(ws []due.Warning) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

func tagPlaceholder(options []string) string {
	if len(options) == 0 {
		return "tag, tag"
	}
	return strings.Join(options, ", ")
}

// isInputError reports errors the user can fix by editing the input.
func isInputError(err error) bool {
	return errors.Is(err, lists.ErrEmptyName) ||
		errors.Is(err, lists.ErrDuplicateName) ||
		errors.Is(err, model.ErrInvalidTodo)
}

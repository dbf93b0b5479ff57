// Package tui is the interactive terminal client for the order tracking
// API, built with Bubble Tea. It walks the order / operation / task
// hierarchy, edits records through partial patches and shows a live
// elapsed-time readout for running tasks.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bitzerlab/ordertrack/internal/client"
	"github.com/bitzerlab/ordertrack/internal/entity"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ViewMode represents the current view state.
type ViewMode int

const (
	ViewOrders ViewMode = iota
	ViewOperations
	ViewTasks
	ViewTaskDetail
	ViewForm
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	runningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
)

const requestTimeout = 10 * time.Second

// Model is the main Bubble Tea model for the terminal client.
type Model struct {
	api      *client.Client
	userName string

	view    ViewMode
	loading bool
	err     error
	message string
	width   int
	height  int

	// Orders list state
	orders      []entity.Order
	orderSort   SortState
	orderFilter string
	searchMode  bool
	searchText  string
	cursor      int

	// Drill-down state
	selOrder     *entity.Order
	operations   []entity.Operation
	opCursor     int
	selOperation *entity.Operation
	tasks        []entity.Task
	pieces       *entity.PieceSummary
	taskCursor   int
	selTask      *entity.Task

	// Wall clock for the elapsed readout, advanced by ticks.
	now time.Time

	// Reference data for selectors
	machines []entity.Machine
	users    []entity.User

	form *form
}

// New creates the model. userName is shown in the header; empty means the
// anonymous dev session.
func New(api *client.Client, userName string) Model {
	return Model{
		api:       api,
		userName:  userName,
		view:      ViewOrders,
		orderSort: SortState{Column: colOrderNumber, Ascending: true},
		now:       time.Now(),
		loading:   true,
	}
}

// Run starts the terminal client.
func Run(api *client.Client, userName string) error {
	p := tea.NewProgram(New(api, userName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Messages
type ordersMsg struct {
	orders []entity.Order
	err    error
}

type operationsMsg struct {
	orderID    int64
	operations []entity.Operation
	err        error
}

type tasksMsg struct {
	operationID int64
	tasks       []entity.Task
	pieces      *entity.PieceSummary
	err         error
}

type refsMsg struct {
	machines []entity.Machine
	users    []entity.User
	err      error
}

type savedMsg struct {
	message string
	err     error
}

type tickMsg time.Time

func (m Model) loadOrders() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		orders, err := m.api.ListOrders(ctx)
		return ordersMsg{orders: orders, err: err}
	}
}

func (m Model) loadOperations(orderNumber, orderID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		operations, err := m.api.ListOperationsByOrder(ctx, orderNumber)
		return operationsMsg{orderID: orderID, operations: operations, err: err}
	}
}

func (m Model) loadTasks(operationID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tasks, err := m.api.ListTasks(ctx, operationID)
		if err != nil {
			return tasksMsg{operationID: operationID, err: err}
		}
		pieces, err := m.api.GetPieces(ctx, operationID)
		return tasksMsg{operationID: operationID, tasks: tasks, pieces: pieces, err: err}
	}
}

func (m Model) loadRefs() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		machines, err := m.api.ListMachines(ctx, true)
		if err != nil {
			return refsMsg{err: err}
		}
		users, err := m.api.ListUsers(ctx, true)
		return refsMsg{machines: machines, users: users, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadOrders(), m.loadRefs(), tick())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.message = ""
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()

	case ordersMsg:
		m.loading = false
		if msg.err != nil {
			// List fetch failures are surfaced, not swallowed.
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.orders = msg.orders
		m.clampCursor()
		return m, nil

	case operationsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if m.selOrder == nil || m.selOrder.ID != msg.orderID {
			return m, nil // stale response from a previous selection
		}
		m.err = nil
		m.operations = msg.operations
		if m.opCursor >= len(m.operations) {
			m.opCursor = max(0, len(m.operations)-1)
		}
		return m, nil

	case tasksMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if m.selOperation == nil || m.selOperation.ID != msg.operationID {
			return m, nil
		}
		m.err = nil
		m.tasks = msg.tasks
		m.pieces = msg.pieces
		if m.taskCursor >= len(m.tasks) {
			m.taskCursor = max(0, len(m.tasks)-1)
		}
		if m.selTask != nil {
			for i := range m.tasks {
				if m.tasks[i].ID == m.selTask.ID {
					m.selTask = &m.tasks[i]
				}
			}
		}
		return m, nil

	case refsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.machines = msg.machines
		m.users = msg.users
		return m, nil

	case savedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.message = msg.message
		m.form = nil
		if m.view == ViewForm {
			m.view = m.returnView()
		}
		return m, m.reloadCurrent()
	}

	return m, nil
}

// reloadCurrent refreshes whatever list backs the current view.
func (m Model) reloadCurrent() tea.Cmd {
	switch m.view {
	case ViewOrders:
		return m.loadOrders()
	case ViewOperations:
		if m.selOrder != nil {
			return tea.Batch(m.loadOrders(), m.loadOperations(m.selOrder.OrderNumber, m.selOrder.ID))
		}
	case ViewTasks, ViewTaskDetail:
		if m.selOperation != nil {
			return m.loadTasks(m.selOperation.ID)
		}
	}
	return m.loadOrders()
}

// returnView is where a closed form goes back to.
func (m Model) returnView() ViewMode {
	switch {
	case m.selTask != nil:
		return ViewTaskDetail
	case m.selOperation != nil:
		return ViewTasks
	case m.selOrder != nil:
		return ViewOperations
	}
	return ViewOrders
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view == ViewForm {
		return m.handleFormKey(msg)
	}
	if m.searchMode {
		return m.handleSearchKey(msg)
	}

	switch m.view {
	case ViewOrders:
		return m.handleOrdersKey(msg)
	case ViewOperations:
		return m.handleOperationsKey(msg)
	case ViewTasks:
		return m.handleTasksKey(msg)
	case ViewTaskDetail:
		return m.handleTaskDetailKey(msg)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchMode = false
		m.searchText = ""
		m.orderFilter = ""
	case "enter":
		m.searchMode = false
		m.orderFilter = m.searchText
	case "backspace":
		if len(m.searchText) > 0 {
			runes := []rune(m.searchText)
			m.searchText = string(runes[:len(runes)-1])
			m.orderFilter = m.searchText
		}
	default:
		if len(msg.Runes) > 0 {
			m.searchText += string(msg.Runes)
			m.orderFilter = m.searchText
		}
	}
	m.clampCursor()
	return m, nil
}

// Sort columns for the orders list.
const (
	colOrderNumber = "order_number"
	colMaterial    = "material_number"
	colStartDate   = "start_date"
	colEndDate     = "end_date"
	colPieces      = "num_pieces"
)

var orderLess = map[string]func(a, b entity.Order) bool{
	colOrderNumber: func(a, b entity.Order) bool { return a.OrderNumber < b.OrderNumber },
	colMaterial:    func(a, b entity.Order) bool { return a.MaterialNumber < b.MaterialNumber },
	colPieces:      func(a, b entity.Order) bool { return a.NumPieces < b.NumPieces },
	colStartDate:   func(a, b entity.Order) bool { return dateBefore(a.StartDate, b.StartDate) },
	colEndDate:     func(a, b entity.Order) bool { return dateBefore(a.EndDate, b.EndDate) },
}

// dateBefore orders nil dates last so unscheduled orders sink.
func dateBefore(a, b *entity.Date) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return b.After(*a)
}

// visibleOrders applies the filter and sort to the loaded orders.
func (m Model) visibleOrders() []entity.Order {
	rows := filterRows(m.orders, m.orderFilter, func(o entity.Order) string {
		return fmt.Sprintf("%d %d", o.OrderNumber, o.MaterialNumber)
	})
	out := make([]entity.Order, len(rows))
	copy(out, rows)
	if less, ok := orderLess[m.orderSort.Column]; ok {
		sortRows(out, m.orderSort.Ascending, less)
	}
	return out
}

func (m *Model) clampCursor() {
	if n := len(m.visibleOrders()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m Model) handleOrdersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleOrders()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(0, len(visible)-1)

	case "enter", "l":
		if len(visible) > 0 {
			order := visible[m.cursor]
			m.selOrder = &order
			m.selOperation = nil
			m.selTask = nil
			m.operations = nil
			m.opCursor = 0
			m.view = ViewOperations
			m.loading = true
			return m, m.loadOperations(order.OrderNumber, order.ID)
		}

	case "n":
		m.form = newOrderForm(nil)
		m.view = ViewForm
	case "e":
		if len(visible) > 0 {
			order := visible[m.cursor]
			m.form = newOrderForm(&order)
			m.view = ViewForm
		}

	case "/":
		m.searchMode = true
		m.searchText = m.orderFilter

	case "1":
		m.orderSort.Toggle(colOrderNumber)
	case "2":
		m.orderSort.Toggle(colMaterial)
	case "3":
		m.orderSort.Toggle(colStartDate)
	case "4":
		m.orderSort.Toggle(colEndDate)
	case "5":
		m.orderSort.Toggle(colPieces)

	case "r":
		m.loading = true
		return m, tea.Batch(m.loadOrders(), m.loadRefs())

	case "esc":
		if m.orderFilter != "" {
			m.orderFilter = ""
			m.searchText = ""
			m.clampCursor()
		} else {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleOperationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "h", "backspace":
		m.view = ViewOrders
		m.selOrder = nil
		return m, nil

	case "up", "k":
		if m.opCursor > 0 {
			m.opCursor--
		}
	case "down", "j":
		if m.opCursor < len(m.operations)-1 {
			m.opCursor++
		}

	case "enter", "l":
		if len(m.operations) > 0 {
			op := m.operations[m.opCursor]
			m.selOperation = &op
			m.selTask = nil
			m.tasks = nil
			m.pieces = nil
			m.taskCursor = 0
			m.view = ViewTasks
			m.loading = true
			return m, m.loadTasks(op.ID)
		}

	case "n":
		if m.selOrder != nil {
			m.form = newOperationForm(m.selOrder.ID, nil, m.machines)
			m.view = ViewForm
		}
	case "e":
		if len(m.operations) > 0 {
			op := m.operations[m.opCursor]
			m.form = newOperationForm(op.OrderID, &op, m.machines)
			m.view = ViewForm
		}

	case "r":
		if m.selOrder != nil {
			m.loading = true
			return m, m.loadOperations(m.selOrder.OrderNumber, m.selOrder.ID)
		}
	}
	return m, nil
}

func (m Model) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "h", "backspace":
		m.view = ViewOperations
		m.selOperation = nil
		return m, nil

	case "up", "k":
		if m.taskCursor > 0 {
			m.taskCursor--
		}
	case "down", "j":
		if m.taskCursor < len(m.tasks)-1 {
			m.taskCursor++
		}

	case "enter", "l":
		if len(m.tasks) > 0 {
			m.selTask = &m.tasks[m.taskCursor]
			m.view = ViewTaskDetail
		}

	case "n":
		if m.selOperation != nil {
			m.form = newTaskForm(m.selOperation.ID, nil, m.users)
			m.view = ViewForm
		}
	case "e":
		if len(m.tasks) > 0 {
			task := m.tasks[m.taskCursor]
			m.form = newTaskForm(task.OperationID, &task, m.users)
			m.view = ViewForm
		}

	case "r":
		if m.selOperation != nil {
			m.loading = true
			return m, m.loadTasks(m.selOperation.ID)
		}
	}
	return m, nil
}

func (m Model) handleTaskDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "h", "backspace":
		m.view = ViewTasks
		m.selTask = nil
		return m, nil

	case "e":
		if m.selTask != nil {
			task := *m.selTask
			m.form = newTaskForm(task.OperationID, &task, m.users)
			m.view = ViewForm
		}

	case "s":
		// Start the clock on an unstarted task.
		if m.selTask != nil && m.selTask.StartAt == nil {
			return m.patchTask(m.selTask.ID, map[string]any{"start_at": time.Now().UTC().Format(time.RFC3339)}, "Task started")
		}
	case "f":
		// Stop the clock on a running task; the duration freezes at
		// the stored end, whatever the local clock does afterwards.
		if m.selTask != nil && m.selTask.InProgress() {
			return m.patchTask(m.selTask.ID, map[string]any{"end_at": time.Now().UTC().Format(time.RFC3339)}, "Task finished")
		}

	case "r":
		if m.selOperation != nil {
			return m, m.loadTasks(m.selOperation.ID)
		}
	}
	return m, nil
}

func (m Model) patchTask(id int64, fields map[string]any, message string) (Model, tea.Cmd) {
	m.loading = true
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := m.api.UpdateTask(ctx, id, fields); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{message: message}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	switch m.view {
	case ViewOrders:
		b.WriteString(m.ordersView())
	case ViewOperations:
		b.WriteString(m.operationsView())
	case ViewTasks:
		b.WriteString(m.tasksView())
	case ViewTaskDetail:
		b.WriteString(m.taskDetailView())
	case ViewForm:
		b.WriteString(m.formView())
	}

	if m.searchMode {
		b.WriteString("\n")
		b.WriteString(inputStyle.Render("Search: " + m.searchText + "█"))
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.loading:
		b.WriteString(dimStyle.Render("Loading..."))
	case m.message != "":
		b.WriteString(messageStyle.Render(m.message))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) headerView() string {
	title := titleStyle.Render("ordertrack")
	who := "not logged in"
	if m.userName != "" {
		who = m.userName
	}
	crumbs := []string{"orders"}
	if m.selOrder != nil {
		crumbs = append(crumbs, fmt.Sprintf("order %d", m.selOrder.OrderNumber))
	}
	if m.selOperation != nil {
		crumbs = append(crumbs, "op "+m.selOperation.OperationCode)
	}
	if m.selTask != nil {
		crumbs = append(crumbs, fmt.Sprintf("task %d", m.selTask.ID))
	}
	return title + "  " + dimStyle.Render(strings.Join(crumbs, " › ")+"  ["+who+"]")
}

func (m Model) ordersView() string {
	var b strings.Builder
	visible := m.visibleOrders()

	header := fmt.Sprintf("%-12s %-12s %-12s %-12s %8s  %s",
		"Order"+m.orderSort.Indicator(colOrderNumber),
		"Material"+m.orderSort.Indicator(colMaterial),
		"Start"+m.orderSort.Indicator(colStartDate),
		"End"+m.orderSort.Indicator(colEndDate),
		"Pieces"+m.orderSort.Indicator(colPieces),
		"Ops")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if len(visible) == 0 {
		if m.orderFilter != "" {
			b.WriteString(dimStyle.Render("No orders match the filter"))
		} else {
			b.WriteString(dimStyle.Render("No orders yet"))
		}
		b.WriteString("\n")
	}
	for i, order := range visible {
		line := fmt.Sprintf("%-12d %-12d %-12s %-12s %8d  %d",
			order.OrderNumber, order.MaterialNumber,
			dateString(order.StartDate), dateString(order.EndDate),
			order.NumPieces, len(order.Operations))
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k:nav enter:open n:new e:edit /:search 1-5:sort r:refresh q:quit"))
	return b.String()
}

func (m Model) operationsView() string {
	var b strings.Builder

	if m.selOrder != nil {
		b.WriteString(labelStyle.Render("Material: "))
		b.WriteString(fmt.Sprintf("%d    ", m.selOrder.MaterialNumber))
		b.WriteString(labelStyle.Render("Pieces: "))
		b.WriteString(fmt.Sprintf("%d    ", m.selOrder.NumPieces))
		b.WriteString(labelStyle.Render("Dates: "))
		b.WriteString(dateString(m.selOrder.StartDate) + " to " + dateString(m.selOrder.EndDate))
		b.WriteString("\n\n")
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %-28s %s", "Code", "Machine", "Tasks")))
	b.WriteString("\n")
	if len(m.operations) == 0 && !m.loading {
		b.WriteString(dimStyle.Render("No operations yet"))
		b.WriteString("\n")
	}
	for i, op := range m.operations {
		machine := "None"
		if op.Machine != nil {
			machine = op.Machine.MachineLocation + " " + op.Machine.Description
		}
		line := fmt.Sprintf("%-10s %-28s %d", op.OperationCode, truncate(machine, 28), len(op.Tasks))
		if i == m.opCursor {
			b.WriteString(selectedRowStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k:nav enter:tasks n:new e:edit r:refresh esc:back q:quit"))
	return b.String()
}

func (m Model) tasksView() string {
	var b strings.Builder

	if m.pieces != nil {
		b.WriteString(labelStyle.Render("Good: "))
		b.WriteString(fmt.Sprintf("%d    ", m.pieces.GoodPieces))
		b.WriteString(labelStyle.Render("Bad: "))
		b.WriteString(fmt.Sprintf("%d", m.pieces.BadPieces))
		b.WriteString("\n\n")
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-6s %-16s %-20s %-10s %6s %5s",
		"ID", "Process", "Operator", "Elapsed", "Good", "Bad")))
	b.WriteString("\n")
	if len(m.tasks) == 0 && !m.loading {
		b.WriteString(dimStyle.Render("No tasks yet"))
		b.WriteString("\n")
	}
	for i, task := range m.tasks {
		operator := "-"
		if task.OperatorUser != nil {
			operator = task.OperatorUser.Name
		}
		elapsed := elapsedString(task.Elapsed(m.now))
		if task.InProgress() {
			elapsed = runningStyle.Render(elapsed + " ●")
		}
		line := fmt.Sprintf("%-6d %-16s %-20s %-10s %6s %5s",
			task.ID, task.ProcessType, truncate(operator, 20), elapsed,
			countString(task.GoodPieces), countString(task.BadPieces))
		if i == m.taskCursor {
			b.WriteString(selectedRowStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k:nav enter:detail n:new e:edit r:refresh esc:back q:quit"))
	return b.String()
}

func (m Model) taskDetailView() string {
	if m.selTask == nil {
		return dimStyle.Render("No task selected")
	}
	task := m.selTask
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Process:", string(task.ProcessType))
	operator := "None"
	if task.OperatorUser != nil {
		operator = task.OperatorUser.Name
		if task.OperatorBitzerID != nil {
			operator += fmt.Sprintf(" (%d)", *task.OperatorBitzerID)
		}
	}
	row("Operator:", operator)
	row("Start:", timeString(task.StartAt))
	row("End:", timeString(task.EndAt))

	elapsed := elapsedString(task.Elapsed(m.now))
	switch {
	case task.InProgress():
		row("Elapsed:", runningStyle.Render(elapsed+" ● running"))
	case task.StartAt != nil:
		row("Elapsed:", elapsed)
	default:
		row("Elapsed:", dimStyle.Render("not started"))
	}

	row("Benches:", countString(task.NumBenches))
	row("Machines:", countString(task.NumMachines))
	row("Good:", countString(task.GoodPieces))
	row("Bad:", countString(task.BadPieces))
	if task.Notes != nil {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Notes:"))
		b.WriteString("\n")
		b.WriteString(*task.Notes)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "e:edit r:refresh esc:back q:quit"
	if task.StartAt == nil {
		help = "s:start " + help
	} else if task.InProgress() {
		help = "f:finish " + help
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func dateString(d *entity.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func timeString(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func countString(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// elapsedString renders a duration as H:MM:SS.
func elapsedString(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return "..."
	}
	return s[:n-3] + "..."
}

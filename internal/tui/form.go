package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bitzerlab/ordertrack/internal/client"
	"github.com/bitzerlab/ordertrack/internal/entity"
	tea "github.com/charmbracelet/bubbletea"
)

type formKind int

const (
	formOrderCreate formKind = iota
	formOrderEdit
	formOperationCreate
	formOperationEdit
	formTaskCreate
	formTaskEdit
)

// formRow is one line of a form, either a text field or a selector.
type formRow struct {
	label string
	field *Field
	sel   *Selector
}

// form holds the state of a create or edit dialog. Edit forms keep the
// original record around so submitting sends only the fields that changed.
type form struct {
	kind  formKind
	title string
	rows  []formRow
	focus int

	orderID     int64 // parent order for new operations
	operationID int64 // parent operation for new tasks

	origOrder     *entity.Order
	origOperation *entity.Operation
	origTask      *entity.Task
}

func fieldRow(label, value, placeholder string) formRow {
	return formRow{label: label, field: &Field{Label: label, Value: value, Placeholder: placeholder}}
}

func newOrderForm(orig *entity.Order) *form {
	f := &form{kind: formOrderCreate, title: "New order", origOrder: orig}

	var number, material, start, end, pieces string
	if orig != nil {
		f.kind = formOrderEdit
		f.title = fmt.Sprintf("Edit order %d", orig.OrderNumber)
		number = fmt.Sprintf("%d", orig.OrderNumber)
		material = fmt.Sprintf("%d", orig.MaterialNumber)
		pieces = fmt.Sprintf("%d", orig.NumPieces)
		if orig.StartDate != nil {
			start = orig.StartDate.String()
		}
		if orig.EndDate != nil {
			end = orig.EndDate.String()
		}
	}

	f.rows = []formRow{
		fieldRow("Order number", number, "e.g. 3100021234"),
		fieldRow("Material number", material, "e.g. 36912345"),
		fieldRow("Start date", start, "YYYY-MM-DD (optional)"),
		fieldRow("End date", end, "YYYY-MM-DD (optional)"),
		fieldRow("Pieces", pieces, "total pieces"),
	}
	return f
}

func machineOptions(machines []entity.Machine) []SelectorOption {
	options := make([]SelectorOption, 0, len(machines))
	for _, machine := range machines {
		id := machine.ID
		options = append(options, SelectorOption{
			ID:    &id,
			Label: machine.MachineLocation + " " + machine.Description,
		})
	}
	return options
}

func newOperationForm(orderID int64, orig *entity.Operation, machines []entity.Machine) *form {
	f := &form{kind: formOperationCreate, title: "New operation", orderID: orderID, origOperation: orig}

	var code string
	machineSel := NewSelector("type to search machines", true)
	machineSel.SetOptions(machineOptions(machines))
	if orig != nil {
		f.kind = formOperationEdit
		f.title = "Edit operation " + orig.OperationCode
		code = orig.OperationCode
		if orig.Machine != nil {
			id := orig.Machine.ID
			machineSel.Select(SelectorOption{ID: &id, Label: orig.Machine.MachineLocation + " " + orig.Machine.Description})
		}
	}

	f.rows = []formRow{
		fieldRow("Operation code", code, "e.g. 0010"),
		{label: "Machine", sel: &machineSel},
	}
	return f
}

func processOptions() []SelectorOption {
	return []SelectorOption{
		{Label: string(entity.ProcessPreparation)},
		{Label: string(entity.ProcessQualityControl)},
		{Label: string(entity.ProcessProcessing)},
	}
}

func operatorOptions(users []entity.User) []SelectorOption {
	options := make([]SelectorOption, 0, len(users))
	for _, user := range users {
		id := user.ID
		options = append(options, SelectorOption{ID: &id, Label: user.Name})
	}
	return options
}

func newTaskForm(operationID int64, orig *entity.Task, users []entity.User) *form {
	f := &form{kind: formTaskCreate, title: "New task", operationID: operationID, origTask: orig}

	processSel := NewSelector("PREPARATION / QUALITY_CONTROL / PROCESSING", false)
	processSel.SetOptions(processOptions())
	operatorSel := NewSelector("type to search operators", true)
	operatorSel.SetOptions(operatorOptions(users))

	var start, end, benches, machines, good, bad, notes string
	if orig != nil {
		f.kind = formTaskEdit
		f.title = fmt.Sprintf("Edit task %d", orig.ID)
		processSel.Select(SelectorOption{Label: string(orig.ProcessType)})
		if orig.OperatorUser != nil {
			id := orig.OperatorUser.ID
			operatorSel.Select(SelectorOption{ID: &id, Label: orig.OperatorUser.Name})
		}
		if orig.StartAt != nil {
			start = orig.StartAt.Local().Format("2006-01-02 15:04")
		}
		if orig.EndAt != nil {
			end = orig.EndAt.Local().Format("2006-01-02 15:04")
		}
		benches = countValue(orig.NumBenches)
		machines = countValue(orig.NumMachines)
		good = countValue(orig.GoodPieces)
		bad = countValue(orig.BadPieces)
		if orig.Notes != nil {
			notes = *orig.Notes
		}
	}

	f.rows = []formRow{
		{label: "Process", sel: &processSel},
		{label: "Operator", sel: &operatorSel},
		fieldRow("Start", start, "YYYY-MM-DD HH:MM (optional)"),
		fieldRow("End", end, "YYYY-MM-DD HH:MM (optional)"),
		fieldRow("Benches", benches, "optional"),
		fieldRow("Machines", machines, "optional"),
		fieldRow("Good pieces", good, "optional"),
		fieldRow("Bad pieces", bad, "optional"),
		fieldRow("Notes", notes, "optional"),
	}
	return f
}

func countValue(v *int64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

// move shifts focus, blurring any selector being left so half-typed
// picker text resolves or reverts before the cursor lands elsewhere.
func (f *form) move(delta int) {
	if row := &f.rows[f.focus]; row.sel != nil {
		row.sel.Blur()
	}
	f.focus = min(max(f.focus+delta, 0), len(f.rows)-1)
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f == nil {
		m.view = m.returnView()
		return m, nil
	}
	row := &f.rows[f.focus]

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if row.sel != nil && row.sel.Open() {
			row.sel.Escape()
			return m, nil
		}
		m.form = nil
		m.view = m.returnView()
		return m, nil

	case "down":
		if row.sel != nil && row.sel.Open() {
			row.sel.MoveDown()
			return m, nil
		}
		f.move(1)
	case "up":
		if row.sel != nil && row.sel.Open() {
			row.sel.MoveUp()
			return m, nil
		}
		f.move(-1)
	case "tab":
		f.move(1)
	case "shift+tab":
		f.move(-1)

	case "enter":
		if row.sel != nil && row.sel.Open() {
			row.sel.Enter()
			return m, nil
		}
		if f.focus < len(f.rows)-1 {
			f.move(1)
			return m, nil
		}
		return m.submitForm()

	case "ctrl+s":
		if row.sel != nil {
			row.sel.Blur()
		}
		return m.submitForm()

	case "backspace":
		if row.sel != nil {
			row.sel.Backspace()
		} else {
			row.field.Backspace()
		}

	default:
		if len(msg.Runes) > 0 {
			if row.sel != nil {
				row.sel.Type(string(msg.Runes))
			} else {
				row.field.Type(string(msg.Runes))
			}
		}
	}
	return m, nil
}

func (m Model) formView() string {
	f := m.form
	if f == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.title))
	b.WriteString("\n\n")
	for i := range f.rows {
		row := &f.rows[i]
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", row.label+":")))
		if row.sel != nil {
			b.WriteString(row.sel.View(i == f.focus))
		} else {
			b.WriteString(row.field.View(i == f.focus))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/enter:next ctrl+s:save esc:cancel"))
	return b.String()
}

func (m Model) submitForm() (Model, tea.Cmd) {
	f := m.form
	var cmd tea.Cmd
	var err error

	switch f.kind {
	case formOrderCreate, formOrderEdit:
		cmd, err = m.submitOrderForm(f)
	case formOperationCreate, formOperationEdit:
		cmd, err = m.submitOperationForm(f)
	case formTaskCreate, formTaskEdit:
		cmd, err = m.submitTaskForm(f)
	}
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.loading = true
	return m, cmd
}

func (m Model) submitOrderForm(f *form) (tea.Cmd, error) {
	number, err := f.rows[0].field.Int64()
	if err != nil {
		return nil, err
	}
	material, err := f.rows[1].field.Int64()
	if err != nil {
		return nil, err
	}
	start, err := f.rows[2].field.OptionalDate()
	if err != nil {
		return nil, err
	}
	end, err := f.rows[3].field.OptionalDate()
	if err != nil {
		return nil, err
	}
	if err := checkFormDates(start, end); err != nil {
		return nil, err
	}
	pieces, err := f.rows[4].field.Int64()
	if err != nil {
		return nil, err
	}

	api := m.api
	if f.kind == formOrderCreate {
		input := client.CreateOrderInput{
			OrderNumber:    number,
			MaterialNumber: material,
			StartDate:      start,
			EndDate:        end,
			NumPieces:      pieces,
		}
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			if _, err := api.CreateOrder(ctx, input); err != nil {
				return savedMsg{err: err}
			}
			return savedMsg{message: fmt.Sprintf("Order %d created", number)}
		}, nil
	}

	orig := f.origOrder
	patch := map[string]any{}
	if number != orig.OrderNumber {
		patch["order_number"] = number
	}
	if material != orig.MaterialNumber {
		patch["material_number"] = material
	}
	if pieces != orig.NumPieces {
		patch["num_pieces"] = pieces
	}
	if !datePtrEq(start, orig.StartDate) {
		patch["start_date"] = dateValue(start)
	}
	if !datePtrEq(end, orig.EndDate) {
		patch["end_date"] = dateValue(end)
	}
	return patchCmd(func(ctx context.Context) error {
		_, err := api.UpdateOrder(ctx, orig.ID, patch)
		return err
	}, patch, "Order updated"), nil
}

func (m Model) submitOperationForm(f *form) (tea.Cmd, error) {
	code, err := f.rows[0].field.Required()
	if err != nil {
		return nil, err
	}
	f.rows[1].sel.Blur()
	machineID := f.rows[1].sel.SelectedID()

	api := m.api
	if f.kind == formOperationCreate {
		input := client.CreateOperationInput{
			OrderID:       f.orderID,
			OperationCode: code,
			MachineID:     machineID,
		}
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			if _, err := api.CreateOperation(ctx, input); err != nil {
				return savedMsg{err: err}
			}
			return savedMsg{message: "Operation " + code + " created"}
		}, nil
	}

	orig := f.origOperation
	patch := map[string]any{}
	if code != orig.OperationCode {
		patch["operation_code"] = code
	}
	if !int64PtrEq(machineID, orig.MachineID) {
		patch["machine_id"] = int64Value(machineID)
	}
	return patchCmd(func(ctx context.Context) error {
		_, err := api.UpdateOperation(ctx, orig.ID, patch)
		return err
	}, patch, "Operation updated"), nil
}

func (m Model) submitTaskForm(f *form) (tea.Cmd, error) {
	f.rows[0].sel.Blur()
	processOpt := f.rows[0].sel.Selected()
	if processOpt == nil {
		return nil, fmt.Errorf("process type is required")
	}
	process := entity.ProcessType(processOpt.Label)
	if !process.Valid() {
		return nil, fmt.Errorf("unknown process type %q", processOpt.Label)
	}

	f.rows[1].sel.Blur()
	operatorID := f.rows[1].sel.SelectedID()

	start, err := f.rows[2].field.OptionalTime()
	if err != nil {
		return nil, err
	}
	end, err := f.rows[3].field.OptionalTime()
	if err != nil {
		return nil, err
	}
	if end != nil && start == nil {
		return nil, fmt.Errorf("a task cannot end before it starts")
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, fmt.Errorf("end must not be before start")
	}
	benches, err := f.rows[4].field.OptionalInt64()
	if err != nil {
		return nil, err
	}
	machines, err := f.rows[5].field.OptionalInt64()
	if err != nil {
		return nil, err
	}
	good, err := f.rows[6].field.OptionalInt64()
	if err != nil {
		return nil, err
	}
	bad, err := f.rows[7].field.OptionalInt64()
	if err != nil {
		return nil, err
	}
	notes := f.rows[8].field.Text()
	if notes != nil && len(*notes) > entity.NotesMaxLen {
		return nil, fmt.Errorf("notes must be at most %d characters", entity.NotesMaxLen)
	}

	api := m.api
	if f.kind == formTaskCreate {
		input := client.CreateTaskInput{
			ProcessType:    process,
			OperatorUserID: operatorID,
			StartAt:        utcTime(start),
			EndAt:          utcTime(end),
			NumBenches:     benches,
			NumMachines:    machines,
			GoodPieces:     good,
			BadPieces:      bad,
			Notes:          notes,
		}
		operationID := f.operationID
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			if _, err := api.CreateTask(ctx, operationID, input); err != nil {
				return savedMsg{err: err}
			}
			return savedMsg{message: "Task created"}
		}, nil
	}

	orig := f.origTask
	patch := map[string]any{}
	if process != orig.ProcessType {
		patch["process_type"] = string(process)
	}
	if !int64PtrEq(operatorID, orig.OperatorUserID) {
		patch["operator_user_id"] = int64Value(operatorID)
	}
	if !timePtrEq(start, orig.StartAt) {
		patch["start_at"] = timeValue(start)
	}
	if !timePtrEq(end, orig.EndAt) {
		patch["end_at"] = timeValue(end)
	}
	if !int64PtrEq(benches, orig.NumBenches) {
		patch["num_benches"] = int64Value(benches)
	}
	if !int64PtrEq(machines, orig.NumMachines) {
		patch["num_machines"] = int64Value(machines)
	}
	if !int64PtrEq(good, orig.GoodPieces) {
		patch["good_pieces"] = int64Value(good)
	}
	if !int64PtrEq(bad, orig.BadPieces) {
		patch["bad_pieces"] = int64Value(bad)
	}
	if !strPtrEq(notes, orig.Notes) {
		patch["notes"] = strValue(notes)
	}
	return patchCmd(func(ctx context.Context) error {
		_, err := api.UpdateTask(ctx, orig.ID, patch)
		return err
	}, patch, "Task updated"), nil
}

// patchCmd runs an update unless the patch is empty, in which case the
// form just closes without a round trip.
func patchCmd(do func(context.Context) error, patch map[string]any, message string) tea.Cmd {
	return func() tea.Msg {
		if len(patch) == 0 {
			return savedMsg{message: "No changes"}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := do(ctx); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{message: message}
	}
}

func int64PtrEq(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func timePtrEq(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func datePtrEq(a, b *entity.Date) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// JSON patch values: explicit null clears a field.
func int64Value(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func strValue(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func timeValue(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(time.RFC3339)
}

func dateValue(v *entity.Date) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func utcTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	u := v.UTC()
	return &u
}

package blocksys

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Column type constants
const (
	ColumnTypeText        = "text"
	ColumnTypeNumber      = "number"
	ColumnTypeSelect      = "select"
	ColumnTypeMultiSelect = "multiselect"
	ColumnTypeDate        = "date"
	ColumnTypeCheckbox    = "checkbox"
	ColumnTypeURL         = "url"
	ColumnTypeEmail       = "email"
	ColumnTypePerson      = "person"
	ColumnTypeFormula     = "formula"
)

// View type constants
const (
	ViewTypeGrid  = "grid"
	ViewTypeBoard = "board"
	ViewTypeList  = "list"
)

// SelectOption is one choice of a select/multiselect column. Rows store
// option IDs, not labels; a row value referencing a removed option
// renders as unset, never as an error.
type SelectOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// Column describes one typed column of an inline table.
// Formula columns are read-only pass-through: the engine stores whatever
// value the save layer computed and does not evaluate expressions.
type Column struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Type    string         `json:"type"`
	Width   int            `json:"width,omitempty"`
	Options []SelectOption `json:"options,omitempty"`
	Formula string         `json:"formula,omitempty"`
}

// TableRow holds one row's cell values keyed by column ID. Data keys are
// always a subset of the current column IDs. Order is assigned at insert
// time and never renumbered on delete, so gaps are normal; consumers must
// sort by Order rather than rely on slice position.
type TableRow struct {
	ID        string                 `json:"id"`
	Data      map[string]interface{} `json:"data"`
	Order     int                    `json:"order"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// ViewFilter narrows the rows a view shows.
type ViewFilter struct {
	ColumnID string      `json:"column_id"`
	Operator string      `json:"operator"` // equals, contains, is_empty, ...
	Value    interface{} `json:"value,omitempty"`
}

// ViewSort orders the rows a view shows.
type ViewSort struct {
	ColumnID  string `json:"column_id"`
	Direction string `json:"direction"` // asc or desc
}

// TableView is one saved configuration over a table's rows.
// VisibleColumns is kept in sync with the column set: adding a column
// appends its ID to every view, deleting one removes it everywhere.
type TableView struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Type           string                 `json:"type"`
	Filters        []ViewFilter           `json:"filters,omitempty"`
	Sorts          []ViewSort             `json:"sorts,omitempty"`
	GroupBy        string                 `json:"group_by,omitempty"`
	VisibleColumns []string               `json:"visible_columns"`
	Config         map[string]interface{} `json:"config,omitempty"`
	IsDefault      bool                   `json:"is_default"`
}

// InlineTable is the spreadsheet-like sub-model embedded in a table
// block. It lives and dies with its owning block and is mutated in place.
// ActiveViewID always references an existing view.
type InlineTable struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Columns      []Column    `json:"columns"`
	Rows         []TableRow  `json:"rows"`
	Views        []TableView `json:"views"`
	ActiveViewID string      `json:"active_view_id"`
}

// NewDefaultTable creates a table with the stock Name/Tags/Status columns
// and a single default "All" view showing every column.
func NewDefaultTable(name string) *InlineTable {
	if name == "" {
		name = "Table"
	}
	columns := []Column{
		{ID: uuid.NewString(), Name: "Name", Type: ColumnTypeText},
		{ID: uuid.NewString(), Name: "Tags", Type: ColumnTypeMultiSelect},
		{ID: uuid.NewString(), Name: "Status", Type: ColumnTypeSelect, Options: []SelectOption{
			{ID: uuid.NewString(), Label: "Not started", Color: "gray"},
			{ID: uuid.NewString(), Label: "In progress", Color: "blue"},
			{ID: uuid.NewString(), Label: "Done", Color: "green"},
		}},
	}

	visible := make([]string, len(columns))
	for i, col := range columns {
		visible[i] = col.ID
	}

	view := TableView{
		ID:             uuid.NewString(),
		Name:           "All",
		Type:           ViewTypeGrid,
		VisibleColumns: visible,
		IsDefault:      true,
	}

	return &InlineTable{
		ID:           uuid.NewString(),
		Name:         name,
		Columns:      columns,
		Rows:         []TableRow{},
		Views:        []TableView{view},
		ActiveViewID: view.ID,
	}
}

// Column returns the column with the given ID, or nil.
func (t *InlineTable) Column(id string) *Column {
	for i := range t.Columns {
		if t.Columns[i].ID == id {
			return &t.Columns[i]
		}
	}
	return nil
}

// Row returns the row with the given ID, or nil.
func (t *InlineTable) Row(id string) *TableRow {
	for i := range t.Rows {
		if t.Rows[i].ID == id {
			return &t.Rows[i]
		}
	}
	return nil
}

// View returns the view with the given ID, or nil.
func (t *InlineTable) View(id string) *TableView {
	for i := range t.Views {
		if t.Views[i].ID == id {
			return &t.Views[i]
		}
	}
	return nil
}

// AddColumn appends a column and makes it visible in every view.
func (t *InlineTable) AddColumn(name, columnType string) *Column {
	if name == "" {
		name = fmt.Sprintf("Column %d", len(t.Columns)+1)
	}
	if columnType == "" {
		columnType = ColumnTypeText
	}
	col := Column{ID: uuid.NewString(), Name: name, Type: columnType}
	t.Columns = append(t.Columns, col)
	for i := range t.Views {
		t.Views[i].VisibleColumns = append(t.Views[i].VisibleColumns, col.ID)
	}
	return &t.Columns[len(t.Columns)-1]
}

// RenameColumn renames a column. Returns false if the column is unknown.
func (t *InlineTable) RenameColumn(id, name string) bool {
	col := t.Column(id)
	if col == nil {
		return false
	}
	col.Name = name
	return true
}

// DeleteColumn removes a column, scrubbing its key from every row's data
// and its ID from every view's visible columns. Returns false if the
// column is unknown.
func (t *InlineTable) DeleteColumn(id string) bool {
	idx := -1
	for i := range t.Columns {
		if t.Columns[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)

	for i := range t.Rows {
		delete(t.Rows[i].Data, id)
	}
	for i := range t.Views {
		visible := t.Views[i].VisibleColumns[:0]
		for _, colID := range t.Views[i].VisibleColumns {
			if colID != id {
				visible = append(visible, colID)
			}
		}
		t.Views[i].VisibleColumns = visible
	}
	return true
}

// AddRow appends an empty row. Order is the row count at insert time;
// deletes leave gaps rather than renumbering.
func (t *InlineTable) AddRow() *TableRow {
	now := time.Now()
	row := TableRow{
		ID:        uuid.NewString(),
		Data:      map[string]interface{}{},
		Order:     len(t.Rows),
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.Rows = append(t.Rows, row)
	return &t.Rows[len(t.Rows)-1]
}

// DeleteRow removes a row by ID. Remaining rows keep their order values.
func (t *InlineTable) DeleteRow(id string) bool {
	for i := range t.Rows {
		if t.Rows[i].ID == id {
			t.Rows = append(t.Rows[:i], t.Rows[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateCell sets one cell value and refreshes the row's UpdatedAt.
// Returns false when the row or column is unknown, keeping row data keys
// a subset of the current column IDs. Formula columns are read-only.
func (t *InlineTable) UpdateCell(rowID, columnID string, value interface{}) bool {
	col := t.Column(columnID)
	if col == nil || col.Type == ColumnTypeFormula {
		return false
	}
	row := t.Row(rowID)
	if row == nil {
		return false
	}
	if row.Data == nil {
		row.Data = map[string]interface{}{}
	}
	row.Data[columnID] = value
	row.UpdatedAt = time.Now()
	return true
}

// RowsInOrder returns the rows sorted by their order value. Ties keep
// insertion order.
func (t *InlineTable) RowsInOrder() []TableRow {
	out := make([]TableRow, len(t.Rows))
	copy(out, t.Rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// AddView appends a view showing every current column.
func (t *InlineTable) AddView(name, viewType string) *TableView {
	if viewType == "" {
		viewType = ViewTypeGrid
	}
	visible := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		visible[i] = col.ID
	}
	view := TableView{
		ID:             uuid.NewString(),
		Name:           name,
		Type:           viewType,
		VisibleColumns: visible,
	}
	t.Views = append(t.Views, view)
	return &t.Views[len(t.Views)-1]
}

// DeleteView removes a view. The last remaining view cannot be deleted,
// and deleting the active view falls back to the default view (or the
// first one left) so ActiveViewID always resolves.
func (t *InlineTable) DeleteView(id string) bool {
	if len(t.Views) <= 1 {
		return false
	}
	idx := -1
	for i := range t.Views {
		if t.Views[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	t.Views = append(t.Views[:idx], t.Views[idx+1:]...)

	if t.ActiveViewID == id {
		t.ActiveViewID = t.Views[0].ID
		for i := range t.Views {
			if t.Views[i].IsDefault {
				t.ActiveViewID = t.Views[i].ID
				break
			}
		}
	}
	return true
}

// SetActiveView switches the active view. Unknown IDs are rejected so
// ActiveViewID keeps referencing an existing view.
func (t *InlineTable) SetActiveView(id string) bool {
	if t.View(id) == nil {
		return false
	}
	t.ActiveViewID = id
	return true
}

// ResolveOption resolves a stored option ID against a select/multiselect
// column. A missing option yields ok=false: the cell renders as unset.
func (t *InlineTable) ResolveOption(columnID, optionID string) (SelectOption, bool) {
	col := t.Column(columnID)
	if col == nil {
		return SelectOption{}, false
	}
	for _, opt := range col.Options {
		if opt.ID == optionID {
			return opt, true
		}
	}
	return SelectOption{}, false
}

// DisplayValue renders a cell for plain-text contexts (HTML emission,
// markdown export). Select values resolve option IDs to labels;
// unresolvable IDs render empty. Checkbox cells render as markers.
func (t *InlineTable) DisplayValue(row TableRow, columnID string) string {
	col := t.Column(columnID)
	if col == nil {
		return ""
	}
	value, ok := row.Data[columnID]
	if !ok || value == nil {
		return ""
	}

	switch col.Type {
	case ColumnTypeSelect:
		id, _ := value.(string)
		if opt, ok := t.ResolveOption(columnID, id); ok {
			return opt.Label
		}
		return ""
	case ColumnTypeMultiSelect:
		ids, _ := value.([]interface{})
		var labels []string
		for _, raw := range ids {
			id, _ := raw.(string)
			if opt, ok := t.ResolveOption(columnID, id); ok {
				labels = append(labels, opt.Label)
			}
		}
		return strings.Join(labels, ", ")
	case ColumnTypeCheckbox:
		if checked, _ := value.(bool); checked {
			return "[x]"
		}
		return "[ ]"
	default:
		return fmt.Sprintf("%v", value)
	}
}

// Clone deep-copies the table with fresh IDs for the table itself and
// all columns, rows, views and options, remapping cross-references.
func (t *InlineTable) Clone() *InlineTable {
	out := &InlineTable{
		ID:          uuid.NewString(),
		Name:        t.Name,
		Description: t.Description,
	}

	// old ID -> new ID, so row data keys, visible columns and option
	// references survive the copy
	idMap := make(map[string]string)

	out.Columns = make([]Column, len(t.Columns))
	for i, col := range t.Columns {
		c := col
		c.ID = uuid.NewString()
		idMap[col.ID] = c.ID
		c.Options = make([]SelectOption, len(col.Options))
		for j, opt := range col.Options {
			o := opt
			o.ID = uuid.NewString()
			idMap[opt.ID] = o.ID
			c.Options[j] = o
		}
		out.Columns[i] = c
	}

	out.Rows = make([]TableRow, len(t.Rows))
	for i, row := range t.Rows {
		r := row
		r.ID = uuid.NewString()
		r.Data = make(map[string]interface{}, len(row.Data))
		for colID, value := range row.Data {
			newColID, ok := idMap[colID]
			if !ok {
				continue
			}
			r.Data[newColID] = remapOptionRefs(value, idMap)
		}
		out.Rows[i] = r
	}

	out.Views = make([]TableView, len(t.Views))
	for i, view := range t.Views {
		v := view
		v.ID = uuid.NewString()
		idMap[view.ID] = v.ID
		v.VisibleColumns = make([]string, 0, len(view.VisibleColumns))
		for _, colID := range view.VisibleColumns {
			if newColID, ok := idMap[colID]; ok {
				v.VisibleColumns = append(v.VisibleColumns, newColID)
			}
		}
		out.Views[i] = v
	}

	if newActive, ok := idMap[t.ActiveViewID]; ok {
		out.ActiveViewID = newActive
	} else if len(out.Views) > 0 {
		out.ActiveViewID = out.Views[0].ID
	}
	return out
}

// Copy deep-copies the table preserving every ID. Used to snapshot a
// document for persistence while the live table keeps being mutated.
func (t *InlineTable) Copy() *InlineTable {
	out := *t

	out.Columns = make([]Column, len(t.Columns))
	for i, col := range t.Columns {
		c := col
		c.Options = append([]SelectOption(nil), col.Options...)
		out.Columns[i] = c
	}

	out.Rows = make([]TableRow, len(t.Rows))
	for i, row := range t.Rows {
		r := row
		r.Data = make(map[string]interface{}, len(row.Data))
		for colID, value := range row.Data {
			r.Data[colID] = value
		}
		out.Rows[i] = r
	}

	out.Views = make([]TableView, len(t.Views))
	for i, view := range t.Views {
		v := view
		v.VisibleColumns = append([]string(nil), view.VisibleColumns...)
		v.Filters = append([]ViewFilter(nil), view.Filters...)
		v.Sorts = append([]ViewSort(nil), view.Sorts...)
		out.Views[i] = v
	}
	return &out
}

// remapOptionRefs rewrites select/multiselect option IDs inside a cell
// value during a clone. Non-reference values pass through unchanged.
func remapOptionRefs(value interface{}, idMap map[string]string) interface{} {
	switch v := value.(type) {
	case string:
		if mapped, ok := idMap[v]; ok {
			return mapped
		}
		return v
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = remapOptionRefs(item, idMap)
		}
		return out
	default:
		return value
	}
}

package blocksys

import (
	"testing"
)

func TestAddColumnVisibleEverywhere(t *testing.T) {
	table := NewDefaultTable("")
	table.AddView("Board", ViewTypeBoard)

	col := table.AddColumn("Priority", ColumnTypeSelect)
	for _, view := range table.Views {
		found := false
		for _, id := range view.VisibleColumns {
			if id == col.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("view %q does not show new column", view.Name)
		}
	}
}

func TestDeleteColumnScrubsRowsAndViews(t *testing.T) {
	table := NewDefaultTable("")
	col := table.Columns[0]
	row := table.AddRow()
	table.UpdateCell(row.ID, col.ID, "value")

	if !table.DeleteColumn(col.ID) {
		t.Fatal("delete returned false for known column")
	}
	if table.Column(col.ID) != nil {
		t.Error("column still present")
	}
	if _, ok := table.Rows[0].Data[col.ID]; ok {
		t.Error("row data still carries deleted column key")
	}
	for _, view := range table.Views {
		for _, id := range view.VisibleColumns {
			if id == col.ID {
				t.Errorf("view %q still lists deleted column", view.Name)
			}
		}
	}

	if table.DeleteColumn("nope") {
		t.Error("delete returned true for unknown column")
	}
}

func TestRowOrderAssignedAtInsertNeverRenumbered(t *testing.T) {
	table := NewDefaultTable("")
	r0 := table.AddRow()
	r1 := table.AddRow()
	r2 := table.AddRow()

	if r0.Order != 0 || r1.Order != 1 || r2.Order != 2 {
		t.Fatalf("orders = %d,%d,%d, want 0,1,2", r0.Order, r1.Order, r2.Order)
	}

	id2 := table.Rows[2].ID
	table.DeleteRow(table.Rows[1].ID)
	if got := table.Row(id2).Order; got != 2 {
		t.Errorf("surviving row renumbered to %d, want 2", got)
	}

	ordered := table.RowsInOrder()
	if len(ordered) != 2 || ordered[0].Order > ordered[1].Order {
		t.Errorf("RowsInOrder not sorted: %+v", ordered)
	}
}

func TestUpdateCell(t *testing.T) {
	table := NewDefaultTable("")
	table.Columns = append(table.Columns, Column{ID: "f1", Name: "Total", Type: ColumnTypeFormula})
	row := table.AddRow()

	tests := []struct {
		name     string
		rowID    string
		columnID string
		want     bool
	}{
		{"known row and column", row.ID, table.Columns[0].ID, true},
		{"unknown row", "missing", table.Columns[0].ID, false},
		{"unknown column", row.ID, "missing", false},
		{"formula column is read-only", row.ID, "f1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.UpdateCell(tt.rowID, tt.columnID, "x"); got != tt.want {
				t.Errorf("UpdateCell = %v, want %v", got, tt.want)
			}
		})
	}

	if _, ok := row.Data["missing"]; ok {
		t.Error("rejected write still landed in row data")
	}
}

func TestViewLifecycle(t *testing.T) {
	table := NewDefaultTable("")
	defaultView := table.Views[0]

	if table.DeleteView(defaultView.ID) {
		t.Error("deleted the last remaining view")
	}

	board := table.AddView("Board", ViewTypeBoard)
	if !table.SetActiveView(board.ID) {
		t.Fatal("could not activate known view")
	}
	if table.SetActiveView("missing") {
		t.Error("activated unknown view")
	}
	if table.ActiveViewID != board.ID {
		t.Error("rejected activation changed the active view")
	}

	// deleting the active view falls back to the default
	if !table.DeleteView(board.ID) {
		t.Fatal("could not delete non-last view")
	}
	if table.ActiveViewID != defaultView.ID {
		t.Errorf("active view = %s, want default %s", table.ActiveViewID, defaultView.ID)
	}
}

func TestDisplayValue(t *testing.T) {
	table := NewDefaultTable("")
	status := table.Columns[2] // select column with stock options
	tags := table.Columns[1]   // multiselect
	check := table.AddColumn("Done", ColumnTypeCheckbox)

	row := table.AddRow()
	table.UpdateCell(row.ID, status.ID, status.Options[1].ID)
	table.UpdateCell(row.ID, tags.ID, []interface{}{"missing-option"})
	table.UpdateCell(row.ID, check.ID, true)

	got := table.DisplayValue(*table.Row(row.ID), status.ID)
	if got != "In progress" {
		t.Errorf("select display = %q, want %q", got, "In progress")
	}

	// a dangling option reference renders as unset, not an error
	if got := table.DisplayValue(*table.Row(row.ID), tags.ID); got != "" {
		t.Errorf("dangling multiselect display = %q, want empty", got)
	}

	if got := table.DisplayValue(*table.Row(row.ID), check.ID); got != "[x]" {
		t.Errorf("checkbox display = %q, want %q", got, "[x]")
	}
}

func TestCloneRemapsReferences(t *testing.T) {
	table := NewDefaultTable("")
	status := table.Columns[2]
	row := table.AddRow()
	table.UpdateCell(row.ID, status.ID, status.Options[0].ID)

	clone := table.Clone()
	if clone.ID == table.ID {
		t.Error("clone kept table ID")
	}
	if clone.ActiveViewID == table.ActiveViewID {
		t.Error("clone kept active view ID")
	}
	if clone.View(clone.ActiveViewID) == nil {
		t.Error("clone's active view does not resolve")
	}

	clonedStatus := clone.Columns[2]
	value, ok := clone.Rows[0].Data[clonedStatus.ID]
	if !ok {
		t.Fatal("cloned row lost its cell under the remapped column ID")
	}
	optID, _ := value.(string)
	if _, ok := clone.ResolveOption(clonedStatus.ID, optID); !ok {
		t.Error("cloned select value does not resolve against cloned options")
	}
	if optID == status.Options[0].ID {
		t.Error("cloned select value still references the source option ID")
	}
}

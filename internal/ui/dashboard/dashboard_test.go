package dashboard

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"focusisland/internal/core/model"
)

func TestBindTaskRowPopulatesTemplate(t *testing.T) {
	test.NewApp()

	dash := &Window{tasks: []model.Task{
		{ID: 7, Name: "write report", FocusSeconds: 90, Completed: true},
	}}

	row := newTaskRow()
	dash.bindTaskRow(0, row)

	check, focusLabel, deleteButton := taskRowParts(row)
	if check.Text != "write report" {
		t.Errorf("expected task name on the check, got %q", check.Text)
	}
	if !check.Checked {
		t.Error("completed task should render checked")
	}
	if focusLabel.Text != "1m" {
		t.Errorf("expected focus time 1m, got %q", focusLabel.Text)
	}
	if deleteButton.OnTapped == nil {
		t.Error("delete button should have a handler")
	}
}

func TestBindTaskRowWiresToggleCallback(t *testing.T) {
	test.NewApp()

	var toggledID int64
	var toggledTo bool
	dash := &Window{
		tasks: []model.Task{{ID: 3, Name: "inbox zero"}},
		callbacks: Callbacks{
			OnToggleTask: func(id int64, completed bool) {
				toggledID = id
				toggledTo = completed
			},
		},
	}

	row := newTaskRow()
	dash.bindTaskRow(0, row)

	check, _, _ := taskRowParts(row)
	check.SetChecked(true)
	if toggledID != 3 || !toggledTo {
		t.Errorf("expected toggle callback for task 3/true, got %d/%v", toggledID, toggledTo)
	}

	// Rebinding must not fire the callback for the stored state.
	toggledID = 0
	dash.tasks[0].Completed = true
	dash.bindTaskRow(0, row)
	if toggledID != 0 {
		t.Error("rebinding fired the toggle callback")
	}
}

func TestBindTaskRowIgnoresStaleIndex(t *testing.T) {
	test.NewApp()

	dash := &Window{}
	row := newTaskRow()
	dash.bindTaskRow(2, row)

	check, _, _ := taskRowParts(row)
	if check.Text != "" {
		t.Errorf("stale index should leave the template empty, got %q", check.Text)
	}
}

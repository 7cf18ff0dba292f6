package preferences

import (
	"strconv"

	"countdown/internal/core/model"
	"countdown/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Controller is the part of the timer the settings panel drives.
type Controller interface {
	SetLimit(raw string) bool
	AddAlert() bool
	RemoveAlert(index int) bool
	SetAlert(index int, raw string) bool
	Snapshot() timekeeper.Snapshot
}

type alertRow struct {
	entry  *widget.Entry
	remove *widget.Button
	row    *fyne.Container
}

// Panel edits the countdown limit and alert thresholds. Every keystroke is
// forwarded as an intent; the timer decides whether it applies.
type Panel struct {
	controller Controller
	content    *fyne.Container
	Limit      *widget.Entry
	addButton  *widget.Button
	rows       *fyne.Container
	alerts     []*alertRow
	editable   bool
	syncing    bool
}

// NewPanel creates a settings panel bound to controller.
func NewPanel(controller Controller) *Panel {
	panel := &Panel{controller: controller}

	panel.Limit = widget.NewEntry()
	panel.Limit.OnChanged = func(text string) {
		if panel.syncing {
			return
		}
		panel.controller.SetLimit(text)
		panel.Update(panel.controller.Snapshot())
	}

	panel.addButton = widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
		panel.controller.AddAlert()
		panel.Update(panel.controller.Snapshot())
	})

	panel.rows = container.NewVBox()
	panel.content = container.NewVBox(
		widget.NewLabelWithStyle("Settings", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Time"), panel.Limit, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Alerts"), layout.NewSpacer(), panel.addButton),
		panel.rows,
	)

	panel.Update(controller.Snapshot())
	return panel
}

// Content returns the panel's canvas object.
func (panel *Panel) Content() fyne.CanvasObject {
	return panel.content
}

// Update refreshes the panel from a timer snapshot. Entry text is only
// rewritten when rows are rebuilt or editing is locked, so typing is never
// interrupted.
func (panel *Panel) Update(snapshot timekeeper.Snapshot) {
	thresholds := snapshot.Settings.AlertThresholds
	rebuilt := len(thresholds) != len(panel.alerts)
	if rebuilt {
		panel.rebuildRows(len(thresholds))
	}

	editable := snapshot.Editable()
	if rebuilt || editable != panel.editable || !editable {
		panel.syncText(snapshot.Settings)
	}
	panel.editable = editable
	panel.applyControls(len(thresholds))
}

func (panel *Panel) rebuildRows(count int) {
	panel.alerts = make([]*alertRow, 0, count)
	objects := make([]fyne.CanvasObject, 0, count)
	for index := 0; index < count; index++ {
		row := panel.newAlertRow(index)
		panel.alerts = append(panel.alerts, row)
		objects = append(objects, row.row)
	}
	panel.rows.Objects = objects
	panel.rows.Refresh()
}

func (panel *Panel) newAlertRow(index int) *alertRow {
	entry := widget.NewEntry()
	entry.OnChanged = func(text string) {
		if panel.syncing {
			return
		}
		panel.controller.SetAlert(index, text)
		panel.Update(panel.controller.Snapshot())
	}
	remove := widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), func() {
		panel.controller.RemoveAlert(index)
		panel.Update(panel.controller.Snapshot())
	})
	return &alertRow{
		entry:  entry,
		remove: remove,
		row:    container.NewHBox(entry, widget.NewLabel("min before"), remove),
	}
}

func (panel *Panel) syncText(settings model.Settings) {
	panel.syncing = true
	defer func() { panel.syncing = false }()

	setText(panel.Limit, settings.LimitMinutes)
	for index, row := range panel.alerts {
		setText(row.entry, settings.AlertThresholds[index])
	}
}

func (panel *Panel) applyControls(count int) {
	setEnabled(panel.Limit, panel.editable)
	setEnabled(panel.addButton, panel.editable)
	if count >= model.MaxThresholds {
		panel.addButton.Hide()
	} else {
		panel.addButton.Show()
	}

	for _, row := range panel.alerts {
		setEnabled(row.entry, panel.editable)
		setEnabled(row.remove, panel.editable)
		if count <= 1 {
			row.remove.Hide()
		} else {
			row.remove.Show()
		}
	}
}

func setText(entry *widget.Entry, value int) {
	text := strconv.Itoa(value)
	if entry.Text != text {
		entry.SetText(text)
	}
}

func setEnabled(target fyne.Disableable, enabled bool) {
	if enabled {
		target.Enable()
		return
	}
	target.Disable()
}

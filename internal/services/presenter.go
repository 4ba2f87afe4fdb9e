package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"devinv/internal/domain"
	"devinv/internal/form"
	"devinv/internal/inventory"
	applog "devinv/internal/log"
)

// View is the UI surface driven by the presenter.
type View interface {
	CurrentForm() (category string, fields form.Fields)
	SetSelected(id int64, ok bool)
	Selected() (id int64, ok bool)
	RenderTable(rows []Row)
	ShowError(text string)
	ShowInfo(text string)
	ShowFieldsForCategory(c domain.Category)
	FillForm(c domain.Category, fields form.Fields)
	ClearForm()
}

// Row is one line of the inventory table.
type Row struct {
	ID        int64  `json:"id"`
	Category  string `json:"category"`
	Name      string `json:"name"`
	CPU       string `json:"cpu"`
	RAMGB     int    `json:"ram_gb"`
	StorageGB int    `json:"storage_gb"`
	Price     string `json:"price"`
	Extra     string `json:"extra"`
}

func RowOf(d domain.Device) Row {
	return Row{
		ID:        d.ID,
		Category:  string(d.Category),
		Name:      d.Name,
		CPU:       d.CPU,
		RAMGB:     d.RAMGB,
		StorageGB: d.StorageGB,
		Price:     d.Price.StringFixed(2),
		Extra:     d.Extra(),
	}
}

// Presenter mediates between the view and the store. It is not safe for
// concurrent use; callers dispatch one UI event at a time.
type Presenter struct {
	Store inventory.Store
	View  View
	Gen   *Generator

	categories []domain.Category
	selected   int64
	hasSel     bool
}

// NewPresenter registers cats for the type selector; with none given every
// known category is registered.
func NewPresenter(store inventory.Store, view View, gen *Generator, cats ...domain.Category) *Presenter {
	if len(cats) == 0 {
		cats = domain.Categories
	}
	return &Presenter{Store: store, View: view, Gen: gen, categories: cats}
}

// Categories returns the registered categories in distribution order.
func (p *Presenter) Categories() []domain.Category {
	return append([]domain.Category(nil), p.categories...)
}

func (p *Presenter) registered(name string) (domain.Category, bool) {
	c, ok := domain.ParseCategory(name)
	if !ok {
		return "", false
	}
	for _, r := range p.categories {
		if r == c {
			return c, true
		}
	}
	return "", false
}

// Selected reports the current selection.
func (p *Presenter) Selected() (int64, bool) { return p.selected, p.hasSel }

func (p *Presenter) setSelection(id int64, ok bool) {
	p.selected, p.hasSel = id, ok
	p.View.SetSelected(id, ok)
}

// Refresh re-renders the table from the store.
func (p *Presenter) Refresh(ctx context.Context) {
	if err := p.renderTable(ctx); err != nil {
		p.fail(applog.NewOp(), "device.list", "Failed to load devices", err)
	}
}

func (p *Presenter) renderTable(ctx context.Context) error {
	devs, err := p.Store.List(ctx)
	if err != nil {
		return err
	}
	rows := make([]Row, 0, len(devs))
	for _, d := range devs {
		rows = append(rows, RowOf(d))
	}
	p.View.RenderTable(rows)
	return nil
}

// parseForm reads the view's form and maps it to a record.
func (p *Presenter) parseForm() (domain.Device, error) {
	name, fields := p.View.CurrentForm()
	c, ok := p.registered(name)
	if !ok {
		return domain.Device{}, &domain.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown device type %q", name)}
	}
	return form.Parse(c, fields)
}

// OnAdd appends the form's record and clears the form.
func (p *Presenter) OnAdd(ctx context.Context) {
	op := applog.NewOp()
	d, err := p.parseForm()
	if err != nil {
		p.fail(op, "device.add", "Invalid input", err)
		return
	}
	saved, err := p.Store.Add(ctx, d)
	if err != nil {
		p.fail(op, "device.add", "Failed to add device", err)
		return
	}
	op.Audit("device.add", map[string]any{"id": saved.ID, "category": saved.Category, "name": saved.Name})
	p.Refresh(ctx)
	p.View.ClearForm()
}

// OnSelect makes id the selection and loads it into the form. A missing id is
// ignored.
func (p *Presenter) OnSelect(ctx context.Context, id int64) {
	d, err := p.Store.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return
	}
	if err != nil {
		p.fail(applog.NewOp(), "device.select", "Failed to load device", err)
		return
	}
	p.setSelection(id, true)
	p.View.ShowFieldsForCategory(d.Category)
	p.View.FillForm(d.Category, form.Render(d))
}

// OnUpdate replaces the selected record with the form's record. The selection
// is kept; a selection whose record is gone is dropped.
func (p *Presenter) OnUpdate(ctx context.Context) {
	op := applog.NewOp()
	if !p.hasSel {
		p.View.ShowInfo("Select a device to update.")
		return
	}
	if _, err := p.Store.Get(ctx, p.selected); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			p.setSelection(0, false)
			p.View.ShowInfo("Select a device to update.")
			p.Refresh(ctx)
			return
		}
		p.fail(op, "device.update", "Failed to update device", err)
		return
	}
	d, err := p.parseForm()
	if err != nil {
		p.fail(op, "device.update", "Invalid input", err)
		return
	}
	if err := p.Store.Replace(ctx, p.selected, d); err != nil {
		p.fail(op, "device.update", "Failed to update device", err)
		return
	}
	op.Audit("device.update", map[string]any{"id": p.selected, "category": d.Category, "name": d.Name})
	p.Refresh(ctx)
	p.View.SetSelected(p.selected, true)
}

// OnDelete removes the selected record, clears the selection and the form.
func (p *Presenter) OnDelete(ctx context.Context) {
	if !p.hasSel {
		return
	}
	op := applog.NewOp()
	id := p.selected
	if err := p.Store.Remove(ctx, id); err != nil {
		p.fail(op, "device.delete", "Failed to delete device", err)
		return
	}
	op.Audit("device.delete", map[string]any{"id": id})
	p.setSelection(0, false)
	p.Refresh(ctx)
	p.View.ClearForm()
}

// OnClearAll removes every record, the selection and the form.
func (p *Presenter) OnClearAll(ctx context.Context) {
	op := applog.NewOp()
	n, err := p.Store.Clear(ctx)
	if err != nil {
		p.fail(op, "device.clear", "Failed to clear devices", err)
		return
	}
	op.Audit("device.clear", map[string]any{"removed": n})
	p.setSelection(0, false)
	p.Refresh(ctx)
	p.View.ClearForm()
	p.View.ShowInfo("Removed " + strconv.FormatInt(n, 10) + " devices.")
}

// OnTypeChanged switches the optional field set shown by the view.
func (p *Presenter) OnTypeChanged(name string) {
	c, ok := p.registered(name)
	if !ok {
		p.View.ShowError(fmt.Sprintf("Unknown device type %q.", name))
		return
	}
	p.View.ShowFieldsForCategory(c)
}

// OnBulkGenerate adds n generated records per registered category and renders
// once at the end.
func (p *Presenter) OnBulkGenerate(ctx context.Context, n int) {
	op := applog.NewOp()
	if n <= 0 {
		p.View.ShowError("Count must be a positive number.")
		return
	}
	batch := p.Gen.Batch(p.categories, n)
	saved, err := p.Store.AddAll(ctx, batch)
	if err != nil {
		p.fail(op, "device.generate", "Failed to generate devices", err)
		return
	}
	op.Audit("device.generate", map[string]any{"per_category": n, "added": len(saved)})
	p.Refresh(ctx)
	p.View.ShowInfo("Added " + strconv.Itoa(len(saved)) + " devices.")
}

// Chart builds a chart series over the whole store.
func (p *Presenter) Chart(ctx context.Context, kind ChartKind) (Chart, error) {
	devs, err := p.Store.List(ctx)
	if err != nil {
		return Chart{}, err
	}
	return BuildChart(kind, devs)
}

// fail logs err and surfaces it to the user. Nothing propagates further.
func (p *Presenter) fail(op applog.Op, action, prefix string, err error) {
	op.Error(action+".fail", err, nil)
	p.View.ShowError(prefix + ": " + err.Error())
}

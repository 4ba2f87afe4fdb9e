package handlers

import (
	"devinv/internal/domain"
	"devinv/internal/form"
	"devinv/internal/services"
)

// WebView keeps the page state the presenter drives between requests. The
// owning DeviceHandler serialises access to it.
type WebView struct {
	category string
	shown    domain.Category
	values   form.Fields
	selID    int64
	selOK    bool
	rows     []services.Row
	errs     []string
	infos    []string
}

func NewWebView(initial domain.Category) *WebView {
	return &WebView{category: string(initial), shown: initial, values: form.Fields{}}
}

// Submit records the posted form so the presenter can read it back.
func (v *WebView) Submit(category string, fields form.Fields) {
	v.category = category
	v.values = fields
}

func (v *WebView) CurrentForm() (string, form.Fields) { return v.category, v.values }

func (v *WebView) SetSelected(id int64, ok bool) { v.selID, v.selOK = id, ok }

func (v *WebView) Selected() (int64, bool) { return v.selID, v.selOK }

func (v *WebView) RenderTable(rows []services.Row) { v.rows = rows }

func (v *WebView) ShowError(text string) { v.errs = append(v.errs, text) }

func (v *WebView) ShowInfo(text string) { v.infos = append(v.infos, text) }

func (v *WebView) ShowFieldsForCategory(c domain.Category) {
	v.shown = c
	v.category = string(c)
}

func (v *WebView) FillForm(c domain.Category, fields form.Fields) {
	v.ShowFieldsForCategory(c)
	v.values = fields
}

func (v *WebView) ClearForm() { v.values = form.Fields{} }

// Input is one labelled form input with its current value.
type Input struct {
	Key   string
	Label string
	Value string
}

type PageRow struct {
	services.Row
	Selected bool
}

// Page is the data behind the index template.
type Page struct {
	Categories []domain.Category
	Type       string
	Base       []Input
	Optional   []Input
	Rows       []PageRow
	HasSel     bool
	SelID      int64
	Errors     []string
	Infos      []string
}

// Page snapshots the state for rendering and drops the shown messages.
func (v *WebView) Page(cats []domain.Category) Page {
	p := Page{
		Categories: cats,
		Type:       v.category,
		Base:       v.inputs(form.BaseFields),
		Optional:   v.inputs(form.OptionalFields(v.shown)),
		HasSel:     v.selOK,
		SelID:      v.selID,
		Errors:     v.errs,
		Infos:      v.infos,
	}
	for _, r := range v.rows {
		p.Rows = append(p.Rows, PageRow{Row: r, Selected: v.selOK && r.ID == v.selID})
	}
	v.errs, v.infos = nil, nil
	return p
}

func (v *WebView) inputs(fs []form.Field) []Input {
	out := make([]Input, 0, len(fs))
	for _, f := range fs {
		out = append(out, Input{Key: f.Key, Label: f.Label, Value: v.values[f.Key]})
	}
	return out
}

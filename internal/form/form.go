// Package form converts between raw form text and typed device records.
package form

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"devinv/internal/domain"
)

// Fields holds raw form values keyed by field name.
type Fields map[string]string

// Field keys.
const (
	Name          = "name"
	CPU           = "cpu"
	RAMGB         = "ram_gb"
	StorageGB     = "storage_gb"
	Price         = "price"
	GPU           = "gpu"
	ScreenInch    = "screen_inch"
	BatteryWh     = "battery_wh"
	PSUWatt       = "psu_watt"
	CaseFormat    = "case_format"
	Model         = "model"
	VideocardType = "videocard_type"
)

// Field describes one input shown on the form.
type Field struct {
	Key   string
	Label string
}

var BaseFields = []Field{
	{Name, "Name"},
	{CPU, "CPU"},
	{RAMGB, "RAM (GB)"},
	{StorageGB, "Storage (GB)"},
	{Price, "Price ($)"},
}

// OptionalFields returns the category-specific inputs in display order.
func OptionalFields(c domain.Category) []Field {
	switch c {
	case domain.CategoryLaptop:
		return []Field{{GPU, "GPU"}, {ScreenInch, "Screen (inch)"}, {BatteryWh, "Battery (Wh)"}}
	case domain.CategoryPC:
		return []Field{{GPU, "GPU"}, {PSUWatt, "PSU (Watt)"}, {CaseFormat, "Case Format"}}
	case domain.CategoryTablet:
		return []Field{{ScreenInch, "Screen (inch)"}, {BatteryWh, "Battery (Wh)"}}
	case domain.CategoryDevice:
		return []Field{{Model, "Model"}, {VideocardType, "Video Card"}}
	}
	return nil
}

// Parse builds a record of category c from raw form values. Blank optional fields
// keep the category defaults; fields that do not belong to c are ignored.
func Parse(c domain.Category, f Fields) (domain.Device, error) {
	name := f.get(Name)
	cpu := f.get(CPU)
	if name == "" || cpu == "" {
		return domain.Device{}, &domain.ValidationError{Reason: "Name and CPU are required."}
	}

	if _, ok := domain.ParseCategory(string(c)); !ok {
		return domain.Device{}, &domain.ValidationError{Field: "category", Reason: "unknown device type " + strconv.Quote(string(c))}
	}
	d := domain.New(c)
	d.Name = name
	d.CPU = cpu

	var err error
	if d.RAMGB, err = f.integer(RAMGB); err != nil {
		return domain.Device{}, err
	}
	if d.StorageGB, err = f.integer(StorageGB); err != nil {
		return domain.Device{}, err
	}
	if d.Price, err = f.price(); err != nil {
		return domain.Device{}, err
	}

	switch c {
	case domain.CategoryLaptop:
		s := d.Laptop
		if v := f.get(GPU); v != "" {
			s.GPU = v
		}
		if err := f.optFloat(ScreenInch, &s.ScreenInch); err != nil {
			return domain.Device{}, err
		}
		if err := f.optInt(BatteryWh, &s.BatteryWh); err != nil {
			return domain.Device{}, err
		}
	case domain.CategoryPC:
		s := d.PC
		if v := f.get(GPU); v != "" {
			s.GPU = v
		}
		if err := f.optInt(PSUWatt, &s.PSUWatt); err != nil {
			return domain.Device{}, err
		}
		if v := f.get(CaseFormat); v != "" {
			s.CaseFormat = v
		}
	case domain.CategoryTablet:
		s := d.Tablet
		if err := f.optFloat(ScreenInch, &s.ScreenInch); err != nil {
			return domain.Device{}, err
		}
		if err := f.optInt(BatteryWh, &s.BatteryWh); err != nil {
			return domain.Device{}, err
		}
	case domain.CategoryDevice:
		d.Generic.Model = f.get(Model)
		d.Generic.VideocardType = f.get(VideocardType)
	}
	return d, nil
}

// Render is the inverse of Parse, used to pre-fill an edit form. Absent optional
// attributes are left out of the result.
func Render(d domain.Device) Fields {
	f := Fields{
		Name:      d.Name,
		CPU:       d.CPU,
		RAMGB:     strconv.Itoa(d.RAMGB),
		StorageGB: strconv.Itoa(d.StorageGB),
		Price:     d.Price.String(),
	}
	switch d.Category {
	case domain.CategoryLaptop:
		if s := d.Laptop; s != nil {
			f[GPU] = s.GPU
			f[ScreenInch] = formatFloat(s.ScreenInch)
			f[BatteryWh] = strconv.Itoa(s.BatteryWh)
		}
	case domain.CategoryPC:
		if s := d.PC; s != nil {
			f[GPU] = s.GPU
			f[PSUWatt] = strconv.Itoa(s.PSUWatt)
			f[CaseFormat] = s.CaseFormat
		}
	case domain.CategoryTablet:
		if s := d.Tablet; s != nil {
			f[ScreenInch] = formatFloat(s.ScreenInch)
			f[BatteryWh] = strconv.Itoa(s.BatteryWh)
		}
	case domain.CategoryDevice:
		if s := d.Generic; s != nil {
			if s.Model != "" {
				f[Model] = s.Model
			}
			if s.VideocardType != "" {
				f[VideocardType] = s.VideocardType
			}
		}
	}
	return f
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func (f Fields) get(key string) string { return strings.TrimSpace(f[key]) }

func (f Fields) integer(key string) (int, error) {
	n, err := strconv.Atoi(f.get(key))
	if err != nil {
		return 0, &domain.ValidationError{Field: key, Reason: "must be a whole number"}
	}
	if n < 0 {
		return 0, &domain.ValidationError{Field: key, Reason: "must not be negative"}
	}
	return n, nil
}

func (f Fields) optInt(key string, dst *int) error {
	if f.get(key) == "" {
		return nil
	}
	n, err := f.integer(key)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func (f Fields) optFloat(key string, dst *float64) error {
	raw := f.get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return &domain.ValidationError{Field: key, Reason: "must be a number"}
	}
	if v < 0 {
		return &domain.ValidationError{Field: key, Reason: "must not be negative"}
	}
	*dst = v
	return nil
}

func (f Fields) price() (decimal.Decimal, error) {
	p, err := decimal.NewFromString(f.get(Price))
	if err != nil {
		return decimal.Decimal{}, &domain.ValidationError{Field: Price, Reason: "must be a number"}
	}
	if p.IsNegative() {
		return decimal.Decimal{}, &domain.ValidationError{Field: Price, Reason: "must not be negative"}
	}
	return p, nil
}

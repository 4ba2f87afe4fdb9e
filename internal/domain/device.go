package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryLaptop Category = "Laptop"
	CategoryPC     Category = "PC"
	CategoryTablet Category = "Tablet"
	CategoryDevice Category = "Device" // generic record with model + video card
)

// Categories lists every known category in distribution order.
var Categories = []Category{CategoryLaptop, CategoryPC, CategoryTablet, CategoryDevice}

// ParseCategory accepts the exact category name after trimming.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Per-category defaults applied when an optional field is left blank.
const (
	DefaultGPU           = "Integrated"
	DefaultLaptopScreen  = 15.6
	DefaultLaptopBattery = 50
	DefaultPSUWatt       = 450
	DefaultCaseFormat    = "ATX"
	DefaultTabletScreen  = 10.1
	DefaultTabletBattery = 30
)

type LaptopSpec struct {
	GPU        string  `json:"gpu"`
	ScreenInch float64 `json:"screen_inch"`
	BatteryWh  int     `json:"battery_wh"`
}

type PCSpec struct {
	GPU        string `json:"gpu"`
	PSUWatt    int    `json:"psu_watt"`
	CaseFormat string `json:"case_format"`
}

type TabletSpec struct {
	ScreenInch float64 `json:"screen_inch"`
	BatteryWh  int     `json:"battery_wh"`
}

// GenericSpec belongs to the plain Device category. Empty strings are absent values.
type GenericSpec struct {
	Model         string `json:"model,omitempty"`
	VideocardType string `json:"videocard_type,omitempty"`
}

func NewLaptopSpec() *LaptopSpec {
	return &LaptopSpec{GPU: DefaultGPU, ScreenInch: DefaultLaptopScreen, BatteryWh: DefaultLaptopBattery}
}

func NewPCSpec() *PCSpec {
	return &PCSpec{GPU: DefaultGPU, PSUWatt: DefaultPSUWatt, CaseFormat: DefaultCaseFormat}
}

func NewTabletSpec() *TabletSpec {
	return &TabletSpec{ScreenInch: DefaultTabletScreen, BatteryWh: DefaultTabletBattery}
}

// Device is one inventory record. Exactly one of the spec pointers is set and it
// must match Category.
type Device struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	CPU       string          `json:"cpu"`
	RAMGB     int             `json:"ram_gb"`
	StorageGB int             `json:"storage_gb"`
	Price     decimal.Decimal `json:"price"`
	Category  Category        `json:"category"`

	Laptop  *LaptopSpec  `json:"laptop,omitempty"`
	PC      *PCSpec      `json:"pc,omitempty"`
	Tablet  *TabletSpec  `json:"tablet,omitempty"`
	Generic *GenericSpec `json:"generic,omitempty"`
}

// New returns a record of the given category with the category defaults filled in.
func New(c Category) Device {
	d := Device{Category: c}
	switch c {
	case CategoryLaptop:
		d.Laptop = NewLaptopSpec()
	case CategoryPC:
		d.PC = NewPCSpec()
	case CategoryTablet:
		d.Tablet = NewTabletSpec()
	case CategoryDevice:
		d.Generic = &GenericSpec{}
	}
	return d
}

// Check validates the record invariants: known category, only that category's
// attributes populated, non-empty name, no negative quantities.
func (d Device) Check() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if d.RAMGB < 0 {
		return &ValidationError{Field: "ram_gb", Reason: "must not be negative"}
	}
	if d.StorageGB < 0 {
		return &ValidationError{Field: "storage_gb", Reason: "must not be negative"}
	}
	if d.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}

	set := 0
	for _, ok := range []bool{d.Laptop != nil, d.PC != nil, d.Tablet != nil, d.Generic != nil} {
		if ok {
			set++
		}
	}
	if set > 1 {
		return &ValidationError{Field: "category", Reason: "carries attributes of more than one category"}
	}

	switch d.Category {
	case CategoryLaptop:
		if set == 1 && d.Laptop == nil {
			return mismatch(d.Category)
		}
		if d.Laptop != nil && (d.Laptop.BatteryWh < 0 || d.Laptop.ScreenInch < 0) {
			return &ValidationError{Field: "laptop", Reason: "must not be negative"}
		}
	case CategoryPC:
		if set == 1 && d.PC == nil {
			return mismatch(d.Category)
		}
		if d.PC != nil && d.PC.PSUWatt < 0 {
			return &ValidationError{Field: "psu_watt", Reason: "must not be negative"}
		}
	case CategoryTablet:
		if set == 1 && d.Tablet == nil {
			return mismatch(d.Category)
		}
		if d.Tablet != nil && (d.Tablet.BatteryWh < 0 || d.Tablet.ScreenInch < 0) {
			return &ValidationError{Field: "tablet", Reason: "must not be negative"}
		}
	case CategoryDevice:
		if set == 1 && d.Generic == nil {
			return mismatch(d.Category)
		}
	default:
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown device type %q", d.Category)}
	}
	return nil
}

func mismatch(c Category) error {
	return &ValidationError{Field: "category", Reason: fmt.Sprintf("attributes do not belong to %s", c)}
}

// VideoCard returns the GPU or video card label, if the category has one.
func (d Device) VideoCard() (string, bool) {
	switch d.Category {
	case CategoryLaptop:
		if d.Laptop != nil && d.Laptop.GPU != "" {
			return d.Laptop.GPU, true
		}
	case CategoryPC:
		if d.PC != nil && d.PC.GPU != "" {
			return d.PC.GPU, true
		}
	case CategoryDevice:
		if d.Generic != nil && d.Generic.VideocardType != "" {
			return d.Generic.VideocardType, true
		}
	}
	return "", false
}

// Short is the single-line form shown in lists.
func (d Device) Short() string {
	return fmt.Sprintf("%s: %s | %s | %dGB RAM | %dGB | $%s",
		d.Category, d.Name, d.CPU, d.RAMGB, d.StorageGB, d.Price.StringFixed(2))
}

// ToMap flattens the record into its base fields plus the populated extras.
func (d Device) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"name":       d.Name,
		"cpu":        d.CPU,
		"ram_gb":     d.RAMGB,
		"storage_gb": d.StorageGB,
		"price":      d.Price.String(),
		"category":   string(d.Category),
	}
	switch d.Category {
	case CategoryLaptop:
		if s := d.Laptop; s != nil {
			m["gpu"] = s.GPU
			m["screen_inch"] = s.ScreenInch
			m["battery_wh"] = s.BatteryWh
		}
	case CategoryPC:
		if s := d.PC; s != nil {
			m["gpu"] = s.GPU
			m["psu_watt"] = s.PSUWatt
			m["case_format"] = s.CaseFormat
		}
	case CategoryTablet:
		if s := d.Tablet; s != nil {
			m["screen_inch"] = s.ScreenInch
			m["battery_wh"] = s.BatteryWh
		}
	case CategoryDevice:
		if s := d.Generic; s != nil {
			if s.Model != "" {
				m["model"] = s.Model
			}
			if s.VideocardType != "" {
				m["videocard_type"] = s.VideocardType
			}
		}
	}
	return m
}

// Extra is the first populated category attribute, used as the table's extra column.
func (d Device) Extra() string {
	switch d.Category {
	case CategoryLaptop:
		if s := d.Laptop; s != nil {
			return s.GPU
		}
	case CategoryPC:
		if s := d.PC; s != nil {
			return s.GPU
		}
	case CategoryTablet:
		if s := d.Tablet; s != nil {
			return strconv.FormatFloat(s.ScreenInch, 'f', -1, 64) + "\""
		}
	case CategoryDevice:
		if s := d.Generic; s != nil {
			if s.VideocardType != "" {
				return s.VideocardType
			}
			return s.Model
		}
	}
	return ""
}

// Clone returns a deep copy; the spec pointers are not shared.
func (d Device) Clone() Device {
	out := d
	if d.Laptop != nil {
		s := *d.Laptop
		out.Laptop = &s
	}
	if d.PC != nil {
		s := *d.PC
		out.PC = &s
	}
	if d.Tablet != nil {
		s := *d.Tablet
		out.Tablet = &s
	}
	if d.Generic != nil {
		s := *d.Generic
		out.Generic = &s
	}
	return out
}

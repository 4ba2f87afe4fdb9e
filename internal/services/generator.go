package services

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"devinv/internal/domain"
)

var (
	laptopCPUs = []string{"i5-1240P", "i7-1260P", "Ryzen 5 7640U", "Ryzen 7 7840U"}
	pcCPUs     = []string{"i3-12100F", "i5-13400F", "i7-12700", "Ryzen 5 5600", "Ryzen 7 5800X"}
	tabletCPUs = []string{"Snap 6 Gen 1", "Snap 7 Gen 1", "Apple M1", "Apple M2"}
	gpus       = []string{"Integrated", "RTX 3050", "RTX 3060", "RTX 4060"}
	cases      = []string{"ATX", "mATX", "ITX"}

	brands = []string{
		"Dell XPS", "HP Pavilion", "Lenovo ThinkPad", "ASUS VivoBook", "MacBook Pro",
		"Samsung Galaxy Tab", "iPad Air", "Surface Pro", "Razer Blade", "MSI GS66",
	}
	models     = []string{"13", "14", "15", "16", "Pro", "Max", "Plus", "Ultra", "Gaming"}
	videocards = []string{
		"NVIDIA GTX 1050", "NVIDIA RTX 3050", "NVIDIA RTX 3060", "AMD Radeon RX 5500",
		"Intel Iris Xe", "NVIDIA GTX 1080", "NVIDIA RTX 4060", "AMD Radeon RX 6600",
	}
)

// Generator synthesises plausible records. It draws only from its faker so a
// fixed seed gives a fixed batch.
type Generator struct {
	f *gofakeit.Faker
}

func NewGenerator(f *gofakeit.Faker) *Generator { return &Generator{f: f} }

// NewSeededGenerator is a convenience for deterministic batches. Seed 0 picks a
// random seed.
func NewSeededGenerator(seed uint64) *Generator { return NewGenerator(gofakeit.New(seed)) }

func pick[T any](f *gofakeit.Faker, xs []T) T { return xs[f.Number(0, len(xs)-1)] }

// price draws from [lo, hi] and rounds to cents.
func (g *Generator) price(lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(g.f.Price(lo, hi)).Round(2)
}

// Batch returns n records for every category in cats, grouped by category.
func (g *Generator) Batch(cats []domain.Category, n int) []domain.Device {
	out := make([]domain.Device, 0, n*len(cats))
	for _, c := range cats {
		for i := 0; i < n; i++ {
			out = append(out, g.One(c, i))
		}
	}
	return out
}

// One builds the i-th generated record of category c.
func (g *Generator) One(c domain.Category, i int) domain.Device {
	r := g.f
	d := domain.New(c)
	switch c {
	case domain.CategoryLaptop:
		d.Name = fmt.Sprintf("Laptop %d", i+1)
		d.CPU = pick(r, laptopCPUs)
		d.RAMGB = pick(r, []int{8, 16, 32})
		d.StorageGB = pick(r, []int{256, 512, 1000, 2000})
		d.Price = g.price(499, 1999)
		d.Laptop.GPU = pick(r, gpus)
		d.Laptop.ScreenInch = pick(r, []float64{13.3, 14.0, 15.6, 16.0})
		d.Laptop.BatteryWh = pick(r, []int{45, 58, 70, 80})
	case domain.CategoryPC:
		d.Name = fmt.Sprintf("PC %d", i+1)
		d.CPU = pick(r, pcCPUs)
		d.RAMGB = pick(r, []int{8, 16, 32, 64})
		d.StorageGB = pick(r, []int{512, 1000, 2000, 4000})
		d.Price = g.price(399, 2499)
		d.PC.GPU = pick(r, gpus)
		d.PC.PSUWatt = pick(r, []int{450, 550, 650, 750})
		d.PC.CaseFormat = pick(r, cases)
	case domain.CategoryTablet:
		d.Name = fmt.Sprintf("Tablet %d", i+1)
		d.CPU = pick(r, tabletCPUs)
		d.RAMGB = pick(r, []int{4, 6, 8, 12})
		d.StorageGB = pick(r, []int{64, 128, 256, 512})
		d.Price = g.price(199, 1299)
		d.Tablet.ScreenInch = pick(r, []float64{10.1, 10.5, 11.0, 12.9})
		d.Tablet.BatteryWh = pick(r, []int{25, 28, 32, 40})
	case domain.CategoryDevice:
		d.Name = fmt.Sprintf("%s %d", pick(r, brands), i+1)
		d.CPU = pick(r, append(append([]string{}, laptopCPUs...), pcCPUs...))
		d.RAMGB = pick(r, []int{8, 16, 32})
		d.StorageGB = pick(r, []int{256, 512, 1000})
		d.Price = g.price(500, 3000)
		d.Generic.Model = pick(r, models)
		d.Generic.VideocardType = pick(r, videocards)
	}
	return d
}

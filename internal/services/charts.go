package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"devinv/internal/domain"
)

var ErrNoData = errors.New("no devices to plot")

type ChartKind string

const (
	ChartPrices     ChartKind = "prices"
	ChartVideocards ChartKind = "videocards"
	ChartCategories ChartKind = "categories"
)

type Bar struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
	// Percent of the tallest bar, for plain HTML bars.
	Percent int `json:"percent"`
}

type Chart struct {
	Kind   ChartKind `json:"kind"`
	Title  string    `json:"title"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	Bars   []Bar     `json:"bars"`
}

// BuildChart computes the series for kind. Count charts keep the order in which
// labels first appear.
func BuildChart(kind ChartKind, devs []domain.Device) (Chart, error) {
	if len(devs) == 0 {
		return Chart{}, ErrNoData
	}
	var ch Chart
	switch kind {
	case ChartPrices:
		ch = Chart{Kind: kind, Title: "Device Prices", XLabel: "Device Name", YLabel: "Price ($)"}
		for _, d := range devs {
			ch.Bars = append(ch.Bars, Bar{Label: d.Name, Value: d.Price.Round(2)})
		}
	case ChartVideocards:
		ch = Chart{Kind: kind, Title: "Devices by Video Card Type", XLabel: "Video Card Type", YLabel: "Count"}
		ch.Bars = counts(devs, func(d domain.Device) (string, bool) { return d.VideoCard() })
		if len(ch.Bars) == 0 {
			return Chart{}, ErrNoData
		}
	case ChartCategories:
		ch = Chart{Kind: kind, Title: "Devices by Category", XLabel: "Category", YLabel: "Count"}
		ch.Bars = counts(devs, func(d domain.Device) (string, bool) { return string(d.Category), true })
	default:
		return Chart{}, fmt.Errorf("unknown chart %q", kind)
	}
	scale(ch.Bars)
	return ch, nil
}

func counts(devs []domain.Device, label func(domain.Device) (string, bool)) []Bar {
	idx := map[string]int{}
	var bars []Bar
	for _, d := range devs {
		l, ok := label(d)
		if !ok {
			continue
		}
		i, seen := idx[l]
		if !seen {
			i = len(bars)
			idx[l] = i
			bars = append(bars, Bar{Label: l})
		}
		bars[i].Value = bars[i].Value.Add(decimal.NewFromInt(1))
	}
	return bars
}

func scale(bars []Bar) {
	top := decimal.Zero
	for _, b := range bars {
		if b.Value.GreaterThan(top) {
			top = b.Value
		}
	}
	if top.IsZero() {
		return
	}
	for i := range bars {
		bars[i].Percent = int(bars[i].Value.Mul(decimal.NewFromInt(100)).Div(top).IntPart())
	}
}

package handlers

import (
	"devinv/internal/config"
	"devinv/internal/inventory"
	"devinv/internal/services"
)

type Deps struct {
	DeviceHandler *DeviceHandler
}

func NewDeps(store inventory.Store, cfg config.Config, gen *services.Generator) *Deps {
	p := services.NewPresenter(store, nil, gen)
	view := NewWebView(p.Categories()[0])
	p.View = view

	return &Deps{
		DeviceHandler: &DeviceHandler{P: p, View: view, GenerateMax: cfg.GenerateMax},
	}
}

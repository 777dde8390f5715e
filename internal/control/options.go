// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package control

// Option is a coded choice of a select input.
type Option struct {
	Value string
	Label string
}

// Options bundles every fixed choice list of the item form.
type Options struct {
	Classifiers    []string
	Subclassifiers []string
	Locations      []string
	Floors         []Option
	Priorities     []Option
	Areas          []string
}

var (
	Classifiers = []string{
		"Base de Datos", "Comunicaciones", "Contingencia", "Energía", "Infraestructura",
		"Redes", "Software", "Soluciones", "Terminales",
	}

	Subclassifiers = []string{
		"Aire Acondicionado", "Antispam", "Antivirus", "Aplicaciones", "Backups", "Correo",
		"Datos", "Estabilizador", "IPS", "Laptops", "Licencias", "Ofimática", "Seguridad",
		"Servidores", "SIG", "Switches", "UPS",
	}

	Locations = []string{"Talara", "Oquendo", "Ambas Sedes"}

	Floors = []Option{
		{Value: "0", Label: "Todos"},
		{Value: "1", Label: "Piso 1"},
		{Value: "3", Label: "Piso 3"},
		{Value: "4", Label: "Piso 4"},
	}

	Priorities = []Option{
		{Value: "1", Label: "Alta"},
		{Value: "2", Label: "Media"},
		{Value: "3", Label: "Baja"},
		{Value: "4", Label: "Rechazado"},
		{Value: "5", Label: "Ajuste"},
		{Value: "6", Label: "Stand By"},
	}

	Areas = []string{"Sistemas"}
)

// FormOptions returns the choice lists rendered by the item form.
func FormOptions() Options {
	return Options{
		Classifiers:    Classifiers,
		Subclassifiers: Subclassifiers,
		Locations:      Locations,
		Floors:         Floors,
		Priorities:     Priorities,
		Areas:          Areas,
	}
}

func labelOf(options []Option, value string) string {
	for _, option := range options {
		if option.Value == value {
			return option.Label
		}
	}
	return value
}

func values(options []Option) []string {
	codes := make([]string, len(options))
	for index, option := range options {
		codes[index] = option.Value
	}
	return codes
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import "strings"

// Category is one fixed portfolio group, addressed by its slug in URLs.
type Category struct {
	Slug        string
	Title       string
	Description string
}

// Categories are listed in display order.
var Categories = []Category{
	{
		Slug:  "cartera1",
		Title: "Cartera #1",
		Description: "Esta categoría presenta un conjunto de iniciativas orientadas a mejorar y automatizar procesos " +
			"logísticos, documentarios y de control dentro de la operación. A nivel general, los proyectos reflejan " +
			"un enfoque en la digitalización, cumplimiento normativo, trazabilidad operativa y mejoras en la " +
			"eficiencia interna, con desarrollos tanto propios como adaptados a las necesidades específicas de " +
			"clientes y normativas vigentes.",
	},
	{
		Slug:  "cartera2",
		Title: "Cartera #2",
		Description: "Esta categoría reúne iniciativas enfocadas en la mejora del control documental, automatización " +
			"de procesos aduaneros y gestión logística especializada. Se prioriza la transmisión digital a SUNAT, la " +
			"emisión de alertas, el fortalecimiento del sistema de transporte y la adaptación a cambios de " +
			"plataformas de clientes, asegurando eficiencia, trazabilidad y cumplimiento normativo de forma integrada.",
	},
	{
		Slug:  "proyectos-ti",
		Title: "Proyectos TI",
		Description: "Esta categoría agrupa iniciativas enfocadas en la mejora de la infraestructura tecnológica, " +
			"conectividad, contingencia y estandarización de sistemas. Los proyectos buscan fortalecer la " +
			"disponibilidad de servicios, asegurar continuidad operativa, elevar la seguridad de red y bases de " +
			"datos, así como normalizar estructuras y accesos para una gestión más robusta, escalable y alineada " +
			"a buenas prácticas.",
	},
	{
		Slug:  "isco-cargo",
		Title: "ISCO Cargo",
		Description: "Esta categoría reúne actividades operativas y técnicas destinadas a la implementación, " +
			"configuración y mantenimiento de sistemas administrativos, de facturación y bases de datos. Abarca " +
			"desde instalaciones en equipos individuales hasta la creación de usuarios y capacitación, buscando " +
			"garantizar la funcionalidad integral del sistema, la trazabilidad documental y la conexión efectiva " +
			"con entidades externas como SUNAT.",
	},
}

// LookupCategory finds a category by slug, case-insensitively.
func LookupCategory(slug string) (Category, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, category := range Categories {
		if category.Slug == slug {
			return category, true
		}
	}
	return Category{}, false
}

// Area is a department a project belongs to.
type Area struct {
	Code string
	Name string
}

var Areas = []Area{
	{"001", "DIRECTORIO"},
	{"002", "ADMINISTRACION"},
	{"003", "CALIDAD"},
	{"004", "SISTEMAS"},
	{"005", "OPERACIONES"},
	{"006", "SERVICIO AL CLIENTE"},
	{"008", "ARMADO"},
	{"009", "ARCHIVO"},
	{"010", "TRANSPORTE"},
	{"014", "MENSAJERIA"},
	{"015", "CONTABILIDAD"},
	{"016", "VISTO BUENO"},
	{"017", "TECNICA LEGAL"},
	{"018", "RR.HH."},
	{"019", "GERENCIA GENERAL"},
	{"023", "CATALOGO"},
	{"024", "COMERCIAL"},
	{"027", "PRODUCCION"},
	{"028", "SERVICIO AL CLIENTE"},
	{"033", "SOPORTE OPERATIVO"},
	{"036", "OPERACIONES"},
}

// AreaName returns the department name of code.
func AreaName(code string) (string, bool) {
	for _, area := range Areas {
		if area.Code == code {
			return area.Name, true
		}
	}
	return "", false
}

// Option is a coded choice of a select input.
type Option struct {
	Value string
	Label string
}

// PriorityStandBy marks a paused project.
const PriorityStandBy = "6"

var Priorities = []Option{
	{Value: "1", Label: "Alta"},
	{Value: "2", Label: "Media"},
	{Value: "3", Label: "Baja"},
	{Value: "4", Label: "Rechazado"},
	{Value: "5", Label: "Ajuste"},
	{Value: PriorityStandBy, Label: "Stand By"},
}

// Task choices.
const (
	TaskStatusPending    = "Pendiente"
	TaskStatusInProgress = "En progreso"
	TaskStatusDone       = "Completada"
)

var (
	TaskPriorities = []string{"Alta", "Media", "Baja"}
	TaskStatuses   = []string{TaskStatusPending, TaskStatusInProgress, TaskStatusDone}
)

// StatusPending is the status of a project created without one.
const StatusPending = "pendiente"

// Options bundles the fixed choice lists of the project and task forms.
type Options struct {
	Areas          []Area
	Priorities     []Option
	TaskPriorities []string
	TaskStatuses   []string
}

// FormOptions returns the choice lists rendered by the forms.
func FormOptions() Options {
	return Options{
		Areas:          Areas,
		Priorities:     Priorities,
		TaskPriorities: TaskPriorities,
		TaskStatuses:   TaskStatuses,
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

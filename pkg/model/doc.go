// Package model defines the typed form model renderers consume. Build turns
// the landing copy into a FormModel for the lead form: one Field per wire key
// in display order, with labels, placeholders, select options and the
// validation rules the lead package enforces, so renderers can map them onto
// HTML attributes or terminal prompts.
package model

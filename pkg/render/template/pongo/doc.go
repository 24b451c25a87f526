// Package pongo implements template.TemplateRenderer on top of pongo2. Data
// passed to templates goes through its JSON representation, so struct fields
// are addressed by json tag.
package pongo

package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-leadform/pkg/lead"
)

//go:embed default.yaml
var defaultContent []byte

// Default returns the embedded Spanish landing copy.
func Default() Page {
	page, err := Parse(defaultContent, "default.yaml")
	if err != nil {
		panic(fmt.Sprintf("content: embedded default is invalid: %v", err))
	}
	return page
}

// LoadFile reads a JSON or YAML content file from disk and fills missing
// sections from Default. An empty path returns Default.
func LoadFile(path string) (Page, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Page{}, fmt.Errorf("content: read %s: %w", path, err)
	}
	return overlay(data, path)
}

// LoadFS reads name from fsys like LoadFile.
func LoadFS(fsys fs.FS, name string) (Page, error) {
	if fsys == nil {
		return Default(), nil
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Page{}, fmt.Errorf("content: read %s: %w", name, err)
	}
	return overlay(data, name)
}

// Parse decodes a content document, trying JSON first and YAML second, and
// normalises it. Missing sections stay empty.
func Parse(data []byte, source string) (Page, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Page{}, fmt.Errorf("content: file %s is empty", source)
	}

	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		page = Page{}
		if err := yaml.Unmarshal(data, &page); err != nil {
			return Page{}, fmt.Errorf("content: parse %s: invalid JSON or YAML", source)
		}
	}
	return normalise(page, source)
}

func overlay(data []byte, source string) (Page, error) {
	page, err := Parse(data, source)
	if err != nil {
		return Page{}, err
	}
	return page.WithDefaults(Default()), nil
}

// WithDefaults fills every empty section of p from def. Field copy is merged
// per wire key.
func (p Page) WithDefaults(def Page) Page {
	if p.Locale == "" {
		p.Locale = def.Locale
	}
	if p.Title == "" {
		p.Title = def.Title
	}
	if p.Brand == (Brand{}) {
		p.Brand = def.Brand
	}
	if p.Hero.Title == "" && len(p.Hero.Reasons) == 0 {
		p.Hero = def.Hero
	}
	if p.Form.Title == "" {
		p.Form.Title = def.Form.Title
		if p.Form.Subtitle == "" {
			p.Form.Subtitle = def.Form.Subtitle
		}
	}
	if p.Form.Submit.Idle == "" {
		p.Form.Submit.Idle = def.Form.Submit.Idle
	}
	if p.Form.Submit.Submitting == "" {
		p.Form.Submit.Submitting = def.Form.Submit.Submitting
	}
	fields := make(map[string]FieldCopy, len(def.Form.Fields))
	for key, fc := range def.Form.Fields {
		fields[key] = fc
	}
	for key, fc := range p.Form.Fields {
		fields[key] = fc
	}
	p.Form.Fields = fields
	if len(p.Benefits.Cards) == 0 {
		p.Benefits = def.Benefits
	}
	if len(p.Trust.Stats) == 0 && len(p.Trust.Insurers) == 0 {
		p.Trust = def.Trust
	}
	if p.CTA == (CTA{}) {
		p.CTA = def.CTA
	}
	return p
}

func normalise(page Page, source string) (Page, error) {
	page.Locale = strings.TrimSpace(page.Locale)
	page.Title = strings.TrimSpace(page.Title)

	if len(page.Form.Fields) > 0 {
		fields := make(map[string]FieldCopy, len(page.Form.Fields))
		for key, fc := range page.Form.Fields {
			field, err := lead.ParseField(key)
			if err != nil {
				return Page{}, fmt.Errorf("content: file %s: form field %q: %w", source, key, err)
			}
			fc.Label = strings.TrimSpace(fc.Label)
			fc.Placeholder = strings.TrimSpace(fc.Placeholder)
			if len(fc.Options) > 0 && !field.Enumerated() {
				return Page{}, fmt.Errorf("content: file %s: field %q does not take options", source, key)
			}
			for idx, opt := range fc.Options {
				if strings.TrimSpace(opt.Value) == "" {
					return Page{}, fmt.Errorf("content: file %s: field %q option %d has an empty value", source, key, idx)
				}
			}
			fields[field.String()] = fc
		}
		page.Form.Fields = fields
	}

	cards := page.Benefits.Cards[:0:0]
	for _, card := range page.Benefits.Cards {
		card.Icon = SanitizeIcon(card.Icon)
		card.Title = strings.TrimSpace(card.Title)
		card.Description = strings.TrimSpace(card.Description)
		cards = append(cards, card)
	}
	page.Benefits.Cards = cards

	if page.CTA.Anchor != "" && !strings.HasPrefix(page.CTA.Anchor, "#") {
		page.CTA.Anchor = "#" + page.CTA.Anchor
	}
	return page, nil
}

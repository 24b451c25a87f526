package render

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

const (
	// DefaultThemeName is the brand theme shipped with the landing page.
	DefaultThemeName = "leadform"
	// StylesheetAsset is the asset key renderers link as the page stylesheet.
	StylesheetAsset = "stylesheet"

	// Partial keys name the templates a theme may override.
	PagePartial   = "leadform.page"
	InputPartial  = "leadform.input"
	SelectPartial = "leadform.select"
)

// DefaultManifest returns the brand palette: gold, navy and slate, plus a dark
// variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand-gold":  "#C9A15A",
			"brand-navy":  "#2D4765",
			"brand-slate": "#727376",
			"surface":     "#ffffff",
			"surface-alt": "#f3f4f6",
			"text":        "#2D4765",
			"error":       "#ef4444",
			"success":     "#16a34a",
		},
		Templates: map[string]string{
			PagePartial:   "templates/page.tmpl",
			InputPartial:  "templates/components/input.tmpl",
			SelectPartial: "templates/components/select.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				StylesheetAsset: "leadform.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"surface":     "#0f1b2b",
					"surface-alt": "#16263a",
					"text":        "#f5f1e8",
				},
			},
		},
	}
}

// ThemeSet resolves theme and variant names into renderer configuration. It
// satisfies theme.ThemeSelector.
type ThemeSet struct {
	mu          sync.RWMutex
	provider    theme.ThemeProvider
	manifests   map[string]*theme.Manifest
	defaultName string
}

var _ theme.ThemeSelector = (*ThemeSet)(nil)

// NewThemeSet registers manifests. The first manifest becomes the default;
// with no manifests DefaultManifest is used.
func NewThemeSet(manifests ...*theme.Manifest) (*ThemeSet, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}
	registry := theme.NewRegistry()
	set := &ThemeSet{
		provider:  registry,
		manifests: make(map[string]*theme.Manifest, len(manifests)),
	}
	for _, manifest := range manifests {
		if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
			return nil, fmt.Errorf("render: theme manifest name is required")
		}
		if _, exists := set.manifests[manifest.Name]; exists {
			return nil, fmt.Errorf("render: theme %q already registered", manifest.Name)
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
		}
		set.manifests[manifest.Name] = manifest
		if set.defaultName == "" {
			set.defaultName = manifest.Name
		}
	}
	return set, nil
}

// Provider exposes the underlying go-theme registry.
func (s *ThemeSet) Provider() theme.ThemeProvider {
	return s.provider
}

// Variants lists the variant names of a theme, sorted.
func (s *ThemeSet) Variants(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	manifest := s.manifests[s.resolveName(name)]
	if manifest == nil {
		return nil
	}
	out := make([]string, 0, len(manifest.Variants))
	for variant := range manifest.Variants {
		out = append(out, variant)
	}
	sort.Strings(out)
	return out
}

// Select resolves a theme selection. Empty names use the default theme; an
// empty variant selects the base tokens.
func (s *ThemeSet) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = s.resolveName(name)
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	variant = strings.TrimSpace(variant)
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Config resolves name and variant into the configuration renderers consume.
func (s *ThemeSet) Config(name, variant string) (*theme.RendererConfig, error) {
	selection, err := s.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return RendererConfig(selection), nil
}

func (s *ThemeSet) resolveName(name string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return s.defaultName
}

// RendererConfig merges a selection's variant over its base manifest and
// derives CSS custom properties ("--token") from the merged tokens.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, variant.Tokens)
	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}
	files := mergeStrings(manifest.Assets.Files, variant.Assets.Files)

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: mergeStrings(manifest.Templates, variant.Templates),
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join("/", prefix, file)
		},
	}
}

// CSSVarsStyle renders CSS custom properties as a sorted declaration list
// suitable for a style attribute.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

func mergeStrings(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}

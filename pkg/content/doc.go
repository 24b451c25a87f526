// Package content loads the landing page copy: brand, hero, form labels,
// benefit cards, trust figures and the closing call to action. The Spanish
// copy ships embedded; JSON or YAML files can override any section.
package content

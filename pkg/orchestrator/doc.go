// Package orchestrator wires the landing page pipeline: page copy, form model,
// decorators, theme selection and renderer.
package orchestrator

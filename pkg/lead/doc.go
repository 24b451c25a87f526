// Package lead holds the lead-capture form domain: the seven-field FormState,
// the per-field validation rules, the pure submission reducer, and the
// Controller that drives a submission through an Intake.
//
// The Controller never touches HTTP or templates. Renderers and transports
// read State snapshots and feed FieldUpdated values back in.
package lead

// Package intake provides the backends that receive validated leads: a
// simulated intake that only waits, a buntdb-backed store, and a remote HTTP
// forwarder. Every backend satisfies lead.Intake and honours context
// cancellation.
package intake

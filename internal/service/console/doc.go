// Package console wires the security controller together and executes
// operator commands against it.
//
// A Session loads settings, opens the configured state store, builds the
// classifier, the alarm engine and its listeners. Commands arrive either one
// at a time from the CLI or as a script, one command per line; a script keeps
// the camera result in memory between commands.
package console

// Package state implements persistence for the security system state.
//
// A Repository holds the arming status, the alarm status and the registered
// sensors. MemoryRepository keeps them in memory, FileRepository snapshots
// them to a YAML document and SQLiteRepository stores them in SQLite.
package state

// Package session owns the per-user ticker and probe instances. A session is
// opened at login and closed at logout; the ticker's state is saved to a
// store.SnapshotStore on close and restored on the next open.
package session

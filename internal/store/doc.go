// Package store defines the persistence boundary for per-user session state.
// Session state lives outside the components that produce it so a user who
// logs out and back in resumes where they left off.
package store

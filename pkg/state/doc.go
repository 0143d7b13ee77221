// Package state persists the follower's read position for crash recovery.
//
// When following a span file, traceship records the byte offset up to
// which records were successfully shipped. After a restart, following
// resumes from that offset instead of re-shipping the whole file.
//
// # Usage
//
//	repo := state.NewFileRepository(stateDir)
//	st, err := repo.Load(ctx)
//	...
//	st.UpdateAfterShip(path, offset)
//	err = repo.Save(ctx, st)
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package state

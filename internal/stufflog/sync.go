// ABOUTME: Sync gate deciding when reads pull and writes push.
// ABOUTME: Version-control failures are logged and never abort a command.
package stufflog

import (
	"context"
)

// VCS is the version-control collaborator used to synchronize the storage
// directory with a remote.
type VCS interface {
	HasRemotes(ctx context.Context) bool
	Init(ctx context.Context) error
	Pull(ctx context.Context) error
	Push(ctx context.Context) error
	SetupRemote(ctx context.Context, url, name string) error
}

// beforeRead pulls remote changes when a remote is configured.
func (a *App) beforeRead(ctx context.Context) {
	if !a.autoSync || !a.vcs.HasRemotes(ctx) {
		return
	}
	if err := a.vcs.Pull(ctx); err != nil {
		a.logger.Warn("git pull failed, continuing with local data", "error", err)
	}
}

// afterWrite pushes local changes when a remote is configured.
func (a *App) afterWrite(ctx context.Context) {
	if !a.autoSync || !a.vcs.HasRemotes(ctx) {
		return
	}
	if err := a.vcs.Push(ctx); err != nil {
		a.logger.Warn("git push failed, changes are saved locally", "error", err)
	}
}

// afterInit makes sure the storage directory is a repository.
func (a *App) afterInit(ctx context.Context) {
	if err := a.vcs.Init(ctx); err != nil {
		a.logger.Warn("git init failed", "error", err)
	}
}

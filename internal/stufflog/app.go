// ABOUTME: Core stufflog service combining the entry store and the sync gate.
// ABOUTME: Implements init, add, delete, and the shared read path for queries.
package stufflog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/2389-research/stufflog/internal/models"
	"github.com/2389-research/stufflog/internal/storage"
)

// Version is the stufflog release version.
const Version = "0.1.0"

// App runs stufflog operations for one command invocation.
type App struct {
	store    storage.Store
	vcs      VCS
	logger   *slog.Logger
	now      func() time.Time
	autoSync bool
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used for sync and storage diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp new entries.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithAutoSync enables or disables pull-before-read and push-after-write.
func WithAutoSync(enabled bool) Option {
	return func(a *App) {
		a.autoSync = enabled
	}
}

// New creates an App over the given store and version-control collaborator.
func New(store storage.Store, vcs VCS, opts ...Option) (*App, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if vcs == nil {
		return nil, fmt.Errorf("version control is required")
	}

	a := &App{
		store:    store,
		vcs:      vcs,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		autoSync: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Dir returns the storage directory.
func (a *App) Dir() string {
	return a.store.Dir()
}

// Init creates an empty stufflog for a new category.
func (a *App) Init(ctx context.Context, category string) error {
	if err := checkCategory(category); err != nil {
		return err
	}
	if a.store.Exists(category) {
		return Conflict("Stufflog for category '%s' already exists.", category)
	}

	if err := a.save(ctx, category, models.New()); err != nil {
		return err
	}
	a.afterInit(ctx)
	return nil
}

// Add appends a new entry stamped with the current time.
func (a *App) Add(ctx context.Context, category, title string, rating int, comment string) (models.Entry, error) {
	if title == "" {
		return models.Entry{}, Malformed(nil, "Entry title cannot be empty.")
	}

	sl, err := a.open(ctx, category)
	if err != nil {
		return models.Entry{}, err
	}
	if sl.Has(title) {
		return models.Entry{}, Conflict("Entry titled '%s' already exists in %s stufflog.", title, category)
	}

	entry := models.NewEntry(title, rating, comment, a.now())
	if err := sl.Add(entry); err != nil {
		return models.Entry{}, Internal(err, "Error adding entry: %v", err)
	}
	if err := a.save(ctx, category, sl); err != nil {
		return models.Entry{}, err
	}
	return entry, nil
}

// Delete removes the entry with the given title.
func (a *App) Delete(ctx context.Context, category, title string) error {
	sl, err := a.open(ctx, category)
	if err != nil {
		return err
	}
	if !sl.Remove(title) {
		return NotFound("No entry titled '%s' found in %s stufflog.", title, category)
	}
	return a.save(ctx, category, sl)
}

// All returns every entry of a category in stored order.
func (a *App) All(ctx context.Context, category string) ([]models.Entry, error) {
	sl, err := a.open(ctx, category)
	if err != nil {
		return nil, err
	}
	results := make([]models.Entry, 0, sl.Len())
	results = append(results, sl.Entries...)
	return results, nil
}

// Categories lists the initialized categories.
func (a *App) Categories(ctx context.Context) ([]string, error) {
	a.beforeRead(ctx)
	names, err := a.store.List()
	if err != nil {
		return nil, Internal(err, "Error listing stufflogs: %v", err)
	}
	return names, nil
}

// InitRepo initializes version control in the storage directory.
func (a *App) InitRepo(ctx context.Context) error {
	return a.vcs.Init(ctx)
}

// SetupRemote adds a remote for synchronization. The name defaults to origin.
func (a *App) SetupRemote(ctx context.Context, url, name string) error {
	if url == "" {
		return Malformed(nil, "Remote URL cannot be empty.")
	}
	if name == "" {
		name = "origin"
	}
	return a.vcs.SetupRemote(ctx, url, name)
}

// open is the read path shared by every command that needs existing data.
func (a *App) open(ctx context.Context, category string) (*models.Stufflog, error) {
	if err := checkCategory(category); err != nil {
		return nil, err
	}
	a.beforeRead(ctx)

	if !a.store.Exists(category) {
		return nil, NotFound("No stufflog found for category '%s'. Use 'stufflog %s init' to create one.",
			category, category)
	}
	sl, err := a.store.Load(category)
	if err != nil {
		return nil, Internal(err, "Error loading stufflog: %v", err)
	}
	return sl, nil
}

func (a *App) save(ctx context.Context, category string, sl *models.Stufflog) error {
	if err := a.store.Save(category, sl); err != nil {
		return Internal(err, "Error saving stufflog: %v", err)
	}
	a.afterWrite(ctx)
	return nil
}

func checkCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return Malformed(nil, "Category is required for this command.")
	}
	return nil
}

// Package core is the shared state of the backend: one explicitly
// constructed object owning the authentication sessions and the
// device offline-configuration export pipeline. A single coarse mutex
// serializes every mutating operation end to end; operations run to
// completion and never call back into the core while holding it.
package core

import (
	"sync"

	"github.com/netgrid/backend/internal/model"
)

// UserRepository is the narrow surface of the on-disk user store.
type UserRepository interface {
	LoadAll() ([]model.User, error)
	Save(user model.User) (model.User, error)
	Delete(id int, username string) error
	EnsureBuiltins() error
}

// ProjectRepository resolves live projects and frozen design
// baselines. Snapshots returned from it are read-only for the duration
// of one export run.
type ProjectRepository interface {
	GetProject(id int) (*model.Project, error)
	GetDesignBaselineProject(projectID, baselineID int) (*model.Project, error)
}

// OfflineConfigBuilder produces per-device configuration artifacts in
// the scratch directory. Format and content are its concern, not the
// core's.
type OfflineConfigBuilder interface {
	GenerateOfflineConfig(project *model.Project, deviceID int) (string, error)
	SaveToScratch(deviceIDs []int) error
	ClearStore()
}

type Options struct {
	JWTSecret          string
	HardTimeoutMinutes int
	ScratchDir         string
}

// Core holds the token store, the collaborator handles, and the one
// process-wide lock.
type Core struct {
	mu sync.Mutex

	tokens   *TokenStore
	users    UserRepository
	projects ProjectRepository
	builder  OfflineConfigBuilder

	scratchDir     string
	hardTimeoutMin int

	// cliToken is the single-slot session for non-interactive tooling
	// callers. Empty means no CLI login has happened.
	cliToken string

	// fileMap is the per-export device cross-reference table. Rebuilt
	// from scratch on every generation batch.
	fileMap model.DeviceFileMap
}

func New(users UserRepository, projects ProjectRepository, builder OfflineConfigBuilder, opts Options) *Core {
	return &Core{
		tokens:         NewTokenStore(opts.JWTSecret),
		users:          users,
		projects:       projects,
		builder:        builder,
		scratchDir:     opts.ScratchDir,
		hardTimeoutMin: opts.HardTimeoutMinutes,
		fileMap:        make(model.DeviceFileMap),
	}
}

// Tokens exposes the token store for the periodic sweep scheduler and
// for tests. Callers outside the core must go through Core methods for
// anything mutating.
func (c *Core) Tokens() *TokenStore {
	return c.tokens
}

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/netgrid/backend/internal/model"
)

var ErrProjectNotFound = errors.New("project not found")

const baselineSubdir = "baselines"

// ProjectStore persists projects as <id>.json under the project-db
// directory. Design baselines are frozen snapshots kept under
// baselines/<projectID>_<baselineID>.json.
type ProjectStore struct {
	dir string
}

func NewProjectStore(dir string) (*ProjectStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, baselineSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("create project db dir: %w", err)
	}
	return &ProjectStore{dir: dir}, nil
}

func (s *ProjectStore) GetProject(id int) (*model.Project, error) {
	return s.readFile(filepath.Join(s.dir, fmt.Sprintf("%d.json", id)))
}

func (s *ProjectStore) GetDesignBaselineProject(projectID, baselineID int) (*model.Project, error) {
	path := filepath.Join(s.dir, baselineSubdir, fmt.Sprintf("%d_%d.json", projectID, baselineID))
	return s.readFile(path)
}

func (s *ProjectStore) SaveProject(project *model.Project) error {
	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%d.json", project.ID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	return nil
}

// SaveDesignBaseline freezes the given snapshot under the baseline id.
func (s *ProjectStore) SaveDesignBaseline(project *model.Project, baselineID int) error {
	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, baselineSubdir, fmt.Sprintf("%d_%d.json", project.ID, baselineID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write baseline file: %w", err)
	}
	return nil
}

func (s *ProjectStore) readFile(path string) (*model.Project, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}
	var project model.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("decode project file %s: %w", filepath.Base(path), err)
	}
	return &project, nil
}

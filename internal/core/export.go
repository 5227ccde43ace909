package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/netgrid/backend/internal/archive"
	"github.com/netgrid/backend/internal/model"
)

const exportIndexFile = "files.json"

// GenerateDeviceIniConfigZipFile runs the full export pipeline for the
// live project: resolve deployable devices, clear scratch, generate one
// artifact per device, verify completeness, pack the scratch directory
// into a single archive. Returns the archive name and bytes.
func (c *Core) GenerateDeviceIniConfigZipFile(projectID int) (string, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	project, err := c.projects.GetProject(projectID)
	if err != nil {
		return "", nil, notFound("project", fmt.Sprintf("%d", projectID))
	}

	resolved, err := resolveDevices(project, nil)
	if err != nil {
		return "", nil, err
	}
	if err := c.runGeneration(project, resolved); err != nil {
		return "", nil, err
	}
	if err := c.builder.SaveToScratch(resolved); err != nil {
		return "", nil, internal("pack device configs", err)
	}

	data, err := archive.Zip(c.scratchDir)
	if err != nil {
		return "", nil, internal("pack export archive", err)
	}
	name := fmt.Sprintf("project_%d_config_%s.zip", projectID, time.Now().UTC().Format("20060102T150405Z"))
	return name, data, nil
}

// GenerateDesignBaselineDeployDeviceIniConfigFile generates artifacts
// for the requested devices of a design baseline snapshot and returns
// the device file map. No archive is produced.
func (c *Core) GenerateDesignBaselineDeployDeviceIniConfigFile(projectID, baselineID int, deviceIDs []int) (model.DeviceFileMap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	project, err := c.projects.GetDesignBaselineProject(projectID, baselineID)
	if err != nil {
		return nil, notFound("design baseline", fmt.Sprintf("%d/%d", projectID, baselineID))
	}

	resolved, err := resolveDevices(project, deviceIDs)
	if err != nil {
		return nil, err
	}
	if err := c.runGeneration(project, resolved); err != nil {
		return nil, err
	}
	return c.snapshotFileMap(), nil
}

// ExportAndUnzipConfigFile is the inverse flow: unpack a previously
// produced root archive into the scratch directory, read the
// files.json index, extract the sub-archive of every requested device
// and register the resulting artifact paths keyed by device id. An
// empty deviceIDs takes every indexed device that exists in the
// project snapshot.
func (c *Core) ExportAndUnzipConfigFile(project *model.Project, archivePath string, deviceIDs []int) (model.DeviceFileMap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.clearScratch(); err != nil {
		return nil, err
	}
	if _, err := archive.Unzip(archivePath, c.scratchDir); err != nil {
		return nil, notFound("file", filepath.Base(archivePath))
	}

	records, err := readExportIndex(filepath.Join(c.scratchDir, exportIndexFile))
	if err != nil {
		return nil, err
	}

	requested := make(map[int]bool, len(deviceIDs))
	for _, id := range deviceIDs {
		requested[id] = true
	}

	c.fileMap = make(model.DeviceFileMap)
	for _, record := range records {
		deviceID := record.Properties.DeviceID
		if len(deviceIDs) > 0 && !requested[deviceID] {
			continue
		}
		if project.GetDeviceByID(deviceID) == nil {
			continue
		}
		subArchive := filepath.Join(c.scratchDir, record.Path)
		destDir := filepath.Join(c.scratchDir, fmt.Sprintf("device_%d", deviceID))
		extracted, err := archive.Unzip(subArchive, destDir)
		if err != nil {
			return nil, internal(fmt.Sprintf("unpack config for device %d", deviceID), err)
		}
		if len(extracted) == 0 {
			return nil, notFound("file", record.Name)
		}
		c.fileMap[deviceID] = extracted[0]
	}
	return c.snapshotFileMap(), nil
}

// runGeneration is steps 2–4 of the pipeline: clear scratch, generate,
// verify completeness in resolved order. Requires c.mu held.
func (c *Core) runGeneration(project *model.Project, resolved []int) error {
	if err := c.clearScratch(); err != nil {
		return err
	}
	if _, err := c.generateMany(project, resolved); err != nil {
		return err
	}
	for _, id := range resolved {
		if c.fileMap[id] == "" {
			device := project.GetDeviceByID(id)
			address := fmt.Sprintf("%d", id)
			if device != nil {
				address = device.Address
			}
			return notFound(fmt.Sprintf("Device(%s)", address), "configfile")
		}
	}
	return nil
}

// clearScratch empties the export working directory. Requires c.mu
// held; failure is fatal to the run.
func (c *Core) clearScratch() error {
	if err := os.MkdirAll(c.scratchDir, 0o755); err != nil {
		return internal("create scratch dir", err)
	}
	entries, err := os.ReadDir(c.scratchDir)
	if err != nil {
		return internal("read scratch dir", err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(c.scratchDir, entry.Name())); err != nil {
			return internal("clear scratch dir", err)
		}
	}
	return nil
}

func (c *Core) snapshotFileMap() model.DeviceFileMap {
	out := make(model.DeviceFileMap, len(c.fileMap))
	for id, ref := range c.fileMap {
		out[id] = ref
	}
	return out
}

// resolveDevices intersects the caller's device list with the
// project's deployable predicate, preserving input order. A nil or
// empty list takes every deployable device in project order.
func resolveDevices(project *model.Project, deviceIDs []int) ([]int, error) {
	var resolved []int
	if len(deviceIDs) == 0 {
		resolved = project.DeployableDeviceIDs()
	} else {
		for _, id := range deviceIDs {
			if project.IsDeployable(id) {
				resolved = append(resolved, id)
			}
		}
	}
	if len(resolved) == 0 {
		return nil, badRequest("no devices eligible for export")
	}
	return resolved, nil
}

// readExportIndex parses files.json. Anything other than a JSON array
// of file records is a bad request.
func readExportIndex(path string) ([]model.ExportFileRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, notFound("file", exportIndexFile)
	}
	var records []model.ExportFileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, badRequest("malformed " + exportIndexFile)
	}
	return records, nil
}

// Package offline builds per-device offline configuration artifacts
// inside the export scratch directory.
package offline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/netgrid/backend/internal/archive"
	"github.com/netgrid/backend/internal/model"
)

const (
	indexFileName = "files.json"
	originOffline = "offline-config"
)

// Builder writes one INI artifact per device and, once a batch is
// complete, packs each artifact into its own sub-archive next to a
// files.json index describing the batch. Builder keeps a per-batch
// record of what it generated; ClearStore resets it.
type Builder struct {
	scratchDir string
	generated  map[int]generatedFile
}

type generatedFile struct {
	deviceID int
	address  string
	iniPath  string
}

func NewBuilder(scratchDir string) *Builder {
	return &Builder{
		scratchDir: scratchDir,
		generated:  make(map[int]generatedFile),
	}
}

// GenerateOfflineConfig renders the device's offline configuration into
// <address>.ini under the scratch directory and returns the file path.
func (b *Builder) GenerateOfflineConfig(project *model.Project, deviceID int) (string, error) {
	device := project.GetDeviceByID(deviceID)
	if device == nil {
		return "", fmt.Errorf("device %d not in project %d", deviceID, project.ID)
	}

	path := filepath.Join(b.scratchDir, device.Address+".ini")
	content := renderINI(project, device)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write config for device %s: %w", device.Address, err)
	}

	b.generated[deviceID] = generatedFile{deviceID: deviceID, address: device.Address, iniPath: path}
	return path, nil
}

// SaveToScratch packs the artifact of every listed device into a
// per-device sub-archive and writes the files.json index. The raw INI
// files are removed afterwards so the scratch directory holds exactly
// the sub-archives plus the index.
func (b *Builder) SaveToScratch(deviceIDs []int) error {
	now := time.Now().UTC().Format(time.RFC3339)
	records := make([]model.ExportFileRecord, 0, len(deviceIDs))

	for _, id := range deviceIDs {
		gen, ok := b.generated[id]
		if !ok {
			return fmt.Errorf("no generated config for device %d", id)
		}
		zipName := gen.address + ".zip"
		zipPath := filepath.Join(b.scratchDir, zipName)
		if err := archive.ZipFiles(zipPath, gen.iniPath); err != nil {
			return fmt.Errorf("pack config for device %s: %w", gen.address, err)
		}
		info, err := os.Stat(zipPath)
		if err != nil {
			return err
		}
		records = append(records, model.ExportFileRecord{
			ID:   uuid.NewString(),
			Name: zipName,
			Size: info.Size(),
			Path: zipName,
			Properties: model.ExportFileProperties{
				DeviceID: gen.deviceID,
				Origin:   originOffline,
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err := os.Remove(gen.iniPath); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	indexPath := filepath.Join(b.scratchDir, indexFileName)
	if err := os.WriteFile(indexPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", indexFileName, err)
	}
	return nil
}

// ClearStore drops the per-batch generation record. Scratch files are
// untouched; clearing the directory is the orchestrator's job.
func (b *Builder) ClearStore() {
	b.generated = make(map[int]generatedFile)
}

func renderINI(project *model.Project, device *model.Device) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[device]\n")
	fmt.Fprintf(&sb, "id=%d\n", device.ID)
	fmt.Fprintf(&sb, "address=%s\n", device.Address)
	fmt.Fprintf(&sb, "model=%s\n", device.Model)
	fmt.Fprintf(&sb, "firmware=%s\n", device.Firmware)
	fmt.Fprintf(&sb, "project=%d\n", project.ID)

	for _, ref := range device.VLANRefs {
		for _, vlan := range project.VLANs {
			if vlan.ID == ref {
				fmt.Fprintf(&sb, "\n[vlan:%d]\nname=%s\n", vlan.ID, vlan.Name)
			}
		}
	}
	return sb.String()
}

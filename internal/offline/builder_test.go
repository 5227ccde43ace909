package offline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netgrid/backend/internal/model"
)

func testProject() *model.Project {
	return &model.Project{
		ID:   7,
		Name: "line-3",
		Devices: []model.Device{
			{ID: 1, Address: "192.168.1.10", Model: "EDS-408A", Firmware: "3.8", Deployable: true, VLANRefs: []int{10}},
			{ID: 2, Address: "192.168.1.11", Model: "EDS-510E", Firmware: "5.1", Deployable: true},
		},
		VLANs: []model.VLAN{{ID: 10, Name: "scada"}},
	}
}

func TestGenerateOfflineConfig(t *testing.T) {
	scratch := t.TempDir()
	b := NewBuilder(scratch)
	project := testProject()

	path, err := b.GenerateOfflineConfig(project, 1)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(scratch, "192.168.1.10.ini"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "address=192.168.1.10")
	assert.Contains(t, string(content), "[vlan:10]")
	assert.Contains(t, string(content), "name=scada")

	_, err = b.GenerateOfflineConfig(project, 99)
	assert.Error(t, err)
}

func TestSaveToScratchWritesIndex(t *testing.T) {
	scratch := t.TempDir()
	b := NewBuilder(scratch)
	project := testProject()

	for _, id := range []int{1, 2} {
		_, err := b.GenerateOfflineConfig(project, id)
		require.NoError(t, err)
	}
	require.NoError(t, b.SaveToScratch([]int{1, 2}))

	// Sub-archives replace the raw INI files.
	_, err := os.Stat(filepath.Join(scratch, "192.168.1.10.zip"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(scratch, "192.168.1.10.ini"))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(scratch, "files.json"))
	require.NoError(t, err)
	var records []model.ExportFileRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Properties.DeviceID)
	assert.Equal(t, "192.168.1.10.zip", records[0].Path)
	assert.NotEmpty(t, records[0].ID)
	assert.Positive(t, records[0].Size)
	assert.Equal(t, "offline-config", records[0].Properties.Origin)
}

func TestSaveToScratchUnknownDevice(t *testing.T) {
	b := NewBuilder(t.TempDir())
	assert.Error(t, b.SaveToScratch([]int{5}))
}

func TestClearStoreForgetsBatch(t *testing.T) {
	scratch := t.TempDir()
	b := NewBuilder(scratch)
	project := testProject()

	_, err := b.GenerateOfflineConfig(project, 1)
	require.NoError(t, err)
	b.ClearStore()

	// The file is still on disk but the batch record is gone.
	_, err = os.Stat(filepath.Join(scratch, "192.168.1.10.ini"))
	assert.NoError(t, err)
	assert.Error(t, b.SaveToScratch([]int{1}))
}

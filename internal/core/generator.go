package core

import (
	"fmt"

	"github.com/netgrid/backend/internal/model"
)

// generateOne produces the offline-config artifact for one device and
// records it in the per-export file map. Requires c.mu held.
func (c *Core) generateOne(project *model.Project, deviceID int) (string, error) {
	device := project.GetDeviceByID(deviceID)
	if device == nil {
		return "", notFound("device", fmt.Sprintf("%d", deviceID))
	}
	ref, err := c.builder.GenerateOfflineConfig(project, deviceID)
	if err != nil {
		return "", internal(fmt.Sprintf("generate config for device %s", device.Address), err)
	}
	c.fileMap[deviceID] = ref
	return ref, nil
}

// generateMany rebuilds the device file map for the given batch, in
// input order. The first failure aborts the batch; a partially filled
// map is never reported as success. Requires c.mu held.
func (c *Core) generateMany(project *model.Project, deviceIDs []int) (model.DeviceFileMap, error) {
	c.fileMap = make(model.DeviceFileMap)
	c.builder.ClearStore()

	for _, id := range deviceIDs {
		if _, err := c.generateOne(project, id); err != nil {
			return nil, err
		}
	}

	out := make(model.DeviceFileMap, len(c.fileMap))
	for id, ref := range c.fileMap {
		out[id] = ref
	}
	return out, nil
}

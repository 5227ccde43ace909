package model

// Device is one managed network device inside a project snapshot.
type Device struct {
	ID         int    `json:"id"`
	Address    string `json:"address"`
	Model      string `json:"model"`
	Firmware   string `json:"firmware"`
	Deployable bool   `json:"deployable"`
	VLANRefs   []int  `json:"vlanRefs,omitempty"`
}

type VLAN struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Project is a read-only snapshot for the duration of one export run.
// The core never mutates it.
type Project struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Devices []Device `json:"devices"`
	VLANs   []VLAN   `json:"vlans,omitempty"`
}

// GetDeviceByID returns the device with the given id, or nil.
func (p *Project) GetDeviceByID(id int) *Device {
	for i := range p.Devices {
		if p.Devices[i].ID == id {
			return &p.Devices[i]
		}
	}
	return nil
}

// DeployableDeviceIDs returns the ids of all devices eligible for
// configuration export, in project order.
func (p *Project) DeployableDeviceIDs() []int {
	ids := make([]int, 0, len(p.Devices))
	for _, d := range p.Devices {
		if d.Deployable {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// IsDeployable reports whether the device with the given id exists and
// is eligible for export.
func (p *Project) IsDeployable(id int) bool {
	d := p.GetDeviceByID(id)
	return d != nil && d.Deployable
}

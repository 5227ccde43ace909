package model

// ExportFileProperties ties an export index entry to the device whose
// configuration it carries.
type ExportFileProperties struct {
	DeviceID int    `json:"deviceID"`
	Origin   string `json:"origin"`
}

// ExportFileRecord is one entry of the files.json index written next to
// the per-device sub-archives inside an export archive.
type ExportFileRecord struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Size       int64                `json:"size"`
	Path       string               `json:"path"`
	Properties ExportFileProperties `json:"properties"`
	CreatedAt  string               `json:"created_at"`
	UpdatedAt  string               `json:"updated_at"`
}

// DeviceFileMap maps a device id to the artifact generated for it
// during one export or import run.
type DeviceFileMap map[int]string

type ExportResponse struct {
	FileName string `json:"fileName"`
	// Content carries the archive bytes base64-encoded.
	Content string `json:"content"`
}

type ImportResponse struct {
	Files map[int]string `json:"files"`
}

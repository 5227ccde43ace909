package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}

type VerifyResponse struct {
	Role Role `json:"role"`
}

type RenewResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

type CreateUserRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Role     Role     `json:"role"`
	Profiles []string `json:"profiles"`
}

type ChangePasswordRequest struct {
	Password string `json:"password"`
}

type SetRoleRequest struct {
	Role Role `json:"role"`
}

type SetProfilesRequest struct {
	Profiles []string `json:"profiles"`
}

type ExportRequest struct {
	DeviceIDs []int `json:"deviceIds,omitempty"`
}

type ImportRequest struct {
	// ArchivePath points at a previously exported root archive on the
	// server filesystem.
	ArchivePath string `json:"archivePath"`
	DeviceIDs   []int  `json:"deviceIds,omitempty"`
}

package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type AuthLogoutResponse struct {
	Status string `json:"status"`
}

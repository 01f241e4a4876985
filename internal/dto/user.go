package dto

type RegisterUserRequest struct {
	DisplayName string `json:"displayName"`
}

type UpdateUserRequest struct {
	DisplayName string `json:"displayName"`
}

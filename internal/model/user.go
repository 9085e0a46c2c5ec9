package model

type InitUserRequest struct{}

type InitUserResponse struct {
	Created bool `json:"created"`
}

type GetUserRequest struct{}

type GetUserResponse User

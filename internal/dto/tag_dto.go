package dto

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type CreateTagResponse struct {
	Name    string `json:"name"`
	Created bool   `json:"created"`
}

package models

type ReviewResponse struct {
	Feedback string `json:"feedback"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

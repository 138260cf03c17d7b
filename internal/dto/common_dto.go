package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// RedirectResponse tells the client which screen to show next.
type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	DB        string            `json:"db"`
	Services  map[string]string `json:"services"`
}

package models

type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type OrderMessageResponse struct {
	Message string `json:"message"`
	Order   *Order `json:"order"`
}

type UserMessageResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type DashboardResponse struct {
	User   *User           `json:"user"`
	Orders []OrderWithUser `json:"orders"`
}

// ActionResult is the structured outcome of a form action. Expected
// failures are reported here instead of as errors.
type ActionResult struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

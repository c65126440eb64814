package auth

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed token plus the caller's resolved
// authorization snapshot so clients can render without a second round trip.
type LoginResponse struct {
	Token       string   `json:"token"`
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Ministry    string   `json:"ministry,omitempty"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

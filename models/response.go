package models

type SessionInfo struct {
	SessionID     string `json:"session_id"`
	Authenticated bool   `json:"authenticated"`
	User          *User  `json:"user,omitempty"`
	CartItems     int    `json:"cart_items"`
	FailMode      bool   `json:"fail_mode"`
	Notifications int    `json:"notifications"`
}

type AuthResponse struct {
	User *User `json:"user"`
}

type FailModeResponse struct {
	Enabled bool `json:"enabled"`
}

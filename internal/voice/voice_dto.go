package voice

import "time"

type TokenRequest struct {
	Room     string `json:"room" binding:"required"`
	Identity string `json:"identity" binding:"required"`
	Name     string `json:"name"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	Room      string    `json:"room"`
	Identity  string    `json:"identity"`
	ExpiresAt time.Time `json:"expires_at"`
}

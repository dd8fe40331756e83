package request

// StartRequest is the request body for replaying a start command over HTTP
type StartRequest struct {
	ChatID        string `json:"chat_id,omitempty"`
	ReferralToken string `json:"referral_token,omitempty"`
	Username      string `json:"username,omitempty"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
}

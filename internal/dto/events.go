package dto

// Event keys on the mail topic. The worker dispatches on the kafka message
// key, the value is the JSON event below.
const (
	EventVerifyEmail   = "user.verify_email"
	EventResetPassword = "user.reset_password"
)

type VerifyEmailEvent struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type ResetPasswordEvent struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	ResetLink string `json:"reset_link"`
}

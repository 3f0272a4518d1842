package domain

// User represents a back-office user account
type User struct {
	ID          int64      `json:"id" validate:"required"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FullName    *string    `json:"full_name"`
	AvatarURL   *string    `json:"avatar_url"`
	PhoneNumber *string    `json:"phone_number"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   Timestamp  `json:"created_at"`
	LastLogin   *Timestamp `json:"last_login"`
}

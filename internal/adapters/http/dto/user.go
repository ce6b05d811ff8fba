package dto

type RegisteredUser struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72,password_strength"`
}

type LoginUser struct {
	Username string `json:"username" validate:"omitempty,alphanum,min=3,max=30"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePassword struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72,password_strength"`
}

type UpdateAccount struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
}

type ToggleSubscription struct {
	ChannelID string `json:"channel_id" validate:"required,uuid4"`
}

type RecordWatch struct {
	VideoID string `json:"video_id" validate:"required,uuid4"`
}

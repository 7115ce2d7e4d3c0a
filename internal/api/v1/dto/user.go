package dto

import "time"

// UserCreateDTO registers a regular account
type UserCreateDTO struct {
	Email    string `json:"email" validate:"required,email,max=225"`
	Name     string `json:"name,omitempty" validate:"max=225"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserResponseDTO is returned in API responses
type UserResponseDTO struct {
	UserID      string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	IsAuthor    bool      `json:"is_author"`
	IsStaff     bool      `json:"is_staff"`
	Created     time.Time `json:"created"`
	PaidCourses []string  `json:"paid_courses,omitempty"`
}

type TokenObtainDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenPairDTO struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type TokenRefreshDTO struct {
	Refresh string `json:"refresh"`
}

type AccessTokenDTO struct {
	Access string `json:"access"`
}

type CheckoutRequestDTO struct {
	Cart []string `json:"cart" minItems:"1" maxItems:"40" doc:"Course identifiers"`
}

type CheckoutResponseDTO struct {
	CheckoutURL string   `json:"checkout_url,omitempty"`
	Enrolled    []string `json:"enrolled"`
}

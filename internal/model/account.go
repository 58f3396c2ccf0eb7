package model

type Account struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"-"`
	Role         string `json:"role"`
	RegisterTime int64  `json:"register_time"`
}

const RoleDefault = "user"

package models

// SignupRequest 注册请求
type SignupRequest struct {
	Username string  `json:"username" validate:"required,min=2,max=64" example:"Alice_Code"`
	Email    string  `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Bio      string  `json:"bio" validate:"max=1000"`
	Skills   []Skill `json:"skills" validate:"dive"`
	Gender   string  `json:"gender" validate:"max=32"`
	Phone    string  `json:"phone" validate:"max=32"`
}

// SigninRequest 登录请求
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest 资料更新，nil 字段保持不变
type UpdateProfileRequest struct {
	Username *string  `json:"username" validate:"omitempty,min=2,max=64"`
	Bio      *string  `json:"bio" validate:"omitempty,max=1000"`
	Gender   *string  `json:"gender" validate:"omitempty,max=32"`
	Phone    *string  `json:"phone" validate:"omitempty,max=32"`
	Skills   *[]Skill `json:"skills" validate:"omitempty,dive"`
}

// AuthResult 登录 / 注册返回
type AuthResult struct {
	Result *User  `json:"result"`
	Token  string `json:"token"`
}

package dto

// LoginForm 登录表单
type LoginForm struct {
	Username string `form:"username" binding:"required,max=80" example:"Brenda B"`
	Password string `form:"password" binding:"required" example:"********"`
}

// UserInfo 当前登录用户
type UserInfo struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"Brenda B"`
}

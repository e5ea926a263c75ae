package dto

// LoginRequest 管理员登录请求
type LoginRequest struct {
	Password string `json:"password" binding:"required,min=1,max=128"`
}

// TokenResponse Access Token 响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

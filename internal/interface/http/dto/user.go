package dto

// CreateUserRequest HTTP层创建用户请求
// 说明：名字去除首尾空白后的校验（全空白）在领域层完成
type CreateUserRequest struct {
	Name string `json:"name" binding:"required" example:"Alice"`
}

// UserResponse 用户响应
type UserResponse struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"Alice"`
}

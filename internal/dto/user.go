package dto

// ── 用户模块 DTO ──

// UpdateProfileRequest 更新个人资料请求（部分更新，nil 字段不变）
type UpdateProfileRequest struct {
	Name            *string `json:"name"              binding:"omitempty,max=100"`
	Bio             *string `json:"bio"               binding:"omitempty,max=2000"`
	Gender          *string `json:"gender"            binding:"omitempty,max=20"`
	Location        *string `json:"location"          binding:"omitempty,max=200"`
	Profession      *string `json:"profession"        binding:"omitempty,max=50"`
	Domain          *string `json:"domain"            binding:"omitempty,max=100"`
	Course          *string `json:"course"            binding:"omitempty,max=100"`
	Specialization  *string `json:"specialization"    binding:"omitempty,max=100"`
	Organization    *string `json:"organization"      binding:"omitempty,max=200"`
	CourseStartYear *string `json:"course_start_year" binding:"omitempty,max=10"`
	CourseEndYear   *string `json:"course_end_year"   binding:"omitempty,max=10"`
}

// AssignRoleRequest 分配角色请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

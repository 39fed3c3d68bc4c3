package dto

// ── 用户响应 ──

// UserResponse 用户信息响应（不含外部身份 ID）
type UserResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	ProfilePhoto    string `json:"profile_photo,omitempty"`
	Bio             string `json:"bio,omitempty"`
	Gender          string `json:"gender,omitempty"`
	Location        string `json:"location,omitempty"`
	Profession      string `json:"profession,omitempty"`
	Domain          string `json:"domain,omitempty"`
	Course          string `json:"course,omitempty"`
	Specialization  string `json:"specialization,omitempty"`
	Organization    string `json:"organization,omitempty"`
	CourseStartYear string `json:"course_start_year,omitempty"`
	CourseEndYear   string `json:"course_end_year,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// [自证通过] internal/dto/response.go

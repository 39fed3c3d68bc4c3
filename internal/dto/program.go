package dto

// ── 项目模块 DTO ──

// CreateCustomFieldRequest 随项目创建的自定义问题定义
type CreateCustomFieldRequest struct {
	Label      string `json:"label"       binding:"required,max=200"`
	FieldType  string `json:"field_type"  binding:"required,oneof=text textarea url file select"`
	Options    string `json:"options"     binding:"omitempty,max=2000"` // select 类型的选项，JSON 数组字符串
	IsRequired *bool  `json:"is_required"`                              // 缺省 true
	StepNumber int    `json:"step_number" binding:"omitempty,min=1,max=4"`
	OrderIndex *int   `json:"order_index" binding:"omitempty,min=0"` // 缺省按提交顺序编号
}

// CreateProgramRequest 创建项目请求
// 必填项按类型校验在 Service 层完成：event 要求 title/description/mode/deadline，
// internship 额外要求 stipend/duration/required_skills
type CreateProgramRequest struct {
	Type           string                     `json:"type"            binding:"required,oneof=event internship"`
	Title          string                     `json:"title"           binding:"omitempty,max=200"`
	Description    string                     `json:"description"     binding:"omitempty,max=10000"`
	Category       string                     `json:"category"        binding:"omitempty,max=100"`
	Location       string                     `json:"location"        binding:"omitempty,max=200"`
	Mode           string                     `json:"mode"            binding:"omitempty,oneof=online offline hybrid"`
	Deadline       string                     `json:"deadline"        binding:"omitempty"` // RFC3339
	StartDate      string                     `json:"start_date"      binding:"omitempty"` // YYYY-MM-DD
	EndDate        string                     `json:"end_date"        binding:"omitempty"` // YYYY-MM-DD
	Stipend        string                     `json:"stipend"         binding:"omitempty,max=100"`
	Duration       string                     `json:"duration"        binding:"omitempty,max=100"`
	RequiredSkills string                     `json:"required_skills" binding:"omitempty,max=2000"`
	CustomFields   []CreateCustomFieldRequest `json:"custom_fields"   binding:"omitempty,dive"`
}

// ProgramListRequest 项目列表查询参数
type ProgramListRequest struct {
	PaginationRequest
	Type     string `form:"type"     binding:"required,oneof=event internship"`
	Category string `form:"category" binding:"omitempty,max=100"`
	Mode     string `form:"mode"     binding:"omitempty,oneof=online offline hybrid"`
}

// CustomFieldResponse 自定义问题响应
type CustomFieldResponse struct {
	ID         int64  `json:"id"`
	Label      string `json:"label"`
	FieldType  string `json:"field_type"`
	Options    string `json:"options,omitempty"`
	IsRequired bool   `json:"is_required"`
	StepNumber int    `json:"step_number"`
	OrderIndex int    `json:"order_index"`
}

// ProgramResponse 项目响应
type ProgramResponse struct {
	ID             int64                 `json:"id"`
	AdminID        int64                 `json:"admin_id"`
	Type           string                `json:"type"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Category       string                `json:"category,omitempty"`
	Location       string                `json:"location,omitempty"`
	Mode           string                `json:"mode"`
	Deadline       string                `json:"deadline"`
	StartDate      string                `json:"start_date,omitempty"`
	EndDate        string                `json:"end_date,omitempty"`
	Stipend        string                `json:"stipend,omitempty"`
	Duration       string                `json:"duration,omitempty"`
	RequiredSkills string                `json:"required_skills,omitempty"`
	IsActive       bool                  `json:"is_active"`
	CreatedAt      string                `json:"created_at"`
	CustomFields   []CustomFieldResponse `json:"custom_fields,omitempty"`
}

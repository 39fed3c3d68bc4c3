package dto

// ── 报名向导 DTO ──

// WizardFormRequest 合并更新向导表单（个人信息 + 学业信息步骤）
// nil 字段保持现值；显式传空字符串即清空
type WizardFormRequest struct {
	Name            *string `json:"name"              binding:"omitempty,max=100"`
	Email           *string `json:"email"             binding:"omitempty,max=150"`
	Gender          *string `json:"gender"            binding:"omitempty,max=20"`
	Location        *string `json:"location"          binding:"omitempty,max=200"`
	Profession      *string `json:"profession"        binding:"omitempty,max=50"`
	Domain          *string `json:"domain"            binding:"omitempty,max=100"`
	Course          *string `json:"course"            binding:"omitempty,max=100"`
	Specialization  *string `json:"specialization"    binding:"omitempty,max=100"`
	Organization    *string `json:"organization"      binding:"omitempty,max=200"`
	CourseStartYear *string `json:"course_start_year" binding:"omitempty,max=10"`
	CourseEndYear   *string `json:"course_end_year"   binding:"omitempty,max=10"`
	ResumeURL       *string `json:"resume_url"        binding:"omitempty,max=500"`
}

// WizardResponsesRequest 设置自定义问题回答
type WizardResponsesRequest struct {
	Responses []FieldResponse `json:"responses" binding:"required,dive"`
}

// WizardFieldValue 向导表单字段值 + 自动填充标记
type WizardFieldValue struct {
	Value      string `json:"value"`
	AutoFilled bool   `json:"auto_filled"` // 来自用户档案的非空预填
}

// WizardStateResponse 向导当前状态
type WizardStateResponse struct {
	ProgramID     int64                       `json:"program_id"`
	Step          string                      `json:"step"`
	StepIndex     int                         `json:"step_index"`
	StepCount     int                         `json:"step_count"`
	Form          map[string]WizardFieldValue `json:"form"`
	Responses     map[int64]string            `json:"responses"`
	Pending       bool                        `json:"pending"`        // 提交进行中，禁止重复 Submit
	FailureReason string                      `json:"failure_reason,omitempty"`
	Result        *SubmitResult               `json:"result,omitempty"`
}

package dto

// ── 申请模块 DTO ──

// FieldResponse 单个自定义问题的回答
type FieldResponse struct {
	FieldID int64  `json:"field_id" binding:"required,min=1"`
	Value   string `json:"value"`
}

// SubmitResult 提交结果（结构化返回给向导层，可恢复失败不抛错）
type SubmitResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ApplicationID int64  `json:"application_id,omitempty"`
}

// ReviewRequest 管理员审核请求
type ReviewRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected completed"`
}

// ApplicationResponse 申请记录响应
type ApplicationResponse struct {
	ID                  int64                 `json:"id"`
	UserID              int64                 `json:"user_id"`
	ProgramID           int64                 `json:"program_id"`
	Status              string                `json:"status"`
	AppliedAt           string                `json:"applied_at"`
	ReviewedAt          string                `json:"reviewed_at,omitempty"`
	CertificateIssuedAt string                `json:"certificate_issued_at,omitempty"`
	Program             *ProgramResponse      `json:"program,omitempty"`
	Applicant           *ApplicantBrief       `json:"applicant,omitempty"`
	Answers             []ApplicationAnswer   `json:"answers,omitempty"`
}

// ApplicantBrief 申请人摘要（管理员侧名单用）
type ApplicantBrief struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ApplicationAnswer 已落库的问题回答
type ApplicationAnswer struct {
	FieldID int64  `json:"field_id"`
	Label   string `json:"label"`
	Value   string `json:"value"`
}

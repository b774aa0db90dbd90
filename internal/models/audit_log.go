package models

// AuditLog records sensitive customer operations for security and compliance.
type AuditLog struct {
	Base
	CustomerID   string `gorm:"type:uuid;index" json:"customer_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Severity     string `gorm:"default:'INFO'" json:"severity"`
	Changes      string `json:"changes,omitempty"`
}

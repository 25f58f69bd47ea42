package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Tenant is a Kill Bill tenant whose credentials are stored locally so the
// console can switch between tenants.
type Tenant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	KBTenantID string    `gorm:"column:kb_tenant_id;type:varchar(36);uniqueIndex;not null" json:"kb_tenant_id" validate:"omitempty,uuid"`
	Name       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required,min=1,max=255"`
	APIKey     string    `gorm:"column:api_key;type:varchar(255);uniqueIndex;not null" json:"api_key" validate:"required,min=1,max=255"`
	APISecret  string    `gorm:"column:api_secret;type:varchar(255);not null" json:"-" validate:"required,min=1,max=255"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Tenant) TableName() string {
	return "kaui_tenants"
}

func (t *Tenant) Validate() error {
	v := validator.New()
	return v.Struct(t)
}

package repository

import (
	"github.com/kitty-tang-hs/killbill-admin-ui/app/models"
	"gorm.io/gorm"
)

// TenantRepository defines the interface for tenant-related database operations
type TenantRepository interface {
	Create(tenant *models.Tenant) error
	GetByKBTenantID(kbTenantID string) (*models.Tenant, error)
	GetByAPIKey(apiKey string) (*models.Tenant, error)
	List() ([]models.Tenant, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Tenant TenantRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tenant: NewTenantRepository(db),
	}
}

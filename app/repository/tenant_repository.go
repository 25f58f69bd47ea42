package repository

import (
	"github.com/kitty-tang-hs/killbill-admin-ui/app/models"
	"gorm.io/gorm"
)

// tenantRepository implements the TenantRepository interface
type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository instance
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

// Create stores a new tenant
func (r *tenantRepository) Create(tenant *models.Tenant) error {
	return r.db.Create(tenant).Error
}

// GetByKBTenantID retrieves a tenant by its Kill Bill tenant id
func (r *tenantRepository) GetByKBTenantID(kbTenantID string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.Where("kb_tenant_id = ?", kbTenantID).First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetByAPIKey retrieves a tenant by its API key
func (r *tenantRepository) GetByAPIKey(apiKey string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.Where("api_key = ?", apiKey).First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// List retrieves all tenants ordered by name
func (r *tenantRepository) List() ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.Order("name ASC").Find(&tenants).Error
	return tenants, err
}

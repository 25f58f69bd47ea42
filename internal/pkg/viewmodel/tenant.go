package viewmodel

import "github.com/kitty-tang-hs/killbill-admin-ui/app/models"

type Tenants struct {
	CSRF       string
	Tenants    []models.Tenant
	SelectedID string
}

package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/kitty-tang-hs/killbill-admin-ui/app/models"
	"github.com/kitty-tang-hs/killbill-admin-ui/app/repository"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/constants"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/session"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/usercontext"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/viewmodel"
	"github.com/kitty-tang-hs/killbill-admin-ui/views"
)

// TenantsController registers Kill Bill tenants and switches between them
type TenantsController struct {
	kb      *killbill.Client
	tenants repository.TenantRepository
}

func NewTenantsController(kb *killbill.Client, tenants repository.TenantRepository) *TenantsController {
	return &TenantsController{kb: kb, tenants: tenants}
}

// HandleIndex lists the registered tenants
func (tc *TenantsController) HandleIndex(c *fiber.Ctx) error {
	tenants, err := tc.tenants.List()
	if err != nil {
		fiberlog.Error(fmt.Sprintf("[Tenants] list failed: %v", err))
		return redirectWithError(c, constants.HomeRoute, "Error while loading tenants")
	}

	content := views.TenantsIndex(viewmodel.Tenants{
		CSRF:       csrfToken(c),
		Tenants:    tenants,
		SelectedID: usercontext.GetUserContext(c).KBTenantID,
	})
	return render(c, " | Tenants", content)
}

// HandleCreate registers a tenant after resolving its id with Kill Bill
func (tc *TenantsController) HandleCreate(c *fiber.Ctx) error {
	tenant := &models.Tenant{
		Name:      strings.TrimSpace(c.FormValue("name")),
		APIKey:    strings.TrimSpace(c.FormValue("api_key")),
		APISecret: strings.TrimSpace(c.FormValue("api_secret")),
	}
	if err := tenant.Validate(); err != nil {
		return redirectWithError(c, constants.TenantsRoute, "Invalid tenant: "+err.Error())
	}

	opts := killbill.RequestOptions{
		APIKey:    tenant.APIKey,
		APISecret: tenant.APISecret,
		CreatedBy: usercontext.GetUsername(c),
	}
	kbTenant, err := tc.kb.GetTenantByAPIKey(c.UserContext(), tenant.APIKey, opts)
	if err != nil {
		fiberlog.Error(fmt.Sprintf("[Tenants] resolving api key %s failed: %v", tenant.APIKey, err))
		return redirectWithError(c, constants.TenantsRoute, kbErrorMessage(err))
	}
	tenant.KBTenantID = kbTenant.TenantID

	if err := tc.tenants.Create(tenant); err != nil {
		fiberlog.Error(fmt.Sprintf("[Tenants] saving %s failed: %v", tenant.Name, err))
		return redirectWithError(c, constants.TenantsRoute, "Error while saving tenant: "+err.Error())
	}

	return redirectWithNotice(c, constants.TenantsRoute, fmt.Sprintf("Tenant %s was successfully registered", tenant.Name))
}

// HandleSelect stores the chosen tenant in the session
func (tc *TenantsController) HandleSelect(c *fiber.Ctx) error {
	tenantID := strings.TrimSpace(c.FormValue("tenant_id"))
	if tenantID == "" {
		return redirectWithError(c, constants.TenantsRoute, missingParameter("tenant_id"))
	}

	tenant, err := tc.tenants.GetByKBTenantID(tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return redirectWithError(c, constants.TenantsRoute, "Tenant not found: "+tenantID)
		}
		fiberlog.Error(fmt.Sprintf("[Tenants] loading %s failed: %v", tenantID, err))
		return redirectWithError(c, constants.TenantsRoute, "Error while loading tenant")
	}

	if err := session.SetSessionValue(c, usercontext.SessionKeyTenantID, tenant.KBTenantID); err != nil {
		fiberlog.Error(fmt.Sprintf("[Tenants] storing selection failed: %v", err))
		return redirectWithError(c, constants.TenantsRoute, "Error while selecting tenant")
	}

	return redirectWithNotice(c, constants.HomeRoute, fmt.Sprintf("Switched to tenant %s", tenant.Name))
}

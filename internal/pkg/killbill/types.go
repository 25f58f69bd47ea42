package killbill

import "github.com/shopspring/decimal"

// Account mirrors the Kill Bill AccountJson resource. Empty values are omitted
// so that an update without treatNullAsReset leaves them untouched.
type Account struct {
	AccountID                  string           `json:"accountId,omitempty"`
	Name                       string           `json:"name,omitempty"`
	FirstNameLength            int              `json:"firstNameLength,omitempty"`
	ExternalKey                string           `json:"externalKey,omitempty"`
	Email                      string           `json:"email,omitempty"`
	BillCycleDayLocal          int              `json:"billCycleDayLocal,omitempty"`
	Currency                   string           `json:"currency,omitempty"`
	ParentAccountID            string           `json:"parentAccountId,omitempty"`
	IsPaymentDelegatedToParent bool             `json:"isPaymentDelegatedToParent,omitempty"`
	PaymentMethodID            string           `json:"paymentMethodId,omitempty"`
	ReferenceTime              string           `json:"referenceTime,omitempty"`
	TimeZone                   string           `json:"timeZone,omitempty"`
	Address1                   string           `json:"address1,omitempty"`
	Address2                   string           `json:"address2,omitempty"`
	PostalCode                 string           `json:"postalCode,omitempty"`
	Company                    string           `json:"company,omitempty"`
	City                       string           `json:"city,omitempty"`
	State                      string           `json:"state,omitempty"`
	Country                    string           `json:"country,omitempty"`
	Locale                     string           `json:"locale,omitempty"`
	Phone                      string           `json:"phone,omitempty"`
	Notes                      string           `json:"notes,omitempty"`
	IsMigrated                 bool             `json:"isMigrated,omitempty"`
	IsNotifiedForInvoices      bool             `json:"isNotifiedForInvoices,omitempty"`
	AccountBalance             *decimal.Decimal `json:"accountBalance,omitempty"`
	AccountCBA                 *decimal.Decimal `json:"accountCBA,omitempty"`
}

// AccountsPage is one page of a list or search call.
type AccountsPage struct {
	Accounts []Account
	// TotalNbRecords counts the records matching the query.
	TotalNbRecords int
	// MaxNbRecords counts all records of the tenant.
	MaxNbRecords int
}

type PaymentMethod struct {
	PaymentMethodID string `json:"paymentMethodId"`
	ExternalKey     string `json:"externalKey,omitempty"`
	AccountID       string `json:"accountId"`
	IsDefault       bool   `json:"isDefault"`
	PluginName      string `json:"pluginName"`
}

// ExternalPaymentPlugin is the plugin backing Kill Bill's built-in external payment method.
const ExternalPaymentPlugin = "__EXTERNAL_PAYMENT__"

func (pm PaymentMethod) IsExternal() bool {
	return pm.PluginName == ExternalPaymentPlugin
}

type Tag struct {
	TagID             string `json:"tagId"`
	ObjectType        string `json:"objectType"`
	ObjectID          string `json:"objectId"`
	TagDefinitionID   string `json:"tagDefinitionId"`
	TagDefinitionName string `json:"tagDefinitionName"`
}

type AccountEmail struct {
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
}

type OverdueState struct {
	Name                                  string `json:"name"`
	ExternalMessage                       string `json:"externalMessage"`
	IsDisableEntitlementAndChangesBlocked bool   `json:"isDisableEntitlementAndChangesBlocked"`
	IsBlockChanges                        bool   `json:"isBlockChanges"`
	IsClearState                          bool   `json:"isClearState"`
	ReevaluationIntervalDays              int    `json:"reevaluationIntervalDays"`
}

type Invoice struct {
	InvoiceID     string          `json:"invoiceId,omitempty"`
	InvoiceNumber string          `json:"invoiceNumber,omitempty"`
	AccountID     string          `json:"accountId"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	CreditAdj     decimal.Decimal `json:"creditAdj"`
	RefundAdj     decimal.Decimal `json:"refundAdj"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	InvoiceDate   string          `json:"invoiceDate"`
	TargetDate    string          `json:"targetDate"`
	Items         []InvoiceItem   `json:"items"`
}

// IsDryRun reports whether the invoice is a non persisted preview.
func (i Invoice) IsDryRun() bool {
	return i.InvoiceID == ""
}

type InvoiceItem struct {
	InvoiceItemID string          `json:"invoiceItemId,omitempty"`
	InvoiceID     string          `json:"invoiceId,omitempty"`
	ItemType      string          `json:"itemType"`
	Description   string          `json:"description"`
	PlanName      string          `json:"planName,omitempty"`
	PhaseName     string          `json:"phaseName,omitempty"`
	StartDate     string          `json:"startDate"`
	EndDate       string          `json:"endDate,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

// Dry run types understood by POST /invoices/dryRun.
const (
	DryRunTargetDate      = "TARGET_DATE"
	DryRunUpcomingInvoice = "UPCOMING_INVOICE"
)

type InvoiceDryRun struct {
	DryRunType string `json:"dryRunType"`
}

type NodeInfo struct {
	NodeName    string       `json:"nodeName"`
	KBVersion   string       `json:"kbVersion"`
	PluginsInfo []PluginInfo `json:"pluginsInfo"`
}

type PluginInfo struct {
	BundleSymbolicName string `json:"bundleSymbolicName"`
	PluginKey          string `json:"pluginKey"`
	PluginName         string `json:"pluginName"`
	Version            string `json:"version"`
	State              string `json:"state"`
	IsSelectedForStart bool   `json:"isSelectedForStart"`
}

// EmailNotification is one event type subscription stored by the email notifications plugin.
type EmailNotification struct {
	KBAccountID string `json:"kbAccountId"`
	KBTenantID  string `json:"kbTenantId"`
	EventType   string `json:"eventType"`
}

type Tenant struct {
	TenantID    string `json:"tenantId"`
	ExternalKey string `json:"externalKey"`
	APIKey      string `json:"apiKey"`
}

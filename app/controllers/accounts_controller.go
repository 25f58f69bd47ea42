package controllers

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"
	"golang.org/x/sync/errgroup"

	"github.com/kitty-tang-hs/killbill-admin-ui/app/models"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/constants"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/datatables"
	pageflash "github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/flash"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/viewmodel"
	"github.com/kitty-tang-hs/killbill-admin-ui/views"
)

// AccountsController manages Kill Bill accounts
type AccountsController struct {
	kb *killbill.Client
}

// NewAccountsController creates a new accounts controller
func NewAccountsController(kb *killbill.Client) *AccountsController {
	return &AccountsController{kb: kb}
}

// HandleIndex renders the account list. With fast=1 it jumps straight to the
// account whose id or external key is q.
func (ac *AccountsController) HandleIndex(c *fiber.Ctx) error {
	ctx := c.UserContext()
	opts := requestOptions(c)

	if c.Query("fast") == "1" {
		q := strings.TrimSpace(c.Query("q"))
		account, err := findByIDOrKey(ctx, ac.kb, q, opts)
		switch {
		case err == nil:
			return c.Redirect(views.AccountPath(account.AccountID))
		case killbill.IsNotFound(err):
			return redirectWithError(c, constants.HomeRoute, fmt.Sprintf("No account matches \"%s\"", q))
		default:
			fiberlog.Error(fmt.Sprintf("[Accounts] fast lookup of %q failed: %v", q, err))
			return redirectWithError(c, constants.HomeRoute, kbErrorMessage(err))
		}
	}

	page, err := ac.kb.ListAccounts(ctx, 0, 0, opts)
	if err != nil {
		fiberlog.Error(fmt.Sprintf("[Accounts] count failed: %v", err))
		return redirectWithError(c, constants.HomeRoute, kbErrorMessage(err))
	}

	content := views.AccountsIndex(viewmodel.AccountsIndex{
		Search: c.Query("q"),
		Total:  page.MaxNbRecords,
	})
	return render(c, " | Accounts", content)
}

// HandlePagination serves the account table rows.
func (ac *AccountsController) HandlePagination(c *fiber.Ctx) error {
	ctx := c.UserContext()
	opts := requestOptions(c)
	req := datatables.ParseRequest(c)

	var (
		page *killbill.AccountsPage
		err  error
	)
	if req.Search != "" {
		page, err = ac.kb.SearchAccounts(ctx, req.Search, req.Start, req.Length, opts)
	} else {
		page, err = ac.kb.ListAccounts(ctx, req.Start, req.Length, opts)
	}
	if err != nil {
		fiberlog.Error(fmt.Sprintf("[Accounts] pagination failed: %v", err))
		return c.Status(killbill.StatusCode(err)).JSON(err.Error())
	}

	rows := make([][]string, 0, len(page.Accounts))
	for _, a := range page.Accounts {
		rows = append(rows, accountRow(a))
	}
	return c.JSON(datatables.NewResponse(req, page.MaxNbRecords, page.TotalNbRecords, rows))
}

func accountRow(a killbill.Account) []string {
	link := `<a href="` + templ.EscapeString(views.AccountPath(a.AccountID)) + `">` + templ.EscapeString(a.AccountID) + `</a>`
	return []string{
		link,
		templ.EscapeString(a.Name),
		templ.EscapeString(a.ExternalKey),
		templ.EscapeString(a.Email),
		templ.EscapeString(a.Currency),
	}
}

// HandleShow renders the account page with everything attached to the account.
func (ac *AccountsController) HandleShow(c *fiber.Ctx) error {
	ctx := c.UserContext()
	opts := requestOptions(c)

	account, err := findByIDOrKey(ctx, ac.kb, c.Params("account_id"), opts)
	if err != nil {
		fiberlog.Error(fmt.Sprintf("[Accounts] loading %s failed: %v", c.Params("account_id"), err))
		return redirectBackWithError(c, kbErrorMessage(err))
	}
	accountID := account.AccountID

	vm := viewmodel.AccountShow{
		CSRF:       csrfToken(c),
		Account:    account,
		EventTypes: killbill.EmailNotificationEventTypes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tags, err := ac.kb.GetAccountTags(gctx, accountID, opts)
		vm.Tags = tags
		return err
	})
	g.Go(func() error {
		emails, err := ac.kb.GetAccountEmails(gctx, accountID, opts)
		vm.Emails = emails
		return err
	})
	g.Go(func() error {
		state, err := ac.kb.GetOverdueState(gctx, accountID, opts)
		vm.OverdueState = state
		return err
	})
	g.Go(func() error {
		methods, err := ac.kb.GetPaymentMethods(gctx, accountID, opts)
		if err != nil {
			return err
		}
		for _, pm := range methods {
			if !pm.IsExternal() {
				vm.PaymentMethods = append(vm.PaymentMethods, pm)
			}
		}
		return nil
	})
	if account.ParentAccountID != "" {
		g.Go(func() error {
			parent, err := ac.kb.GetAccount(gctx, account.ParentAccountID, opts)
			vm.Parent = parent
			return err
		})
	}
	g.Go(func() error {
		// Plugin failures only hide the email notifications section
		running, err := ac.kb.IsPluginRunning(gctx, killbill.EmailNotificationsPlugin, opts)
		if err != nil {
			fiberlog.Warn(fmt.Sprintf("[Accounts] email notifications plugin check failed: %v", err))
			return nil
		}
		if !running {
			return nil
		}
		notifications, err := ac.kb.GetEmailNotifications(gctx, accountID, opts)
		if err != nil {
			fiberlog.Warn(fmt.Sprintf("[Accounts] loading email notifications of %s failed: %v", accountID, err))
			return nil
		}
		vm.EmailNotificationsEnabled = true
		for _, n := range notifications {
			vm.EmailNotifications = append(vm.EmailNotifications, n.EventType)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		fiberlog.Error(fmt.Sprintf("[Accounts] loading details of %s failed: %v", accountID, err))
		return redirectBackWithError(c, kbErrorMessage(err))
	}

	return render(c, " | "+account.Name, views.AccountShow(vm))
}

// HandleNew renders a blank account form
func (ac *AccountsController) HandleNew(c *fiber.Ctx) error {
	return ac.renderForm(c, "", models.AccountForm{})
}

// HandleCreate creates the account described by the account[...] fields
func (ac *AccountsController) HandleCreate(c *fiber.Ctx) error {
	form, ok := accountFormParams(c)
	if !ok {
		return redirectBackWithError(c, missingParameter("account"))
	}
	if err := form.Validate(); err != nil {
		pageflash.Error(c, "Error while creating account: "+err.Error())
		return ac.renderForm(c, "", *form)
	}

	account, err := ac.kb.CreateAccount(c.UserContext(), form.ToAccount(""), requestOptions(c))
	if err != nil {
		fiberlog.Error(fmt.Sprintf("[Accounts] create failed: %v", err))
		pageflash.Error(c, "Error while creating account: "+err.Error())
		return ac.renderForm(c, "", *form)
	}

	return redirectWithNotice(c, views.AccountPath(account.AccountID), "Account was successfully created")
}

// HandleEdit renders the form filled with the stored account
func (ac *AccountsController) HandleEdit(c *fiber.Ctx) error {
	account, err := ac.kb.GetAccount(c.UserContext(), c.Params("account_id"), requestOptions(c))
	if err != nil {
		return redirectBackWithError(c, kbErrorMessage(err))
	}
	return ac.renderForm(c, account.AccountID, models.AccountFormFrom(account))
}

// HandleUpdate replaces the account with the submitted fields. Fields left
// blank are reset on the Kill Bill side.
func (ac *AccountsController) HandleUpdate(c *fiber.Ctx) error {
	accountID := c.Params("account_id")
	form, ok := accountFormParams(c)
	if !ok {
		return redirectBackWithError(c, missingParameter("account"))
	}
	if err := form.Validate(); err != nil {
		pageflash.Error(c, "Error while updating account: "+err.Error())
		return ac.renderForm(c, accountID, *form)
	}

	if err := ac.kb.UpdateAccount(c.UserContext(), form.ToAccount(accountID), true, requestOptions(c)); err != nil {
		fiberlog.Error(fmt.Sprintf("[Accounts] update of %s failed: %v", accountID, err))
		pageflash.Error(c, "Error while updating account: "+err.Error())
		return ac.renderForm(c, accountID, *form)
	}

	return redirectWithNotice(c, views.AccountPath(accountID), "Account successfully updated")
}

func (ac *AccountsController) renderForm(c *fiber.Ctx, accountID string, form models.AccountForm) error {
	vm := viewmodel.AccountForm{
		CSRF:      csrfToken(c),
		AccountID: accountID,
		Form:      form,
		Action:    constants.AccountsRoute,
	}
	title := " | New account"
	if accountID != "" {
		vm.Action = views.AccountPath(accountID) + "/update"
		title = " | Edit account"
	}
	return render(c, title, views.AccountForm(vm))
}

// accountFormParams reads the account[...] fields. ok is false when the
// request carries none.
func accountFormParams(c *fiber.Ctx) (*models.AccountForm, bool) {
	params, ok := nestedParams(c, "account")
	if !ok {
		return nil, false
	}
	form := &models.AccountForm{}
	for name, values := range params {
		form.SetField(name, lastValue(values))
	}
	return form, true
}

// HandleSetDefaultPaymentMethod makes payment_method_id the account default
func (ac *AccountsController) HandleSetDefaultPaymentMethod(c *fiber.Ctx) error {
	accountID := c.Params("account_id")
	path := views.AccountPath(accountID)

	paymentMethodID := strings.TrimSpace(c.FormValue("payment_method_id"))
	if paymentMethodID == "" {
		return redirectWithError(c, path, missingParameter("payment_method_id"))
	}

	if err := ac.kb.SetDefaultPaymentMethod(c.UserContext(), accountID, paymentMethodID, requestOptions(c)); err != nil {
		fiberlog.Error(fmt.Sprintf("[Accounts] set default payment method %s on %s failed: %v", paymentMethodID, accountID, err))
		return redirectBackWithError(c, kbErrorMessage(err))
	}

	return redirectWithNotice(c, path, fmt.Sprintf("Successfully set %s as default", paymentMethodID))
}

// HandlePayAllInvoices pays every unpaid invoice of the account
func (ac *AccountsController) HandlePayAllInvoices(c *fiber.Ctx) error {
	accountID := c.Params("account_id")
	external := c.FormValue("is_external_payment") == "true"

	if err := ac.kb.PayAllInvoices(c.UserContext(), accountID, external, requestOptions(c)); err != nil {
		fiberlog.Error(fmt.Sprintf("[Accounts] pay all invoices of %s failed: %v", accountID, err))
		return redirectBackWithError(c, kbErrorMessage(err))
	}

	return redirectWithNotice(c, views.AccountPath(accountID), "Successfully triggered a payment for all unpaid invoices")
}

// HandleTriggerInvoice generates the invoice due at target_date. With
// dry_run=1 the invoice is only previewed.
func (ac *AccountsController) HandleTriggerInvoice(c *fiber.Ctx) error {
	ctx := c.UserContext()
	opts := requestOptions(c)
	accountID := c.Params("account_id")
	targetDate := strings.TrimSpace(c.FormValue("target_date"))

	if c.FormValue("dry_run") == "1" {
		invoice, err := ac.kb.DryRunInvoice(ctx, accountID, targetDate, killbill.DryRunTargetDate, opts)
		if err != nil && !killbill.IsNotFound(err) {
			fiberlog.Error(fmt.Sprintf("[Accounts] dry run invoice of %s failed: %v", accountID, err))
			return redirectBackWithError(c, kbErrorMessage(err))
		}
		if invoice == nil {
			return nothingToGenerate(c, accountID, targetDate)
		}

		account, err := ac.kb.GetAccount(ctx, accountID, opts)
		if err != nil {
			return redirectBackWithError(c, kbErrorMessage(err))
		}
		return render(c, " | Dry run invoice", views.InvoiceShow(viewmodel.InvoiceShow{Account: account, Invoice: invoice}))
	}

	invoice, err := ac.kb.CreateInvoice(ctx, accountID, targetDate, opts)
	if err != nil {
		fiberlog.Error(fmt.Sprintf("[Accounts] invoice generation for %s failed: %v", accountID, err))
		return redirectBackWithError(c, kbErrorMessage(err))
	}
	if invoice == nil {
		return nothingToGenerate(c, accountID, targetDate)
	}

	path := views.InvoicePath(invoice.InvoiceID)
	err = flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Generated invoice %s for target date %s", invoice.InvoiceNumber, invoice.TargetDate),
		"link":    path,
	}).Redirect(path)
	if err != nil {
		return err
	}
	return redirectBody(c, path)
}

func nothingToGenerate(c *fiber.Ctx, accountID, targetDate string) error {
	if targetDate == "" {
		targetDate = "today"
	}
	return redirectWithNotice(c, views.AccountPath(accountID), "Nothing to generate for target date "+targetDate)
}

// HandleNextInvoiceDate answers with the target date of the upcoming invoice, or null
func (ac *AccountsController) HandleNextInvoiceDate(c *fiber.Ctx) error {
	invoice, err := ac.kb.DryRunInvoice(c.UserContext(), c.Params("account_id"), "", killbill.DryRunUpcomingInvoice, requestOptions(c))
	if err != nil {
		return c.Status(killbill.StatusCode(err)).JSON(err.Error())
	}
	if invoice == nil {
		return c.JSON(nil)
	}
	return c.JSON(invoice.TargetDate)
}

// HandleValidateExternalKey tells the account form whether external_key is taken
func (ac *AccountsController) HandleValidateExternalKey(c *fiber.Ctx) error {
	externalKey := strings.TrimSpace(c.Query("external_key"))
	if externalKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(missingParameter("external_key"))
	}

	_, err := ac.kb.GetAccountByExternalKey(c.UserContext(), externalKey, requestOptions(c))
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"is_found": true})
	case killbill.IsNotFound(err):
		return c.JSON(fiber.Map{"is_found": false})
	default:
		return c.Status(killbill.StatusCode(err)).JSON(err.Error())
	}
}

// HandleLinkToParent makes account[parent_account_id] the parent of the account
func (ac *AccountsController) HandleLinkToParent(c *fiber.Ctx) error {
	ctx := c.UserContext()
	opts := requestOptions(c)
	accountID := c.Params("account_id")
	path := views.AccountPath(accountID)

	form, ok := accountFormParams(c)
	if !ok {
		return redirectBackWithError(c, missingParameter("account"))
	}
	parentID := strings.TrimSpace(form.ParentAccountID)
	if parentID == "" {
		return redirectWithError(c, path, "Blank parent account id not allowed.")
	}

	parent, err := findByIDOrKey(ctx, ac.kb, parentID, opts)
	if err != nil {
		if killbill.IsNotFound(err) {
			return redirectWithError(c, path, "Parent account id not found: "+parentID)
		}
		fiberlog.Error(fmt.Sprintf("[Accounts] parent lookup of %s failed: %v", parentID, err))
		return redirectWithError(c, path, "Error while linking parent account: "+err.Error())
	}

	child := &killbill.Account{
		AccountID:                  accountID,
		ParentAccountID:            parent.AccountID,
		IsPaymentDelegatedToParent: form.IsPaymentDelegatedToParent,
	}
	if err := ac.kb.UpdateAccount(ctx, child, false, opts); err != nil {
		fiberlog.Error(fmt.Sprintf("[Accounts] linking %s to %s failed: %v", accountID, parent.AccountID, err))
		return redirectWithError(c, path, "Error while linking parent account: "+err.Error())
	}

	return redirectWithNotice(c, path, "Account successfully updated")
}

// HandleUnlinkToParent detaches the account from its parent
func (ac *AccountsController) HandleUnlinkToParent(c *fiber.Ctx) error {
	ctx := c.UserContext()
	opts := requestOptions(c)
	accountID := c.Params("account_id")

	account, err := ac.kb.GetAccount(ctx, accountID, opts)
	if err != nil {
		return redirectBackWithError(c, kbErrorMessage(err))
	}
	account.ParentAccountID = ""
	account.IsPaymentDelegatedToParent = false
	account.AccountBalance = nil
	account.AccountCBA = nil

	if err := ac.kb.UpdateAccount(ctx, account, true, opts); err != nil {
		fiberlog.Error(fmt.Sprintf("[Accounts] unlinking %s failed: %v", accountID, err))
		return redirectBackWithError(c, kbErrorMessage(err))
	}

	return redirectWithNotice(c, views.AccountPath(accountID), "Account successfully updated")
}

// HandleSetEmailNotificationsConfiguration replaces the event types the
// account receives emails for.
func (ac *AccountsController) HandleSetEmailNotificationsConfiguration(c *fiber.Ctx) error {
	ctx := c.UserContext()
	opts := requestOptions(c)

	params, ok := nestedParams(c, "configuration")
	if !ok {
		return redirectBackWithError(c, missingParameter("configuration"))
	}
	accountID := strings.TrimSpace(lastValue(params["account_id"]))
	if accountID == "" {
		return redirectBackWithError(c, missingParameter("configuration[account_id]"))
	}
	path := views.AccountPath(accountID)

	running, err := ac.kb.IsPluginRunning(ctx, killbill.EmailNotificationsPlugin, opts)
	if err != nil {
		return redirectWithError(c, path, kbErrorMessage(err))
	}
	if !running {
		return redirectWithError(c, path, "Email notification plugin is not installed")
	}

	eventTypes := []string{}
	for _, et := range params["event_types"] {
		if et = strings.TrimSpace(et); et != "" {
			eventTypes = append(eventTypes, et)
		}
	}
	if err := ac.kb.SetEmailNotifications(ctx, accountID, eventTypes, opts); err != nil {
		fiberlog.Error(fmt.Sprintf("[Accounts] email notifications of %s failed: %v", accountID, err))
		return redirectWithError(c, path, kbErrorMessage(err))
	}

	return redirectWithNotice(c, path, fmt.Sprintf("Email notifications for account %s was successfully updated", accountID))
}

package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/kitty-tang-hs/killbill-admin-ui/app/controllers"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/usercontext"
)

// APIServer implements the ServerInterface
type APIServer struct {
	kb *killbill.Client
}

// NewAPIServer creates a new API server instance
func NewAPIServer(kb *killbill.Client) *APIServer {
	return &APIServer{kb: kb}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetAccount returns the account with its balance and credit
func (s *APIServer) GetAccount(c *fiber.Ctx, accountID string) error {
	uc := usercontext.GetUserContext(c)
	opts := killbill.RequestOptions{
		APIKey:    uc.APIKey,
		APISecret: uc.APISecret,
		CreatedBy: uc.Username,
	}

	account, err := s.kb.GetAccount(c.UserContext(), accountID, opts)
	if err != nil {
		status := killbill.StatusCode(err)
		return c.Status(status).JSON(Error{Error: errorCode(status), Message: err.Error()})
	}
	return c.JSON(account)
}

// GetNextInvoiceDate returns the target date of the upcoming invoice or null.
// The controller reads account_id from the route params the wrapper set.
func (s *APIServer) GetNextInvoiceDate(c *fiber.Ctx, accountID string) error {
	return controllers.HandleAccountsNextInvoiceDate(c)
}

// GetValidateExternalKey reports whether an account uses external_key
func (s *APIServer) GetValidateExternalKey(c *fiber.Ctx) error {
	return controllers.HandleAccountsValidateExternalKey(c)
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "bad_request"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusConflict:
		return "conflict"
	default:
		return "killbill_error"
	}
}

// Package bank retrieves transactions and initiates savings transfers
// through the Plaid API.
package bank

import (
	"context"
	"fmt"
	"time"

	"github.com/plaid/plaid-go/v41/plaid"
	"github.com/shopspring/decimal"

	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/apperror"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/logging"
	"github.com/njdifiore91/budget-buddy-v3-6th329-sub001/internal/models"
)

// Client wraps the Plaid API for a single access token.
type Client struct {
	api         *plaid.APIClient
	accessToken string
	logger      logging.Logger
}

// NewClient creates a Plaid client for the given environment ("sandbox" or
// "production").
func NewClient(clientID, secret, environment, accessToken string, logger logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if clientID == "" || secret == "" {
		return nil, &apperror.AuthenticationError{
			Service: "plaid",
			Err:     fmt.Errorf("client ID and secret are required"),
		}
	}
	if accessToken == "" {
		return nil, &apperror.AuthenticationError{
			Service: "plaid",
			Err:     fmt.Errorf("access token is required"),
		}
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	configuration.AddDefaultHeader("PLAID-SECRET", secret)

	switch environment {
	case "sandbox":
		configuration.UseEnvironment(plaid.Sandbox)
	case "production":
		configuration.UseEnvironment(plaid.Production)
	default:
		return nil, apperror.NewValidationError("environment", environment, "must be sandbox or production")
	}

	return &Client{
		api:         plaid.NewAPIClient(configuration),
		accessToken: accessToken,
		logger:      logger,
	}, nil
}

// Verify confirms the access token is valid by fetching item metadata.
func (c *Client) Verify(ctx context.Context) error {
	request := plaid.NewItemGetRequest(c.accessToken)
	_, _, err := c.api.PlaidApi.ItemGet(ctx).ItemGetRequest(*request).Execute()
	if err != nil {
		return &apperror.AuthenticationError{Service: "plaid", Err: err}
	}
	c.logger.Debug("Verified bank access token")
	return nil
}

// GetTransactions syncs all transactions through the cursor API and returns
// those whose timestamp falls in [start, end), converted to the reference
// timezone. Credits (negative Plaid amounts) are skipped.
func (c *Client) GetTransactions(ctx context.Context, start, end time.Time, reference *time.Location) ([]models.Transaction, error) {
	var out []models.Transaction
	cursor := ""
	for {
		request := plaid.NewTransactionsSyncRequest(c.accessToken)
		if cursor != "" {
			request.SetCursor(cursor)
		}

		resp, _, err := c.api.PlaidApi.TransactionsSync(ctx).TransactionsSyncRequest(*request).Execute()
		if err != nil {
			return nil, &apperror.APIError{Service: "plaid", Operation: "transactions_sync", Err: err}
		}

		for _, raw := range resp.GetAdded() {
			txn, ok, err := transactionFromPlaid(raw, reference)
			if err != nil {
				c.logger.WithError(err).Warn("Skipping unparsable bank transaction",
					logging.Field{Key: logging.FieldLocation, Value: raw.GetName()})
				continue
			}
			if !ok {
				continue
			}
			if inWindow(txn.Timestamp, start, end) {
				out = append(out, txn)
			}
		}

		cursor = resp.GetNextCursor()
		if !resp.GetHasMore() {
			break
		}
	}

	c.logger.Info("Retrieved bank transactions",
		logging.Field{Key: logging.FieldCount, Value: len(out)})
	return out, nil
}

// TransferToSavings initiates an ACH credit transfer of the given amount to
// the savings account. Returns the created transfer ID.
func (c *Client) TransferToSavings(ctx context.Context, savingsAccountID, legalName string, amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", apperror.NewValidationError("amount", amount.String(), "must be positive")
	}
	if savingsAccountID == "" {
		return "", apperror.NewValidationError("savings_account_id", savingsAccountID, "required")
	}

	user := plaid.NewTransferAuthorizationUserInRequest(legalName)
	authRequest := plaid.NewTransferAuthorizationCreateRequest(
		c.accessToken,
		savingsAccountID,
		plaid.TRANSFERTYPE_CREDIT,
		plaid.TRANSFERNETWORK_ACH,
		amount.StringFixed(2),
		*user,
	)
	authRequest.SetAchClass(plaid.ACHCLASS_PPD)

	authResp, _, err := c.api.PlaidApi.TransferAuthorizationCreate(ctx).
		TransferAuthorizationCreateRequest(*authRequest).Execute()
	if err != nil {
		return "", &apperror.APIError{Service: "plaid", Operation: "transfer_authorization_create", Err: err}
	}

	authorization := authResp.GetAuthorization()
	if authorization.GetDecision() != "approved" {
		return "", &apperror.APIError{
			Service:   "plaid",
			Operation: "transfer_authorization_create",
			Err:       fmt.Errorf("authorization %s: %s", authorization.GetId(), authorization.GetDecision()),
		}
	}

	createRequest := plaid.NewTransferCreateRequest(
		c.accessToken,
		savingsAccountID,
		authorization.GetId(),
		"Budget save",
	)
	createResp, _, err := c.api.PlaidApi.TransferCreate(ctx).
		TransferCreateRequest(*createRequest).Execute()
	if err != nil {
		return "", &apperror.APIError{Service: "plaid", Operation: "transfer_create", Err: err}
	}

	transfer := createResp.GetTransfer()
	c.logger.Info("Initiated savings transfer",
		logging.Field{Key: logging.FieldAmount, Value: amount.StringFixed(2)},
		logging.Field{Key: "transfer_id", Value: transfer.GetId()})
	return transfer.GetId(), nil
}

// transactionFromPlaid converts a Plaid transaction to the internal model.
// The second return is false for credits, which are not spending.
func transactionFromPlaid(raw plaid.Transaction, reference *time.Location) (models.Transaction, bool, error) {
	amount := decimal.NewFromFloat(raw.GetAmount())
	if amount.IsNegative() {
		return models.Transaction{}, false, nil
	}

	location := raw.GetMerchantName()
	if location == "" {
		location = raw.GetName()
	}

	timestamp := raw.GetDate()
	if dt := raw.GetDatetime(); !dt.IsZero() {
		timestamp = dt.Format(time.RFC3339)
	}

	txn, err := models.NewTransaction(location, amount.StringFixed(2), timestamp, reference,
		models.WithTransactionID(raw.GetTransactionId()),
		models.WithDescription(raw.GetName()))
	if err != nil {
		return models.Transaction{}, false, err
	}
	return txn, true, nil
}

func inWindow(ts, start, end time.Time) bool {
	return !ts.Before(start) && ts.Before(end)
}

// Package expenses maps the expense-tracking REST API onto Go methods.
//
// Every method issues exactly one request through the injected transport and
// returns the parsed JSON body unchanged. Errors from the transport are
// returned as-is.
package expenses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/totoapp/expenses-client/pkg/httpclient"
)

// Operation names attached to every request.
const (
	OpPostExpense              = "post_expense"
	OpDeleteExpense            = "delete_expense"
	OpPutExpense               = "put_expense"
	OpPostExpensesFile         = "post_expenses_file"
	OpConfirmUploads           = "confirm_uploads"
	OpGetUploads               = "get_uploads"
	OpGetUploadedMonth         = "get_uploaded_month"
	OpGetUploadStatus          = "get_upload_status"
	OpDeleteAllUploads         = "delete_all_uploads"
	OpGetAppSettings           = "get_app_settings"
	OpGetSettings              = "get_settings"
	OpGetExpensesPerDay        = "get_expenses_per_day"
	OpGetMonthTotalSpending    = "get_month_total_spending"
	OpGetExpensesPerMonth      = "get_expenses_per_month"
	OpGetExpensesPerYear       = "get_expenses_per_year"
	OpGetExpenses              = "get_expenses"
	OpGetExpensesWithTag       = "get_expenses_with_tag"
	OpGetTopCategoriesPerMonth = "get_top_categories_per_month"
	OpGetTopCategoriesOfMonth  = "get_top_categories_of_month"
	OpConsolidateExpense       = "consolidate_expense"
)

const (
	expensesPath     = "/expenses/expenses"
	uploadsPath      = "/expenses/import/uploads"
	uploadStatusRoot = "/react/expenses/impoco/uploads"
	appSettingsPath  = "/app/expenses/settings"
	settingsPath     = "/expenses/settings"
	statsPath        = "/expenses/stats"
)

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

// Transport is the collaborator that performs the HTTP calls.
type Transport = httpclient.Transport

// File is an upload payload.
type File = httpclient.File

// Client is a stateless facade over the expenses API.
type Client struct {
	transport Transport
}

// New builds a client around a shared transport.
func New(t Transport) *Client {
	return &Client{transport: t}
}

type uploadConfirmation struct {
	Months []string `json:"months"`
	User   string   `json:"user"`
}

type consolidation struct {
	Consolidated bool `json:"consolidated"`
}

// PostExpense creates an expense.
func (c *Client) PostExpense(ctx context.Context, ex any) (json.RawMessage, error) {
	return c.send(ctx, OpPostExpense, http.MethodPost, expensesPath, ex)
}

// DeleteExpense deletes the expense with the given id.
func (c *Client) DeleteExpense(ctx context.Context, id string) (json.RawMessage, error) {
	return c.send(ctx, OpDeleteExpense, http.MethodDelete, expensesPath+"/"+segment(id), nil)
}

// PutExpense replaces the expense with the given id.
func (c *Client) PutExpense(ctx context.Context, id string, ex any) (json.RawMessage, error) {
	return c.send(ctx, OpPutExpense, http.MethodPut, expensesPath+"/"+segment(id), ex)
}

// PostExpensesFile uploads a bank statement for import.
func (c *Client) PostExpensesFile(ctx context.Context, file File, bankCode, user string) (json.RawMessage, error) {
	q := (&query{}).set("user", user)
	path := withQuery(uploadsPath+"/"+segment(bankCode), q)
	return c.transport.UploadFile(ctx, path, file, httpclient.RequestOptions{
		Method:    http.MethodPost,
		Operation: OpPostExpensesFile,
	})
}

// ConfirmUploads confirms the uploaded months.
func (c *Client) ConfirmUploads(ctx context.Context, months []string, user string) (json.RawMessage, error) {
	body := uploadConfirmation{Months: months, User: user}
	return c.send(ctx, OpConfirmUploads, http.MethodPost, uploadsPath+"/confirm", body)
}

// GetUploads lists the user's uploads.
func (c *Client) GetUploads(ctx context.Context, user string) (json.RawMessage, error) {
	q := (&query{}).set("user", user)
	return c.get(ctx, OpGetUploads, withQuery(uploadsPath, q))
}

// GetUploadedMonth returns one uploaded month.
func (c *Client) GetUploadedMonth(ctx context.Context, monthID string) (json.RawMessage, error) {
	return c.get(ctx, OpGetUploadedMonth, uploadsPath+"/"+segment(monthID))
}

// GetUploadStatus returns the processing status of an uploaded month.
// The route lives under a different root than the other upload endpoints on
// the backend and is kept that way.
func (c *Client) GetUploadStatus(ctx context.Context, monthID string) (json.RawMessage, error) {
	return c.get(ctx, OpGetUploadStatus, uploadStatusRoot+"/"+segment(monthID)+"/status")
}

// DeleteAllUploads removes every upload of the user.
func (c *Client) DeleteAllUploads(ctx context.Context, user string) (json.RawMessage, error) {
	q := (&query{}).set("user", user)
	return c.transport.Request(ctx, withQuery(uploadsPath, q), httpclient.RequestOptions{
		Method:    http.MethodDelete,
		Headers:   jsonHeaders,
		Operation: OpDeleteAllUploads,
	})
}

// GetAppSettings reads settings from the /app/expenses service.
func (c *Client) GetAppSettings(ctx context.Context, user string) (json.RawMessage, error) {
	q := (&query{}).set("user", user)
	return c.get(ctx, OpGetAppSettings, withQuery(appSettingsPath, q))
}

// GetSettings reads the user's expense settings.
func (c *Client) GetSettings(ctx context.Context, user string) (json.RawMessage, error) {
	q := (&query{}).set("user", user)
	return c.get(ctx, OpGetSettings, withQuery(settingsPath, q))
}

// GetExpensesPerDay returns daily totals from dateFrom, optionally up to dateTo.
func (c *Client) GetExpensesPerDay(ctx context.Context, user, dateFrom string, dateTo, targetCurrency *string) (json.RawMessage, error) {
	q := (&query{}).
		set("user", user).
		set("dateFrom", dateFrom).
		optString("dateTo", dateTo).
		optString("targetCurrency", targetCurrency)
	return c.get(ctx, OpGetExpensesPerDay, withQuery(statsPath+"/expensesPerDay", q))
}

// GetMonthTotalSpending returns the total spent in yearMonth.
func (c *Client) GetMonthTotalSpending(ctx context.Context, user, yearMonth string, targetCurrency *string) (json.RawMessage, error) {
	q := (&query{}).
		set("user", user).
		optString("targetCurrency", targetCurrency)
	path := fmt.Sprintf("%s/%s/total", expensesPath, segment(yearMonth))
	return c.get(ctx, OpGetMonthTotalSpending, withQuery(path, q))
}

// GetExpensesPerMonth returns monthly totals from yearMonthGte onwards.
func (c *Client) GetExpensesPerMonth(ctx context.Context, user, yearMonthGte string, targetCurrency *string) (json.RawMessage, error) {
	q := (&query{}).
		set("user", user).
		set("yearMonthGte", yearMonthGte).
		optString("targetCurrency", targetCurrency)
	return c.get(ctx, OpGetExpensesPerMonth, withQuery(statsPath+"/expensesPerMonth", q))
}

// GetExpensesPerYear returns yearly totals.
func (c *Client) GetExpensesPerYear(ctx context.Context, user string, targetCurrency *string) (json.RawMessage, error) {
	q := (&query{}).
		set("user", user).
		optString("targetCurrency", targetCurrency)
	return c.get(ctx, OpGetExpensesPerYear, withQuery(statsPath+"/expensesPerYear", q))
}

// GetExpenses lists the expenses of yearMonth, newest first.
func (c *Client) GetExpenses(ctx context.Context, user, yearMonth string) (json.RawMessage, error) {
	q := (&query{}).
		set("yearMonth", yearMonth).
		set("sortDate", "true").
		set("sortDesc", "true").
		set("user", user)
	return c.get(ctx, OpGetExpenses, withQuery(expensesPath, q))
}

// GetExpensesWithTag lists expenses carrying tag, formatted as "name:value"
// (e.g. "source:bank-statement"), newest first.
func (c *Client) GetExpensesWithTag(ctx context.Context, user, tag string) (json.RawMessage, error) {
	q := (&query{}).
		set("sortDate", "true").
		set("sortDesc", "true").
		set("user", user).
		set("tag", tag)
	return c.get(ctx, OpGetExpensesWithTag, withQuery(expensesPath, q))
}

// GetTopSpendingCategoriesPerMonth returns the top categories of each month from yearMonthGte.
func (c *Client) GetTopSpendingCategoriesPerMonth(ctx context.Context, user, yearMonthGte string, targetCurrency *string) (json.RawMessage, error) {
	q := (&query{}).
		set("user", user).
		set("yearMonthGte", yearMonthGte).
		optString("targetCurrency", targetCurrency)
	return c.get(ctx, OpGetTopCategoriesPerMonth, withQuery(statsPath+"/topCategoriesPerMonth", q))
}

// GetTopSpendingCategoriesOfMonth returns the top categories of yearMonth.
func (c *Client) GetTopSpendingCategoriesOfMonth(ctx context.Context, user, yearMonth string, maxCategories *int, targetCurrency *string) (json.RawMessage, error) {
	q := (&query{}).
		set("user", user).
		set("yearMonth", yearMonth).
		optInt("maxCategories", maxCategories).
		optString("targetCurrency", targetCurrency)
	return c.get(ctx, OpGetTopCategoriesOfMonth, withQuery(statsPath+"/topCategoriesOfMonth", q))
}

// ConsolidateExpense marks the expense as consolidated. Only the
// consolidated flag is sent; the server applies it as a partial update.
func (c *Client) ConsolidateExpense(ctx context.Context, id string) (json.RawMessage, error) {
	return c.send(ctx, OpConsolidateExpense, http.MethodPut, expensesPath+"/"+segment(id), consolidation{Consolidated: true})
}

func (c *Client) get(ctx context.Context, op, path string) (json.RawMessage, error) {
	return c.transport.Request(ctx, path, httpclient.RequestOptions{
		Method:    http.MethodGet,
		Operation: op,
	})
}

func (c *Client) send(ctx context.Context, op, method, path string, body any) (json.RawMessage, error) {
	return c.transport.Request(ctx, path, httpclient.RequestOptions{
		Method:    method,
		Body:      body,
		Operation: op,
	})
}

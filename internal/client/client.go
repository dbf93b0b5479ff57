// Package client is the typed Go client for the order tracking API. The
// terminal UI and the seeding tool go through it; nothing in here talks to
// the database directly.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bitzerlab/ordertrack/internal/entity"
	"github.com/bitzerlab/ordertrack/internal/service"
)

// APIError is a non-2xx response. Detail carries the server's message when
// the body was the usual {"detail": "..."} shape; Body keeps the raw bytes
// for everything else.
type APIError struct {
	StatusCode int
	Detail     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	if e.Body != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// Client communicates with the order tracking REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithToken sets the bearer token for authenticated endpoints.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken swaps the bearer token, e.g. after a login.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, target any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = strings.NewReader(string(b))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if resp.StatusCode == http.StatusNoContent || target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}

	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(bodyBytes, &detail); err == nil && detail.Detail != "" {
		apiErr.Detail = detail.Detail
	}
	return apiErr
}

// ---- Orders ----

// CreateOrderInput mirrors the POST /orders body.
type CreateOrderInput struct {
	OrderNumber    int64        `json:"order_number"`
	MaterialNumber int64        `json:"material_number"`
	StartDate      *entity.Date `json:"start_date,omitempty"`
	EndDate        *entity.Date `json:"end_date,omitempty"`
	NumPieces      int64        `json:"num_pieces"`
}

// ListOrders returns all orders, sorted by order number.
func (c *Client) ListOrders(ctx context.Context) ([]entity.Order, error) {
	var result []entity.Order
	err := c.doJSON(ctx, http.MethodGet, "/orders", nil, &result)
	return result, err
}

// GetOrder resolves an order by internal id or order number.
func (c *Client) GetOrder(ctx context.Context, ref int64) (*entity.Order, error) {
	var result entity.Order
	err := c.doJSON(ctx, http.MethodGet, "/orders/"+strconv.FormatInt(ref, 10), nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateOrder creates a new order.
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*entity.Order, error) {
	var result entity.Order
	err := c.doJSON(ctx, http.MethodPost, "/orders", input, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateOrder patches single fields. The map value nil clears a nullable
// column; absent keys are untouched.
func (c *Client) UpdateOrder(ctx context.Context, ref int64, fields map[string]any) (*entity.Order, error) {
	var result entity.Order
	err := c.doJSON(ctx, http.MethodPatch, "/orders/"+strconv.FormatInt(ref, 10), fields, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ---- Operations ----

// CreateOperationInput mirrors the POST /operations body.
type CreateOperationInput struct {
	OrderID       int64  `json:"order_id"`
	OperationCode string `json:"operation_code"`
	MachineID     *int64 `json:"machine_id,omitempty"`
}

// ListOperationsByOrder returns the operations under an order number.
func (c *Client) ListOperationsByOrder(ctx context.Context, orderNumber int64) ([]entity.Operation, error) {
	var result []entity.Operation
	path := fmt.Sprintf("/orders/%d/operations", orderNumber)
	err := c.doJSON(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

// GetOperation returns one operation by id.
func (c *Client) GetOperation(ctx context.Context, id int64) (*entity.Operation, error) {
	var result entity.Operation
	err := c.doJSON(ctx, http.MethodGet, "/operations/"+strconv.FormatInt(id, 10), nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ResolveOperationID maps (order number, operation code) to an internal id.
func (c *Client) ResolveOperationID(ctx context.Context, orderNumber int64, operationCode string) (int64, error) {
	var result struct {
		ID int64 `json:"id"`
	}
	path := fmt.Sprintf("/operations/get_id?order_number=%d&operation_code=%s",
		orderNumber, url.QueryEscape(operationCode))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return 0, err
	}
	return result.ID, nil
}

// CreateOperation creates an operation under an order.
func (c *Client) CreateOperation(ctx context.Context, input CreateOperationInput) (*entity.Operation, error) {
	var result entity.Operation
	err := c.doJSON(ctx, http.MethodPost, "/operations", input, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateOperation patches an operation.
func (c *Client) UpdateOperation(ctx context.Context, id int64, fields map[string]any) (*entity.Operation, error) {
	var result entity.Operation
	err := c.doJSON(ctx, http.MethodPatch, "/operations/"+strconv.FormatInt(id, 10), fields, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPieces returns the piece totals over an operation's tasks.
func (c *Client) GetPieces(ctx context.Context, operationID int64) (*entity.PieceSummary, error) {
	var result entity.PieceSummary
	path := fmt.Sprintf("/operations/%d/pieces", operationID)
	err := c.doJSON(ctx, http.MethodGet, path, nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ---- Tasks ----

// CreateTaskInput mirrors the POST /operations/{id}/tasks body.
type CreateTaskInput struct {
	ProcessType    entity.ProcessType `json:"process_type"`
	OperatorUserID *int64             `json:"operator_user_id,omitempty"`
	StartAt        *time.Time         `json:"start_at,omitempty"`
	EndAt          *time.Time         `json:"end_at,omitempty"`
	NumBenches     *int64             `json:"num_benches,omitempty"`
	NumMachines    *int64             `json:"num_machines,omitempty"`
	GoodPieces     *int64             `json:"good_pieces,omitempty"`
	BadPieces      *int64             `json:"bad_pieces,omitempty"`
	Notes          *string            `json:"notes,omitempty"`
}

// taskWire tolerates the field names older server builds used
// (start_time/end_time, goodpcs/badpcs and a bare operator name)
// alongside the current ones.
type taskWire struct {
	entity.Task
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	GoodPcs   *int64     `json:"goodpcs"`
	BadPcs    *int64     `json:"badpcs"`
	Operator  string     `json:"operator"`
}

func (w *taskWire) normalize() *entity.Task {
	task := w.Task
	if task.StartAt == nil {
		task.StartAt = w.StartTime
	}
	if task.EndAt == nil {
		task.EndAt = w.EndTime
	}
	if task.GoodPieces == nil {
		task.GoodPieces = w.GoodPcs
	}
	if task.BadPieces == nil {
		task.BadPieces = w.BadPcs
	}
	// Old builds sent the operator as a free-text name with no user
	// record behind it.
	if task.OperatorUser == nil && w.Operator != "" {
		task.OperatorUser = &entity.User{Name: w.Operator}
	}
	return &task
}

// ListTasks returns the tasks logged against an operation.
func (c *Client) ListTasks(ctx context.Context, operationID int64) ([]entity.Task, error) {
	var wires []taskWire
	path := fmt.Sprintf("/operations/%d/tasks", operationID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &wires); err != nil {
		return nil, err
	}
	tasks := make([]entity.Task, len(wires))
	for i := range wires {
		tasks[i] = *wires[i].normalize()
	}
	return tasks, nil
}

// GetTask returns one task by id.
func (c *Client) GetTask(ctx context.Context, id int64) (*entity.Task, error) {
	var wire taskWire
	if err := c.doJSON(ctx, http.MethodGet, "/tasks/"+strconv.FormatInt(id, 10), nil, &wire); err != nil {
		return nil, err
	}
	return wire.normalize(), nil
}

// CreateTask logs a new task under an operation.
func (c *Client) CreateTask(ctx context.Context, operationID int64, input CreateTaskInput) (*entity.Task, error) {
	var wire taskWire
	path := fmt.Sprintf("/operations/%d/tasks", operationID)
	if err := c.doJSON(ctx, http.MethodPost, path, input, &wire); err != nil {
		return nil, err
	}
	return wire.normalize(), nil
}

// UpdateTask patches a task. Explicit nil values clear nullable fields.
func (c *Client) UpdateTask(ctx context.Context, id int64, fields map[string]any) (*entity.Task, error) {
	var wire taskWire
	if err := c.doJSON(ctx, http.MethodPatch, "/tasks/"+strconv.FormatInt(id, 10), fields, &wire); err != nil {
		return nil, err
	}
	return wire.normalize(), nil
}

// ---- Machines and users ----

// ListMachines returns work centers, optionally only active ones.
func (c *Client) ListMachines(ctx context.Context, activeOnly bool) ([]entity.Machine, error) {
	path := "/machines"
	if activeOnly {
		path += "?active=true"
	}
	var result []entity.Machine
	err := c.doJSON(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

// ListUsers returns operator accounts, optionally only active ones.
func (c *Client) ListUsers(ctx context.Context, activeOnly bool) ([]entity.User, error) {
	path := "/users"
	if activeOnly {
		path += "?active=true"
	}
	var result []entity.User
	err := c.doJSON(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

// ---- Auth ----

// Login exchanges a user id or name for a token and stores the token on the
// client for subsequent calls.
func (c *Client) Login(ctx context.Context, userID *int64, name string) (*service.LoginResult, error) {
	body := service.LoginRequest{UserID: userID, Name: name}
	var result service.LoginResult
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	c.token = result.AccessToken
	return &result, nil
}

// Me returns the user behind the stored token.
func (c *Client) Me(ctx context.Context) (*entity.User, error) {
	var result entity.User
	err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout tells the server and drops the stored token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.token = ""
	return err
}

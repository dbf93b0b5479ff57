package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDecodesDetailErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Order number 1001 already exists"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.CreateOrder(context.Background(), CreateOrderInput{OrderNumber: 1001})
	if err == nil {
		t.Fatal("expected an error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Detail != "Order number 1001 already exists" {
		t.Errorf("expected the detail message, got %q", apiErr.Detail)
	}
}

func TestFallsBackToRawErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListOrders(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Detail != "" {
		t.Errorf("expected empty detail, got %q", apiErr.Detail)
	}
	if apiErr.Body != "upstream exploded" {
		t.Errorf("expected raw body preserved, got %q", apiErr.Body)
	}
}

func TestLegacyTaskFieldAdapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// An older server build: start_time/end_time, goodpcs/badpcs
		// and a bare operator name.
		w.Write([]byte(`{
			"id": 7,
			"operation_id": 3,
			"process_type": "PROCESSING",
			"operator": "Alice",
			"start_time": "2025-08-22T08:00:00Z",
			"end_time": "2025-08-22T10:30:00Z",
			"goodpcs": 40,
			"badpcs": 2
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	task, err := c.GetTask(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.StartAt == nil || !task.StartAt.Equal(time.Date(2025, 8, 22, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("expected start_time mapped onto StartAt, got %v", task.StartAt)
	}
	if task.EndAt == nil {
		t.Fatal("expected end_time mapped onto EndAt")
	}
	if task.GoodPieces == nil || *task.GoodPieces != 40 {
		t.Errorf("expected goodpcs mapped onto GoodPieces, got %v", task.GoodPieces)
	}
	if task.BadPieces == nil || *task.BadPieces != 2 {
		t.Errorf("expected badpcs mapped onto BadPieces, got %v", task.BadPieces)
	}
	if got := task.Elapsed(time.Now()); got != 150*time.Minute {
		t.Errorf("expected a frozen 2h30m duration, got %v", got)
	}
	if task.OperatorUser == nil || task.OperatorUser.Name != "Alice" {
		t.Errorf("expected operator mapped onto OperatorUser, got %+v", task.OperatorUser)
	}
	if task.OperatorUser != nil && task.OperatorUser.ID != 0 {
		t.Errorf("a bare operator name has no user record, got id %d", task.OperatorUser.ID)
	}
}

func TestModernTaskFieldsWinOverLegacy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 8,
			"operation_id": 3,
			"process_type": "PROCESSING",
			"operator_user": {"id": 9, "name": "Dana"},
			"operator": "Alice",
			"start_at": "2025-08-22T09:00:00Z",
			"start_time": "2025-08-22T08:00:00Z",
			"good_pieces": 10,
			"goodpcs": 99
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	task, err := c.GetTask(context.Background(), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.StartAt == nil || task.StartAt.Hour() != 9 {
		t.Errorf("expected the current field name to win, got %v", task.StartAt)
	}
	if task.GoodPieces == nil || *task.GoodPieces != 10 {
		t.Errorf("expected good_pieces 10 to win over goodpcs, got %v", task.GoodPieces)
	}
	if task.OperatorUser == nil || task.OperatorUser.Name != "Dana" {
		t.Errorf("expected operator_user to win over the legacy name, got %+v", task.OperatorUser)
	}
}

func TestResolveOperationIDEscapesCode(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 12}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	id, err := c.ResolveOperationID(context.Background(), 1001, "00 10/A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 12 {
		t.Errorf("expected id 12, got %d", id)
	}
	if gotQuery != "order_number=1001&operation_code=00+10%2FA" {
		t.Errorf("unexpected query encoding: %q", gotQuery)
	}
}

func TestTokenSentAfterLogin(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"access_token": "tok-123", "expires_in": 3600, "user": {"id": 1, "name": "Ana"}}`))
		case "/auth/me":
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{"id": 1, "name": "Ana"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Login(context.Background(), nil, "Ana")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.AccessToken != "tok-123" {
		t.Errorf("expected token tok-123, got %q", result.AccessToken)
	}

	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("me: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/bitzerlab/ordertrack/internal/entity"
	"github.com/bitzerlab/ordertrack/internal/testutil"
)

func TestCreateOperationWithoutMachine(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 2001, 555101, 40)

	w := testutil.DoRequest(router, "POST", "/operations", map[string]interface{}{
		"order_id":       order.ID,
		"operation_code": "0010",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := testutil.ParseResponse(w)
	if body["operation_code"] != "0010" {
		t.Errorf("expected operation_code 0010, got %v", body["operation_code"])
	}
	if v, ok := body["machine_id"]; !ok || v != nil {
		t.Errorf("expected machine_id null, got %v", v)
	}
}

func TestCreateOperationDuplicateCode(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 2002, 555102, 40)
	other := testutil.SeedOrder(t, db, 2003, 555103, 40)
	testutil.SeedOperation(t, db, order.ID, "0010", nil)

	w := testutil.DoRequest(router, "POST", "/operations", map[string]interface{}{
		"order_id":       order.ID,
		"operation_code": "0010",
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate within order: expected 400, got %d", w.Code)
	}

	// The same code under a different order is fine.
	w = testutil.DoRequest(router, "POST", "/operations", map[string]interface{}{
		"order_id":       other.ID,
		"operation_code": "0010",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("same code, other order: expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateOperationUnknownOrder(t *testing.T) {
	router, _ := newTestEnv(t)

	w := testutil.DoRequest(router, "POST", "/operations", map[string]interface{}{
		"order_id":       424242,
		"operation_code": "0010",
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListOperationsByOrderNumber(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 2004, 555104, 40)
	testutil.SeedOperation(t, db, order.ID, "0010", nil)
	testutil.SeedOperation(t, db, order.ID, "0020", nil)

	w := testutil.DoRequest(router, "GET", fmt.Sprintf("/orders/%d/operations", order.OrderNumber), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	list := testutil.ParseList(w)
	if len(list) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(list))
	}
}

func TestResolveOperationID(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 2005, 555105, 40)
	op := testutil.SeedOperation(t, db, order.ID, "0030", nil)

	w := testutil.DoRequest(router, "GET",
		fmt.Sprintf("/operations/get_id?order_number=%d&operation_code=0030", order.OrderNumber), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := testutil.ParseResponse(w)
	if int64(body["id"].(float64)) != op.ID {
		t.Errorf("expected id %d, got %v", op.ID, body["id"])
	}

	w = testutil.DoRequest(router, "GET",
		fmt.Sprintf("/operations/get_id?order_number=%d&operation_code=9999", order.OrderNumber), nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown code: expected 404, got %d", w.Code)
	}
}

func TestUpdateOperationMachineAssignment(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 2006, 555106, 40)
	machine := testutil.SeedMachine(t, db, "HAL-01", "5-axis mill", entity.MachineCNC)
	op := testutil.SeedOperation(t, db, order.ID, "0010", nil)

	w := testutil.DoRequest(router, "PATCH", fmt.Sprintf("/operations/%d", op.ID), map[string]interface{}{
		"machine_id": machine.ID,
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("assign: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := testutil.ParseResponse(w)
	if int64(body["machine_id"].(float64)) != machine.ID {
		t.Errorf("expected machine_id %d, got %v", machine.ID, body["machine_id"])
	}

	// Explicit null clears the assignment back to "no machine".
	w = testutil.DoRequest(router, "PATCH", fmt.Sprintf("/operations/%d", op.ID), map[string]interface{}{
		"machine_id": nil,
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("clear: expected 200, got %d", w.Code)
	}
	body = testutil.ParseResponse(w)
	if body["machine_id"] != nil {
		t.Errorf("expected machine_id null after clear, got %v", body["machine_id"])
	}
}

func TestUpdateOperationUnknownMachine(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 2007, 555107, 40)
	op := testutil.SeedOperation(t, db, order.ID, "0010", nil)

	w := testutil.DoRequest(router, "PATCH", fmt.Sprintf("/operations/%d", op.ID), map[string]interface{}{
		"machine_id": 424242,
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestOperationPieceSummary(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 2008, 555108, 40)
	op := testutil.SeedOperation(t, db, order.ID, "0010", nil)

	for _, counts := range [][2]int64{{10, 1}, {15, 2}} {
		good, bad := counts[0], counts[1]
		w := testutil.DoRequest(router, "POST", fmt.Sprintf("/operations/%d/tasks", op.ID), map[string]interface{}{
			"process_type": "PROCESSING",
			"good_pieces":  good,
			"bad_pieces":   bad,
		}, "")
		if w.Code != http.StatusCreated {
			t.Fatalf("create task: expected 201, got %d: %s", w.Code, w.Body.String())
		}
	}
	// A task with no counts must not disturb the totals.
	w := testutil.DoRequest(router, "POST", fmt.Sprintf("/operations/%d/tasks", op.ID), map[string]interface{}{
		"process_type": "PREPARATION",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create preparation task: expected 201, got %d", w.Code)
	}

	w = testutil.DoRequest(router, "GET", fmt.Sprintf("/operations/%d/pieces", op.ID), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := testutil.ParseResponse(w)
	if body["good_pieces"].(float64) != 25 {
		t.Errorf("expected 25 good pieces, got %v", body["good_pieces"])
	}
	if body["bad_pieces"].(float64) != 3 {
		t.Errorf("expected 3 bad pieces, got %v", body["bad_pieces"])
	}
}

func TestLegacyOperationAlias(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 2009, 555109, 40)
	op := testutil.SeedOperation(t, db, order.ID, "0010", nil)

	w := testutil.DoRequest(router, "GET", fmt.Sprintf("/operation/%d", op.ID), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from legacy alias, got %d", w.Code)
	}
	body := testutil.ParseResponse(w)
	if int64(body["id"].(float64)) != op.ID {
		t.Errorf("expected id %d, got %v", op.ID, body["id"])
	}
}

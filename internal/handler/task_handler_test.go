package handler_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bitzerlab/ordertrack/internal/entity"
	"github.com/bitzerlab/ordertrack/internal/testutil"
)

func TestCreateTaskMinimal(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 3001, 555201, 40)
	op := testutil.SeedOperation(t, db, order.ID, "0010", nil)

	w := testutil.DoRequest(router, "POST", fmt.Sprintf("/operations/%d/tasks", op.ID), map[string]interface{}{
		"process_type": "PROCESSING",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := testutil.ParseResponse(w)
	if body["process_type"] != "PROCESSING" {
		t.Errorf("expected process_type PROCESSING, got %v", body["process_type"])
	}
	for _, field := range []string{"operator_user_id", "operator_bitzer_id", "start_at", "end_at", "notes"} {
		if v, ok := body[field]; !ok || v != nil {
			t.Errorf("expected %s null, got %v", field, v)
		}
	}
}

func TestCreateTaskRejectsBadInput(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 3002, 555202, 40)
	op := testutil.SeedOperation(t, db, order.ID, "0010", nil)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"unknown process type", map[string]interface{}{"process_type": "MILLING"}},
		{"end without start", map[string]interface{}{
			"process_type": "PROCESSING",
			"end_at":       time.Now().Format(time.RFC3339),
		}},
		{"end before start", map[string]interface{}{
			"process_type": "PROCESSING",
			"start_at":     time.Now().Format(time.RFC3339),
			"end_at":       time.Now().Add(-time.Hour).Format(time.RFC3339),
		}},
		{"negative count", map[string]interface{}{
			"process_type": "PROCESSING",
			"good_pieces":  -1,
		}},
		{"oversized notes", map[string]interface{}{
			"process_type": "PROCESSING",
			"notes":        strings.Repeat("x", entity.NotesMaxLen+1),
		}},
		{"unknown operator", map[string]interface{}{
			"process_type":     "PROCESSING",
			"operator_user_id": 424242,
		}},
	}
	for _, tc := range cases {
		w := testutil.DoRequest(router, "POST", fmt.Sprintf("/operations/%d/tasks", op.ID), tc.body, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, w.Code)
		}
	}
}

func TestTaskOperatorSnapshot(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 3003, 555203, 40)
	op := testutil.SeedOperation(t, db, order.ID, "0010", nil)
	bitzerID := int64(77042)
	user := testutil.SeedUser(t, db, "Ana Pereira", &bitzerID, false)
	task := testutil.SeedTask(t, db, op.ID, entity.ProcessProcessing)

	// Linking the operator snapshots the personnel number onto the task.
	w := testutil.DoRequest(router, "PATCH", fmt.Sprintf("/tasks/%d", task.ID), map[string]interface{}{
		"operator_user_id": user.ID,
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("link: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := testutil.ParseResponse(w)
	if int64(body["operator_user_id"].(float64)) != user.ID {
		t.Errorf("expected operator_user_id %d, got %v", user.ID, body["operator_user_id"])
	}
	if int64(body["operator_bitzer_id"].(float64)) != bitzerID {
		t.Errorf("expected operator_bitzer_id %d, got %v", bitzerID, body["operator_bitzer_id"])
	}

	// Unlinking clears both halves of the pair.
	w = testutil.DoRequest(router, "PATCH", fmt.Sprintf("/tasks/%d", task.ID), map[string]interface{}{
		"operator_user_id": nil,
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("unlink: expected 200, got %d", w.Code)
	}
	body = testutil.ParseResponse(w)
	if body["operator_user_id"] != nil || body["operator_bitzer_id"] != nil {
		t.Errorf("expected both operator fields null, got %v / %v",
			body["operator_user_id"], body["operator_bitzer_id"])
	}
}

func TestTaskTimestampPatchAgainstExistingState(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 3004, 555204, 40)
	op := testutil.SeedOperation(t, db, order.ID, "0010", nil)
	task := testutil.SeedTask(t, db, op.ID, entity.ProcessProcessing)

	start := time.Date(2025, 8, 22, 8, 0, 0, 0, time.UTC)
	w := testutil.DoRequest(router, "PATCH", fmt.Sprintf("/tasks/%d", task.ID), map[string]interface{}{
		"start_at": start.Format(time.RFC3339),
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("set start: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Ending before the stored start must fail.
	w = testutil.DoRequest(router, "PATCH", fmt.Sprintf("/tasks/%d", task.ID), map[string]interface{}{
		"end_at": start.Add(-time.Minute).Format(time.RFC3339),
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("end before start: expected 400, got %d", w.Code)
	}

	// A valid end freezes the session.
	w = testutil.DoRequest(router, "PATCH", fmt.Sprintf("/tasks/%d", task.ID), map[string]interface{}{
		"end_at": start.Add(2 * time.Hour).Format(time.RFC3339),
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("set end: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := testutil.ParseResponse(w)
	if body["end_at"] == nil {
		t.Error("expected end_at set")
	}
}

func TestTaskNotesNormalized(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 3005, 555205, 40)
	op := testutil.SeedOperation(t, db, order.ID, "0010", nil)
	task := testutil.SeedTask(t, db, op.ID, entity.ProcessQualityControl)

	w := testutil.DoRequest(router, "PATCH", fmt.Sprintf("/tasks/%d", task.ID), map[string]interface{}{
		"notes": "  tool change at piece 12  ",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := testutil.ParseResponse(w)
	if body["notes"] != "tool change at piece 12" {
		t.Errorf("expected trimmed notes, got %q", body["notes"])
	}

	// Blank notes collapse to null rather than an empty string.
	w = testutil.DoRequest(router, "PATCH", fmt.Sprintf("/tasks/%d", task.ID), map[string]interface{}{
		"notes": "   ",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body = testutil.ParseResponse(w)
	if body["notes"] != nil {
		t.Errorf("expected notes null, got %v", body["notes"])
	}
}

func TestTaskPutAndPatchEquivalent(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 3006, 555206, 40)
	op := testutil.SeedOperation(t, db, order.ID, "0010", nil)
	task := testutil.SeedTask(t, db, op.ID, entity.ProcessProcessing)

	for _, method := range []string{"PUT", "PATCH"} {
		w := testutil.DoRequest(router, method, fmt.Sprintf("/tasks/%d", task.ID), map[string]interface{}{
			"num_benches": 2,
		}, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", method, w.Code)
		}
		body := testutil.ParseResponse(w)
		if body["num_benches"].(float64) != 2 {
			t.Errorf("%s: expected num_benches 2, got %v", method, body["num_benches"])
		}
	}
}

func TestLegacyTaskAlias(t *testing.T) {
	router, db := newTestEnv(t)

	order := testutil.SeedOrder(t, db, 3007, 555207, 40)
	op := testutil.SeedOperation(t, db, order.ID, "0010", nil)
	task := testutil.SeedTask(t, db, op.ID, entity.ProcessPreparation)

	w := testutil.DoRequest(router, "GET", fmt.Sprintf("/task/%d", task.ID), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from legacy alias, got %d", w.Code)
	}
	body := testutil.ParseResponse(w)
	if int64(body["id"].(float64)) != task.ID {
		t.Errorf("expected id %d, got %v", task.ID, body["id"])
	}
}

func TestOrderOperationTaskFlow(t *testing.T) {
	router, _ := newTestEnv(t)

	w := testutil.DoRequest(router, "POST", "/orders", map[string]interface{}{
		"order_number":    3100,
		"material_number": 555300,
		"num_pieces":      120,
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	orderID := int64(testutil.ParseResponse(w)["id"].(float64))

	w = testutil.DoRequest(router, "POST", "/operations", map[string]interface{}{
		"order_id":       orderID,
		"operation_code": "0010",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create operation: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	opID := int64(testutil.ParseResponse(w)["id"].(float64))

	w = testutil.DoRequest(router, "POST", fmt.Sprintf("/operations/%d/tasks", opID), map[string]interface{}{
		"process_type": "PROCESSING",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	task := testutil.ParseResponse(w)
	if int64(task["operation_id"].(float64)) != opID {
		t.Errorf("expected operation_id %d, got %v", opID, task["operation_id"])
	}

	w = testutil.DoRequest(router, "GET", fmt.Sprintf("/operations/%d/tasks", opID), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list tasks: expected 200, got %d", w.Code)
	}
	if got := len(testutil.ParseList(w)); got != 1 {
		t.Errorf("expected 1 task, got %d", got)
	}
}

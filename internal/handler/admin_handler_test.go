package handler_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bitzerlab/ordertrack/internal/entity"
	"github.com/bitzerlab/ordertrack/internal/testutil"
	"github.com/gin-gonic/gin"
)

func uploadCSV(t *testing.T, router *gin.Engine, path, csvBody, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "machines.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte(csvBody))
	mw.Close()

	req, _ := http.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminSubtreeRequiresAdminClaim(t *testing.T) {
	router, _ := newTestEnv(t)

	w := testutil.DoRequest(router, "GET", "/admin/users", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}

	w = testutil.DoRequest(router, "GET", "/admin/users", nil, testutil.OperatorTestToken())
	if w.Code != http.StatusForbidden {
		t.Errorf("operator token: expected 403, got %d", w.Code)
	}

	w = testutil.DoRequest(router, "GET", "/admin/users", nil, testutil.AdminTestToken())
	if w.Code != http.StatusOK {
		t.Errorf("admin token: expected 200, got %d", w.Code)
	}
}

func TestAdminUserManagement(t *testing.T) {
	router, _ := newTestEnv(t)
	token := testutil.AdminTestToken()

	w := testutil.DoRequest(router, "POST", "/admin/users", map[string]interface{}{
		"name":      "Marta Silva",
		"bitzer_id": 77021,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	userID := int64(testutil.ParseResponse(w)["id"].(float64))

	// Deactivated accounts drop out of the public list but stay in the
	// admin list.
	w = testutil.DoRequest(router, "PATCH", fmt.Sprintf("/admin/users/%d", userID), map[string]interface{}{
		"active": false,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("deactivate: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "GET", "/users?active=true", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("public list: expected 200, got %d", w.Code)
	}
	for _, u := range testutil.ParseList(w) {
		if int64(u["id"].(float64)) == userID {
			t.Error("deactivated user leaked into the active list")
		}
	}

	w = testutil.DoRequest(router, "GET", "/admin/users", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("admin list: expected 200, got %d", w.Code)
	}
	found := false
	for _, u := range testutil.ParseList(w) {
		if int64(u["id"].(float64)) == userID {
			found = true
		}
	}
	if !found {
		t.Error("expected deactivated user in the admin list")
	}
}

func TestAdminMachineImport(t *testing.T) {
	router, _ := newTestEnv(t)
	token := testutil.AdminTestToken()

	csvBody := "machine_location,machine_description,machine_id,machine_type\n" +
		"HAL-01,5-axis mill,M100,CNC\n" +
		",orphan row,M999,CNC\n" +
		"HAL-02,manual lathe,M101,\n"

	w := uploadCSV(t, router, "/admin/machines/import", csvBody, token)
	if w.Code != http.StatusOK {
		t.Fatalf("import: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	result := testutil.ParseResponse(w)
	if result["imported"].(float64) != 2 {
		t.Errorf("expected 2 imported, got %v", result["imported"])
	}
	if result["skipped"].(float64) != 1 {
		t.Errorf("expected 1 skipped, got %v", result["skipped"])
	}

	w = testutil.DoRequest(router, "GET", "/machines", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	machines := testutil.ParseList(w)
	if len(machines) != 2 {
		t.Fatalf("expected 2 machines, got %d", len(machines))
	}
	types := map[string]string{}
	for _, m := range machines {
		types[m["machine_location"].(string)] = m["machine_type"].(string)
	}
	if types["HAL-01"] != "CNC" {
		t.Errorf("expected HAL-01 CNC, got %v", types["HAL-01"])
	}
	// A blank type falls back to the conventional default.
	if types["HAL-02"] != string(entity.MachineConventional) {
		t.Errorf("expected HAL-02 CONVENTIONAL, got %v", types["HAL-02"])
	}

	// Re-import updates in place, keyed on machine_location.
	w = uploadCSV(t, router, "/admin/machines/import",
		"machine_location,machine_description,machine_id,machine_type\nHAL-01,rebuilt mill,M100,CNC\n", token)
	if w.Code != http.StatusOK {
		t.Fatalf("re-import: expected 200, got %d", w.Code)
	}
	w = testutil.DoRequest(router, "GET", "/machines", nil, "")
	if got := len(testutil.ParseList(w)); got != 2 {
		t.Errorf("expected upsert to keep 2 machines, got %d", got)
	}
}

func TestAdminMachineImportRejectsBadCSV(t *testing.T) {
	router, _ := newTestEnv(t)
	token := testutil.AdminTestToken()

	w := uploadCSV(t, router, "/admin/machines/import", "description,machine_id\nno locations here,M1\n", token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing column: expected 400, got %d", w.Code)
	}
}

func TestAdminMachineToggle(t *testing.T) {
	router, db := newTestEnv(t)
	token := testutil.AdminTestToken()

	machine := testutil.SeedMachine(t, db, "HAL-03", "grinder", entity.MachineConventional)

	w := testutil.DoRequest(router, "PATCH", fmt.Sprintf("/admin/machines/%d", machine.ID), map[string]interface{}{
		"active": false,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "GET", "/machines?active=true", nil, "")
	for _, m := range testutil.ParseList(w) {
		if int64(m["id"].(float64)) == machine.ID {
			t.Error("inactive machine leaked into the active list")
		}
	}
}

func TestAdminExportOrders(t *testing.T) {
	router, db := newTestEnv(t)
	token := testutil.AdminTestToken()

	testutil.SeedOrder(t, db, 4001, 555401, 10)

	w := testutil.DoRequest(router, "GET", "/admin/export/orders", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("expected a non-empty spreadsheet body")
	}
}

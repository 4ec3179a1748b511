package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jaiparmani/ToolBoxWebServices/internal/routes"
	"github.com/jaiparmani/ToolBoxWebServices/models"
)

type env struct {
	db     *gorm.DB
	router *gin.Engine
	alice  models.User
	bob    models.User
	food   models.Category
	salary models.Category
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Tag{}, &models.Expense{},
		&models.ToolCategory{}, &models.Tool{}, &models.ToolExecution{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	e := &env{
		db:     db,
		alice:  models.User{Username: "alice", Email: "alice@example.com", PasswordHash: string(hash), IsActive: true},
		bob:    models.User{Username: "bob", Email: "bob@example.com", PasswordHash: string(hash), IsActive: true},
		food:   models.Category{Name: "Food", Color: "#e74c3c", TransactionType: models.TypeExpense, IsActive: true},
		salary: models.Category{Name: "Salary", Color: "#2ecc71", TransactionType: models.TypeIncome, IsActive: true},
	}
	for _, rec := range []any{&e.alice, &e.bob, &e.food, &e.salary} {
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	e.router = routes.Register(db, log)
	return e
}

func (e *env) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func (e *env) createExpense(t *testing.T, account uint, body gin.H) map[string]any {
	t.Helper()
	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/expenses?account=%d", account), body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create expense: status %d body %s", w.Code, w.Body.String())
	}
	return decode(t, w)
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	w := e.do(t, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status %d", w.Code)
	}
}

func TestExpenseLifecycle(t *testing.T) {
	e := newEnv(t)

	created := e.createExpense(t, e.alice.ID, gin.H{
		"amount":      "12.50",
		"category_id": e.food.ID,
		"description": "Lunch",
		"date":        "2026-08-15",
	})
	if created["amount"] != "12.50" || created["transaction_type"] != "expense" {
		t.Errorf("created = %v", created)
	}
	id := uint(created["id"].(float64))

	w := e.do(t, http.MethodGet, fmt.Sprintf("/api/expenses/%d?account=%d", id, e.alice.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}
	if got := decode(t, w); got["description"] != "Lunch" {
		t.Errorf("get = %v", got)
	}

	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/expenses/%d?account=%d", id, e.alice.ID), gin.H{
		"description": "Team lunch",
		"amount":      "20.00",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", w.Code, w.Body.String())
	}
	if got := decode(t, w); got["description"] != "Team lunch" || got["amount"] != "20.00" {
		t.Errorf("update = %v", got)
	}

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/expenses?account=%d", e.alice.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status %d", w.Code)
	}
	if got := decode(t, w); got["count"].(float64) != 1 {
		t.Errorf("list count = %v", got["count"])
	}

	w = e.do(t, http.MethodDelete, fmt.Sprintf("/api/expenses/%d?account=%d", id, e.alice.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", w.Code)
	}
	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/expenses/%d?account=%d", id, e.alice.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", w.Code)
	}
}

func TestCrossAccountIsolation(t *testing.T) {
	e := newEnv(t)
	created := e.createExpense(t, e.alice.ID, gin.H{
		"amount":      "30.00",
		"category_id": e.food.ID,
		"description": "Groceries",
		"date":        "2026-08-10",
	})
	id := uint(created["id"].(float64))

	// Another account's record is indistinguishable from a missing one.
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		var body any
		if method == http.MethodPut {
			body = gin.H{"description": "hijacked"}
		}
		w := e.do(t, method, fmt.Sprintf("/api/expenses/%d?account=%d", id, e.bob.ID), body)
		if w.Code != http.StatusNotFound {
			t.Errorf("%s as bob: status %d, want 404", method, w.Code)
		}
	}

	w := e.do(t, http.MethodGet, fmt.Sprintf("/api/expenses?account=%d", e.bob.ID), nil)
	if got := decode(t, w); got["count"].(float64) != 0 {
		t.Errorf("bob sees %v of alice's records", got["count"])
	}
}

func TestExpenseScopeHandling(t *testing.T) {
	e := newEnv(t)

	// Listing without an account degrades to an empty page.
	w := e.do(t, http.MethodGet, "/api/expenses", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unscoped list: status %d", w.Code)
	}
	if got := decode(t, w); got["count"].(float64) != 0 {
		t.Errorf("unscoped list count = %v", got["count"])
	}

	// Mutations and aggregates require it.
	w = e.do(t, http.MethodPost, "/api/expenses", gin.H{
		"amount": "5.00", "category_id": e.food.ID, "description": "x", "date": "2026-08-01",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unscoped create: status %d, want 400", w.Code)
	}
	w = e.do(t, http.MethodGet, "/api/expenses/summary", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unscoped summary: status %d, want 400", w.Code)
	}

	// An unknown account fails upfront at the boundary.
	w = e.do(t, http.MethodGet, "/api/expenses?account=999", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown account: status %d, want 400", w.Code)
	}
}

func TestExpenseCreateValidation(t *testing.T) {
	e := newEnv(t)
	target := fmt.Sprintf("/api/expenses?account=%d", e.alice.ID)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing amount", gin.H{"category_id": e.food.ID, "description": "x", "date": "2026-08-01"}},
		{"zero amount", gin.H{"amount": "0", "category_id": e.food.ID, "description": "x", "date": "2026-08-01"}},
		{"bad date", gin.H{"amount": "5.00", "category_id": e.food.ID, "description": "x", "date": "08/01/2026"}},
		{"unknown category", gin.H{"amount": "5.00", "category_id": 999, "description": "x", "date": "2026-08-01"}},
		{"type contradicts category", gin.H{"amount": "5.00", "category_id": e.food.ID, "description": "x", "date": "2026-08-01", "transaction_type": "income"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := e.do(t, http.MethodPost, target, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestExpenseTypeDefaultsFromCategory(t *testing.T) {
	e := newEnv(t)
	created := e.createExpense(t, e.alice.ID, gin.H{
		"amount":      "2500.00",
		"category_id": e.salary.ID,
		"description": "August pay",
		"date":        "2026-08-01",
	})
	if created["transaction_type"] != "income" {
		t.Errorf("transaction_type = %v, want income", created["transaction_type"])
	}
}

func TestSummaryEndpoint(t *testing.T) {
	e := newEnv(t)
	for _, body := range []gin.H{
		{"amount": "10.00", "category_id": e.food.ID, "description": "a", "date": "2026-08-01"},
		{"amount": "50.00", "category_id": e.salary.ID, "description": "b", "date": "2026-08-02"},
		{"amount": "5.00", "category_id": e.food.ID, "description": "c", "date": "2026-08-03"},
	} {
		e.createExpense(t, e.alice.ID, body)
	}

	w := e.do(t, http.MethodGet, fmt.Sprintf("/api/expenses/summary?account=%d", e.alice.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary: status %d body %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["total_expenses"] != "15.00" || got["total_income"] != "50.00" || got["net_balance"] != "35.00" {
		t.Errorf("summary = %v", got)
	}
	if got["transaction_count"].(float64) != 3 {
		t.Errorf("transaction_count = %v", got["transaction_count"])
	}
	breakdown := got["category_breakdown"].(map[string]any)
	if breakdown["Food"] != "15.00" {
		t.Errorf("category_breakdown = %v", breakdown)
	}
}

func TestRecentEndpoint(t *testing.T) {
	e := newEnv(t)
	today := time.Now().Format("2006-01-02")
	old := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	e.createExpense(t, e.alice.ID, gin.H{"amount": "9.00", "category_id": e.food.ID, "description": "fresh", "date": today})
	e.createExpense(t, e.alice.ID, gin.H{"amount": "9.00", "category_id": e.food.ID, "description": "stale", "date": old})

	w := e.do(t, http.MethodGet, fmt.Sprintf("/api/expenses/recent?account=%d", e.alice.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("recent: status %d", w.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0]["description"] != "fresh" {
		t.Errorf("recent = %v", list)
	}

	// Without a scope there is nothing recent.
	w = e.do(t, http.MethodGet, "/api/expenses/recent", nil)
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Errorf("unscoped recent: status %d body %s", w.Code, w.Body.String())
	}
}

func TestMonthlyReportEndpoint(t *testing.T) {
	e := newEnv(t)
	e.createExpense(t, e.alice.ID, gin.H{"amount": "40.00", "category_id": e.food.ID, "description": "x", "date": "2026-07-10"})

	w := e.do(t, http.MethodGet, fmt.Sprintf("/api/expenses/monthly_report?account=%d&year=2026&month=7", e.alice.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("monthly_report: status %d body %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["total_amount"] != "40.00" || got["total_count"].(float64) != 1 {
		t.Errorf("monthly_report = %v", got)
	}

	for _, target := range []string{
		"/api/expenses/monthly_report?account=%d&month=13",
		"/api/expenses/monthly_report?account=%d&month=abc",
		"/api/expenses/monthly_report?account=%d&year=-1&month=5",
	} {
		w := e.do(t, http.MethodGet, fmt.Sprintf(target, e.alice.ID), nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", target, w.Code)
		}
	}
}

func TestTagOperations(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/tags?account=%d", e.alice.ID), gin.H{"name": "work"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create tag: status %d body %s", w.Code, w.Body.String())
	}
	tagID := uint(decode(t, w)["id"].(float64))

	// Same name under another account is fine; a duplicate is not.
	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/tags?account=%d", e.bob.ID), gin.H{"name": "work"})
	if w.Code != http.StatusCreated {
		t.Errorf("same name other account: status %d", w.Code)
	}
	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/tags?account=%d", e.alice.ID), gin.H{"name": "work"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate tag: status %d, want 400", w.Code)
	}

	created := e.createExpense(t, e.alice.ID, gin.H{
		"amount": "8.00", "category_id": e.food.ID, "description": "tagged", "date": "2026-08-01",
	})
	expID := uint(created["id"].(float64))

	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/expenses/%d/add_tags?account=%d", expID, e.alice.ID), gin.H{"tag_ids": []uint{tagID}})
	if w.Code != http.StatusOK {
		t.Fatalf("add_tags: status %d body %s", w.Code, w.Body.String())
	}
	if tags := decode(t, w)["tags"].([]any); len(tags) != 1 {
		t.Errorf("tags after add = %v", tags)
	}

	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/expenses/%d/add_tags?account=%d", expID, e.alice.ID), gin.H{"tag_ids": []uint{}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty tag_ids: status %d, want 400", w.Code)
	}

	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/expenses/%d/remove_tags?account=%d", expID, e.alice.ID), gin.H{"tag_ids": []uint{tagID}})
	if w.Code != http.StatusOK {
		t.Fatalf("remove_tags: status %d", w.Code)
	}
	if tags := decode(t, w)["tags"].([]any); len(tags) != 0 {
		t.Errorf("tags after remove = %v", tags)
	}

	// Detach is also reachable as a DELETE with the same body.
	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/expenses/%d/add_tags?account=%d", expID, e.alice.ID), gin.H{"tag_ids": []uint{tagID}})
	if w.Code != http.StatusOK {
		t.Fatalf("re-add tags: status %d", w.Code)
	}
	w = e.do(t, http.MethodDelete, fmt.Sprintf("/api/expenses/%d/remove_tags?account=%d", expID, e.alice.ID), gin.H{"tag_ids": []uint{tagID}})
	if w.Code != http.StatusOK {
		t.Fatalf("remove_tags via DELETE: status %d body %s", w.Code, w.Body.String())
	}
	if tags := decode(t, w)["tags"].([]any); len(tags) != 0 {
		t.Errorf("tags after DELETE remove = %v", tags)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/categories", gin.H{"name": "Transport", "transaction_type": "expense"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create category: status %d body %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/categories", gin.H{"name": "Transport"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate name: status %d, want 400", w.Code)
	}
	w = e.do(t, http.MethodPost, "/api/categories", gin.H{"name": "Paybacks", "transaction_type": "repayment"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("repayment category: status %d, want 400", w.Code)
	}

	w = e.do(t, http.MethodGet, "/api/categories?type=expense", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status %d", w.Code)
	}
	if got := decode(t, w); got["count"].(float64) != 2 {
		t.Errorf("expense categories = %v", got["count"])
	}
}

func TestCategoryCreatedInactiveStaysInactive(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/categories", gin.H{"name": "Archived", "is_active": false})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	id := uint(decode(t, w)["id"].(float64))

	// The stored row must agree with the response, not just echo it.
	var stored models.Category
	if err := e.db.First(&stored, id).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.IsActive {
		t.Error("is_active=false not persisted")
	}

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/categories/%d", id), nil)
	if got := decode(t, w); got["is_active"] != false {
		t.Errorf("detail is_active = %v, want false", got["is_active"])
	}

	// Inactive categories never show up in the listing.
	w = e.do(t, http.MethodGet, "/api/categories", nil)
	var listed []any
	if results, ok := decode(t, w)["results"].([]any); ok {
		listed = results
	}
	for _, item := range listed {
		if item.(map[string]any)["name"] == "Archived" {
			t.Error("inactive category listed")
		}
	}
}

func TestUserEndpoints(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/users", gin.H{
		"username": "carol", "email": "carol@example.com",
		"password": "sup3rsecret", "password_confirm": "sup3rsecret",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if _, leaked := body["password_hash"]; leaked {
		t.Error("password hash leaked in response")
	}

	cases := []struct {
		name string
		body gin.H
	}{
		{"duplicate username", gin.H{"username": "carol", "email": "other@example.com", "password": "sup3rsecret", "password_confirm": "sup3rsecret"}},
		{"duplicate email", gin.H{"username": "other", "email": "carol@example.com", "password": "sup3rsecret", "password_confirm": "sup3rsecret"}},
		{"short password", gin.H{"username": "dave", "email": "dave@example.com", "password": "short", "password_confirm": "short"}},
		{"mismatch", gin.H{"username": "dave", "email": "dave@example.com", "password": "sup3rsecret", "password_confirm": "different1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := e.do(t, http.MethodPost, "/api/users", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400", w.Code)
			}
		})
	}

	// Only the acting account's own profile resolves.
	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d?account=%d", e.alice.ID, e.alice.ID), nil)
	if w.Code != http.StatusOK {
		t.Errorf("own profile: status %d", w.Code)
	}
	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d?account=%d", e.alice.ID, e.bob.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("foreign profile: status %d, want 404", w.Code)
	}

	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/profile?account=%d", e.alice.ID), gin.H{"first_name": "Alice"})
	if w.Code != http.StatusOK {
		t.Fatalf("update profile: status %d", w.Code)
	}
	if got := decode(t, w); got["first_name"] != "Alice" {
		t.Errorf("profile = %v", got)
	}

	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/login?account=%d", e.alice.ID), nil)
	if w.Code != http.StatusOK {
		t.Errorf("login: status %d", w.Code)
	}
}

func TestPasswordChange(t *testing.T) {
	e := newEnv(t)
	target := fmt.Sprintf("/api/password-change?account=%d", e.alice.ID)

	w := e.do(t, http.MethodPost, target, gin.H{
		"old_password": "wrong", "new_password": "brandnewpass", "new_password_confirm": "brandnewpass",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("wrong old password: status %d, want 400", w.Code)
	}

	w = e.do(t, http.MethodPost, target, gin.H{
		"old_password": "password123", "new_password": "password123", "new_password_confirm": "password123",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unchanged password: status %d, want 400", w.Code)
	}

	w = e.do(t, http.MethodPost, target, gin.H{
		"old_password": "password123", "new_password": "brandnewpass", "new_password_confirm": "brandnewpass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("password change: status %d body %s", w.Code, w.Body.String())
	}

	var u models.User
	if err := e.db.First(&u, e.alice.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("brandnewpass")); err != nil {
		t.Errorf("new password not stored: %v", err)
	}
}

func TestArraySumEndpoint(t *testing.T) {
	e := newEnv(t)

	for _, target := range []string{
		"/api/array-sum?array=[1,2,3]",
		"/api/array-sum?values=1&values=2&values=3",
		"/api/array-sum?values=1,2,3",
	} {
		w := e.do(t, http.MethodGet, target, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d body %s", target, w.Code, w.Body.String())
		}
		got := decode(t, w)
		if got["result"].(float64) != 6 || got["count"].(float64) != 3 {
			t.Errorf("%s: %v", target, got)
		}
		if got["execution_id"].(float64) == 0 {
			t.Errorf("%s: no audit record", target)
		}
	}

	w := e.do(t, http.MethodPost, "/api/array-sum", gin.H{"input_data": gin.H{"array": []any{1, "2", 3.5}}})
	if w.Code != http.StatusOK {
		t.Fatalf("body sum: status %d body %s", w.Code, w.Body.String())
	}
	if got := decode(t, w); got["result"].(float64) != 6.5 {
		t.Errorf("body sum = %v", got)
	}

	for _, tc := range []struct {
		name   string
		method string
		target string
		body   any
	}{
		{"malformed array param", http.MethodGet, "/api/array-sum?array=notjson", nil},
		{"non numeric value", http.MethodGet, "/api/array-sum?values=x", nil},
		{"nothing supplied", http.MethodGet, "/api/array-sum", nil},
		{"body without array", http.MethodPost, "/api/array-sum", gin.H{"input_data": gin.H{}}},
		{"body bad element", http.MethodPost, "/api/array-sum", gin.H{"input_data": gin.H{"array": []any{"x"}}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := e.do(t, tc.method, tc.target, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400: %s", w.Code, w.Body.String())
			}
		})
	}

	// Every invocation leaves an audit row, failures included.
	var total, failed int64
	e.db.Model(&models.ToolExecution{}).Count(&total)
	e.db.Model(&models.ToolExecution{}).Where("status = ?", models.ExecutionFailed).Count(&failed)
	if total != 9 {
		t.Errorf("execution rows = %d, want 9", total)
	}
	if failed != 5 {
		t.Errorf("failed execution rows = %d, want 5", failed)
	}
}

func TestToolRegistry(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/tool-categories", gin.H{"name": "Text", "description": "Text utilities"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create tool category: status %d body %s", w.Code, w.Body.String())
	}
	catID := uint(decode(t, w)["id"].(float64))

	w = e.do(t, http.MethodPost, "/api/tools", gin.H{
		"name": "Word Counter", "description": "Counts words", "category": catID,
		"input_type": "text", "output_type": "number",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create tool: status %d body %s", w.Code, w.Body.String())
	}
	toolID := uint(decode(t, w)["id"].(float64))

	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/tools/%d", toolID), gin.H{"is_active": false})
	if w.Code != http.StatusOK {
		t.Fatalf("update tool: status %d", w.Code)
	}

	w = e.do(t, http.MethodGet, "/api/tools?is_active=false", nil)
	if got := decode(t, w); got["count"].(float64) != 1 {
		t.Errorf("inactive tools = %v", got["count"])
	}

	// Run one sum so the executions listing has a row to filter.
	e.do(t, http.MethodGet, "/api/array-sum?values=1,2", nil)
	w = e.do(t, http.MethodGet, "/api/executions?status=success", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("executions: status %d", w.Code)
	}
	if got := decode(t, w); got["count"].(float64) != 1 {
		t.Errorf("success executions = %v", got["count"])
	}

	w = e.do(t, http.MethodDelete, fmt.Sprintf("/api/tools/%d", toolID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete tool: status %d", w.Code)
	}
	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/tools/%d", toolID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", w.Code)
	}
}

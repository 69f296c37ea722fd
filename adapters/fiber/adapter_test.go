package fiber

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/sensesdx/portalkit"
	"github.com/sensesdx/portalkit/core"
	"github.com/sensesdx/portalkit/pkg/cookie"
)

func newTestGateway(t *testing.T, backendURL string) *fiber.App {
	t.Helper()

	portal, err := portalkit.New(portalkit.Config{BaseURL: backendURL})
	if err != nil {
		t.Fatalf("portalkit.New failed: %v", err)
	}

	app := fiber.New()
	adapter := New(Config{App: app, Portal: portal})
	adapter.RegisterRoutes()
	return app
}

func withSession(req *http.Request, role string) *http.Request {
	req.AddCookie(&http.Cookie{Name: core.TokenCookie, Value: "tok123"})
	profile, _ := json.Marshal(core.User{ID: "u1", Name: "Mike", Role: role})
	req.AddCookie(&http.Cookie{Name: core.ProfileCookie, Value: cookie.Encode(string(profile))})
	return req
}

func TestProtectedRoutesShouldRequireTheTokenCookie(t *testing.T) {
	app := newTestGateway(t, "http://127.0.0.1:0")

	req := httptest.NewRequest(http.MethodGet, "/views/dashboard", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestLoginShouldSetCookiesAndReturnNotifications(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected backend path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok123",
			"user":         map[string]string{"id": "u1", "name": "Mike", "role": "admin"},
		})
	}))
	defer backend.Close()

	app := newTestGateway(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"phone":"9876543210","password":"Abcd1234!"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	cookies := map[string]*http.Cookie{}
	for _, c := range resp.Cookies() {
		cookies[c.Name] = c
	}
	tok, ok := cookies[core.TokenCookie]
	if !ok || tok.Value != "tok123" {
		t.Errorf("token cookie = %+v, want tok123", tok)
	}
	if ok && !tok.HttpOnly {
		t.Error("token cookie should be HttpOnly")
	}
	if _, ok := cookies[core.ProfileCookie]; !ok {
		t.Error("profile cookie should be set")
	}

	var body struct {
		Data          core.User `json:"data"`
		Notifications []struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"notifications"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.Name != "Mike" {
		t.Errorf("data.name = %q, want Mike", body.Data.Name)
	}
	if len(body.Notifications) != 1 || body.Notifications[0].Message != "Login successful" {
		t.Errorf("notifications = %+v", body.Notifications)
	}
}

func TestLoginFailureShouldCarryTheServerMessage(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))
	defer backend.Close()

	app := newTestGateway(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"phone":"9876543210","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if len(resp.Cookies()) != 0 {
		t.Error("no cookies should be set on failure")
	}

	var body struct {
		Message string `json:"message"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Message != "Invalid credentials" {
		t.Errorf("message = %q, want the server's message", body.Message)
	}
}

func TestAdminShouldBeRedirectedAwayFromReports(t *testing.T) {
	app := newTestGateway(t, "http://127.0.0.1:0")

	req := withSession(httptest.NewRequest(http.MethodGet, "/views/reports", nil), core.RoleAdmin)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}

	if resp.StatusCode < 300 || resp.StatusCode > 399 {
		t.Fatalf("status = %d, want a redirect", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/views/"+portalkit.DefaultView {
		t.Errorf("Location = %q, want the default view", loc)
	}
}

func TestNavigationShouldOmitReportsForAdmins(t *testing.T) {
	app := newTestGateway(t, "http://127.0.0.1:0")

	req := withSession(httptest.NewRequest(http.MethodGet, "/views/navigation", nil), core.RoleAdmin)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Data []string `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	for _, v := range body.Data {
		if v == portalkit.ViewReports {
			t.Error("admin navigation should not list reports")
		}
	}
	if len(body.Data) != 4 {
		t.Errorf("views = %v, want 4 entries", body.Data)
	}
}

func TestUsersViewShouldRejectUnknownRoles(t *testing.T) {
	app := newTestGateway(t, "http://127.0.0.1:0")

	req := withSession(httptest.NewRequest(http.MethodGet, "/views/users?role=superuser", nil), core.RoleFieldExecutive)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestOrdersViewShouldForwardFiltersAndBearer(t *testing.T) {
	var gotAuth, gotQuery string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte("[]"))
	}))
	defer backend.Close()

	app := newTestGateway(t, backend.URL)

	req := withSession(httptest.NewRequest(http.MethodGet, "/views/orders?orderStatus=Created", nil), core.RoleFieldExecutive)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("backend auth = %q, want the session token", gotAuth)
	}
	if gotQuery != "orderStatus=Created" {
		t.Errorf("backend query = %q", gotQuery)
	}
}

func TestAssignOrderShouldReturnTheNotification(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/orders/o1/assign" {
			t.Errorf("unexpected backend request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(core.Order{ID: "o1", OrderStatus: core.OrderStatusAssigned})
	}))
	defer backend.Close()

	app := newTestGateway(t, backend.URL)

	req := withSession(httptest.NewRequest(http.MethodPatch, "/orders/o1/assign",
		strings.NewReader(`{"fieldExecutiveId":"fe1"}`)), core.RoleFieldExecutive)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Data          core.Order `json:"data"`
		Notifications []struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"notifications"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Data.OrderStatus != core.OrderStatusAssigned {
		t.Errorf("data.orderStatus = %q", body.Data.OrderStatus)
	}
	if len(body.Notifications) != 1 || body.Notifications[0].Message != "Order assigned successfully" {
		t.Errorf("notifications = %+v", body.Notifications)
	}
}

func TestLogoutShouldExpireTheTokenCookie(t *testing.T) {
	app := newTestGateway(t, "http://127.0.0.1:0")

	req := withSession(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), core.RoleAdmin)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	for _, c := range resp.Cookies() {
		if c.Name == core.TokenCookie {
			if c.MaxAge >= 0 && c.Value != "" {
				t.Errorf("token cookie should be expired, got %+v", c)
			}
			return
		}
	}
	t.Error("expected an expiring token cookie")
}

func TestExportShouldStreamACSVAttachment(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orders/reports":
			json.NewEncoder(w).Encode([]core.Order{{ID: "ORD-1", PatientName: "Asha"}})
		case "/users":
			json.NewEncoder(w).Encode([]core.User{})
		default:
			t.Errorf("unexpected backend path %s", r.URL.Path)
		}
	}))
	defer backend.Close()

	app := newTestGateway(t, backend.URL)

	req := withSession(httptest.NewRequest(http.MethodGet, "/views/reports/export", nil), core.RoleHospitalStaff)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	disposition := resp.Header.Get("Content-Disposition")
	if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, ".csv") {
		t.Errorf("Content-Disposition = %q", disposition)
	}
}

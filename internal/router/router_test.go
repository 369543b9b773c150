package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vet-clinic-api/internal/domain/admins"
	"vet-clinic-api/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	h, err := router.New(router.Options{
		SeedAdmin: &admins.RegisterInput{
			Name:     "Clinic Admin",
			Username: "admin",
			Email:    "admin@clinic.test",
			Password: "admin123",
		},
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return httptest.NewServer(h)
}

func TestHTTP_EndToEnd_ClinicFlow(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	// 1) Register a client
	clientID := createClient(t, ts.URL, map[string]any{
		"fullname": "Ana Cruz",
		"address":  "123 Mabini St",
		"age":      34,
		"email":    "ana.cruz@example.com",
		"number":   "09171234567",
	})

	// 2) Register her cat
	petID := createPet(t, ts.URL, map[string]any{
		"name":         "Boots",
		"role":         "feline",
		"breed":        "Puspin",
		"species":      "Domestic Shorthair",
		"colormarking": "black and white",
		"birthday":     "2022-03-14",
		"gender":       "female",
	})

	// 3) Assign the pet to the client
	{
		st, body := doReq(t, ts.URL, "POST", "/clients/"+clientID+"/assign-pet", "", map[string]any{
			"pet_id": petID,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 assign pet, got %d body=%s", st, string(body))
		}
	}

	// 4) Assigning again is idempotent
	{
		st, body := doReq(t, ts.URL, "POST", "/clients/"+clientID+"/assign-pet", "", map[string]any{
			"pet_id": petID,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 on repeat assign, got %d body=%s", st, string(body))
		}
	}

	// 5) Client payload embeds exactly one pet
	{
		st, body := doReq(t, ts.URL, "GET", "/clients/"+clientID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get client, got %d body=%s", st, string(body))
		}
		var resp struct {
			Pets []struct {
				ID string `json:"id"`
			} `json:"pets"`
		}
		mustUnmarshal(t, body, &resp)
		if len(resp.Pets) != 1 || resp.Pets[0].ID != petID {
			t.Fatalf("expected one embedded pet %s, got %s", petID, string(body))
		}
	}

	// 6) Book a visit for today with a follow-up tomorrow
	now := time.Now()
	scheduleID := createSchedule(t, ts.URL, map[string]any{
		"date":               now.UTC().Format("2006-01-02T15:04"),
		"weight_killogram":   4.125,
		"temperature":        38.75,
		"complain_diagnosis": "annual shots",
		"treatment":          "rabies vaccine",
		"follow_up":          now.Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"pet_ids":            []string{petID},
	})

	// 7) Defaults and rounding applied
	{
		st, body := doReq(t, ts.URL, "GET", "/vaccination-schedules/"+scheduleID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get schedule, got %d body=%s", st, string(body))
		}
		var resp struct {
			Service         string  `json:"service"`
			ServiceName     string  `json:"service_name"`
			Status          string  `json:"status"`
			StatusName      string  `json:"status_name"`
			WeightKillogram float64 `json:"weight_killogram"`
			Temperature     float64 `json:"temperature"`
			Pets            []struct {
				ID string `json:"id"`
			} `json:"pets"`
		}
		mustUnmarshal(t, body, &resp)
		if resp.Service != "vaccination" || resp.ServiceName != "Vaccination" {
			t.Fatalf("expected default service vaccination, got %s", string(body))
		}
		if resp.Status != "pending" || resp.StatusName != "Pending" {
			t.Fatalf("expected default status pending, got %s", string(body))
		}
		if resp.WeightKillogram != 4.13 {
			t.Fatalf("expected weight rounded to 4.13, got %v", resp.WeightKillogram)
		}
		if resp.Temperature != 38.8 {
			t.Fatalf("expected temperature rounded to 38.8, got %v", resp.Temperature)
		}
		if len(resp.Pets) != 1 || resp.Pets[0].ID != petID {
			t.Fatalf("expected schedule linked to %s, got %s", petID, string(body))
		}
	}

	// 8) Today's schedules include the visit
	{
		st, body := doReq(t, ts.URL, "GET", "/vaccination-schedules/todays/schedules", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 todays schedules, got %d body=%s", st, string(body))
		}
		if !containsID(t, body, scheduleID) {
			t.Fatalf("expected todays schedules to contain %s, body=%s", scheduleID, string(body))
		}
	}

	// 9) Upcoming follow-ups include the visit
	{
		st, body := doReq(t, ts.URL, "GET", "/vaccination-schedules/follow-ups/upcoming", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 upcoming follow-ups, got %d body=%s", st, string(body))
		}
		if !containsID(t, body, scheduleID) {
			t.Fatalf("expected upcoming follow-ups to contain %s, body=%s", scheduleID, string(body))
		}
	}

	// 10) Pet's visit history
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+petID+"/vaccinations", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 pet vaccinations, got %d body=%s", st, string(body))
		}
		if !containsID(t, body, scheduleID) {
			t.Fatalf("expected history to contain %s, body=%s", scheduleID, string(body))
		}
	}

	// 11) Mark completed, then cancelled. Last write wins.
	{
		st, body := doReq(t, ts.URL, "PATCH", "/vaccination-schedules/"+scheduleID+"/mark-completed", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 mark-completed, got %d body=%s", st, string(body))
		}
		var resp struct {
			Status string `json:"status"`
		}
		mustUnmarshal(t, body, &resp)
		if resp.Status != "completed" {
			t.Fatalf("expected status completed, got %s", resp.Status)
		}

		st, body = doReq(t, ts.URL, "PATCH", "/vaccination-schedules/"+scheduleID+"/mark-cancelled", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 mark-cancelled, got %d body=%s", st, string(body))
		}
		mustUnmarshal(t, body, &resp)
		if resp.Status != "cancelled" {
			t.Fatalf("expected status cancelled, got %s", resp.Status)
		}
	}

	// 12) Filter by status
	{
		st, body := doReq(t, ts.URL, "GET", "/vaccination-schedules/status/cancelled", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 by status, got %d body=%s", st, string(body))
		}
		if !containsID(t, body, scheduleID) {
			t.Fatalf("expected cancelled list to contain %s, body=%s", scheduleID, string(body))
		}
	}

	// 13) Detaching a pet that is not attached is a no-op
	{
		st, body := doReq(t, ts.URL, "DELETE", "/vaccination-schedules/"+scheduleID+"/pets/"+petID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 detach, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "DELETE", "/vaccination-schedules/"+scheduleID+"/pets/"+petID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on repeat detach, got %d body=%s", st, string(body))
		}
	}

	// 14) Deleting the pet drops the client association too
	{
		st, body := doReq(t, ts.URL, "DELETE", "/pets/"+petID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete pet, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/clients/"+clientID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get client, got %d body=%s", st, string(body))
		}
		var resp struct {
			Pets []any `json:"pets"`
		}
		mustUnmarshal(t, body, &resp)
		if len(resp.Pets) != 0 {
			t.Fatalf("expected no pets after delete, got %s", string(body))
		}
	}
}

func TestHTTP_Validation(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	// Missing fields are all reported at once
	{
		st, body := doReq(t, ts.URL, "POST", "/clients", "", map[string]any{})
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 empty client, got %d body=%s", st, string(body))
		}
		var resp struct {
			Message string              `json:"message"`
			Errors  map[string][]string `json:"errors"`
		}
		mustUnmarshal(t, body, &resp)
		if resp.Message != "The given data was invalid." {
			t.Fatalf("unexpected message %q", resp.Message)
		}
		for _, field := range []string{"fullname", "address", "email", "number"} {
			if len(resp.Errors[field]) == 0 {
				t.Fatalf("expected error for %s, got %s", field, string(body))
			}
		}
	}

	// Duplicate email
	{
		payload := map[string]any{
			"fullname": "Ana Cruz",
			"address":  "123 Mabini St",
			"email":    "ana.cruz@example.com",
			"number":   "09171234567",
		}
		createClient(t, ts.URL, payload)

		payload["fullname"] = "Another Ana"
		st, body := doReq(t, ts.URL, "POST", "/clients", "", payload)
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 duplicate email, got %d body=%s", st, string(body))
		}
		var resp struct {
			Errors map[string][]string `json:"errors"`
		}
		mustUnmarshal(t, body, &resp)
		if len(resp.Errors["email"]) == 0 {
			t.Fatalf("expected email error, got %s", string(body))
		}
	}

	// Unknown pet role
	{
		st, body := doReq(t, ts.URL, "POST", "/pets", "", map[string]any{
			"name":     "Rex",
			"role":     "reptile",
			"birthday": "2020-01-01",
			"gender":   "male",
		})
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 bad role, got %d body=%s", st, string(body))
		}
	}

	// follow_up must come after the visit date
	{
		st, body := doReq(t, ts.URL, "POST", "/vaccination-schedules", "", map[string]any{
			"date":               "2026-02-10T09:00",
			"complain_diagnosis": "checkup",
			"treatment":          "none",
			"follow_up":          "2026-02-10T09:00",
		})
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 follow_up not after date, got %d body=%s", st, string(body))
		}
		var resp struct {
			Errors map[string][]string `json:"errors"`
		}
		mustUnmarshal(t, body, &resp)
		if len(resp.Errors["follow_up"]) == 0 {
			t.Fatalf("expected follow_up error, got %s", string(body))
		}
	}

	// Unknown pet ids are rejected before anything is written
	{
		st, body := doReq(t, ts.URL, "POST", "/vaccination-schedules", "", map[string]any{
			"date":               "2026-02-10T09:00",
			"complain_diagnosis": "checkup",
			"treatment":          "none",
			"pet_ids":            []string{"no-such-pet"},
		})
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 unknown pet id, got %d body=%s", st, string(body))
		}
	}

	// Unknown filter values are invalid, not empty result sets
	{
		st, _ := doReq(t, ts.URL, "GET", "/vaccination-schedules/service/acupuncture", "", nil)
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 unknown service filter, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/vaccination-schedules/status/done", "", nil)
		if st != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 unknown status filter, got %d", st)
		}
	}
}

func TestHTTP_OptionEndpoints(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	{
		st, body := doReq(t, ts.URL, "GET", "/pets/breeds/options?role=canine", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 breed options, got %d", st)
		}
		var opts []string
		mustUnmarshal(t, body, &opts)
		if len(opts) == 0 {
			t.Fatalf("expected canine breed options, got %s", string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/pets/species/options?role=hamster", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 species options, got %d", st)
		}
		var opts []string
		mustUnmarshal(t, body, &opts)
		if len(opts) != 0 {
			t.Fatalf("expected empty options for unknown role, got %s", string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/vaccination-schedules/options/services", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 service options, got %d", st)
		}
		var opts map[string]string
		mustUnmarshal(t, body, &opts)
		if opts["vaccination"] != "Vaccination" || opts["cbc_test"] != "CBC Test" {
			t.Fatalf("unexpected service options %s", string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/vaccination-schedules/options/statuses", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 status options, got %d", st)
		}
		var opts map[string]string
		mustUnmarshal(t, body, &opts)
		if opts["in_progress"] != "In Progress" {
			t.Fatalf("unexpected status options %s", string(body))
		}
	}
}

func TestHTTP_AdminAuth(t *testing.T) {
	ts := newTestServer(t)
	defer ts.Close()

	// Wrong password
	{
		st, _ := doReq(t, ts.URL, "POST", "/admin/login", "", map[string]any{
			"login":    "admin",
			"password": "wrong",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 bad password, got %d", st)
		}
	}

	// Login by username
	token := login(t, ts.URL, "admin", "admin123")

	// Login by email works too
	login(t, ts.URL, "admin@clinic.test", "admin123")

	// Profile with token
	{
		st, body := doReq(t, ts.URL, "GET", "/admin/profile", token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 profile, got %d body=%s", st, string(body))
		}
		var resp struct {
			Data struct {
				Username string `json:"username"`
			} `json:"data"`
		}
		mustUnmarshal(t, body, &resp)
		if resp.Data.Username != "admin" {
			t.Fatalf("expected username admin, got %s", string(body))
		}
	}

	// Profile without token
	{
		st, _ := doReq(t, ts.URL, "GET", "/admin/profile", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", st)
		}
	}

	// Logout revokes the token
	{
		st, body := doReq(t, ts.URL, "POST", "/admin/logout", token, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 logout, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "GET", "/admin/profile", token, nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 after logout, got %d", st)
		}
	}
}

func createClient(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/clients", "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create client, got %d body=%s", st, string(body))
	}
	return extractID(t, body)
}

func createPet(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}
	return extractID(t, body)
}

func createSchedule(t *testing.T, baseURL string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/vaccination-schedules", "", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create schedule, got %d body=%s", st, string(body))
	}
	return extractID(t, body)
}

func login(t *testing.T, baseURL, loginID, password string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/admin/login", "", map[string]any{
		"login":    loginID,
		"password": password,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
	}

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	mustUnmarshal(t, body, &resp)
	if resp.Data.Token == "" {
		t.Fatalf("login: missing token body=%s", string(body))
	}
	return resp.Data.Token
}

func extractID(t *testing.T, body []byte) string {
	t.Helper()

	var resp struct {
		ID string `json:"id"`
	}
	mustUnmarshal(t, body, &resp)
	if resp.ID == "" {
		t.Fatalf("missing id in body=%s", string(body))
	}
	return resp.ID
}

func containsID(t *testing.T, body []byte, id string) bool {
	t.Helper()

	var items []struct {
		ID string `json:"id"`
	}
	mustUnmarshal(t, body, &items)
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func mustUnmarshal(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path, bearer string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/break-planner/internal/api/http/handlers"
	"github.com/spec-kit/break-planner/internal/auth"
	"github.com/spec-kit/break-planner/internal/domain"
	"github.com/spec-kit/break-planner/internal/observability"
	"github.com/spec-kit/break-planner/internal/repository"
	"github.com/spec-kit/break-planner/internal/service"
)

const teamJSON = `[
  {"id":"A","name":"Alex","roles":["Manager"],"start_time":"09:00","end_time":"17:00"},
  {"id":"B","name":"Blair","roles":["Product Guide"],"start_time":"09:00","end_time":"17:00"}
]`

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T, authEnabled bool) (*fiber.App, *auth.TokenManager) {
	t.Helper()
	metrics := observability.NewMetrics()
	planner := service.NewPlannerService(&service.PlannerDependencies{
		EmployeeRepo: newMemRoster(),
		Metrics:      metrics,
		Logger:       zap.NewNop(),
		Defaults: domain.PlannerSettings{
			BreakRules:    []domain.BreakRule{{MinHours: 7, MaxHours: 9, PaidBreaks: 1, PaidDuration: 15, UnpaidBreaks: 1, UnpaidDuration: 30}},
			CoverageRules: []domain.CoverageRule{{Type: domain.CoverageRuleMinStaff, Role: domain.RoleAny, Count: 1}},
			RolePriority:  []string{"Product Guide", "Lead", "Manager", "Associate"},
		},
	})
	tokens := auth.NewTokenManager("test-secret", 60)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("break-planner", "test", map[string]handlers.Pinger{"postgres": nil}),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Schedules:      handlers.NewScheduleHandler(planner),
		Breaks:         handlers.NewBreaksHandler(planner),
		Settings:       handlers.NewSettingsHandler(planner),
		Employees:      handlers.NewEmployeesHandler(planner),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, authEnabled),
	})
	return app, tokens
}

func doRequest(t *testing.T, app *fiber.App, method, path, body, token string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp.StatusCode, env
}

func TestGenerateEndpoint(t *testing.T) {
	app, _ := newTestApp(t, false)
	status, env := doRequest(t, app, "POST", "/api/v1/schedules/generate", `{"date":"2026-03-02","employees":`+teamJSON+`}`, "")
	if status != fiber.StatusOK {
		t.Fatalf("status %d: %+v", status, env.Error)
	}

	var body struct {
		Date     string `json:"date"`
		Schedule []struct {
			EmployeeID string `json:"employee_id"`
			Breaks     []struct {
				Type       string `json:"type"`
				StartClock string `json:"start_clock"`
				EndClock   string `json:"end_clock"`
			} `json:"breaks"`
		} `json:"schedule"`
		Violations []domain.Violation `json:"violations"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if body.Date != "2026-03-02" || len(body.Schedule) != 2 {
		t.Fatalf("unexpected body %+v", body)
	}
	first := body.Schedule[0]
	if first.EmployeeID != "B" || first.Breaks[0].StartClock != "11:45" || first.Breaks[0].EndClock != "12:15" {
		t.Fatalf("unexpected first schedule %+v", first)
	}
	if len(body.Violations) != 0 {
		t.Fatalf("violations %+v", body.Violations)
	}
}

func TestValidateEndpointFindsClash(t *testing.T) {
	app, _ := newTestApp(t, false)
	payload := `{"date":"2026-03-02","employees":` + teamJSON + `,"schedule":[
	  {"employee_id":"A","breaks":[{"id":"a1","type":"meal","duration":30,"start":"2026-03-02T12:00:00Z"}]},
	  {"employee_id":"B","breaks":[{"id":"b1","type":"meal","duration":30,"start":"2026-03-02T12:00:00Z","end":"2026-03-02T12:30:00Z"}]}
	]}`
	status, env := doRequest(t, app, "POST", "/api/v1/schedules/validate", payload, "")
	if status != fiber.StatusOK {
		t.Fatalf("status %d: %+v", status, env.Error)
	}
	var body struct {
		Valid      bool               `json:"valid"`
		Violations []domain.Violation `json:"violations"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Valid || len(body.Violations) != 2 {
		t.Fatalf("expected two violations, got %+v", body)
	}
	if body.Violations[0].Time != "12:00" || body.Violations[1].Time != "12:15" {
		t.Fatalf("unexpected slots %+v", body.Violations)
	}
}

func TestCalculateAndHeadcountEndpoints(t *testing.T) {
	app, _ := newTestApp(t, false)

	status, env := doRequest(t, app, "POST", "/api/v1/breaks/calculate", `{"date":"2026-03-02","start_time":"09:00","end_time":"17:00"}`, "")
	if status != fiber.StatusOK {
		t.Fatalf("calculate status %d: %+v", status, env.Error)
	}
	var breaks []struct {
		Type       string `json:"type"`
		StartClock string `json:"start_clock"`
	}
	if err := json.Unmarshal(env.Data, &breaks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(breaks) != 2 || breaks[0].StartClock != "11:45" || breaks[1].StartClock != "14:15" {
		t.Fatalf("unexpected breaks %+v", breaks)
	}

	status, env = doRequest(t, app, "POST", "/api/v1/schedules/headcount", `{"date":"2026-03-02","employees":`+teamJSON+`}`, "")
	if status != fiber.StatusOK {
		t.Fatalf("headcount status %d: %+v", status, env.Error)
	}
	var curve []domain.SlotHeadcount
	if err := json.Unmarshal(env.Data, &curve); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(curve) != 32 || curve[0].Total != 2 {
		t.Fatalf("unexpected curve length %d", len(curve))
	}
}

func TestErrorResponses(t *testing.T) {
	app, _ := newTestApp(t, false)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{name: "malformed json", method: "POST", path: "/api/v1/schedules/generate", body: `{"employees":`, status: 400, code: "VALIDATION_FAILED"},
		{name: "no employees", method: "POST", path: "/api/v1/schedules/generate", body: `{"employees":[]}`, status: 400, code: "VALIDATION_FAILED"},
		{name: "bad shift time", method: "POST", path: "/api/v1/breaks/calculate", body: `{"start_time":"9","end_time":"17:00"}`, status: 400, code: "VALIDATION_FAILED"},
		{name: "storage missing", method: "GET", path: "/api/v1/schedules/latest?date=2026-03-02", status: 503, code: "DEPENDENCY_UNAVAILABLE"},
		{name: "dates storage missing", method: "GET", path: "/api/v1/schedules/dates?limit=5", status: 503, code: "DEPENDENCY_UNAVAILABLE"},
		{name: "unknown employee", method: "GET", path: "/api/v1/employees/ghost", status: 404, code: "NOT_FOUND"},
		{name: "employee without name", method: "POST", path: "/api/v1/employees", body: `{"start_time":"09:00","end_time":"17:00"}`, status: 400, code: "VALIDATION_FAILED"},
		{name: "settings storage missing", method: "PUT", path: "/api/v1/settings", body: `{"coverage_rules":[]}`, status: 503, code: "DEPENDENCY_UNAVAILABLE"},
		{name: "unknown route", method: "GET", path: "/nope", status: 404, code: "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doRequest(t, app, tt.method, tt.path, tt.body, "")
			if status != tt.status {
				t.Fatalf("status %d, want %d", status, tt.status)
			}
			if env.Error == nil || env.Error.Code != tt.code {
				t.Fatalf("error %+v, want code %s", env.Error, tt.code)
			}
		})
	}
}

func TestAuthenticatedRoutes(t *testing.T) {
	app, tokens := newTestApp(t, true)
	viewer, _, err := tokens.GenerateToken("viewer-1", domain.OperatorRoleViewer)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	manager, _, err := tokens.GenerateToken("manager-1", domain.OperatorRoleManager)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	generate := `{"date":"2026-03-02","employees":` + teamJSON + `}`

	if status, _ := doRequest(t, app, "POST", "/api/v1/schedules/generate", generate, ""); status != fiber.StatusUnauthorized {
		t.Fatalf("anonymous generate: %d", status)
	}
	if status, _ := doRequest(t, app, "POST", "/api/v1/schedules/generate", generate, viewer); status != fiber.StatusForbidden {
		t.Fatalf("viewer generate: %d", status)
	}
	if status, _ := doRequest(t, app, "POST", "/api/v1/schedules/generate", generate, manager); status != fiber.StatusOK {
		t.Fatalf("manager generate: %d", status)
	}
	if status, _ := doRequest(t, app, "GET", "/api/v1/settings", "", viewer); status != fiber.StatusOK {
		t.Fatalf("viewer settings: %d", status)
	}
	if status, _ := doRequest(t, app, "GET", "/health/live", "", ""); status != fiber.StatusOK {
		t.Fatalf("health should stay public: %d", status)
	}
}

func TestEmployeeRoutes(t *testing.T) {
	app, tokens := newTestApp(t, true)
	viewer, _, err := tokens.GenerateToken("viewer-1", domain.OperatorRoleViewer)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	manager, _, err := tokens.GenerateToken("manager-1", domain.OperatorRoleManager)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	casey := `{"id":"C","name":"Casey","roles":["Lead"],"start_time":"09:00","end_time":"17:00"}`

	if status, _ := doRequest(t, app, "POST", "/api/v1/employees", casey, viewer); status != fiber.StatusForbidden {
		t.Fatalf("viewer create: %d", status)
	}
	status, env := doRequest(t, app, "POST", "/api/v1/employees", casey, manager)
	if status != fiber.StatusCreated {
		t.Fatalf("manager create: %d %+v", status, env.Error)
	}
	if status, env := doRequest(t, app, "POST", "/api/v1/employees", casey, manager); status != fiber.StatusConflict || env.Error.Code != "CONFLICT" {
		t.Fatalf("duplicate create: %d %+v", status, env.Error)
	}

	status, env = doRequest(t, app, "GET", "/api/v1/employees?role=Lead", "", viewer)
	if status != fiber.StatusOK {
		t.Fatalf("viewer list: %d", status)
	}
	var list []struct {
		ID    string   `json:"id"`
		Roles []string `json:"roles"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].ID != "C" {
		t.Fatalf("unexpected roster %+v", list)
	}

	update := `{"name":"Casey","roles":["Manager"],"start_time":"10:00","end_time":"18:00"}`
	if status, _ := doRequest(t, app, "PUT", "/api/v1/employees/C", update, viewer); status != fiber.StatusForbidden {
		t.Fatalf("viewer update: %d", status)
	}
	if status, env := doRequest(t, app, "PUT", "/api/v1/employees/C", update, manager); status != fiber.StatusOK {
		t.Fatalf("manager update: %d %+v", status, env.Error)
	}

	// No team in the request: the roster is planned.
	status, env = doRequest(t, app, "POST", "/api/v1/schedules/generate", `{"date":"2026-03-02"}`, manager)
	if status != fiber.StatusOK {
		t.Fatalf("generate from roster: %d %+v", status, env.Error)
	}
	var result struct {
		Schedule []struct {
			EmployeeID string `json:"employee_id"`
		} `json:"schedule"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Schedule) != 1 || result.Schedule[0].EmployeeID != "C" {
		t.Fatalf("unexpected schedule %+v", result.Schedule)
	}

	if status, _ := doRequest(t, app, "DELETE", "/api/v1/employees/C", "", viewer); status != fiber.StatusForbidden {
		t.Fatalf("viewer delete: %d", status)
	}
	if status, _ := doRequest(t, app, "DELETE", "/api/v1/employees/C", "", manager); status != fiber.StatusNoContent {
		t.Fatalf("manager delete: %d", status)
	}
	if status, _ := doRequest(t, app, "GET", "/api/v1/employees/C", "", viewer); status != fiber.StatusNotFound {
		t.Fatalf("deleted employee: %d", status)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(t, false)
	status, env := doRequest(t, app, "GET", "/health/ready", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("ready: %d %+v", status, env.Error)
	}

	doRequest(t, app, "POST", "/api/v1/breaks/calculate", `{"start_time":"09:00","end_time":"17:00"}`, "")
	status, env = doRequest(t, app, "GET", "/metrics", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("metrics: %d", status)
	}
	var snap observability.MetricsSnapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.ScheduleRuns["calculate"] != 1 {
		t.Fatalf("expected calculate run recorded, got %+v", snap.ScheduleRuns)
	}
}

type memRoster struct {
	members map[string]domain.RosterMember
}

func newMemRoster() *memRoster {
	return &memRoster{members: map[string]domain.RosterMember{}}
}

func (m *memRoster) Create(_ context.Context, member *domain.RosterMember) error {
	if _, ok := m.members[member.ID]; ok {
		return repository.ErrEmployeeExists
	}
	m.members[member.ID] = *member
	return nil
}

func (m *memRoster) Update(_ context.Context, member *domain.RosterMember) error {
	if _, ok := m.members[member.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.members[member.ID] = *member
	return nil
}

func (m *memRoster) GetByID(_ context.Context, id string) (*domain.RosterMember, error) {
	member, ok := m.members[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &member, nil
}

func (m *memRoster) List(_ context.Context, filter repository.EmployeeFilter) ([]domain.RosterMember, error) {
	var out []domain.RosterMember
	for _, member := range m.members {
		if filter.Role == nil || member.HasRole(*filter.Role) {
			out = append(out, member)
		}
	}
	return out, nil
}

func (m *memRoster) Delete(_ context.Context, id string) error {
	if _, ok := m.members[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.members, id)
	return nil
}

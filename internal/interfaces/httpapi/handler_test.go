package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/kapofest/cheerboard/internal/domain/user"
	"github.com/kapofest/cheerboard/internal/infrastructure/repository/memory"
	"github.com/kapofest/cheerboard/internal/platform/logging"
	"github.com/kapofest/cheerboard/internal/usecase"
)

const testJobToken = "job-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	tapRepo := memory.NewTapRepository()
	postRepo := memory.NewPostRepository(memory.SeedPosts())

	logger := logging.NewNop()

	cheerService := usecase.NewCheerService(matchRepo, teamRepo, tapRepo, logger)
	feedService := usecase.NewFeedService(postRepo)
	battleService := usecase.NewBattleService(feedService, usecase.NewSideClassifier("kaist", "postech"))
	battlePoller := usecase.NewBattlePoller(battleService, logger, usecase.BattleDefaultPollInterval, usecase.BattleDefaultMaxItems)
	auditService := usecase.NewTapAuditService(matchRepo, tapRepo, logger)

	handler := NewHandler(cheerService, feedService, battlePoller, auditService, logger)
	verifier := &stubVerifier{principal: user.Principal{UserID: "user-1", Name: "Kim", School: "KAIST"}}

	return NewRouter(handler, verifier, logger, []string{"*"}, testJobToken)
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object in response, got %s", rec.Body.String())
	}

	return data
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_GetActiveMatch(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/cheer/active-match", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	if got, _ := data["id"].(string); got != memory.MatchIDFinals {
		t.Fatalf("expected active match %q, got %v", memory.MatchIDFinals, data["id"])
	}
	home, ok := data["homeTeam"].(map[string]any)
	if !ok {
		t.Fatalf("expected homeTeam object, got %v", data["homeTeam"])
	}
	if got, _ := home["id"].(string); got != memory.TeamIDKaist {
		t.Fatalf("expected home team %q, got %v", memory.TeamIDKaist, home["id"])
	}
	if got, _ := data["homeTotalTaps"].(float64); got != 0 {
		t.Fatalf("expected zero home taps on fresh store, got %v", data["homeTotalTaps"])
	}
}

func TestRouter_ApplyTap_RequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	body := `{"matchId":"` + memory.MatchIDFinals + `","teamId":"` + memory.TeamIDKaist + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/cheer/taps", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}
}

func TestRouter_ApplyTap_DefaultsCountToOne(t *testing.T) {
	router := newTestRouter(t)

	body := `{"matchId":"` + memory.MatchIDFinals + `","teamId":"` + memory.TeamIDKaist + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/cheer/taps", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token-abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	tapObj, ok := data["tap"].(map[string]any)
	if !ok {
		t.Fatalf("expected tap object, got %v", data["tap"])
	}
	if got, _ := tapObj["count"].(float64); got != 1 {
		t.Fatalf("expected tap count 1, got %v", tapObj["count"])
	}
	if got, _ := data["homeTotalTaps"].(float64); got != 1 {
		t.Fatalf("expected homeTotalTaps 1, got %v", data["homeTotalTaps"])
	}
	if got, _ := data["awayTotalTaps"].(float64); got != 0 {
		t.Fatalf("expected awayTotalTaps 0, got %v", data["awayTotalTaps"])
	}
}

func TestRouter_ApplyTap_AccumulatesAcrossCalls(t *testing.T) {
	router := newTestRouter(t)

	send := func(count string) *httptest.ResponseRecorder {
		body := `{"matchId":"` + memory.MatchIDFinals + `","teamId":"` + memory.TeamIDKaist + `","count":` + count + `}`
		req := httptest.NewRequest(http.MethodPost, "/v1/cheer/taps", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer token-abc")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := send("3"); rec.Code != http.StatusCreated {
		t.Fatalf("first tap: expected status 201, got %d", rec.Code)
	}
	rec := send("2")
	if rec.Code != http.StatusCreated {
		t.Fatalf("second tap: expected status 201, got %d", rec.Code)
	}

	data := decodeData(t, rec)
	tapObj := data["tap"].(map[string]any)
	if got, _ := tapObj["count"].(float64); got != 5 {
		t.Fatalf("expected accumulated count 5, got %v", tapObj["count"])
	}
}

func TestRouter_ApplyTap_InactiveMatch(t *testing.T) {
	router := newTestRouter(t)

	body := `{"matchId":"` + memory.MatchIDWarmup + `","teamId":"` + memory.TeamIDKaist + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/cheer/taps", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token-abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	errorObj := envelope["error"].(map[string]any)
	if got, _ := errorObj["status"].(string); got != "MATCH_INACTIVE" {
		t.Fatalf("expected MATCH_INACTIVE status, got %v", errorObj["status"])
	}
}

func TestRouter_ApplyTap_RejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t)

	body := `{"matchId":"` + memory.MatchIDFinals + `","teamId":"` + memory.TeamIDKaist + `","bogus":true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/cheer/taps", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token-abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown field, got %d", rec.Code)
	}
}

func TestRouter_ListPosts(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/posts?limit=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	items, ok := data["items"].([]any)
	if !ok {
		t.Fatalf("expected items array, got %v", data["items"])
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if data["nextCursor"] == nil {
		t.Fatal("expected nextCursor on a partial page")
	}
}

func TestRouter_ListPosts_MalformedLimit(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/posts?limit=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_GetBattle_LoadingBeforeFirstRefresh(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/cheer/battle", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	if got, _ := data["isLoading"].(bool); !got {
		t.Fatal("expected isLoading=true before the poller's first refresh")
	}
}

func TestRouter_RunTapAudit_RequiresJobToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/tap-audit", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without job token, got %d", rec.Code)
	}
}

func TestRouter_RunTapAudit_EmptyBodyAuditsAllMatches(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/tap-audit", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	if got, _ := data["match_count"].(float64); got != 2 {
		t.Fatalf("expected 2 audited matches, got %v", data["match_count"])
	}
	if got, _ := data["mismatch_count"].(float64); got != 0 {
		t.Fatalf("expected no mismatches on a clean store, got %v", data["mismatch_count"])
	}
}

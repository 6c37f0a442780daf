package usecase

import (
	"errors"
	"sync"
	"testing"

	"github.com/kapofest/cheerboard/internal/infrastructure/repository/memory"
	"github.com/kapofest/cheerboard/internal/platform/logging"
)

func newCheerFixture() (*CheerService, *memory.MatchRepository, *memory.TapRepository) {
	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	tapRepo := memory.NewTapRepository()
	service := NewCheerService(matchRepo, teamRepo, tapRepo, logging.NewNop())

	return service, matchRepo, tapRepo
}

func TestCheerService_ApplyTap_AccumulatesPerUser(t *testing.T) {
	service, _, _ := newCheerFixture()

	first, err := service.ApplyTap(t.Context(), ApplyTapInput{
		MatchID: memory.MatchIDFinals,
		TeamID:  memory.TeamIDKaist,
		UserID:  "user-1",
		Count:   3,
	})
	if err != nil {
		t.Fatalf("first tap failed: %v", err)
	}
	if first.Tap.Count != 3 {
		t.Fatalf("unexpected count after first tap: got=%d want=3", first.Tap.Count)
	}

	second, err := service.ApplyTap(t.Context(), ApplyTapInput{
		MatchID: memory.MatchIDFinals,
		TeamID:  memory.TeamIDKaist,
		UserID:  "user-1",
		Count:   2,
	})
	if err != nil {
		t.Fatalf("second tap failed: %v", err)
	}
	if second.Tap.Count != 5 {
		t.Fatalf("taps from the same user must accumulate: got=%d want=5", second.Tap.Count)
	}
	if second.Tap.ID != first.Tap.ID {
		t.Fatalf("expected a single record per (match, team, user), got two ids")
	}
	if second.HomeTotal != 5 || second.AwayTotal != 0 {
		t.Fatalf("unexpected totals: home=%d away=%d", second.HomeTotal, second.AwayTotal)
	}
}

func TestCheerService_ApplyTap_TotalsIncludeOwnIncrement(t *testing.T) {
	service, _, _ := newCheerFixture()

	result, err := service.ApplyTap(t.Context(), ApplyTapInput{
		MatchID: memory.MatchIDFinals,
		TeamID:  memory.TeamIDPostech,
		UserID:  "user-1",
		Count:   7,
	})
	if err != nil {
		t.Fatalf("apply tap failed: %v", err)
	}
	if result.AwayTotal != 7 {
		t.Fatalf("returned total must include the just-applied increment: got=%d want=7", result.AwayTotal)
	}
}

func TestCheerService_ApplyTap_ConcurrentIncrementsCompose(t *testing.T) {
	service, _, _ := newCheerFixture()

	const workers = 16
	const tapsPerWorker = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			userID := "user-shared"
			if worker%2 == 0 {
				userID = "user-other"
			}
			for j := 0; j < tapsPerWorker; j++ {
				if _, err := service.ApplyTap(t.Context(), ApplyTapInput{
					MatchID: memory.MatchIDFinals,
					TeamID:  memory.TeamIDKaist,
					UserID:  userID,
					Count:   1,
				}); err != nil {
					t.Errorf("concurrent tap failed: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	got, err := service.MatchWithTotals(t.Context(), memory.MatchIDFinals)
	if err != nil {
		t.Fatalf("load totals failed: %v", err)
	}
	if want := int64(workers * tapsPerWorker); got.HomeTotal != want {
		t.Fatalf("lost increments under concurrency: got=%d want=%d", got.HomeTotal, want)
	}
}

func TestCheerService_ApplyTap_ValidationFailuresDoNotMutate(t *testing.T) {
	service, matchRepo, tapRepo := newCheerFixture()

	cases := []struct {
		name    string
		input   ApplyTapInput
		wantErr error
		prepare func()
	}{
		{
			name:    "count below minimum",
			input:   ApplyTapInput{MatchID: memory.MatchIDFinals, TeamID: memory.TeamIDKaist, UserID: "u", Count: 0},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "count above maximum",
			input:   ApplyTapInput{MatchID: memory.MatchIDFinals, TeamID: memory.TeamIDKaist, UserID: "u", Count: TapMaxCount + 1},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown match",
			input:   ApplyTapInput{MatchID: "match-missing", TeamID: memory.TeamIDKaist, UserID: "u", Count: 1},
			wantErr: ErrNotFound,
		},
		{
			name:    "inactive match",
			input:   ApplyTapInput{MatchID: memory.MatchIDWarmup, TeamID: memory.TeamIDKaist, UserID: "u", Count: 1},
			wantErr: ErrMatchInactive,
		},
		{
			name:    "team not in match",
			input:   ApplyTapInput{MatchID: memory.MatchIDFinals, TeamID: "team-stranger", UserID: "u", Count: 1},
			wantErr: ErrInvalidTeam,
		},
		{
			name: "match deactivated mid-flight",
			prepare: func() {
				matchRepo.SetActive(memory.MatchIDFinals, false)
			},
			input:   ApplyTapInput{MatchID: memory.MatchIDFinals, TeamID: memory.TeamIDKaist, UserID: "u", Count: 1},
			wantErr: ErrMatchInactive,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.prepare != nil {
				tc.prepare()
			}
			_, err := service.ApplyTap(t.Context(), tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tc.wantErr)
			}
		})
	}

	totals, err := tapRepo.TotalsByTeam(t.Context(), memory.MatchIDFinals, []string{memory.TeamIDKaist, memory.TeamIDPostech})
	if err != nil {
		t.Fatalf("read totals failed: %v", err)
	}
	if totals[memory.TeamIDKaist] != 0 || totals[memory.TeamIDPostech] != 0 {
		t.Fatalf("rejected taps must not mutate the store: %v", totals)
	}
}

func TestCheerService_ActiveMatchWithTotals(t *testing.T) {
	service, _, _ := newCheerFixture()

	if _, err := service.ApplyTap(t.Context(), ApplyTapInput{
		MatchID: memory.MatchIDFinals,
		TeamID:  memory.TeamIDPostech,
		UserID:  "user-1",
		Count:   4,
	}); err != nil {
		t.Fatalf("seed tap failed: %v", err)
	}

	got, err := service.ActiveMatchWithTotals(t.Context())
	if err != nil {
		t.Fatalf("active match lookup failed: %v", err)
	}
	if got.Match.ID != memory.MatchIDFinals {
		t.Fatalf("unexpected active match: %s", got.Match.ID)
	}
	if got.HomeTeam.ID != memory.TeamIDKaist || got.AwayTeam.ID != memory.TeamIDPostech {
		t.Fatalf("teams not resolved: home=%s away=%s", got.HomeTeam.ID, got.AwayTeam.ID)
	}
	if got.HomeTotal != 0 || got.AwayTotal != 4 {
		t.Fatalf("unexpected totals: home=%d away=%d", got.HomeTotal, got.AwayTotal)
	}
}

func TestCheerService_ActiveMatchWithTotals_NoActiveMatch(t *testing.T) {
	service, matchRepo, _ := newCheerFixture()
	matchRepo.SetActive(memory.MatchIDFinals, false)

	_, err := service.ActiveMatchWithTotals(t.Context())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without an active match, got %v", err)
	}
}

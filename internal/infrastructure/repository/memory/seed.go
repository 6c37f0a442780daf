package memory

import (
	"time"

	"github.com/kapofest/cheerboard/internal/domain/match"
	"github.com/kapofest/cheerboard/internal/domain/post"
	"github.com/kapofest/cheerboard/internal/domain/team"
)

const (
	TeamIDKaist   = "team-kaist"
	TeamIDPostech = "team-postech"

	MatchIDFinals = "match-kapo-finals"
	MatchIDWarmup = "match-kapo-warmup"
	SchoolKaist   = "KAIST"
	SchoolPostech = "POSTECH"
)

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDKaist, Name: "KAIST Nupjuk", School: SchoolKaist, LogoURL: "https://cdn.kapofest.dev/logos/kaist.png"},
		{ID: TeamIDPostech, Name: "POSTECH Phoenix", School: SchoolPostech, LogoURL: "https://cdn.kapofest.dev/logos/postech.png"},
	}
}

func SeedMatches() []match.Match {
	warmupEnd := time.Date(2026, 9, 18, 12, 0, 0, 0, time.UTC)

	return []match.Match{
		{
			ID:         MatchIDFinals,
			Title:      "KAIST vs POSTECH Finals",
			IsActive:   true,
			StartsAt:   time.Date(2026, 9, 19, 9, 0, 0, 0, time.UTC),
			HomeTeamID: TeamIDKaist,
			AwayTeamID: TeamIDPostech,
		},
		{
			ID:         MatchIDWarmup,
			Title:      "Warmup Exhibition",
			IsActive:   false,
			StartsAt:   time.Date(2026, 9, 18, 9, 0, 0, 0, time.UTC),
			EndsAt:     &warmupEnd,
			HomeTeamID: TeamIDKaist,
			AwayTeamID: TeamIDPostech,
		},
	}
}

func SeedPosts() []post.Post {
	createdAt := time.Date(2026, 9, 19, 10, 0, 0, 0, time.UTC)

	return []post.Post{
		{ID: 1, PublicID: "post-0001", Title: "Opening ceremony", Content: "Let the games begin", AuthorID: "user-k1", AuthorName: "Jiwoo", AuthorSchool: SchoolKaist, Tag: "ceremony", LikeCount: 12, Visibility: post.VisibilityPublic, CreatedAt: createdAt},
		{ID: 2, PublicID: "post-0002", Title: "Phoenix rising", Content: "We got this", AuthorID: "user-p1", AuthorName: "Minseo", AuthorSchool: SchoolPostech, Tag: "cheer", LikeCount: 20, Visibility: post.VisibilityPublic, CreatedAt: createdAt.Add(time.Minute)},
		{ID: 3, PublicID: "post-0003", Title: "Nupjuk forever", Content: "Louder", AuthorID: "user-k2", AuthorName: "Hyun", AuthorSchool: SchoolKaist, Tag: "cheer", LikeCount: 31, Visibility: post.VisibilityPublic, CreatedAt: createdAt.Add(2 * time.Minute)},
		{ID: 4, PublicID: "post-0004", Title: "Food truck line", Content: "Worth it", AuthorID: "user-p2", AuthorName: "Dana", AuthorSchool: SchoolPostech, Tag: "food", LikeCount: 7, Visibility: post.VisibilityPublic, CreatedAt: createdAt.Add(3 * time.Minute)},
		{ID: 5, PublicID: "post-0005", Title: "Halftime show", Content: "Incredible set", AuthorID: "user-k3", AuthorName: "Sora", AuthorSchool: SchoolKaist, Tag: "show", LikeCount: 25, Visibility: post.VisibilityPublic, CreatedAt: createdAt.Add(4 * time.Minute)},
	}
}

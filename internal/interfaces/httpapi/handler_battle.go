package httpapi

import (
	"net/http"
	"time"
)

type battleBoardDTO struct {
	HomeTotalLikes int64     `json:"homeTotalLikes"`
	AwayTotalLikes int64     `json:"awayTotalLikes"`
	HomeWeight     float64   `json:"homeWeight"`
	AwayWeight     float64   `json:"awayWeight"`
	TopPostsHome   []postDTO `json:"topPostsHome"`
	TopPostsAway   []postDTO `json:"topPostsAway"`
	IsLoading      bool      `json:"isLoading"`
	LastError      string    `json:"lastError,omitempty"`
	ComputedAt     time.Time `json:"computedAt"`
}

// GetBattle serves the most recent like-battle board. The board is computed by
// the background poller, so this endpoint never touches the feed repository.
func (h *Handler) GetBattle(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBattle")
	defer span.End()

	board := h.battlePoller.Board()

	topHome := make([]postDTO, 0, len(board.TopPostsHome))
	for _, item := range board.TopPostsHome {
		topHome = append(topHome, postToDTO(item))
	}
	topAway := make([]postDTO, 0, len(board.TopPostsAway))
	for _, item := range board.TopPostsAway {
		topAway = append(topAway, postToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, battleBoardDTO{
		HomeTotalLikes: board.HomeTotal,
		AwayTotalLikes: board.AwayTotal,
		HomeWeight:     board.HomeWeight,
		AwayWeight:     board.AwayWeight,
		TopPostsHome:   topHome,
		TopPostsAway:   topAway,
		IsLoading:      board.IsLoading,
		LastError:      board.LastError,
		ComputedAt:     board.ComputedAt,
	})
}

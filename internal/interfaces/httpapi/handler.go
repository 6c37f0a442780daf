package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/kapofest/cheerboard/internal/domain/post"
	"github.com/kapofest/cheerboard/internal/domain/team"
	"github.com/kapofest/cheerboard/internal/platform/logging"
	"github.com/kapofest/cheerboard/internal/usecase"
)

type Handler struct {
	cheerService *usecase.CheerService
	feedService  *usecase.FeedService
	battlePoller *usecase.BattlePoller
	auditService *usecase.TapAuditService
	logger       *logging.Logger
	validator    *validator.Validate
}

func NewHandler(
	cheerService *usecase.CheerService,
	feedService *usecase.FeedService,
	battlePoller *usecase.BattlePoller,
	auditService *usecase.TapAuditService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		cheerService: cheerService,
		feedService:  feedService,
		battlePoller: battlePoller,
		auditService: auditService,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type teamDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	School  string `json:"school"`
	LogoURL string `json:"logoUrl,omitempty"`
}

type activeMatchDTO struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	IsActive      bool       `json:"isActive"`
	StartsAt      time.Time  `json:"startsAt"`
	EndsAt        *time.Time `json:"endsAt,omitempty"`
	HomeTeam      teamDTO    `json:"homeTeam"`
	AwayTeam      teamDTO    `json:"awayTeam"`
	HomeTotalTaps int64      `json:"homeTotalTaps"`
	AwayTotalTaps int64      `json:"awayTotalTaps"`
}

func (h *Handler) GetActiveMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetActiveMatch")
	defer span.End()

	result, err := h.cheerService.ActiveMatchWithTotals(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get active match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, activeMatchDTO{
		ID:            result.Match.ID,
		Title:         result.Match.Title,
		IsActive:      result.Match.IsActive,
		StartsAt:      result.Match.StartsAt,
		EndsAt:        result.Match.EndsAt,
		HomeTeam:      teamToDTO(result.HomeTeam),
		AwayTeam:      teamToDTO(result.AwayTeam),
		HomeTotalTaps: result.HomeTotal,
		AwayTotalTaps: result.AwayTotal,
	})
}

type applyTapRequest struct {
	MatchID string `json:"matchId" validate:"required"`
	TeamID  string `json:"teamId" validate:"required"`
	// Count is optional; a missing or zero count means a single tap.
	Count int64 `json:"count" validate:"omitempty,min=0"`
}

type tapDTO struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"matchId"`
	TeamID    string    `json:"teamId"`
	Count     int64     `json:"count"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type applyTapResponse struct {
	OK            bool   `json:"ok"`
	Tap           tapDTO `json:"tap"`
	HomeTotalTaps int64  `json:"homeTotalTaps"`
	AwayTotalTaps int64  `json:"awayTotalTaps"`
}

func (h *Handler) ApplyTap(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyTap")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req applyTapRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}

	result, err := h.cheerService.ApplyTap(ctx, usecase.ApplyTapInput{
		MatchID: req.MatchID,
		TeamID:  req.TeamID,
		UserID:  principal.UserID,
		Count:   req.Count,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "apply tap failed",
			"user_id", principal.UserID,
			"match_id", req.MatchID,
			"team_id", req.TeamID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	if h.battlePoller != nil {
		h.battlePoller.TriggerRefresh()
	}

	writeSuccess(ctx, w, http.StatusCreated, applyTapResponse{
		OK: true,
		Tap: tapDTO{
			ID:        result.Tap.ID,
			MatchID:   result.Tap.MatchID,
			TeamID:    result.Tap.TeamID,
			Count:     result.Tap.Count,
			UpdatedAt: result.Tap.UpdatedAt,
		},
		HomeTotalTaps: result.HomeTotal,
		AwayTotalTaps: result.AwayTotal,
	})
}

type postDTO struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorName string    `json:"authorName"`
	School     string    `json:"school"`
	Tag        string    `json:"tag,omitempty"`
	LikeCount  int64     `json:"likeCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

type feedPageResponse struct {
	Items      []postDTO `json:"items"`
	NextCursor *string   `json:"nextCursor"`
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPosts")
	defer span.End()

	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: malformed limit %q", usecase.ErrInvalidInput, raw))
			return
		}
		limit = parsed
	}

	page, err := h.feedService.FetchPage(ctx, usecase.FetchPageInput{
		Filter: post.Filter{
			School:     query.Get("school"),
			Tag:        query.Get("tag"),
			Visibility: post.VisibilityPublic,
		},
		Cursor: query.Get("cursor"),
		Limit:  limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list posts failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]postDTO, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, postToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, feedPageResponse{
		Items:      items,
		NextCursor: page.NextCursor,
	})
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:      t.ID,
		Name:    t.Name,
		School:  t.School,
		LogoURL: t.LogoURL,
	}
}

func postToDTO(item post.Post) postDTO {
	return postDTO{
		ID:         item.PublicID,
		Title:      item.Title,
		Content:    item.Content,
		AuthorName: item.AuthorName,
		School:     item.AuthorSchool,
		Tag:        item.Tag,
		LikeCount:  item.LikeCount,
		CreatedAt:  item.CreatedAt,
	}
}

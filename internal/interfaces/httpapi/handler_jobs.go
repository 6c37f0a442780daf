package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/kapofest/cheerboard/internal/usecase"
)

type runTapAuditRequest struct {
	MatchID    string `json:"matchId"`
	MaxWorkers int    `json:"maxWorkers" validate:"omitempty,min=1,max=64"`
}

// RunTapAudit triggers a tap integrity audit. The body is optional; an empty
// body audits every match with the default worker count.
func (h *Handler) RunTapAudit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunTapAudit")
	defer span.End()

	var req runTapAuditRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auditService.Run(ctx, usecase.TapAuditInput{
		MatchID:    req.MatchID,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "tap audit failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

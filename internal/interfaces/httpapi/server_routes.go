package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/cheer/active-match", handler.GetActiveMatch)
	mux.HandleFunc("GET /v1/cheer/battle", handler.GetBattle)
	mux.HandleFunc("GET /v1/posts", handler.ListPosts)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/cheer/taps", RequireAuth(verifier, http.HandlerFunc(handler.ApplyTap)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/tap-audit", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunTapAudit)))
}

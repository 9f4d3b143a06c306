package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/sequence/internal/game"
)

// HealthResponse documents the /healthz body.
type HealthResponse struct {
	Status string                       `json:"status"`
	Checks map[string]map[string]string `json:"checks"`
}

type codePath struct {
	Code string `path:"code"`
}

type historyQuery struct {
	Limit int `query:"limit" minimum:"1" maximum:"100"`
}

type realtimeQuery struct {
	Match string `query:"match" required:"true"`
	Token string `query:"token" required:"true"`
}

type operation struct {
	method, path, summary, description string
	req                                any
	resps                              []response
}

type response struct {
	body   any
	status int
}

func okResp(body any) response      { return response{body, http.StatusOK} }
func createdResp(body any) response { return response{body, http.StatusCreated} }
func failure(status int) response   { return response{ErrorResponse{}, status} }

var unauthorized = failure(http.StatusUnauthorized)

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Sequence API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Match server for the Sequence board game. " +
		"Authenticated routes take the player token as a Bearer header.")

	ops := []operation{
		{http.MethodGet, "/healthz", "Health check", "Returns the status of optional dependencies.", nil,
			[]response{okResp(HealthResponse{}), {HealthResponse{}, http.StatusServiceUnavailable}}},
		{http.MethodGet, "/ws", "Realtime socket",
			"Upgrades to a WebSocket carrying {type, id, payload} envelopes for one match.", realtimeQuery{},
			[]response{{nil, http.StatusSwitchingProtocols}, unauthorized}},

		{http.MethodPut, "/api/players", "Create player", "Registers a player and returns its token.", CreatePlayerRequest{},
			[]response{createdResp(PlayerResponse{}), failure(http.StatusBadRequest)}},
		{http.MethodGet, "/api/players/me", "Current player", "Returns the authenticated player.", nil,
			[]response{okResp(PlayerResponse{}), unauthorized}},
		{http.MethodPatch, "/api/players/me", "Rename player", "Changes the nickname of the authenticated player.", RenamePlayerRequest{},
			[]response{okResp(PlayerResponse{}), failure(http.StatusBadRequest), unauthorized}},

		{http.MethodPut, "/api/matches", "Create match", "Creates a match owned by the caller.", nil,
			[]response{createdResp(game.MatchView{}), unauthorized}},
		{http.MethodGet, "/api/matches/{code}", "Get match", "Returns the public view of a match.", codePath{},
			[]response{okResp(game.MatchView{}), failure(http.StatusNotFound), unauthorized}},
		{http.MethodGet, "/api/matches/{code}/state", "Get match state", "Returns the caller's board, hand and turn.", codePath{},
			[]response{okResp(game.MatchStatePayload{}), failure(http.StatusNotFound), unauthorized}},
		{http.MethodPost, "/api/matches/{code}/join", "Join match", "Seats the caller in a lobby.", codePath{},
			[]response{okResp(JoinResponse{}), {JoinResponse{}, http.StatusNotFound}, {JoinResponse{}, http.StatusConflict},
				{JoinResponse{}, http.StatusForbidden}, unauthorized}},

		{http.MethodPut, "/api/parties", "Create party", "Creates a party and its first match.", nil,
			[]response{createdResp(game.PartyView{}), unauthorized}},
		{http.MethodGet, "/api/parties/{code}", "Get party", "Returns the party and its active match.", codePath{},
			[]response{okResp(game.PartyView{}), failure(http.StatusNotFound), unauthorized}},
		{http.MethodPost, "/api/parties/{code}/join", "Join party", "Seats the caller in the party's active match.", codePath{},
			[]response{okResp(JoinResponse{}), {JoinResponse{}, http.StatusNotFound}, {JoinResponse{}, http.StatusConflict},
				{JoinResponse{}, http.StatusForbidden}, unauthorized}},
		{http.MethodPost, "/api/parties/{code}/matches", "New party match", "Starts the next match of a party.",
			struct {
				codePath
				NewPartyMatchRequest
			}{},
			[]response{createdResp(game.MatchView{}), failure(http.StatusBadRequest), failure(http.StatusForbidden),
				failure(http.StatusNotFound), failure(http.StatusConflict), unauthorized}},

		{http.MethodGet, "/api/history", "Recent results", "Lists archived matches, newest first.", historyQuery{},
			[]response{okResp([]game.Result{}), failure(http.StatusBadRequest), unauthorized}},
		{http.MethodGet, "/api/parties/{code}/history", "Party results", "Lists the archived matches of a party.", codePath{},
			[]response{okResp([]game.Result{}), unauthorized}},
	}

	for _, op := range ops {
		oc, _ := r.NewOperationContext(op.method, op.path)
		oc.SetSummary(op.summary)
		oc.SetDescription(op.description)
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		for _, resp := range op.resps {
			if resp.body == nil {
				oc.AddRespStructure(nil, openapi.WithHTTPStatus(resp.status), openapi.WithContentType("text/plain"))
				continue
			}
			oc.AddRespStructure(resp.body, openapi.WithHTTPStatus(resp.status))
		}
		_ = r.AddOperation(oc)
	}
	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

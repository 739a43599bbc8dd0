package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/boardquiz/internal/boardquiz"
	"github.com/playperu/boardquiz/internal/game"
)

type operation struct {
	method, path, summary, description string
	req                                any
	resp                               any
	errors                             []int
}

type categoryQuery struct {
	Q     string `query:"q" description:"Search term; overrides group."`
	Group string `query:"group" description:"Group name in either language."`
}

type groupQuery struct {
	Lang boardquiz.Language `query:"lang" enum:"ar,en"`
}

type renameTeamInput struct {
	TeamID int    `path:"teamID"`
	Name   string `json:"name"`
}

type teamToolPath struct {
	TeamID int              `path:"teamID"`
	ToolID boardquiz.ToolID `path:"toolID"`
}

type categoryPath struct {
	CategoryID string `path:"categoryID"`
}

type toolPath struct {
	ToolID boardquiz.ToolID `path:"toolID"`
}

var operations = []operation{
	{http.MethodGet, "/api/categories", "List categories", "Filters the category pool. `q` searches names and groups in both languages; `group` applies only when `q` is empty.", categoryQuery{}, CategoryListResponse{}, nil},
	{http.MethodGet, "/api/groups", "List category groups", "Distinct group names in the language given by `lang`, defaulting to the session language.", groupQuery{}, []string{}, []int{http.StatusBadRequest}},
	{http.MethodGet, "/api/tools", "List power tools", "The tool registry with usage windows.", nil, []boardquiz.Tool{}, nil},

	{http.MethodGet, "/api/game", "Get game state", "Returns the full session snapshot.", nil, game.Snapshot{}, nil},
	{http.MethodGet, "/api/game/events", "SSE snapshot stream", "Server-Sent Events stream emitting a snapshot after every change.", nil, nil, nil},
	{http.MethodPost, "/api/game/setup", "Configure game", "Leaves START with a language and 2-4 default-named teams.", SetupRequest{}, game.Snapshot{}, []int{http.StatusConflict, http.StatusUnprocessableEntity}},
	{http.MethodPut, "/api/game/language", "Switch language", "Changes the session language in any state.", LanguageRequest{}, game.Snapshot{}, []int{http.StatusUnprocessableEntity}},
	{http.MethodPut, "/api/game/teams/{teamID}/name", "Rename team", "Edits a team name during setup.", renameTeamInput{}, game.Snapshot{}, []int{http.StatusNotFound, http.StatusConflict}},
	{http.MethodPost, "/api/game/teams/{teamID}/tools/{toolID}", "Toggle team tool", "Adds or removes one of at most 3 setup tools.", teamToolPath{}, game.Snapshot{}, []int{http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity}},
	{http.MethodPost, "/api/game/teams/confirm", "Confirm teams", "Moves to category selection once team names are unique.", nil, game.Snapshot{}, []int{http.StatusConflict, http.StatusUnprocessableEntity}},
	{http.MethodPost, "/api/game/categories/{categoryID}", "Toggle category", "Adds or removes one of at most 6 board categories.", categoryPath{}, game.Snapshot{}, []int{http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity}},
	{http.MethodPost, "/api/game/start", "Start playing", "Moves to PLAYING with at least one category.", nil, game.Snapshot{}, []int{http.StatusConflict, http.StatusUnprocessableEntity}},
	{http.MethodPost, "/api/game/back", "Go back", "Rewinds the state one step without discarding data.", nil, game.Snapshot{}, []int{http.StatusConflict}},
	{http.MethodPost, "/api/game/end", "End game", "Jumps to SUMMARY.", nil, game.Snapshot{}, []int{http.StatusConflict}},
	{http.MethodPost, "/api/game/reset", "Reset game", "Discards all teams and categories and returns to START.", nil, game.Snapshot{}, []int{http.StatusConflict}},
	{http.MethodPost, "/api/game/turn/cell", "Select cell", "Holds a category and value as the pending cell.", CellRequest{}, game.Snapshot{}, []int{http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity}},
	{http.MethodPost, "/api/game/turn/tools/{toolID}", "Toggle turn tool", "Activates or deactivates a power tool; skip abandons the turn.", toolPath{}, game.Snapshot{}, []int{http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity}},
	{http.MethodPut, "/api/game/turn/pit-target", "Set pit target", "Designates the team the pit deducts from.", PitTargetRequest{}, game.Snapshot{}, []int{http.StatusConflict, http.StatusUnprocessableEntity}},
	{http.MethodPost, "/api/game/turn/question", "Fetch question", "Requests a question for the pending cell and starts the countdown.", nil, game.Snapshot{}, []int{http.StatusConflict, http.StatusUnprocessableEntity, http.StatusBadGateway}},
	{http.MethodPost, "/api/game/turn/answer", "Submit answer", "Submits an option index for the active team.", AnswerRequest{}, AnswerResponse{}, []int{http.StatusConflict, http.StatusUnprocessableEntity}},
	{http.MethodPost, "/api/game/turn/next", "Next turn", "Clears the turn and passes play to the next team.", nil, game.Snapshot{}, []int{http.StatusConflict}},
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Board Quiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Local host API driving a trivia board game session.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]struct {
		Status string `json:"status"`
	}{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealthz)

	// GET /ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws")
	getWS.SetSummary("WebSocket snapshot stream")
	getWS.SetDescription("Upgrades to a WebSocket connection that pushes a snapshot after every change.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	for _, op := range operations {
		oc, _ := r.NewOperationContext(op.method, op.path)
		oc.SetSummary(op.summary)
		oc.SetDescription(op.description)
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		if op.resp != nil {
			oc.AddRespStructure(op.resp, openapi.WithHTTPStatus(http.StatusOK))
		} else {
			oc.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
				openapi.WithContentType("text/event-stream"))
		}
		for _, status := range op.errors {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(status))
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

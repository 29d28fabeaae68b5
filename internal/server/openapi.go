package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// HealthResponse documents /healthz, which is served by internal/handler/health.
type HealthResponse map[string]struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type levelPath struct {
	LevelID int `path:"levelID"`
}

type startWithQuestionsInput struct {
	LevelID   int             `path:"levelID"`
	Questions []QuestionInput `json:"questions"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "FarmQuest API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Game-session API for the FarmQuest satellite crop quiz.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the status of the storage backend and question source.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/session
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/session")
	getSession.SetSummary("Get session state")
	getSession.SetDescription("Returns the session, the attempt in progress and the loading/error flags.")
	getSession.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getSession)

	// POST /api/session
	postSession, _ := r.NewOperationContext(http.MethodPost, "/api/session")
	postSession.SetSummary("Start a new session")
	postSession.SetDescription("Creates a new player and session for the chosen crop, replacing any stored one.")
	postSession.AddReqStructure(InitSessionRequest{})
	postSession.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(postSession)

	// POST /api/session/continue
	postContinue, _ := r.NewOperationContext(http.MethodPost, "/api/session/continue")
	postContinue.SetSummary("Continue or start a session")
	postContinue.SetDescription("Keeps the stored player and switches crop, or starts a new session when none is stored.")
	postContinue.AddReqStructure(InitSessionRequest{})
	postContinue.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postContinue.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postContinue.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(postContinue)

	// POST /api/session/load
	postLoad, _ := r.NewOperationContext(http.MethodPost, "/api/session/load")
	postLoad.SetSummary("Reload session")
	postLoad.SetDescription("Reads the stored session into memory. Nothing stored yields a null session.")
	postLoad.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLoad)

	// DELETE /api/session
	deleteSession, _ := r.NewOperationContext(http.MethodDelete, "/api/session")
	deleteSession.SetSummary("Clear session")
	deleteSession.SetDescription("Erases the stored session and resets all in-memory state.")
	deleteSession.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(deleteSession)

	// PUT /api/session/crop
	putCrop, _ := r.NewOperationContext(http.MethodPut, "/api/session/crop")
	putCrop.SetSummary("Select crop")
	putCrop.SetDescription("Switches the selected crop and resets the current level to 1.")
	putCrop.AddReqStructure(SelectCropRequest{})
	putCrop.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putCrop.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putCrop.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(putCrop)

	// GET /api/levels
	getLevels, _ := r.NewOperationContext(http.MethodGet, "/api/levels")
	getLevels.SetSummary("List levels")
	getLevels.SetDescription("Returns every level with its status for the selected crop.")
	getLevels.AddRespStructure([]LevelDTO{}, openapi.WithHTTPStatus(http.StatusOK))
	getLevels.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(getLevels)

	// GET /api/levels/{levelID}/progress
	getProgress, _ := r.NewOperationContext(http.MethodGet, "/api/levels/{levelID}/progress")
	getProgress.SetSummary("Level progress")
	getProgress.SetDescription("Returns the selected crop's progress for one level.")
	getProgress.AddReqStructure(levelPath{})
	getProgress.AddRespStructure(LevelProgressDTO{}, openapi.WithHTTPStatus(http.StatusOK))
	getProgress.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getProgress)

	// POST /api/levels/{levelID}/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/levels/{levelID}/start")
	postStart.SetSummary("Start level")
	postStart.SetDescription("Loads the level's questions in the current language and resets the attempt.")
	postStart.AddReqStructure(levelPath{})
	postStart.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postStart)

	// POST /api/levels/{levelID}/start-with-questions
	postStartWith, _ := r.NewOperationContext(http.MethodPost, "/api/levels/{levelID}/start-with-questions")
	postStartWith.SetSummary("Start level with questions")
	postStartWith.SetDescription("Starts the level with a caller-supplied question list.")
	postStartWith.AddReqStructure(startWithQuestionsInput{})
	postStartWith.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStartWith.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postStartWith.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStartWith)

	// GET /api/attempt/question
	getQuestion, _ := r.NewOperationContext(http.MethodGet, "/api/attempt/question")
	getQuestion.SetSummary("Current question")
	getQuestion.SetDescription("Returns the question being answered, without the correct option.")
	getQuestion.AddRespStructure(QuestionDTO{}, openapi.WithHTTPStatus(http.StatusOK))
	getQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQuestion)

	// POST /api/attempt/select
	postSelect, _ := r.NewOperationContext(http.MethodPost, "/api/attempt/select")
	postSelect.SetSummary("Select answer")
	postSelect.SetDescription("Records a tentative choice. Ignored once the answer has been submitted.")
	postSelect.AddReqStructure(SelectAnswerRequest{})
	postSelect.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSelect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postSelect)

	// POST /api/attempt/submit
	postSubmit, _ := r.NewOperationContext(http.MethodPost, "/api/attempt/submit")
	postSubmit.SetSummary("Submit answer")
	postSubmit.SetDescription("Grades the selected option and reveals the correct one.")
	postSubmit.AddRespStructure(SubmitAnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postSubmit)

	// POST /api/attempt/next
	postNext, _ := r.NewOperationContext(http.MethodPost, "/api/attempt/next")
	postNext.SetSummary("Next question")
	postNext.SetDescription("Advances to the following question. Does nothing on the last one.")
	postNext.AddRespStructure(NextQuestionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postNext)

	// POST /api/attempt/finish
	postFinish, _ := r.NewOperationContext(http.MethodPost, "/api/attempt/finish")
	postFinish.SetSummary("Finish level")
	postFinish.SetDescription("Scores the attempt, stores the result and unlocks the next level when completed.")
	postFinish.AddRespStructure(FinishLevelResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postFinish.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postFinish.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(postFinish)

	// PUT /api/language
	putLanguage, _ := r.NewOperationContext(http.MethodPut, "/api/language")
	putLanguage.SetSummary("Set language")
	putLanguage.SetDescription("Changes the display language used for later question fetches.")
	putLanguage.AddReqStructure(LanguageRequest{})
	putLanguage.AddRespStructure(LanguageResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putLanguage.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(putLanguage)

	// GET /api/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of session changes.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/events
	getWSEvents, _ := r.NewOperationContext(http.MethodGet, "/ws/events")
	getWSEvents.SetSummary("WebSocket event stream")
	getWSEvents.SetDescription("Upgrades to a WebSocket connection carrying the same events as /api/events.")
	getWSEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWSEvents)

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

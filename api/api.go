package api

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/xerrors"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/ledger"
	"github.com/spikeekips/partivotes/poll"
)

const maxInvocationBody int64 = 1 << 20

// App serves the ledger over http. Invocations go through the submitter
// when it is set.
type App struct {
	*common.Logger
	ledger    *ledger.Ledger
	submitter *ledger.Submitter
	gatherer  prometheus.Gatherer
}

func NewApp(l *ledger.Ledger) *App {
	return &App{
		Logger: common.NewLogger(log, "module", "app"),
		ledger: l,
	}
}

func (a *App) SetSubmitter(s *ledger.Submitter) *App {
	a.submitter = s
	return a
}

func (a *App) SetGatherer(g prometheus.Gatherer) *App {
	a.gatherer = g
	return a
}

func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(a.logRequest)

	r.Get("/state", a.StateHandler)
	r.Get("/polls", a.PollsHandler)
	r.Get("/polls/{id}", a.PollHandler)
	r.Get("/polls/{id}/results", a.ResultsHandler)
	r.Get("/polls/{id}/voters/{address}", a.HasVotedHandler)
	r.Get("/blocks/{height}", a.BlockHandler)
	r.Post("/invocations", a.InvokeHandler)

	if a.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func (a *App) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()

		next.ServeHTTP(ww, r)

		a.Log().Debug(
			"request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(started),
		)
	})
}

func pollID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, poll.ValidationError.Newf("invalid poll id; %q", chi.URLParam(r, "id"))
	}

	return id, nil
}

func (a *App) query(w http.ResponseWriter, op poll.Operation, sender account.Address, params interface{}) {
	receipt, err := a.ledger.Query(op, sender, params)
	if err != nil {
		writeError(w, err)
		return
	}

	if len(receipt.Events) != 1 {
		writeError(w, xerrors.Errorf("unexpected events; %d", len(receipt.Events)))
		return
	}

	writeJSON(w, http.StatusOK, receipt.Events[0])
}

func (a *App) StateHandler(w http.ResponseWriter, r *http.Request) {
	st := a.ledger.State()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"height":  a.ledger.Height(),
		"root":    a.ledger.Root(),
		"owner":   st.Owner(),
		"counter": st.Counter(),
	})
}

func (a *App) PollsHandler(w http.ResponseWriter, r *http.Request) {
	var params poll.GetPollsParams

	if s := r.URL.Query().Get("creator"); len(s) > 0 {
		creator, err := account.ParseAddress(s)
		if err != nil {
			writeError(w, err)
			return
		}
		params.Creator = creator
	}

	status, err := poll.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	params.Status = status

	a.query(w, poll.OperationGetPolls, "", params)
}

func (a *App) PollHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pollID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	a.query(w, poll.OperationGetPoll, "", poll.PollIDParams{PollID: id})
}

func (a *App) ResultsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pollID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	receipt, err := a.ledger.Query(poll.OperationGetPollResults, "", poll.PollIDParams{PollID: id})
	if err != nil {
		writeError(w, err)
		return
	}

	results, ok := receipt.Events[0].(poll.PollResults)
	if !ok {
		writeError(w, xerrors.Errorf("unexpected event; %T", receipt.Events[0]))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"poll_id": results.PollID,
		"public":  results.Public,
		"private": results.Private,
		"totals":  results.Totals(),
		"winners": results.Winners(),
	})
}

func (a *App) HasVotedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pollID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	voter, err := account.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, err)
		return
	}

	a.query(w, poll.OperationHasVoted, voter, poll.PollIDParams{PollID: id})
}

func (a *App) BlockHandler(w http.ResponseWriter, r *http.Request) {
	height, err := strconv.ParseUint(chi.URLParam(r, "height"), 10, 64)
	if err != nil {
		writeError(w, poll.ValidationError.Newf("invalid height; %q", chi.URLParam(r, "height")))
		return
	}

	block, err := a.ledger.Journal().Block(height)
	if err != nil {
		writeError(w, err)
		return
	}

	events, err := a.ledger.Journal().Events(height)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"block":  block,
		"events": events,
	})
}

func (a *App) InvokeHandler(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxInvocationBody))
	if err != nil {
		writeError(w, ledger.InvalidInvocationError.New(err))
		return
	}

	var iv ledger.Invocation
	if err := json.Unmarshal(body, &iv); err != nil {
		writeError(w, ledger.InvalidInvocationError.New(err))
		return
	}

	receipt, err := a.invoke(r.Context(), iv)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

func (a *App) invoke(ctx context.Context, iv ledger.Invocation) (ledger.Receipt, error) {
	if a.submitter != nil {
		return a.submitter.Submit(ctx, iv)
	}

	return a.ledger.Invoke(iv)
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"github.com/spikeekips/partivotes/account"
	"github.com/spikeekips/partivotes/big"
	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/keypair"
	"github.com/spikeekips/partivotes/ledger"
	"github.com/spikeekips/partivotes/poll"
	"github.com/spikeekips/partivotes/storage/leveldbstorage"
)

const testNow uint64 = 1555400000000

type testAPI struct {
	suite.Suite
	st        *leveldbstorage.Storage
	l         *ledger.Ledger
	submitter *ledger.Submitter
	server    *httptest.Server
	creator   keypair.StellarPrivateKey
	voter     keypair.StellarPrivateKey
}

func (t *testAPI) newKey() keypair.StellarPrivateKey {
	pk, err := keypair.NewStellarPrivateKey()
	t.NoError(err)

	return pk
}

func (t *testAPI) address(pk keypair.StellarPrivateKey) account.Address {
	a, err := account.NewAddress(pk.PublicKey())
	t.NoError(err)

	return a
}

func (t *testAPI) SetupTest() {
	st, err := leveldbstorage.NewStorage(leveldbstorage.Config{})
	t.NoError(err)
	t.st = st

	registry := prometheus.NewRegistry()
	metrics, err := ledger.NewMetrics(registry)
	t.NoError(err)

	t.l = ledger.NewLedger(ledger.NewJournal(st, nil)).
		SetClock(func() time.Time { return common.FromMillis(testNow) }).
		SetMetrics(metrics)
	t.NoError(t.l.Initialize(t.address(t.newKey())))

	t.submitter = ledger.NewSubmitter(t.l, 10)
	t.NoError(t.submitter.Start())

	t.creator = t.newKey()
	t.voter = t.newKey()

	app := NewApp(t.l).SetSubmitter(t.submitter).SetGatherer(registry)
	t.server = httptest.NewServer(app.Router())
}

func (t *testAPI) TearDownTest() {
	t.server.Close()
	_ = t.submitter.Stop()
	_ = t.st.Close()
}

func (t *testAPI) get(path string) (int, map[string]interface{}) {
	res, err := http.Get(t.server.URL + path)
	t.NoError(err)
	defer res.Body.Close()

	var body map[string]interface{}
	t.NoError(json.NewDecoder(res.Body).Decode(&body))

	return res.StatusCode, body
}

func (t *testAPI) invoke(
	pk keypair.StellarPrivateKey,
	op poll.Operation,
	amount uint64,
	params interface{},
) (int, map[string]interface{}) {
	iv, err := ledger.NewInvocation(op, "", big.NewBig(amount), params)
	t.NoError(err)

	iv, err = iv.Sign(pk)
	t.NoError(err)

	b, err := json.Marshal(iv)
	t.NoError(err)

	res, err := http.Post(t.server.URL+"/invocations", "application/json", bytes.NewReader(b))
	t.NoError(err)
	defer res.Body.Close()

	var body map[string]interface{}
	t.NoError(json.NewDecoder(res.Body).Decode(&body))

	return res.StatusCode, body
}

func (t *testAPI) createPoll() {
	status, body := t.invoke(t.creator, poll.OperationCreatePoll, 100, poll.CreatePollParams{
		Title:       "Lunch",
		Description: "What do we eat today?",
		Options:     []string{"Yes", "No", "Maybe"},
		ExpiresAt:   testNow + 1000,
	})
	t.Equal(http.StatusOK, status, "%v", body)
}

func errorCode(body map[string]interface{}) string {
	e, ok := body["error"].(map[string]interface{})
	if !ok {
		return ""
	}

	code, _ := e["code"].(string)

	return code
}

func (t *testAPI) TestInvokeAndQuery() {
	t.createPoll()

	status, body := t.invoke(t.voter, poll.OperationVoteWithMPC, 100, poll.VoteWithMPCParams{PollID: 1, Option: 2})
	t.Equal(http.StatusOK, status)
	t.Equal(float64(2), body["height"])
	t.NotEmpty(body["invocation_id"])

	events := body["events"].([]interface{})
	t.Len(events, 1)
	t.Equal("PrivateVoteCast", events[0].(map[string]interface{})["event"])

	status, body = t.get("/polls/1")
	t.Equal(http.StatusOK, status)
	p := body["poll"].(map[string]interface{})
	t.Equal("Lunch", p["title"])

	status, body = t.get("/polls/1/results")
	t.Equal(http.StatusOK, status)
	t.Equal([]interface{}{float64(0), float64(0), float64(0)}, body["public"])
	t.Equal([]interface{}{float64(0), float64(0), float64(1)}, body["private"])
	t.Equal([]interface{}{float64(2)}, body["winners"])

	status, body = t.get(fmt.Sprintf("/polls/1/voters/%s", t.address(t.voter)))
	t.Equal(http.StatusOK, status)
	t.Equal(true, body["has_voted"])

	status, body = t.get(fmt.Sprintf("/polls/1/voters/%s", t.address(t.creator)))
	t.Equal(http.StatusOK, status)
	t.Equal(false, body["has_voted"])

	status, body = t.get("/state")
	t.Equal(http.StatusOK, status)
	t.Equal(float64(2), body["height"])
	t.Equal(t.l.Root().String(), body["root"])

	status, body = t.get("/blocks/2")
	t.Equal(http.StatusOK, status)
	t.Equal("vote_with_mpc", body["block"].(map[string]interface{})["operation"])
}

func (t *testAPI) TestPolls() {
	t.createPoll()
	t.createPoll()

	status, body := t.get("/polls")
	t.Equal(http.StatusOK, status)
	t.Len(body["polls"], 2)

	status, body = t.get("/polls?status=ended")
	t.Equal(http.StatusOK, status)
	t.Len(body["polls"], 0)

	status, body = t.get("/polls?creator=" + t.address(t.voter).String())
	t.Equal(http.StatusOK, status)
	t.Len(body["polls"], 0)

	status, body = t.get("/polls?status=showme")
	t.Equal(http.StatusBadRequest, status)
	t.Equal(poll.ValidationError.Code(), errorCode(body))
}

func (t *testAPI) TestErrorStatus() {
	t.createPoll()

	status, body := t.get("/polls/9")
	t.Equal(http.StatusNotFound, status)
	t.Equal(poll.NotFoundError.Code(), errorCode(body))

	status, _ = t.get("/polls/showme")
	t.Equal(http.StatusBadRequest, status)

	status, _ = t.get("/blocks/9")
	t.Equal(http.StatusNotFound, status)

	status, body = t.invoke(t.voter, poll.OperationVoteWithMPC, 10, poll.VoteWithMPCParams{PollID: 1})
	t.Equal(http.StatusPaymentRequired, status)
	t.Equal(poll.InsufficientPaymentError.Code(), errorCode(body))

	status, _ = t.invoke(t.voter, poll.OperationEndPoll, 0, poll.PollIDParams{PollID: 1})
	t.Equal(http.StatusForbidden, status)

	status, _ = t.invoke(t.voter, poll.OperationVoteWithSignature, 0, poll.VoteWithSignatureParams{PollID: 1})
	t.Equal(http.StatusOK, status)

	status, _ = t.invoke(t.voter, poll.OperationVoteWithSignature, 0, poll.VoteWithSignatureParams{PollID: 1})
	t.Equal(http.StatusConflict, status)

	status, _ = t.invoke(t.creator, poll.OperationEndPoll, 0, poll.PollIDParams{PollID: 1})
	t.Equal(http.StatusOK, status)

	status, body = t.invoke(t.newKey(), poll.OperationVoteWithSignature, 0, poll.VoteWithSignatureParams{PollID: 1})
	t.Equal(http.StatusConflict, status)
	t.Equal(poll.PollInactiveError.Code(), errorCode(body))
}

func (t *testAPI) TestBadInvocation() {
	res, err := http.Post(t.server.URL+"/invocations", "application/json", strings.NewReader(`{"operation":`))
	t.NoError(err)
	res.Body.Close()
	t.Equal(http.StatusBadRequest, res.StatusCode)

	res, err = http.Post(
		t.server.URL+"/invocations",
		"application/json",
		strings.NewReader(`{"operation":"create_poll","sender":"showme","amount":100}`),
	)
	t.NoError(err)
	res.Body.Close()
	t.Equal(http.StatusBadRequest, res.StatusCode)
}

func (t *testAPI) TestMetrics() {
	t.createPoll()

	res, err := http.Get(t.server.URL + "/metrics")
	t.NoError(err)
	defer res.Body.Close()

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(res.Body)
	t.NoError(err)

	t.Equal(http.StatusOK, res.StatusCode)
	t.Contains(buf.String(), `partivotes_invocations_total{operation="create_poll",result="ok"} 1`)
	t.Contains(buf.String(), "partivotes_height 1")
}

func TestAPI(t *testing.T) {
	suite.Run(t, new(testAPI))
}

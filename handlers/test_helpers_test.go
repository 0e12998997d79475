package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"terracotta/services"
	"terracotta/store/pbstore"
	"terracotta/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// testEnv is a test app with every service wired to the PocketBase store.
type testEnv struct {
	app        *pocketbase.PocketBase
	mailer     *testhelpers.RecordingMailer
	customers  *services.CustomerService
	quotes     *services.QuoteService
	workOrders *services.WorkOrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	stores := pbstore.New(app).Stores()
	mailer := &testhelpers.RecordingMailer{}
	return &testEnv{
		app:       app,
		mailer:    mailer,
		customers: &services.CustomerService{Customers: stores.Customers},
		quotes: &services.QuoteService{
			Customers: stores.Customers,
			Quotes:    stores.Quotes,
			Mailer:    mailer,
			Threshold: services.DefaultMarginThreshold,
			Company:   "Terracotta Construction",
		},
		workOrders: &services.WorkOrderService{WorkOrders: stores.WorkOrders},
	}
}

// serve runs handler against req and returns the recorder.
func (env *testEnv) serve(t *testing.T, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(env.app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, rec, &body)
	return body.Message
}

var errBoom = errors.New("boom")

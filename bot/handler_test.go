package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/itpp-labs/ec2devbot/lib"
)

type sentMessage struct {
	chatID int64
	text   string
	markup *lib.TelegramReplyMarkup
}

type fakeChat struct {
	sent []sentMessage
	err  error
}

func (c *fakeChat) SendMessage(_ context.Context, chatID int64, text string, markup *lib.TelegramReplyMarkup) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, sentMessage{chatID: chatID, text: text, markup: markup})
	return nil
}

func (c *fakeChat) texts() []string {
	var texts []string
	for _, m := range c.sent {
		texts = append(texts, m.text)
	}
	return texts
}

type fakeCompute struct {
	instances map[string]*Instance
	calls     []string
	startErr  error
	panicOn   string
}

func newFakeCompute(ids ...string) *fakeCompute {
	c := &fakeCompute{instances: map[string]*Instance{}}
	for _, id := range ids {
		c.instances[id] = &Instance{ID: id, StateCode: 80, StateName: "stopped"}
	}
	return c
}

func (c *fakeCompute) record(call, id string) {
	c.calls = append(c.calls, call+" "+id)
	if c.panicOn == call {
		panic("boom")
	}
}

func (c *fakeCompute) Describe(_ context.Context, id string) (*Instance, error) {
	c.record("describe", id)
	instance, ok := c.instances[id]
	if !ok {
		return nil, fmt.Errorf("instance not found: %s", id)
	}
	copied := *instance
	return &copied, nil
}

func (c *fakeCompute) Start(_ context.Context, id string) (string, error) {
	c.record("start", id)
	if c.startErr != nil {
		return "", c.startErr
	}
	c.instances[id].StateCode = 0
	c.instances[id].StateName = "pending"
	return `[{"InstanceId":"` + id + `"}]`, nil
}

func (c *fakeCompute) Stop(_ context.Context, id string) (string, error) {
	c.record("stop", id)
	c.instances[id].StateCode = 64
	c.instances[id].StateName = "stopping"
	return `[{"InstanceId":"` + id + `"}]`, nil
}

func (c *fakeCompute) WaitRunning(_ context.Context, id string) error {
	c.record("wait-running", id)
	c.instances[id].StateCode = 16
	c.instances[id].StateName = "running"
	c.instances[id].PublicDNS = "ec2-dns.example"
	return nil
}

func (c *fakeCompute) WaitStopped(_ context.Context, id string) error {
	c.record("wait-stopped", id)
	c.instances[id].StateCode = 80
	c.instances[id].StateName = "stopped"
	c.instances[id].PublicDNS = ""
	return nil
}

const (
	testChat = 100
	testUser = 200
)

func testBindings() *Bindings {
	return NewBindings(mapLookup(map[string]string{
		"USER_200_INSTANCE":      "i-default",
		"USER_200_INSTANCE_DEV1": "i-dev1",
		"USER_200_CODE":          "secret",
	}))
}

func newTestHandler(verbose bool) (*Handler, *fakeChat, *fakeCompute) {
	chat := &fakeChat{}
	compute := newFakeCompute("i-default", "i-dev1")
	level := ""
	if verbose {
		level = "DEBUG"
	}
	h := New(&Config{LogLevel: level}, chat, compute, testBindings())
	return h, chat, compute
}

func messageEvent(t *testing.T, user int64, text string) []byte {
	t.Helper()
	return apiEvent(t, updateBody(t, testChat, user, text))
}

var logLock sync.Mutex

// captureLog collects logger output for the duration of fn.
func captureLog(fn func()) string {
	logLock.Lock()
	defer logLock.Unlock()
	var b strings.Builder
	orig := lib.Logger.Print
	lib.Logger.Print = func(args ...interface{}) {
		b.WriteString(fmt.Sprint(args...))
	}
	defer func() { lib.Logger.Print = orig }()
	fn()
	return b.String()
}

func TestHandleStartHelp(t *testing.T) {
	h, chat, compute := newTestHandler(false)
	h.bindings = NewBindings(func(key string) (string, bool) {
		t.Errorf("unexpected lookup %s", key)
		return "", false
	})
	outcome := h.Process(context.Background(), messageEvent(t, 999, "/start"))
	if outcome.Kind != OutcomeHandled {
		t.Fatalf("got %s %v", outcome.Kind, outcome.Err)
	}
	if !reflect.DeepEqual(chat.texts(), []string{HelpText}) {
		t.Errorf("got %v", chat.texts())
	}
	if len(compute.calls) != 0 {
		t.Errorf("got calls %v", compute.calls)
	}
}

func TestHandleAccessDenied(t *testing.T) {
	texts := []string{"/up", "/up_DEV1", "/status", "/status_DEV2", "/shutdown", "Shutdown", "hello"}
	for _, text := range texts {
		h, chat, compute := newTestHandler(false)
		outcome := h.Process(context.Background(), messageEvent(t, 999, text))
		if outcome.Kind != OutcomeDenied {
			t.Errorf("%q: got %s want denied", text, outcome.Kind)
		}
		if !reflect.DeepEqual(chat.texts(), []string{AccessDenied}) {
			t.Errorf("%q: got %v", text, chat.texts())
		}
		if len(compute.calls) != 0 {
			t.Errorf("%q: got calls %v", text, compute.calls)
		}
	}
	h, chat, compute := newTestHandler(false)
	outcome := h.Process(context.Background(), messageEvent(t, testUser, "/up_DEV2"))
	if outcome.Kind != OutcomeDenied || len(compute.calls) != 0 || len(chat.sent) != 1 {
		t.Errorf("unbound code: got %s %v %v", outcome.Kind, chat.texts(), compute.calls)
	}
}

func TestHandleCancel(t *testing.T) {
	for _, user := range []int64{testUser, 999} {
		for _, text := range []string{"Cancel", "cancel", "CANCEL"} {
			h, chat, compute := newTestHandler(false)
			outcome := h.Process(context.Background(), messageEvent(t, user, text))
			if outcome.Kind != OutcomeHandled {
				t.Errorf("%q: got %s", text, outcome.Kind)
			}
			want := []sentMessage{{chatID: testChat, text: Canceled, markup: lib.TelegramKeyboardRemove()}}
			if !reflect.DeepEqual(chat.sent, want) {
				t.Errorf("%q: got %+v", text, chat.sent)
			}
			if len(compute.calls) != 0 {
				t.Errorf("%q: got calls %v", text, compute.calls)
			}
		}
	}
}

func TestHandleStartInstance(t *testing.T) {
	h, chat, compute := newTestHandler(false)
	outcome := h.Process(context.Background(), messageEvent(t, testUser, "/up_DEV1"))
	if outcome.Kind != OutcomeHandled {
		t.Fatalf("got %s %v", outcome.Kind, outcome.Err)
	}
	wantCalls := []string{"start i-dev1", "wait-running i-dev1", "describe i-dev1"}
	if !reflect.DeepEqual(compute.calls, wantCalls) {
		t.Errorf("got %v want %v", compute.calls, wantCalls)
	}
	wantTexts := []string{
		"Instance DEV1 is starting...",
		"DEV1 Status: running\nPublic DNS: ec2-dns.example \n\nTo stop instance click /shutdown_DEV1 or schedule message \"Shutdown DEV1\"",
	}
	if !reflect.DeepEqual(chat.texts(), wantTexts) {
		t.Errorf("got %q want %q", chat.texts(), wantTexts)
	}
}

func TestHandleStartInstanceVerbose(t *testing.T) {
	h, chat, _ := newTestHandler(true)
	outcome := h.Process(context.Background(), messageEvent(t, testUser, "/up"))
	if outcome.Kind != OutcomeHandled {
		t.Fatalf("got %s %v", outcome.Kind, outcome.Err)
	}
	texts := chat.texts()
	if len(texts) != 3 || texts[1] != `Response from AWS: [{"InstanceId":"i-default"}]` {
		t.Errorf("got %q", texts)
	}
}

func TestHandleStartInstanceError(t *testing.T) {
	h, chat, compute := newTestHandler(false)
	compute.startErr = errors.New("UnauthorizedOperation")
	outcome := h.Process(context.Background(), messageEvent(t, testUser, "/up"))
	if outcome.Kind != OutcomeFault || !strings.Contains(outcome.Err.Error(), "UnauthorizedOperation") {
		t.Errorf("got %s %v", outcome.Kind, outcome.Err)
	}
	if !reflect.DeepEqual(chat.texts(), []string{"Instance  is starting..."}) {
		t.Errorf("got %q", chat.texts())
	}
}

func TestHandleStatus(t *testing.T) {
	h, chat, compute := newTestHandler(false)
	outcome := h.Process(context.Background(), messageEvent(t, testUser, "/status"))
	if outcome.Kind != OutcomeHandled {
		t.Fatalf("got %s %v", outcome.Kind, outcome.Err)
	}
	if !reflect.DeepEqual(compute.calls, []string{"describe i-default"}) {
		t.Errorf("got %v", compute.calls)
	}
	if !reflect.DeepEqual(chat.texts(), []string{" Status: stopped"}) {
		t.Errorf("got %q", chat.texts())
	}
}

func TestHandleShutdownConfirmRequest(t *testing.T) {
	type test struct {
		text  string
		label string
	}
	tests := []test{
		{"/shutdown", "Shutdown"},
		{"/shutdown_dev1", "Shutdown DEV1"},
	}
	for _, test := range tests {
		h, chat, compute := newTestHandler(false)
		outcome := h.Process(context.Background(), messageEvent(t, testUser, test.text))
		if outcome.Kind != OutcomeHandled {
			t.Fatalf("got %s %v", outcome.Kind, outcome.Err)
		}
		if len(compute.calls) != 0 {
			t.Errorf("got calls %v", compute.calls)
		}
		want := []sentMessage{{
			chatID: testChat,
			text:   ConfirmText,
			markup: &lib.TelegramReplyMarkup{Keyboard: [][]string{{test.label, "Cancel"}}},
		}}
		if !reflect.DeepEqual(chat.sent, want) {
			t.Errorf("got %+v want %+v", chat.sent, want)
		}
	}
}

func TestHandleShutdownConfirmed(t *testing.T) {
	h, chat, compute := newTestHandler(false)
	compute.instances["i-dev1"].StateCode = 16
	compute.instances["i-dev1"].StateName = "running"
	outcome := h.Process(context.Background(), messageEvent(t, testUser, "Shutdown DEV1"))
	if outcome.Kind != OutcomeHandled {
		t.Fatalf("got %s %v", outcome.Kind, outcome.Err)
	}
	wantCalls := []string{"stop i-dev1", "wait-stopped i-dev1", "describe i-dev1"}
	if !reflect.DeepEqual(compute.calls, wantCalls) {
		t.Errorf("got %v want %v", compute.calls, wantCalls)
	}
	want := []sentMessage{
		{chatID: testChat, text: "Instance DEV1 is stopping...", markup: lib.TelegramKeyboardRemove()},
		{chatID: testChat, text: "DEV1 Status: stopped"},
	}
	if !reflect.DeepEqual(chat.sent, want) {
		t.Errorf("got %+v want %+v", chat.sent, want)
	}
}

func TestHandleUnknownCommand(t *testing.T) {
	h, chat, compute := newTestHandler(false)
	outcome := h.Process(context.Background(), messageEvent(t, testUser, "hello"))
	if outcome.Kind != OutcomeIgnored {
		t.Errorf("got %s", outcome.Kind)
	}
	if len(chat.sent) != 0 || len(compute.calls) != 0 {
		t.Errorf("got %v %v", chat.texts(), compute.calls)
	}
}

func TestHandleSendFailure(t *testing.T) {
	h, chat, _ := newTestHandler(false)
	chat.err = errors.New("telegram api error 401: Unauthorized")
	outcome := h.Process(context.Background(), messageEvent(t, testUser, "/start"))
	if outcome.Kind != OutcomeFault {
		t.Errorf("got %s", outcome.Kind)
	}
}

func TestHandlePanicRecovered(t *testing.T) {
	h, _, compute := newTestHandler(false)
	compute.panicOn = "describe"
	outcome := h.Process(context.Background(), messageEvent(t, testUser, "/status"))
	if outcome.Kind != OutcomeFault || !strings.Contains(outcome.Err.Error(), "panic: boom") {
		t.Errorf("got %s %v", outcome.Kind, outcome.Err)
	}
}

func TestHandleMalformedBody(t *testing.T) {
	h, chat, compute := newTestHandler(false)
	var resp interface{}
	var err error
	output := captureLog(func() {
		resp, err = h.Handle(context.Background(), json.RawMessage(apiEvent(t, "{not json")))
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(resp, Response()) {
		t.Errorf("got %+v", resp)
	}
	if len(chat.sent) != 0 || len(compute.calls) != 0 {
		t.Errorf("got %v %v", chat.texts(), compute.calls)
	}
	if !strings.Contains(output, "error:") || !strings.Contains(output, "decode telegram update") {
		t.Errorf("expected error log, got %q", output)
	}
}

func TestHandleAlwaysOK(t *testing.T) {
	raws := [][]byte{
		[]byte(`garbage`),
		[]byte(`{}`),
		[]byte(`{"source": "aws.events", "time": "yesterday"}`),
		[]byte(`{"source": "aws.events", "time": "2020-05-01T10:00:00Z"}`),
	}
	for _, raw := range raws {
		h, chat, _ := newTestHandler(false)
		var resp interface{}
		var err error
		captureLog(func() {
			resp, err = h.Handle(context.Background(), raw)
		})
		if err != nil {
			t.Errorf("%s: got %v", raw, err)
		}
		if !reflect.DeepEqual(resp, Response()) {
			t.Errorf("%s: got %+v", raw, resp)
		}
		if len(chat.sent) != 0 {
			t.Errorf("%s: got %v", raw, chat.texts())
		}
	}
}

func TestHandleCron(t *testing.T) {
	h, chat, compute := newTestHandler(false)
	for _, value := range []string{"2020-05-01T10:00:00Z", "2020-05-01T10:00:00+02:00"} {
		outcome := h.Process(context.Background(), []byte(`{"source": "aws.events", "time": "`+value+`"}`))
		if outcome.Kind != OutcomeHandled {
			t.Errorf("%s: got %s %v", value, outcome.Kind, outcome.Err)
		}
	}
	outcome := h.Process(context.Background(), []byte(`{"source": "aws.events", "time": "01/05/2020"}`))
	if outcome.Kind != OutcomeFault {
		t.Errorf("got %s", outcome.Kind)
	}
	if len(chat.sent) != 0 || len(compute.calls) != 0 {
		t.Errorf("cron must not act: %v %v", chat.texts(), compute.calls)
	}
}

package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/dustin/go-humanize"
	"github.com/gofrs/uuid"
	"github.com/itpp-labs/ec2devbot/lib"
)

const (
	HelpText     = "This is a private bot to start/stop AWS EC2 instances. Check out the documentation:\nhttps://itpp.dev/ops/remote-dev/aws/index.html"
	AccessDenied = "Access denied!"
	Canceled     = "Canceled"
	ConfirmText  = "Are you sure?"
	CancelLabel  = "Cancel"
	TimerLayout  = "2006-01-02T15:04:05Z"
)

// Chat sends replies back to the user.
type Chat interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup *lib.TelegramReplyMarkup) error
}

type OutcomeKind int

const (
	OutcomeHandled OutcomeKind = iota
	OutcomeIgnored
	OutcomeDenied
	OutcomeFault
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeHandled:
		return "handled"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeDenied:
		return "denied"
	default:
		return "fault"
	}
}

type Outcome struct {
	Kind OutcomeKind
	Err  error
}

func handled() Outcome { return Outcome{Kind: OutcomeHandled} }

func fault(err error) Outcome { return Outcome{Kind: OutcomeFault, Err: err} }

// Handler is built once per process and shared by every invocation.
type Handler struct {
	chat     Chat
	compute  Compute
	bindings *Bindings
	verbose  bool
}

func New(cfg *Config, chat Chat, compute Compute, bindings *Bindings) *Handler {
	return &Handler{
		chat:     chat,
		compute:  compute,
		bindings: bindings,
		verbose:  cfg.Verbose(),
	}
}

// Response is returned for every invocation so the transport never retries.
func Response() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Headers:    map[string]string{},
		Body:       "",
	}
}

func requestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.Must(uuid.NewV4()).String()
}

func (h *Handler) Handle(ctx context.Context, raw json.RawMessage) (events.APIGatewayProxyResponse, error) {
	id := requestID(ctx)
	lib.Logger.Debug("request:", id, "event:", string(raw))
	outcome := h.Process(ctx, raw)
	switch outcome.Kind {
	case OutcomeHandled:
		lib.Logger.Debug("request:", id, "handled")
	case OutcomeIgnored:
		lib.Logger.Debug("request:", id, "ignored:", outcome.Err)
	case OutcomeDenied:
		lib.Logger.Println("request:", id, "denied:", outcome.Err)
	case OutcomeFault:
		lib.Logger.Println("error:", "request:", id, "error on handling event:", outcome.Err)
	}
	return Response(), nil
}

// Process parses and dispatches one event. It never panics.
func (h *Handler) Process(ctx context.Context, raw []byte) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = fault(fmt.Errorf("panic: %v\n%s", r, debug.Stack()))
		}
	}()
	event, err := ParseEvent(raw)
	if errors.Is(err, ErrIgnored) {
		return Outcome{Kind: OutcomeIgnored, Err: err}
	}
	if err != nil {
		return fault(err)
	}
	switch event.Kind {
	case EventTimerTick:
		return h.handleCron(ctx, event.Tick)
	case EventChatMessage:
		return h.handleMessage(ctx, event.Message)
	default:
		return fault(fmt.Errorf("unknown event kind: %d", event.Kind))
	}
}

func parseTimerTime(value string) (time.Time, error) {
	t, err := time.Parse(TimerLayout, value)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// handleCron is the hook for scheduled stops, which are not implemented yet.
func (h *Handler) handleCron(_ context.Context, tick *TimerTick) Outcome {
	t, err := parseTimerTime(tick.Time)
	if err != nil {
		return fault(fmt.Errorf("parse timer time: %w", err))
	}
	lib.Logger.Debugf("timer tick at %d (%s)\n", t.Unix(), humanize.Time(t))
	return handled()
}

func (h *Handler) handleMessage(ctx context.Context, msg *ChatMessage) Outcome {
	cmd := ParseCommand(msg.Text)
	lib.Logger.Debug("command:", cmd.Kind, "code:", cmd.Code, "sender:", msg.SenderID)
	switch cmd.Kind {
	case CommandHelp:
		return h.reply(ctx, msg, HelpText, nil)
	case CommandCancel:
		return h.reply(ctx, msg, Canceled, lib.TelegramKeyboardRemove())
	}
	binding, ok := h.bindings.Resolve(msg.SenderID, cmd.Code)
	if !ok {
		out := h.reply(ctx, msg, AccessDenied, nil)
		if out.Kind != OutcomeHandled {
			return out
		}
		return Outcome{
			Kind: OutcomeDenied,
			Err:  fmt.Errorf("no binding for user %d code %q", msg.SenderID, cmd.Code),
		}
	}
	var err error
	switch cmd.Kind {
	case CommandStart:
		err = h.startInstance(ctx, msg, binding, cmd.Code)
	case CommandStatus:
		err = h.sendStatus(ctx, msg, binding, cmd.Code, true)
	case CommandShutdownConfirmRequest:
		err = h.confirmShutdown(ctx, msg, cmd.Code)
	case CommandShutdownConfirmed:
		err = h.stopInstance(ctx, msg, binding, cmd.Code)
	default:
		return Outcome{Kind: OutcomeIgnored, Err: fmt.Errorf("%w: unknown command %q", ErrIgnored, msg.Text)}
	}
	if err != nil {
		return fault(err)
	}
	return handled()
}

func (h *Handler) reply(ctx context.Context, msg *ChatMessage, text string, markup *lib.TelegramReplyMarkup) Outcome {
	err := h.send(ctx, msg, text, markup)
	if err != nil {
		return fault(err)
	}
	return handled()
}

func (h *Handler) send(ctx context.Context, msg *ChatMessage, text string, markup *lib.TelegramReplyMarkup) error {
	err := h.chat.SendMessage(ctx, msg.ChatID, text, markup)
	if err != nil {
		return fmt.Errorf("send message to chat %d: %w", msg.ChatID, err)
	}
	return nil
}

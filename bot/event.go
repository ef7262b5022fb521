package bot

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/itpp-labs/ec2devbot/lib"
)

// TimerSource marks scheduled events delivered by eventbridge.
const TimerSource = "aws.events"

// ErrIgnored wraps events that are valid but carry nothing to act on.
var ErrIgnored = errors.New("ignored event")

type EventKind int

const (
	EventChatMessage EventKind = iota
	EventTimerTick
)

type ChatMessage struct {
	ChatID   int64
	SenderID int64
	Text     string
}

type TimerTick struct {
	Time string
}

type Event struct {
	Kind    EventKind
	Message *ChatMessage
	Tick    *TimerTick
}

type timerProbe struct {
	Source string `json:"source"`
	Time   string `json:"time"`
}

// ParseEvent classifies a raw lambda payload as a timer tick or a telegram
// message delivered through api gateway.
func ParseEvent(raw []byte) (*Event, error) {
	var probe timerProbe
	err := json.Unmarshal(raw, &probe)
	if err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if probe.Source == TimerSource {
		if probe.Time == "" {
			return nil, fmt.Errorf("timer event without time")
		}
		return &Event{Kind: EventTimerTick, Tick: &TimerTick{Time: probe.Time}}, nil
	}
	var req events.APIGatewayProxyRequest
	err = json.Unmarshal(raw, &req)
	if err != nil {
		return nil, fmt.Errorf("decode api gateway request: %w", err)
	}
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		body, err = base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, fmt.Errorf("decode base64 body: %w", err)
		}
	}
	msg, err := parseUpdate(body)
	if err != nil {
		return nil, err
	}
	return &Event{Kind: EventChatMessage, Message: msg}, nil
}

func parseUpdate(body []byte) (*ChatMessage, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrIgnored)
	}
	var update lib.TelegramUpdate
	err := json.Unmarshal(body, &update)
	if err != nil {
		return nil, fmt.Errorf("decode telegram update: %w", err)
	}
	m := update.Message
	switch {
	case m == nil:
		return nil, fmt.Errorf("%w: update %d has no message", ErrIgnored, update.UpdateID)
	case m.Text == "":
		return nil, fmt.Errorf("%w: message %d has no text", ErrIgnored, m.MessageID)
	case m.Chat == nil:
		return nil, fmt.Errorf("%w: message %d has no chat", ErrIgnored, m.MessageID)
	case m.From == nil:
		return nil, fmt.Errorf("%w: message %d has no sender", ErrIgnored, m.MessageID)
	}
	return &ChatMessage{
		ChatID:   m.Chat.ID,
		SenderID: m.From.ID,
		Text:     m.Text,
	}, nil
}

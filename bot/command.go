package bot

import (
	"strings"
)

type CommandKind int

const (
	CommandUnknown CommandKind = iota
	CommandHelp
	CommandStart
	CommandStatus
	CommandShutdownConfirmRequest
	CommandShutdownConfirmed
	CommandCancel
)

func (k CommandKind) String() string {
	switch k {
	case CommandHelp:
		return "help"
	case CommandStart:
		return "start"
	case CommandStatus:
		return "status"
	case CommandShutdownConfirmRequest:
		return "shutdown-confirm-request"
	case CommandShutdownConfirmed:
		return "shutdown-confirmed"
	case CommandCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

type Command struct {
	Kind CommandKind
	Code string
}

// InstanceCode returns the uppercased second token of text when text splits
// into exactly two parts on "_", or failing that on " ".
func InstanceCode(text string) string {
	parts := strings.Split(text, "_")
	if len(parts) != 2 {
		parts = strings.Split(text, " ")
	}
	if len(parts) != 2 {
		return ""
	}
	return strings.ToUpper(parts[1])
}

func ParseCommand(text string) Command {
	if text == "/start" {
		return Command{Kind: CommandHelp}
	}
	cmd := Command{Code: InstanceCode(text)}
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(text, "/up"):
		cmd.Kind = CommandStart
	case strings.HasPrefix(text, "/status"):
		cmd.Kind = CommandStatus
	case strings.HasPrefix(text, "/shutdown"):
		cmd.Kind = CommandShutdownConfirmRequest
	case strings.HasPrefix(lower, "shutdown"):
		cmd.Kind = CommandShutdownConfirmed
	case lower == "cancel":
		cmd.Kind = CommandCancel
	default:
		cmd.Kind = CommandUnknown
	}
	return cmd
}

package bot

import (
	"context"
	"fmt"

	"github.com/itpp-labs/ec2devbot/lib"
)

func (h *Handler) startInstance(ctx context.Context, msg *ChatMessage, binding *Binding, code string) error {
	err := h.send(ctx, msg, fmt.Sprintf("Instance %s is starting...", code), nil)
	if err != nil {
		return err
	}
	response, err := h.compute.Start(ctx, binding.InstanceID)
	if err != nil {
		return fmt.Errorf("start instance %s: %w", binding.InstanceID, err)
	}
	err = h.echo(ctx, msg, response)
	if err != nil {
		return err
	}
	err = h.compute.WaitRunning(ctx, binding.InstanceID)
	if err != nil {
		return fmt.Errorf("wait running %s: %w", binding.InstanceID, err)
	}
	return h.sendStatus(ctx, msg, binding, code, true)
}

// stopInstance reports without the stop hint, the instance is no longer
// running by then.
func (h *Handler) stopInstance(ctx context.Context, msg *ChatMessage, binding *Binding, code string) error {
	err := h.send(ctx, msg, fmt.Sprintf("Instance %s is stopping...", code), lib.TelegramKeyboardRemove())
	if err != nil {
		return err
	}
	response, err := h.compute.Stop(ctx, binding.InstanceID)
	if err != nil {
		return fmt.Errorf("stop instance %s: %w", binding.InstanceID, err)
	}
	err = h.echo(ctx, msg, response)
	if err != nil {
		return err
	}
	err = h.compute.WaitStopped(ctx, binding.InstanceID)
	if err != nil {
		return fmt.Errorf("wait stopped %s: %w", binding.InstanceID, err)
	}
	return h.sendStatus(ctx, msg, binding, code, false)
}

func (h *Handler) echo(ctx context.Context, msg *ChatMessage, response string) error {
	if !h.verbose {
		return nil
	}
	return h.send(ctx, msg, "Response from AWS: "+response, nil)
}

func (h *Handler) sendStatus(ctx context.Context, msg *ChatMessage, binding *Binding, code string, hint bool) error {
	instance, err := h.compute.Describe(ctx, binding.InstanceID)
	if err != nil {
		return fmt.Errorf("describe instance %s: %w", binding.InstanceID, err)
	}
	return h.send(ctx, msg, FormatStatus(code, instance, hint), nil)
}

func (h *Handler) confirmShutdown(ctx context.Context, msg *ChatMessage, code string) error {
	label := "Shutdown"
	if code != "" {
		label += " " + code
	}
	return h.send(ctx, msg, ConfirmText, lib.TelegramKeyboard([]string{label, CancelLabel}))
}

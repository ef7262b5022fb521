package bot

import (
	"fmt"
	"strings"

	"github.com/itpp-labs/ec2devbot/lib"
)

// FormatStatus renders the status reply. The stop hint is appended only when
// hint is set and the low byte of the state code says running.
func FormatStatus(code string, instance *Instance, hint bool) string {
	lines := []string{fmt.Sprintf("%s Status: %s", code, instance.StateName)}
	if instance.PublicDNS != "" {
		lines = append(lines, fmt.Sprintf("Public DNS: %s ", instance.PublicDNS))
	}
	if hint && instance.StateCode&0xFF == lib.EC2StateCodeRunning {
		lines = append(lines, "")
		if code != "" {
			lines = append(lines, fmt.Sprintf("To stop instance click /shutdown_%s or schedule message \"Shutdown %s\"", code, code))
		} else {
			lines = append(lines, "To stop instance click /shutdown or schedule message \"Shutdown\"")
		}
	}
	return strings.Join(lines, "\n")
}

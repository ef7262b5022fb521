package lib

import (
	"context"
	"time"

	"github.com/avast/retry-go"
)

func Retry(ctx context.Context, attempts uint, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(1*time.Second),
		retry.MaxDelay(15*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

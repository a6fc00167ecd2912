package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the current time. Reports derive "now" from it so month
// windows can be pinned in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func NewSystemClock() Clock {
	return systemClock{}
}

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)

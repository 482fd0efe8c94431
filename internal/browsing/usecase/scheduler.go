package usecase

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
)

// TimerScheduler runs tasks on runtime timers.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) domain.Cancel {
	t := time.AfterFunc(d, f)
	return t.Stop
}

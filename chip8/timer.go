package chip8

import "time"

/// TimerPeriod is how often the delay and sound timers count down (60 Hz).
///
const TimerPeriod = time.Second / 60

/// Timers are the delay and sound countdown registers. They are driven by
/// wall-clock time, not by how many instructions have been executed.
///
type Timers struct {
	/// Delay is readable by the program with Fx07.
	///
	Delay byte

	/// Sound makes the host beep while it is non-zero.
	///
	Sound byte

	// reference time of the last whole tick
	last    time.Time
	started bool
}

/// Start the tick reference at now.
///
func (t *Timers) Start(now time.Time) {
	t.last = now
	t.started = true
}

/// Tick consumes all whole 60 Hz periods elapsed since the last tick and
/// decrements both timers by that amount, flooring at zero. Partial periods
/// carry over to the next call. Returns the number of periods consumed.
///
func (t *Timers) Tick(now time.Time) int {
	if !t.started {
		t.Start(now)
		return 0
	}

	elapsed := now.Sub(t.last)
	if elapsed < TimerPeriod {
		return 0
	}

	ticks := elapsed / TimerPeriod
	t.last = t.last.Add(ticks * TimerPeriod)

	t.Delay = countDown(t.Delay, ticks)
	t.Sound = countDown(t.Sound, ticks)

	return int(ticks)
}

/// Beeping is true while the sound timer is running.
///
func (t *Timers) Beeping() bool {
	return t.Sound > 0
}

func countDown(v byte, ticks time.Duration) byte {
	if ticks >= time.Duration(v) {
		return 0
	}

	return v - byte(ticks)
}

// Package homecontrol implements the home control loop for Gray Logic Home.
//
// A single goroutine polls four digital inputs (light switch, button1,
// button2, button4), applies a fixed set of rules and drives four digital
// outputs (coffee maker, lighting, lock, hub indicator):
//
//	┌──────────────────────────── Step ────────────────────────────┐
//	│ 1. t := clock.NowMS()                                         │
//	│ 2. sample light_switch, button1, button2, button4              │
//	│ 3. morning trigger   (once per process, switch active)        │
//	│ 4. coffee auto-off   (t >= deadline)                          │
//	│ 5. lighting toggle   (button1, then block debounce)           │
//	│ 6. temperature up    (button2, report, block debounce)        │
//	│ 7. temperature down  (button4, report, block debounce)        │
//	└───────────────────────────────────────────────────────────────┘
//	Run: Step, sleep poll interval, repeat until ctx is cancelled.
//
// The debounce waits block the whole loop. While one is in progress the
// coffee deadline and the morning trigger are not evaluated; this is the
// observable timing of the controller and is kept deliberately.
//
// # State ownership
//
// State is owned by the goroutine calling Run (or Step). Other goroutines
// read the immutable Snapshot published after every iteration, and side
// effects leave the loop as Events through a non-blocking Emitter.
//
// # Startup
//
// Init verifies every line is ready and configures directions. It returns
// ErrHardwareNotReady or ErrConfigurationFailed; both are fatal and the loop
// must not be started.
package homecontrol

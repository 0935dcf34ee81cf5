// Package hal is the platform adaptation layer between the home control loop
// and the digital I/O lines it drives.
//
// The control loop only ever sees the Platform and Clock interfaces:
//
//	Platform: IsReady, ConfigureOutput, ConfigureInput, Read, Write
//	Clock:    NowMS (monotonic milliseconds), SleepMS (blocking)
//
// Two platforms are provided:
//
//   - SimPlatform keeps line levels in memory. It is used by tests and by
//     desktop deployments where inputs are driven over MQTT.
//   - PeriphPlatform drives real GPIO pins through periph.io.
//
// Two clocks are provided:
//
//   - SystemClock reads the process monotonic clock and really sleeps.
//   - ManualClock is a simulated clock whose SleepMS advances time instantly.
//
// # Thread Safety
//
// SimPlatform and ManualClock are safe for concurrent use. PeriphPlatform is
// only used from the control loop goroutine after Init.
package hal

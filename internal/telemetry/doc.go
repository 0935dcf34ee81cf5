// Package telemetry connects controller events to MQTT and InfluxDB.
//
// MQTTSink and MetricsSink are events.Sink implementations that run on the
// dispatcher goroutine. InputCommands turns MQTT command messages into
// simulated input levels so the loop can be driven without hardware.
package telemetry

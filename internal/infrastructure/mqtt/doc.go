// Package mqtt connects the home controller to an MQTT broker.
//
// Topics:
//
//	graylogic/home/state/{line}          retained output state (JSON)
//	graylogic/home/temperature           retained temperature counter (JSON)
//	graylogic/home/event/{kind}          controller events (JSON)
//	graylogic/home/command/input/{line}  simulated input commands
//	graylogic/home/status                retained "online" / "offline"
//
// The broker publishes "offline" on the status topic if the controller
// drops without calling Close.
package mqtt

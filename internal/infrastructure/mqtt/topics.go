package mqtt

import "strings"

// TopicPrefix is the root of every controller topic.
const TopicPrefix = "graylogic/home"

const inputCommandPrefix = TopicPrefix + "/command/input/"

// StatusTopic carries the retained availability of the controller.
const StatusTopic = TopicPrefix + "/status"

// TemperatureTopic carries the retained temperature counter.
const TemperatureTopic = TopicPrefix + "/temperature"

// InputCommandFilter matches the command topic of every input line.
const InputCommandFilter = inputCommandPrefix + "+"

// StateTopic returns the retained state topic of an output line.
func StateTopic(line string) string {
	return TopicPrefix + "/state/" + line
}

// EventTopic returns the topic an event kind is published on.
func EventTopic(kind string) string {
	return TopicPrefix + "/event/" + kind
}

// InputFromCommandTopic returns the line named by an input command topic.
func InputFromCommandTopic(topic string) (string, bool) {
	line, ok := strings.CutPrefix(topic, inputCommandPrefix)
	if !ok || line == "" || strings.Contains(line, "/") {
		return "", false
	}
	return line, true
}

package mqtt

// Topic prefix for all Rhapsody Core messages.
const topicPrefix = "rhapsody"

// SystemStatusTopic is where Core publishes its online/offline status.
// The Last Will and Testament also targets this topic so observers can
// distinguish a crash from a graceful shutdown via the payload's reason field.
func SystemStatusTopic() string {
	return topicPrefix + "/system/status"
}

// SwitchboardStateTopic is where the applied relay states for a single
// switchboard are published after a successful control round-trip.
func SwitchboardStateTopic(switchboardID string) string {
	return topicPrefix + "/state/switchboard/" + switchboardID
}

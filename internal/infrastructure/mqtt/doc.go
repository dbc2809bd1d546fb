// Package mqtt provides the MQTT client used by Rhapsody Core to announce
// state changes to the rest of the installation.
//
// The control plane is the single writer of switch state; panels, show
// controllers, and other observers follow applied state over MQTT rather
// than polling the HTTP API. Messages are published retained so new
// subscribers immediately see the last applied state.
//
// Topic layout:
//
//	rhapsody/system/status                  online/offline status of Core (retained, LWT)
//	rhapsody/state/switchboard/<id>         applied relay states for one switchboard (retained)
//
// The client wraps eclipse/paho.mqtt.golang with connection management,
// auto-reconnect, and Last Will and Testament for crash detection.
// All methods are safe for concurrent use.
package mqtt

// Package project manages installation projects, the logical groupings
// that boards and sensors are assigned to.
package project

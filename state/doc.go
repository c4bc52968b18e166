// Package state provides durable key-value store backends for actors.
package state

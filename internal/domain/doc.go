// Package domain contains the core business entities of the postponement
// manager: tasks, the tags attached to them and the per-user settings that
// bound due-date generation. It is independent of storage and transport.
package domain

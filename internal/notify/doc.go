// Package notify accumulates run events into per-channel messages and
// delivers them exactly once at the end of a run.
//
// The Manager owns one Channel per enabled entry in the notifications
// config, resolved through a closed registry of constructors. Each channel
// gets its own append-only Message at construction time; Notify and Fatal
// append to every message, and Send flushes each channel independently so a
// failing transport never blocks the others.
//
// Channel implementations are a small closed set (telegram, email, sms).
// Extend the registry in DefaultRegistry if you add a transport; all run
// code depends only on the Channel interface.
package notify

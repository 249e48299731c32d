// Package log defines the logging interface and typed logging fields used by
// lib-lifeguard.
//
// Adapters (such as the zap package) implement Logger so host applications can
// route contract diagnostics through their own logging backend.
package log

// Package logx configures flexcal's structured logging.
//
// It is a small wrapper (logx.Logger) on top of zerolog keeping console
// output readable (short timestamp + short caller) and file output
// JSON-structured. The engine packages stay log-free; logging happens at
// the store and CLI boundary.
package logx

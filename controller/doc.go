// Package controller describes LCD display controllers and brings them up.
//
// A [Controller] is read-only data: the per-edge coordinate adjustments the
// controller needs for its address window, and a compact init string that is
// replayed against the bus by [Execute]. Supporting a new panel means
// authoring a new init string (see [InitString]) and its adjustments, no code
// changes.
//
// The init string format is based on TFT_eSPI's. The first byte is the
// number of commands. For each command there is
//
//   - the command byte (register address)
//   - one byte holding the delay flag (bit 7) and a data byte count (bits 0-6)
//   - data byte count bytes of data
//   - if the delay flag was set, one byte of delay in milliseconds;
//     255 means 500 ms.
package controller

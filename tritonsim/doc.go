// Package tritonsim simulates the command interface of the Triton control software.
//
// A Server accepts any number of TCP connections and answers each CRLF-terminated command
// line with a single reply that follows the positional reply contract of package triton:
// a header of exactly triton.ReplyHeaderLen bytes (the echoed property path, padded or
// truncated), the value, and a two byte trailer ("K\n" for temperatures, "\r\n" otherwise).
// SET commands store their value and are acknowledged with "STAT:SET:...:VALID".
//
// Tests can override the reply of a command, silence it to provoke timeouts, inspect the
// commands received and let T8 approach the setpoint while the loop is enabled.
package tritonsim

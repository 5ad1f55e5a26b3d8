// Package triton implements the ASCII command protocol spoken by the Oxford Instruments
// Triton control software when it fronts a Lakeshore 370 temperature controller.
//
// Commands have the form
//
//	VERB:DEV:<channel>:TEMP:<path>[:<value>]\r\n
//
// and are only built through the typed constructors of this package, which validate their
// parameters (heater range enumeration, setpoint, ramp rate and PID gain bounds) before
// formatting them.
//
// Replies are positional: a fixed header of ReplyHeaderLen bytes echoes the request, the
// numeric payload follows, and a ReplyTrailerLen byte trailer (unit and line feed) closes
// the reply. ParseFloat enforces this contract and reports violations as *ReplyError, which
// matches ErrParse and, for replies too short to hold header and trailer, ErrProtocolMismatch.
//
// Channels:
//   - T8: RuO thermometer, used below CrossoverTemp (1.2 K). The PID loop is addressed through T8.
//   - T5: Cernox thermometer, used above CrossoverTemp.
package triton

// Package isa decodes fixed-width ARMv6-M Thumb instruction half-words into
// the abstract instruction-class sum type the rest of the analyzer consumes.
//
// Classification is total: every recognized encoding maps to exactly one
// Class, and anything outside the known encoding space is reported as a
// decode error rather than silently folded into Arithmetic or Unknown-as-OK.
// Callers that need a best-effort decode (e.g. dump-hole bridging) ask for
// Class explicitly rather than relying on a default.
//
// A second architecture (CarCore/TriCore) is anticipated by spec but not
// implemented here; ErrUnsupportedArchitecture is the documented stub
// behavior for that case (see internal/dumpparser).
package isa

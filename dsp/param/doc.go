// Package param bridges control-rate parameter changes to the audio thread.
//
// Parameters are declared once as [Spec] values and live for the lifetime of
// a [Bridge]. Writers (UI, automation, state restore) call
// [Bridge.OnParameterChanged] from any goroutine; the audio goroutine reads
// through [Value.Load] or [Value.LoadChannel]. Every value is a float64 kept
// in an atomic uint64, so a read observes either the old or the new value,
// never a torn one, and neither side ever blocks the other.
//
// Values are stored in plain units (milliseconds, proportions, dB). Unit
// conversions that depend on the sample rate happen at read time.
package param

package dys

// ProgressFunc receives pipeline milestones. Implementations are untrusted:
// reporting is fire-and-forget and a panicking sink never disturbs the
// pipeline.
type ProgressFunc func(percent int, message string)

// report calls the sink, swallowing nils and panics.
func report(sink ProgressFunc, percent int, message string) {
	if sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			GetLogger().Warn("progress sink panicked: %v", r)
		}
	}()
	sink(percent, message)
}

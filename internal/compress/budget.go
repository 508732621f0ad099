// Package compress shrinks an audio asset under a hard size ceiling before it
// is handed to an upload-limited transcription service.
package compress

// Bitrate bounds in kbps. Anything below the floor is unintelligible speech;
// anything above the ceiling wastes the size budget on a 16 kHz mono track.
const (
	MinBitrateKbps      = 16
	MaxBitrateKbps      = 64
	FallbackBitrateKbps = 24
)

// Budget computes the constant bitrate, in kbps, that fits targetMB of output
// for the given source duration. A non-positive duration means probing
// failed; the budgeter then degrades to a conservative fixed rate instead of
// propagating the failure, because bitrate selection only affects compression
// efficiency, not correctness.
func Budget(durationSeconds, targetMB float64) int {
	if durationSeconds <= 0 {
		return FallbackBitrateKbps
	}
	bps := targetMB * 1024 * 1024 * 8 / durationSeconds
	kbps := int(bps / 1000)
	if kbps < MinBitrateKbps {
		return MinBitrateKbps
	}
	if kbps > MaxBitrateKbps {
		return MaxBitrateKbps
	}
	return kbps
}

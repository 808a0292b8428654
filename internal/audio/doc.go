// Package audio turns the raw speech returned by the content provider into
// playable sample buffers and plays them one at a time.
//
// Speech arrives as interleaved signed 16-bit little-endian PCM with the
// sample rate and channel count agreed out of band (24 kHz mono for the
// narration voice). DecodePCM16 splits it into one float32 slice per channel,
// normalised by 32768. A Player owns at most one active playback and renders
// buffers through a Sink; starting a new playback interrupts the previous one.
package audio

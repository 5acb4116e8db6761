// Package synth turns committed selections into audio clips using an
// external text-to-speech engine. Clips are written to the output directory
// and cached on disk by text, voice and speed.
package synth

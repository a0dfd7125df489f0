// Package speech turns markdown into audio: it extracts speakable text and
// drives an external text-to-speech engine.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Static errors.
var (
	ErrTextEmpty       = errors.New("text cannot be empty")
	ErrOutputPathEmpty = errors.New("output path cannot be empty")
	ErrNoAudioProduced = errors.New("engine produced no audio output")
)

// Engine synthesizes speech for a text and writes the audio to a file.
type Engine interface {
	Synthesize(ctx context.Context, text, outputPath string) error
}

// CommandEngine runs an external TTS binary (espeak-ng by default) for each
// synthesis call. Construction resolves the binary on PATH, so it fails
// early when the engine is not installed.
type CommandEngine struct {
	binary string
	voice  string
}

// NewCommandEngine resolves the TTS binary and returns an engine bound to
// it. voice may be empty to use the binary's default voice.
func NewCommandEngine(binary, voice string) (*CommandEngine, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("tts binary %q not found on PATH: %w", binary, err)
	}
	return &CommandEngine{binary: path, voice: voice}, nil
}

// Synthesize writes a WAV file for the given text to outputPath.
func (e *CommandEngine) Synthesize(ctx context.Context, text, outputPath string) error {
	if text == "" {
		return ErrTextEmpty
	}
	if outputPath == "" {
		return ErrOutputPathEmpty
	}

	args := []string{"-w", outputPath}
	if e.voice != "" {
		args = append(args, "-v", e.voice)
	}
	args = append(args, "--", text)

	// #nosec G204 -- binary is resolved at construction, text is data
	cmd := exec.CommandContext(ctx, e.binary, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("tts binary execution failed: %w - output: %s", err, string(output))
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		return ErrNoAudioProduced
	}
	return nil
}

// Command mktea converts between WAV and TEA and writes the built-in dice
// clips as TEA assets.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	audiosvc "sparkdice/sparkos/services/audio"
	"sparkdice/sparkos/tea"
)

func main() {
	var (
		inPath  = flag.String("in", "", "Input file (.wav for encode, .tea for decode).")
		outPath = flag.String("out", "", "Output file, or output directory for -mode synth.")
		mode    = flag.String("mode", "encode", "encode|decode|synth.")
		codec   = flag.String("codec", "ima-adpcm", "pcm16|ima-adpcm (encode and synth).")
		spb     = flag.Int("spb", tea.DefaultSamplesPerBlock, "Samples per block.")
		rate    = flag.Int("rate", 22050, "Sample rate for -mode synth.")
	)
	flag.Parse()

	codecID, err := parseCodec(*codec)
	if err != nil {
		fatalf("%v", err)
	}

	switch strings.ToLower(*mode) {
	case "encode":
		if *inPath == "" || *outPath == "" {
			usage()
		}
		err = encodeWAVToTEA(*inPath, *outPath, codecID, *spb)
	case "decode":
		if *inPath == "" || *outPath == "" {
			usage()
		}
		err = decodeTEAToWAV(*inPath, *outPath)
	case "synth":
		if *outPath == "" {
			usage()
		}
		err = writeSynthClips(*outPath, *rate, codecID, *spb)
	default:
		fatalf("unknown mode: %s", *mode)
	}
	if err != nil {
		fatalf("%s: %v", *mode, err)
	}
}

func usage() {
	fatalf("usage: mktea -mode encode -in in.wav -out out.tea [-codec pcm16|ima-adpcm] [-spb 505]\n" +
		"       mktea -mode decode -in in.tea -out out.wav\n" +
		"       mktea -mode synth -out assets/ [-rate 22050]")
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func parseCodec(s string) (uint8, error) {
	switch strings.ToLower(s) {
	case "pcm16":
		return tea.CodecPCM16, nil
	case "ima-adpcm", "adpcm":
		return tea.CodecIMAADPCM, nil
	}
	return 0, fmt.Errorf("unknown codec: %s", s)
}

func encodeWAVToTEA(inPath, outPath string, codec uint8, spb int) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	clip, err := readWAV(in)
	if err != nil {
		return err
	}
	return writeTEA(outPath, clip, codec, spb)
}

func decodeTEAToWAV(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	clip, err := tea.ReadAll(bufio.NewReader(in))
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := writeWAV(out, clip); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// writeSynthClips writes roll.tea and settle.tea into dir.
func writeSynthClips(dir string, rate int, codec uint8, spb int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	clips := map[string][]int16{
		"roll":   audiosvc.SynthRoll(rate),
		"settle": audiosvc.SynthSettle(rate),
	}
	for name, samples := range clips {
		path := filepath.Join(dir, name+".tea")
		if err := writeTEA(path, tea.Clip{SampleRate: rate, Samples: samples}, codec, spb); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func writeTEA(path string, clip tea.Clip, codec uint8, spb int) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tea.Encode(out, clip, codec, spb); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// This tool exports the samples of a miniSEED file to a mono WAV file, for
// listening to or inspecting waveform data with audio tooling. Records are
// decoded in stream order; all records must share one source identifier.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/cwbudde/mseed"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	flagPath     = flag.String("path", "", "The path to the miniSEED file to export")
	flagOut      = flag.String("o", "", "The output WAV file (default: input path with .wav)")
	flagBitDepth = flag.Int("bitdepth", 32, "WAV bit depth, 16 or 32")
	flagRate     = flag.Int("rate", 0, "Override the WAV sample rate (default: rate of the input)")
)

func main() {
	flag.Parse()

	if *flagPath == "" {
		fmt.Println("You must set the -path flag")
		os.Exit(1)
	}

	if *flagBitDepth != 16 && *flagBitDepth != 32 {
		fmt.Println("Unsupported bit depth, use 16 or 32")
		os.Exit(1)
	}

	file, err := os.Open(*flagPath)
	if err != nil {
		fmt.Println("Invalid path", *flagPath, err)
		os.Exit(1)
	}
	defer file.Close()

	samples, sampleRate, err := decodeSamples(file)
	if err != nil {
		log.Fatal(err)
	}

	if len(samples) == 0 {
		log.Fatal("no decodable samples in input")
	}

	if *flagRate > 0 {
		sampleRate = *flagRate
	}

	outPath := *flagOut
	if outPath == "" {
		outPath = (*flagPath)[:len(*flagPath)-len(filepath.Ext(*flagPath))] + ".wav"
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		fmt.Println("Failed to create", outPath)
		panic(err)
	}
	defer outFile.Close()

	encoder := wav.NewEncoder(outFile, sampleRate, *flagBitDepth, 1, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: *flagBitDepth,
		Data:           samples,
	}

	if err := encoder.Write(buf); err != nil {
		log.Fatal(err)
	}

	if err := encoder.Close(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("miniSEED file exported to %s\n", outPath)
}

func decodeSamples(r io.Reader) ([]int, int, error) {
	dec := mseed.NewDecoder(r)

	var (
		samples    []int
		sid        string
		sampleRate int
	)

	for {
		rec, err := dec.ReadNext()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, 0, err
		}

		if sid == "" {
			sid = rec.SID
			sampleRate = int(math.Round(rec.SampleRate))
		} else if rec.SID != sid {
			log.Printf("skipping record for %s, exporting %s", rec.SID, sid)

			continue
		}

		if _, err := mseed.DecodePayload(rec); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", rec.SID, err)
		}

		samples = appendRecordSamples(samples, rec, *flagBitDepth)
	}

	if sampleRate <= 0 {
		sampleRate = 1
	}

	return samples, sampleRate, nil
}

func appendRecordSamples(dst []int, rec *mseed.Record, bitDepth int) []int {
	switch rec.Samples.Class() {
	case mseed.SampleInt32:
		for _, v := range rec.Samples.Int32() {
			dst = append(dst, clampPCMInt(int64(v), bitDepth))
		}
	case mseed.SampleFloat32:
		for _, v := range rec.Samples.Float32() {
			dst = append(dst, clampPCMInt(int64(math.Round(float64(v))), bitDepth))
		}
	case mseed.SampleFloat64:
		for _, v := range rec.Samples.Float64() {
			dst = append(dst, clampPCMInt(int64(math.Round(v)), bitDepth))
		}
	default:
		log.Printf("skipping %s samples for %s", rec.Samples.Class(), rec.SID)
	}

	return dst
}

func clampPCMInt(value int64, bitDepth int) int {
	min, max := int64(math.MinInt32), int64(math.MaxInt32)
	if bitDepth == 16 {
		min, max = math.MinInt16, math.MaxInt16
	}

	if value < min {
		return int(min)
	}

	if value > max {
		return int(max)
	}

	return int(value)
}

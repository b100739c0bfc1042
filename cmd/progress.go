package cmd

import (
	"fmt"
	"io"

	"video-trimmer/domain/video"
)

// progressPrinter renders stage events as the numbered report printed to stdout
func progressPrinter(w io.Writer) video.Observer {
	return func(e video.Event) {
		switch e.Stage {
		case video.StageValidating:
			fmt.Fprintf(w, "[1/6] %s...\n", e.Message)
		case video.StageTimeParsed:
			fmt.Fprintf(w, "[2/6] %s\n", e.Message)
		case video.StageProbed:
			fmt.Fprintf(w, "[3/6] %s\n", e.Message)
		case video.StageRangeValidated:
			fmt.Fprintf(w, "[4/6] %s\n", e.Message)
		case video.StageConfirming:
			fmt.Fprintf(w, "      %s\n", e.Message)
		case video.StageTrimming:
			fmt.Fprintf(w, "[5/6] %s\n", e.Message)
			if e.Plan != nil {
				fmt.Fprintf(w, "      %s\n", modeNote(e.Plan.Mode()))
			}
		case video.StageVerifying:
			fmt.Fprintf(w, "[6/6] %s\n", e.Message)
		case video.StageDone:
			printSummary(w, e)
		}
	}
}

func modeNote(m video.Mode) string {
	if m == video.ModeFast {
		return "Stream copy: fast, but the start may snap to the previous keyframe"
	}
	return "Re-encoding for exact boundaries: slower, but the duration is precise"
}

func printSummary(w io.Writer, e video.Event) {
	if e.Result == nil {
		fmt.Fprintln(w, e.Message)
		return
	}
	r := e.Result
	fmt.Fprintf(w, "\nSaved:    %s\n", r.OutputPath)
	fmt.Fprintf(w, "Size:     %.2f MB\n", r.SizeMB())
	fmt.Fprintf(w, "Duration: %.2fs (expected %gs)\n", r.OutputDurationSeconds, r.RequestedDurationSeconds)
	if e.Warning != nil {
		fmt.Fprintf(w, "Warning:  %s\n", e.Warning)
	}
}

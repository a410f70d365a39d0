package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/richard-senior/edutune/internal/config"
	"github.com/richard-senior/edutune/internal/logger"
	"github.com/richard-senior/edutune/pkg/geogebra"
	"github.com/richard-senior/edutune/pkg/history"
	"github.com/richard-senior/edutune/pkg/visualizer"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	configPath := flag.String("config", "", "Optional config file")
	inputFile := flag.String("input", "", "Input file path (if not provided, stdin will be used)")
	outputFile := flag.String("output", "", "Output file path (if not provided, stdout will be used)")
	format := flag.String("format", "png", "png, svg, gif or commands")
	svgInput := flag.Bool("svg", false, "Treat the input as an SVG document or path data")
	width := flag.Int("width", 0, "Canvas width (default from config)")
	height := flag.Int("height", 0, "Canvas height (default from config)")
	t := flag.Float64("t", 0, "Cursor position on parametric curves, 0 to 1")
	animateMode := flag.Bool("animate", false, "Write one numbered file per frame, moving the cursor, until interrupted")
	fps := flag.Int("fps", 0, "Animation frame rate (default from config)")
	duration := flag.Duration("duration", 0, "Stop animating after this long")
	frames := flag.Int("frames", 0, "Stop animating after this many frames")
	flag.Parse()

	// stdout may carry the picture
	logger.SetWriter(os.Stderr)
	logger.SetShowDateTime(true)
	if *debug {
		logger.SetLevel(logger.DEBUG)
		logger.Debug("Debug logging enabled")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}
	if *fps > 0 {
		cfg.AnimationFPS = *fps
	}
	config.UpdateConfig(cfg)

	var input []byte
	if *inputFile != "" {
		input, err = os.ReadFile(*inputFile)
	} else {
		input, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		logger.Fatal("Failed to read input", err)
	}

	if *animateMode {
		if *outputFile == "" {
			logger.Fatal("-animate needs -output to name the frame files")
		}
		f, err := visualizer.ParseFormat(*format)
		if err != nil || f == visualizer.GIF {
			logger.Fatal("-animate writes png or svg frames, not", *format)
		}
		s, err := newSession(cfg, string(input), *svgInput, *width, *height)
		if err != nil {
			logger.Error("Failed to plot", err)
			os.Exit(1)
		}
		s.SetParameter(*t)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if *duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, *duration)
			defer cancel()
		}
		n, err := animate(ctx, s, f, *outputFile, *frames)
		if err != nil {
			logger.Error("Animation stopped", err)
			os.Exit(1)
		}
		logger.Info("Wrote", n, "frames")
		return
	}

	out, err := plot(cfg, string(input), *format, *svgInput, *width, *height, *t)
	if err != nil {
		logger.Error("Failed to plot", err)
		os.Exit(1)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, out, 0644); err != nil {
			logger.Fatal("Failed to write to output file", err)
		}
		logger.Info("Wrote", *outputFile, humanize.Bytes(uint64(len(out))))
		return
	}
	os.Stdout.Write(out)
}

func plot(cfg *config.AppConfig, input, format string, svgInput bool, width, height int, t float64) ([]byte, error) {
	if format == "commands" {
		if !svgInput {
			return nil, fmt.Errorf("-format commands needs -svg input")
		}
		commands, err := visualizer.SVGCommands(input)
		if err != nil {
			return nil, err
		}
		return []byte(geogebra.JoinCommands(commands) + "\n"), nil
	}

	f, err := visualizer.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	s, err := newSession(cfg, input, svgInput, width, height)
	if err != nil {
		return nil, err
	}
	s.SetParameter(t)

	data, stats, err := s.Render(f)
	if err != nil {
		return nil, err
	}
	logger.Info("Drew", stats.Drawn, "objects,", len(stats.Failed), "failed")
	return data, nil
}

// animate renders a frame per tick to <output>-0001.<format>, <output>-0002.<format> and so on.
// It stops when ctx is done or after limit frames when limit is positive.
func animate(ctx context.Context, s *visualizer.Session, f visualizer.Format, output string, limit int) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prefix := strings.TrimSuffix(output, filepath.Ext(output))
	n := 0
	err := s.Animate(ctx, func(t float64) error {
		data, _, err := s.Render(f)
		if err != nil {
			return err
		}
		n++
		name := fmt.Sprintf("%s-%04d.%s", prefix, n, f)
		if err := os.WriteFile(name, data, 0644); err != nil {
			return err
		}
		logger.Debug("Frame", n, "t =", t, name, humanize.Bytes(uint64(len(data))))
		if limit > 0 && n >= limit {
			cancel()
		}
		return nil
	})
	return n, err
}

// newSession loads input into a fresh session and logs every rejected line
func newSession(cfg *config.AppConfig, input string, svgInput bool, width, height int) (*visualizer.Session, error) {
	s := visualizer.NewSession(cfg, nil)
	if width > 0 || height > 0 {
		st := s.State()
		if width <= 0 {
			width = st.Width
		}
		if height <= 0 {
			height = st.Height
		}
		if err := s.Resize(width, height); err != nil {
			return nil, err
		}
	}

	var res *visualizer.Result
	var err error
	if svgInput {
		res, err = s.ImportSVG(input)
	} else {
		res, err = s.Execute(input, history.Typed)
	}
	if err != nil {
		return nil, err
	}
	for _, r := range res.Rejected {
		logger.Warn(fmt.Sprintf("line %d %q: %s", r.Line, r.Command, r.Reason))
		if r.Suggestion != "" {
			logger.Inform("  try", r.Suggestion)
		}
	}
	return s, nil
}

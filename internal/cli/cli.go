// Package cli implements the symbol-detect command line.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ironsheep/symbol-detect/internal/config"
	"github.com/ironsheep/symbol-detect/internal/pipeline"
	"github.com/ironsheep/symbol-detect/internal/publish"
	"github.com/ironsheep/symbol-detect/internal/server"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// BuildInfo identifies the binary.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// Build is set by main from ldflags.
var Build = BuildInfo{Version: "dev", BuildTime: "unknown", GitCommit: "unknown"}

// newPublisher is replaced in tests.
var newPublisher = func(opts publish.Options) (publish.Publisher, error) {
	return publish.NewMQTTPublisher(opts)
}

// errUsage marks errors caused by the command line itself.
var errUsage = errors.New("usage error")

// Run executes the command line in args (without the program name) and
// returns the process exit code.
//
// On success the result document is written to stdout as one line of
// JSON. On any failure a single {"error": "..."} object is written to
// stderr instead and nothing is written to stdout.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "symbol-detect %s\n", Build.Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", Build.BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", Build.GitCommit)
			return ExitOK
		case "--help", "-h", "help":
			printHelp(stdout)
			return ExitOK
		case "serve":
			return runServe(args[1:], stdout, stderr)
		case "detect":
			args = args[1:]
		}
	}

	cfg, req, err := parseDetect(args)
	if err != nil {
		return fail(stderr, err)
	}

	p, err := pipeline.New(cfg, nil)
	if err != nil {
		return fail(stderr, err)
	}

	outcome, err := p.Run(*req)
	if err != nil {
		return fail(stderr, err)
	}
	if cfg.Debug {
		log.Printf("Run %s finished in %s", outcome.Document.ID, outcome.Elapsed)
	}

	if cfg.MQTTBroker != "" {
		if err := publishDocument(cfg, outcome); err != nil {
			return fail(stderr, err)
		}
	}

	if err := pipeline.WriteDocument(stdout, outcome.Document); err != nil {
		return fail(stderr, err)
	}
	return ExitOK
}

// parseDetect builds the run configuration from the environment and the
// flags in args. Flags take precedence over the environment.
func parseDetect(args []string) (*config.Config, *pipeline.Request, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	fs, req := newDetectFlags(cfg)
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, nil, fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}

	if err := config.CheckImagePath(req.ImagePath); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if req.OutputPath == "" {
		return nil, nil, fmt.Errorf("%w: output path is required", errUsage)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	req.Confidence = cfg.Confidence
	req.IoU = cfg.IoU
	return cfg, req, nil
}

// newDetectFlags binds the detect flags to cfg and the returned request.
func newDetectFlags(cfg *config.Config) (*flag.FlagSet, *pipeline.Request) {
	req := &pipeline.Request{}
	fs := flag.NewFlagSet("symbol-detect", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&req.ImagePath, "image", "", "input diagram image (required)")
	fs.StringVar(&req.OutputPath, "output", "", "annotated JPEG output path (required)")
	fs.Float64Var(&cfg.Confidence, "conf", cfg.Confidence, "minimum confidence in (0,1]")
	fs.Float64Var(&cfg.IoU, "iou", cfg.IoU, "overlap suppression threshold in (0,1]")
	fs.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "detector: auto, heuristic or model")
	fs.StringVar(&cfg.ModelPath, "model", cfg.ModelPath, "ONNX model weights")
	fs.StringVar(&cfg.LabelsPath, "labels", cfg.LabelsPath, "label table, one class per line")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "placeholder scorer seed (0 = clock)")
	fs.IntVar(&cfg.MinArea, "min-area", cfg.MinArea, "minimum region area in pixels")
	fs.IntVar(&cfg.Threshold, "threshold", cfg.Threshold, "binarization cutoff 0-255")
	fs.IntVar(&cfg.Quality, "quality", cfg.Quality, "JPEG quality 1-100")
	fs.BoolVar(&cfg.DataURI, "data-uri", cfg.DataURI, "prefix images with a data URI marker")
	fs.BoolVar(&cfg.Clamp, "clamp", cfg.Clamp, "clip boxes to the image before normalizing")
	fs.StringVar(&cfg.BoxColor, "box-color", cfg.BoxColor, "annotation color as #RRGGBB")
	fs.BoolVar(&cfg.OCR, "ocr", cfg.OCR, "read tag text inside each detection")
	fs.StringVar(&cfg.OCRLanguage, "ocr-lang", cfg.OCRLanguage, "Tesseract language")
	fs.StringVar(&cfg.MQTTBroker, "mqtt-broker", cfg.MQTTBroker, "publish the document to this MQTT broker")
	fs.StringVar(&cfg.MQTTTopic, "mqtt-topic", cfg.MQTTTopic, "MQTT topic")

	return fs, req
}

func publishDocument(cfg *config.Config, outcome *pipeline.Outcome) error {
	pub, err := newPublisher(publish.Options{
		Broker: cfg.MQTTBroker,
		Topic:  cfg.MQTTTopic,
	})
	if err != nil {
		return err
	}
	defer pub.Close()

	return pub.Publish(outcome.Document)
}

func runServe(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		return fail(stderr, fmt.Errorf("%w: %v", errUsage, err))
	}

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ModelPath, "model", cfg.ModelPath, "ONNX model weights")
	fs.StringVar(&cfg.LabelsPath, "labels", cfg.LabelsPath, "label table")
	if err := fs.Parse(args); err != nil {
		return fail(stderr, fmt.Errorf("%w: %v", errUsage, err))
	}
	if err := cfg.Validate(); err != nil {
		return fail(stderr, fmt.Errorf("%w: %v", errUsage, err))
	}

	if cfg.Debug {
		log.Printf("symbol-detect MCP server v%s (built %s, commit %s)", Build.Version, Build.BuildTime, Build.GitCommit)
	}

	srv := server.New(cfg, Build.Version)
	defer srv.Close()

	if err := srv.Serve(os.Stdin, stdout); err != nil {
		return fail(stderr, err)
	}
	return ExitOK
}

// fail reports err as the single-field error document.
func fail(stderr io.Writer, err error) int {
	if writeErr := pipeline.WriteError(stderr, err); writeErr != nil {
		log.Printf("Failed to report error: %v", writeErr)
	}
	if errors.Is(err, errUsage) {
		return ExitUsage
	}
	return ExitFailure
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "symbol-detect - detect P&ID symbols in a diagram image")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  symbol-detect [detect] --image <path> --output <path> [options]")
	fmt.Fprintln(w, "  symbol-detect serve [--model weights.onnx] [--labels labels.txt]")
	fmt.Fprintln(w, "  symbol-detect --version | --help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")

	var opts strings.Builder
	fs, _ := newDetectFlags(config.Default())
	fs.SetOutput(&opts)
	fs.PrintDefaults()
	fmt.Fprint(w, opts.String())

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  SYMBOL_DETECT_LOG_LEVEL=debug    Enable debug logging")
	fmt.Fprintln(w, "  SYMBOL_DETECT_<OPTION>           Default for an option, e.g. SYMBOL_DETECT_CONF=0.6")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The result document is printed on stdout. Errors are printed on stderr")
	fmt.Fprintln(w, "as {\"error\": \"...\"} with a non-zero exit status.")
}

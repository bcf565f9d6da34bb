package smile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"

	"github.com/quaverlab/corpusfeat/logging"
)

const (
	// DefaultBinary is the name of the openSMILE command-line binary.
	DefaultBinary = "SMILExtract"

	// EnvConfigRoot names the environment variable pointing at the openSMILE
	// config directory of an installation.
	EnvConfigRoot = "OPENSMILE_CONFIG_ROOT"

	// DefaultConfigRoot is where a standard system-wide install places the
	// predefined config files.
	DefaultConfigRoot = "/usr/local/share/opensmile/config"
)

// ErrNotAvailable tags every failure caused by a missing openSMILE
// installation, so callers can distinguish "not installed" from engine
// failures.
var ErrNotAvailable = errors.New("openSMILE is not available")

const installHint = "install openSMILE (https://github.com/audeering/opensmile) " +
	"and make sure the SMILExtract binary is on PATH"

// Available checks that the SMILExtract binary can be found on PATH. It
// returns an ErrNotAvailable-wrapped error with install instructions when it
// cannot. The check is performed lazily, never at package load.
func Available() error {
	return AvailableAt(DefaultBinary)
}

// AvailableAt checks a specific binary name or path for availability.
func AvailableAt(binary string) error {
	if binary == "" {
		binary = DefaultBinary
	}
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("%w: %q not found: %s", ErrNotAvailable, binary, installHint)
	}
	return nil
}

// Params carries everything the engine needs for one configuration. The
// feature fields mirror the adapter configuration one-to-one; BinaryPath,
// ConfigRoot and Timeout are wrapper plumbing with working defaults.
type Params struct {
	FeatureSet   FeatureSet
	FeatureLevel FeatureLevel
	Options      map[string]string
	LogLevel     int
	Logfile      string
	SamplingRate *int
	Channels     []int
	Mixdown      bool
	Resample     bool
	NumWorkers   *int
	Verbose      bool

	BinaryPath string        // SMILExtract binary, "" = look up DefaultBinary on PATH
	ConfigRoot string        // predefined config dir, "" = $OPENSMILE_CONFIG_ROOT or DefaultConfigRoot
	Timeout    time.Duration // per-invocation limit, 0 = no limit
}

// Engine is a configured handle on an openSMILE installation. It is built
// once and reused for every ProcessSignal call; it is not safe for
// concurrent use.
type Engine struct {
	params     Params
	binary     string
	configPath string
	logger     logging.Logger

	// cached feature names from the first CSV header seen
	names []string
}

// NewEngine validates availability, resolves the feature-set config file and
// returns a ready engine. Unknown predefined sets and missing custom config
// files fail here, not at process time.
func NewEngine(params Params) (*Engine, error) {
	binary := params.BinaryPath
	if binary == "" {
		binary = DefaultBinary
	}
	if err := AvailableAt(binary); err != nil {
		return nil, err
	}

	configPath, err := resolveConfigPath(params)
	if err != nil {
		return nil, err
	}

	if params.FeatureLevel == "" {
		params.FeatureLevel = LowLevelDescriptors
	}
	if len(params.Channels) == 0 {
		params.Channels = []int{0}
	}

	base := logging.GetGlobalLogger()
	if params.Logfile != "" {
		// The binary appends its own log here; wrapper logs go to the same
		// place. The handle lives as long as the engine, which has no
		// teardown state.
		f, err := os.OpenFile(params.Logfile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open logfile: %w", err)
		}
		base = logging.NewFileLogger(f)
	}

	logger := base.WithFields(logging.Fields{
		"component":   "smile_engine",
		"feature_set": string(params.FeatureSet),
		"config":      configPath,
	})
	level := logging.LevelFromVerbosity(params.LogLevel)
	if params.Verbose {
		level = logging.DebugLevel
	}
	logger.SetLevel(level)

	e := &Engine{
		params:     params,
		binary:     binary,
		configPath: configPath,
		logger:     logger,
	}

	e.logger.Debug("Engine ready", logging.Fields{
		"feature_level": string(params.FeatureLevel),
		"binary":        binary,
	})
	return e, nil
}

// resolveConfigPath maps a predefined set name onto the config root, or
// treats the feature set as a custom config file path.
func resolveConfigPath(params Params) (string, error) {
	set := params.FeatureSet
	if set == "" {
		set = ComParE2016
	}

	if rel, ok := featureSetConfigs[set]; ok {
		root := params.ConfigRoot
		if root == "" {
			root = os.Getenv(EnvConfigRoot)
		}
		if root == "" {
			root = DefaultConfigRoot
		}
		path := filepath.Join(root, rel)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config for feature set %q not found at %s: %w", set, path, err)
		}
		return path, nil
	}

	// Not a predefined set: the value is a custom config file path.
	if _, err := os.Stat(string(set)); err != nil {
		return "", fmt.Errorf("custom config file %q not found: %w", set, err)
	}
	return string(set), nil
}

// ProcessSignal runs the engine over the given buffer and returns the
// feature table as a dense matrix, one row per output frame. The buffer is
// interleaved; channel selection and optional mono mixdown from Params are
// applied when writing the signal out for the engine.
func (e *Engine) ProcessSignal(samples *audio.FloatBuffer, sampleRate int) (_ *mat.Dense, err error) {
	logger := e.logger.WithFields(logging.Fields{
		"function":    "ProcessSignal",
		"sample_rate": sampleRate,
	})

	if samples == nil || len(samples.Data) == 0 {
		return nil, fmt.Errorf("empty signal buffer")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if e.params.SamplingRate != nil && *e.params.SamplingRate != sampleRate {
		if e.params.Resample {
			return nil, fmt.Errorf("resampling from %d Hz to %d Hz is not supported by the SMILExtract wrapper; provide the signal at the configured rate",
				sampleRate, *e.params.SamplingRate)
		}
		return nil, fmt.Errorf("signal rate %d Hz does not match configured rate %d Hz and resampling is disabled",
			sampleRate, *e.params.SamplingRate)
	}

	selected, err := selectChannels(samples, e.params.Channels, e.params.Mixdown)
	if err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp("", "smile-")
	if err != nil {
		return nil, fmt.Errorf("failed to create engine work dir: %w", err)
	}
	defer func() {
		err = multierr.Append(err, os.RemoveAll(workDir))
	}()

	inPath := filepath.Join(workDir, "signal.wav")
	outPath := filepath.Join(workDir, "features.csv")

	if err := writeWAV(inPath, selected, sampleRate); err != nil {
		return nil, err
	}

	args := e.buildArgs(inPath, outPath)

	ctx := context.Background()
	if e.params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.params.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.binary, args...)

	logger.Debug("Running SMILExtract", logging.Fields{
		"command": fmt.Sprintf("%s %s", e.binary, strings.Join(args, " ")),
	})

	start := time.Now()
	if _, err := cmd.Output(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Error(err, "SMILExtract failed", logging.Fields{
				"stderr": string(exitErr.Stderr),
			})
			return nil, fmt.Errorf("SMILExtract failed: %w, stderr: %s", err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("SMILExtract failed: %w", err)
	}

	out, err := os.Open(outPath)
	if err != nil {
		return nil, fmt.Errorf("engine produced no output: %w", err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	names, features, err := parseOutput(out)
	if err != nil {
		return nil, err
	}
	if e.names == nil {
		e.names = names
	}

	rows, cols := features.Dims()
	logger.Debug("SMILExtract completed", logging.Fields{
		"frames":       rows,
		"feature_dims": cols,
		"elapsed":      time.Since(start).Seconds(),
	})

	return features, nil
}

// FeatureNames returns the ordered feature column names for this
// configuration. The command-line engine only reveals names in its CSV
// header, so the first call runs the engine over a short probe signal; the
// result is cached for the engine's lifetime.
func (e *Engine) FeatureNames() ([]string, error) {
	if e.names != nil {
		return e.names, nil
	}

	rate := 16000
	if e.params.SamplingRate != nil {
		rate = *e.params.SamplingRate
	}

	// The probe must carry every selected channel index, not just as many
	// channels as are selected: Channels []int{1} needs a 2-channel layout.
	nchan := 1
	for _, ch := range e.params.Channels {
		if ch+1 > nchan {
			nchan = ch + 1
		}
	}
	probe := &audio.FloatBuffer{
		Data: make([]float64, rate/4*nchan), // 250 ms of silence
		Format: &audio.Format{
			NumChannels: nchan,
			SampleRate:  rate,
		},
	}

	if _, err := e.ProcessSignal(probe, rate); err != nil {
		return nil, fmt.Errorf("failed to probe feature names: %w", err)
	}
	return e.names, nil
}

// buildArgs assembles the SMILExtract command line for one invocation.
func (e *Engine) buildArgs(inPath, outPath string) []string {
	args := []string{
		"-C", e.configPath,
		"-I", inPath,
		e.params.FeatureLevel.OutputFlag(), outPath,
		"-l", strconv.Itoa(e.params.LogLevel),
	}

	if e.params.Logfile != "" {
		args = append(args, "-logfile", e.params.Logfile, "-appendLogfile")
	} else {
		args = append(args, "-nologfile")
	}

	if !e.params.Verbose {
		args = append(args, "-noconsoleoutput")
	}

	workers := runtime.NumCPU()
	if e.params.NumWorkers != nil {
		workers = *e.params.NumWorkers
	}
	if workers > 1 {
		args = append(args, "-nthreads", strconv.Itoa(workers))
	}

	// Script parameter overrides, in stable order.
	keys := make([]string, 0, len(e.params.Options))
	for k := range e.params.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		flag := k
		if !strings.HasPrefix(flag, "-") {
			flag = "-" + flag
		}
		args = append(args, flag, e.params.Options[k])
	}

	return args
}

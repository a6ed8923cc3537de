package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SkyMack/favgen/internal/platform"
	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
)

const defaultOutputDirName = "output"

var (
	// ErrSourceNotFound is returned when the source image path does not exist
	ErrSourceNotFound = fmt.Errorf("source file does not exist")
	// ErrNoPlatforms is returned when platforms were given explicitly as an empty list
	ErrNoPlatforms = fmt.Errorf("at least one platform must be selected")
	// ErrEmptyOutput is returned when the output directory was given explicitly as an empty path
	ErrEmptyOutput = fmt.Errorf("output directory must not be empty")
)

// Raw is the user supplied configuration, before defaults are applied
type Raw struct {
	Source    string
	Platforms Optional[[]platform.Platform]
	Output    Optional[string]
	Template  bool
}

// Config is a fully populated configuration; treat it as read-only once Normalize returns it
type Config struct {
	Source    string
	Platforms []platform.Platform
	Output    string
	Template  bool
}

// Raw converts the configuration back to a Raw with every field explicit
func (c Config) Raw() Raw {
	return Raw{
		Source:    c.Source,
		Platforms: Some(append([]platform.Platform(nil), c.Platforms...)),
		Output:    Some(c.Output),
		Template:  c.Template,
	}
}

// Normalize validates raw and fills the fields it leaves unset with their defaults.
// Explicit values are never overridden.
func Normalize(raw Raw) (Config, error) {
	if err := raw.validate(); err != nil {
		return Config{}, err
	}

	platforms, ok := raw.Platforms.Get()
	if ok {
		platforms = append([]platform.Platform(nil), platforms...)
	} else {
		platforms = platform.All()
		log.WithField("platforms", platforms).Debug("no platforms given, using defaults")
	}

	output, ok := raw.Output.Get()
	if !ok {
		cwd, err := os.Getwd()
		if err != nil {
			return Config{}, errors.Wrap(err, "resolving current working directory")
		}
		output = filepath.Join(cwd, defaultOutputDirName)
		log.WithField("dst.path", output).Debug("no output given, using default")
	}

	return Config{
		Source:    raw.Source,
		Platforms: platforms,
		Output:    output,
		Template:  raw.Template,
	}, nil
}

func (r Raw) validate() error {
	var result error

	if _, err := os.Stat(r.Source); err != nil {
		result = multierror.Append(result, errors.Wrapf(ErrSourceNotFound, "%q", r.Source))
	}
	if platforms, ok := r.Platforms.Get(); ok && len(platforms) == 0 {
		result = multierror.Append(result, ErrNoPlatforms)
	}
	if output, ok := r.Output.Get(); ok && strings.TrimSpace(output) == "" {
		result = multierror.Append(result, ErrEmptyOutput)
	}

	return result
}

package clibase

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	logDefaultLevel   = "info"
	logEnvFormatName  = "LOG_FORMAT"
	logEnvLevelName   = "LOG_LEVEL"
	logFlagFormatName = "log-format"
	logFlagLevelName  = "log-level"
	logTextFormatName = "text"
	logJSONFormatName = "json"
)

var (
	logFormats = map[string]log.Formatter{
		logJSONFormatName: &log.JSONFormatter{},
		logTextFormatName: &log.TextFormatter{},
	}
	logDefaultFormat = logTextFormatName

	// ErrorLogInitFailure is the error logged when the initial log configuration setup fails
	ErrorLogInitFailure = fmt.Errorf("failure during logging init")
	// ErrorLogLevelParse is the error logged when the specified log level cannot be parsed
	ErrorLogLevelParse = fmt.Errorf("unable to parse specified log level")
	// ErrorLogUnknownFormat is the error logged when an unrecognized log format is specified
	ErrorLogUnknownFormat = fmt.Errorf("unknown log format specified")
)

func init() {
	// Set the initial logger configuration (used for any messages logged before flags can change the config)
	if err := configureLogging(getLogSettings(nil)); err != nil {
		log.Error(ErrorLogInitFailure.Error())
	}

	log.SetOutput(io.Discard) // Send all logs to nowhere by default
	log.AddHook(&writer.Hook{ // Send logs with level higher than warning to stderr
		Writer: os.Stderr,
		LogLevels: []log.Level{
			log.PanicLevel,
			log.FatalLevel,
			log.ErrorLevel,
			log.WarnLevel,
		},
	})
	log.AddHook(&writer.Hook{ // Send info, debug, and trace logs to stdout
		Writer: os.Stdout,
		LogLevels: []log.Level{
			log.InfoLevel,
			log.DebugLevel,
			log.TraceLevel,
		},
	})
}

func addLogFlags(flags *pflag.FlagSet) {
	logFlags := &pflag.FlagSet{}

	formats := make([]string, 0, len(logFormats))
	for k := range logFormats {
		formats = append(formats, k)
	}
	logFlags.String(logFlagFormatName, logDefaultFormat, fmt.Sprintf("The log format (valid values are: %s) [$%s]", strings.Join(formats, ", "), logEnvFormatName))
	logFlags.String(logFlagLevelName, logDefaultLevel, fmt.Sprintf("The log level (trace, debug, info, warn, err, fatal) [$%s]", logEnvLevelName))

	flags.AddFlagSet(logFlags)
}

// getLogSettings resolves the log settings; an explicitly set flag wins over the environment, which wins over the defaults
func getLogSettings(flags *pflag.FlagSet) (logFormat, logLevel string) {
	settings := viper.New()
	settings.SetDefault(logFlagFormatName, logDefaultFormat)
	settings.SetDefault(logFlagLevelName, logDefaultLevel)
	_ = settings.BindEnv(logFlagFormatName, logEnvFormatName)
	_ = settings.BindEnv(logFlagLevelName, logEnvLevelName)

	if flags != nil {
		for _, name := range []string{logFlagFormatName, logFlagLevelName} {
			if flag := flags.Lookup(name); flag != nil {
				_ = settings.BindPFlag(name, flag)
			}
		}
	}

	return settings.GetString(logFlagFormatName), settings.GetString(logFlagLevelName)
}

func configureLogging(logFormat, logLevel string) error {
	log.WithFields(log.Fields{
		"current.log.level":    log.GetLevel(),
		"submitted.log.format": logFormat,
		"submitted.log.level":  logLevel,
	}).Trace("configureLogging START")

	formatter, ok := logFormats[logFormat]
	if !ok {
		log.WithFields(log.Fields{
			"submitted.log.format": logFormat,
		}).Error(ErrorLogUnknownFormat.Error())
		return ErrorLogUnknownFormat
	}
	log.SetFormatter(formatter)

	logLevelParsed, err := log.ParseLevel(logLevel)
	if err != nil {
		log.WithFields(log.Fields{
			"error":               err,
			"submitted.log.level": logLevel,
		}).Error(ErrorLogLevelParse.Error())
		return err
	}
	log.SetLevel(logLevelParsed)

	log.WithFields(log.Fields{
		"current.log.level":    log.GetLevel(),
		"submitted.log.format": logFormat,
		"submitted.log.level":  logLevel,
	}).Trace("configureLogging END")
	return nil
}

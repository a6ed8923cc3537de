package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/SkyMack/favgen/internal/config"
	"github.com/SkyMack/favgen/internal/platform"
	"github.com/SkyMack/favgen/internal/render"
	"github.com/SkyMack/favgen/internal/template"
	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	flagNameOutput    = "output"
	flagNamePlatforms = "platforms"
	flagNameTemplate  = "template"

	filePerm = 0o644
)

// Renderer produces the image assets of the selected platforms from a source image
type Renderer interface {
	Render(source string, platforms []platform.Platform, destDir string) ([]render.Asset, error)
}

func addGenerateFlags(flags *pflag.FlagSet, platforms *platform.Value) {
	genFlags := &pflag.FlagSet{}

	genFlags.VarP(platforms, flagNamePlatforms, "p", fmt.Sprintf("Platforms that should be supported, repeatable (%s; default all)", strings.Join(platform.Names(), "|")))
	genFlags.StringP(flagNameOutput, "o", "", "Output folder destination, will be created if it does not exist (default \"./output\")")
	genFlags.BoolP(flagNameTemplate, "t", false, "Generate a quick-start HTML template")

	flags.AddFlagSet(genFlags)
}

// AddCmdGenerate turns rootCmd into the favicon generator, rendering assets with r
func AddCmdGenerate(rootCmd *cobra.Command, r Renderer) {
	platforms := &platform.Value{}

	rootCmd.Use = fmt.Sprintf("%s <source_image>", rootCmd.Name())
	rootCmd.Args = cobra.ExactArgs(1)
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		raw, err := rawConfigFromFlags(args[0], cmd.Flags(), platforms)
		if err != nil {
			return err
		}
		conf, err := config.Normalize(raw)
		if err != nil {
			return err
		}
		return generate(conf, r, cmd.OutOrStdout())
	}
	addGenerateFlags(rootCmd.Flags(), platforms)
}

func rawConfigFromFlags(source string, flags *pflag.FlagSet, platforms *platform.Value) (config.Raw, error) {
	tmpl, err := flags.GetBool(flagNameTemplate)
	if err != nil {
		return config.Raw{}, err
	}

	raw := config.Raw{
		Source:   source,
		Template: tmpl,
	}
	if platforms.IsSet() {
		raw.Platforms = config.Some(platforms.Platforms())
	}
	if flags.Changed(flagNameOutput) {
		output, err := flags.GetString(flagNameOutput)
		if err != nil {
			return config.Raw{}, err
		}
		raw.Output = config.Some(output)
	}
	return raw, nil
}

func generate(conf config.Config, r Renderer, out io.Writer) error {
	log.WithFields(log.Fields{
		"dst.path":  conf.Output,
		"platforms": conf.Platforms,
		"src.path":  conf.Source,
		"template":  conf.Template,
	}).Info("generating favicons")

	assets, err := r.Render(conf.Source, conf.Platforms, conf.Output)
	if err != nil {
		return err
	}

	var written []string
	for _, a := range assets {
		written = append(written, a.Path)
	}
	if conf.Template {
		files, err := writeTemplate(conf)
		if err != nil {
			return err
		}
		written = append(written, files...)
	}

	printSummary(out, conf.Output, written)
	return nil
}

func writeTemplate(conf config.Config) ([]string, error) {
	if err := os.MkdirAll(conf.Output, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating output directory %s", conf.Output)
	}

	files := []struct {
		name    string
		content string
	}{
		{template.HTMLFileName, template.Generate(conf.Platforms)},
		{template.ManifestFileName, template.Manifest},
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		destFile := filepath.Join(conf.Output, f.name)
		log.WithField("dst.path", destFile).Info("saving template file")
		if err := os.WriteFile(destFile, []byte(f.content), filePerm); err != nil {
			return written, errors.Wrapf(err, "writing %s", destFile)
		}
		written = append(written, destFile)
	}
	return written, nil
}

func printSummary(out io.Writer, destDir string, files []string) {
	header := color.New(color.FgGreen, color.Bold)
	item := color.New(color.FgCyan)

	header.Fprintf(out, "Generated %d file(s) in %s\n", len(files), destDir)
	for _, f := range files {
		rel, err := filepath.Rel(destDir, f)
		if err != nil {
			rel = f
		}
		item.Fprintf(out, "  %s\n", rel)
	}
}

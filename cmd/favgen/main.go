package main

import (
	"github.com/SkyMack/favgen/internal/clibase"
	"github.com/SkyMack/favgen/internal/generator"
	"github.com/SkyMack/favgen/internal/render"
	log "github.com/sirupsen/logrus"
)

const (
	appName        = "favgen"
	appDescription = "Generates a complete and ready-to-use set of favicons for your website from a single source image."
)

func main() {
	rootCmd := clibase.New(appName, appDescription)

	generator.AddCmdGenerate(rootCmd, render.New())

	if err := rootCmd.Execute(); err != nil {
		log.WithFields(
			log.Fields{
				"app.name": appName,
				"error":    err.Error(),
			},
		).Fatal("application exited with an error")
	}
}

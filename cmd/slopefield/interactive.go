package main

import (
	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/gui"
	"github.com/san-kum/slopefield/internal/viz"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	d, err := loadDomain(cmd)
	if err != nil {
		return err
	}
	l := interactiveLogger()
	app := viz.NewApp(config.NewStore(d, l), viz.AppConfig{
		ConfigPath: configFile,
		Theme:      theme,
		Workers:    workers,
		Logger:     l,
	})
	return viz.Run(app)
}

func runGUI(cmd *cobra.Command, args []string) error {
	d, err := loadDomain(cmd)
	if err != nil {
		return err
	}
	return gui.Run(config.NewStore(d, logger), gui.Options{
		ConfigPath: configFile,
		Workers:    workers,
		Logger:     logger,
	})
}

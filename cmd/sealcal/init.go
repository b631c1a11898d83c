package main

import (
	"fmt"
	"os"

	"github.com/gwillem/sealcal/pkg/seal"
)

type InitCommand struct {
	Template string `short:"t" long:"template" description:"SEAL template file"`
	DevID    string `long:"dev-id" description:"Device id"`
	Force    bool   `short:"f" long:"force" description:"Overwrite an existing configuration file"`
}

func (c *InitCommand) Execute(args []string) error {
	if _, err := os.Stat(opts.Config); err == nil && !c.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", opts.Config)
	}

	cfg := seal.DefaultConfig()
	cfg.TemplatePath = c.Template
	cfg.DevID = c.DevID
	d := seal.DefaultDefaults()
	cfg.Defaults = &d

	if err := cfg.SaveTo(opts.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Println(successStyle.Render("Configuration saved to " + opts.Config))
	if cfg.TemplatePath == "" {
		fmt.Println(dimStyle.Render("No template set: exports will be marked non-production until one is configured."))
	}
	return nil
}

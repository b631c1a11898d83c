package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/gwillem/sealcal/pkg/calib"
	"github.com/gwillem/sealcal/pkg/report"
)

type CalibrateCommand struct {
	BoardFlags
	ExportFlags

	Left       int    `long:"left" default:"0" description:"Left camera index"`
	Right      int    `long:"right" default:"1" description:"Right camera index (-1 for a single camera)"`
	Images     int    `long:"images" default:"20" description:"Number of frames to capture"`
	FromImages string `long:"from-images" description:"Calibrate from captured images in this directory instead of live cameras"`
}

func (c *CalibrateCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c.apply(cfg)

	board, err := c.Board()
	if err != nil {
		return err
	}
	sess := calib.Session{
		Board:       board,
		LeftCamera:  c.Left,
		RightCamera: c.Right,
		Images:      c.Images,
		FromImages:  c.FromImages,
		OutputDir:   cfg.OutputDir,
	}

	fmt.Println(headerStyle.Render("SEAL Calibration"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━"))
	fmt.Printf("Board:  %s\n", board)
	if sess.Stereo() {
		fmt.Printf("Camera: %d (left), %d (right)\n", sess.LeftCamera, sess.RightCamera)
	} else {
		fmt.Printf("Camera: %d\n", sess.LeftCamera)
	}
	fmt.Println(dimStyle.Render("Solver: " + strings.Join(append(cfg.Solver, sess.Args()...), " ")))
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	solver := &calib.Solver{Command: cfg.Solver, Stdout: os.Stdout, Stderr: os.Stderr}
	res, err := solver.Run(ctx, sess)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(report.Summary(res))
	return runExport(cfg, res, c.ExportFlags)
}

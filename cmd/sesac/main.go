package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/chanyong1027/sesac-team2-sub001/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(c.GetLogLevel())

	if len(args) == 0 {
		displayAppname(c.GetAppName())
		usage()
		return nil
	}

	app, err := newApp(c)
	if err != nil {
		return err
	}
	return app.dispatch(args[0], args[1:])
}

func loadConfig() (config.Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return config.New(), nil
	}
	return config.NewWithFile(filepath.Join(home, ".config", "sesac", "config.yaml"))
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func usage() {
	fmt.Println("Usage: sesac <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login       Log in and store the session")
	fmt.Println("  whoami      Show the authenticated user")
	fmt.Println("  workspaces  List workspaces")
	fmt.Println("  logout      Clear the stored session")
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

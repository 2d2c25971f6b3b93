package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/themikhailova/niti/api"
	"github.com/themikhailova/niti/cli"
	"github.com/themikhailova/niti/ui"
	"github.com/themikhailova/niti/util"
)

func main() {
	versionFlag := flag.Bool("v", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("%s v%s\n", util.Name, util.GetVersion())
		os.Exit(0)
	}

	conf, err := util.ReadConf()
	if err != nil {
		log.Fatalf("Could not read config: %v", err)
	}

	client, err := api.New(conf)
	if err != nil {
		log.Fatalf("Could not create api client: %v", err)
	}

	// With a command (or a pipe instead of a terminal) run one-shot CLI
	// mode; otherwise start the full-screen UI
	args := flag.Args()
	if len(args) > 0 || !isatty.IsTerminal(os.Stdout.Fd()) {
		handler := cli.NewHandler(os.Stdin, os.Stdout, client, conf)
		if err := handler.Execute(args); err != nil {
			os.Exit(1)
		}
		return
	}

	// The UI owns the terminal, so logs go to a file
	if dir, err := util.GetConfigDir(); err == nil {
		if f, err := tea.LogToFile(filepath.Join(dir, util.Name+".log"), util.Name); err == nil {
			defer f.Close()
		}
	}

	lipgloss.SetColorProfile(termenv.ANSI256)

	p := tea.NewProgram(ui.NewModel(client, conf, 0, 0), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Could not start UI: %v", err)
	}
}

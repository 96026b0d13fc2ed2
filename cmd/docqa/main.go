package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/embedding"
	"docqa/internal/log"
	"docqa/internal/segment"
	"docqa/internal/service"
	"docqa/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docqa/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: docqa [--config=config.yaml] file1.pdf [file2.txt ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// the TUI owns the terminal, so logs go to a file unless configured otherwise
	output := cfg.Log.Output
	if output == "" || output == "stdout" || output == "stderr" {
		output = "docqa.log"
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.Format, output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	factory, err := embedding.NewFactory(cfg.Embedder)
	if err != nil {
		log.Fatal("embedder setup failed", err)
	}
	ch, err := chunker.New(cfg.Chunker)
	if err != nil {
		log.Fatal("chunker setup failed", err)
	}
	seg, err := segment.New(cfg.Segmenter.Type)
	if err != nil {
		log.Fatal("segmenter setup failed", err)
	}
	svc := service.New(cfg, factory, ch, seg)
	sess, err := svc.IngestPaths(inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ingest failed: %v\n", err)
		log.Fatal("ingest failed", err)
	}

	m := tui.New(svc, sess.ID, len(sess.Chunks))
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal("tui exited", err)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gosuri/uitable"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/nhle/letterbox/internal/app"
	"github.com/nhle/letterbox/internal/haptic"
	"github.com/nhle/letterbox/internal/model"
	"github.com/nhle/letterbox/internal/seed"
	"github.com/nhle/letterbox/internal/session"
)

type rootOptions struct {
	configPath string
	seedSource string
	seedPath   string
	debugLog   string
}

var opts rootOptions

func addRootFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "path to the config file")
	f.StringVar(&opts.seedSource, "seed", "", "inbox source: sample, mbox or sqlite (overrides config)")
	f.StringVar(&opts.seedPath, "seed-path", "", "mbox file or database for --seed")
	f.StringVar(&opts.debugLog, "debug", "", "write debug logs to this file")
}

// loadConfig reads the config file and applies the seed flags on top.
func loadConfig() (*model.AppConfig, string, error) {
	path, err := homedir.Expand(opts.configPath)
	if err != nil {
		return nil, "", fmt.Errorf("expanding config path: %w", err)
	}

	cfg, err := model.LoadConfig(path)
	if err != nil {
		return nil, "", err
	}

	if opts.seedSource != "" {
		cfg.Seed.Source = opts.seedSource
	}
	if opts.seedPath != "" {
		cfg.Seed.Path = opts.seedPath
	}
	if cfg.Seed.Path != "" {
		if cfg.Seed.Path, err = homedir.Expand(cfg.Seed.Path); err != nil {
			return nil, "", fmt.Errorf("expanding seed path: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func runInbox(cmd *cobra.Command, _ []string) error {
	if opts.debugLog != "" {
		f, err := tea.LogToFile(opts.debugLog, "letterbox")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	mails, err := seed.Load(cmd.Context(), cfg.Seed)
	if err != nil {
		return err
	}

	sess := session.New(mails, cfg, haptic.Bell{W: os.Stderr})
	p := tea.NewProgram(
		app.New(sess, cfg, path),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go func() {
		err := model.WatchConfig(ctx, path, func(next *model.AppConfig, err error) {
			p.Send(app.ConfigReloadedMsg{Config: next, Err: err})
		})
		if err != nil {
			log.Printf("config watch stopped: %v", err)
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running inbox: %w", err)
	}
	return nil
}

func addList(topLevel *cobra.Command) {
	var importantOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the inbox without starting the UI",
		Example: `
letterbox list
letterbox list --seed mbox --seed-path ~/mail/inbox.mbox
letterbox list --important`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			mails, err := seed.Load(cmd.Context(), cfg.Seed)
			if err != nil {
				return err
			}

			tbl := uitable.New()
			tbl.MaxColWidth = 48
			tbl.Separator = "  "
			tbl.AddRow("ID", "", "FROM", "SUBJECT", "TIME")
			for _, m := range mails {
				if importantOnly && !m.Important {
					continue
				}
				star := ""
				if m.Important {
					star = "★"
				}
				tbl.AddRow(m.ID, star, m.Sender, m.Subject, m.Timestamp)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return err
		},
	}
	cmd.Flags().BoolVar(&importantOnly, "important", false, "only show mail marked important")

	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <mbox> <database>",
		Short: "Copy the letters of an mbox file into a SQLite inbox",
		Example: `
letterbox import ~/mail/inbox.mbox ~/.config/letterbox/inbox.db
letterbox --seed sqlite --seed-path ~/.config/letterbox/inbox.db`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mboxPath, err := homedir.Expand(args[0])
			if err != nil {
				return fmt.Errorf("expanding mbox path: %w", err)
			}
			dbPath, err := homedir.Expand(args[1])
			if err != nil {
				return fmt.Errorf("expanding database path: %w", err)
			}

			n, err := seed.Import(cmd.Context(), mboxPath, dbPath, replace)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d letters into %s\n", n, dbPath)
			return err
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "clear the database before importing")

	topLevel.AddCommand(cmd)
}

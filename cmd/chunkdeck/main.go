// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/chunkdeck"
	"github.com/poiesic/chunkdeck/core"
	"github.com/poiesic/chunkdeck/export"
	"github.com/poiesic/chunkdeck/store"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "chunkdeck",
		Usage: "Manage chunk flashcard documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   ".chunkdeck",
				EnvVars: []string{"CHUNKDECK_DB"},
			},
			&cli.StringFlag{
				Name:  "export-dir",
				Usage: "Directory export files are written to",
				Value: chunkdeck.DefaultExportDir,
			},
			&cli.BoolFlag{
				Name:  "startup-load",
				Usage: "Replace the working copy with the saved default document on startup",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the current document as JSON",
				Action: showCommand,
			},
			{
				Name:   "list",
				Usage:  "List saved document titles",
				Action: listCommand,
			},
			{
				Name:   "new",
				Usage:  "Save the current document and start a new one",
				Action: newCommand,
			},
			{
				Name:   "save",
				Usage:  "Save the current document under its title",
				Action: saveCommand,
			},
			{
				Name:      "load",
				Usage:     "Load a saved document",
				ArgsUsage: "<title>",
				Action:    loadCommand,
			},
			{
				Name:      "delete",
				Usage:     "Delete a saved document",
				ArgsUsage: "<title>",
				Action:    deleteCommand,
			},
			{
				Name:   "export",
				Usage:  "Write the current document to the export directory",
				Action: exportCommand,
			},
			{
				Name:   "export-all",
				Usage:  "Write every saved document to the export directory",
				Action: exportAllCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent writers (0 uses half the CPUs)",
					},
				},
			},
			{
				Name:      "import",
				Usage:     "Replace the current document with one read from a file",
				ArgsUsage: "<file>",
				Action:    importCommand,
			},
			{
				Name:   "check",
				Usage:  "Compare the registry against saved documents",
				Action: checkCommand,
			},
			{
				Name:   "add-record",
				Usage:  "Append an empty record to the current document",
				Action: addRecordCommand,
			},
			{
				Name:      "delete-record",
				Usage:     "Remove a record from the current document",
				ArgsUsage: "<record-id>",
				Action:    deleteRecordCommand,
			},
			{
				Name:      "edit-record",
				Usage:     "Change fields of a record",
				UsageText: "chunkdeck edit-record [--front text] [--back text] [--level text] <record-id>",
				ArgsUsage: "<record-id>",
				Action:    editRecordCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "front",
						Usage: "Prompt side text",
					},
					&cli.StringFlag{
						Name:  "back",
						Usage: "Answer side text",
					},
					&cli.StringFlag{
						Name:  "level",
						Usage: "Difficulty marker",
					},
				},
			},
			{
				Name:      "add-addition",
				Usage:     "Append an empty addition to a record",
				ArgsUsage: "<record-id>",
				Action:    addAdditionCommand,
			},
			{
				Name:      "delete-addition",
				Usage:     "Remove an addition from a record",
				ArgsUsage: "<record-id> <addition-id>",
				Action:    deleteAdditionCommand,
			},
			{
				Name:      "set-title",
				Usage:     "Rename the current document",
				ArgsUsage: "<title>",
				Action:    setTitleCommand,
			},
			{
				Name:      "set-footer",
				Usage:     "Set the current document's footer",
				ArgsUsage: "<footer>",
				Action:    setFooterCommand,
			},
		},
	}
}

// openWorkspace opens the workspace named by the global flags. Notifications
// and alerts go to the app's error writer.
func openWorkspace(c *cli.Context) (*chunkdeck.Workspace, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	ws, err := chunkdeck.OpenWorkspace(c.Context, dbPath,
		chunkdeck.WithExportDir(c.String("export-dir")),
		chunkdeck.WithStoreOptions(
			store.WithNotifier(store.NewWriterNotifier(c.App.ErrWriter)),
			store.WithAlerter(store.NewWriterAlerter(c.App.ErrWriter)),
			store.WithStartupLoad(c.Bool("startup-load")),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return ws, nil
}

// withStore runs fn against an open store and closes the workspace afterwards.
func withStore(c *cli.Context, fn func(ctx context.Context, s *store.Store) error) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()
	return fn(c.Context, ws.Store())
}

// requireArgs checks the positional argument count. Flag parsing stops at the
// first positional argument, so a flag given after one shows up here.
func requireArgs(c *cli.Context, names ...string) error {
	if args := c.Args().Slice(); len(args) > len(names) {
		for _, arg := range args[len(names):] {
			if strings.HasPrefix(arg, "-") {
				return fmt.Errorf("%s: flag %s must come before %s", c.Command.Name, arg, strings.Join(names, " "))
			}
		}
	}
	if c.NArg() != len(names) {
		return fmt.Errorf("%s requires %s", c.Command.Name, strings.Join(names, " "))
	}
	return nil
}

func showCommand(c *cli.Context) error {
	return withStore(c, func(_ context.Context, s *store.Store) error {
		data, err := core.EncodeDocumentIndent(s.Document())
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(data))
		return nil
	})
}

func listCommand(c *cli.Context) error {
	return withStore(c, func(_ context.Context, s *store.Store) error {
		current := s.Title()
		for _, title := range s.Registry() {
			marker := " "
			if title == current {
				marker = "*"
			}
			fmt.Fprintf(c.App.Writer, "%s %s\n", marker, title)
		}
		return nil
	})
}

func newCommand(c *cli.Context) error {
	return withStore(c, func(ctx context.Context, s *store.Store) error {
		title, err := s.NewDocument(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, title)
		return nil
	})
}

func saveCommand(c *cli.Context) error {
	return withStore(c, func(ctx context.Context, s *store.Store) error {
		return s.Save(ctx)
	})
}

func loadCommand(c *cli.Context) error {
	if err := requireArgs(c, "<title>"); err != nil {
		return err
	}
	return withStore(c, func(ctx context.Context, s *store.Store) error {
		return s.Load(ctx, c.Args().First(), true)
	})
}

func deleteCommand(c *cli.Context) error {
	if err := requireArgs(c, "<title>"); err != nil {
		return err
	}
	return withStore(c, func(ctx context.Context, s *store.Store) error {
		return s.Delete(ctx, c.Args().First())
	})
}

func exportCommand(c *cli.Context) error {
	return withStore(c, func(ctx context.Context, s *store.Store) error {
		return s.Export(ctx)
	})
}

func exportAllCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	var opts []export.ArchiverOption
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, export.WithPoolSize(workers))
	}
	archiver, err := ws.NewArchiver(opts...)
	if err != nil {
		return fmt.Errorf("failed to create archiver: %w", err)
	}
	defer archiver.Release()

	n, err := archiver.Archive(c.Context, ws.ExportDir())
	fmt.Fprintf(c.App.Writer, "Exported %d documents to %s\n", n, ws.ExportDir())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}

func importCommand(c *cli.Context) error {
	if err := requireArgs(c, "<file>"); err != nil {
		return err
	}
	f, err := os.Open(c.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()

	return withStore(c, func(ctx context.Context, s *store.Store) error {
		if err := s.Import(ctx, f); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Imported %s\n", s.Title())
		return nil
	})
}

func checkCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	result, err := ws.Check(c.Context)
	if err != nil {
		return err
	}
	for _, title := range result.Unregistered {
		fmt.Fprintf(c.App.Writer, "unregistered: %s\n", title)
	}
	for _, title := range result.Missing {
		fmt.Fprintf(c.App.Writer, "missing: %s\n", title)
	}
	if !result.OK() {
		return errors.New("registry and storage disagree")
	}
	fmt.Fprintln(c.App.Writer, "ok")
	return nil
}

func addRecordCommand(c *cli.Context) error {
	return withStore(c, func(ctx context.Context, s *store.Store) error {
		record, err := s.AddRecord(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, record.ID)
		return nil
	})
}

func deleteRecordCommand(c *cli.Context) error {
	if err := requireArgs(c, "<record-id>"); err != nil {
		return err
	}
	return withStore(c, func(ctx context.Context, s *store.Store) error {
		deleted, err := s.DeleteRecord(ctx, c.Args().First())
		if err != nil {
			return err
		}
		if !deleted {
			slog.Warn("no record deleted", "id", c.Args().First())
		}
		return nil
	})
}

func editRecordCommand(c *cli.Context) error {
	if err := requireArgs(c, "<record-id>"); err != nil {
		return err
	}
	if !c.IsSet("front") && !c.IsSet("back") && !c.IsSet("level") {
		return fmt.Errorf("at least one of --front, --back or --level is required")
	}
	return withStore(c, func(ctx context.Context, s *store.Store) error {
		return s.UpdateRecord(ctx, c.Args().First(), func(record *core.ChunkRecord) {
			if c.IsSet("front") {
				record.Front = c.String("front")
			}
			if c.IsSet("back") {
				record.Back = c.String("back")
			}
			if c.IsSet("level") {
				record.Level = c.String("level")
			}
		})
	})
}

func addAdditionCommand(c *cli.Context) error {
	if err := requireArgs(c, "<record-id>"); err != nil {
		return err
	}
	id := c.Args().First()
	return withStore(c, func(ctx context.Context, s *store.Store) error {
		if _, ok := s.LookupRecord(id); !ok {
			return fmt.Errorf("%w: %s", store.ErrRecordNotFound, id)
		}
		addition, err := s.AddAddition(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, addition.ID)
		return nil
	})
}

func deleteAdditionCommand(c *cli.Context) error {
	if err := requireArgs(c, "<record-id>", "<addition-id>"); err != nil {
		return err
	}
	return withStore(c, func(ctx context.Context, s *store.Store) error {
		deleted, err := s.DeleteAddition(ctx, c.Args().Get(0), c.Args().Get(1))
		if err != nil {
			return err
		}
		if !deleted {
			slog.Warn("no addition deleted", "record", c.Args().Get(0), "id", c.Args().Get(1))
		}
		return nil
	})
}

func setTitleCommand(c *cli.Context) error {
	if err := requireArgs(c, "<title>"); err != nil {
		return err
	}
	return withStore(c, func(ctx context.Context, s *store.Store) error {
		return s.Mutate(ctx, func(doc *core.ChunkDocument) error {
			doc.Title = c.Args().First()
			return nil
		})
	})
}

func setFooterCommand(c *cli.Context) error {
	if err := requireArgs(c, "<footer>"); err != nil {
		return err
	}
	return withStore(c, func(ctx context.Context, s *store.Store) error {
		return s.Mutate(ctx, func(doc *core.ChunkDocument) error {
			doc.Footer = c.Args().First()
			return nil
		})
	})
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

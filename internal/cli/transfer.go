package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sandeepkv93/todo/internal/app"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

type exportDoc struct {
	Tasks []model.Task `json:"tasks" yaml:"tasks"`
	Trash []model.Task `json:"trash" yaml:"trash"`
}

func encodeExport(w io.Writer, doc exportDoc, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func decodeExport(raw []byte, format string) (exportDoc, error) {
	var doc exportDoc
	switch format {
	case formatJSON:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return doc, fmt.Errorf("decode json: %w", err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return doc, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return doc, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
	return doc, nil
}

// formatFor picks the format from the flag, falling back to the file
// extension and then JSON.
func formatFor(flag, path string) string {
	if f := strings.ToLower(strings.TrimSpace(flag)); f != "" {
		if f == "yml" {
			return formatYAML
		}
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

func newExportCommand(flags *globalFlags) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write tasks and trash as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flags.withApp(cmd, func(a *app.App) error {
				doc := exportDoc{Tasks: a.Store.Tasks(), Trash: a.Store.Trash()}
				f := formatFor(format, output)
				if output == "" || output == "-" {
					return encodeExport(cmd.OutOrStdout(), doc, f)
				}
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := encodeExport(file, doc, f); err != nil {
					_ = file.Close()
					return err
				}
				if err := file.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d task(s) and %d trashed to %s\n", len(doc.Tasks), len(doc.Trash), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from file extension, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCommand(flags *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add tasks from a JSON or YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var (
				raw []byte
				err error
			)
			if path == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(path)
			}
			if err != nil {
				return err
			}
			doc, err := decodeExport(raw, formatFor(format, path))
			if err != nil {
				return err
			}
			return flags.withApp(cmd, func(a *app.App) error {
				imported, skipped := importTasks(a, doc, cmd.ErrOrStderr())
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d task(s), skipped %d\n", imported, skipped)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from file extension, else json)")
	return cmd
}

// importTasks inserts in reverse so each list keeps its exported order, since
// insertion prepends.
func importTasks(a *app.App, doc exportDoc, warn io.Writer) (imported, skipped int) {
	insert := func(list []model.Task, trashed bool) {
		for _, t := range slices.Backward(list) {
			if err := a.Store.Insert(t); err != nil {
				fmt.Fprintf(warn, "skip %s: %v\n", t.ID, err)
				skipped++
				continue
			}
			if trashed {
				a.Store.MoveToTrash(t.ID)
			}
			imported++
		}
	}
	insert(doc.Trash, true)
	insert(doc.Tasks, false)
	return imported, skipped
}

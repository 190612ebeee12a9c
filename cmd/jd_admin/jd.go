package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-admin/internal/types"
)

func newTemplatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the JD field templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			templates, err := a.client().Templates(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load templates: %w", err)
			}
			return a.emit(templates, func() { a.printer.PrintTemplates(templates) })
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List job descriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var want types.Status
			if status != "" {
				want = types.Status(strings.ToUpper(status))
				switch want {
				case types.StatusDraft, types.StatusApproved, types.StatusRejected:
				default:
					return fmt.Errorf("--status must be DRAFT, APPROVED or REJECTED")
				}
			}

			records, err := a.client().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list JDs: %w", err)
			}
			if want != "" {
				filtered := records[:0]
				for _, r := range records {
					if r.Status == want {
						filtered = append(filtered, r)
					}
				}
				records = filtered
			}
			return a.emit(records, func() { a.printer.PrintRecords(records) })
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only show JDs with this status")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <jd-id>",
		Short: "Show one job description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := a.client().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get %s: %w", args[0], err)
			}
			return a.emit(record, func() { a.printer.PrintRecord(record) })
		},
	}
}

func newApproveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <jd-id>",
		Short: "Approve a draft job description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client().Approve(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to approve %s: %w", args[0], err)
			}
			return a.emit(resp, func() { a.printer.PrintStatus(resp) })
		},
	}
}

func newRejectCmd(a *app) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <jd-id>",
		Short: "Reject a job description with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client().Reject(cmd.Context(), args[0], reason)
			if err != nil {
				return fmt.Errorf("failed to reject %s: %w", args[0], err)
			}
			return a.emit(resp, func() { a.printer.PrintStatus(resp) })
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Why the JD was rejected")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func newRegenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate <jd-id>",
		Short: "Generate new text for a job description from its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := a.client().Regenerate(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to regenerate %s: %w", args[0], err)
			}
			return a.emit(record, func() { a.printer.PrintRecord(record) })
		},
	}
}

func newUpdateTextCmd(a *app) *cobra.Command {
	var (
		text     string
		textFile string
	)

	cmd := &cobra.Command{
		Use:   "update-text <jd-id>",
		Short: "Replace the text of a job description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readText(cmd, text, textFile)
			if err != nil {
				return err
			}
			return a.updateText(cmd.Context(), args[0], body)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "New JD text")
	cmd.Flags().StringVar(&textFile, "text-file", "", "Read the new JD text from a file")
	cmd.MarkFlagsMutuallyExclusive("text", "text-file")
	cmd.MarkFlagsOneRequired("text", "text-file")
	return cmd
}

func (a *app) updateText(ctx context.Context, jdID, text string) error {
	record, err := a.client().UpdateText(ctx, jdID, text)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", jdID, err)
	}
	return a.emit(record, func() { a.printer.PrintRecord(record) })
}

// readText returns the --text value, or the contents of --text-file when set.
func readText(cmd *cobra.Command, text, textFile string) (string, error) {
	if !cmd.Flags().Changed("text-file") {
		return text, nil
	}
	data, err := os.ReadFile(textFile)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", textFile, err)
	}
	return string(data), nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-admin/internal/form"
	"github.com/jonathan/jd-admin/internal/types"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		text string
		file string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract JD fields from pasted text or a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api := a.client()
			var (
				result *types.ExtractionResult
				err    error
			)

			if cmd.Flags().Changed("file") {
				name := filepath.Base(file)
				if !form.AcceptedUpload(name) {
					return fmt.Errorf("unsupported file type: %s (accepted: %s)", name,
						strings.Join(form.AcceptedUploadExtensions, ", "))
				}
				f, openErr := os.Open(file)
				if openErr != nil {
					return fmt.Errorf("failed to open %s: %w", file, openErr)
				}
				defer f.Close()
				result, err = api.ExtractFile(cmd.Context(), name, f)
			} else {
				if strings.TrimSpace(text) == "" {
					return fmt.Errorf("--text is empty")
				}
				result, err = api.ExtractText(cmd.Context(), text)
			}
			if err != nil {
				return fmt.Errorf("failed to extract fields: %w", err)
			}
			return a.emit(result, func() { a.printer.PrintExtraction(result) })
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "JD text to extract fields from")
	cmd.Flags().StringVar(&file, "file", "", "PDF or DOCX document to extract fields from")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
	cmd.MarkFlagsOneRequired("text", "file")
	return cmd
}

package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-admin/internal/form"
	"github.com/jonathan/jd-admin/internal/types"
)

// fieldFlags maps draft field keys to their command line flags.
var fieldFlags = []struct {
	key   string
	flag  string
	usage string
}{
	{form.FieldTitle, "title", "Job title"},
	{form.FieldLevel, "level", "Seniority level"},
	{form.FieldMandatorySkills, "skills", "Mandatory skills, comma separated"},
	{form.FieldNiceToHaveSkills, "nice-to-have", "Nice-to-have skills, comma separated"},
	{form.FieldLocation, "location", "Work location"},
	{form.FieldTeamSize, "team-size", "Team size; a leading number is used"},
	{form.FieldBudget, "budget", "Budget or salary range"},
	{form.FieldInclusionCriteria, "include", "Inclusion criteria, comma separated"},
	{form.FieldExclusionCriteria, "exclude", "Exclusion criteria, comma separated"},
}

func newCreateCmd(a *app) *cobra.Command {
	var template string
	values := make(map[string]*string, len(fieldFlags))

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate a draft job description from fields",
		Long: "Generate a draft job description. Fields come from the flags, on top of a named " +
			"template when --template is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api := a.client()
			var draft form.Draft

			if template != "" {
				templates, err := api.Templates(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to load templates: %w", err)
				}
				t, ok := templates[template]
				if !ok {
					return fmt.Errorf("unknown template %q", template)
				}
				draft.ApplyTemplate(t)
			}

			for _, f := range fieldFlags {
				if cmd.Flags().Changed(f.flag) {
					if err := draft.Set(f.key, *values[f.key]); err != nil {
						return err
					}
				}
			}

			fields, err := draft.BuildFields()
			if err != nil {
				return describeValidation(err)
			}

			record, err := api.Create(cmd.Context(), fields)
			if err != nil {
				return fmt.Errorf("failed to create JD: %w", err)
			}
			a.logger.Info().Str("jd_id", record.JDID).Msg("draft JD created")
			return a.emit(record, func() { a.printer.PrintRecord(record) })
		},
	}

	cmd.Flags().StringVar(&template, "template", "", "Start from a named template")
	for _, f := range fieldFlags {
		values[f.key] = cmd.Flags().String(f.flag, "", f.usage)
	}
	return cmd
}

// describeValidation names the flags behind required-field errors.
func describeValidation(err error) error {
	var vErr *types.ValidationError
	if !errors.As(err, &vErr) {
		return err
	}

	flagOf := make(map[string]string, len(fieldFlags))
	for _, f := range fieldFlags {
		flagOf[f.key] = f.flag
	}

	msgs := make([]string, 0, len(vErr.Fields))
	for key, msg := range vErr.Fields {
		if flag, ok := flagOf[key]; ok {
			msg = fmt.Sprintf("%s (--%s)", msg, flag)
		}
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return fmt.Errorf("invalid fields: %s", strings.Join(msgs, "; "))
}

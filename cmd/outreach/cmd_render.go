package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sangkips/outreach-engine/internal/domains/templates"
	"github.com/spf13/cobra"
)

var (
	templateFile string
	templateType string
	subject      string
	contactFile  string
	setValues    []string
	strict       bool
)

// renderCmd renders a template for one contact
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a template for one contact",
	Long: `Substitute {{placeholders}} in a template with contact values.

Values come from --contact (a JSON object of strings, e.g. one record printed
by "outreach import") and --set key=value pairs, which win over the file.
Placeholders without a value render as empty text and are listed on stderr;
with --strict they make the command fail instead.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

// previewCmd renders a template to preview HTML
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a template to preview HTML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readTemplate(cmd)
		if err != nil {
			return err
		}
		rc, err := loadContext()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), templates.RenderPreviewHTML(body, rc))
		return nil
	},
}

// placeholdersCmd lists template placeholders
var placeholdersCmd = &cobra.Command{
	Use:   "placeholders",
	Short: "List the placeholders a template uses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readTemplate(cmd)
		if err != nil {
			return err
		}
		for _, name := range templates.Placeholders(subject + "\n" + body) {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{renderCmd, previewCmd, placeholdersCmd} {
		c.Flags().StringVarP(&templateFile, "template", "t", "", `template body file ("-" for stdin)`)
		c.MarkFlagRequired("template")
	}
	for _, c := range []*cobra.Command{renderCmd, placeholdersCmd} {
		c.Flags().StringVar(&subject, "subject", "", "email subject template")
	}
	for _, c := range []*cobra.Command{renderCmd, previewCmd} {
		c.Flags().StringVar(&contactFile, "contact", "", "JSON file with contact values")
		c.Flags().StringArrayVar(&setValues, "set", nil, "contact value as key=value (repeatable)")
	}
	renderCmd.Flags().StringVar(&templateType, "type", string(templates.ChannelEmail), "template type (email, instagram, tiktok, linkedin, voicemail)")
	renderCmd.Flags().BoolVar(&strict, "strict", false, "fail when a placeholder has no value")

	rootCmd.AddCommand(renderCmd, previewCmd, placeholdersCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	body, err := readTemplate(cmd)
	if err != nil {
		return err
	}
	rc, err := loadContext()
	if err != nil {
		return err
	}

	tmpl := templates.Template{
		Name:    templateFile,
		Type:    templates.Channel(templateType),
		Subject: subject,
		Body:    body,
	}
	if err := tmpl.Validate(); err != nil {
		return err
	}

	out := tmpl.Render(rc)
	if out.Subject != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Subject: %s\n\n", out.Subject)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.Body)

	if len(out.Unresolved) > 0 {
		if strict {
			return fmt.Errorf("unresolved placeholders: %s", strings.Join(out.Unresolved, ", "))
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: no value for %s\n", strings.Join(out.Unresolved, ", "))
	}
	return nil
}

func readTemplate(cmd *cobra.Command) (string, error) {
	var (
		data []byte
		err  error
	)
	if templateFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(templateFile)
	}
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

func loadContext() (templates.RenderContext, error) {
	rc := templates.RenderContext{}

	if contactFile != "" {
		data, err := os.ReadFile(contactFile)
		if err != nil {
			return nil, fmt.Errorf("read contact: %w", err)
		}
		if err := json.Unmarshal(data, &rc); err != nil {
			return nil, fmt.Errorf("parse contact: %w", err)
		}
	}

	for _, kv := range setValues {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--set expects key=value, got %q", kv)
		}
		rc[key] = value
	}
	return rc, nil
}

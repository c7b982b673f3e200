// Package doccmd implements the document commands: get, list, create,
// update, delete, count and last. All of them are thin wrappers over
// pkg/frappe sharing the same connection flags.
package doccmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/docbridge/docbridge/pkg/frappe"
)

// Base carries the UI, logger and connection flags shared by every document
// command.
type Base struct {
	UI  cli.Ui
	Log hclog.Logger

	flagURL       string
	flagToken     string
	flagTokenType string
	flagTimeout   time.Duration
	flagConfig    string
	flagProfile   string
	flagVerbose   bool
}

// Flags returns a flag set pre-populated with the shared connection flags.
func (b *Base) Flags(name string) *flag.FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(io.Discard)

	f.StringVar(&b.flagURL, "url", os.Getenv("DOCBRIDGE_URL"),
		"Base URL of the remote service (or DOCBRIDGE_URL)")
	f.StringVar(&b.flagToken, "token", "",
		"API token (or DOCBRIDGE_TOKEN)")
	f.StringVar(&b.flagTokenType, "token-type", "",
		"Authorization scheme: Bearer or token")
	f.DurationVar(&b.flagTimeout, "timeout", 30*time.Second,
		"HTTP request timeout")
	f.StringVar(&b.flagConfig, "config", defaultConfigPath(),
		"Path to the YAML profile file")
	f.StringVar(&b.flagProfile, "profile", os.Getenv("DOCBRIDGE_PROFILE"),
		"Named profile in the config file")
	f.BoolVar(&b.flagVerbose, "v", false,
		"Enable debug logging")

	return f
}

func flagUsage(name string, f *flag.FlagSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nOptions for %s:\n", name)
	f.SetOutput(&sb)
	f.PrintDefaults()
	f.SetOutput(io.Discard)
	return sb.String()
}

// DocumentClient builds the client from flags, environment and the profile
// file, in that precedence order.
func (b *Base) DocumentClient() (*frappe.DocumentClient, error) {
	if b.flagVerbose {
		b.Log.SetLevel(hclog.Debug)
	}

	prof, err := resolveProfile(b.flagConfig, b.flagProfile)
	if err != nil {
		return nil, err
	}

	baseURL := b.flagURL
	if baseURL == "" {
		baseURL = prof.URL
	}
	if baseURL == "" {
		return nil, fmt.Errorf("no base URL: set -url, DOCBRIDGE_URL or a profile")
	}

	token := b.flagToken
	if token == "" {
		token = os.Getenv("DOCBRIDGE_TOKEN")
	}

	tokenType := b.flagTokenType
	if tokenType == "" {
		tokenType = prof.TokenType
	}

	client, err := frappe.New(&frappe.Config{
		BaseURL:   baseURL,
		UseToken:  token != "",
		TokenType: tokenType,
		TokenProvider: func() string {
			return token
		},
		Timeout: b.flagTimeout,
		Logger:  b.Log,
	})
	if err != nil {
		return nil, err
	}

	return frappe.NewDocumentClient(client), nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".docbridge.yaml")
}

// writeJSON prints v as indented JSON on the UI.
func (b *Base) writeJSON(v any) int {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		b.UI.Error(fmt.Sprintf("error rendering output: %v", err))
		return 1
	}
	b.UI.Output(string(out))
	return 0
}

// readDocument parses a JSON document from the argument, or from stdin when
// the argument is "-".
func (b *Base) readDocument(arg string) (frappe.Document, error) {
	data := []byte(arg)
	if arg == "-" {
		var err error
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read document from stdin: %w", err)
		}
	}

	var doc frappe.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid document JSON: %w", err)
	}
	return doc, nil
}

// parseFilters parses a JSON filter array like [["age",">",20]].
func parseFilters(raw string) ([]frappe.Filter, error) {
	if raw == "" {
		return nil, nil
	}
	var filters []frappe.Filter
	if err := json.Unmarshal([]byte(raw), &filters); err != nil {
		return nil, fmt.Errorf("invalid filters JSON: %w", err)
	}
	return filters, nil
}

package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/docbridge/docbridge/internal/cmd/commands/doccmd"
	"github.com/docbridge/docbridge/internal/cmd/commands/versioncmd"
)

// Commands is the mapping of all available CLI commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	base := &doccmd.Base{
		UI:  ui,
		Log: log,
	}

	Commands = map[string]cli.CommandFactory{
		"get": func() (cli.Command, error) {
			return &doccmd.GetCommand{Base: base}, nil
		},
		"list": func() (cli.Command, error) {
			return &doccmd.ListCommand{Base: base}, nil
		},
		"create": func() (cli.Command, error) {
			return &doccmd.CreateCommand{Base: base}, nil
		},
		"update": func() (cli.Command, error) {
			return &doccmd.UpdateCommand{Base: base}, nil
		},
		"delete": func() (cli.Command, error) {
			return &doccmd.DeleteCommand{Base: base}, nil
		},
		"count": func() (cli.Command, error) {
			return &doccmd.CountCommand{Base: base}, nil
		},
		"last": func() (cli.Command, error) {
			return &doccmd.LastCommand{Base: base}, nil
		},
		"version": func() (cli.Command, error) {
			return &versioncmd.Command{UI: ui}, nil
		},
	}
}

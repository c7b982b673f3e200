package doccmd

import (
	"context"
	"fmt"
)

type DeleteCommand struct {
	*Base
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete a document"
}

func (c *DeleteCommand) Help() string {
	return `Usage: docbridge delete <doctype> <name>

  Delete a document and print the server's raw response.

  Example:
    docbridge delete Task TASK-0001
` + flagUsage("delete", c.Flags("delete"))
}

func (c *DeleteCommand) Run(args []string) int {
	f := c.Flags("delete")
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	rest := f.Args()
	if len(rest) != 2 {
		c.UI.Error("usage: docbridge delete <doctype> <name>")
		return 1
	}

	db, err := c.DocumentClient()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	body, err := db.Delete(context.Background(), rest[0], rest[1])
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	return c.writeJSON(body)
}

package doccmd

import (
	"context"
	"fmt"
)

type GetCommand struct {
	*Base
}

func (c *GetCommand) Synopsis() string {
	return "Fetch one document by doctype and name"
}

func (c *GetCommand) Help() string {
	return `Usage: docbridge get <doctype> <name>

  Fetch a single document and print it as JSON.

  Example:
    docbridge get Task TASK-0001
` + flagUsage("get", c.Flags("get"))
}

func (c *GetCommand) Run(args []string) int {
	f := c.Flags("get")
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	rest := f.Args()
	if len(rest) != 2 {
		c.UI.Error("usage: docbridge get <doctype> <name>")
		return 1
	}

	db, err := c.DocumentClient()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	doc, err := db.Get(context.Background(), rest[0], rest[1])
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	return c.writeJSON(doc)
}

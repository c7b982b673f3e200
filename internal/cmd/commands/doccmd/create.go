package doccmd

import (
	"context"
	"fmt"
)

type CreateCommand struct {
	*Base
}

func (c *CreateCommand) Synopsis() string {
	return "Create a new document"
}

func (c *CreateCommand) Help() string {
	return `Usage: docbridge create <doctype> <json|->

  Create a document from a JSON object given as an argument, or read from
  stdin when the argument is "-".

  Example:
    docbridge create Task '{"subject":"Write the report"}'
    cat task.json | docbridge create Task -
` + flagUsage("create", c.Flags("create"))
}

func (c *CreateCommand) Run(args []string) int {
	f := c.Flags("create")
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	rest := f.Args()
	if len(rest) != 2 {
		c.UI.Error("usage: docbridge create <doctype> <json|->")
		return 1
	}

	doc, err := c.readDocument(rest[1])
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	db, err := c.DocumentClient()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	created, err := db.Create(context.Background(), rest[0], doc)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	return c.writeJSON(created)
}

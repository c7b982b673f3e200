package doccmd

import (
	"context"
	"fmt"
)

type UpdateCommand struct {
	*Base
}

func (c *UpdateCommand) Synopsis() string {
	return "Update fields of an existing document"
}

func (c *UpdateCommand) Help() string {
	return `Usage: docbridge update <doctype> <name> <json|->

  Apply a partial document: only the fields present in the JSON change.

  Example:
    docbridge update Task TASK-0001 '{"status":"Completed"}'
` + flagUsage("update", c.Flags("update"))
}

func (c *UpdateCommand) Run(args []string) int {
	f := c.Flags("update")
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	rest := f.Args()
	if len(rest) != 3 {
		c.UI.Error("usage: docbridge update <doctype> <name> <json|->")
		return 1
	}

	doc, err := c.readDocument(rest[2])
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	db, err := c.DocumentClient()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	updated, err := db.Update(context.Background(), rest[0], rest[1], doc)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	return c.writeJSON(updated)
}

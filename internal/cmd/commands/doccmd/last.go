package doccmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/docbridge/docbridge/pkg/frappe"
)

type LastCommand struct {
	*Base

	flagFilters string
	flagOrderBy string
	flagOrder   string
}

func (c *LastCommand) Synopsis() string {
	return "Fetch the most recent document of a doctype"
}

func (c *LastCommand) Help() string {
	return `Usage: docbridge last <doctype> [options]

  Fetch the full latest document, by creation time unless -order-by says
  otherwise. Prints {} when the doctype has no matching documents.

  Example:
    docbridge last Task -filters '[["status","=","Open"]]'
` + flagUsage("last", c.lastFlags())
}

func (c *LastCommand) lastFlags() *flag.FlagSet {
	f := c.Flags("last")
	f.StringVar(&c.flagFilters, "filters", "", "Filters as a JSON array")
	f.StringVar(&c.flagOrderBy, "order-by", "", "Field to order by instead of creation")
	f.StringVar(&c.flagOrder, "order", "", "Order direction: asc or desc")
	return f
}

func (c *LastCommand) Run(args []string) int {
	f := c.lastFlags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	rest := f.Args()
	if len(rest) != 1 {
		c.UI.Error("usage: docbridge last <doctype> [options]")
		return 1
	}

	filters, err := parseFilters(c.flagFilters)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	var lastArgs *frappe.ListArgs
	if filters != nil || c.flagOrderBy != "" {
		lastArgs = &frappe.ListArgs{Filters: filters}
		if c.flagOrderBy != "" {
			lastArgs.OrderBy = &frappe.OrderBy{Field: c.flagOrderBy, Order: c.flagOrder}
		}
	}

	db, err := c.DocumentClient()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	doc, err := db.GetLast(context.Background(), rest[0], lastArgs)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	return c.writeJSON(doc)
}

package doccmd

import (
	"context"
	"flag"
	"fmt"
)

type CountCommand struct {
	*Base

	flagFilters string
	flagCache   bool
	flagDebug   bool
}

func (c *CountCommand) Synopsis() string {
	return "Count documents matching filters"
}

func (c *CountCommand) Help() string {
	return `Usage: docbridge count <doctype> [options]

  Count documents of a doctype, optionally restricted by filters.

  Example:
    docbridge count Task -filters '[["status","=","Open"]]'
` + flagUsage("count", c.countFlags())
}

func (c *CountCommand) countFlags() *flag.FlagSet {
	f := c.Flags("count")
	f.StringVar(&c.flagFilters, "filters", "", "Filters as a JSON array")
	f.BoolVar(&c.flagCache, "cache", false, "Allow the server to answer from cache")
	f.BoolVar(&c.flagDebug, "debug", false, "Ask the server for query debug output")
	return f
}

func (c *CountCommand) Run(args []string) int {
	f := c.countFlags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	rest := f.Args()
	if len(rest) != 1 {
		c.UI.Error("usage: docbridge count <doctype> [options]")
		return 1
	}

	filters, err := parseFilters(c.flagFilters)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	db, err := c.DocumentClient()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	count, err := db.Count(context.Background(), rest[0], filters, c.flagCache, c.flagDebug)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	c.UI.Output(fmt.Sprintf("%d", count))
	return 0
}

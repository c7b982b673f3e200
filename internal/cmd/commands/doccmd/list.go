package doccmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/docbridge/docbridge/pkg/frappe"
)

type ListCommand struct {
	*Base

	flagFields     string
	flagFilters    string
	flagOrFilters  string
	flagOrderBy    string
	flagOrder      string
	flagGroupBy    string
	flagLimit      int
	flagLimitStart int
	flagAsList     bool
}

func (c *ListCommand) Synopsis() string {
	return "List documents of a doctype"
}

func (c *ListCommand) Help() string {
	return `Usage: docbridge list <doctype> [options]

  List documents and print them as a JSON array. Filters use the wire form,
  a JSON array of [field, operator, value] triples.

  Example:
    docbridge list Task -fields name,subject -filters '[["status","=","Open"]]' -limit 20
` + flagUsage("list", c.listFlags())
}

func (c *ListCommand) listFlags() *flag.FlagSet {
	f := c.Flags("list")
	f.StringVar(&c.flagFields, "fields", "", "Comma-separated fields to project")
	f.StringVar(&c.flagFilters, "filters", "", "AND-combined filters as a JSON array")
	f.StringVar(&c.flagOrFilters, "or-filters", "", "OR-combined filters as a JSON array")
	f.StringVar(&c.flagOrderBy, "order-by", "", "Field to order by")
	f.StringVar(&c.flagOrder, "order", "", "Order direction: asc or desc")
	f.StringVar(&c.flagGroupBy, "group-by", "", "Field to group by")
	f.IntVar(&c.flagLimit, "limit", -1, "Maximum number of documents")
	f.IntVar(&c.flagLimitStart, "limit-start", -1, "Pagination offset")
	f.BoolVar(&c.flagAsList, "as-list", false, "Return positional arrays instead of keyed objects")
	return f
}

func (c *ListCommand) Run(args []string) int {
	f := c.listFlags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	rest := f.Args()
	if len(rest) != 1 {
		c.UI.Error("usage: docbridge list <doctype> [options]")
		return 1
	}

	listArgs, err := c.buildArgs()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	db, err := c.DocumentClient()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	docs, err := db.List(context.Background(), rest[0], listArgs)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	return c.writeJSON(docs)
}

// buildArgs converts flags to ListArgs, returning nil when no list option
// was given so the server applies its own defaults.
func (c *ListCommand) buildArgs() (*frappe.ListArgs, error) {
	args := &frappe.ListArgs{}
	used := false

	if c.flagFields != "" {
		args.Fields = strings.Split(c.flagFields, ",")
		used = true
	}

	filters, err := parseFilters(c.flagFilters)
	if err != nil {
		return nil, err
	}
	if filters != nil {
		args.Filters = filters
		used = true
	}

	orFilters, err := parseFilters(c.flagOrFilters)
	if err != nil {
		return nil, err
	}
	if orFilters != nil {
		args.OrFilters = orFilters
		used = true
	}

	if c.flagOrderBy != "" {
		args.OrderBy = &frappe.OrderBy{Field: c.flagOrderBy, Order: c.flagOrder}
		used = true
	}
	if c.flagGroupBy != "" {
		args.GroupBy = c.flagGroupBy
		used = true
	}
	if c.flagLimit >= 0 {
		args.Limit = frappe.Int(c.flagLimit)
		used = true
	}
	if c.flagLimitStart >= 0 {
		args.LimitStart = frappe.Int(c.flagLimitStart)
		used = true
	}
	if c.flagAsList {
		args.AsDict = frappe.Bool(false)
		used = true
	}

	if !used {
		return nil, nil
	}
	return args, nil
}

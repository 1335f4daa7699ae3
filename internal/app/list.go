package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portkill/portkill/internal/filter"
	"github.com/portkill/portkill/internal/output"
)

type listOptions struct {
	all         bool
	established bool
	text        string
	port        uint16
	jsonOut     bool
	short       bool
	tree        bool
	sort        string
	desc        bool
}

func (c *cli) newListCmd() *cobra.Command {
	o := &listOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List TCP sockets and their owning processes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runList(cmd, o)
		},
	}
	addListFlags(cmd, o)
	return cmd
}

func addListFlags(cmd *cobra.Command, o *listOptions) {
	f := cmd.Flags()
	f.BoolVarP(&o.all, "all", "a", false, "show sockets in every state")
	f.BoolVarP(&o.established, "established", "e", false, "show established connections only")
	f.StringVarP(&o.text, "filter", "f", "", "match port number or process name")
	f.Uint16VarP(&o.port, "port", "p", 0, "show only this local port")
	f.BoolVar(&o.jsonOut, "json", false, "print JSON")
	f.BoolVar(&o.short, "short", false, "one compact line per socket")
	f.BoolVar(&o.tree, "tree", false, "group sockets under their process")
	f.StringVar(&o.sort, "sort", filter.SortPort, "sort by port, process, pid or state")
	f.BoolVar(&o.desc, "desc", false, "reverse the sort order")
	cmd.MarkFlagsMutuallyExclusive("all", "established")
	cmd.MarkFlagsMutuallyExclusive("json", "short", "tree")
}

// viewMode resolves the state filter: flags win over the configured view.
func viewMode(o *listOptions, configured string) (filter.Mode, error) {
	switch {
	case o.all:
		return filter.ModeAll, nil
	case o.established:
		return filter.ModeEstablished, nil
	}
	return filter.ParseMode(configured)
}

func (c *cli) runList(cmd *cobra.Command, o *listOptions) error {
	mode, err := viewMode(o, c.cfg.Show)
	if err != nil {
		return err
	}
	sortCol := c.cfg.Sort
	if cmd.Flags().Changed("sort") {
		sortCol = o.sort
	}
	if err := filter.ValidSort(sortCol); err != nil {
		return err
	}

	env, err := newRuntimeEnv(c.cfg)
	if err != nil {
		return err
	}
	snap := env.scan(cmd.Context())
	if err := snap.Err(); err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	snap.Records = filter.Apply(snap.Records, filter.Options{Mode: mode, Text: o.text, Port: o.port})
	filter.Sort(snap.Records, sortCol, o.desc)

	out := cmd.OutOrStdout()
	if o.jsonOut {
		s, err := output.ToJSON(snap)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
		return nil
	}

	for _, w := range snap.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}

	color := c.colorEnabled(out)
	switch {
	case o.short:
		output.RenderShort(out, snap.Records, color)
	case o.tree:
		output.PrintTree(out, snap.Records, color)
	default:
		output.RenderTable(out, snap.Records, color, terminalWidth(out))
	}
	return nil
}

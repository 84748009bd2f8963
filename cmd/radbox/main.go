// Command radbox parses, converts and inspects boxed protocol values
// from the command line, with an optional persistent value store.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Serophos/freeradius-server/valuebox"
	"github.com/Serophos/freeradius-server/valuebox/store"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "types":
		err = cmdTypes()
	case "parse":
		err = cmdParse(flag.Args()[1:])
	case "cast":
		err = cmdCast(flag.Args()[1:])
	case "cmp":
		err = cmdCompare(flag.Args()[1:])
	case "put":
		err = cmdPut(flag.Args()[1:])
	case "get":
		err = cmdGet(flag.Args()[1:])
	case "ls":
		err = cmdList(flag.Args()[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func usage() {
	prog := os.Args[0]
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", prog)
	fmt.Fprintf(os.Stderr, "Parse, convert and inspect boxed protocol values.\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  types                        list every value kind and its wire size\n")
	fmt.Fprintf(os.Stderr, "  parse -kind K [-quote Q] V   parse V and show all three formats\n")
	fmt.Fprintf(os.Stderr, "  cast -from K -to K V         parse V then cast it\n")
	fmt.Fprintf(os.Stderr, "  cmp -kind K A OP B           evaluate A OP B (==, !=, <, <=, >, >=)\n")
	fmt.Fprintf(os.Stderr, "  put -db D -kind K NAME V     store a parsed value\n")
	fmt.Fprintf(os.Stderr, "  get -db D NAME               load and print a stored value\n")
	fmt.Fprintf(os.Stderr, "  ls -db D [PREFIX]            list stored names\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s parse -kind octets 0xDEADBEEF\n", prog)
	fmt.Fprintf(os.Stderr, "  %s cast -from ipv4prefix -to octets 10.0.0.0/8\n", prog)
	fmt.Fprintf(os.Stderr, "  %s cmp -kind ipv4prefix 10.1.2.3/32 '<=' 10.0.0.0/8\n", prog)
}

func kindArg(name string) (valuebox.Kind, error) {
	k, ok := valuebox.KindByName(name)
	if !ok {
		return valuebox.KindInvalid, fmt.Errorf("unknown kind %q (see %q)", name, "types")
	}
	return k, nil
}

func quoteArg(q string) (byte, error) {
	switch q {
	case "":
		return 0, nil
	case `"`, "'", "`":
		return q[0], nil
	}
	return 0, fmt.Errorf("quote must be one of \", ' or `")
}

func cmdTypes() error {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"kind", "wire size", "notes"})

	for _, k := range valuebox.Kinds() {
		min, max := k.NetworkSizes()

		size := "-"
		note := ""
		switch {
		case min == 0 && max == 0:
			note = "no portable wire format"
		case max == valuebox.Unbounded:
			size = fmt.Sprintf("%d+", min)
			note = "variable length"
		default:
			size = fmt.Sprintf("%d", min)
		}
		table.Append([]string{k.String(), size, note})
	}

	table.Render()
	return nil
}

func cmdParse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	kindName := fs.String("kind", "string", "destination kind")
	quote := fs.String("quote", "", "quote character selecting the escape dialect")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("parse needs exactly one value argument")
	}

	kind, err := kindArg(*kindName)
	if err != nil {
		return err
	}
	q, err := quoteArg(*quote)
	if err != nil {
		return err
	}

	v, err := valuebox.FromString(kind, nil, fs.Arg(0), q, false)
	if err != nil {
		return err
	}
	printValue(v)
	return nil
}

func cmdCast(args []string) error {
	fs := flag.NewFlagSet("cast", flag.ExitOnError)
	fromName := fs.String("from", "string", "source kind the value parses as")
	toName := fs.String("to", "", "destination kind")
	_ = fs.Parse(args)
	if fs.NArg() != 1 || *toName == "" {
		return fmt.Errorf("cast needs -to and exactly one value argument")
	}

	from, err := kindArg(*fromName)
	if err != nil {
		return err
	}
	to, err := kindArg(*toName)
	if err != nil {
		return err
	}

	src, err := valuebox.FromString(from, nil, fs.Arg(0), 0, false)
	if err != nil {
		return err
	}
	dst, err := valuebox.Cast(to, nil, src)
	if err != nil {
		return err
	}
	printValue(dst)
	return nil
}

var opNames = map[string]valuebox.Op{
	"==": valuebox.OpEqual,
	"!=": valuebox.OpNotEqual,
	"<":  valuebox.OpLessThan,
	"<=": valuebox.OpLessEqual,
	">":  valuebox.OpGreaterThan,
	">=": valuebox.OpGreaterEqual,
}

func cmdCompare(args []string) error {
	fs := flag.NewFlagSet("cmp", flag.ExitOnError)
	kindName := fs.String("kind", "string", "kind both operands parse as")
	_ = fs.Parse(args)
	if fs.NArg() != 3 {
		return fmt.Errorf("cmp needs three arguments: A OP B")
	}

	kind, err := kindArg(*kindName)
	if err != nil {
		return err
	}
	op, ok := opNames[fs.Arg(1)]
	if !ok {
		return fmt.Errorf("unknown operator %q", fs.Arg(1))
	}

	a, err := valuebox.FromString(kind, nil, fs.Arg(0), 0, false)
	if err != nil {
		return err
	}
	b, err := valuebox.FromString(kind, nil, fs.Arg(2), 0, false)
	if err != nil {
		return err
	}

	match, err := valuebox.CompareOp(op, a, b)
	if err != nil {
		return err
	}
	if match {
		fmt.Println(color.GreenString("true"))
	} else {
		fmt.Println(color.YellowString("false"))
	}
	return nil
}

func printValue(v *valuebox.Value) {
	fmt.Printf("%s %s\n", color.CyanString("kind:"), v.Kind())
	fmt.Printf("%s %s\n", color.CyanString("text:"), v.String())
	fmt.Printf("%s %s\n", color.CyanString("quoted:"), v.QuotedString('"'))

	buf := make([]byte, v.NetworkLength())
	if _, _, err := v.ToNetwork(buf); err == nil {
		parts := make([]string, len(buf))
		for i, b := range buf {
			parts[i] = fmt.Sprintf("%02x", b)
		}
		fmt.Printf("%s [%s] (%d bytes)\n",
			color.CyanString("wire:"), strings.Join(parts, " "), len(buf))
	} else {
		fmt.Printf("%s %s\n", color.CyanString("wire:"), err)
	}
}

func openStore(path string) (*store.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("a database path is required (-db)")
	}
	return store.Open(store.Options{Path: path})
}

func cmdPut(args []string) error {
	fs := flag.NewFlagSet("put", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path")
	kindName := fs.String("kind", "string", "kind the value parses as")
	_ = fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("put needs NAME and VALUE arguments")
	}

	kind, err := kindArg(*kindName)
	if err != nil {
		return err
	}
	v, err := valuebox.FromString(kind, nil, fs.Arg(1), 0, false)
	if err != nil {
		return err
	}

	s, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.Put(fs.Arg(0), v)
}

func cmdGet(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("get needs a NAME argument")
	}

	s, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	v, err := s.Get(fs.Arg(0))
	if err != nil {
		return err
	}
	printValue(v)
	return nil
}

func cmdList(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path")
	_ = fs.Parse(args)

	s, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	names, err := s.Names(fs.Arg(0))
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

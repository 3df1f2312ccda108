package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/jfront/format"
	"github.com/dhamidi/jfront/java"
	"github.com/dhamidi/jfront/java/diag"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a Java source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, name, err := a.readSource(args)
			if err != nil {
				return err
			}
			res := java.Tokenize(src, a.analysis(name)...)
			docs := []*format.Document{format.Tokens(res.Tokens)}
			if len(res.Diagnostics) > 0 {
				docs = append(docs, format.Diagnostics(res.Diagnostics))
			}
			if err := a.emit(docs...); err != nil {
				return err
			}
			return failOn(res.Diagnostics)
		},
	}
}

func newStructureCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "structure [file]",
		Short: "Check delimiters, literals, comments and print statements",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _, err := a.readSource(args)
			if err != nil {
				return err
			}
			diags := java.CheckStructure(src)
			if err := a.emit(format.Diagnostics(diags)); err != nil {
				return err
			}
			return failOn(diags)
		},
	}
}

func newParseCmd(a *app) *cobra.Command {
	var tree bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a Java source and print the diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, name, err := a.readSource(args)
			if err != nil {
				return err
			}
			res := java.Parse(src, a.analysis(name)...)
			docs := []*format.Document{format.Diagnostics(res.Diagnostics)}
			if tree {
				docs = append(docs, format.Tree(res.Tree))
			}
			if err := a.emit(docs...); err != nil {
				return err
			}
			return failOn(res.Diagnostics)
		},
	}

	cmd.Flags().BoolVar(&tree, "tree", false, "also print the syntax tree")

	return cmd
}

func newSemanticsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "semantics [file]",
		Short: "Run only the semantic checks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _, err := a.readSource(args)
			if err != nil {
				return err
			}
			diags := java.AnalyzeSemantics(src)
			if err := a.emit(format.Diagnostics(diags)); err != nil {
				return err
			}
			return failOn(diags)
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	var symbols bool

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Run the whole front end and print every diagnostic",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, name, err := a.readSource(args)
			if err != nil {
				return err
			}
			report := java.Check(src, a.analysis(name)...)
			doc := format.Diagnostics(report.Diagnostics)
			if report.Gated {
				doc.Title += " (stopped after the structural scan)"
			}
			docs := []*format.Document{doc}
			if symbols {
				docs = append(docs, format.Symbols(report.Symbols))
			}
			if err := a.emit(docs...); err != nil {
				return err
			}
			return failOn(report.Diagnostics)
		},
	}

	cmd.Flags().BoolVar(&symbols, "symbols", false, "also print the symbol table")

	return cmd
}

func newSymbolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols [file]",
		Short: "Print the symbol table built while parsing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, name, err := a.readSource(args)
			if err != nil {
				return err
			}
			res := java.Parse(src, a.analysis(name)...)
			return a.emit(format.Symbols(res.Symbols))
		},
	}
}

func newClassesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "classes [file]",
		Aliases: []string{"outline"},
		Short:   "Outline the classes, fields and methods of a Java source",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, name, err := a.readSource(args)
			if err != nil {
				return err
			}
			return a.emit(format.Classes(java.ClassModelsFromSource(src, a.analysis(name)...)))
		},
	}
}

// failOn returns errFailed when diags holds anything but warnings.
func failOn(diags diag.List) error {
	if diags.HasErrors() {
		return errFailed
	}
	return nil
}

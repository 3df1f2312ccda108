package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/jfront/format"
	"github.com/dhamidi/jfront/java"
	"github.com/dhamidi/jfront/java/ir"
)

func newTriplesCmd(a *app) *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "triples [file]",
		Short: "Lower a Java source to triples",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _, err := a.readSource(args)
			if err != nil {
				return err
			}
			triples := java.GenerateTriples(src)
			docs := []*format.Document{format.Triples(triples)}
			if stats {
				docs = append(docs, format.Stats(ir.TripleStats(triples)))
			}
			return a.emit(docs...)
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "also print instruction statistics")

	return cmd
}

func newQuadsCmd(a *app) *cobra.Command {
	var stats, object, validate bool

	cmd := &cobra.Command{
		Use:     "quads [file]",
		Aliases: []string{"quadruples"},
		Short:   "Lower a Java source to quadruples",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _, err := a.readSource(args)
			if err != nil {
				return err
			}
			quads := java.GenerateQuadruples(src)
			docs := []*format.Document{format.Quadruples(quads)}
			if object {
				docs = append(docs, format.ObjectCode(ir.ObjectCode(quads)))
			}
			if stats {
				docs = append(docs, format.Stats(ir.QuadrupleStats(quads)))
			}
			var problems []error
			if validate {
				problems = ir.ValidateQuadruples(quads)
				docs = append(docs, format.Problems(problems))
			}
			if err := a.emit(docs...); err != nil {
				return err
			}
			if len(problems) > 0 {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "also print instruction statistics")
	cmd.Flags().BoolVar(&object, "object", false, "also print the object code")
	cmd.Flags().BoolVar(&validate, "validate", false, "check labels and temporaries and fail on problems")

	return cmd
}

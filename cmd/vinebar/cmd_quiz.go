package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/go-vinebar-venice/internal/flow"
	"github.com/FACorreiaa/go-vinebar-venice/internal/types"
)

func (a *cli) quizCmd() *cobra.Command {
	var answers []string

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Show the quiz, or classify answers with --answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if len(answers) == 0 {
				q := a.c.QuizService.Questions(cmd.Context())
				for i, question := range q.Questions {
					fmt.Fprintf(out, "%d. %s\n", i+1, question.Prompt)
					for _, option := range question.Options {
						fmt.Fprintf(out, "   - %s\n", option)
					}
				}
				return nil
			}

			var result *types.QuizResult
			run := flow.Schedule(cmd.Context(), a.logger, flow.SurpriseReveal(a.c.Config.Flow, func(ctx context.Context) {
				r := a.c.QuizService.Result(ctx, answers)
				result = &r
			})...)
			fmt.Fprintln(out, "Pouring your glass...")
			run.Wait()

			if result == nil {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
			fmt.Fprintf(out, "Your kind of bar: %s\n", result.Category)
			printVenue(out, result.Venue)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&answers, "answers", nil, "one answer per question, in order (repeatable)")
	return cmd
}

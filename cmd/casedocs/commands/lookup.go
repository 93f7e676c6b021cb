package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/pkg/authz"
)

func lookupCmd() *cobra.Command {
	var (
		surveyor  string
		documents bool
	)

	cmd := &cobra.Command{
		Use:   "lookup REF...",
		Short: "Look up case refs for a surveyor and print response tokens",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			refs := make([]casedocs.CaseRef, 0, len(args))
			for _, arg := range args {
				refs = append(refs, casedocs.CaseRef(arg))
			}

			result, err := a.service.Lookup(cmd.Context(), authz.NewSurveyor(surveyor, ""), casedocs.LookupRequest{
				Refs:             refs,
				IncludeDocuments: documents,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.Unavailable {
				fmt.Fprintln(out, "case store unavailable")
				return nil
			}

			for _, token := range result.Tokens() {
				fmt.Fprintln(out, token)
			}
			for _, ref := range result.Authorized {
				fmt.Fprintf(out, "%s:A\n", ref)
				for _, aDocument := range result.Documents[ref] {
					fmt.Fprintf(out, "\t%s\t%s\n", aDocument.Title, aDocument.FileName)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&surveyor, "surveyor", "s", "", "surveyor code to look up cases for")
	cmd.Flags().BoolVarP(&documents, "documents", "d", false, "list documents of authorized cases")
	cobra.CheckErr(cmd.MarkFlagRequired("surveyor"))

	return cmd
}

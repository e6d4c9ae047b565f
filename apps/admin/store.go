package main

import (
	"github.com/spf13/cobra"
)

func (cli *commandLine) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop the stored dataset and generate a new one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				if err := cli.confirm("All recorded results will be lost. Continue?"); err != nil {
					return err
				}
			}
			ds, err := cli.deps.Store.Reset(cmd.Context())
			if err != nil {
				return err
			}
			cli.printf("generated %d students, %d results, %d fee records\n", len(ds.Students), len(ds.Results), len(ds.Fees))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (cli *commandLine) notifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify-at-risk",
		Short: "Email the parents of the students at risk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := cli.deps.SchoolSvc.NotifyAtRisk(cmd.Context(), cli.deps.MailSvc)
			if err != nil {
				return err
			}
			cli.deps.MailSvc.Wait()
			cli.printf("%d emails sent\n", n)
			return nil
		},
	}
}

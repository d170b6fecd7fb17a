/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/doctran/internal/catalog"
	"github.com/valpere/doctran/internal/config"
	"github.com/valpere/doctran/internal/store"
)

var (
	jobsLimit int
	jobsShow  bool
)

var jobsCmd = &cobra.Command{
	Use:   "jobs [id]",
	Short: "Show the translation job history",
	Long: `List recent text and document jobs, newest first, with their status,
chunk counts and the positions of chunks that failed.

Pass a job ID to print the translated text of that job.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Decode(viper.GetViper())
		if err != nil {
			return err
		}
		newLogger(cfg)

		db, err := store.New(cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		limit := jobsLimit
		if len(args) == 1 {
			limit = 0
		}
		jobs, err := db.ListJobs(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("failed to list jobs: %w", err)
		}

		if len(args) == 1 {
			for _, j := range jobs {
				if j.ID == args[0] {
					fmt.Println(j.ResultText)
					return nil
				}
			}
			return fmt.Errorf("no job with ID %s", args[0])
		}

		if len(jobs) == 0 {
			fmt.Println("No jobs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tKIND\tFILE\tTARGET\tMODEL\tSTATUS\tCHUNKS\tFAILED\tSKIPPED")
		for _, j := range jobs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%d\n",
				j.ID, j.Timestamp.Format("2006-01-02 15:04"), j.Kind, orDash(j.Filename),
				j.TargetLanguage, catalog.DisplayName(j.Model), j.Status,
				j.TotalChunks, orDash(joinInts(j.FailedChunks)), j.DroppedSegments)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if jobsShow {
			for _, j := range jobs {
				fmt.Printf("\n--- %s ---\n%s\n", j.ID, j.ResultText)
			}
		}
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(jobsCmd)

	jobsCmd.Flags().IntVarP(&jobsLimit, "limit", "n", 20, "Number of jobs to list (0 = all)")
	jobsCmd.Flags().BoolVar(&jobsShow, "show", false, "Also print each job's translated text")
}

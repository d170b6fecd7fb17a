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
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/valpere/doctran/internal/catalog"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the supported target languages",
	Long: `Print the target language names accepted by --target, one per line.

A BCP-47 tag such as "uk" or "pt-BR" is also accepted and mapped to its
English name. Other names are passed to the model as given.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range catalog.Languages() {
			if name == catalog.DefaultLanguage {
				fmt.Printf("%s (default)\n", name)
				continue
			}
			fmt.Println(name)
		}
	},
}

var modelsBackend string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models available per backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backends := catalog.Backends()
		if modelsBackend != "" {
			if !slices.Contains(backends, modelsBackend) {
				return fmt.Errorf("unknown backend %q", modelsBackend)
			}
			backends = []string{modelsBackend}
		}

		for i, b := range backends {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s:\n", b)
			def := catalog.DefaultModelFor(b)
			for _, m := range catalog.Models(b) {
				if m == def {
					fmt.Printf("  %s (default)\n", catalog.DisplayName(m))
					continue
				}
				fmt.Printf("  %s\n", catalog.DisplayName(m))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().StringVar(&modelsBackend, "for", "", "Only list models for this backend")
}

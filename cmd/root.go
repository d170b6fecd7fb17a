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
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/doctran/internal/config"
)

var version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "doctran",
	Short: "Translate English text and documents with an LLM",
	Long: `A CLI application that translates English text or PDF, DOCX and TXT documents
into a chosen target language using a generative model.

Documents are split into small chunks that are translated one after another;
a failed chunk is reported and skipped, and the rest are reassembled in order.

Supported backends: gemini (default), vertex, openai, openrouter, ollama, google

Use "doctran doc --help" for document options.`,
	Version:      version,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.doctran.yaml)")
	pf.StringP("backend", "b", "gemini", "Translation backend: gemini, vertex, openai, openrouter, ollama, google")
	pf.StringP("model", "m", "", "Model name (default depends on the backend)")
	pf.StringP("target", "t", "", "Target language name, e.g. Hindi (default Hindi)")
	pf.String("instructions", "", "Custom instructions replacing the default prompt")
	pf.String("api-key", "", "API key for the selected backend")
	pf.String("db", "", "SQLite database for the cache and job history (default $HOME/.doctran.db)")
	pf.String("cache", "", "Cache backend: memory, sqlite or bolt (default sqlite)")
	pf.Int("cache-size", 0, "Maximum entries in the memory cache (0 = unbounded)")
	pf.String("font", "", "TrueType font for PDF output (default DejaVuSans.ttf)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (default warn)")

	viper.BindPFlag("backend", pf.Lookup("backend"))
	viper.BindPFlag("model", pf.Lookup("model"))
	viper.BindPFlag("target_language", pf.Lookup("target"))
	viper.BindPFlag("instructions", pf.Lookup("instructions"))
	viper.BindPFlag("api_key", pf.Lookup("api-key"))
	viper.BindPFlag("db", pf.Lookup("db"))
	viper.BindPFlag("cache.backend", pf.Lookup("cache"))
	viper.BindPFlag("cache.size", pf.Lookup("cache-size"))
	viper.BindPFlag("writer.font", pf.Lookup("font"))
	viper.BindPFlag("log_level", pf.Lookup("log-level"))
}

func initConfig() {
	if err := config.Configure(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger. Logs go to stderr so stdout carries
// only translation output.
func newLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return logger
}

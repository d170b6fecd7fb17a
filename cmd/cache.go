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
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/doctran/internal/cache"
	"github.com/valpere/doctran/internal/catalog"
	"github.com/valpere/doctran/internal/config"
	"github.com/valpere/doctran/internal/store"
)

// cacheAdmin is the management surface shared by the persistent caches.
type cacheAdmin interface {
	Entries(ctx context.Context) ([]cache.Entry, error)
	Stats(ctx context.Context) (*cache.Stats, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) (int64, error)
	Close() error
}

var errMemoryCache = errors.New("the memory cache lives only for one run; set cache.backend to sqlite or bolt to manage it")

// openCacheAdmin opens the configured persistent cache. It needs no
// backend credential.
func openCacheAdmin() (cacheAdmin, error) {
	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return nil, err
	}
	newLogger(cfg)

	switch cfg.Cache.Backend {
	case "memory":
		return nil, errMemoryCache
	case "bolt":
		return cache.OpenBolt(cfg.Cache.Path)
	}
	db, err := store.New(cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the translation cache",
	Long:  `List, inspect, and clear the persistent translation cache (sqlite or bolt).`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cached translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCacheAdmin()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.Entries(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No entries in the translation cache.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTARGET\tMODEL\tUSED\tLAST USED\tTEXT")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				e.ID[:12], e.Key.TargetLanguage, catalog.DisplayName(e.Key.Model),
				e.UsageCount, e.LastUsed.Format("2006-01-02 15:04"),
				snippet(e.Key.Text, 40))
		}
		return w.Flush()
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show translation cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCacheAdmin()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total entries: %d\n", stats.Entries)
		fmt.Printf("Total usage:   %d\n", stats.TotalUsage)
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a cached translation by ID or ID prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCacheAdmin()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		id, err := matchEntry(ctx, db, args[0])
		if err != nil {
			return err
		}
		if err := db.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		fmt.Printf("Deleted entry: %s\n", id)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached translations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCacheAdmin()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.Clear(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Printf("Cleared %d entries from the translation cache.\n", n)
		return nil
	},
}

// matchEntry resolves a full ID or a unique prefix as printed by "cache list".
func matchEntry(ctx context.Context, db cacheAdmin, prefix string) (string, error) {
	entries, err := db.Entries(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list entries: %w", err)
	}
	var found []string
	for _, e := range entries {
		if e.ID == prefix {
			return e.ID, nil
		}
		if len(prefix) >= 4 && strings.HasPrefix(e.ID, prefix) {
			found = append(found, e.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no cache entry matches %q", prefix)
	case 1:
		return found[0], nil
	}
	return "", fmt.Errorf("%q matches %d entries, use a longer prefix", prefix, len(found))
}

// snippet shortens s to at most n runes on a single line.
func snippet(s string, n int) string {
	r := []rune(s)
	for i, c := range r {
		if c == '\n' || c == '\t' {
			r[i] = ' '
		}
	}
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return string(r)
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

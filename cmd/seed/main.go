// Command seed 写入演示用户（同邮箱的旧数据会被替换）
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"skill_barter/config"
	"skill_barter/db"
	"skill_barter/logger"
	"skill_barter/services"
)

var (
	configPath string
	seedFile   string
	noEmbed    bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo users",
	Long: "Replaces users that share an email with the seed data. Uses the built-in demo users\n" +
		"(Alice_Code, Bob_Builder, Charlie_Design) unless --file points to a JSON array.",
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config.yaml")
	rootCmd.Flags().StringVarP(&seedFile, "file", "f", "", "JSON file with users to seed")
	rootCmd.Flags().BoolVar(&noEmbed, "no-embed", false, "skip embedding generation")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := config.LoadFrom(configPath)
	if err := logger.Init(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := db.InitMySQLWithConfig(cfg); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	deps := services.Deps{}
	if !noEmbed {
		d, err := services.NewDepsFromConfig(ctx, cfg)
		if err != nil {
			return err
		}
		deps.Embedder = d.Embedder
	}
	services.Setup(cfg, deps)

	seeds := services.DemoUsers()
	if seedFile != "" {
		loaded, err := services.LoadSeedFile(seedFile)
		if err != nil {
			return err
		}
		seeds = loaded
	}

	n, err := services.SeedUsers(ctx, seeds)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users\n", n)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

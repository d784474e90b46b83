// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/go-arcade/teamhub/internal/bootstrap"
	"github.com/go-arcade/teamhub/internal/engine/repo"
	"github.com/go-arcade/teamhub/pkg/log"
	"github.com/go-arcade/teamhub/pkg/version"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "teamhub",
	Short: "teamhub manages teams, memberships and invitations",
	Long:  "teamhub manages teams, memberships and invitations",
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			return
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := bootstrap.Bootstrap(configFile, initApp)
		if err != nil {
			return err
		}
		bootstrap.Run(app, cleanup)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, cleanup, err := initDatabase(configFile)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := repo.AutoMigrate(db); err != nil {
			return err
		}
		log.Info("database schema migrated")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "conf", "c", "conf.d/config.toml", "conf file path, e.g. --conf ./conf.d/config.toml")
	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd, version.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}

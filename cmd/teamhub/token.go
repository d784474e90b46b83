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
	"errors"
	"fmt"

	"github.com/go-arcade/teamhub/internal/engine/config"
	"github.com/go-arcade/teamhub/pkg/http/jwt"
	"github.com/spf13/cobra"
)

var tokenUserId string

// tokenCmd 用配置中的 http.auth.secretKey 签发调试令牌，生产环境令牌由登录服务签发
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "issue a bearer token for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUserId == "" {
			return errors.New("--user is required")
		}
		appConf, err := config.LoadConfigFile(configFile)
		if err != nil {
			return err
		}
		auth := appConf.Http.Auth
		token, err := jwt.GenToken(tokenUserId, []byte(auth.SecretKey), auth.AccessTTL())
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenUserId, "user", "u", "", "user id carried in the token")
}

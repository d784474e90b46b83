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

package version

import (
	"fmt"
	"runtime"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

const AppName = "teamhub"

// 构建时通过 -ldflags "-X github.com/go-arcade/teamhub/pkg/version.Version=..." 注入
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the teamhub build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := sonic.ConfigStd.MarshalIndent(GetVersion(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

type Info struct {
	App       string `json:"app"`
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit,omitempty"`
	BuildTime string `json:"buildTime,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func GetVersion() Info {
	return Info{
		App:       AppName,
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String 单行形式，用于启动日志
func (v Info) String() string {
	if v.GitCommit == "" {
		return fmt.Sprintf("%s %s (%s)", v.App, v.Version, v.GoVersion)
	}
	return fmt.Sprintf("%s %s-%s (%s)", v.App, v.Version, v.GitCommit, v.GoVersion)
}

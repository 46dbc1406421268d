// Package version 링커 플래그(-ldflags)로 주입된 빌드 정보와 런타임 환경 정보를 제공합니다.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

const unknown = "unknown"

// 다음 변수들은 빌드 시점에 -ldflags "-X ..."로 주입된다. 직접 참조하지 말고 Get()을 사용한다.
var (
	appVersion    = ""
	gitCommitHash = ""
	gitTreeState  = ""
	buildDate     = ""
)

// readBuildInfo 테스트에서 교체할 수 있도록 변수로 선언한다.
var readBuildInfo = debug.ReadBuildInfo

// Info 애플리케이션의 빌드 정보입니다.
type Info struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	DirtyBuild bool   `json:"dirty_build"`
}

var current = sync.OnceValue(func() Info {
	return enrich(Info{
		Version:    strings.TrimSpace(appVersion),
		Commit:     strings.TrimSpace(gitCommitHash),
		BuildDate:  strings.TrimSpace(buildDate),
		DirtyBuild: strings.EqualFold(strings.TrimSpace(gitTreeState), "dirty"),
	})
})

// Get 애플리케이션의 빌드 정보를 반환합니다.
func Get() Info {
	return current()
}

// enrich 비어 있는 필드를 런타임 정보와 debug.ReadBuildInfo의 VCS 메타데이터로 채웁니다.
func enrich(bi Info) Info {
	bi.GoVersion = runtime.Version()
	bi.OS = runtime.GOOS
	bi.Arch = runtime.GOARCH

	if info, ok := readBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if bi.Commit == "" {
					bi.Commit = setting.Value
				}
			case "vcs.time":
				if bi.BuildDate == "" {
					bi.BuildDate = setting.Value
				}
			case "vcs.modified":
				if setting.Value == "true" {
					bi.DirtyBuild = true
				}
			}
		}
		if bi.Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			bi.Version = info.Main.Version
		}
	}

	if bi.Version == "" {
		bi.Version = unknown
	}
	if bi.Commit == "" {
		bi.Commit = unknown
	}
	if bi.BuildDate == "" {
		bi.BuildDate = unknown
	}

	return bi
}

// ToMap 구조적 로깅용 맵을 반환합니다.
func (i Info) ToMap() map[string]any {
	return map[string]any{
		"version":     i.Version,
		"commit":      i.Commit,
		"build_date":  i.BuildDate,
		"go_version":  i.GoVersion,
		"os":          i.OS,
		"arch":        i.Arch,
		"dirty_build": i.DirtyBuild,
	}
}

// String 빌드 정보를 한 줄로 요약합니다. 예: "v1.2.0+dirty (commit: f25b8bf, go1.24.0 linux/amd64)"
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = unknown
	}
	if i.DirtyBuild {
		v += "+dirty"
	}

	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}

	return fmt.Sprintf("%s (commit: %s, %s %s/%s)", v, commit, i.GoVersion, i.OS, i.Arch)
}

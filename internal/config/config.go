// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	Identity Identity `yaml:"identity"`
	OAuth    OAuth    `yaml:"oauth"`
	Browser  Browser  `yaml:"browser"`
	Avatars  Avatars  `yaml:"avatars"`
}

// Identity describes the Authentication-as-a-Service backend.
type Identity struct {
	Endpoint commoncfg.SourceRef `yaml:"endpoint"`
	Project  commoncfg.SourceRef `yaml:"project"`
	Platform string              `yaml:"platform" default:"com.openkcm.listings"`
}

type OAuth struct {
	Provider string `yaml:"provider" default:"google"`
	// RedirectBase is the scheme and authority the app root route is served on.
	RedirectBase string `yaml:"redirectBase" default:"http://127.0.0.1:8765"`
	RedirectPath string `yaml:"redirectPath" default:"/"`
}

type Browser struct {
	// Command overrides the OS specific browser opener.
	Command string `yaml:"command"`
}

type Avatars struct {
	CacheTTL time.Duration `yaml:"cacheTTL" default:"1h"`
}

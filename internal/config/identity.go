package config

import (
	"fmt"
	"strings"

	"github.com/openkcm/common-sdk/pkg/commoncfg"

	"github.com/openkcm/auth-session/internal/serviceerr"
)

// IdentityValues holds the resolved identity backend settings.
type IdentityValues struct {
	Endpoint string
	Project  string
	Platform string
}

func LoadIdentity(conf Identity) (IdentityValues, error) {
	endpoint, err := commoncfg.LoadValueFromSourceRef(conf.Endpoint)
	if err != nil {
		return IdentityValues{}, fmt.Errorf("loading identity endpoint: %w", err)
	}

	project, err := commoncfg.LoadValueFromSourceRef(conf.Project)
	if err != nil {
		return IdentityValues{}, fmt.Errorf("loading identity project: %w", err)
	}

	values := IdentityValues{
		Endpoint: strings.TrimSuffix(strings.TrimSpace(string(endpoint)), "/"),
		Project:  strings.TrimSpace(string(project)),
		Platform: conf.Platform,
	}

	if values.Endpoint == "" {
		return IdentityValues{}, serviceerr.ErrInvalidConfiguration.WithDescription("identity endpoint is empty")
	}
	if values.Project == "" {
		return IdentityValues{}, serviceerr.ErrInvalidConfiguration.WithDescription("identity project is empty")
	}

	return values, nil
}

package config

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/mod/semver"
)

// normalize adds the "v" prefix semver requires.
func normalize(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

// compareVersions returns 1 if v1 > v2, -1 if v1 < v2 and 0 if equal.
func compareVersions(v1, v2 string) (int, error) {
	v1Norm := normalize(v1)
	v2Norm := normalize(v2)

	if !semver.IsValid(v1Norm) {
		return 0, errors.New("invalid version: " + v1)
	}
	if !semver.IsValid(v2Norm) {
		return 0, errors.New("invalid version: " + v2)
	}

	return semver.Compare(v1Norm, v2Norm), nil
}

// CheckVersion errors when the settings file was written by a newer
// release than running. Dev builds and unversioned files pass.
func (s *Config) CheckVersion(running string) error {
	if s.Version == "" {
		return nil
	}

	if !semver.IsValid(normalize(running)) {
		return nil
	}

	cmp, err := compareVersions(s.Version, running)
	if err != nil {
		return errors.Wrap(err, "CheckVersion")
	}
	if cmp > 0 {
		return errors.Errorf("settings were written by drawpad %s, running %s", s.Version, running)
	}

	return nil
}

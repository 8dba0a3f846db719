package config

import (
	"fmt"
	"strings"
)

// Validate checks the spec for the mistakes that would otherwise only
// surface as opaque ARM errors half a deployment later.
func (s *Spec) Validate() error {
	if err := validateName("name", s.Name); err != nil {
		return err
	}
	if err := validateName("environment", s.Environment); err != nil {
		return err
	}
	if s.ResourceGroup == "" {
		return fmt.Errorf("resource_group is required")
	}
	if s.Location == "" {
		return fmt.Errorf("location is required")
	}

	if s.Image == "" {
		return fmt.Errorf("image is required")
	}
	if !strings.Contains(s.Image, ":") {
		return fmt.Errorf("image %q has no tag; pin an explicit tag", s.Image)
	}

	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port %d is out of range 1-65535", s.Port)
	}

	if s.Replicas.Min < 0 {
		return fmt.Errorf("replicas.min cannot be negative")
	}
	if s.Replicas.Max < 1 {
		return fmt.Errorf("replicas.max must be at least 1")
	}
	if s.Replicas.Min > s.Replicas.Max {
		return fmt.Errorf("replicas.min %d exceeds replicas.max %d", s.Replicas.Min, s.Replicas.Max)
	}

	if s.Verify.Path != "" && !strings.HasPrefix(s.Verify.Path, "/") {
		return fmt.Errorf("verify.path %q must start with /", s.Verify.Path)
	}

	if s.Archive != nil {
		if s.Archive.Endpoint == "" || s.Archive.Bucket == "" {
			return fmt.Errorf("archive requires both endpoint and bucket")
		}
	}

	return nil
}

package sources

import (
	"strings"

	"github.com/matzehuels/toolcatalog/pkg/catalog"
	"github.com/matzehuels/toolcatalog/pkg/config"
	"github.com/matzehuels/toolcatalog/pkg/errors"
)

// parseRequirement reads "name:constraint"; the constraint is optional.
func parseRequirement(s string) (catalog.Requirement, error) {
	name, constraint, _ := strings.Cut(strings.TrimSpace(s), ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return catalog.Requirement{}, errors.New(errors.ErrCodeInvalidRequirement, "requirement %q has no name", s)
	}
	return catalog.NewRequirement(name, strings.TrimSpace(constraint)), nil
}

func parseList(entries []string) (catalog.RequirementList, error) {
	var l catalog.RequirementList
	for _, e := range entries {
		r, err := parseRequirement(e)
		if err != nil {
			return catalog.RequirementList{}, err
		}
		if err := l.Add(r); err != nil {
			return catalog.RequirementList{}, err
		}
	}
	return l, nil
}

// toolRequirements converts the static requirements of a source.
func toolRequirements(cfg config.RequirementsConfig) (catalog.ToolRequirements, error) {
	runtime, err := parseList(cfg.PHP)
	if err != nil {
		return catalog.ToolRequirements{}, err
	}
	library, err := parseList(cfg.Composer)
	if err != nil {
		return catalog.ToolRequirements{}, err
	}
	return catalog.ToolRequirements{Runtime: runtime, Library: library}, nil
}

// clone copies r so that every yielded version owns its lists.
func cloneToolRequirements(r catalog.ToolRequirements) catalog.ToolRequirements {
	return catalog.ToolRequirements{Runtime: *r.Runtime.Clone(), Library: *r.Library.Clone()}
}

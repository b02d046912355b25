package netconfig

import (
	"github.com/samber/lo"
)

// ExpandDeploymentTargets resolves a DeploymentTargets selection to concrete
// account names. Organizational units are treated as pre-expanded account
// lists by the upstream config layer, so only excludedAccounts filtering
// happens here. Exclusion always wins, even over an explicit inclusion.
func ExpandDeploymentTargets(targets DeploymentTargets, ouAccounts map[string][]string) []string {
	names := append([]string{}, targets.Accounts...)
	for _, ou := range targets.OrganizationalUnits {
		names = append(names, ouAccounts[ou]...)
	}

	names = lo.Uniq(names)

	return lo.Filter(names, func(name string, _ int) bool {
		return !lo.Contains(targets.ExcludedAccounts, name)
	})
}

// TargetsAccount reports whether the selection includes the named account
// after exclusions are applied.
func TargetsAccount(targets DeploymentTargets, ouAccounts map[string][]string, account string) bool {
	return lo.Contains(ExpandDeploymentTargets(targets, ouAccounts), account)
}

// TargetsRegion reports whether the given region survives the selection's
// region exclusions.
func TargetsRegion(targets DeploymentTargets, region string) bool {
	return !lo.Contains(targets.ExcludedRegions, region)
}

// ShareAccounts resolves share targets to account names.
func ShareAccounts(targets ShareTargets, ouAccounts map[string][]string) []string {
	names := append([]string{}, targets.Accounts...)
	for _, ou := range targets.OrganizationalUnits {
		names = append(names, ouAccounts[ou]...)
	}
	return lo.Uniq(names)
}

package op_service

import "strings"

// PrefixEnvVar returns the env var name of a flag, e.g. PrefixEnvVar("OP_PROVENANCE", "rpc.base") is OP_PROVENANCE_RPC_BASE.
func PrefixEnvVar(prefix, suffix string) []string {
	name := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(suffix))
	return []string{prefix + "_" + name}
}

// FormatVersion joins the non-empty build details onto version with dashes.
// The commit is shortened to 8 characters.
func FormatVersion(version string, gitCommit string, gitDate string, meta string) string {
	if len(gitCommit) > 8 {
		gitCommit = gitCommit[:8]
	}
	parts := []string{version}
	for _, p := range []string{gitCommit, gitDate, meta} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "-")
}

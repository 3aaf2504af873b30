// Package policy defines the branch-protection rules applied to every newly
// created repository's default branch.
package policy

import (
	"fmt"
	"strings"

	"github.com/google/go-github/v55/github"
)

const (
	dismissStaleReviews          = false
	requireCodeOwnerReviews      = true
	requiredApprovingReviewCount = 1
	enforceAdmins                = true
	allowForcePushes             = false
)

// Request builds the fixed protection payload. Every newly created
// repository gets exactly these rules, no per-repo variation.
func Request() *github.ProtectionRequest {
	return &github.ProtectionRequest{
		RequiredPullRequestReviews: &github.PullRequestReviewsEnforcementRequest{
			DismissStaleReviews:          dismissStaleReviews,
			RequireCodeOwnerReviews:      requireCodeOwnerReviews,
			RequiredApprovingReviewCount: requiredApprovingReviewCount,
		},
		EnforceAdmins:    enforceAdmins,
		AllowForcePushes: github.Bool(allowForcePushes),
	}
}

// Describe renders the policy as a readable list for notification issues.
func Describe(branch string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following protections were applied to the `%s` branch:\n", branch)
	fmt.Fprintf(&b, "- Require %d approving review before merging\n", requiredApprovingReviewCount)
	b.WriteString("- Require review from Code Owners\n")
	b.WriteString("- Stale reviews are kept when new commits are pushed\n")
	b.WriteString("- Rules are enforced for administrators\n")
	b.WriteString("- Force pushes are disabled\n")
	return b.String()
}

package ci

import "regexp"

// NotifyBranch reports whether the branch matches the allow pattern. The
// pattern is searched anywhere in the branch name, it does not have to match
// the full string.
func NotifyBranch(branch string, pattern string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(branch), nil
}

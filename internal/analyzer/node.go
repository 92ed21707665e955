package analyzer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// MinNodeMajor is the oldest Node.js major version the analyzers support.
const MinNodeMajor = 20

// CheckNodeVersion runs "node -v" and verifies the major version is at
// least minMajor. It returns the reported version.
func CheckNodeVersion(ctx context.Context, c Commander, minMajor int) (string, error) {
	if c == nil {
		c = ExecCommander{}
	}

	stdout, _, err := c.Run(ctx, "node", "-v")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNodeNotFound, err)
	}

	version := strings.TrimPrefix(strings.TrimSpace(string(stdout)), "v")
	majorPart, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(majorPart)
	if err != nil {
		return version, fmt.Errorf("%w: cannot parse version %q", ErrNodeNotFound, version)
	}

	if major < minMajor {
		return version, fmt.Errorf("%w: found %s, need %d or newer", ErrNodeTooOld, version, minMajor)
	}
	return version, nil
}

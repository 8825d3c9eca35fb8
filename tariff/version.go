package tariff

import (
	"strconv"
	"strings"
)

// CompareVersions compares dotted numeric versions such as "1.6.0". It
// returns 1 when a is newer, -1 when b is newer and 0 when they are equal.
// Missing or non-numeric parts count as 0.
func CompareVersions(a, b string) int {
	pa := strings.Split(a, ".")
	pb := strings.Split(b, ".")
	n := len(pa)
	if len(pb) > n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		va, vb := versionPart(pa, i), versionPart(pb, i)
		if va > vb {
			return 1
		}
		if va < vb {
			return -1
		}
	}
	return 0
}

func versionPart(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0
	}
	return v
}

// UpdateStatus compares the loaded document version with a remote one.
type UpdateStatus struct {
	Current   string `json:"current"`
	Remote    string `json:"remote"`
	Available bool   `json:"available"`
	Different bool   `json:"different"`
}

// NewUpdateStatus reports whether remote is newer than current.
func NewUpdateStatus(current, remote string) UpdateStatus {
	return UpdateStatus{
		Current:   current,
		Remote:    remote,
		Available: CompareVersions(remote, current) > 0,
		Different: remote != current,
	}
}

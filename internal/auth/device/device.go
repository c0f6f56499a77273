package device

import (
	"net/netip"
	"strings"

	"github.com/mssola/user_agent"

	"github.com/nusacargo/backoffice-auth/pkg/constant"
)

// Describe turns a raw User-Agent header into a short human-readable device
// descriptor for audit rows and security alerts. Anything unparseable maps to
// the "unknown" sentinel, never an empty string.
func Describe(userAgentString string) string {
	if strings.TrimSpace(userAgentString) == "" {
		return constant.UnknownSentinel
	}

	ua := user_agent.New(userAgentString)
	browser, version := ua.Browser()
	os := ua.OS()

	var parts []string
	if browser != "" {
		if version != "" {
			parts = append(parts, browser+" "+version)
		} else {
			parts = append(parts, browser)
		}
	}
	if os != "" {
		parts = append(parts, os)
	}
	if len(parts) == 0 {
		return constant.UnknownSentinel
	}

	desc := strings.Join(parts, " on ")
	if ua.Mobile() {
		desc += " (mobile)"
	} else if ua.Bot() {
		desc += " (bot)"
	}

	return desc
}

// CoarseLocation classifies the source address. There is no geo lookup here;
// the point is that internal traffic is labeled as such and everything else
// is an explicit "unknown" rather than a blank that reads as trusted.
func CoarseLocation(ipAddress string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(ipAddress))
	if err != nil {
		return constant.UnknownSentinel
	}
	if addr.IsLoopback() || addr.IsPrivate() {
		return "internal network"
	}

	return constant.UnknownSentinel
}
